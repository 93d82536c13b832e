package network

import (
	"testing"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrips(t *testing.T) {
	require := require.New(t)

	msg, err := parseNetworkMessage(buildHelloMessage(7))
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeHello), msg.Type)
	require.Equal(uint8(7), msg.Version)

	msg, err = parseNetworkMessage(buildPlacementReadyMessage())
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypePlacementReady), msg.Type)

	coord := battleship.Coordinate{Row: 1, Col: 6}
	msg, err = parseNetworkMessage(buildFireMessage(coord))
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeFire), msg.Type)
	require.Equal(coord, msg.Coordinate)

	res := battleship.ShotResult{
		Coordinate: battleship.Coordinate{Row: 9, Col: 9},
		Hit:        true,
		Sunk:       battleship.ShipDestroyer,
		AllSunk:    true,
	}
	msg, err = parseNetworkMessage(buildFireResultMessage(res))
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeFireResult), msg.Type)
	require.Equal(res, msg.Result)

	miss := battleship.ShotResult{Coordinate: battleship.Coordinate{Row: 5, Col: 5}}
	msg, err = parseNetworkMessage(buildFireResultMessage(miss))
	require.Nil(err)
	require.Equal(miss, msg.Result)

	msg, err = parseNetworkMessage(buildRematchRequestMessage())
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeRematchRequest), msg.Type)

	msg, err = parseNetworkMessage(buildRematchStartMessage())
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeRematchStart), msg.Type)

	msg, err = parseNetworkMessage(buildDisconnectMessage("quit"))
	require.Nil(err)
	require.Equal(uint8(PeerMessageTypeDisconnect), msg.Type)
	require.Equal("quit", msg.Reason)
}

func TestMessageMalformed(t *testing.T) {
	require := require.New(t)

	cases := [][]byte{
		nil,
		{},
		{99},
		{0},
		{PeerMessageTypeHello},
		{PeerMessageTypeFire},
		{PeerMessageTypeFire, 0xff, 0xff},
		append([]byte{PeerMessageTypePlacementReady}, 1, 2, 3),
		append([]byte{PeerMessageTypeRematchRequest}, 0),
		append([]byte{PeerMessageTypeRematchStart}, 0),
		buildFireMessage(battleship.Coordinate{Row: 10, Col: 0}),
		buildFireMessage(battleship.Coordinate{Row: 0, Col: -1}),
		buildFireResultMessage(battleship.ShotResult{Coordinate: battleship.Coordinate{Row: 0, Col: 99}}),
		buildFireResultMessage(battleship.ShotResult{
			Coordinate: battleship.Coordinate{Row: 1, Col: 1},
			Hit:        true,
			Sunk:       "Tugboat",
		}),
		buildFireResultMessage(battleship.ShotResult{
			Coordinate: battleship.Coordinate{Row: 1, Col: 1},
			Hit:        false,
			Sunk:       battleship.ShipCruiser,
		}),
	}
	for _, data := range cases {
		msg, err := parseNetworkMessage(data)
		require.NotNil(err, "data %v", data)
		require.ErrorIs(err, ErrMalformedMessage, "data %v", data)
		require.Nil(msg)
	}
}
