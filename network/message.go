package network

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/vmihailenco/msgpack/v4"
)

const (
	PeerMessageTypeHello          = 1
	PeerMessageTypePlacementReady = 2
	PeerMessageTypeFire           = 3
	PeerMessageTypeFireResult     = 4
	PeerMessageTypeRematchRequest = 5
	PeerMessageTypeRematchStart   = 6
	PeerMessageTypeDisconnect     = 7
)

var ErrMalformedMessage = errors.New("malformed message")

// PeerMessage is one decoded wire message, the first payload byte selects
// the type and the msgpack body fills the matching field.
type PeerMessage struct {
	Type       uint8
	Version    uint8
	Coordinate battleship.Coordinate
	Result     battleship.ShotResult
	Reason     string
}

type helloPayload struct {
	Version uint8
}

type firePayload struct {
	Row int
	Col int
}

type fireResultPayload struct {
	Row     int
	Col     int
	Hit     bool
	Sunk    string
	AllSunk bool
}

type disconnectPayload struct {
	Reason string
}

func buildHelloMessage(version uint8) []byte {
	data := helloPayload{Version: version}
	return append([]byte{PeerMessageTypeHello}, msgpackMarshalPanic(data)...)
}

func buildPlacementReadyMessage() []byte {
	return []byte{PeerMessageTypePlacementReady}
}

func buildFireMessage(c battleship.Coordinate) []byte {
	data := firePayload{Row: c.Row, Col: c.Col}
	return append([]byte{PeerMessageTypeFire}, msgpackMarshalPanic(data)...)
}

func buildFireResultMessage(r battleship.ShotResult) []byte {
	data := fireResultPayload{
		Row:     r.Coordinate.Row,
		Col:     r.Coordinate.Col,
		Hit:     r.Hit,
		Sunk:    string(r.Sunk),
		AllSunk: r.AllSunk,
	}
	return append([]byte{PeerMessageTypeFireResult}, msgpackMarshalPanic(data)...)
}

func buildRematchRequestMessage() []byte {
	return []byte{PeerMessageTypeRematchRequest}
}

func buildRematchStartMessage() []byte {
	return []byte{PeerMessageTypeRematchStart}
}

func buildDisconnectMessage(reason string) []byte {
	data := disconnectPayload{Reason: reason}
	return append([]byte{PeerMessageTypeDisconnect}, msgpackMarshalPanic(data)...)
}

func parseNetworkMessage(data []byte) (*PeerMessage, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty data", ErrMalformedMessage)
	}
	msg := &PeerMessage{Type: data[0]}
	switch msg.Type {
	case PeerMessageTypeHello:
		var p helloPayload
		err := msgpackUnmarshal(data[1:], &p)
		if err != nil {
			return nil, fmt.Errorf("%w: hello %s", ErrMalformedMessage, err)
		}
		msg.Version = p.Version
	case PeerMessageTypePlacementReady, PeerMessageTypeRematchRequest, PeerMessageTypeRematchStart:
		if len(data) != 1 {
			return nil, fmt.Errorf("%w: unexpected payload for type %d", ErrMalformedMessage, msg.Type)
		}
	case PeerMessageTypeFire:
		var p firePayload
		err := msgpackUnmarshal(data[1:], &p)
		if err != nil {
			return nil, fmt.Errorf("%w: fire %s", ErrMalformedMessage, err)
		}
		c := battleship.Coordinate{Row: p.Row, Col: p.Col}
		if !c.Valid() {
			return nil, fmt.Errorf("%w: fire coordinate (%d,%d)", ErrMalformedMessage, p.Row, p.Col)
		}
		msg.Coordinate = c
	case PeerMessageTypeFireResult:
		var p fireResultPayload
		err := msgpackUnmarshal(data[1:], &p)
		if err != nil {
			return nil, fmt.Errorf("%w: fire result %s", ErrMalformedMessage, err)
		}
		c := battleship.Coordinate{Row: p.Row, Col: p.Col}
		if !c.Valid() {
			return nil, fmt.Errorf("%w: fire result coordinate (%d,%d)", ErrMalformedMessage, p.Row, p.Col)
		}
		msg.Result = battleship.ShotResult{Coordinate: c, Hit: p.Hit, AllSunk: p.AllSunk}
		if p.Sunk != "" {
			if !p.Hit {
				return nil, fmt.Errorf("%w: sunk ship on a missed shot", ErrMalformedMessage)
			}
			class, ok := battleship.ClassOf(battleship.ShipType(p.Sunk))
			if !ok {
				return nil, fmt.Errorf("%w: unknown sunk ship %q", ErrMalformedMessage, p.Sunk)
			}
			msg.Result.Sunk = class.Type
		}
	case PeerMessageTypeDisconnect:
		var p disconnectPayload
		err := msgpackUnmarshal(data[1:], &p)
		if err != nil {
			return nil, fmt.Errorf("%w: disconnect %s", ErrMalformedMessage, err)
		}
		msg.Reason = p.Reason
	default:
		return nil, fmt.Errorf("%w: unknown message type %d", ErrMalformedMessage, msg.Type)
	}
	return msg, nil
}

func msgpackMarshalPanic(val interface{}) []byte {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf).UseCompactEncoding(true).SortMapKeys(true)
	err := enc.Encode(val)
	if err != nil {
		panic(fmt.Errorf("msgpackMarshalPanic: %#v %s", val, err))
	}
	return buf.Bytes()
}

func msgpackUnmarshal(data []byte, val interface{}) error {
	err := msgpack.Unmarshal(data, val)
	if err == nil {
		return nil
	}
	return fmt.Errorf("msgpackUnmarshal: %s %s", err, hex.EncodeToString(data))
}
