package network

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamClientFraming(t *testing.T) {
	require := require.New(t)

	a, b := net.Pipe()
	east, west := newStreamClient(a), newStreamClient(b)
	defer east.Close()
	defer west.Close()

	payload := bytes.Repeat([]byte("versus"), 100)
	go func() {
		west.Send(payload)
	}()
	msg, err := east.Receive()
	require.Nil(err)
	require.Equal(uint8(TransportMessageVersion), msg.Version)
	require.Equal(payload, msg.Data)

	go func() {
		east.Send([]byte{PeerMessageTypeRematchStart})
	}()
	msg, err = west.Receive()
	require.Nil(err)
	require.Equal([]byte{PeerMessageTypeRematchStart}, msg.Data)

	err = east.Send(nil)
	require.NotNil(err)
	err = east.Send(make([]byte, TransportMessageMaxSize+1))
	require.NotNil(err)
}

func TestStreamClientBadFrames(t *testing.T) {
	require := require.New(t)

	a, b := net.Pipe()
	east := newStreamClient(a)
	defer east.Close()
	defer b.Close()

	go func() {
		b.Write([]byte{9, 0, 0, 0, 1, 42})
	}()
	_, err := east.Receive()
	require.NotNil(err)
	require.Contains(err.Error(), "invalid message version")

	a, b = net.Pipe()
	east = newStreamClient(a)
	defer east.Close()
	defer b.Close()

	go func() {
		b.Write([]byte{TransportMessageVersion, 0xff, 0xff, 0xff, 0xff})
	}()
	_, err = east.Receive()
	require.NotNil(err)
	require.Contains(err.Error(), "invalid message size")

	a, b = net.Pipe()
	east = newStreamClient(a)
	defer east.Close()
	defer b.Close()

	go func() {
		// well formed header but garbage where gzip data should be
		b.Write([]byte{TransportMessageVersion, 0, 0, 0, 2, 42, 42})
	}()
	_, err = east.Receive()
	require.NotNil(err)
}

func TestPeerHandshake(t *testing.T) {
	require := require.New(t)

	a, b := net.Pipe()
	errs := make(chan error, 2)
	peers := make(chan *Peer, 2)
	for _, conn := range []net.Conn{a, b} {
		go func(conn net.Conn) {
			p, err := setupPeer(newStreamClient(conn), true)
			errs <- err
			peers <- p
		}(conn)
	}
	require.Nil(<-errs)
	require.Nil(<-errs)
	east, west := <-peers, <-peers
	require.NotNil(east)
	require.NotNil(west)
	east.Close()
	west.Close()
}

func TestPeerHandshakeVersionMismatch(t *testing.T) {
	require := require.New(t)

	a, b := net.Pipe()
	defer b.Close()

	impostor := newStreamClient(b)
	go func() {
		// drain the hello sent by the peer under test
		impostor.Receive()
	}()
	go func() {
		data := append([]byte{PeerMessageTypeHello}, msgpackMarshalPanic(helloPayload{Version: 99})...)
		impostor.Send(data)
	}()

	_, err := setupPeer(newStreamClient(a), false)
	require.NotNil(err)
	require.ErrorIs(err, ErrVersionMismatch)
}

func TestPeerHandshakeRejectsNonHello(t *testing.T) {
	require := require.New(t)

	a, b := net.Pipe()
	defer b.Close()

	impostor := newStreamClient(b)
	go func() {
		impostor.Receive()
	}()
	go func() {
		impostor.Send(buildRematchStartMessage())
	}()

	_, err := setupPeer(newStreamClient(a), false)
	require.NotNil(err)
	require.Contains(err.Error(), "expects hello")
}
