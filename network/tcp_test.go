package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTcpTransport(t *testing.T) {
	require := require.New(t)

	serverTrans, err := NewTcpTransport("127.0.0.1:0")
	require.Nil(err)
	require.Nil(serverTrans.Addr())
	err = serverTrans.Listen()
	require.Nil(err)
	defer serverTrans.Close()
	require.NotNil(serverTrans.Addr())

	wait := make(chan struct{})
	go func() {
		defer close(wait)
		server, err := serverTrans.Accept(context.Background())
		require.Nil(err)
		require.NotNil(server)
		defer server.Close()
		msg, err := server.Receive()
		require.Nil(err)
		require.Equal("hello versus", string(msg.Data))
		err = server.Send([]byte("hello challenger"))
		require.Nil(err)
	}()

	clientTrans, err := NewTcpTransport(serverTrans.Addr().String())
	require.Nil(err)
	client, err := clientTrans.Dial(context.Background())
	require.Nil(err)
	require.NotNil(client)
	require.NotNil(client.RemoteAddr())
	defer client.Close()
	err = client.Send([]byte("hello versus"))
	require.Nil(err)
	msg, err := client.Receive()
	require.Nil(err)
	require.Equal("hello challenger", string(msg.Data))
	<-wait
}

func TestTcpAcceptDeadline(t *testing.T) {
	require := require.New(t)

	trans, err := NewTcpTransport("127.0.0.1:0")
	require.Nil(err)
	err = trans.Listen()
	require.Nil(err)
	defer trans.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = trans.Accept(ctx)
	require.NotNil(err)
}

func TestNewTransport(t *testing.T) {
	require := require.New(t)

	for _, name := range []string{"tcp", "quic", "ws", "unix"} {
		trans, err := NewTransport(name, "127.0.0.1:0")
		require.Nil(err, name)
		require.NotNil(trans, name)
	}

	trans, err := NewTransport("carrier-pigeon", "127.0.0.1:0")
	require.NotNil(err)
	require.Nil(trans)
}
