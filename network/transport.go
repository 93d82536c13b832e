package network

import (
	"context"
	"fmt"
	"net"
	"time"
)

const (
	TransportMessageVersion    = 1
	TransportMessageMaxSize    = 32 * 1024
	TransportMessageHeaderSize = 5

	HandshakeTimeout = 3 * time.Second
	DialTimeout      = 10 * time.Second
	WriteDeadline    = 5 * time.Second
)

type TransportMessage struct {
	Version uint8
	Size    uint32
	Data    []byte
}

type Client interface {
	RemoteAddr() net.Addr
	Receive() (*TransportMessage, error)
	Send([]byte) error
	Close() error
}

type Transport interface {
	Listen() error
	Dial(ctx context.Context) (Client, error)
	Accept(ctx context.Context) (Client, error)
	Addr() net.Addr
	Close() error
}

func NewTransport(name, addr string) (Transport, error) {
	switch name {
	case "tcp":
		return NewTcpTransport(addr)
	case "quic":
		return NewQuicTransport(addr)
	case "ws":
		return NewWsTransport(addr)
	case "unix":
		return NewUnixTransport(addr)
	}
	return nil, fmt.Errorf("unsupported transport %q", name)
}
