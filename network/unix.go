package network

import (
	"context"
	"net"
)

// UnixTransport plays over a filesystem socket, useful for two consoles on
// the same machine without touching the network at all.
type UnixTransport struct {
	addr     string
	listener *net.UnixListener
}

func NewUnixTransport(addr string) (*UnixTransport, error) {
	return &UnixTransport{addr: addr}, nil
}

func (t *UnixTransport) Listen() error {
	l, err := net.Listen("unix", t.addr)
	if err != nil {
		return err
	}
	t.listener = l.(*net.UnixListener)
	return nil
}

func (t *UnixTransport) Accept(ctx context.Context) (Client, error) {
	if deadline, ok := ctx.Deadline(); ok {
		err := t.listener.SetDeadline(deadline)
		if err != nil {
			return nil, err
		}
	}
	conn, err := t.listener.Accept()
	if err != nil {
		return nil, err
	}
	return newStreamClient(conn), nil
}

func (t *UnixTransport) Dial(ctx context.Context) (Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", t.addr)
	if err != nil {
		return nil, err
	}
	return newStreamClient(conn), nil
}

func (t *UnixTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *UnixTransport) Close() error {
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}
