package network

import (
	"context"
	"net"
)

type TcpTransport struct {
	addr     string
	listener *net.TCPListener
}

func NewTcpTransport(addr string) (*TcpTransport, error) {
	return &TcpTransport{addr: addr}, nil
}

func (t *TcpTransport) Listen() error {
	l, err := net.Listen("tcp", t.addr)
	if err != nil {
		return err
	}
	t.listener = l.(*net.TCPListener)
	return nil
}

func (t *TcpTransport) Accept(ctx context.Context) (Client, error) {
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

func (t *TcpTransport) Dial(ctx context.Context) (Client, error) {
	d := &net.Dialer{Timeout: DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, err
	}
	return newStreamClient(conn), nil
}

func (t *TcpTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *TcpTransport) Close() error {
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}
