package network

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/CrymeFTW/1v1-games/logger"
	"github.com/gorilla/websocket"
)

// WsTransport carries one game per websocket connection, for setups where
// only HTTP traffic passes between the two machines. The websocket protocol
// already frames messages, so each game message rides one binary message.
type WsTransport struct {
	addr     string
	server   *http.Server
	listener net.Listener
	pending  chan *websocket.Conn
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewWsTransport(addr string) (*WsTransport, error) {
	return &WsTransport{
		addr:    addr,
		pending: make(chan *websocket.Conn, 1),
	}, nil
}

func (t *WsTransport) Listen() error {
	l, err := net.Listen("tcp", t.addr)
	if err != nil {
		return err
	}
	t.listener = l
	mux := http.NewServeMux()
	mux.HandleFunc("/", t.upgrade)
	t.server = &http.Server{Handler: mux}
	go func() {
		err := t.server.Serve(l)
		if err != nil && err != http.ErrServerClosed {
			logger.Verbosef("ws transport serve %s\n", err)
		}
	}()
	return nil
}

func (t *WsTransport) upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Verbosef("ws transport upgrade %s\n", err)
		return
	}
	select {
	case t.pending <- conn:
	default:
		conn.Close()
	}
}

func (t *WsTransport) Accept(ctx context.Context) (Client, error) {
	select {
	case conn := <-t.pending:
		return newWsClient(conn), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *WsTransport) Dial(ctx context.Context) (Client, error) {
	u := url.URL{Scheme: "ws", Host: t.addr, Path: "/"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return newWsClient(conn), nil
}

func (t *WsTransport) Addr() net.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *WsTransport) Close() error {
	if t.server == nil {
		return nil
	}
	return t.server.Close()
}

type WsClient struct {
	conn *websocket.Conn
}

func newWsClient(conn *websocket.Conn) *WsClient {
	conn.SetReadLimit(TransportMessageMaxSize)
	return &WsClient{conn: conn}
}

func (c *WsClient) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *WsClient) Receive() (*TransportMessage, error) {
	mt, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if mt != websocket.BinaryMessage {
		return nil, fmt.Errorf("ws receive invalid message type %d", mt)
	}
	if len(data) < 1 {
		return nil, fmt.Errorf("ws receive empty message")
	}
	return &TransportMessage{
		Version: TransportMessageVersion,
		Size:    uint32(len(data)),
		Data:    data,
	}, nil
}

func (c *WsClient) Send(data []byte) error {
	if l := len(data); l < 1 || l > TransportMessageMaxSize {
		return fmt.Errorf("ws send invalid message size %d", l)
	}
	err := c.conn.SetWriteDeadline(time.Now().Add(WriteDeadline))
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *WsClient) Close() error {
	return c.conn.Close()
}
