package network

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/config"
	"github.com/CrymeFTW/1v1-games/logger"
)

var ErrVersionMismatch = errors.New("protocol version mismatch")

// Handle consumes decoded peer messages in receipt order, one at a time. A
// non nil error from a handler is a protocol violation and tears the
// connection down. OnClosed fires exactly once, whatever the cause.
type Handle interface {
	OnPlacementReady() error
	OnFire(c battleship.Coordinate) error
	OnFireResult(r battleship.ShotResult) error
	OnRematchRequest() error
	OnRematchStart() error
	OnDisconnect(reason string)
	OnClosed(err error)
}

const sendQueueSize = 64

type Peer struct {
	client    Client
	handle    Handle
	metric    *MetricPool
	sendQueue chan []byte
	stop      chan struct{}
	closeOnce sync.Once
}

// HostPeer waits for one challenger on the transport, then performs the
// version handshake. The listener stays open but nobody else is accepted.
func HostPeer(ctx context.Context, transport Transport, metric bool) (*Peer, error) {
	err := transport.Listen()
	if err != nil {
		return nil, err
	}
	client, err := transport.Accept(ctx)
	if err != nil {
		return nil, err
	}
	return setupPeer(client, metric)
}

func JoinPeer(ctx context.Context, transport Transport, metric bool) (*Peer, error) {
	client, err := transport.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return setupPeer(client, metric)
}

func setupPeer(client Client, metric bool) (*Peer, error) {
	p := &Peer{
		client:    client,
		metric:    &MetricPool{enabled: metric},
		sendQueue: make(chan []byte, sendQueueSize),
		stop:      make(chan struct{}),
	}
	err := p.handshake()
	if err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

// Both sides announce themselves and the first inbound message must be the
// peer's announcement with the exact same protocol version. The receiver
// starts before the announcement goes out so neither side can stall the
// other on an unbuffered link.
func (p *Peer) handshake() error {
	hello := make(chan *PeerMessage, 1)
	fail := make(chan error, 1)
	go func() {
		tm, err := p.client.Receive()
		if err != nil {
			fail <- err
			return
		}
		msg, err := parseNetworkMessage(tm.Data)
		if err != nil {
			fail <- err
			return
		}
		hello <- msg
	}()

	err := p.client.Send(buildHelloMessage(config.ProtocolVersion))
	if err != nil {
		return fmt.Errorf("peer handshake send %s", err)
	}

	select {
	case msg := <-hello:
		if msg.Type != PeerMessageTypeHello {
			return fmt.Errorf("peer handshake expects hello got %d", msg.Type)
		}
		if msg.Version != config.ProtocolVersion {
			return fmt.Errorf("%w: local %d remote %d", ErrVersionMismatch, config.ProtocolVersion, msg.Version)
		}
		p.metric.handle(PeerMessageTypeHello)
		return nil
	case err := <-fail:
		return fmt.Errorf("peer handshake %s", err)
	case <-time.After(HandshakeTimeout):
		return fmt.Errorf("peer handshake timeout after %s", HandshakeTimeout)
	}
}

// Run registers the consumer and starts the read and write loops. Nothing
// is delivered before Run.
func (p *Peer) Run(handle Handle) {
	p.handle = handle
	go p.writeLoop()
	go p.readLoop()
}

func (p *Peer) Address() string {
	addr := p.client.RemoteAddr()
	if addr == nil {
		return ""
	}
	return addr.String()
}

func (p *Peer) Metric() *MetricPool {
	return p.metric
}

func (p *Peer) readLoop() {
	for {
		tm, err := p.client.Receive()
		if err != nil {
			p.teardown(err)
			return
		}
		msg, err := parseNetworkMessage(tm.Data)
		if err != nil {
			logger.Verbosef("peer %s %s\n", p.Address(), err)
			p.teardown(err)
			return
		}
		p.metric.handle(msg.Type)
		logger.Debugf("peer %s received message type %d\n", p.Address(), msg.Type)
		err = p.dispatch(msg)
		if err != nil {
			logger.Verbosef("peer %s protocol violation %s\n", p.Address(), err)
			p.teardown(err)
			return
		}
		if msg.Type == PeerMessageTypeDisconnect {
			p.teardown(nil)
			return
		}
	}
}

func (p *Peer) dispatch(msg *PeerMessage) error {
	switch msg.Type {
	case PeerMessageTypeHello:
		return fmt.Errorf("unexpected hello after handshake")
	case PeerMessageTypePlacementReady:
		return p.handle.OnPlacementReady()
	case PeerMessageTypeFire:
		return p.handle.OnFire(msg.Coordinate)
	case PeerMessageTypeFireResult:
		return p.handle.OnFireResult(msg.Result)
	case PeerMessageTypeRematchRequest:
		return p.handle.OnRematchRequest()
	case PeerMessageTypeRematchStart:
		return p.handle.OnRematchStart()
	case PeerMessageTypeDisconnect:
		p.handle.OnDisconnect(msg.Reason)
		return nil
	}
	return fmt.Errorf("unhandled message type %d", msg.Type)
}

// The write loop is the single sender on the wire. A flushed disconnect
// notice finishes the connection from this side.
func (p *Peer) writeLoop() {
	for {
		select {
		case <-p.stop:
			return
		case data := <-p.sendQueue:
			err := p.client.Send(data)
			if err != nil {
				p.teardown(fmt.Errorf("peer send %s", err))
				return
			}
			if data[0] == PeerMessageTypeDisconnect {
				p.teardown(nil)
				return
			}
		}
	}
}

func (p *Peer) enqueue(data []byte) error {
	select {
	case <-p.stop:
		return fmt.Errorf("peer already stopped")
	case p.sendQueue <- data:
		return nil
	default:
		err := fmt.Errorf("peer send queue overflow")
		p.teardown(err)
		return err
	}
}

func (p *Peer) SendPlacementReadyMessage() error {
	return p.enqueue(buildPlacementReadyMessage())
}

func (p *Peer) SendFireMessage(c battleship.Coordinate) error {
	return p.enqueue(buildFireMessage(c))
}

func (p *Peer) SendFireResultMessage(r battleship.ShotResult) error {
	return p.enqueue(buildFireResultMessage(r))
}

func (p *Peer) SendRematchRequestMessage() error {
	return p.enqueue(buildRematchRequestMessage())
}

func (p *Peer) SendRematchStartMessage() error {
	return p.enqueue(buildRematchStartMessage())
}

func (p *Peer) SendDisconnectMessage(reason string) error {
	return p.enqueue(buildDisconnectMessage(reason))
}

// Close tears the connection down without a disconnect notice on the wire.
func (p *Peer) Close() {
	p.teardown(nil)
}

func (p *Peer) teardown(err error) {
	p.closeOnce.Do(func() {
		close(p.stop)
		p.client.Close()
		if err != nil {
			logger.Verbosef("peer %s closed %s\n", p.Address(), err)
		}
		if p.handle != nil {
			// the consumer may be mid handler on this very goroutine,
			// deliver the terminal notice off to the side
			go p.handle.OnClosed(err)
		}
	})
}
