package network

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/session"
	"github.com/stretchr/testify/assert"
)

func connectedPeers(assert *assert.Assertions) (*Peer, *Peer) {
	a, b := net.Pipe()
	type setup struct {
		peer *Peer
		err  error
	}
	ra, rb := make(chan setup, 1), make(chan setup, 1)
	go func() {
		p, err := setupPeer(newStreamClient(a), true)
		ra <- setup{p, err}
	}()
	go func() {
		p, err := setupPeer(newStreamClient(b), true)
		rb <- setup{p, err}
	}()
	va, vb := <-ra, <-rb
	assert.Nil(va.err)
	assert.Nil(vb.err)
	return va.peer, vb.peer
}

func awaitNotification(assert *assert.Assertions, s *session.Session, nt session.NotificationType) session.Notification {
	timer := time.NewTimer(3 * time.Second)
	defer timer.Stop()
	for {
		select {
		case n := <-s.Notifications():
			if n.Type == nt {
				return n
			}
		case <-timer.C:
			assert.FailNow("notification timeout")
			return session.Notification{}
		}
	}
}

func placeWholeFleet(assert *assert.Assertions, s *session.Session) {
	for i, class := range battleship.Fleet {
		err := s.PlaceShip(class.Type, battleship.Coordinate{Row: i * 2, Col: 0}, true)
		assert.Nil(err)
	}
}

func TestPeerSessionMatch(t *testing.T) {
	assert := assert.New(t)

	hostPeer, joinPeer := connectedPeers(assert)
	host := session.NewSession(session.RoleHost, hostPeer)
	join := session.NewSession(session.RoleJoiner, joinPeer)
	hostPeer.Run(host)
	joinPeer.Run(join)

	placeWholeFleet(assert, host)
	placeWholeFleet(assert, join)
	turn := awaitNotification(assert, host, session.NotifyTurnChanged)
	assert.Equal(session.SideSelf, turn.Turn)
	turn = awaitNotification(assert, join, session.NotifyTurnChanged)
	assert.Equal(session.SideOpponent, turn.Turn)

	for i, class := range battleship.Fleet {
		for col := 0; col < class.Size; col++ {
			err := host.Fire(battleship.Coordinate{Row: i * 2, Col: col})
			assert.Nil(err)
			resolved := awaitNotification(assert, host, session.NotifyShotResolved)
			assert.True(resolved.Shot.Hit)
			assert.Equal(session.SideSelf, resolved.By)
			awaitNotification(assert, join, session.NotifyShotResolved)
		}
	}
	over := awaitNotification(assert, host, session.NotifyGameOver)
	assert.Equal(session.SideSelf, over.Winner)
	over = awaitNotification(assert, join, session.NotifyGameOver)
	assert.Equal(session.SideOpponent, over.Winner)

	assert.Nil(join.RequestRematch())
	pending := awaitNotification(assert, host, session.NotifyRematchPending)
	assert.Equal(session.SideOpponent, pending.By)
	assert.Nil(host.RequestRematch())
	awaitNotification(assert, host, session.NotifyRematchStarted)
	awaitNotification(assert, join, session.NotifyRematchStarted)
	assert.Equal(session.PhasePlacement, host.Status().Phase)
	assert.Equal(session.PhasePlacement, join.Status().Phase)
	assert.Equal(2, host.Status().Round)
	assert.Equal(2, join.Status().Round)

	fleetCells := uint32(battleship.FleetCells())
	assert.Equal(fleetCells, atomic.LoadUint32(&hostPeer.Metric().PeerMessageTypeFireResult))
	assert.Equal(fleetCells, atomic.LoadUint32(&joinPeer.Metric().PeerMessageTypeFire))
	assert.Equal(uint32(1), atomic.LoadUint32(&joinPeer.Metric().PeerMessageTypeRematchStart))

	join.Quit()
	left := awaitNotification(assert, host, session.NotifyPeerDisconnected)
	assert.Equal("quit", left.Reason)
	hostPeer.Close()
}

func TestPeerSessionViolation(t *testing.T) {
	assert := assert.New(t)

	hostPeer, joinPeer := connectedPeers(assert)
	host := session.NewSession(session.RoleHost, hostPeer)
	join := session.NewSession(session.RoleJoiner, joinPeer)
	hostPeer.Run(host)
	joinPeer.Run(join)

	// a rematch start can only ever come from the host, the session must
	// treat it as fatal and tear the connection down
	assert.Nil(joinPeer.SendRematchStartMessage())
	closed := awaitNotification(assert, host, session.NotifyPeerDisconnected)
	assert.Contains(closed.Reason, "protocol violation")
	awaitNotification(assert, join, session.NotifyPeerDisconnected)
}
