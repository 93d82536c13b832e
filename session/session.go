package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/config"
	"github.com/CrymeFTW/1v1-games/logger"
	"github.com/gofrs/uuid"
)

type Role uint8

const (
	RoleHost Role = iota
	RoleJoiner
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleJoiner:
		return "joiner"
	}
	return "unknown"
}

type Phase uint8

const (
	PhasePlacement Phase = iota
	PhaseAwaitingPeerPlacement
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhasePlacement:
		return "placement"
	case PhaseAwaitingPeerPlacement:
		return "awaiting peer placement"
	case PhaseInProgress:
		return "in progress"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

type Side uint8

const (
	SideNone Side = iota
	SideSelf
	SideOpponent
)

func (s Side) String() string {
	switch s {
	case SideSelf:
		return "self"
	case SideOpponent:
		return "opponent"
	}
	return "none"
}

func opposite(s Side) Side {
	switch s {
	case SideSelf:
		return SideOpponent
	case SideOpponent:
		return SideSelf
	}
	return SideNone
}

var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotFinished       = errors.New("round not finished")
	ErrSessionClosed     = errors.New("session closed")
	ErrProtocolViolation = errors.New("protocol violation")
)

// Link is the outbound half of the peer connection. network.Peer satisfies
// it, tests substitute their own.
type Link interface {
	SendPlacementReadyMessage() error
	SendFireMessage(c battleship.Coordinate) error
	SendFireResultMessage(r battleship.ShotResult) error
	SendRematchRequestMessage() error
	SendRematchStartMessage() error
	SendDisconnectMessage(reason string) error
	Close()
}

const notificationQueueSize = 64

// Session drives one match between the local player and the peer. Local
// intents and inbound peer messages both funnel through the session mutex,
// the turn owner is never negotiated on the wire, each side derives it from
// the shot results it has already seen.
type Session struct {
	mutex sync.Mutex

	role     Role
	link     Link
	board    *battleship.Board
	tracking *battleship.Tracking

	phase      Phase
	turn       Side
	pending    *battleship.Coordinate
	localReady bool
	peerReady  bool

	rematchSelf bool
	rematchPeer bool
	winner      Side

	closed      bool
	closeReason string

	round   int
	roundId string

	notifications chan Notification
}

func NewSession(role Role, link Link) *Session {
	s := &Session{
		role:          role,
		link:          link,
		board:         battleship.NewBoard(),
		tracking:      battleship.NewTracking(),
		phase:         PhasePlacement,
		round:         1,
		roundId:       newRoundId(),
		notifications: make(chan Notification, notificationQueueSize),
	}
	logger.Printf("session %s opened as %s\n", s.roundId, role)
	return s
}

func newRoundId() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Notifications delivers state changes in order. The channel is never
// closed, consumers stop on NotifyPeerDisconnected.
func (s *Session) Notifications() <-chan Notification {
	return s.notifications
}

func (s *Session) notify(n Notification) {
	select {
	case s.notifications <- n:
	default:
		logger.Errorf("session %s notification %d dropped, consumer stalled\n", s.roundId, n.Type)
	}
}

func (s *Session) send(what string, err error) {
	if err != nil {
		logger.Verbosef("session %s %s not sent %s\n", s.roundId, what, err)
	}
}

// PlaceShip puts one ship on the local board. Once the last ship lands the
// session announces readiness to the peer on its own.
func (s *Session) PlaceShip(t battleship.ShipType, anchor battleship.Coordinate, horizontal bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhasePlacement {
		return fmt.Errorf("%w: phase %s", battleship.ErrInvalidPlacement, s.phase)
	}
	err := s.board.PlaceShip(t, anchor, horizontal)
	if err != nil {
		s.notify(Notification{Type: NotifyPlacementRejected, Ship: t, Reason: err.Error()})
		return err
	}
	s.notify(Notification{Type: NotifyPlacementAccepted, Ship: t})
	if s.board.FullyPlaced() {
		s.localReady = true
		s.send("placement ready", s.link.SendPlacementReadyMessage())
		if s.peerReady {
			s.startRound()
		} else {
			s.phase = PhaseAwaitingPeerPlacement
		}
	}
	return nil
}

// AutoPlace fills the rest of the local board randomly, then proceeds as
// PlaceShip does after the final ship.
func (s *Session) AutoPlace() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhasePlacement {
		return fmt.Errorf("%w: phase %s", battleship.ErrInvalidPlacement, s.phase)
	}
	err := battleship.RandomPlacement(s.board, nil)
	if err != nil {
		return err
	}
	s.notify(Notification{Type: NotifyPlacementAccepted})
	s.localReady = true
	s.send("placement ready", s.link.SendPlacementReadyMessage())
	if s.peerReady {
		s.startRound()
	} else {
		s.phase = PhaseAwaitingPeerPlacement
	}
	return nil
}

// Fire commits a local shot at the peer board. The result is applied when
// the peer answers, until then no further shot may be taken.
func (s *Session) Fire(c battleship.Coordinate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: phase %s", ErrNotYourTurn, s.phase)
	}
	if s.turn != SideSelf || s.pending != nil {
		return ErrNotYourTurn
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %s", battleship.ErrOutOfBounds, c)
	}
	if s.tracking.Fired(c) {
		return fmt.Errorf("%w: %s", battleship.ErrAlreadyFired, c)
	}
	s.pending = &c
	s.send("fire", s.link.SendFireMessage(c))
	return nil
}

// RequestRematch records the local wish for another round. Calling it again
// before the round restarts is a no-op.
func (s *Session) RequestRematch() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseFinished {
		return fmt.Errorf("%w: phase %s", ErrNotFinished, s.phase)
	}
	if s.rematchSelf {
		return nil
	}
	s.rematchSelf = true
	s.send("rematch request", s.link.SendRematchRequestMessage())
	s.notify(Notification{Type: NotifyRematchPending, By: SideSelf})
	s.maybeStartRematch()
	return nil
}

// Quit tells the peer we are leaving and marks the session closed. The link
// flushes the notice before tearing the connection down.
func (s *Session) Quit() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.closeReason = "local quit"
	s.send("disconnect", s.link.SendDisconnectMessage("quit"))
}

func (s *Session) startRound() {
	s.phase = PhaseInProgress
	if s.role == RoleHost {
		s.turn = SideSelf
	} else {
		s.turn = SideOpponent
	}
	logger.Printf("session %s round %d begins, %s fires first\n", s.roundId, s.round, s.turn)
	s.notify(Notification{Type: NotifyTurnChanged, Turn: s.turn})
}

func (s *Session) concludeShot(res battleship.ShotResult, shooter Side) {
	if res.AllSunk {
		s.finishRound(shooter)
		return
	}
	if res.Hit {
		s.turn = shooter
	} else {
		s.turn = opposite(shooter)
	}
	s.notify(Notification{Type: NotifyTurnChanged, Turn: s.turn})
}

func (s *Session) finishRound(winner Side) {
	s.phase = PhaseFinished
	s.turn = SideNone
	s.winner = winner
	logger.Printf("session %s round %d over, winner %s\n", s.roundId, s.round, winner)
	s.notify(Notification{Type: NotifyGameOver, Winner: winner})
}

func (s *Session) maybeStartRematch() {
	if !s.rematchSelf || !s.rematchPeer {
		return
	}
	if s.role != RoleHost {
		// the joiner resets when the host announces the restart
		return
	}
	s.send("rematch start", s.link.SendRematchStartMessage())
	s.resetRound()
}

func (s *Session) resetRound() {
	if config.Debug && (!s.rematchSelf || !s.rematchPeer) {
		panic("session: round reset without both rematch requests")
	}
	s.board.Reset()
	s.tracking.Reset()
	s.pending = nil
	s.localReady = false
	s.peerReady = false
	s.rematchSelf = false
	s.rematchPeer = false
	s.winner = SideNone
	s.turn = SideNone
	s.phase = PhasePlacement
	s.round = s.round + 1
	s.roundId = newRoundId()
	logger.Printf("session %s rematch agreed, round %d\n", s.roundId, s.round)
	s.notify(Notification{Type: NotifyRematchStarted})
}

// OnPlacementReady handles the peer finishing its placement.
func (s *Session) OnPlacementReady() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if s.peerReady {
		return fmt.Errorf("%w: repeated placement ready", ErrProtocolViolation)
	}
	switch s.phase {
	case PhasePlacement:
		s.peerReady = true
	case PhaseAwaitingPeerPlacement:
		s.peerReady = true
		s.startRound()
	default:
		return fmt.Errorf("%w: placement ready in phase %s", ErrProtocolViolation, s.phase)
	}
	return nil
}

// OnFire resolves a peer shot against the local board and answers with the
// outcome.
func (s *Session) OnFire(c battleship.Coordinate) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: fire in phase %s", ErrProtocolViolation, s.phase)
	}
	if s.turn != SideOpponent {
		return fmt.Errorf("%w: fire out of turn", ErrProtocolViolation)
	}
	res, err := s.board.ResolveShot(c)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProtocolViolation, err)
	}
	s.send("fire result", s.link.SendFireResultMessage(res))
	s.notify(Notification{Type: NotifyShotResolved, Shot: res, By: SideOpponent})
	s.concludeShot(res, SideOpponent)
	return nil
}

// OnFireResult applies the peer verdict for the one shot in flight.
func (s *Session) OnFireResult(r battleship.ShotResult) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: fire result in phase %s", ErrProtocolViolation, s.phase)
	}
	if s.pending == nil || *s.pending != r.Coordinate {
		return fmt.Errorf("%w: unsolicited fire result at %s", ErrProtocolViolation, r.Coordinate)
	}
	s.pending = nil
	s.tracking.Mark(r.Coordinate, r.Hit)
	s.notify(Notification{Type: NotifyShotResolved, Shot: r, By: SideSelf})
	s.concludeShot(r, SideSelf)
	return nil
}

func (s *Session) OnRematchRequest() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if s.phase != PhaseFinished {
		return fmt.Errorf("%w: rematch request in phase %s", ErrProtocolViolation, s.phase)
	}
	if s.rematchPeer {
		return fmt.Errorf("%w: repeated rematch request", ErrProtocolViolation)
	}
	s.rematchPeer = true
	s.notify(Notification{Type: NotifyRematchPending, By: SideOpponent})
	s.maybeStartRematch()
	return nil
}

func (s *Session) OnRematchStart() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if s.role == RoleHost {
		return fmt.Errorf("%w: rematch start from joiner", ErrProtocolViolation)
	}
	if s.phase != PhaseFinished || !s.rematchSelf || !s.rematchPeer {
		return fmt.Errorf("%w: premature rematch start", ErrProtocolViolation)
	}
	s.resetRound()
	return nil
}

// OnDisconnect handles the peer leaving on purpose.
func (s *Session) OnDisconnect(reason string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.closeReason = reason
	logger.Printf("session %s peer left, %s\n", s.roundId, reason)
	s.notify(Notification{Type: NotifyPeerDisconnected, Reason: reason})
}

// OnClosed handles the connection dying underneath the session. A session
// already closed by Quit or OnDisconnect swallows it.
func (s *Session) OnClosed(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	reason := "connection closed"
	if err != nil {
		reason = err.Error()
	}
	s.closeReason = reason
	s.notify(Notification{Type: NotifyPeerDisconnected, Reason: reason})
}

// Status is a point-in-time snapshot for the console and the RPC surface.
type Status struct {
	Role        Role
	Phase       Phase
	Turn        Side
	Winner      Side
	Round       int
	RoundId     string
	RematchSelf bool
	RematchPeer bool
	Closed      bool
	CloseReason string
}

func (s *Session) Status() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return Status{
		Role:        s.role,
		Phase:       s.phase,
		Turn:        s.turn,
		Winner:      s.winner,
		Round:       s.round,
		RoundId:     s.roundId,
		RematchSelf: s.rematchSelf,
		RematchPeer: s.rematchPeer,
		Closed:      s.closed,
		CloseReason: s.closeReason,
	}
}

// BoardCells snapshots the local board grid.
func (s *Session) BoardCells() [battleship.BoardSize][battleship.BoardSize]battleship.CellState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.board.Cells()
}

// TrackingCells snapshots what is known about the peer board.
func (s *Session) TrackingCells() [battleship.BoardSize][battleship.BoardSize]battleship.TrackState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.tracking.Cells()
}
