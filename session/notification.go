package session

import "github.com/CrymeFTW/1v1-games/battleship"

type NotificationType uint8

const (
	NotifyPlacementAccepted NotificationType = iota + 1
	NotifyPlacementRejected
	NotifyTurnChanged
	NotifyShotResolved
	NotifyGameOver
	NotifyRematchPending
	NotifyRematchStarted
	NotifyPeerDisconnected
)

// Notification is one state change pushed to the presentation layer, the
// type selects which fields carry meaning.
type Notification struct {
	Type   NotificationType
	Ship   battleship.ShipType
	Turn   Side
	Shot   battleship.ShotResult
	By     Side
	Winner Side
	Reason string
}
