package rpc

import (
	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/config"
	"github.com/CrymeFTW/1v1-games/network"
	"github.com/CrymeFTW/1v1-games/session"
)

func getInfo(s *session.Session, peer *network.Peer) (map[string]interface{}, error) {
	status := s.Status()
	info := map[string]interface{}{
		"version": config.BuildVersion,
		"role":    status.Role.String(),
		"phase":   status.Phase.String(),
		"turn":    status.Turn.String(),
		"winner":  status.Winner.String(),
		"round": map[string]interface{}{
			"number": status.Round,
			"id":     status.RoundId,
		},
		"rematch": map[string]interface{}{
			"self":     status.RematchSelf,
			"opponent": status.RematchPeer,
		},
	}
	if status.Closed {
		info["closed"] = status.CloseReason
	}
	if peer != nil {
		info["peer"] = map[string]interface{}{
			"address": peer.Address(),
			"metric":  peer.Metric(),
		}
	}
	return info, nil
}

// getBoard renders both grids as rows of single character cells, the own
// board reveals ships, the tracking grid only what shots uncovered.
func getBoard(s *session.Session) (map[string]interface{}, error) {
	board := s.BoardCells()
	tracking := s.TrackingCells()

	own := make([]string, battleship.BoardSize)
	seen := make([]string, battleship.BoardSize)
	for r := 0; r < battleship.BoardSize; r++ {
		ob := make([]byte, battleship.BoardSize)
		sb := make([]byte, battleship.BoardSize)
		for c := 0; c < battleship.BoardSize; c++ {
			switch board[r][c] {
			case battleship.CellShip:
				ob[c] = 'S'
			case battleship.CellHit:
				ob[c] = 'X'
			case battleship.CellMiss:
				ob[c] = 'o'
			default:
				ob[c] = '.'
			}
			switch tracking[r][c] {
			case battleship.TrackHit:
				sb[c] = 'X'
			case battleship.TrackMiss:
				sb[c] = 'o'
			default:
				sb[c] = '.'
			}
		}
		own[r] = string(ob)
		seen[r] = string(sb)
	}
	return map[string]interface{}{
		"board":    own,
		"tracking": seen,
	}, nil
}
