package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/CrymeFTW/1v1-games/battleship"
	"github.com/CrymeFTW/1v1-games/session"
)

const commandsHelp = "commands: place <ship> <cell> <h|v>, auto, fire <cell>, board, status, rematch, quit"

// Run owns the terminal for the lifetime of the match. Player commands and
// session notifications multiplex on one loop so every print sees a settled
// state.
func Run(s *session.Session) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("place your fleet:", fleetSummary())
	fmt.Println(commandsHelp)
	fmt.Print(renderBoards(s))

	for {
		select {
		case n := <-s.Notifications():
			if done := report(s, n); done {
				return
			}
		case line, ok := <-lines:
			if !ok {
				s.Quit()
				return
			}
			if done := execute(s, line); done {
				return
			}
		}
	}
}

func fleetSummary() string {
	parts := make([]string, 0, len(battleship.Fleet))
	for _, c := range battleship.Fleet {
		parts = append(parts, fmt.Sprintf("%s(%d)", c.Type, c.Size))
	}
	return strings.Join(parts, " ")
}

func report(s *session.Session, n session.Notification) bool {
	switch n.Type {
	case session.NotifyPlacementAccepted:
		if n.Ship != "" {
			fmt.Printf("%s placed\n", n.Ship)
		}
		fmt.Print(renderBoards(s))
	case session.NotifyPlacementRejected:
		fmt.Printf("cannot place %s, %s\n", n.Ship, n.Reason)
	case session.NotifyTurnChanged:
		if n.Turn == session.SideSelf {
			fmt.Println("your turn, fire <cell>")
		} else {
			fmt.Println("opponent's turn")
		}
	case session.NotifyShotResolved:
		fmt.Println(shotLine(n))
		fmt.Print(renderBoards(s))
	case session.NotifyGameOver:
		if n.Winner == session.SideSelf {
			fmt.Println("you win, the enemy fleet is gone")
		} else {
			fmt.Println("you lose, your fleet is gone")
		}
		fmt.Println("rematch to go again, quit to leave")
	case session.NotifyRematchPending:
		if n.By == session.SideSelf {
			fmt.Println("rematch requested, waiting for the opponent")
		} else {
			fmt.Println("the opponent wants a rematch, type rematch to accept")
		}
	case session.NotifyRematchStarted:
		fmt.Println("rematch on, place your fleet again")
		fmt.Print(renderBoards(s))
	case session.NotifyPeerDisconnected:
		fmt.Printf("connection over, %s\n", n.Reason)
		return true
	}
	return false
}

func shotLine(n session.Notification) string {
	who := "you fire at"
	if n.By == session.SideOpponent {
		who = "incoming shot at"
	}
	verdict := "miss"
	if n.Shot.Hit {
		verdict = "hit"
	}
	line := fmt.Sprintf("%s %s, %s", who, n.Shot.Coordinate, verdict)
	if n.Shot.Sunk != "" {
		line = fmt.Sprintf("%s, %s sunk", line, n.Shot.Sunk)
	}
	return line
}

func execute(s *session.Session, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "place":
		if len(fields) != 4 {
			fmt.Println("usage: place <ship> <cell> <h|v>")
			return false
		}
		ship, ok := shipByName(fields[1])
		if !ok {
			fmt.Printf("unknown ship %s\n", fields[1])
			return false
		}
		coord, err := battleship.ParseCoordinate(fields[2])
		if err != nil {
			fmt.Println(err)
			return false
		}
		horizontal := strings.EqualFold(fields[3], "h")
		if !horizontal && !strings.EqualFold(fields[3], "v") {
			fmt.Println("orientation must be h or v")
			return false
		}
		if err := s.PlaceShip(ship, coord, horizontal); err != nil {
			fmt.Println(err)
		}
	case "auto":
		if err := s.AutoPlace(); err != nil {
			fmt.Println(err)
		}
	case "fire":
		if len(fields) != 2 {
			fmt.Println("usage: fire <cell>")
			return false
		}
		coord, err := battleship.ParseCoordinate(fields[1])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if err := s.Fire(coord); err != nil {
			fmt.Println(err)
		}
	case "board":
		fmt.Print(renderBoards(s))
	case "status":
		fmt.Println(statusLine(s))
	case "rematch":
		if err := s.RequestRematch(); err != nil {
			fmt.Println(err)
		}
	case "quit":
		s.Quit()
		return true
	case "help":
		fmt.Println(commandsHelp)
	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}
	return false
}

func shipByName(name string) (battleship.ShipType, bool) {
	for _, c := range battleship.Fleet {
		if strings.EqualFold(string(c.Type), name) {
			return c.Type, true
		}
	}
	return "", false
}

func statusLine(s *session.Session) string {
	status := s.Status()
	line := fmt.Sprintf("round %d, phase %s", status.Round, status.Phase)
	if status.Phase == session.PhaseInProgress {
		line = fmt.Sprintf("%s, turn %s", line, status.Turn)
	}
	if status.Phase == session.PhaseFinished {
		line = fmt.Sprintf("%s, winner %s", line, status.Winner)
	}
	return line
}
