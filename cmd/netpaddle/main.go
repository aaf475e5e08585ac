// Command netpaddle is the thin terminal front end for the LAN paddle game.
// It resolves the local IPv4 address, wires the session to the keyboard and
// screen, and leaves all protocol and physics decisions to the core packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/lab600/netpaddle/session"
	"github.com/lab600/netpaddle/sim"
)

const tickInterval = 16 * time.Millisecond

func main() {
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Net", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("Paddle", pterm.FgLightMagenta.ToStyle()),
	).Render()

	addr, err := localIPv4()
	if err != nil {
		logger.Error("could not determine local address", "err", err)
		os.Exit(1)
	}
	pterm.Info.Printfln("Local address: %s", addr)

	done := make(chan string, 1)
	s := session.New(addr, session.Callbacks{
		MatchEnded: func(reason string) {
			select {
			case done <- reason:
			default:
			}
		},
		ScoreDesync: func() { pterm.Print("\a") },
	}, session.WithLogger(logger))
	defer s.Close()

	if err := s.StartBrowsing(context.Background()); err != nil {
		logger.Warn("discovery unavailable, hosting and joining disabled", "err", err)
	}

	for {
		options := []string{"Host a game", "Single player", "Refresh", "Quit"}
		games := s.Games()
		for _, g := range games {
			options = append([]string{"Join " + g}, options...)
		}
		choice, _ := pterm.DefaultInteractiveSelect.WithOptions(options).Show("What now?")
		switch choice {
		case "Host a game":
			if err := s.StartHosting(); err != nil {
				logger.Error("hosting failed", "err", err)
				continue
			}
			pterm.Info.Printfln("Hosting as %s, waiting for a guest (Esc to stop)", s.LocalName())
			runMatch(s, done)
		case "Single player":
			runSinglePlayer()
		case "Refresh":
			continue
		case "Quit":
			return
		default:
			name := choice[len("Join "):]
			if err := s.Join(name); err != nil {
				logger.Error("join failed", "host", name, "err", err)
				continue
			}
			runMatch(s, done)
		}
	}
}

// runMatch pumps ticks into the session and paddles keyboard input until the
// match ends or the player bails out.
func runMatch(s *session.Session, done chan string) {
	select {
	case <-done: // discard a result left over from a previous match
	default:
	}
	stop := make(chan struct{})
	go func() {
		keyboard.Listen(func(key keys.Key) (bool, error) {
			switch key.Code {
			case keys.Left:
				s.SetPaddleIntent(-1)
			case keys.Right:
				s.SetPaddleIntent(1)
			case keys.Down, keys.Space:
				s.SetPaddleIntent(0)
			case keys.Escape, keys.CtrlC:
				close(stop)
				return true, nil
			}
			return false, nil
		})
	}()

	area, _ := pterm.DefaultArea.Start()
	defer area.Stop()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.Tick(now, tickInterval.Seconds())
			area.Update(renderCourt(s.Snapshot()))
		case reason := <-done:
			keyboard.SimulateKeyPress(keys.Escape)
			pterm.Info.Printfln("Match over: %s", reason)
			return
		case <-stop:
			s.Leave()
			return
		}
	}
}

// runSinglePlayer drives the simulation directly; the network state machine
// is never involved.
func runSinglePlayer() {
	world := sim.NewWorld()
	world.ServeToSelf()
	var hits, misses int
	intent := 0

	stop := make(chan struct{})
	go func() {
		keyboard.Listen(func(key keys.Key) (bool, error) {
			switch key.Code {
			case keys.Left:
				intent = -1
			case keys.Right:
				intent = 1
			case keys.Down, keys.Space:
				intent = 0
			case keys.Escape, keys.CtrlC:
				close(stop)
				return true, nil
			}
			return false, nil
		})
	}()

	area, _ := pterm.DefaultArea.Start()
	defer area.Stop()
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			world.MovePaddle(float64(intent), tickInterval.Seconds())
			switch world.Step(tickInterval.Seconds(), true) {
			case sim.EventPaddleHit:
				hits++
			case sim.EventMiss:
				misses++
			}
			area.Update(renderCourt(session.View{
				Ball:    world.Ball,
				Paddle:  world.Paddle,
				MyScore: uint32(hits), OpponentScore: uint32(misses),
			}))
		case <-stop:
			pterm.Info.Printfln("Practice over: %d hits, %d misses", hits, misses)
			return
		}
	}
}
