package session

import (
	"fmt"
	"net"
	"time"

	"github.com/lab600/netpaddle/codec"
	"github.com/lab600/netpaddle/sim"
)

type eventKind int

const (
	eventPacket eventKind = iota
	// eventFinished is queued exactly once per socket generation, when its
	// receive loop ends for any reason.
	eventFinished
)

type event struct {
	kind eventKind
	gen  int
	data []byte
	addr *net.UDPAddr
}

func (s *Session) bindLocked() (*net.UDPConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: s.cfg.Port})
	if err != nil {
		return nil, fmt.Errorf("session: bind port %d: %w", s.cfg.Port, err)
	}
	return conn, nil
}

// receiveLoop owns reads on one socket generation. Datagrams are queued for
// Tick rather than handled here, so receive completions never mutate state
// from this goroutine.
func (s *Session) receiveLoop(conn *net.UDPConn, gen int) {
	buf := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case s.events <- event{kind: eventPacket, gen: gen, data: data, addr: addr}:
		default:
			s.log.Warn("event queue full, datagram dropped")
		}
	}
	s.queueFinished(gen)
}

// queueFinished never blocks, like the packet path: a full queue means the
// session is being torn down, and a stale-generation finished event would be
// discarded anyway. A lost current-generation event is covered by the
// liveness timeout.
func (s *Session) queueFinished(gen int) {
	select {
	case s.events <- event{kind: eventFinished, gen: gen}:
	default:
	}
}

func (s *Session) drainEventsLocked(now time.Time) {
	for {
		select {
		case ev := <-s.events:
			if ev.gen != s.sockGen {
				continue // socket no longer current
			}
			if ev.kind == eventFinished {
				s.endMatchLocked("Connection Error")
				continue
			}
			s.handlePacketLocked(now, ev.data, ev.addr)
		default:
			return
		}
	}
}

// sendLocked emits one fresh record, fire and forget: no retry, no blocking
// beyond the UDP write itself. force bypasses the cadence limit for bounce
// and score events so the opponent's liveness timer and view update promptly.
func (s *Session) sendLocked(now time.Time, force bool) {
	if s.conn == nil || s.peerAddr == nil {
		return
	}
	if !force && now.Sub(s.lastSend) < s.cfg.SendInterval {
		return
	}
	s.seqOut++
	rec := codec.Record{
		GameID:         s.gameID,
		Sequence:       s.seqOut,
		PaddleX:        s.world.Paddle.X,
		BallX:          s.world.Ball.X,
		BallY:          s.world.Ball.Y,
		BallVX:         s.world.Ball.VX,
		BallVY:         s.world.Ball.VY,
		PauseRemaining: s.world.Ball.Pause / sim.PausePeriod,
		MyScore:        s.myScore,
		OpponentScore:  s.opponentScore,
		SenderName:     s.localName,
	}
	if _, err := s.conn.WriteToUDP(s.channel.Seal(codec.Encode(rec)), s.peerAddr); err != nil {
		s.log.Debug("send failed", "err", err)
	}
	s.lastSend = now
}
