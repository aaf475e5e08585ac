package session

import (
	"net"
	"time"

	"github.com/lab600/netpaddle/codec"
	"github.com/lab600/netpaddle/sim"
)

// handlePacketLocked validates and applies one incoming datagram. Every
// failure mode drops the packet and nothing else: a bad packet is equivalent
// to no packet.
func (s *Session) handlePacketLocked(now time.Time, data []byte, addr *net.UDPAddr) {
	if s.mode != ModeWaitingForGuest && s.mode != ModePlayingAsHost && s.mode != ModePlayingAsGuest {
		return
	}
	plain, err := s.channel.Open(data, addr.IP)
	if err != nil {
		s.log.Warn("datagram rejected", "from", addr, "err", err)
		return
	}
	rec, err := codec.Decode(plain)
	if err != nil {
		s.log.Warn("datagram undecodable", "from", addr, "err", err)
		return
	}
	if rec.GameID != s.gameID {
		s.log.Warn("cross-talk datagram dropped", "from", addr, "gameID", rec.GameID)
		return
	}
	if s.peerAddr != nil && (!addr.IP.Equal(s.peerAddr.IP) || addr.Port != s.peerAddr.Port) {
		s.log.Warn("datagram from unexpected address dropped", "from", addr, "bound", s.peerAddr)
		return
	}
	if s.peerName != "" && rec.SenderName != s.peerName {
		s.log.Warn("datagram with unexpected sender name dropped", "name", rec.SenderName, "bound", s.peerName)
		return
	}

	becameHost := false
	if !s.gotFirst {
		// the first packet of a session fixes the peer's identity
		s.gotFirst = true
		s.peerAddr = addr
		s.peerName = rec.SenderName
		s.lastSeqIn = rec.Sequence
		if s.mode == ModeWaitingForGuest {
			s.adv.Close()
			s.adv = nil
			s.mode = ModePlayingAsHost
			becameHost = true
			s.log.Info("guest connected", "match", s.matchID, "guest", rec.SenderName, "addr", addr)
		}
	} else {
		// A reversed ball signals a fresh authoritative cycle from the
		// peer, so it bypasses the ordering check.
		reversal := s.world.Ball.VY == 0 && rec.BallVY != 0
		if rec.Sequence < s.lastSeqIn && !reversal {
			s.log.Warn("reordered datagram dropped", "seq", rec.Sequence, "last", s.lastSeqIn)
			return
		}
		if !s.lastHit.IsZero() && now.Sub(s.lastHit) < s.cfg.GuardInterval {
			s.log.Warn("datagram within hit guard dropped", "seq", rec.Sequence)
			return
		}
		s.lastSeqIn = rec.Sequence
	}

	s.lastRecv = now
	s.applyRecordLocked(rec)
	if becameHost {
		// take initial ball authority and announce the serve
		s.world.ServeToSelf()
		s.sendLocked(now, true)
	}
	s.maybeEndByScoreLocked(now)
}

// applyRecordLocked folds a validated record into local state. Ball state is
// adopted only while the ball is not locally simulated; while authoritative,
// only the opponent's paddle and the scores are taken from the record.
func (s *Session) applyRecordLocked(rec codec.Record) {
	if !sim.IsLocallyAuthoritative(s.world.Ball.VY, false) {
		s.world.ApplyRemote(rec.BallX, rec.BallY, rec.BallVX, rec.BallVY,
			rec.PauseRemaining*sim.PausePeriod, rec.PaddleX)
	} else {
		s.world.OpponentPaddle.X = sim.Mirror(rec.PaddleX)
	}

	// scores are trusted to move only upward
	if rec.MyScore > s.opponentScore || rec.OpponentScore > s.myScore {
		if !s.crashSignalled {
			s.crashSignalled = true
			if s.cb.ScoreDesync != nil {
				s.cb.ScoreDesync()
			}
		}
		if rec.MyScore > s.opponentScore {
			s.opponentScore = rec.MyScore
		}
		if rec.OpponentScore > s.myScore {
			s.myScore = rec.OpponentScore
		}
	}
}
