// Package sim is the split-authority paddle-and-ball simulation. Each peer
// sees the same logical court mirrored, itself always at the bottom, and
// simulates the ball only while it travels toward its own side; for the other
// half of each rally it mirrors what the network delivers.
package sim

import (
	"math"
	"math/rand/v2"
)

// Court geometry and motion constants, in normalized [0,1] units. Velocities
// are units per second and stay within the codec's [-1,1] fixed-point domain.
const (
	BallRadius      = 0.02
	PaddleHalfWidth = 0.08
	PaddleY         = 0.95
	PaddleSpeed     = 1.2
	ServeSpeed      = 0.55
	SpinFactor      = 0.35
	SpinJitter      = 0.12
	MaxBallVX       = 0.9
	PausePeriod     = 1.5
)

// Event reports what a simulation step produced.
type Event int

const (
	EventNone Event = iota
	// EventWallBounce is a reflection off the left or right wall.
	EventWallBounce
	// EventPaddleHit is a bounce off the local paddle.
	EventPaddleHit
	// EventMiss means the ball passed the local paddle; the opponent scores.
	EventMiss
)

// Ball carries position, velocity and the countdown that freezes play after
// a score.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Pause  float64
}

// Paddle is a horizontal paddle position plus its current velocity, which
// feeds spin on a hit.
type Paddle struct {
	X float64
	V float64
}

// World is one peer's local view of the court.
type World struct {
	Ball           Ball
	Paddle         Paddle
	OpponentPaddle Paddle
}

// NewWorld centers both paddles and leaves the ball dead at mid-court. Play
// begins when one side takes authority: the host via ServeToSelf, the guest
// by mirroring the host's first authoritative record.
func NewWorld() World {
	return World{
		Ball:           Ball{X: 0.5, Y: 0.5},
		Paddle:         Paddle{X: 0.5},
		OpponentPaddle: Paddle{X: 0.5},
	}
}

// ServeToSelf drops the ball at mid-court moving toward the local paddle,
// used by the side taking initial authority for a rally.
func (w *World) ServeToSelf() {
	w.Ball = Ball{
		X:     0.5,
		Y:     0.5,
		VX:    (rand.Float64() - 0.5) * 2 * SpinJitter,
		VY:    ServeSpeed,
		Pause: PausePeriod,
	}
}

// MovePaddle advances the local paddle by intent (-1, 0 or +1) for dt seconds.
func (w *World) MovePaddle(intent, dt float64) {
	w.Paddle.V = intent * PaddleSpeed
	w.Paddle.X = math.Max(PaddleHalfWidth, math.Min(1-PaddleHalfWidth, w.Paddle.X+w.Paddle.V*dt))
}

// Step advances the ball by dt seconds while this peer holds authority and
// reports the most significant event of the step. While the ball moves away
// from the local side the prediction is frozen and Step is a no-op.
func (w *World) Step(dt float64, singlePlayer bool) Event {
	b := &w.Ball
	if b.Pause > 0 {
		b.Pause = math.Max(0, b.Pause-dt)
		return EventNone
	}
	if !IsLocallyAuthoritative(b.VY, singlePlayer) {
		return EventNone
	}
	b.X += b.VX * dt
	b.Y += b.VY * dt

	ev := EventNone
	if b.X <= BallRadius && b.VX < 0 {
		b.X = BallRadius
		b.VX = -b.VX
		ev = EventWallBounce
	}
	if b.X >= 1-BallRadius && b.VX > 0 {
		b.X = 1 - BallRadius
		b.VX = -b.VX
		ev = EventWallBounce
	}
	if singlePlayer && b.Y <= BallRadius && b.VY < 0 {
		b.Y = BallRadius
		b.VY = -b.VY
		ev = EventWallBounce
	}
	if b.VY > 0 && b.Y >= PaddleY-BallRadius {
		if math.Abs(b.X-w.Paddle.X) <= PaddleHalfWidth+BallRadius {
			b.Y = PaddleY - BallRadius
			b.VY = -math.Abs(b.VY)
			b.VX += w.Paddle.V*SpinFactor + (rand.Float64()-0.5)*SpinJitter
			b.VX = math.Max(-MaxBallVX, math.Min(MaxBallVX, b.VX))
			return EventPaddleHit
		}
		if b.Y > 1+BallRadius {
			w.recenter()
			return EventMiss
		}
	}
	return ev
}

// ApplyRemote installs the opponent's authoritative state, mirrored into the
// local frame: both axes flip (1-x, 1-y) and velocities negate, because the
// sender's "toward me" is this side's "away from me".
func (w *World) ApplyRemote(ballX, ballY, ballVX, ballVY, pause, paddleX float64) {
	w.Ball = Ball{
		X:     Mirror(ballX),
		Y:     Mirror(ballY),
		VX:    -ballVX,
		VY:    -ballVY,
		Pause: pause,
	}
	w.OpponentPaddle.X = Mirror(paddleX)
}

// recenter parks the ball on the local paddle for the pause interval and
// serves toward the opponent.
func (w *World) recenter() {
	w.Ball = Ball{
		X:     w.Paddle.X,
		Y:     PaddleY - 2*BallRadius,
		VX:    (rand.Float64() - 0.5) * 2 * SpinJitter,
		VY:    -ServeSpeed,
		Pause: PausePeriod,
	}
}
