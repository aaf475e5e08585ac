package sim

import (
	"math"
	"testing"
)

func TestAuthorityFollowsBallDirection(t *testing.T) {
	cases := []struct {
		vy     float64
		single bool
		want   bool
	}{
		{0.4, false, true},
		{-0.4, false, false},
		{0, false, false},
		{-0.4, true, true},
		{0, true, true},
	}
	for _, c := range cases {
		if got := IsLocallyAuthoritative(c.vy, c.single); got != c.want {
			t.Errorf("IsLocallyAuthoritative(%v, %v) = %v, want %v", c.vy, c.single, got, c.want)
		}
	}
}

func TestApplyRemoteMirrorsBothAxes(t *testing.T) {
	w := NewWorld()
	w.ApplyRemote(0.3, 0.9, 0.2, 0.5, 0, 0.7)
	if math.Abs(w.Ball.X-0.7) > 1e-9 || math.Abs(w.Ball.Y-0.1) > 1e-9 {
		t.Fatalf("ball at (%v, %v), want (0.7, 0.1)", w.Ball.X, w.Ball.Y)
	}
	if w.Ball.VX != -0.2 || w.Ball.VY != -0.5 {
		t.Fatalf("velocity (%v, %v), want (-0.2, -0.5)", w.Ball.VX, w.Ball.VY)
	}
	if math.Abs(w.OpponentPaddle.X-0.3) > 1e-9 {
		t.Fatalf("opponent paddle at %v, want 0.3", w.OpponentPaddle.X)
	}
}

func TestStepFrozenWhileBallMovesAway(t *testing.T) {
	w := NewWorld()
	w.Ball = Ball{X: 0.5, Y: 0.5, VX: 0.1, VY: -0.5}
	before := w.Ball
	if ev := w.Step(0.1, false); ev != EventNone {
		t.Fatalf("event %v, want none", ev)
	}
	if w.Ball != before {
		t.Fatalf("ball moved without authority: %+v", w.Ball)
	}
}

func TestStepWallBounce(t *testing.T) {
	w := NewWorld()
	w.Ball = Ball{X: BallRadius + 0.001, Y: 0.5, VX: -0.5, VY: 0.3}
	if ev := w.Step(0.05, false); ev != EventWallBounce {
		t.Fatalf("event %v, want wall bounce", ev)
	}
	if w.Ball.VX <= 0 {
		t.Fatalf("VX = %v, want reflected positive", w.Ball.VX)
	}
}

func TestStepPaddleHitReflectsAndSpins(t *testing.T) {
	w := NewWorld()
	w.Paddle = Paddle{X: 0.5, V: PaddleSpeed}
	w.Ball = Ball{X: 0.5, Y: PaddleY - BallRadius - 0.001, VX: 0, VY: 0.5}
	if ev := w.Step(0.05, false); ev != EventPaddleHit {
		t.Fatalf("event %v, want paddle hit", ev)
	}
	if w.Ball.VY >= 0 {
		t.Fatalf("VY = %v, want reflected upward", w.Ball.VY)
	}
	if math.Abs(w.Ball.VX) > MaxBallVX {
		t.Fatalf("VX = %v exceeds bound %v", w.Ball.VX, MaxBallVX)
	}
}

func TestStepMissRecentersAndPauses(t *testing.T) {
	w := NewWorld()
	w.Paddle.X = 0.2
	w.Ball = Ball{X: 0.9, Y: 1.1, VX: 0, VY: 0.8}
	if ev := w.Step(0.1, false); ev != EventMiss {
		t.Fatalf("event %v, want miss", ev)
	}
	if w.Ball.Pause != PausePeriod {
		t.Fatalf("pause %v, want %v", w.Ball.Pause, PausePeriod)
	}
	if w.Ball.X != w.Paddle.X {
		t.Fatalf("ball recentered at %v, want paddle %v", w.Ball.X, w.Paddle.X)
	}
	if w.Ball.VY >= 0 {
		t.Fatalf("serve VY = %v, want toward opponent", w.Ball.VY)
	}
}

func TestStepPauseCountsDownWithoutMotion(t *testing.T) {
	w := NewWorld()
	w.Ball = Ball{X: 0.5, Y: 0.5, VX: 0.3, VY: 0.3, Pause: 0.2}
	if ev := w.Step(0.1, false); ev != EventNone {
		t.Fatalf("event %v, want none during pause", ev)
	}
	if w.Ball.X != 0.5 || w.Ball.Y != 0.5 {
		t.Fatal("ball moved during pause")
	}
	if math.Abs(w.Ball.Pause-0.1) > 1e-9 {
		t.Fatalf("pause %v, want 0.1", w.Ball.Pause)
	}
}

func TestSinglePlayerTopWallReflects(t *testing.T) {
	w := NewWorld()
	w.Ball = Ball{X: 0.5, Y: BallRadius + 0.001, VX: 0, VY: -0.5}
	if ev := w.Step(0.05, true); ev != EventWallBounce {
		t.Fatalf("event %v, want top wall bounce", ev)
	}
	if w.Ball.VY <= 0 {
		t.Fatalf("VY = %v, want reflected downward", w.Ball.VY)
	}
}

func TestMovePaddleClamps(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 100; i++ {
		w.MovePaddle(1, 0.1)
	}
	if w.Paddle.X != 1-PaddleHalfWidth {
		t.Fatalf("paddle at %v, want clamped %v", w.Paddle.X, 1-PaddleHalfWidth)
	}
}
