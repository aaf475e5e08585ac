package session

import (
	"log/slog"
	"time"
)

// Config holds the tunable protocol constants. Historical builds of this
// protocol shipped with different thresholds, so none of them are hard-coded;
// the defaults here suit a casual game on ordinary Wi-Fi.
type Config struct {
	// Port is the fixed well-known gameplay port shared by all peers.
	Port int
	// SendInterval is the minimum spacing between outgoing records. Bounce
	// and score events bypass it.
	SendInterval time.Duration
	// GuardInterval drops remote records arriving just after a local paddle
	// hit, while both sides may have detected the bounce independently.
	GuardInterval time.Duration
	// LivenessTimeout ends the match when no valid packet arrives for this
	// long during play.
	LivenessTimeout time.Duration
	// MaxScore ends the match when either tally reaches it.
	MaxScore uint32
	// Plaintext disables the AEAD envelope for environments where the
	// cipher is unavailable.
	Plaintext bool
	Logger    *slog.Logger
}

func defaultConfig() Config {
	return Config{
		Port:            7722,
		SendInterval:    20 * time.Millisecond,
		GuardInterval:   60 * time.Millisecond,
		LivenessTimeout: 5 * time.Second,
		MaxScore:        3,
	}
}

type option func(Config) Config

func WithPort(port int) option {
	return func(c Config) Config {
		c.Port = port
		return c
	}
}

func WithSendInterval(d time.Duration) option {
	return func(c Config) Config {
		c.SendInterval = d
		return c
	}
}

func WithGuardInterval(d time.Duration) option {
	return func(c Config) Config {
		c.GuardInterval = d
		return c
	}
}

func WithLivenessTimeout(d time.Duration) option {
	return func(c Config) Config {
		c.LivenessTimeout = d
		return c
	}
}

func WithMaxScore(n uint32) option {
	return func(c Config) Config {
		c.MaxScore = n
		return c
	}
}

func WithPlaintext() option {
	return func(c Config) Config {
		c.Plaintext = true
		return c
	}
}

func WithLogger(l *slog.Logger) option {
	return func(c Config) Config {
		c.Logger = l
		return c
	}
}
