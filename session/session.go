package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lab600/netpaddle/discovery"
	"github.com/lab600/netpaddle/secure"
	"github.com/lab600/netpaddle/sim"
)

// Mode is the synchronization state machine's current state.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeHosting: advertising, no socket bound yet.
	ModeHosting
	// ModeWaitingForGuest: socket bound, still advertising.
	ModeWaitingForGuest
	// ModePlayingAsHost: socket bound, advertising stopped.
	ModePlayingAsHost
	ModePlayingAsGuest
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeHosting:
		return "hosting"
	case ModeWaitingForGuest:
		return "waiting-for-guest"
	case ModePlayingAsHost:
		return "playing-as-host"
	case ModePlayingAsGuest:
		return "playing-as-guest"
	}
	return "unknown"
}

// ErrPairingCollision means no unused display name is available, so this
// peer cannot host on this network right now.
var ErrPairingCollision = errors.New("session: no display name available for hosting")

// ErrUnknownPeer means the chosen game vanished from the directory before
// the join completed. Stale entries disappearing mid-join are expected.
var ErrUnknownPeer = errors.New("session: game is no longer advertised")

// Callbacks are the seams to the presentation layer. StateApplied, MatchEnded
// and ScoreDesync run with the game lock held and must not call back into the
// session; DiscoveryChanged may arrive from the browser goroutine.
type Callbacks struct {
	// DiscoveryChanged fires whenever the join list changes.
	DiscoveryChanged func()
	// StateApplied fires once per tick with the current court view.
	StateApplied func(View)
	// MatchEnded fires exactly once per match with a human-readable reason.
	MatchEnded func(reason string)
	// ScoreDesync fires the first time an incoming record disagrees with
	// the local tallies; the presentation layer plays its crash sound here.
	ScoreDesync func()
}

// View is a snapshot of the court for rendering.
type View struct {
	Ball           sim.Ball
	Paddle         sim.Paddle
	OpponentPaddle sim.Paddle
	MyScore        uint32
	OpponentScore  uint32
}

// Session is the sole mutator of match state. Public methods serialize
// through one mutex; see the package documentation.
type Session struct {
	mu  sync.Mutex
	cfg Config
	log *slog.Logger
	cb  Callbacks

	localAddr net.IP
	localName string

	dir     *discovery.Directory
	browser *discovery.Browser
	adv     *discovery.Advertiser

	mode      Mode
	matchID   uuid.UUID // log correlation only
	gameID    uint32
	seqOut    uint32
	lastSeqIn uint32
	gotFirst  bool
	peerAddr  *net.UDPAddr
	peerName  string
	secretKey []byte
	nonce     []byte
	channel   *secure.Channel

	conn    *net.UDPConn
	sockGen int
	events  chan event

	world          sim.World
	intent         float64
	myScore        uint32
	opponentScore  uint32
	crashSignalled bool

	lastRecv time.Time
	lastSend time.Time
	lastHit  time.Time
}

// New prepares an idle session bound to the local IPv4 address the entry
// point resolved. No sockets are opened and nothing is advertised yet.
func New(localAddr net.IP, cb Callbacks, opts ...option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		cfg:       cfg,
		log:       log,
		cb:        cb,
		localAddr: localAddr,
		dir:       discovery.NewDirectory(),
		events:    make(chan event, 64),
		world:     sim.NewWorld(),
	}
}

// StartBrowsing begins watching the LAN for joinable games. The directory is
// readable at any time through Games.
func (s *Session) StartBrowsing(ctx context.Context) error {
	b, err := discovery.Browse(ctx, s.advertisedName, s.dir, s.cb.DiscoveryChanged)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browser = b
	return nil
}

// advertisedName lets the browser filter out this peer's own advertisement.
func (s *Session) advertisedName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeIdle {
		return ""
	}
	return s.localName
}

// Games lists the display names currently advertised by other peers.
func (s *Session) Games() []string {
	return s.dir.Names()
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) LocalName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localName
}

// Snapshot returns the current court view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// StartHosting tears down any previous session, generates the pairing
// secrets and display name, advertises the game and binds the gameplay
// socket. The session then waits for a guest's first valid packet.
func (s *Session) StartHosting() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.mode = ModeIdle

	name, err := discovery.PickName(s.localAddr, s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingCollision, err)
	}
	key, nonce := secure.GenerateSecrets()
	ch, err := s.newChannel(key, nonce)
	if err != nil {
		return err
	}

	s.localName = name
	s.mode = ModeHosting
	mask := secure.AddrMask(s.localAddr)
	adv, err := discovery.Advertise(name, s.cfg.Port, map[string]string{
		discovery.AttrNonce: secure.MaskHex(nonce, mask),
		discovery.AttrKey:   secure.MaskHex(key, mask),
	})
	if err != nil {
		s.mode = ModeIdle
		return fmt.Errorf("session: start hosting: %w", err)
	}
	conn, err := s.bindLocked()
	if err != nil {
		adv.Close()
		s.mode = ModeIdle
		return err
	}

	s.adv = adv
	s.conn = conn
	s.matchID = uuid.New()
	s.gameID = gameIDFromNonce(nonce)
	s.secretKey, s.nonce, s.channel = key, nonce, ch
	s.resetMatchLocked()
	s.mode = ModeWaitingForGuest
	go s.receiveLoop(conn, s.sockGen)
	s.log.Info("hosting started", "match", s.matchID, "name", name, "port", s.cfg.Port)
	return nil
}

// Join tears down any previous session, resolves the named game from the
// directory, unmasks its pairing secrets and starts playing as guest. The
// first outgoing record introduces this peer to the host.
func (s *Session) Join(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.mode = ModeIdle

	entry, ok := s.dir.Lookup(name)
	if !ok {
		return ErrUnknownPeer
	}
	mask := secure.AddrMask(entry.Addr)
	nonce, err := secure.UnmaskHex(entry.Attrs[discovery.AttrNonce], mask)
	if err != nil {
		return err
	}
	key, err := secure.UnmaskHex(entry.Attrs[discovery.AttrKey], mask)
	if err != nil {
		return err
	}
	if len(nonce) < 4 {
		return fmt.Errorf("session: malformed pairing attributes from %q", name)
	}
	ch, err := s.newChannel(key, nonce)
	if err != nil {
		return err
	}
	localName, err := discovery.PickName(s.localAddr, s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingCollision, err)
	}
	conn, err := s.bindLocked()
	if err != nil {
		return err
	}

	s.localName = localName
	s.conn = conn
	s.matchID = uuid.New()
	s.gameID = gameIDFromNonce(nonce)
	s.secretKey, s.nonce, s.channel = key, nonce, ch
	s.resetMatchLocked()
	s.peerAddr = &net.UDPAddr{IP: entry.Addr, Port: entry.Port}
	s.mode = ModePlayingAsGuest
	go s.receiveLoop(conn, s.sockGen)
	s.sendLocked(time.Now(), true)
	s.log.Info("joined game", "match", s.matchID, "host", name, "as", localName)
	return nil
}

// Leave stops hosting or playing and returns to idle. Leaving twice is a
// no-op.
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.mode = ModeIdle
}

// Close tears down everything including the browser.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.mode = ModeIdle
	if s.browser != nil {
		s.browser.Close()
		s.browser = nil
	}
}

// SetPaddleIntent sets the local paddle's motion for subsequent ticks:
// negative left, zero stop, positive right.
func (s *Session) SetPaddleIntent(direction int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case direction < 0:
		s.intent = -1
	case direction > 0:
		s.intent = 1
	default:
		s.intent = 0
	}
}

// Tick drives one simulation step; the caller runs it on a fixed cadence
// with dt the seconds since the previous tick. Queued network events are
// drained first so packet handling never interleaves with the step.
func (s *Session) Tick(now time.Time, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainEventsLocked(now)
	if s.mode != ModePlayingAsHost && s.mode != ModePlayingAsGuest {
		return
	}
	if now.Sub(s.lastRecv) > s.cfg.LivenessTimeout {
		s.endMatchLocked("Connection Interrupted")
		return
	}
	s.world.MovePaddle(s.intent, dt)
	force := false
	switch s.world.Step(dt, false) {
	case sim.EventPaddleHit:
		s.lastHit = now
		force = true
	case sim.EventWallBounce:
		force = true
	case sim.EventMiss:
		s.opponentScore++
		force = true
	}
	if s.maybeEndByScoreLocked(now) {
		return
	}
	s.sendLocked(now, force)
	if s.cb.StateApplied != nil {
		s.cb.StateApplied(s.viewLocked())
	}
}

// teardownLocked closes the socket and stops advertising before returning,
// so no further callbacks can reference the torn-down state. The generation
// bump invalidates events still queued for the old socket.
func (s *Session) teardownLocked() {
	s.sockGen++
	if s.adv != nil {
		s.adv.Close()
		s.adv = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Session) endMatchLocked(reason string) {
	s.teardownLocked()
	s.mode = ModeIdle
	s.log.Info("match ended", "match", s.matchID, "reason", reason)
	if s.cb.MatchEnded != nil {
		s.cb.MatchEnded(reason)
	}
}

func (s *Session) maybeEndByScoreLocked(now time.Time) bool {
	if s.myScore < s.cfg.MaxScore && s.opponentScore < s.cfg.MaxScore {
		return false
	}
	// let the peer see the final tallies before the socket goes away
	s.sendLocked(now, true)
	if s.myScore > s.opponentScore {
		s.endMatchLocked("You Won")
	} else {
		s.endMatchLocked("You Lost")
	}
	return true
}

func (s *Session) resetMatchLocked() {
	s.seqOut = 0
	s.lastSeqIn = 0
	s.gotFirst = false
	s.peerAddr = nil
	s.peerName = ""
	s.intent = 0
	s.myScore = 0
	s.opponentScore = 0
	s.crashSignalled = false
	s.world = sim.NewWorld()
	s.lastRecv = time.Now()
	s.lastSend = time.Time{}
	s.lastHit = time.Time{}
}

func (s *Session) newChannel(key, nonce []byte) (*secure.Channel, error) {
	if s.cfg.Plaintext {
		return secure.NewChannel(nil, nil, s.localAddr, secure.WithPlaintext())
	}
	return secure.NewChannel(key, nonce, s.localAddr)
}

func (s *Session) viewLocked() View {
	return View{
		Ball:           s.world.Ball,
		Paddle:         s.world.Paddle,
		OpponentPaddle: s.world.OpponentPaddle,
		MyScore:        s.myScore,
		OpponentScore:  s.opponentScore,
	}
}

// gameIDFromNonce binds all packets of one match instance to the shared game
// nonce, so two independently started games on the same LAN cannot cross
// talk even in plaintext mode.
func gameIDFromNonce(nonce []byte) uint32 {
	return binary.LittleEndian.Uint32(nonce[:4])
}
