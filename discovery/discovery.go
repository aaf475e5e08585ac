// Package discovery advertises and browses paddle games on the local network
// and maintains the name-to-endpoint directory the join screen lists. Pairing
// secrets ride on the service record as masked, hex-encoded TXT attributes so
// they are not plaintext on the discovery wire.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType identifies paddle hosts in mDNS.
	ServiceType   = "_netpaddle._udp"
	ServiceDomain = "local."

	// AttrNonce and AttrKey are the TXT keys that carry the masked game
	// nonce and masked symmetric key.
	AttrNonce = "gn"
	AttrKey   = "gk"
)

// Entry is one resolved advertisement: a joinable game.
type Entry struct {
	Name  string
	Addr  net.IP
	Port  int
	Attrs map[string]string
	Time  time.Time
}

// Advertiser publishes one service record while a peer is hosting.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise publishes a game under the given display name on the fixed
// gameplay port. attrs are the masked pairing attributes.
func Advertise(name string, port int, attrs map[string]string) (*Advertiser, error) {
	txt := make([]string, 0, len(attrs))
	for k, v := range attrs {
		txt = append(txt, k+"="+v)
	}
	server, err := zeroconf.Register(name, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: advertise %q: %w", name, err)
	}
	return &Advertiser{server: server}, nil
}

// Close withdraws the advertisement. Safe on a nil receiver.
func (a *Advertiser) Close() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Browser continuously watches the LAN for game advertisements and keeps a
// Directory current. Resolve events upsert, goodbye events remove; either way
// onChange fires so the UI can refresh its join list.
type Browser struct {
	cancel context.CancelFunc
}

// Browse starts browsing. selfName is consulted on every event so a host
// never discovers or lists itself, even when it starts advertising after the
// browser. onChange may be invoked from the browser's own goroutine.
func Browse(ctx context.Context, selfName func() string, dir *Directory, onChange func()) (*Browser, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolver: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		cancel()
		return nil, fmt.Errorf("discovery: browse: %w", err)
	}
	go func() {
		for se := range entries {
			if selfName != nil && se.Instance == selfName() {
				continue
			}
			if se.TTL == 0 {
				dir.Remove(se.Instance)
			} else {
				if len(se.AddrIPv4) == 0 {
					continue
				}
				dir.Upsert(Entry{
					Name:  se.Instance,
					Addr:  se.AddrIPv4[0],
					Port:  se.Port,
					Attrs: parseTxt(se.Text),
					Time:  time.Now(),
				})
			}
			if onChange != nil {
				onChange()
			}
		}
	}()
	return &Browser{cancel: cancel}, nil
}

// Close stops browsing. The directory keeps its last contents.
func (b *Browser) Close() {
	if b != nil && b.cancel != nil {
		b.cancel()
	}
}

func parseTxt(text []string) map[string]string {
	attrs := make(map[string]string, len(text))
	for _, kv := range text {
		if k, v, ok := strings.Cut(kv, "="); ok {
			attrs[k] = v
		}
	}
	return attrs
}
