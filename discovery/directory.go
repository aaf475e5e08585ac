package discovery

import (
	"sort"
	"sync"
)

// Directory maps display names to the most recently resolved advertisement.
// Names are not unique across time: an entry may vanish after a loss event
// and reappear on rediscovery, so callers must tolerate a Lookup miss for a
// name they just listed.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]Entry)}
}

func (d *Directory) Upsert(e Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[e.Name] = e
}

func (d *Directory) Remove(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, name)
}

// Lookup returns the entry advertised under name, if still present.
func (d *Directory) Lookup(name string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[name]
	return e, ok
}

func (d *Directory) Has(name string) bool {
	_, ok := d.Lookup(name)
	return ok
}

// Names returns the advertised display names in sorted order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
