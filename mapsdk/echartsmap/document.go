package echartsmap

import (
	"sync"

	"burnai-server/mapsdk"
)

// Page is an in-memory document holding the anchors a map can mount into.
type Page struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewPage creates a page with the given anchor IDs present.
func NewPage(ids ...string) *Page {
	p := &Page{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		p.ids[id] = struct{}{}
	}
	return p
}

// Remove drops an anchor from the page.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ids, id)
}

// ElementByID implements mapsdk.Document.
func (p *Page) ElementByID(id string) (mapsdk.Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.ids[id]; !ok {
		return mapsdk.Element{}, false
	}
	return mapsdk.Element{ID: id}, true
}
