package mapsdk

import (
	"sort"
	"sync"
)

// Listeners is an event registry SDK implementations embed to back AddListener.
type Listeners struct {
	mu     sync.Mutex
	nextID int
	byName map[string]map[int]func()
}

// Add registers fn for event and returns a Subscription removing it.
func (l *Listeners) Add(event string, fn func()) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.byName == nil {
		l.byName = make(map[string]map[int]func())
	}
	if l.byName[event] == nil {
		l.byName[event] = make(map[int]func())
	}
	l.nextID++
	id := l.nextID
	l.byName[event][id] = fn
	return &subscription{remove: func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.byName[event], id)
	}}
}

// Fire invokes the listeners of event in registration order.
// Listeners run outside the registry lock so they may register or remove others.
func (l *Listeners) Fire(event string) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.byName[event]))
	for id := range l.byName[event] {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, l.byName[event][id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Count returns the number of listeners registered for event.
func (l *Listeners) Count(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byName[event])
}

type subscription struct {
	once   sync.Once
	remove func()
}

func (s *subscription) Remove() {
	s.once.Do(s.remove)
}
