package echartsmap

import (
	"context"
	"errors"
	"log"
	"sync"

	"burnai-server/geo"
	"burnai-server/mapsdk"
)

var ErrNoGeocoder = errors.New("search box has no geocoder")

// SearchBox runs geocoder queries biased toward its bounds and fires
// places_changed when a selection is made.
type SearchBox struct {
	listeners mapsdk.Listeners
	inputID   string
	geocoder  Geocoder

	mu     sync.RWMutex
	bounds geo.Bounds
	places []mapsdk.Place
}

func (s *SearchBox) SetBounds(b geo.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = b
}

func (s *SearchBox) Bounds() geo.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Places returns the current selection.
func (s *SearchBox) Places() []mapsdk.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]mapsdk.Place(nil), s.places...)
}

func (s *SearchBox) AddListener(event string, fn func()) mapsdk.Subscription {
	return s.listeners.Add(event, fn)
}

// Search geocodes query and selects the results. An empty result set is
// still a selection and fires places_changed.
func (s *SearchBox) Search(ctx context.Context, query string) ([]mapsdk.Place, error) {
	if s.geocoder == nil {
		return nil, ErrNoGeocoder
	}
	places, err := s.geocoder.Search(ctx, query, s.Bounds())
	if err != nil {
		log.Printf("[EchartsSearchBox] Search %q failed: %v", query, err)
		return nil, err
	}
	s.Select(places)
	return places, nil
}

// Select replaces the selection and fires places_changed.
func (s *SearchBox) Select(places []mapsdk.Place) {
	s.mu.Lock()
	s.places = append([]mapsdk.Place(nil), places...)
	s.mu.Unlock()

	s.listeners.Fire(mapsdk.EventPlacesChanged)
}
