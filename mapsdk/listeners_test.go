package mapsdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListeners_FireInRegistrationOrder(t *testing.T) {
	var l Listeners
	var calls []string

	l.Add(EventBoundsChanged, func() { calls = append(calls, "first") })
	l.Add(EventBoundsChanged, func() { calls = append(calls, "second") })
	l.Add(EventPlacesChanged, func() { calls = append(calls, "other") })

	l.Fire(EventBoundsChanged)

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestListeners_Remove(t *testing.T) {
	var l Listeners
	fired := 0
	sub := l.Add(EventPlacesChanged, func() { fired++ })
	assert.Equal(t, 1, l.Count(EventPlacesChanged))

	sub.Remove()
	sub.Remove()
	l.Fire(EventPlacesChanged)

	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, l.Count(EventPlacesChanged))
}

func TestListeners_ListenerMayRegisterDuringFire(t *testing.T) {
	var l Listeners
	l.Add(EventBoundsChanged, func() {
		l.Add(EventBoundsChanged, func() {})
	})

	assert.NotPanics(t, func() { l.Fire(EventBoundsChanged) })
	assert.Equal(t, 2, l.Count(EventBoundsChanged))
}
