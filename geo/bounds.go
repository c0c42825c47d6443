package geo

import (
	"fmt"
	"math"

	"burnai-server/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean earth radius used for distance conversions.
const EarthRadiusKm = 6371.0088

// Bounds is a latitude/longitude rectangle. The zero value is not usable,
// start from EmptyBounds or NewBounds.
type Bounds struct {
	rect s2.Rect
}

// EmptyBounds returns a rectangle containing no points.
func EmptyBounds() Bounds {
	return Bounds{rect: s2.EmptyRect()}
}

// NewBounds builds the rectangle spanning from the south-west to the north-east corner.
// A west longitude greater than the east one yields a rectangle crossing the antimeridian.
func NewBounds(sw, ne models.LatLng) Bounds {
	lat := r1.Interval{Lo: deg2rad(sw.Lat), Hi: deg2rad(ne.Lat)}
	if lat.Lo > lat.Hi {
		return EmptyBounds()
	}
	lng := s1.IntervalFromEndpoints(deg2rad(normalizeLng(sw.Lng)), deg2rad(normalizeLng(ne.Lng)))
	if ne.Lng-sw.Lng >= 360 {
		lng = s1.FullInterval()
	}
	return Bounds{rect: s2.Rect{Lat: lat, Lng: lng}}
}

// FromBoundingBox converts the wire representation into Bounds.
func FromBoundingBox(bb models.BoundingBox) Bounds {
	return NewBounds(
		models.LatLng{Lat: bb.South, Lng: bb.West},
		models.LatLng{Lat: bb.North, Lng: bb.East},
	)
}

// Extend returns the smallest rectangle containing b and p.
func (b Bounds) Extend(p models.LatLng) Bounds {
	return Bounds{rect: b.rect.AddPoint(toS2(p))}
}

// Union returns the smallest rectangle containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{rect: b.rect.Union(other.rect)}
}

// IsEmpty reports whether the rectangle contains no points.
func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

// Contains reports whether p lies inside or on the edge of the rectangle.
func (b Bounds) Contains(p models.LatLng) bool {
	return b.rect.ContainsLatLng(toS2(p))
}

// Center returns the rectangle center.
func (b Bounds) Center() models.LatLng {
	return fromS2(b.rect.Center())
}

// SouthWest returns the low corner.
func (b Bounds) SouthWest() models.LatLng {
	return fromS2(b.rect.Lo())
}

// NorthEast returns the high corner.
func (b Bounds) NorthEast() models.LatLng {
	return fromS2(b.rect.Hi())
}

// LngSpan returns the longitude width in degrees, accounting for antimeridian crossing.
func (b Bounds) LngSpan() float64 {
	if b.IsEmpty() {
		return 0
	}
	return rad2deg(b.rect.Lng.Length())
}

// LatSpan returns the latitude height in degrees.
func (b Bounds) LatSpan() float64 {
	if b.IsEmpty() {
		return 0
	}
	return rad2deg(b.rect.Lat.Length())
}

// SizeKm approximates the rectangle width (measured along its center latitude)
// and height in kilometers.
func (b Bounds) SizeKm() (width, height float64) {
	if b.IsEmpty() {
		return 0, 0
	}
	c := b.Center()
	sw, ne := b.SouthWest(), b.NorthEast()
	width = DistanceKm(models.LatLng{Lat: c.Lat, Lng: c.Lng - b.LngSpan()/2}, c) * 2
	height = DistanceKm(models.LatLng{Lat: sw.Lat, Lng: c.Lng}, models.LatLng{Lat: ne.Lat, Lng: c.Lng})
	return width, height
}

// BoundingBox converts to the wire representation.
func (b Bounds) BoundingBox() models.BoundingBox {
	sw, ne := b.SouthWest(), b.NorthEast()
	return models.BoundingBox{South: sw.Lat, West: sw.Lng, North: ne.Lat, East: ne.Lng}
}

func (b Bounds) String() string {
	if b.IsEmpty() {
		return "Bounds(empty)"
	}
	sw, ne := b.SouthWest(), b.NorthEast()
	return fmt.Sprintf("Bounds(%.6f,%.6f -> %.6f,%.6f)", sw.Lat, sw.Lng, ne.Lat, ne.Lng)
}

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(a, b models.LatLng) float64 {
	return toS2(a).Distance(toS2(b)).Radians() * EarthRadiusKm
}

func toS2(p models.LatLng) s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

func fromS2(ll s2.LatLng) models.LatLng {
	return models.LatLng{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

func rad2deg(r float64) float64 {
	return r * 180 / math.Pi
}

// normalizeLng maps any longitude into [-180, 180].
func normalizeLng(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	return math.Remainder(lng, 360)
}
