package geo

import (
	"math"

	"burnai-server/models"
)

const (
	// TileSize is the pixel width of the world at zoom 0.
	TileSize = 256
	// MaxZoom is the deepest zoom level a map can fit to.
	MaxZoom = 21

	maxSinLat = 0.9999
	// fitSlackPx absorbs float error when bounds exactly match the viewport.
	fitSlackPx = 1e-6
)

// Project converts a coordinate into web-mercator world pixels at the given zoom.
func Project(p models.LatLng, zoom int) (x, y float64) {
	scale := worldSize(zoom)
	siny := math.Sin(deg2rad(p.Lat))
	siny = math.Min(math.Max(siny, -maxSinLat), maxSinLat)
	x = scale * (0.5 + p.Lng/360)
	y = scale * (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi))
	return x, y
}

// Unproject converts web-mercator world pixels back into a coordinate.
func Unproject(x, y float64, zoom int) models.LatLng {
	scale := worldSize(zoom)
	lng := x/scale*360 - 180
	n := math.Pi * (1 - 2*y/scale)
	lat := rad2deg(math.Atan(math.Sinh(n)))
	return models.LatLng{Lat: lat, Lng: normalizeLng(lng)}
}

// FitZoom returns the largest zoom in [0, maxZoom] at which b fits in a
// viewport of widthPx x heightPx. Point-like bounds resolve to maxZoom.
func FitZoom(b Bounds, widthPx, heightPx, maxZoom int) int {
	if b.IsEmpty() {
		return 0
	}
	if maxZoom > MaxZoom {
		maxZoom = MaxZoom
	}
	sw, ne := b.SouthWest(), b.NorthEast()
	for z := maxZoom; z > 0; z-- {
		dx := b.LngSpan() / 360 * worldSize(z)
		_, ySouth := Project(sw, z)
		_, yNorth := Project(ne, z)
		dy := math.Abs(ySouth - yNorth)
		if dx <= float64(widthPx)+fitSlackPx && dy <= float64(heightPx)+fitSlackPx {
			return z
		}
	}
	return 0
}

// ViewportBounds returns the rectangle visible in a widthPx x heightPx viewport
// centered on center at the given zoom.
func ViewportBounds(center models.LatLng, zoom, widthPx, heightPx int) Bounds {
	scale := worldSize(zoom)
	cx, cy := Project(center, zoom)
	top := math.Max(cy-float64(heightPx)/2, 0)
	bottom := math.Min(cy+float64(heightPx)/2, scale)
	north := Unproject(cx, top, zoom).Lat
	south := Unproject(cx, bottom, zoom).Lat

	if float64(widthPx) >= scale {
		return NewBounds(models.LatLng{Lat: south, Lng: -180}, models.LatLng{Lat: north, Lng: 180})
	}
	halfSpan := float64(widthPx) / 2 / scale * 360
	return NewBounds(
		models.LatLng{Lat: south, Lng: normalizeLng(center.Lng - halfSpan)},
		models.LatLng{Lat: north, Lng: normalizeLng(center.Lng + halfSpan)},
	)
}

func worldSize(zoom int) float64 {
	return TileSize * math.Exp2(float64(zoom))
}
