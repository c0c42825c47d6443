package models

// VegetationCell is the center of one NDVI raster cell. NDVI lies in [-1, 1].
type VegetationCell struct {
	Location LatLng  `json:"location"`
	NDVI     float64 `json:"ndvi"`
}
