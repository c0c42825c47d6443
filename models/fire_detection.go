package models

// FireDetection is one row of the FIRMS area CSV.
type FireDetection struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	BrightTI4  float64 `json:"bright_ti4"`
	AcqDate    string  `json:"acq_date"`
	AcqTime    string  `json:"acq_time"`
	Satellite  string  `json:"satellite"`
	Confidence string  `json:"confidence"`
	FRP        float64 `json:"frp"`
	DayNight   string  `json:"daynight"`
}
