package ndvi

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"burnai-server/models"
)

// columnAliases maps accepted header names to the canonical column.
var columnAliases = map[string]string{
	"lat":       "lat",
	"latitude":  "lat",
	"lon":       "lon",
	"lng":       "lon",
	"longitude": "lon",
	"ndvi":      "ndvi",
}

// ParseNDVICSV decodes a lat,lon,ndvi CSV. Rows with unparsable coordinates or
// a no-data NDVI (NaN or outside [-1, 1]) are skipped.
func ParseNDVICSV(data []byte) ([]models.VegetationCell, error) {
	cells := []models.VegetationCell{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cells, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read NDVI CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			columns[canonical] = i
		}
	}
	for _, required := range []string{"lat", "lon", "ndvi"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("NDVI CSV has no %s column (header %q)", required, strings.Join(header, ","))
		}
	}

	field := func(record []string, name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	line, skipped := 1, 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Printf("[NDVI] Skipping malformed CSV line %d: %v", line, err)
			skipped++
			continue
		}

		lat, errLat := strconv.ParseFloat(field(record, "lat"), 64)
		lon, errLon := strconv.ParseFloat(field(record, "lon"), 64)
		value, errNDVI := strconv.ParseFloat(field(record, "ndvi"), 64)
		if errLat != nil || errLon != nil || errNDVI != nil || math.IsNaN(value) || value < -1 || value > 1 {
			skipped++
			continue
		}
		cells = append(cells, models.VegetationCell{Location: models.LatLng{Lat: lat, Lng: lon}, NDVI: value})
	}
	if skipped > 0 {
		log.Printf("[NDVI] Skipped %d no-data or malformed rows", skipped)
	}
	return cells, nil
}
