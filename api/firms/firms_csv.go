package firms

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"burnai-server/models"
)

// ParseAreaCSV decodes a FIRMS area CSV. Rows whose coordinates cannot be
// parsed are logged and skipped.
func ParseAreaCSV(data []byte) ([]models.FireDetection, error) {
	detections := []models.FireDetection{}
	if len(bytes.TrimSpace(data)) == 0 {
		return detections, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read FIRMS CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["latitude"]; !ok {
		return nil, fmt.Errorf("FIRMS CSV has no latitude column (header %q)", strings.Join(header, ","))
	}
	if _, ok := columns["longitude"]; !ok {
		return nil, fmt.Errorf("FIRMS CSV has no longitude column (header %q)", strings.Join(header, ","))
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	line := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Printf("[FirmsAPI] Skipping malformed CSV line %d: %v", line, err)
			continue
		}

		lat, errLat := strconv.ParseFloat(field(record, "latitude"), 64)
		lon, errLon := strconv.ParseFloat(field(record, "longitude"), 64)
		if errLat != nil || errLon != nil {
			log.Printf("[FirmsAPI] Skipping CSV line %d with invalid coordinates", line)
			continue
		}

		frp, _ := strconv.ParseFloat(field(record, "frp"), 64)
		bright, _ := strconv.ParseFloat(field(record, "bright_ti4"), 64)
		detections = append(detections, models.FireDetection{
			Latitude:   lat,
			Longitude:  lon,
			BrightTI4:  bright,
			AcqDate:    field(record, "acq_date"),
			AcqTime:    field(record, "acq_time"),
			Satellite:  field(record, "satellite"),
			Confidence: field(record, "confidence"),
			FRP:        frp,
			DayNight:   field(record, "daynight"),
		})
	}

	return detections, nil
}

// summaryHeader lists the columns written by WriteSummaryCSV.
var summaryHeader = []string{"latitude", "longitude", "acq_date", "frp"}

// WriteSummaryCSV writes the latitude, longitude, acq_date and frp of each detection.
func WriteSummaryCSV(w io.Writer, detections []models.FireDetection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, d := range detections {
		row := []string{
			strconv.FormatFloat(d.Latitude, 'f', -1, 64),
			strconv.FormatFloat(d.Longitude, 'f', -1, 64),
			d.AcqDate,
			strconv.FormatFloat(d.FRP, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
