package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"burnai-server/mapsession"
	"burnai-server/models"
)

//go:embed templates/map_page.html
var templatesFS embed.FS

var mapPageTemplate = template.Must(template.ParseFS(templatesFS, "templates/map_page.html"))

// mapPageData feeds the map page template.
type mapPageData struct {
	Title          string
	APIKey         string
	Version        string
	Libraries      []string
	Language       string
	Region         string
	Center         models.LatLng
	Zoom           int
	MaxPlaceZoom   int
	Gradient       []string
	MapAnchorID    string
	SearchAnchorID string
	DataPath       string
	StreamPath     string
}

type MapPageHandler struct {
	data mapPageData
}

func NewMapPageHandler(opts mapsession.Options, dataPath, streamPath string) *MapPageHandler {
	return &MapPageHandler{data: mapPageData{
		Title:          "BurnAI",
		APIKey:         opts.Loader.APIKey,
		Version:        opts.Loader.Version,
		Libraries:      opts.Loader.Libraries,
		Language:       opts.Loader.Language,
		Region:         opts.Loader.Region,
		Center:         opts.Center,
		Zoom:           opts.Zoom,
		MaxPlaceZoom:   opts.MaxPlaceZoom,
		Gradient:       mapsession.BurnGradient(),
		MapAnchorID:    opts.MapAnchorID,
		SearchAnchorID: opts.SearchAnchorID,
		DataPath:       dataPath,
		StreamPath:     streamPath,
	}}
}

// GetMapPage serves the interactive map.
func (h *MapPageHandler) GetMapPage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := mapPageTemplate.Execute(&buf, h.data); err != nil {
		log.Println("[MapPageHandler] Error rendering map page:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
