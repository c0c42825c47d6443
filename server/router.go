package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

const (
	BURN_POTENTIAL_PATH         = "/v1/burn-potential"
	BURN_POTENTIAL_GEOJSON_PATH = "/v1/burn-potential.geojson"
	BURN_POTENTIAL_STREAM_PATH  = "/v1/burn-potential/stream"
	MAP_SNAPSHOT_PATH           = "/v1/map/snapshot"
)

// BurnHandler serves burn potential data.
type BurnHandler interface {
	GetBurnPotential(w http.ResponseWriter, r *http.Request)
	GetBurnPotentialGeoJSON(w http.ResponseWriter, r *http.Request)
}

// MapPageHandler serves the interactive map.
type MapPageHandler interface {
	GetMapPage(w http.ResponseWriter, r *http.Request)
}

// StreamHandler upgrades clients to the update stream.
type StreamHandler interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

// SnapshotHandler renders server-side maps.
type SnapshotHandler interface {
	GetMapSnapshot(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	burnHandler     BurnHandler
	mapPageHandler  MapPageHandler
	streamHandler   StreamHandler
	snapshotHandler SnapshotHandler
	ping            http.HandlerFunc
	router          *mux.Router
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	burnHandler BurnHandler,
	mapPageHandler MapPageHandler,
	streamHandler StreamHandler,
	snapshotHandler SnapshotHandler,
	ping http.HandlerFunc,
	router *mux.Router) *Router {
	return &Router{
		burnHandler:     burnHandler,
		mapPageHandler:  mapPageHandler,
		streamHandler:   streamHandler,
		snapshotHandler: snapshotHandler,
		ping:            ping,
		router:          router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(LoggingMiddleware)

	r.router.HandleFunc("/", r.mapPageHandler.GetMapPage).Methods("GET")

	// expects optional ?south=&west=&north=&east= (floats)
	r.router.HandleFunc(BURN_POTENTIAL_PATH, r.burnHandler.GetBurnPotential).Methods("GET")
	r.router.HandleFunc(BURN_POTENTIAL_GEOJSON_PATH, r.burnHandler.GetBurnPotentialGeoJSON).Methods("GET")
	r.router.HandleFunc(BURN_POTENTIAL_STREAM_PATH, r.streamHandler.ServeWS).Methods("GET")

	// expects optional ?q={place query}
	r.router.HandleFunc(MAP_SNAPSHOT_PATH, r.snapshotHandler.GetMapSnapshot).Methods("GET")

	r.router.HandleFunc("/ping", r.ping).Methods("GET")
}
