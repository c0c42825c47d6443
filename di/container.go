package di

import (
	"context"
	"fmt"
	"log"

	"burnai-server/api"
	"burnai-server/api/firms"
	"burnai-server/api/ndvi"
	"burnai-server/api/nominatim"
	"burnai-server/config"
	"burnai-server/dao/redis"
	"burnai-server/db"
	"burnai-server/mapsession"
	"burnai-server/models"
	"burnai-server/server"
	"burnai-server/server/handlers"
	services "burnai-server/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config               *config.Config
	RedisClient          db.RedisClient
	RedisBurnDao         *redis.RedisBurnDAO
	RedisVegetationDao   *redis.RedisVegetationDAO
	FirmsAPI             firms.FirmsAPI
	Geocoder             nominatim.Geocoder
	BurnPotentialService *services.BurnPotentialService
	VegetationService    *services.VegetationService
	BurnRefresherService *services.BurnRefresherService
	MapSnapshotService   *services.MapSnapshotService
	BurnHandler          *handlers.BurnHandler
	MapPageHandler       *handlers.MapPageHandler
	StreamHandler        *handlers.StreamHandler
	SnapshotHandler      *handlers.SnapshotHandler
	MuxRouter            *mux.Router
	Router               *server.Router
	BurnMapHttpServer    *server.BurnMapHttpServer
}

// NewContainer initializes and wires up all dependencies. With mock set, Redis,
// FIRMS and the geocoder are replaced by in-memory and file-backed fakes.
func NewContainer(ctx context.Context, cfg *config.Config, mock bool) (*Container, error) {
	log.Printf("initializing container - mock: %t", mock)

	// Initialize Redis client
	var redisClient db.RedisClient
	if mock {
		redisClient = db.NewMockRedisClient(ctx)
		log.Printf("Using in-memory redis")
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       config.REDIS_DB,
		})
		geoClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = geoClient
	}

	redisBurnDao := redis.NewRedisBurnDAO(redisClient)
	redisVegetationDao := redis.NewRedisVegetationDAO(redisClient)

	// Initialize external APIs
	var firmsAPI firms.FirmsAPI
	var geocoder nominatim.Geocoder
	if mock {
		firmsAPI = firms.NewFirmsApiClientMock(config.GetResourcePath(config.FIRMS_AREA_CSV_RESOURCE))
		geocoder = nominatim.NewNominatimApiClientMock(config.GetResourcePath(config.PLACES_RESOURCE))
		log.Printf("Using mock FIRMS and geocoder")
	} else {
		firmsClient := firms.NewFirmsApiClient(api.NewHTTPClient(config.FIRMS_ENDPOINT_BASE))
		firmsClient.SetMapKey(cfg.FirmsMapKey)
		firmsClient.SetRetryPolicy(config.FIRMS_MAX_RETRIES, cfg.FirmsRetryDelay)
		firmsAPI = firmsClient
		geocoder = nominatim.NewNominatimApiClient(api.NewHTTPClient(cfg.NominatimEndpointURL), config.NOMINATIM_USER_AGENT)
	}

	mapOpts := mapsession.DefaultOptions(cfg.GoogleMapsAPIKey)
	mapOpts.Loader.Retries = cfg.MapsSDKLoadRetries

	// Initialize service layer
	burnService := services.NewBurnPotentialService(redisBurnDao)
	ndviPath := cfg.NDVICSVPath
	if mock {
		ndviPath = config.GetResourcePath(config.NDVI_CSV_RESOURCE)
	}
	vegetationService := services.NewVegetationService(redisVegetationDao, ndvi.NewNdviFileSource(ndviPath))
	snapshotService := services.NewMapSnapshotService(burnService, geocoder, mapOpts)

	streamHandler := handlers.NewStreamHandler(func() (*models.HeatmapResponse, error) {
		return burnService.GetHeatmap(services.DefaultRegion())
	})

	refresherService := services.NewBurnRefresherService(redisBurnDao, firmsAPI, streamHandler)
	refresherService.SetChunkWait(cfg.ChunkWait)
	refresherService.SetVegetation(vegetationService)
	if mock {
		refresherService.SetChunkWait(0)
	}

	// Initialize handlers
	burnHandler := handlers.NewBurnHandler(burnService)
	mapPageHandler := handlers.NewMapPageHandler(mapOpts, server.BURN_POTENTIAL_PATH, server.BURN_POTENTIAL_STREAM_PATH)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)

	// Initialize router and server
	muxRouter := mux.NewRouter()
	router := server.NewRouter(burnHandler, mapPageHandler, streamHandler, snapshotHandler, handlers.Ping, muxRouter)
	httpServer := server.NewBurnMapHttpServer(router, muxRouter, cfg.HTTPAddress)

	return &Container{
		Config:               cfg,
		RedisClient:          redisClient,
		RedisBurnDao:         redisBurnDao,
		RedisVegetationDao:   redisVegetationDao,
		FirmsAPI:             firmsAPI,
		Geocoder:             geocoder,
		BurnPotentialService: burnService,
		VegetationService:    vegetationService,
		BurnRefresherService: refresherService,
		MapSnapshotService:   snapshotService,
		BurnHandler:          burnHandler,
		MapPageHandler:       mapPageHandler,
		StreamHandler:        streamHandler,
		SnapshotHandler:      snapshotHandler,
		MuxRouter:            muxRouter,
		Router:               router,
		BurnMapHttpServer:    httpServer,
	}, nil
}
