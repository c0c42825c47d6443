package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burnai-server/config"

	"github.com/gorilla/mux"
)

type BurnMapHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
}

func NewBurnMapHttpServer(router *Router, muxRouter *mux.Router, addr string) *BurnMapHttpServer {
	return &BurnMapHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      addr,
	}
}

// Start serves until SIGINT/SIGTERM or ctx is done, then shuts down gracefully.
func (s *BurnMapHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.muxRouter,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[BurnMapHttpServer] Starting server on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-stop:
	case <-ctx.Done():
	}
	log.Println("[BurnMapHttpServer] Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.HTTP_SHUTDOWN_TIMEOUT_SECONDS*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[BurnMapHttpServer] Server forced to shutdown: %v", err)
		return err
	}

	log.Println("[BurnMapHttpServer] Server exiting")
	return nil
}
