package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"burnai-server/config"
	"burnai-server/di"
	services "burnai-server/service"
	"burnai-server/util"

	"github.com/spf13/cobra"
)

var (
	mockMode   bool
	addr       string
	noRefresh  bool
	archiveDir string
	outputFile string
	query      string
	ndviPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "burnai-server",
		Short: "Serve and render the BurnAI burn potential map",
		Long: `burnai-server keeps burn potential samples derived from FIRMS fire
detections in Redis and serves them to map clients as a heatmap.`,
	}
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "Use in-memory redis and file-backed FIRMS and geocoder")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the periodic refresher",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&noRefresh, "no-refresh", false, "Do not run the periodic FIRMS refresh")

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run one FIRMS refresh and exit",
		RunE:  runRefresh,
	}
	refreshCmd.Flags().StringVar(&archiveDir, "archive", "", "Directory for the dated detection summary CSV")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the burn map to a standalone HTML file",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "burn_map.html", "Output HTML file path")
	renderCmd.Flags().StringVarP(&query, "query", "q", "", "Place search to fit the map to")

	seedCmd := &cobra.Command{
		Use:   "seed <samples.json>",
		Short: "Load burn potential samples from a JSON file into redis",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest-ndvi [ndvi.csv]",
		Short: "Import an extracted lat,lon,ndvi CSV into redis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIngestNDVI,
	}

	rootCmd.AddCommand(serveCmd, refreshCmd, renderCmd, seedCmd, ingestCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newContainer(ctx context.Context) (*di.Container, error) {
	cfg := config.Load()
	if addr != "" {
		cfg.HTTPAddress = addr
	}
	if ndviPath != "" {
		cfg.NDVICSVPath = ndviPath
	}
	container, err := di.NewContainer(ctx, cfg, mockMode)
	if err != nil {
		return nil, err
	}
	if mockMode {
		// The in-memory store starts without vegetation.
		if _, err := container.VegetationService.ImportCells(ctx, services.DefaultRegion()); err != nil {
			log.Printf("[MAIN] NDVI import failed: %v", err)
		}
	}
	return container, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := newContainer(ctx)
	if err != nil {
		return err
	}

	go container.StreamHandler.Run(ctx)

	if !noRefresh {
		log.Println("[MAIN] Running initial refresh")
		if err := container.BurnRefresherService.RefreshBurnData(ctx); err != nil {
			log.Printf("[MAIN] Initial refresh failed: %v", err)
		}
		container.BurnRefresherService.StartPeriodicJob(ctx, container.Config.RefreshInterval)
	}

	log.Println("[MAIN] Starting server")
	return container.BurnMapHttpServer.Start(ctx)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	if archiveDir != "" {
		container.BurnRefresherService.SetArchiveDir(archiveDir)
	}

	if err := container.BurnRefresherService.RefreshBurnData(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	resp, err := container.BurnPotentialService.GetHeatmap(services.DefaultRegion())
	if err != nil {
		return err
	}
	util.PrintHeatmapResponsePartially(resp)
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}

	if mockMode {
		// The in-memory store starts empty.
		if err := container.BurnRefresherService.RefreshBurnData(ctx); err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
	}

	snapshot := &snapshotRenderer{ctx: ctx, service: container.MapSnapshotService, query: query}
	if err := util.PlotToFile(snapshot, outputFile); err != nil {
		return err
	}
	cmd.Println(fmt.Sprintf("Burn map saved to %s", outputFile))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}

	samples, err := util.ReadBurnSamplesFromJSON(args[0])
	if err != nil {
		return err
	}
	samples, err = services.PrepareSamples(samples)
	if err != nil {
		return err
	}
	for _, s := range samples {
		if err := container.RedisBurnDao.UpsertSample(s); err != nil {
			return fmt.Errorf("failed to upsert sample %s: %w", s.ID, err)
		}
	}
	cmd.Println(fmt.Sprintf("Seeded %d burn potential samples", len(samples)))
	return nil
}

func runIngestNDVI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 1 {
		ndviPath = args[0]
	}
	container, err := newContainer(ctx)
	if err != nil {
		return err
	}
	if mockMode {
		cmd.Println("Imported the NDVI fixture into the in-memory store")
		return nil
	}

	n, err := container.VegetationService.ImportCells(ctx, services.DefaultRegion())
	if err != nil {
		return err
	}
	cmd.Println(fmt.Sprintf("Imported %d NDVI cells", n))
	return nil
}

// snapshotRenderer adapts the snapshot service to util.Renderer.
type snapshotRenderer struct {
	ctx     context.Context
	service *services.MapSnapshotService
	query   string
}

func (r *snapshotRenderer) Render(w io.Writer) error {
	return r.service.Render(r.ctx, r.query, w)
}
