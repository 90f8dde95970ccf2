// Command highpoint runs one visibility-analysis pipeline pass over a DEM
// and road network and prints the ranked candidates as a text table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sytelus/highpoint/pkg/config"
	"github.com/sytelus/highpoint/pkg/dem"
	"github.com/sytelus/highpoint/pkg/logging"
	"github.com/sytelus/highpoint/pkg/pipeline"
	"github.com/sytelus/highpoint/pkg/roads"
)

var (
	configPath = flag.String("config", "configs/highpoint.yaml", "Path to config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "highpoint: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cleanup, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer cleanup()

	slog.Info("highpoint starting", "elevation_file", cfg.Input.ElevationFile, "roads_file", cfg.Input.RoadsFile)

	grid, err := dem.LoadTerrainGrid(cfg.Input.ElevationFile)
	if err != nil {
		return fmt.Errorf("loading terrain grid: %w", err)
	}

	roadSegments, err := roads.LoadRoadSegments(cfg.Input.RoadsFile, cfg.Input.RoadClassField, cfg.Input.DrivableClasses)
	if err != nil {
		return fmt.Errorf("loading road network: %w", err)
	}
	slog.Info("inputs loaded", "rows", grid.Rows(), "cols", grid.Cols(), "road_segments", len(roadSegments))

	out, err := pipeline.Run(ctx, grid, roadSegments, cfg.Build())
	var emptyErr *pipeline.EmptyPipelineError
	switch {
	case errors.As(err, &emptyErr):
		fmt.Printf("no viewpoints survived stage %q (candidates=%d visible=%d clustered=%d drivable=%d)\n",
			out.EmptyStage, out.CandidateCount, out.VisibleCount, out.ClusteredCount, out.DrivableCount)
		return nil
	case err != nil:
		return fmt.Errorf("running pipeline: %w", err)
	}

	printResults(out)
	return nil
}

func printResults(out *pipeline.Output) {
	fmt.Printf("run %s: %d ranked viewpoints\n\n", out.RunID, len(out.Results))
	fmt.Printf("%-6s %-6s %10s %10s %8s %8s %8s %8s\n",
		"row", "col", "elev_m", "max_m", "fov_deg", "walk_m", "drive_m", "score")
	for _, r := range out.Results {
		fmt.Printf("%-6d %-6d %10.1f %10.1f %8.1f %8.1f %8.1f %8.3f\n",
			r.Row, r.Col, r.ElevationM, r.MaxDistanceM, r.FovDeg, r.WalkMinutes, r.DriveMinutesEstimate, r.Score)
	}
}
