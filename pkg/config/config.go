// Package config loads and persists the engine's run configuration: the
// visibility request parameters, input file locations, and logging
// settings, with environment-variable overrides for deployment-specific
// paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sytelus/highpoint/pkg/model"
)

// Config holds the engine's run configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Observer ObserverConfig `yaml:"observer"`
	Rays     RaysConfig     `yaml:"rays"`
	Cluster  ClusterConfig  `yaml:"cluster"`
	Access   AccessConfig   `yaml:"access"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig points at the DEM and road network files a run loads.
type InputConfig struct {
	ElevationFile   string   `yaml:"elevation_file"`
	RoadsFile       string   `yaml:"roads_file"`
	RoadClassField  string   `yaml:"road_class_field"`
	DrivableClasses []string `yaml:"drivable_classes"`
}

// ObserverConfig holds the viewpoint-candidate and obstruction model
// parameters passed to the candidate detector and visibility tracer.
type ObserverConfig struct {
	EyeHeight         Distance `yaml:"eye_height"`
	ObstructionStart  Distance `yaml:"obstruction_start"`
	ObstructionHeight Distance `yaml:"obstruction_height"`
	MinVisibility     Distance `yaml:"min_visibility"`
	MaxVisibility     Distance `yaml:"max_visibility"`
	ResolutionScale   float64  `yaml:"resolution_scale"`
}

// RaysConfig holds the ray-casting fan parameters.
type RaysConfig struct {
	MinFovDeg           float64 `yaml:"min_fov_deg"`
	AzimuthDeg          float64 `yaml:"azimuth_deg"`
	AzimuthToleranceDeg float64 `yaml:"azimuth_tolerance_deg"`
	FullCircleCount     int     `yaml:"full_circle_count"`
}

// ClusterConfig holds the square-grid clustering cell size.
type ClusterConfig struct {
	GridSize Distance `yaml:"grid_size"`
}

// AccessConfig holds the drivability scorer's walking/driving budget.
type AccessConfig struct {
	WalkingSpeedKmh float64   `yaml:"walking_speed_kmh"`
	DrivingSpeedKmh float64   `yaml:"driving_speed_kmh"`
	MaxWalk         Duration  `yaml:"max_walk"`
	MaxDrive        *Duration `yaml:"max_drive"` // nil means no cap
}

// OutputConfig holds the ranker's output shape.
type OutputConfig struct {
	ResultsLimit int `yaml:"results_limit"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			ElevationFile:   "data/dem/terrain.bin",
			RoadsFile:       "data/roads/roads.shp",
			RoadClassField:  "CLASS",
			DrivableClasses: []string{"paved", "gravel"},
		},
		Observer: ObserverConfig{
			EyeHeight:         Distance(1.8),
			ObstructionStart:  Distance(15),
			ObstructionHeight: Distance(18),
			MinVisibility:     Distance(1609.34), // 1 mile
			MaxVisibility:     Distance(80000),   // 80km
			ResolutionScale:   1.0,
		},
		Rays: RaysConfig{
			MinFovDeg:           30,
			AzimuthDeg:          0,
			AzimuthToleranceDeg: 180, // full circle of interest by default
			FullCircleCount:     72,
		},
		Cluster: ClusterConfig{
			GridSize: Distance(500),
		},
		Access: AccessConfig{
			WalkingSpeedKmh: 4.8,
			DrivingSpeedKmh: 50,
			MaxWalk:         Duration(15 * time.Minute),
			MaxDrive:        nil,
		},
		Output: OutputConfig{
			ResultsLimit: 25,
		},
		Log: LogConfig{
			Path:  "./logs/highpoint.log",
			Level: "INFO",
		},
	}
}

// Load loads the configuration from path. If the file does not exist, it
// is created with default values. Environment variables in .env/.env.local
// override the elevation and roads file locations, for deployments that
// keep data paths out of version control.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	_ = godotenv.Load(".env.local", ".env")
	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HIGHPOINT_ELEVATION_FILE"); v != "" {
		cfg.Input.ElevationFile = v
	}
	if v := os.Getenv("HIGHPOINT_ROADS_FILE"); v != "" {
		cfg.Input.RoadsFile = v
	}
	if v := os.Getenv("HIGHPOINT_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("HIGHPOINT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func validate(cfg *Config) error {
	if cfg.Rays.FullCircleCount < 4 {
		return fmt.Errorf("rays.full_circle_count must be >= 4, got %d", cfg.Rays.FullCircleCount)
	}
	if cfg.Input.ElevationFile == "" {
		return fmt.Errorf("input.elevation_file must be set")
	}
	return nil
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Highpoint engine configuration
# ---------------------
# Supported units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)

`)
	data = append(header, data...)

	reClasses := regexp.MustCompile(`(?m)^(\s+)drivable_classes:`)
	data = reClasses.ReplaceAll(data, []byte("${1}# road class values treated as accessible on foot/by car\n${1}drivable_classes:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at path if one does not
// already exist.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}

// Build converts the config into a model.VisibilityRequest. It performs no
// validation of its own: Load checks the ray count and elevation file, and
// pipeline.Run rejects an invalid request with an InvalidInputError.
func (c *Config) Build() model.VisibilityRequest {
	req := model.VisibilityRequest{
		ObserverEyeHeightM:  float64(c.Observer.EyeHeight),
		ObstructionStartM:   float64(c.Observer.ObstructionStart),
		ObstructionHeightM:  float64(c.Observer.ObstructionHeight),
		MinVisibilityM:      float64(c.Observer.MinVisibility),
		MinFovDeg:           c.Rays.MinFovDeg,
		AzimuthDeg:          c.Rays.AzimuthDeg,
		AzimuthToleranceDeg: c.Rays.AzimuthToleranceDeg,
		RaysFullCircle:      c.Rays.FullCircleCount,
		MaxVisibilityM:      float64(c.Observer.MaxVisibility),
		ClusterGridM:        float64(c.Cluster.GridSize),
		ResolutionScale:     c.Observer.ResolutionScale,
		WalkingSpeedKmh:     c.Access.WalkingSpeedKmh,
		DrivingSpeedKmh:     c.Access.DrivingSpeedKmh,
		MaxWalkMinutes:      time.Duration(c.Access.MaxWalk).Minutes(),
		ResultsLimit:        c.Output.ResultsLimit,
	}
	if c.Access.MaxDrive != nil {
		req.HasMaxDriveMinutes = true
		req.MaxDriveMinutes = time.Duration(*c.Access.MaxDrive).Minutes()
	}
	return req
}
