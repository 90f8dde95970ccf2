package pipeline

import (
	"math"

	"github.com/sytelus/highpoint/pkg/model"
	"github.com/sytelus/highpoint/pkg/terrain"
)

// validateRequest checks the InvalidInput cases the spec assigns to the
// core: rays_full_circle < 4, non-finite configuration values, and
// min_fov_deg < 0. TerrainGrid's own constructor already rejects a
// non-positive cell size and an empty grid.
func validateRequest(g *terrain.TerrainGrid, req model.VisibilityRequest) error {
	if g == nil {
		return &model.InvalidInputError{Reason: "terrain grid is nil"}
	}
	if req.RaysFullCircle < 4 {
		return &model.InvalidInputError{Reason: "rays_full_circle must be >= 4"}
	}
	if req.MinFovDeg < 0 {
		return &model.InvalidInputError{Reason: "min_fov_deg must be >= 0"}
	}

	finiteFields := map[string]float64{
		"observer_eye_height_m": req.ObserverEyeHeightM,
		"obstruction_start_m":   req.ObstructionStartM,
		"obstruction_height_m":  req.ObstructionHeightM,
		"min_visibility_m":      req.MinVisibilityM,
		"azimuth_deg":           req.AzimuthDeg,
		"azimuth_tolerance_deg": req.AzimuthToleranceDeg,
		"max_visibility_m":      req.MaxVisibilityM,
		"cluster_grid_m":        req.ClusterGridM,
		"resolution_scale":      req.ResolutionScale,
		"walking_speed_kmh":     req.WalkingSpeedKmh,
		"driving_speed_kmh":     req.DrivingSpeedKmh,
		"max_walk_minutes":      req.MaxWalkMinutes,
	}
	for name, v := range finiteFields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.InvalidInputError{Reason: "non-finite configuration value: " + name}
		}
	}

	return nil
}
