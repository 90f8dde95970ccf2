// Package visibility implements the Visibility Tracer: for each candidate
// it casts N radial rays through a TerrainGrid, applies the synthetic
// moat-and-canopy obstruction model, and produces a VisibilityMetrics
// record.
package visibility

import (
	"math"
	"sort"

	"github.com/sytelus/highpoint/pkg/model"
	"github.com/sytelus/highpoint/pkg/terrain"
)

// Tracer casts rays for a run's candidates, reusing one scratch RayResult
// buffer across candidates for the per-ray results (the buffer is only
// grown, never shrunk, and is re-sliced to N each call). The returned
// metrics hold their own copy of the rays, allocated per candidate.
type Tracer struct {
	scratch []model.RayResult
}

// NewTracer returns a Tracer ready to trace candidates against req's
// ray count.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Trace casts rays_full_circle rays from c through g and returns the
// resulting metrics. ok is false when no ray cleared the moat, meaning the
// candidate must be discarded per the visibility-tracer contract. err is
// non-nil only if a terrain sample violated the non-finite-elevation
// invariant, in which case it is always a *model.InternalError.
func (t *Tracer) Trace(g *terrain.TerrainGrid, c model.TerrainCandidate, req model.VisibilityRequest) (model.VisibilityMetrics, bool, error) {
	n := req.RaysFullCircle
	if cap(t.scratch) < n {
		t.scratch = make([]model.RayResult, n)
	}
	rays := t.scratch[:n]

	eObs := c.ElevationM + req.ObserverEyeHeightM
	delta := g.CellSizeM()
	maxSteps := int(math.Floor(req.MaxVisibilityM / delta))

	for i := 0; i < n; i++ {
		azimuthDeg := float64(i) * 360.0 / float64(n)
		ray, err := t.traceRay(g, c, req, azimuthDeg, eObs, delta, maxSteps)
		if err != nil {
			return model.VisibilityMetrics{}, false, err
		}
		rays[i] = ray
	}

	metrics := summarize(rays, req)

	return metrics, metrics.ClearedRayCount > 0, nil
}

// traceRay casts a single ray at azimuthDeg (clockwise from north, i.e.
// +y) and returns its RayResult.
func (t *Tracer) traceRay(g *terrain.TerrainGrid, c model.TerrainCandidate, req model.VisibilityRequest, azimuthDeg, eObs, delta float64, maxSteps int) (model.RayResult, error) {
	theta := azimuthDeg * math.Pi / 180.0
	sinT, cosT := math.Sin(theta), math.Cos(theta)

	sampleAt := func(s int) (x, y, d float64, terrainElev float64, ok bool, err error) {
		d = float64(s) * delta
		x = c.X + d*sinT
		y = c.Y + d*cosT
		terrainElev, ok, err = g.Sample(x, y)
		return x, y, d, terrainElev, ok, err
	}

	// Clearance pre-check: scan every moat sample (d <= obstruction_start_m,
	// including s=0) for the drop inequality.
	cleared := false
	for s := 0; ; s++ {
		_, _, d, elev, ok, err := sampleAt(s)
		if err != nil {
			return model.RayResult{}, err
		}
		if d > req.ObstructionStartM {
			break
		}
		if !ok {
			break
		}
		if c.ElevationM-elev >= req.ObstructionHeightM-req.ObserverEyeHeightM {
			cleared = true
		}
		if s > maxSteps {
			break
		}
	}

	if !cleared {
		return model.RayResult{AzimuthDeg: azimuthDeg, MaxDistanceM: 0, ClearedMoat: false}, nil
	}

	alphaMax := math.Inf(-1)
	maxDistance := 0.0

	for s := 1; s <= maxSteps; s++ {
		_, _, d, elev, ok, err := sampleAt(s)
		if err != nil {
			return model.RayResult{}, err
		}
		if !ok {
			break
		}
		canopy := elev
		if d > req.ObstructionStartM {
			canopy += req.ObstructionHeightM
		}
		alphaS := (canopy - eObs) / d

		if alphaS >= alphaMax {
			maxDistance = d
		}
		if alphaS > alphaMax {
			alphaMax = alphaS
		}
	}

	return model.RayResult{AzimuthDeg: azimuthDeg, MaxDistanceM: maxDistance, ClearedMoat: true}, nil
}

// summarize computes VisibilityMetrics from the raw per-ray results.
func summarize(rays []model.RayResult, req model.VisibilityRequest) model.VisibilityMetrics {
	n := len(rays)
	stepDeg := 360.0 / float64(n)

	out := model.VisibilityMetrics{
		Rays: append([]model.RayResult(nil), rays...),
	}

	var inSectorDistances []float64
	for _, ray := range rays {
		if ray.MaxDistanceM > out.MaxDistanceM {
			out.MaxDistanceM = ray.MaxDistanceM
		}
		if ray.ClearedMoat {
			out.ClearedRayCount++
		}
		if inSector(ray.AzimuthDeg, req.AzimuthDeg, req.AzimuthToleranceDeg) {
			inSectorDistances = append(inSectorDistances, ray.MaxDistanceM)
			if ray.MaxDistanceM >= req.MinVisibilityM {
				out.FovDeg += stepDeg
			}
		}
	}

	if len(inSectorDistances) > 0 {
		out.MeanDistanceM = mean(inSectorDistances)
		out.MedianDistanceM = median(inSectorDistances)
	}

	return out
}

// inSector reports whether azimuthDeg lies within toleranceDeg of
// centerDeg on the 360-degree circle.
func inSector(azimuthDeg, centerDeg, toleranceDeg float64) bool {
	diff := math.Abs(azimuthDeg - centerDeg)
	angularDist := math.Min(diff, 360-diff)
	return angularDist <= toleranceDeg
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
