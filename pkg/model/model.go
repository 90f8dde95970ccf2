// Package model holds the record types shared across the visibility
// pipeline stages: terrain candidates, ray results, access points, and the
// frozen per-run request that parameterizes the whole run.
package model

// RoadSegment is an ordered polyline of projected (x, y) points, each
// consecutive pair forming a straight drivable segment.
type RoadSegment struct {
	Points []Point
}

// Point is a 2-D coordinate in the run's single projected CRS, meters.
type Point struct {
	X, Y float64
}

// TerrainCandidate is a DEM cell identified as a local maximum.
type TerrainCandidate struct {
	Row, Col     int
	X, Y         float64
	ElevationM   float64
	ProminenceM  float64
}

// VisibleCandidate pairs a TerrainCandidate with the VisibilityMetrics the
// tracer computed for it; this is the unit the Cluster Reducer and
// Drivability Scorer operate on.
type VisibleCandidate struct {
	Candidate TerrainCandidate
	Metrics   VisibilityMetrics
}

// RayResult is the outcome of tracing a single ray from a candidate.
type RayResult struct {
	AzimuthDeg   float64
	MaxDistanceM float64
	ClearedMoat  bool
}

// VisibilityMetrics summarizes all rays cast from one candidate.
type VisibilityMetrics struct {
	Rays             []RayResult
	MaxDistanceM     float64
	MeanDistanceM    float64
	MedianDistanceM  float64
	ClearedRayCount  int
	FovDeg           float64
}

// AccessPoint is the nearest point on the road network to a candidate.
type AccessPoint struct {
	X, Y                 float64
	DistanceM            float64
	WalkMinutes          float64
	DriveMinutesEstimate float64
}

// ScoredCandidate bundles a candidate with its computed metrics and the
// final composite score, in the field order the external CSV/GeoJSON
// layer expects (row, col, x, y, elevation_m, ... score).
type ScoredCandidate struct {
	Row, Col   int
	X, Y       float64
	ElevationM float64

	MaxDistanceM    float64
	MeanDistanceM   float64
	MedianDistanceM float64
	FovDeg          float64
	ClearedRayCount int

	AccessX              float64
	AccessY              float64
	DistanceM            float64
	WalkMinutes          float64
	DriveMinutesEstimate float64

	Score float64
}

// VisibilityRequest is a frozen per-run configuration snapshot. TG, RS, and
// a VisibilityRequest are constructed once per run and never mutated.
type VisibilityRequest struct {
	ObserverEyeHeightM float64
	ObstructionStartM  float64
	ObstructionHeightM float64

	MinVisibilityM      float64
	MinFovDeg           float64
	AzimuthDeg          float64
	AzimuthToleranceDeg float64

	RaysFullCircle int
	MaxVisibilityM float64

	ClusterGridM    float64
	ResolutionScale float64

	WalkingSpeedKmh float64
	DrivingSpeedKmh float64
	MaxWalkMinutes  float64

	// MaxDriveMinutes is nullable: HasMaxDriveMinutes false means no cap.
	MaxDriveMinutes    float64
	HasMaxDriveMinutes bool

	ResultsLimit int
}
