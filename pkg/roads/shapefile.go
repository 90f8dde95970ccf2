// Package roads loads a drivable road network from an ESRI shapefile into
// model.RoadSegment polylines.
package roads

import (
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/sytelus/highpoint/pkg/model"
)

// LoadRoadSegments reads every PolyLine shape from the shapefile at path
// whose classField attribute matches one of drivable (case-sensitive,
// exact match). Each part of a multi-part polyline becomes a separate
// RoadSegment. If drivable is empty, every PolyLine shape is kept.
func LoadRoadSegments(path string, classField string, drivable []string) ([]model.RoadSegment, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roads: opening %s: %w", path, err)
	}
	defer reader.Close()

	classIndex := -1
	for i, f := range reader.Fields() {
		if f.String() == classField {
			classIndex = i
			break
		}
	}
	if classIndex == -1 && len(drivable) > 0 {
		return nil, fmt.Errorf("roads: %s: field %q not found", path, classField)
	}

	allowed := make(map[string]bool, len(drivable))
	for _, c := range drivable {
		allowed[c] = true
	}

	var segments []model.RoadSegment
	for reader.Next() {
		n, shape := reader.Shape()

		line, ok := shape.(*shp.PolyLine)
		if !ok {
			continue
		}

		if len(allowed) > 0 {
			class := reader.ReadAttribute(n, classIndex)
			if !allowed[class] {
				continue
			}
		}

		segments = append(segments, partsToSegments(line)...)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("roads: %s: %w", path, err)
	}

	return segments, nil
}

// partsToSegments splits a (possibly multi-part) shapefile polyline into
// one model.RoadSegment per part. Parts are staged as orb.LineString,
// the same geometry type the shapefile-to-GeoJSON conversion path uses,
// before being flattened into model.Point pairs.
func partsToSegments(line *shp.PolyLine) []model.RoadSegment {
	segments := make([]model.RoadSegment, 0, len(line.Parts))
	for i := 0; i < int(line.NumParts); i++ {
		start := line.Parts[i]
		end := line.NumPoints
		if i < int(line.NumParts)-1 {
			end = line.Parts[i+1]
		}

		var ls orb.LineString
		for j := start; j < end; j++ {
			ls = append(ls, orb.Point{line.Points[j].X, line.Points[j].Y})
		}
		if len(ls) < 2 {
			continue
		}

		points := make([]model.Point, len(ls))
		for k, p := range ls {
			points[k] = model.Point{X: p[0], Y: p[1]}
		}
		segments = append(segments, model.RoadSegment{Points: points})
	}
	return segments
}
