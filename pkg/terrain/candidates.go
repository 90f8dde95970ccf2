package terrain

import "github.com/sytelus/highpoint/pkg/model"

// DetectCandidates finds cells whose smoothed elevation equals the
// maximum over a (2k+1)^2 window (k = neighborhoodRadiusCells) and
// strictly exceeds at least one neighbor in that window, with elevation
// at or above minElevationM. Plateau ties are broken by lowest (r,c); only
// one candidate is emitted per connected tied group. Smoothing is
// applied only to pick peaks; elevation_m and prominence_m on the
// returned candidates come from the unsmoothed grid.
//
// If resolutionScale != 1, the grid is first resampled by that factor and
// candidates are detected (and reported) in the resampled grid's
// coordinates and cell size.
func DetectCandidates(g *TerrainGrid, neighborhoodRadiusCells int, minElevationM, resolutionScale float64) ([]model.TerrainCandidate, error) {
	if neighborhoodRadiusCells < 1 {
		neighborhoodRadiusCells = 3
	}

	working := g
	if resolutionScale != 1 {
		resampled, err := g.Resample(resolutionScale)
		if err != nil {
			return nil, err
		}
		working = resampled
	}

	// tieToleranceM absorbs floating-point rounding in the smoothed grid
	// (e.g. partial kernels at the border of a flat field), so numerically
	// equal cells compare as ties rather than as higher or lower.
	const tieToleranceM = 1e-9

	smoothed := working.Smooth()
	k := neighborhoodRadiusCells

	var survivors []plateauSurvivor
	for r := k; r < working.rows-k; r++ {
		for c := k; c < working.cols-k; c++ {
			raw := working.CellAt(r, c)
			if isNoData(raw) {
				continue
			}
			center := smoothed.CellAt(r, c)

			windowMin := raw
			isWindowMax := true
			strictlyExceedsNeighbor := false

			for dr := -k; dr <= k; dr++ {
				for dc := -k; dc <= k; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					neighborSmoothed := smoothed.CellAt(r+dr, c+dc)
					switch {
					case isNoData(neighborSmoothed):
						// Treated as -infinity: never beats center, and
						// center always strictly exceeds it.
						strictlyExceedsNeighbor = true
					case neighborSmoothed > center+tieToleranceM:
						isWindowMax = false
					case neighborSmoothed < center-tieToleranceM:
						strictlyExceedsNeighbor = true
					}

					neighborRaw := working.CellAt(r+dr, c+dc)
					if !isNoData(neighborRaw) && neighborRaw < windowMin {
						windowMin = neighborRaw
					}
				}
			}

			if !isWindowMax || !strictlyExceedsNeighbor {
				continue
			}
			if raw < minElevationM {
				continue
			}

			x, y := working.CellCenter(r, c)
			survivors = append(survivors, plateauSurvivor{
				row: r, col: c, x: x, y: y,
				elevationM:  raw,
				prominenceM: raw - windowMin,
			})
		}
	}

	return dedupePlateaus(survivors), nil
}

// plateauSurvivor is a cell that passed the window-max/strict-neighbor
// test, before plateau deduplication.
type plateauSurvivor struct {
	row, col    int
	x, y        float64
	elevationM  float64
	prominenceM float64
}

// dedupePlateaus collapses each connected, equal-elevation run of
// survivors (a plateau maximum) down to its single lowest-(r,c) member,
// which is the cell the spec's tie-break rule says to emit.
func dedupePlateaus(survivors []plateauSurvivor) []model.TerrainCandidate {
	if len(survivors) == 0 {
		return nil
	}

	type pos struct{ row, col int }
	byPos := make(map[pos]plateauSurvivor, len(survivors))
	for _, s := range survivors {
		byPos[pos{s.row, s.col}] = s
	}

	visited := make(map[pos]bool, len(survivors))
	var candidates []model.TerrainCandidate

	for _, s := range survivors {
		start := pos{s.row, s.col}
		if visited[start] {
			continue
		}

		// Flood fill the connected plateau this survivor belongs to so
		// only its lowest-(r,c) member (s itself, since survivors are
		// scanned in row-major order) is emitted.
		visited[start] = true
		queue := []pos{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range []pos{
				{cur.row - 1, cur.col}, {cur.row + 1, cur.col},
				{cur.row, cur.col - 1}, {cur.row, cur.col + 1},
			} {
				if visited[n] {
					continue
				}
				other, ok := byPos[n]
				if !ok || other.elevationM != s.elevationM {
					continue
				}
				visited[n] = true
				queue = append(queue, n)
			}
		}

		candidates = append(candidates, model.TerrainCandidate{
			Row:         s.row,
			Col:         s.col,
			X:           s.x,
			Y:           s.y,
			ElevationM:  s.elevationM,
			ProminenceM: s.prominenceM,
		})
	}

	return candidates
}
