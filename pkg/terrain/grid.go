// Package terrain holds the immutable projected elevation raster (TerrainGrid)
// and the local-maxima candidate detector that runs over it.
package terrain

import (
	"math"

	"github.com/sytelus/highpoint/pkg/model"
)

// NoData marks a cell with no valid elevation sample.
const NoData = math.MinInt32

// TerrainGrid is an immutable projected raster of elevations in meters.
// It is read-only after construction; cell_size_m > 0 and the array shape
// is fixed for its lifetime.
type TerrainGrid struct {
	elevations        [][]float64 // [row][col], shape (rows, cols)
	rows, cols        int
	originX, originY  float64
	cellSizeM         float64
}

// NewTerrainGrid builds a TerrainGrid from a dense row-major elevation
// array. elevations[r][c] holds the sampled elevation or NoData.
func NewTerrainGrid(elevations [][]float64, originX, originY, cellSizeM float64) (*TerrainGrid, error) {
	if cellSizeM <= 0 {
		return nil, &model.InvalidInputError{Reason: "cell_size_m must be > 0"}
	}
	if len(elevations) == 0 || len(elevations[0]) == 0 {
		return nil, &model.InvalidInputError{Reason: "terrain grid must not be empty"}
	}
	rows := len(elevations)
	cols := len(elevations[0])
	for _, row := range elevations {
		if len(row) != cols {
			return nil, &model.InvalidInputError{Reason: "terrain grid rows must have equal length"}
		}
	}
	return &TerrainGrid{
		elevations: elevations,
		rows:       rows,
		cols:       cols,
		originX:    originX,
		originY:    originY,
		cellSizeM:  cellSizeM,
	}, nil
}

// Rows returns the number of grid rows.
func (g *TerrainGrid) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *TerrainGrid) Cols() int { return g.cols }

// CellSizeM returns the uniform cell size in meters.
func (g *TerrainGrid) CellSizeM() float64 { return g.cellSizeM }

// CellAt returns the raw (unsmoothed, unresampled) elevation at (row, col),
// or NoData if out of bounds or marked no-data.
func (g *TerrainGrid) CellAt(row, col int) float64 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return NoData
	}
	return g.elevations[row][col]
}

// CellCenter returns the projected (x, y) coordinate of the center of
// cell (row, col).
func (g *TerrainGrid) CellCenter(row, col int) (x, y float64) {
	return g.originX + float64(col)*g.cellSizeM, g.originY + float64(row)*g.cellSizeM
}

// isNoData reports whether v is the no-data sentinel.
func isNoData(v float64) bool {
	return v <= NoData+1 || math.IsNaN(v)
}

// Sample returns the bilinearly-interpolated elevation at projected
// coordinate (x, y), clamping the sample point to the grid's valid
// interior. ok is false if the interpolation would read a no-data cell.
// err is non-nil only if the interpolation itself produced a non-finite
// result from finite inputs, which signals a violated invariant rather
// than an ordinary no-data miss.
func (g *TerrainGrid) Sample(x, y float64) (elevation float64, ok bool, err error) {
	fc := (x - g.originX) / g.cellSizeM
	fr := (y - g.originY) / g.cellSizeM

	fc = clamp(fc, 0, float64(g.cols-1))
	fr = clamp(fr, 0, float64(g.rows-1))

	c0 := int(math.Floor(fc))
	r0 := int(math.Floor(fr))
	c1 := minInt(c0+1, g.cols-1)
	r1 := minInt(r0+1, g.rows-1)

	tx := fc - float64(c0)
	ty := fr - float64(r0)

	v00 := g.elevations[r0][c0]
	v01 := g.elevations[r0][c1]
	v10 := g.elevations[r1][c0]
	v11 := g.elevations[r1][c1]

	if isNoData(v00) || isNoData(v01) || isNoData(v10) || isNoData(v11) {
		return 0, false, nil
	}

	top := v00 + (v01-v00)*tx
	bottom := v10 + (v11-v10)*tx
	result := top + (bottom-top)*ty

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, false, &model.InternalError{Detail: "bilinear interpolation produced a non-finite elevation"}
	}

	return result, true, nil
}

// Resample returns a new grid whose cell size is scaled by factor: values
// <1 sharpen (more, smaller cells), values >1 coarsen (fewer, larger
// cells). Each output cell is populated via bilinear sampling of the
// source grid.
func (g *TerrainGrid) Resample(scale float64) (*TerrainGrid, error) {
	if scale <= 0 {
		return nil, &model.InvalidInputError{Reason: "resolution_scale must be > 0"}
	}
	if scale == 1 {
		return g, nil
	}

	newCellSize := g.cellSizeM * scale
	spanX := float64(g.cols-1) * g.cellSizeM
	spanY := float64(g.rows-1) * g.cellSizeM
	newCols := maxInt(1, int(spanX/newCellSize)+1)
	newRows := maxInt(1, int(spanY/newCellSize)+1)

	out := make([][]float64, newRows)
	for r := 0; r < newRows; r++ {
		out[r] = make([]float64, newCols)
		for c := 0; c < newCols; c++ {
			x := g.originX + float64(c)*newCellSize
			y := g.originY + float64(r)*newCellSize
			v, ok, err := g.Sample(x, y)
			if err != nil {
				return nil, err
			}
			if ok {
				out[r][c] = v
			} else {
				out[r][c] = NoData
			}
		}
	}

	return NewTerrainGrid(out, g.originX, g.originY, newCellSize)
}

// Smooth returns a new grid with a light Gaussian blur (sigma approximately
// one cell) applied, used only to suppress single-pixel spikes before
// local-maxima selection; the original (unsmoothed) elevations remain
// available on the receiver.
func (g *TerrainGrid) Smooth() *TerrainGrid {
	kernel, radius := gaussianKernel(1.0)

	out := make([][]float64, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = make([]float64, g.cols)
		for c := 0; c < g.cols; c++ {
			sum := 0.0
			weight := 0.0
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					v := g.CellAt(r+dr, c+dc)
					if isNoData(v) {
						continue
					}
					w := kernel[dr+radius] * kernel[dc+radius]
					sum += v * w
					weight += w
				}
			}
			if weight == 0 {
				out[r][c] = g.elevations[r][c]
			} else {
				out[r][c] = sum / weight
			}
		}
	}

	return &TerrainGrid{
		elevations: out,
		rows:       g.rows,
		cols:       g.cols,
		originX:    g.originX,
		originY:    g.originY,
		cellSizeM:  g.cellSizeM,
	}
}

// gaussianKernel builds a normalized 1-D Gaussian kernel with the given
// sigma, truncated at 3 sigma.
func gaussianKernel(sigma float64) (kernel []float64, radius int) {
	radius = int(math.Ceil(3 * sigma))
	kernel = make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
