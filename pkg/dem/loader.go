// Package dem loads digital elevation models from the engine's flat
// binary grid format into a terrain.TerrainGrid.
package dem

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/sytelus/highpoint/pkg/terrain"
)

// headerSize is the byte length of the fixed-width header: rows, cols
// (uint32 each), origin_x, origin_y, cell_size_m, nodata (float64 each).
const headerSize = 4 + 4 + 8 + 8 + 8 + 8

// LoadTerrainGrid reads a DEM file and returns a *terrain.TerrainGrid.
//
// File layout, all little-endian:
//
//	rows        uint32
//	cols        uint32
//	origin_x    float64
//	origin_y    float64
//	cell_size_m float64
//	nodata      float64
//	samples     rows*cols float32, row-major, origin at (origin_x, origin_y)
func LoadTerrainGrid(path string) (*terrain.TerrainGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dem: opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dem: stat %s: %w", path, err)
	}

	header := make([]byte, headerSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("dem: reading header of %s: %w", path, err)
	}

	rows := int(binary.LittleEndian.Uint32(header[0:4]))
	cols := int(binary.LittleEndian.Uint32(header[4:8]))
	originX := math.Float64frombits(binary.LittleEndian.Uint64(header[8:16]))
	originY := math.Float64frombits(binary.LittleEndian.Uint64(header[16:24]))
	cellSizeM := math.Float64frombits(binary.LittleEndian.Uint64(header[24:32]))
	nodata := math.Float64frombits(binary.LittleEndian.Uint64(header[32:40]))

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("dem: %s: invalid dimensions %dx%d", path, rows, cols)
	}

	wantSize := int64(headerSize) + int64(rows)*int64(cols)*4
	if info.Size() != wantSize {
		return nil, fmt.Errorf("dem: %s: expected file size %d, got %d", path, wantSize, info.Size())
	}

	rowBytes := make([]byte, cols*4)
	elevations := make([][]float64, rows)
	for r := 0; r < rows; r++ {
		offset := int64(headerSize) + int64(r)*int64(cols)*4
		if _, err := f.ReadAt(rowBytes, offset); err != nil {
			return nil, fmt.Errorf("dem: %s: reading row %d: %w", path, r, err)
		}
		row := make([]float64, cols)
		for c := 0; c < cols; c++ {
			bits := binary.LittleEndian.Uint32(rowBytes[c*4 : c*4+4])
			v := float64(math.Float32frombits(bits))
			if v == nodata {
				v = float64(terrain.NoData)
			}
			row[c] = v
		}
		elevations[r] = row
	}

	return terrain.NewTerrainGrid(elevations, originX, originY, cellSizeM)
}
