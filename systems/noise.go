package systems

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseSource produces continuous pseudo-random values in roughly [-1, 1].
type NoiseSource interface {
	Noise3D(x, y, z float64) float64
}

// Simplex skew/unskew factors for three dimensions.
const (
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
)

// grad3 holds the 12 edge midpoints of a cube.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// PermutationTable is a shuffled 0..255 sequence duplicated to 512 entries.
// It is never modified after construction.
type PermutationTable struct {
	perm      [512]uint8
	permMod12 [512]uint8
}

// NewPermutationTable shuffles 0..255 with a Fisher-Yates pass driven by rng.
func NewPermutationTable(rng *rand.Rand) PermutationTable {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	for i := 255; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return expandPermutation(p)
}

// PermutationTableFrom builds a table from an explicit ordering of 0..255.
func PermutationTableFrom(p []uint8) (PermutationTable, error) {
	if len(p) != 256 {
		return PermutationTable{}, fmt.Errorf("permutation: expected 256 entries, got %d", len(p))
	}
	var seen [256]bool
	var base [256]uint8
	for i, v := range p {
		if seen[v] {
			return PermutationTable{}, fmt.Errorf("permutation: value %d repeated at index %d", v, i)
		}
		seen[v] = true
		base[i] = v
	}
	return expandPermutation(base), nil
}

func expandPermutation(p [256]uint8) PermutationTable {
	var t PermutationTable
	for i := 0; i < 512; i++ {
		t.perm[i] = p[i&255]
		t.permMod12[i] = t.perm[i] % 12
	}
	return t
}

// At returns the permutation value at index i (0..511).
func (t *PermutationTable) At(i int) uint8 {
	return t.perm[i]
}

// SimplexNoise evaluates 3D simplex noise over a fixed permutation table.
type SimplexNoise struct {
	table PermutationTable
}

// NewSimplexNoise creates a simplex noise generator over the given table.
func NewSimplexNoise(table PermutationTable) *SimplexNoise {
	return &SimplexNoise{table: table}
}

// Noise3D returns simplex noise at (xin, yin, zin), approximately in [-1, 1].
func (s *SimplexNoise) Noise3D(xin, yin, zin float64) float64 {
	perm := &s.table.perm
	permMod12 := &s.table.permMod12

	// Skew input space to find the containing simplex cell
	sk := (xin + yin + zin) * f3
	i := int(math.Floor(xin + sk))
	j := int(math.Floor(yin + sk))
	k := int(math.Floor(zin + sk))
	t := float64(i+j+k) * g3
	x0 := xin - (float64(i) - t)
	y0 := yin - (float64(j) - t)
	z0 := zin - (float64(k) - t)

	// Corner ordering of the simplex within the cell
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2*g3
	y2 := y0 - float64(j2) + 2*g3
	z2 := z0 - float64(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255

	gi0 := permMod12[ii+int(perm[jj+int(perm[kk])])]
	gi1 := permMod12[ii+i1+int(perm[jj+j1+int(perm[kk+k1])])]
	gi2 := permMod12[ii+i2+int(perm[jj+j2+int(perm[kk+k2])])]
	gi3 := permMod12[ii+1+int(perm[jj+1+int(perm[kk+1])])]

	n := corner(gi0, x0, y0, z0) +
		corner(gi1, x1, y1, z1) +
		corner(gi2, x2, y2, z2) +
		corner(gi3, x3, y3, z3)

	return 32 * n
}

// corner returns one simplex corner's contribution, zero outside its radius.
func corner(gi uint8, x, y, z float64) float64 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	g := &grad3[gi]
	t *= t
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

// OpenSimplexNoise adapts github.com/ojrac/opensimplex-go to NoiseSource.
type OpenSimplexNoise struct {
	noise opensimplex.Noise
}

// NewOpenSimplexNoise creates an OpenSimplex backed noise source.
func NewOpenSimplexNoise(seed int64) *OpenSimplexNoise {
	return &OpenSimplexNoise{noise: opensimplex.New(seed)}
}

// Noise3D returns OpenSimplex noise in [-1, 1].
func (o *OpenSimplexNoise) Noise3D(x, y, z float64) float64 {
	return o.noise.Eval3(x, y, z)
}

// NewNoiseSource creates the noise backend named by the noise.backend setting.
func NewNoiseSource(backend string, rng *rand.Rand) (NoiseSource, error) {
	switch backend {
	case "", "simplex":
		return NewSimplexNoise(NewPermutationTable(rng)), nil
	case "opensimplex":
		return NewOpenSimplexNoise(rng.Int63()), nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}
