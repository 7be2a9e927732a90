// Package reconstruct implements the Lagrange-equivalent reconstruction
// engine: given k shadows, it rebuilds each pixel group's polynomial
// coefficients by Gaussian elimination over GF(257) on a Vandermonde-
// augmented matrix, rather than evaluating Lagrange basis polynomials
// directly.
package reconstruct

import (
	"fmt"

	"github.com/elsesec/shadowsplit/internal/gf257"
)

// Shadow is the minimal view of a shadow the reconstruction engine needs:
// its share index (the x-coordinate it was evaluated at) and its pixel
// buffer.
type Shadow struct {
	Index  int // 1..255, the polynomial's evaluation point
	Pixels []byte
}

// Reconstruct rebuilds the whitened secret's pixel buffer from exactly k
// shadows. All shadows must carry the same pixel count; indices must be
// nonzero and pairwise distinct or the underlying matrix is singular.
func Reconstruct(shadows []Shadow, k int) ([]byte, error) {
	if len(shadows) != k {
		return nil, fmt.Errorf("reconstruct: need exactly %d shadows, got %d", k, len(shadows))
	}
	if err := validateIndices(shadows); err != nil {
		return nil, err
	}

	m := len(shadows[0].Pixels)
	for _, s := range shadows {
		if len(s.Pixels) != m {
			return nil, fmt.Errorf("reconstruct: shadow pixel counts differ: %d vs %d", len(s.Pixels), m)
		}
	}

	out := make([]byte, m*k)
	mat := make([]int, k*(k+1))

	for p := 0; p < m; p++ {
		buildMatrix(mat, shadows, k, p)
		if err := eliminate(mat, k); err != nil {
			return nil, fmt.Errorf("reconstruct: pixel %d: %w", p, err)
		}
		for row := 0; row < k; row++ {
			out[p*k+row] = byte(mat[row*(k+1)+k])
		}
	}

	return out, nil
}

func validateIndices(shadows []Shadow) error {
	seen := make(map[int]bool, len(shadows))
	for _, s := range shadows {
		if s.Index <= 0 || s.Index > 255 {
			return fmt.Errorf("reconstruct: shadow index %d out of range [1,255]", s.Index)
		}
		if seen[s.Index] {
			return fmt.Errorf("reconstruct: duplicate shadow index %d", s.Index)
		}
		seen[s.Index] = true
	}
	return nil
}

// buildMatrix fills mat (a flat k*(k+1) row-major buffer) with row j equal
// to [1, x_j, x_j^2, ..., x_j^(k-1) | shadow_j.Pixels[p]], all mod 257.
func buildMatrix(mat []int, shadows []Shadow, k, p int) {
	for j := 0; j < k; j++ {
		row := mat[j*(k+1) : j*(k+1)+k+1]
		value := 1
		for t := 0; t < k; t++ {
			row[t] = value
			value = gf257.Mod(value * shadows[j].Index)
		}
		row[k] = int(shadows[j].Pixels[p])
	}
}

// eliminate performs Gaussian elimination in place over GF(257), leaving
// the solved coefficients in column k, one per row.
func eliminate(mat []int, k int) error {
	at := func(r, c int) int { return mat[r*(k+1)+c] }
	set := func(r, c, v int) { mat[r*(k+1)+c] = v }

	// Forward elimination to row-echelon form.
	for c := 0; c < k-1; c++ {
		for r := k - 1; r > c; r-- {
			pivot := at(r-1, c)
			if pivot == 0 {
				return fmt.Errorf("zero pivot at column %d: shadow indices are invalid or duplicated", c)
			}
			alpha := gf257.Mod(at(r, c) * gf257.Inverse[pivot])
			for t := c; t <= k; t++ {
				set(r, t, gf257.Mod(at(r, t)-at(r-1, t)*alpha))
			}
		}
	}

	// Back-substitution to reduced row-echelon form.
	for i := k - 1; i > 0; i-- {
		diag := at(i, i)
		if diag == 0 {
			return fmt.Errorf("zero pivot at row %d: shadow indices are invalid or duplicated", i)
		}
		invDiag := gf257.Inverse[diag]
		set(i, k, gf257.Mod(at(i, k)*invDiag))
		set(i, i, gf257.Mod(at(i, i)*invDiag))

		for t := i - 1; t >= 0; t-- {
			set(t, k, gf257.Mod(at(t, k)-at(i, k)*at(t, i)))
			set(t, i, 0)
		}
	}

	return nil
}
