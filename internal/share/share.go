// Package share implements the Thien-Lin sharing engine: it partitions a
// whitened secret's pixel bytes into length-k groups, treats each group as
// the coefficients of a degree-(k-1) polynomial over GF(257), and evaluates
// that polynomial at x = 1..n to produce one pixel per shadow.
package share

import (
	"errors"
	"fmt"

	"github.com/elsesec/shadowsplit/internal/gf257"
)

// Result holds the n shadow pixel buffers produced by one Share call, plus
// observability into how often the coefficient-repair rule fired.
type Result struct {
	// Pixels[i] is shadow (i+1)'s pixel buffer; len(Pixels) == n and
	// len(Pixels[i]) == len(secret)/k.
	Pixels [][]byte

	// RepairedGroups counts pixel groups where the repair rule in §4.4 had
	// to adjust a coefficient because an evaluation landed on 256. Per the
	// reference implementation, the adjustment is NOT reversed by mask
	// inversion: any nonzero count here means this run diverges from
	// perfect recovery on those groups. Round-trip tests should expect
	// this when they deliberately construct such a group.
	RepairedGroups int
}

// Share partitions secret into k-tuples and evaluates one degree-(k-1)
// polynomial per tuple at x = 1..n. len(secret) must be divisible by k;
// callers are expected to have validated that already (see internal/fsscan
// and internal/pipeline), matching the "behavior unspecified otherwise"
// contract from the specification.
func Share(secret []byte, k, n int) (*Result, error) {
	if k < 2 {
		return nil, fmt.Errorf("share: k must be >= 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("share: n (%d) must be >= k (%d)", n, k)
	}
	if len(secret)%k != 0 {
		return nil, fmt.Errorf("share: secret length %d is not divisible by k=%d", len(secret), k)
	}

	numGroups := len(secret) / k
	result := &Result{Pixels: make([][]byte, n)}
	for i := range result.Pixels {
		result.Pixels[i] = make([]byte, numGroups)
	}

	coeff := make([]int, k)
	values := make([]int, n)

	for j := 0; j < numGroups; j++ {
		for r := 0; r < k; r++ {
			coeff[r] = int(secret[j*k+r])
		}

		repaired := false
		for {
			overflow := false
			for i := 0; i < n; i++ {
				values[i] = evalPolynomial(coeff, i+1)
				if values[i] == 256 {
					overflow = true
				}
			}
			if !overflow {
				break
			}
			if err := repairCoefficients(coeff); err != nil {
				return nil, fmt.Errorf("share: group %d: %w", j, err)
			}
			repaired = true
		}
		if repaired {
			result.RepairedGroups++
		}

		for i := 0; i < n; i++ {
			result.Pixels[i][j] = byte(values[i])
		}
	}

	return result, nil
}

// evalPolynomial computes f(x) = sum(coeff[r] * x^r) mod 257.
func evalPolynomial(coeff []int, x int) int {
	acc := 0
	power := 1
	for _, c := range coeff {
		acc = gf257.Mod(acc + c*power)
		power = gf257.Mod(power * x)
	}
	return acc
}

// repairCoefficients implements the coefficient-repair rule exactly as the
// reference implementation does it: skip past leading zero coefficients
// and decrement the first non-zero one found. This is a documented,
// intentional divergence from perfect recovery (see spec.md §9 and
// DESIGN.md) — the whitening mask is expected to make this branch rare to
// dead in practice, not impossible, so it is preserved rather than "fixed".
func repairCoefficients(coeff []int) error {
	for i := range coeff {
		if coeff[i] != 0 {
			coeff[i]--
			return nil
		}
	}
	return errors.New("all coefficients are zero, nothing left to repair")
}
