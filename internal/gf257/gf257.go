// Package gf257 implements arithmetic over GF(257), the prime field used by
// the Thien-Lin secret-image-sharing construction because 257 is the
// smallest prime greater than 255 — every pixel byte fits as a field
// element, and only the single value 256 needs special handling.
package gf257

// Prime is the field's modulus.
const Prime = 257

// Mod reduces x into [0, Prime), accepting negative x.
func Mod(x int) int {
	x %= Prime
	if x < 0 {
		x += Prime
	}
	return x
}

// Inverse is the fixed table of multiplicative inverses for 1..256,
// Inverse[i]*i mod 257 == 1. Index 0 is unused. This is the exact table
// carried by the reference Thien-Lin implementation (bmpsss.c's modinv),
// reproduced here verbatim rather than recomputed at init so results are
// provably bit-identical across implementations.
var Inverse = [Prime]int{
	0, 1, 129, 86, 193, 103, 43, 147, 225, 200, 180, 187, 150, 178, 202, 120,
	241, 121, 100, 230, 90, 49, 222, 190, 75, 72, 89, 238, 101, 195, 60, 199,
	249, 148, 189, 235, 50, 132, 115, 145, 45, 163, 153, 6, 111, 40, 95, 175,
	166, 21, 36, 126, 173, 97, 119, 243, 179, 248, 226, 61, 30, 59, 228, 102,
	253, 87, 74, 234, 223, 149, 246, 181, 25, 169, 66, 24, 186, 247, 201, 244,
	151, 165, 210, 96, 205, 127, 3, 65, 184, 26, 20, 209, 176, 152, 216, 46, 83,
	53, 139, 135, 18, 28, 63, 5, 215, 164, 177, 245, 188, 224, 250, 44, 218,
	116, 124, 38, 113, 134, 159, 54, 15, 17, 158, 140, 114, 220, 51, 85, 255, 2,
	172, 206, 37, 143, 117, 99, 240, 242, 203, 98, 123, 144, 219, 133, 141, 39,
	213, 7, 33, 69, 12, 80, 93, 42, 252, 194, 229, 239, 122, 118, 204, 174, 211,
	41, 105, 81, 48, 237, 231, 73, 192, 254, 130, 52, 161, 47, 92, 106, 13, 56,
	10, 71, 233, 191, 88, 232, 76, 11, 108, 34, 23, 183, 170, 4, 155, 29, 198,
	227, 196, 31, 9, 78, 14, 138, 160, 84, 131, 221, 236, 91, 82, 162, 217, 146,
	251, 104, 94, 212, 112, 142, 125, 207, 22, 68, 109, 8, 58, 197, 62, 156, 19,
	168, 185, 182, 67, 35, 208, 167, 27, 157, 136, 16, 137, 55, 79, 107, 70, 77,
	57, 32, 110, 214, 154, 64, 171, 128, 256,
}

// BuildInverseTable recomputes the inverse table from scratch via the
// extended Euclidean algorithm. It exists only so a test can assert it
// matches Inverse exactly; production code always uses the fixed table.
func BuildInverseTable() [Prime]int {
	var table [Prime]int
	for i := 1; i < Prime; i++ {
		table[i] = extendedEuclidInverse(i)
	}
	return table
}

func extendedEuclidInverse(a int) int {
	// Solve a*x + Prime*y = 1 for x, then reduce x into [0, Prime).
	oldR, r := a, Prime
	oldS, s := 1, 0
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
	}
	return Mod(oldS)
}
