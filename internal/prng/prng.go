// Package prng implements the deterministic whitening generator spec'd in
// the Thien-Lin distribution/reconstruction pipeline: a 48-bit LCG
// equivalent to the one behind java.util.Random, seeded from a 16-bit value
// carried in the BMP header. Byte-for-byte reproducibility across hosts and
// implementations is the entire point, so this is hand-rolled rather than
// built on crypto/rand or math/rand — neither produces this exact stream.
package prng

const (
	multiplier = 25214903917
	increment  = 11
	mask       = (1 << 48) - 1
)

// PRNG is a value type holding the generator's 48-bit state. Unlike the
// reference implementation's single process-global seed, each PRNG is an
// independent instance — constructing one from a seed and discarding it
// after use makes every mask operation self-contained and safe to run
// concurrently across unrelated calls.
type PRNG struct {
	state uint64
}

// New seeds a fresh generator from a 16-bit seed.
func New(seed uint16) *PRNG {
	p := &PRNG{}
	p.Seed(seed)
	return p
}

// Seed resets the generator's state from s, discarding any prior output.
func (p *PRNG) Seed(s uint16) {
	p.state = (uint64(s) ^ multiplier) & mask
}

// NextByte advances the generator and returns the next byte in [0, 255].
func (p *PRNG) NextByte() byte {
	p.state = (p.state*multiplier + increment) & mask
	n := p.state >> 17 // top 31 bits
	return byte((256 * n) >> 31)
}

// Mask returns length bytes of whitening material derived from seed. Each
// call reseeds internally, so Mask(seed, n) is deterministic and
// independent of any other PRNG in use.
func Mask(seed uint16, length int) []byte {
	p := New(seed)
	out := make([]byte, length)
	for i := range out {
		out[i] = p.NextByte()
	}
	return out
}

// XOR applies Mask(seed, len(data)) to data in place. The operation is its
// own inverse: XOR(XOR(data, seed), seed) == data.
func XOR(data []byte, seed uint16) {
	p := New(seed)
	for i := range data {
		data[i] ^= p.NextByte()
	}
}
