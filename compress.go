package hashloop

import (
	"github.com/minio/sha256-simd"
	. "math/bits"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The compression core: one FIPS 180-4 SHA-256 block over a 256-bit value. Messages are always
// exactly 32 bytes long, so padding is a fixed layout and no multi-block path exists.

// Compressor maps one hash state to the next. Implementations must be pure.
type Compressor func(Word) Word

var iv = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// pad lays out the single 512-bit block for a 256-bit message: the value, a 1 bit, 191 zero bits
// and a 64-bit big-endian length of 256.
func pad(w Word) (b [64]byte) {
	copy(b[:32], w[:])
	b[32] = 0x80
	b[62] = 0x01 /* 256 == 0x0100 */
	return b
}

// Compress is the portable compression core.
func Compress(w Word) Word {
	var s [64]uint32
	b := pad(w)
	for i := 0; i < 16; i++ {
		s[i] = uint32(b[i<<2])<<24 | uint32(b[i<<2+1])<<16 | uint32(b[i<<2+2])<<8 | uint32(b[i<<2+3])
	}
	for i := 16; i < 64; i++ {
		g0 := RotateLeft32(s[i-15], -7) ^ RotateLeft32(s[i-15], -18) ^ s[i-15]>>3
		g1 := RotateLeft32(s[i-2], -17) ^ RotateLeft32(s[i-2], -19) ^ s[i-2]>>10
		s[i] = s[i-16] + g0 + s[i-7] + g1
	}

	a, b1, c, d, e, f, g, h := iv[0], iv[1], iv[2], iv[3], iv[4], iv[5], iv[6], iv[7]
	for i := 0; i < 64; i++ {
		t1 := h + (RotateLeft32(e, -6) ^ RotateLeft32(e, -11) ^ RotateLeft32(e, -25)) +
			(e&f ^ ^e&g) + k[i] + s[i]
		t2 := (RotateLeft32(a, -2) ^ RotateLeft32(a, -13) ^ RotateLeft32(a, -22)) +
			(a&b1 ^ a&c ^ b1&c)
		h, g, f, e, d, c, b1, a = g, f, e, d+t1, c, b1, a, t1+t2
	}

	var out Word
	for i, v := range [8]uint32{a + iv[0], b1 + iv[1], c + iv[2], d + iv[3],
		e + iv[4], f + iv[5], g + iv[6], h + iv[7]} {
		out[i<<2], out[i<<2+1], out[i<<2+2], out[i<<2+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	}
	return out
}

// SIMD compresses through github.com/minio/sha256-simd. A 32-byte message pads to exactly the
// block Compress builds, so the two agree bit for bit.
func SIMD(w Word) Word { return sha256.Sum256(w[:]) }

// DefaultCompressor returns SIMD on CPUs with SHA instructions (SHA-NI on amd64, SHA2 on arm64)
// and the portable Compress elsewhere.
func DefaultCompressor() Compressor {
	if accelerated {
		return SIMD
	}
	return Compress
}

// Sum applies Compress to seed iterations times, serially. It is the reference every engine
// result must agree with.
func Sum(seed Word, iterations uint64) Word { return Compressor(Compress).Chain(seed, iterations) }

// Chain applies c to seed n times.
func (c Compressor) Chain(seed Word, n uint64) Word {
	for ; n > 0; n-- {
		seed = c(seed)
	}
	return seed
}
