// Package seeds generates reproducible 256-bit seeds from an XChaCha keystream, for benchmarks and
// tests that need many chains without storing their inputs.
package seeds

import (
	"github.com/aead/chacha20/chacha"
	"github.com/p7r0x7/hashloop"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const rounds = 8

// Source yields the keystream of key 32 bytes at a time. One 64-byte keystream block holds two
// seeds, so seed i starts halfway into block i/2 when i is odd.
type Source struct {
	key    [32]byte
	stream *chacha.Cipher
}

func New(key [32]byte) *Source {
	s := &Source{key: key}
	s.Seek(0)
	return s
}

// Seek positions s so that Next returns seed i.
func (s *Source) Seek(i uint64) {
	var nonce [chacha.XNonceSize]byte
	s.stream, _ = chacha.NewCipher(nonce[:], s.key[:], rounds) /* Sizes are fixed; it cannot fail. */
	s.stream.SetCounter(i >> 1)
	if i&1 == 1 {
		var skip [32]byte
		s.stream.XORKeyStream(skip[:], skip[:])
	}
}

func (s *Source) Next() (w hashloop.Word) {
	s.stream.XORKeyStream(w[:], w[:])
	return w
}

func (s *Source) Fill(ws []hashloop.Word) {
	for i := range ws {
		ws[i] = s.Next()
	}
}

// Requests returns n requests of the given length on consecutive seeds.
func (s *Source) Requests(n int, iterations uint64) []hashloop.Request {
	reqs := make([]hashloop.Request, n)
	for i := range reqs {
		reqs[i] = hashloop.Request{Seed: s.Next(), Iterations: iterations}
	}
	return reqs
}
