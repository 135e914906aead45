package hashloop

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// Word is a 256-bit unsigned integer stored big-endian: Word[0] holds the most significant byte.
type Word [32]byte

// ParseWord decodes exactly 64 hexadecimal digits, with or without a leading "0x".
func ParseWord(s string) (Word, error) {
	var w Word
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != 64 {
		return w, fmt.Errorf("hashloop: ParseWord: %d hex digits, want 64", len(s))
	}
	if _, err := hex.Decode(w[:], []byte(s)); err != nil {
		return w, fmt.Errorf("hashloop: ParseWord: %w", err)
	}
	return w, nil
}

func (w Word) String() string { return hex.EncodeToString(w[:]) }

// Big returns w as an integer.
func (w Word) Big() *big.Int { return new(big.Int).SetBytes(w[:]) }

// Packet is the unit of work inside an Engine. Exactly one goroutine or queue slot holds a given
// packet at any time; the engine never copies or drops one.
type Packet struct {
	ID        uint64 /* Correlation id; the engine never reads or writes it. */
	Value     Word
	Remaining uint32

	/* Full Stage Chain traversals since the packet was last submitted. Reset on admission,
	counted by the egress router. */
	Circulations uint32
}

// NewPacket readies value for n compressions.
func NewPacket(id uint64, value Word, n uint32) *Packet {
	return &Packet{ID: id, Value: value, Remaining: n}
}

// Done reports whether p owes no further compressions.
func (p *Packet) Done() bool { return p.Remaining == 0 }
