package chainrpc

import (
	"encoding/binary"
	"errors"

	"github.com/p7r0x7/hashloop"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const (
	RecordSize = 40 /* seed(32) || uint64be(iterations) */
	ResultSize = 32
)

var ErrMalformed = errors.New("chainrpc: payload is not a whole number of records")

// EncodeRequests packs reqs into records.
func EncodeRequests(reqs []hashloop.Request) []byte {
	b := make([]byte, len(reqs)*RecordSize)
	for i, r := range reqs {
		rec := b[i*RecordSize:]
		copy(rec, r.Seed[:])
		binary.BigEndian.PutUint64(rec[32:RecordSize], r.Iterations)
	}
	return b
}

func DecodeRequests(b []byte) ([]hashloop.Request, error) {
	if len(b)%RecordSize != 0 {
		return nil, ErrMalformed
	}
	reqs := make([]hashloop.Request, len(b)/RecordSize)
	for i := range reqs {
		rec := b[i*RecordSize : (i+1)*RecordSize]
		copy(reqs[i].Seed[:], rec)
		reqs[i].Iterations = binary.BigEndian.Uint64(rec[32:])
	}
	return reqs, nil
}

func EncodeResults(ws []hashloop.Word) []byte {
	b := make([]byte, 0, len(ws)*ResultSize)
	for _, w := range ws {
		b = append(b, w[:]...)
	}
	return b
}

func DecodeResults(b []byte) ([]hashloop.Word, error) {
	if len(b)%ResultSize != 0 {
		return nil, ErrMalformed
	}
	ws := make([]hashloop.Word, len(b)/ResultSize)
	for i := range ws {
		copy(ws[i][:], b[i*ResultSize:])
	}
	return ws, nil
}
