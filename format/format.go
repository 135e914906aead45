// Package format renders chain results as text: hex, base64, a base58 sha2-256 multihash, or a
// CIDv1 over raw bytes.
package format

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/p7r0x7/hashloop"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const (
	Hex       = "hex"
	Base64    = "base64"
	Multihash = "multihash"
	CID       = "cid"
)

// ErrNotDigest is returned when a self-describing format is asked to label a value that no
// SHA-256 compression produced.
var ErrNotDigest = errors.New("format: a seed hashed 0 times is no sha2-256 digest")

func Valid(f string) bool {
	switch f {
	case Hex, Base64, Multihash, CID:
		return true
	}
	return false
}

// Render encodes w, the result of iterations compressions, in format f.
func Render(f string, w hashloop.Word, iterations uint64) (string, error) {
	switch f {
	case Hex:
		return w.String(), nil
	case Base64:
		return base64.StdEncoding.EncodeToString(w[:]), nil
	case Multihash, CID:
		if iterations == 0 {
			return "", ErrNotDigest
		}
		mh, err := multihash.Encode(w[:], multihash.SHA2_256)
		if err != nil {
			return "", err
		}
		if f == CID {
			return cid.NewCidV1(cid.Raw, mh).String(), nil
		}
		return multihash.Multihash(mh).B58String(), nil
	default:
		return "", fmt.Errorf("format: unknown digest format %q", f)
	}
}
