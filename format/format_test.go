package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/p7r0x7/hashloop"
)

func TestRender(t *testing.T) {
	seed, _ := hashloop.ParseWord("01ba4719c80b6fe911b091a7c05124b64eeece964e09c058ef8f9805daca546b")
	sum := hashloop.Sum(seed, 1)

	if s, err := Render(Hex, sum, 1); err != nil || s != sum.String() {
		t.Fatalf("hex: %q, %v", s, err)
	}
	if s, err := Render(Base64, sum, 1); err != nil || len(s) != 44 {
		t.Fatalf("base64: %q, %v", s, err)
	}

	s, err := Render(Multihash, sum, 1)
	if err != nil {
		t.Fatalf("multihash: %v", err)
	}
	mh, err := multihash.FromB58String(s)
	if err != nil {
		t.Fatalf("FromB58String(%q): %v", s, err)
	}
	/* The digest a multihash names must be the sha2-256 of the seed. */
	want, _ := multihash.Sum(seed[:], multihash.SHA2_256, -1)
	if mh.String() != want.String() {
		t.Fatalf("multihash: got %s, want %s", mh, want)
	}

	s, err = Render(CID, sum, 1)
	if err != nil {
		t.Fatalf("cid: %v", err)
	}
	c, err := cid.Decode(s)
	if err != nil || c.Prefix().Codec != cid.Raw || c.Hash().String() != want.String() {
		t.Fatalf("cid %q: %v", s, err)
	}
}

func TestRender_ZeroIterations(t *testing.T) {
	var seed hashloop.Word
	for _, f := range []string{Multihash, CID} {
		if _, err := Render(f, seed, 0); !errors.Is(err, ErrNotDigest) {
			t.Fatalf("%s: got %v, want ErrNotDigest", f, err)
		}
	}
	if s, err := Render(Hex, seed, 0); err != nil || s != strings.Repeat("0", 64) {
		t.Fatalf("hex: %q, %v", s, err)
	}
}

func TestRender_Unknown(t *testing.T) {
	if Valid("base32") {
		t.Fatalf("base32 accepted")
	}
	if _, err := Render("base32", hashloop.Word{}, 1); err == nil {
		t.Fatalf("Render(base32): expected error")
	}
}
