package main

import (
	"context"
	. "fmt"
	"github.com/p7r0x7/hashloop"
	"github.com/p7r0x7/hashloop/seeds"
	"math/big"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const ints = 5e4

// meanBias reports how far, on average, each output bit strays from being set half the time.
func meanBias(hashes []*big.Int, ln int) float64 {
	tally := make([]int64, ln)
	for _, h := range hashes {
		for i := ln - 1; i >= 0; i-- {
			if h.Bit(i) == 1 {
				tally[i]++
			}
		}
	}
	var total int64
	half := int64(len(hashes) >> 1)
	for i := range tally {
		if d := tally[i] - half; d < 0 {
			total -= d
		} else {
			total += d
		}
	}
	return float64(total) / float64(ln) / float64(half) * 100
}

// chainTest runs integer and keystream seeds through the engine, checks a sample against the serial
// chain, and prints the monobit bias of each output set.
func chainTest(d *hashloop.Driver) {
	const iterations = 16
	integers, random := make([]hashloop.Request, ints), seeds.New([32]byte{}).Requests(ints, iterations)
	for i := range integers {
		big.NewInt(int64(i)).FillBytes(integers[i].Seed[:])
		integers[i].Iterations = iterations
	}

	keystream := make([]hashloop.Word, ints)
	seeds.New([32]byte{}).Fill(keystream)
	vals := make([]*big.Int, len(keystream))
	for i := range keystream {
		vals[i] = keystream[i].Big()
	}
	Printf("%-8s seed monobit test:   %5.3f%%\n", "Random", meanBias(vals, 256))

	for _, set := range []struct {
		name string
		reqs []hashloop.Request
	}{{"Integer", integers}, {"Random", random}} {
		sums, err := d.Run(context.Background(), set.reqs)
		if err != nil {
			panic(err)
		}
		for i := 0; i < len(sums); i += len(sums) / 64 {
			if hashloop.Sum(set.reqs[i].Seed, iterations) != sums[i] {
				panic("engine and serial chains disagree")
			}
		}
		vals = make([]*big.Int, len(sums))
		for i := range sums {
			vals[i] = sums[i].Big()
		}
		Printf("%-8s input monobit test:  %5.3f%%\n", set.name, meanBias(vals, 256))
	}
}
