package main

import (
	"context"
	. "fmt"
	"github.com/dterei/gotsc"
	"github.com/p7r0x7/hashloop"
	"github.com/p7r0x7/hashloop/seeds"
	"github.com/zeebo/blake3"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const length = 1 << 12 /* Iterations per chain. */

var widths = [...]int{1, 16, 256, 4096} /* Chains per operation. */
var reqs, calltime = []hashloop.Request(nil), gotsc.TSCOverhead()

func serial(c hashloop.Compressor) func(b *testing.B) {
	return func(b *testing.B) {
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			for _, r := range reqs {
				c.Chain(r.Seed, r.Iterations)
			}
		}
	}
}

func BenchmarkBlake3(b *testing.B) {
	b.ResetTimer()
	for i := b.N; i > 0; i-- {
		for _, r := range reqs {
			w := r.Seed
			for j := r.Iterations; j > 0; j-- {
				w = blake3.Sum256(w[:])
			}
		}
	}
}

func engine(stages int) func(b *testing.B) {
	return func(b *testing.B) {
		e, err := hashloop.NewBuilder().Stages(stages).Build()
		if err != nil {
			panic(err)
		}
		d := hashloop.NewDriver(e, 0)
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			if _, err := d.Run(context.Background(), reqs); err != nil {
				panic(err)
			}
		}
		b.StopTimer()
		go e.Close()
		for range e.Results() {
		}
	}
}

func benchAlg(alg func(b *testing.B)) {
	const s = len(widths)
	rates, speeds := make([]float64, s), make([]float64, s)

	for i, v := range widths {
		reqs = seeds.New([32]byte{}).Requests(v, length)

		totalHz, polls, mut, done := uint64(0), uint64(0), &sync.Mutex{}, make(chan struct{})
		if calltime > 0 {
			go func() {
				for {
					select {
					case <-done:
						return
					default:
					}
					tsc1 := gotsc.BenchStart()
					time.Sleep(time.Millisecond)
					tsc2 := gotsc.BenchEnd()

					mut.Lock()
					totalHz += tsc2 - tsc1 - calltime
					polls++
					mut.Unlock()

					time.Sleep(time.Millisecond * 9)
				}
			}()
		}
		r := testing.Benchmark(alg)
		close(done)
		mut.Lock()
		totalHz *= 1000

		rates[i] = float64(r.N) * float64(v*length) / r.T.Seconds() /* hashes/s */
		if polls > 0 {
			speeds[i] = float64(totalHz) / float64(polls) / rates[i]
		}
		rates[i] /= 1e6 /* MH/s */
		mut.Unlock()
	}

	Println("Speed " + fmtFloats(rates...) + "   MH/s")
	if calltime > 0 {
		Println("      " + fmtFloats(speeds...) + "   cph")
	}
	Println()
}

func fmtFloats(f ...float64) string {
	var str, style string
	for _, v := range f {
		switch whole := float64(int64(v)) == v; {
		case v > 1e8 || (v < 1e-6 && !whole):
			style = "%8.3g"
		case v <= 1e1 && !whole:
			style = "%8.6f"
		case v <= 1e2 && !whole:
			style = "%8.5f"
		case v <= 1e3 && !whole:
			style = "%8.4f"
		case v <= 1e4 && !whole:
			style = "%8.3f"
		case v <= 1e5 && !whole:
			style = "%8.2f"
		case v <= 1e6 && !whole:
			style = "%8.1f"
		default:
			style = "%8.f"
		}
		str += "  " + Sprintf(style, v)
	}
	return str
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s\n\n", runtime.NumCPU(), runtime.GOOS, runtime.GOARCH)
	t := time.Now()

	e, err := hashloop.NewBuilder().Build()
	if err != nil {
		panic(err)
	}
	chainTest(hashloop.NewDriver(e, 0))
	go e.Close()
	for range e.Results() {
	}

	Printf("\n%d iterations per chain   %8d  %8d  %8d  %8d chains\n\n", length,
		widths[0], widths[1], widths[2], widths[3])

	Println("hashloop.Compress, serial")
	benchAlg(serial(hashloop.Compress))

	Println("github.com/minio/sha256-simd, serial")
	benchAlg(serial(hashloop.SIMD))

	for _, stages := range []int{4, 16, 64} {
		Printf("hashloop engine, %d stages\n", stages)
		benchAlg(engine(stages))
	}

	Println("github.com/zeebo/blake3, serial (baseline, not SHA-256)")
	benchAlg(BenchmarkBlake3)

	Println("Finished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
