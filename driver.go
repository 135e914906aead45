package hashloop

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The batch driver streams (seed, iterations) requests through an Engine and hands results back in
// request order, however the engine happens to finish them.

// Request asks for Seed hashed Iterations times.
type Request struct {
	Seed       Word
	Iterations uint64
}

/* Largest share of a request a single packet carries. A variable so tests can shrink it. */
var maxChunk uint64 = math.MaxUint32

// Driver is the sole consumer of its Engine's Results; runs are serialized.
type Driver struct {
	e     *Engine
	batch int
	mu    sync.Mutex
}

// NewDriver drives e, admitting at most batch requests at a time. A batch of 0 or less matches
// the engine's window.
func NewDriver(e *Engine, batch int) *Driver {
	if batch <= 0 {
		batch = e.cfg.Window
	}
	return &Driver{e: e, batch: batch}
}

func (d *Driver) Engine() *Engine { return d.e }

// Run returns, for every request i, reqs[i].Seed hashed reqs[i].Iterations times. If ctx ends or the
// engine refuses a submission, Run waits for the packets it already admitted to come back before
// returning the error, leaving the engine empty for the next run.
func (d *Driver) Run(ctx context.Context, reqs []Request) ([]Word, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Word, len(reqs))
	for lo := 0; lo < len(reqs); lo += d.batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := lo + d.batch
		if hi > len(reqs) {
			hi = len(reqs)
		}
		if err := d.run(ctx, reqs[lo:hi], out[lo:hi], uint64(lo)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func chunk(n uint64) uint32 {
	if n > maxChunk {
		return uint32(maxChunk)
	}
	return uint32(n)
}

func (d *Driver) run(ctx context.Context, reqs []Request, out []Word, base uint64) error {
	owed := make([]uint64, len(reqs)) /* Iterations not yet handed to any packet. */
	todo := make(chan *Packet, len(reqs))
	for i, r := range reqs {
		n := chunk(r.Iterations)
		owed[i] = r.Iterations - uint64(n)
		todo <- NewPacket(base+uint64(i), r.Seed, n)
	}

	var sent atomic.Int64
	stop, fed, failed := make(chan struct{}), make(chan struct{}), make(chan error, 1)
	go func() {
		defer close(fed)
		for {
			select {
			case p := <-todo:
				if err := d.e.Submit(ctx, p); err != nil {
					failed <- err
					return
				}
				sent.Add(1)
			case <-stop:
				return
			}
		}
	}()

	var err error
	received, pending := int64(0), len(reqs)
	for pending > 0 && err == nil {
		select {
		case p, ok := <-d.e.results:
			if !ok {
				err = ErrClosed
				break
			}
			received++
			i := p.ID - base
			if owed[i] > 0 {
				n := chunk(owed[i])
				owed[i] -= uint64(n)
				p.Remaining = n
				todo <- p
				continue
			}
			out[i] = p.Value
			pending--
		case err = <-failed:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	close(stop)
	<-fed

	/* Whatever was admitted still comes out; collect it so the next run starts clean. */
	for received < sent.Load() {
		if _, ok := <-d.e.results; !ok {
			break
		}
		received++
	}
	return err
}
