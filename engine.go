package hashloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The recirculating engine. Packets enter through the ingress arbiter, cross every stage of the
// chain, and leave through the egress router either as results or, still owing compressions, back
// through the delay line to the arbiter, which always serves them before fresh work.

var (
	ErrClosed    = errors.New("hashloop: engine closed")
	ErrSaturated = errors.New("hashloop: engine saturated")
)

type Engine struct {
	cfg     Config
	stages  []*stage
	fresh   chan *Packet
	recirc  <-chan *Packet /* Tail of the delay line. */
	results chan *Packet
	credits chan struct{}  /* One token per admitted packet. */
	quit    chan struct{}

	admit  sync.RWMutex
	closed bool
	flight sync.WaitGroup
	once   sync.Once

	admitted, completed, circulations, recirculated atomic.Uint64
}

// Stats is a snapshot of an Engine's counters.
type Stats struct {
	Admitted     uint64 /* Submissions accepted. */
	Completed    uint64 /* Packets emitted on Results. */
	Circulations uint64 /* Stage Chain traversals, all packets. */
	Recirculated uint64 /* Traversals that ended in the delay line. */
	Compressions uint64
	InFlight     int
}

// New starts an Engine sized by cfg.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		fresh:   make(chan *Packet, cfg.QueueDepth),
		results: make(chan *Packet, cfg.QueueDepth),
		credits: make(chan struct{}, cfg.Window),
		quit:    make(chan struct{}),
	}

	stages, head, tail := chain(cfg.Stages, cfg.QueueDepth, cfg.Compressor)
	e.stages = stages
	/* Room for every admitted packet, so the router never waits on its own loop. */
	back := make(chan *Packet, cfg.Window)
	e.recirc = back
	for i := cfg.Delay; i > 0; i-- {
		next := make(chan *Packet, cfg.QueueDepth)
		go relay(e.recirc, next)
		e.recirc = next
	}

	for _, s := range stages {
		go s.run()
	}
	go e.ingress(head)
	go e.egress(tail, back)
	return e, nil
}

// Config returns the configuration e runs with, defaults applied.
func (e *Engine) Config() Config { return e.cfg }

// Results delivers completed packets in completion order. It is closed once Close has drained the
// engine. Someone must keep receiving from it for submissions to make progress.
func (e *Engine) Results() <-chan *Packet { return e.results }

// Submit admits p, waiting for capacity when Window packets are already in flight. The engine owns
// p until it comes back out of Results.
func (e *Engine) Submit(ctx context.Context, p *Packet) error {
	e.admit.RLock()
	defer e.admit.RUnlock()
	if e.closed {
		return ErrClosed
	}
	select {
	case e.credits <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	e.enter(p)
	return nil
}

// TrySubmit admits p only if capacity is free right now, and reports ErrSaturated otherwise.
func (e *Engine) TrySubmit(p *Packet) error {
	e.admit.RLock()
	defer e.admit.RUnlock()
	if e.closed {
		return ErrClosed
	}
	select {
	case e.credits <- struct{}{}:
	default:
		return ErrSaturated
	}
	e.enter(p)
	return nil
}

func (e *Engine) enter(p *Packet) {
	p.Circulations = 0
	e.flight.Add(1)
	e.admitted.Add(1)
	e.fresh <- p
}

// Close stops admission, waits for every admitted packet to reach Results, then stops the engine's
// goroutines and closes Results. Calls after the first return immediately.
func (e *Engine) Close() error {
	e.once.Do(func() {
		e.admit.Lock()
		e.closed = true
		e.admit.Unlock()
		e.flight.Wait()
		close(e.quit)
	})
	return nil
}

// Stats returns the engine's counters. Counters are read one at a time, so a snapshot taken
// while packets move may be off by the packets in motion.
func (e *Engine) Stats() Stats {
	s := Stats{
		Admitted:     e.admitted.Load(),
		Completed:    e.completed.Load(),
		Circulations: e.circulations.Load(),
		Recirculated: e.recirculated.Load(),
		InFlight:     len(e.credits),
	}
	for _, st := range e.stages {
		s.Compressions += st.count.Load()
	}
	return s
}

// ingress feeds the chain, preferring recirculated packets whenever one is waiting.
func (e *Engine) ingress(out chan<- *Packet) {
	defer close(out)
	for {
		var p *Packet
		select {
		case p = <-e.recirc:
		default:
			select {
			case p = <-e.recirc:
			case p = <-e.fresh:
			case <-e.quit:
				return
			}
		}
		out <- p
	}
}

// egress is the only place completion is decided.
func (e *Engine) egress(in <-chan *Packet, back chan<- *Packet) {
	defer close(e.results)
	defer close(back)
	for p := range in {
		p.Circulations++
		e.circulations.Add(1)
		if p.Remaining > 0 {
			e.recirculated.Add(1)
			back <- p
			continue
		}
		e.completed.Add(1)
		<-e.credits
		e.results <- p
		e.flight.Done()
	}
}

// relay is one hop of the delay line.
func relay(in <-chan *Packet, out chan<- *Packet) {
	for p := range in {
		out <- p
	}
	close(out)
}
