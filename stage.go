package hashloop

import "sync/atomic"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// stage is one link of the Stage Chain: at most one compression per packet per circulation.
type stage struct {
	in       <-chan *Packet
	out      chan<- *Packet
	compress Compressor
	count    atomic.Uint64
}

func (s *stage) run() {
	for p := range s.in {
		if p.Remaining > 0 {
			p.Value = s.compress(p.Value)
			p.Remaining--
			s.count.Add(1)
		}
		s.out <- p
	}
	close(s.out)
}

// chain links n stages through n+1 queues of the given depth. The first queue is the chain's
// input, the last its output.
func chain(n, depth int, c Compressor) ([]*stage, chan<- *Packet, <-chan *Packet) {
	queues := make([]chan *Packet, n+1)
	for i := range queues {
		queues[i] = make(chan *Packet, depth)
	}
	stages := make([]*stage, n)
	for i := range stages {
		stages[i] = &stage{in: queues[i], out: queues[i+1], compress: c}
	}
	return stages, queues[0], queues[n]
}
