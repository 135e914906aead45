package hashloop

import "fmt"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

const (
	DefaultStages     = 16
	DefaultQueueDepth = 2
)

// Config sizes an Engine. Zero values select defaults; see Builder.
type Config struct {
	Stages     int /* Compressions a packet can receive per circulation. */
	QueueDepth int /* Slots in every inter-stage queue. */
	Window     int /* Packets admitted at once; 0 means Stages*QueueDepth*2. */
	Delay      int /* Extra relay hops on the recirculation path. */
	Compressor Compressor
}

func (c Config) withDefaults() Config {
	if c.Stages == 0 {
		c.Stages = DefaultStages
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.Window == 0 {
		c.Window = c.Stages * c.QueueDepth * 2
	}
	if c.Compressor == nil {
		c.Compressor = DefaultCompressor()
	}
	return c
}

func (c Config) validate() error {
	switch {
	case c.Stages < 1:
		return fmt.Errorf("hashloop: stage count of %d invalid, must be at least 1", c.Stages)
	case c.QueueDepth < 1:
		return fmt.Errorf("hashloop: queue depth of %d invalid, must be at least 1", c.QueueDepth)
	case c.Window < 1:
		return fmt.Errorf("hashloop: window of %d invalid, must be at least 1", c.Window)
	case c.Delay < 0:
		return fmt.Errorf("hashloop: delay of %d invalid, must not be negative", c.Delay)
	}
	return nil
}

// Builder assembles an Engine one knob at a time:
//
//	e, err := hashloop.NewBuilder().Stages(32).Delay(2).Build()
type Builder struct{ cfg Config }

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Stages(n int) *Builder { b.cfg.Stages = n; return b }

func (b *Builder) QueueDepth(n int) *Builder { b.cfg.QueueDepth = n; return b }

func (b *Builder) Window(n int) *Builder { b.cfg.Window = n; return b }

func (b *Builder) Delay(n int) *Builder { b.cfg.Delay = n; return b }

func (b *Builder) Compressor(c Compressor) *Builder { b.cfg.Compressor = c; return b }

// Config returns the configuration built so far, defaults not yet applied.
func (b *Builder) Config() Config { return b.cfg }

// Build starts an Engine.
func (b *Builder) Build() (*Engine, error) { return New(b.cfg) }
