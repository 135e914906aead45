package hashloop

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func randWord(r *rand.Rand) (w Word) {
	r.Read(w[:])
	return w
}

func startEngine(t *testing.T, b *Builder) *Engine {
	t.Helper()
	e, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() {
		go e.Close()
		for range e.Results() {
		}
	})
	return e
}

// collect receives n packets and indexes them by ID.
func collect(t *testing.T, e *Engine, n int) map[uint64]*Packet {
	t.Helper()
	got := make(map[uint64]*Packet, n)
	timeout := time.After(30 * time.Second)
	for len(got) < n {
		select {
		case p := <-e.Results():
			if _, dup := got[p.ID]; dup {
				t.Fatalf("packet %d emitted twice", p.ID)
			}
			got[p.ID] = p
		case <-timeout:
			t.Fatalf("timed out with %d of %d packets", len(got), n)
		}
	}
	return got
}

func TestEngine_SingleIteration(t *testing.T) {
	seed, _ := ParseWord("01ba4719c80b6fe911b091a7c05124b64eeece964e09c058ef8f9805daca546b")
	want, _ := ParseWord("9c827201b94019b42f85706bc49c59ff84b5604d11caafb90ab94856c4e1dd7a")
	e := startEngine(t, NewBuilder())
	if err := e.Submit(context.Background(), NewPacket(7, seed, 1)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p := collect(t, e, 1)[7]
	if p.Value != want {
		t.Fatalf("got %s, want %s", p.Value, want)
	}
	if p.Remaining != 0 || p.Circulations != 1 {
		t.Fatalf("remaining %d, circulations %d", p.Remaining, p.Circulations)
	}
}

func TestEngine_ZeroIterations(t *testing.T) {
	e := startEngine(t, NewBuilder().Stages(4))
	seed := randWord(rand.New(rand.NewSource(1)))
	if err := e.Submit(context.Background(), NewPacket(0, seed, 0)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p := collect(t, e, 1)[0]
	if p.Value != seed || p.Circulations != 1 {
		t.Fatalf("got %s after %d circulations, want seed after 1", p.Value, p.Circulations)
	}
	if s := e.Stats(); s.Compressions != 0 || s.Recirculated != 0 {
		t.Fatalf("stats: %+v", s)
	}
}

func TestEngine_Circulations(t *testing.T) {
	t.Parallel()
	const n = 16
	e := startEngine(t, NewBuilder().Stages(n).Compressor(Compress))
	r := rand.New(rand.NewSource(2))
	counts := []uint32{0, 1, 2, 15, 16, 17, 31, 32, 33, 100, 257}
	seeds := make([]Word, len(counts))
	go func() {
		for i, k := range counts {
			seeds[i] = randWord(r)
			if err := e.Submit(context.Background(), NewPacket(uint64(i), seeds[i], k)); err != nil {
				panic(err)
			}
		}
	}()
	got := collect(t, e, len(counts))

	var total, circ uint64
	for i, k := range counts {
		want := uint32(1)
		if k > n {
			want = (k + n - 1) / n
		}
		p := got[uint64(i)]
		if p.Circulations != want {
			t.Fatalf("K=%d: %d circulations, want %d", k, p.Circulations, want)
		}
		if v := Sum(seeds[i], uint64(k)); p.Value != v {
			t.Fatalf("K=%d: got %s, want %s", k, p.Value, v)
		}
		total += uint64(k)
		circ += uint64(want)
	}
	s := e.Stats()
	if s.Compressions != total || s.Circulations != circ || s.Completed != uint64(len(counts)) {
		t.Fatalf("stats: %+v, want %d compressions over %d circulations", s, total, circ)
	}
	if s.Recirculated != circ-uint64(len(counts)) {
		t.Fatalf("recirculated %d, want %d", s.Recirculated, circ-uint64(len(counts)))
	}
}

func TestEngine_Determinism(t *testing.T) {
	t.Parallel()
	for _, b := range []*Builder{
		NewBuilder().Stages(1).QueueDepth(1).Window(1),
		NewBuilder().Stages(3).Delay(2),
		NewBuilder().Stages(16).Window(64).Delay(8),
	} {
		e := startEngine(t, b)
		r := rand.New(rand.NewSource(3))
		const m = 200
		seeds, counts := make([]Word, m), make([]uint32, m)
		for i := range seeds {
			seeds[i], counts[i] = randWord(r), uint32(r.Intn(300))
		}
		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := w; i < m; i += 4 {
					if err := e.Submit(context.Background(), NewPacket(uint64(i), seeds[i], counts[i])); err != nil {
						panic(err)
					}
				}
			}(w)
		}
		got := collect(t, e, m)
		wg.Wait()
		for i := range seeds {
			if want := Sum(seeds[i], uint64(counts[i])); got[uint64(i)].Value != want {
				t.Fatalf("%+v packet %d: got %s, want %s", b.Config(), i, got[uint64(i)].Value, want)
			}
		}
	}
}

func TestEngine_TrySubmit(t *testing.T) {
	gate := make(chan struct{})
	e := startEngine(t, NewBuilder().Stages(1).Window(1).Compressor(func(w Word) Word {
		<-gate
		return Compress(w)
	}))
	var seed Word
	if err := e.TrySubmit(NewPacket(0, seed, 1)); err != nil {
		t.Fatalf("TrySubmit: %v", err)
	}
	if err := e.TrySubmit(NewPacket(1, seed, 1)); !errors.Is(err, ErrSaturated) {
		t.Fatalf("TrySubmit: got %v, want ErrSaturated", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := e.Submit(ctx, NewPacket(1, seed, 1)); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Submit: got %v, want DeadlineExceeded", err)
	}
	close(gate)
	if p := collect(t, e, 1)[0]; p.Value != Compress(seed) {
		t.Fatalf("got %s", p.Value)
	}
	if s := e.Stats(); s.Admitted != 1 || s.Completed != 1 {
		t.Fatalf("stats: %+v", s)
	}
}

func TestEngine_Close(t *testing.T) {
	e, err := New(Config{Stages: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 8; i++ {
		if err := e.Submit(context.Background(), NewPacket(uint64(i), randWord(r), 50)); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	done := make(chan struct{})
	go func() {
		e.Close()
		e.Close()
		close(done)
	}()
	var n int
	for range e.Results() {
		n++
	}
	<-done
	if n != 8 {
		t.Fatalf("drained %d packets, want 8", n)
	}
	if err := e.Submit(context.Background(), NewPacket(0, Word{}, 0)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Submit: got %v, want ErrClosed", err)
	}
	if err := e.TrySubmit(NewPacket(0, Word{}, 0)); !errors.Is(err, ErrClosed) {
		t.Fatalf("TrySubmit: got %v, want ErrClosed", err)
	}
}

func TestIngress_Priority(t *testing.T) {
	back := make(chan *Packet, 2)
	e := &Engine{fresh: make(chan *Packet, 2), recirc: back, quit: make(chan struct{})}
	e.fresh <- &Packet{ID: 10}
	e.fresh <- &Packet{ID: 11}
	back <- &Packet{ID: 1}
	back <- &Packet{ID: 2}

	out := make(chan *Packet)
	go e.ingress(out)
	for _, want := range []uint64{1, 2} {
		if p := <-out; p.ID != want {
			t.Fatalf("got packet %d, want recirculated packet %d", p.ID, want)
		}
	}
	for _, want := range []uint64{10, 11} {
		if p := <-out; p.ID != want {
			t.Fatalf("got packet %d, want fresh packet %d", p.ID, want)
		}
	}
	close(e.quit)
	if _, ok := <-out; ok {
		t.Fatalf("ingress kept running after quit")
	}
}

func TestRelay_Order(t *testing.T) {
	head := make(chan *Packet, 4)
	var tail <-chan *Packet = head
	for i := 0; i < 5; i++ {
		next := make(chan *Packet, 1)
		go relay(tail, next)
		tail = next
	}
	go func() {
		for i := uint64(0); i < 100; i++ {
			head <- &Packet{ID: i, Remaining: 3}
		}
		close(head)
	}()
	var i uint64
	for p := range tail {
		if p.ID != i || p.Remaining != 3 {
			t.Fatalf("got packet %d (remaining %d), want %d", p.ID, p.Remaining, i)
		}
		i++
	}
	if i != 100 {
		t.Fatalf("relayed %d packets, want 100", i)
	}
}

func TestBuilder_Invalid(t *testing.T) {
	for _, b := range []*Builder{
		NewBuilder().Stages(-1),
		NewBuilder().QueueDepth(-2),
		NewBuilder().Window(-1),
		NewBuilder().Delay(-1),
	} {
		if _, err := b.Build(); err == nil {
			t.Fatalf("Build(%+v): expected error", b.Config())
		}
	}
	e := startEngine(t, NewBuilder())
	if c := e.Config(); c.Stages != DefaultStages || c.QueueDepth != DefaultQueueDepth ||
		c.Window != DefaultStages*DefaultQueueDepth*2 || c.Delay != 0 || c.Compressor == nil {
		t.Fatalf("defaults: %+v", c)
	}
}

func BenchmarkEngine(b *testing.B) {
	e, _ := NewBuilder().Build()
	defer func() {
		go e.Close()
		for range e.Results() {
		}
	}()
	const k = 1024
	b.SetBytes(32 * k)
	b.ReportAllocs()
	b.ResetTimer()
	go func() {
		for i := 0; i < b.N; i++ {
			_ = e.Submit(context.Background(), NewPacket(uint64(i), Word{}, k))
		}
	}()
	for i := 0; i < b.N; i++ {
		<-e.Results()
	}
}
