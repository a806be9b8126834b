package sim

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"potlife/internal/accel"
	"potlife/internal/core"
	"potlife/internal/kernel/cpu"
)

type recorder struct {
	events []Event
}

func (r *recorder) on(e Event) { r.events = append(r.events, e) }

func (r *recorder) reset() { r.events = nil }

func (r *recorder) count(match func(Event) bool) int {
	n := 0
	for _, e := range r.events {
		if match(e) {
			n++
		}
	}
	return n
}

func isRefresh(e Event) bool { _, ok := e.(RefreshRequested); return ok }

func isConfigError(e Event) bool { _, ok := e.(ConfigError); return ok }

// stepKernel copies src into dst and remembers which slices it was handed.
type stepKernel struct {
	sides   []int
	sources []*byte
	dests   []*byte
	fail    error
}

func (k *stepKernel) Name() string { return "step" }

func (k *stepKernel) Configure(w, h int, _ core.LiveColor) error {
	k.sides = append(k.sides, w)
	return nil
}

func (k *stepKernel) Step(src, dst []byte) error {
	if k.fail != nil {
		return k.fail
	}
	k.sources = append(k.sources, &src[0])
	k.dests = append(k.dests, &dst[0])
	copy(dst, src)
	return nil
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newMachine(t *testing.T, cfg Config) (*Machine, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg.OnEvent = rec.on
	cfg.Logger = quietLogger()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, rec
}

func TestPaintScenarioOnCanonicalGrid(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 6, Randomize: false, Kernel: cpu.New(cpu.Config{Workers: 2})})
	if m.Side() != 8 {
		t.Fatalf("side = %d, want 8", m.Side())
	}
	if m.Mode() != Draw {
		t.Fatalf("initial mode = %v, want DRAW", m.Mode())
	}
	active := m.Active()
	if active.Len() != 64 || active.CountAlive() != 0 {
		t.Fatalf("expected 64 dead cells, got len %d alive %d", active.Len(), active.CountAlive())
	}

	rec.reset()
	if err := m.Tick(&Pointer{X: -0.5, Y: -0.5}); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if rec.count(isRefresh) != 1 {
		t.Fatalf("expected one refresh, got events %v", rec.events)
	}
	for i := 0; i < 64; i++ {
		want := m.Palette().Dead
		if i == 27 {
			want = m.Palette().Alive
		}
		if got := m.Active().Cell(i); got != want {
			t.Fatalf("cell %d = %#v, want %#v", i, got, want)
		}
	}
}

func TestEraseModifierPaintsDead(t *testing.T) {
	m, _ := newMachine(t, Config{Size: 4, Randomize: false})
	m.Tick(&Pointer{X: 0.5, Y: 0.5})
	if !m.Active().Alive(m.Geometry().Index(2, 2)) {
		t.Fatal("expected cell (2,2) alive")
	}
	m.Tick(&Pointer{X: 0.5, Y: 0.5, Erase: true})
	if m.Active().CountAlive() != 0 {
		t.Fatal("erase should have cleared cell (2,2)")
	}
}

func TestOutOfRangePaintStillRefreshes(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 4, Randomize: true, Seed: 9})
	before := slices.Clone(m.Active().Pix())
	rec.reset()
	for _, p := range []Pointer{{X: 2, Y: 0}, {X: -2.1, Y: 0}, {X: 0, Y: 7}, {X: -30, Y: -30}} {
		if err := m.Tick(&p); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if !slices.Equal(before, m.Active().Pix()) {
		t.Fatal("out-of-range paint mutated the active buffer")
	}
	if rec.count(isRefresh) != 4 {
		t.Fatalf("expected 4 refreshes, got %d", rec.count(isRefresh))
	}
}

func TestDrawTickWithoutPointerIsQuiet(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 4})
	rec.reset()
	if err := m.Tick(nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 0 {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestEnterComputeWithoutKernelStaysInDraw(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 8, Randomize: true, Seed: 5})
	before := slices.Clone(m.Active().Pix())
	slot := m.ActiveSlot()
	rec.reset()

	err := m.EnterCompute()
	if !errors.Is(err, accel.ErrAcceleratorUnavailable) {
		t.Fatalf("EnterCompute error = %v, want ErrAcceleratorUnavailable", err)
	}
	if m.Mode() != Draw {
		t.Fatalf("mode = %v, want DRAW", m.Mode())
	}
	if rec.count(isConfigError) != 1 {
		t.Fatalf("expected one configuration error event, got %v", rec.events)
	}
	if err := m.Tick(nil); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(before, m.Active().Pix()) || m.ActiveSlot() != slot {
		t.Fatal("rejected compute entry must not touch buffers")
	}
	if m.ComputeReady() {
		t.Fatal("ComputeReady should be false without a kernel")
	}
}

func TestEnterComputeRejectsMisconfiguredKernel(t *testing.T) {
	k := &failingConfigure{}
	m, rec := newMachine(t, Config{Size: 4, Kernel: k})
	err := m.EnterCompute()
	if !errors.Is(err, accel.ErrAcceleratorUnavailable) {
		t.Fatalf("EnterCompute error = %v", err)
	}
	if m.Mode() != Draw || rec.count(isConfigError) != 1 {
		t.Fatal("misconfigured kernel must keep the machine in Draw and report it")
	}
}

type failingConfigure struct{ stepKernel }

func (k *failingConfigure) Configure(int, int, core.LiveColor) error {
	return errors.New("no device")
}

func TestAllDeadGridStaysDead(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 2, Randomize: false, Kernel: cpu.New(cpu.DefaultConfig())})
	rec.reset()
	if err := m.EnterCompute(); err != nil {
		t.Fatalf("EnterCompute: %v", err)
	}
	slot := m.ActiveSlot()
	if err := m.Tick(nil); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if m.ActiveSlot() == slot {
		t.Fatal("active buffer did not swap after a compute step")
	}
	if m.Active().CountAlive() != 0 {
		t.Fatal("all-dead grid produced live cells")
	}
	if m.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", m.Generation())
	}
	if rec.count(isRefresh) != 1 {
		t.Fatalf("expected one refresh after compute tick, got %v", rec.events)
	}
	if len(rec.events) == 0 || rec.events[0] != (StateChange{NewState: Compute}) {
		t.Fatalf("expected StateChange to COMPUTE first, got %v", rec.events)
	}
}

func TestComputeStepsPingPong(t *testing.T) {
	k := &stepKernel{}
	m, _ := newMachine(t, Config{Size: 4, Randomize: true, Kernel: k})
	if err := m.EnterCompute(); err != nil {
		t.Fatal(err)
	}
	var actives []*byte
	slots := []int{m.ActiveSlot()}
	for i := 0; i < 5; i++ {
		actives = append(actives, &m.Active().Pix()[0])
		prev := m.Active()
		if err := m.Tick(&Pointer{}); err != nil {
			t.Fatal(err)
		}
		if m.Active() == prev {
			t.Fatalf("step %d: active buffer did not change", i)
		}
		slots = append(slots, m.ActiveSlot())
	}
	for i := 1; i < len(slots); i++ {
		if slots[i] == slots[i-1] {
			t.Fatalf("active slot stayed %d for two consecutive steps", slots[i])
		}
	}
	for i := range k.sources {
		if k.sources[i] != actives[i] {
			t.Fatalf("step %d: kernel source was not the active buffer", i)
		}
		if k.dests[i] == k.sources[i] {
			t.Fatalf("step %d: kernel wrote into its source", i)
		}
	}
	if len(k.sources) != 5 || m.Generation() != 5 {
		t.Fatalf("kernel steps %d, generation %d; want 5 each", len(k.sources), m.Generation())
	}
}

func TestComputeIgnoresPointer(t *testing.T) {
	m, _ := newMachine(t, Config{Size: 4, Randomize: false, Kernel: &stepKernel{}})
	m.EnterCompute()
	m.Tick(&Pointer{X: 0, Y: 0})
	if m.Active().CountAlive() != 0 {
		t.Fatal("pointer must not paint in Compute mode")
	}
}

func TestBlinkerThroughMachine(t *testing.T) {
	m, _ := newMachine(t, Config{Size: 5, Randomize: false, Kernel: cpu.New(cpu.Config{Workers: 3})})
	if m.Side() != 8 {
		t.Fatalf("side = %d", m.Side())
	}
	paintCell := func(x, y int) {
		half := float64(m.Side()) / 2
		m.Tick(&Pointer{X: float64(x) + 0.5 - half, Y: float64(y) + 0.5 - half})
	}
	paintCell(4, 3)
	paintCell(4, 4)
	paintCell(4, 5)

	if err := m.EnterCompute(); err != nil {
		t.Fatal(err)
	}
	m.Tick(nil)
	g := m.Geometry()
	for _, c := range [][2]int{{3, 4}, {4, 4}, {5, 4}} {
		if !m.Active().Alive(g.Index(c[0], c[1])) {
			t.Fatalf("expected (%d,%d) alive after one generation", c[0], c[1])
		}
	}
	if m.Active().CountAlive() != 3 {
		t.Fatalf("alive = %d, want 3", m.Active().CountAlive())
	}
	m.Tick(nil)
	for _, c := range [][2]int{{4, 3}, {4, 4}, {4, 5}} {
		if !m.Active().Alive(g.Index(c[0], c[1])) {
			t.Fatalf("expected (%d,%d) alive after two generations", c[0], c[1])
		}
	}
}

func TestResizeReinitializesInDraw(t *testing.T) {
	k := &stepKernel{}
	m, rec := newMachine(t, Config{Size: 8, Kernel: k})
	m.EnterCompute()
	m.Tick(nil)
	rec.reset()

	if err := m.Resize(20, false); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if m.Side() != 32 || m.Active().Len() != 1024 {
		t.Fatalf("side %d len %d, want 32/1024", m.Side(), m.Active().Len())
	}
	if m.Mode() != Draw || m.Generation() != 0 {
		t.Fatalf("resize should return to Draw at generation 0, got %v/%d", m.Mode(), m.Generation())
	}
	if m.Active().CountAlive() != 0 {
		t.Fatal("clean resize should leave all cells dead")
	}
	if !slices.Equal(k.sides, []int{8, 32}) {
		t.Fatalf("kernel configured with sides %v, want [8 32]", k.sides)
	}
	want := []Event{
		GridReset{Side: 32, Randomized: false},
		StateChange{Generation: 0, NewState: Draw},
		RefreshRequested{Generation: 0},
	}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}

	if err := m.EnterCompute(); err != nil {
		t.Fatalf("compute after resize: %v", err)
	}
	if err := m.Tick(nil); err != nil {
		t.Fatalf("tick after resize: %v", err)
	}
}

func TestResizeRejectsInvalidSize(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 8})
	rec.reset()
	for _, s := range []int{0, -3, 2048} {
		if err := m.Resize(s, true); !errors.Is(err, core.ErrInvalidSize) {
			t.Fatalf("Resize(%d) error = %v", s, err)
		}
	}
	if m.Side() != 8 || len(rec.events) != 0 {
		t.Fatal("invalid resize must leave state untouched")
	}
}

func TestResetRandomizeAndClean(t *testing.T) {
	m, _ := newMachine(t, Config{Size: 64, Randomize: false, Seed: 11})
	m.Reset(true)
	if m.Active().CountAlive() == 0 {
		t.Fatal("randomized reset produced no live cells")
	}
	first := slices.Clone(m.Active().Pix())
	m.Reset(true)
	if slices.Equal(first, m.Active().Pix()) {
		t.Fatal("consecutive randomized resets should differ")
	}
	m.Reset(false)
	if m.Active().CountAlive() != 0 {
		t.Fatal("clean reset left live cells")
	}
}

func TestKernelFailureFallsBackToDraw(t *testing.T) {
	k := &stepKernel{}
	m, rec := newMachine(t, Config{Size: 4, Randomize: true, Kernel: k})
	m.EnterCompute()
	before := slices.Clone(m.Active().Pix())
	slot := m.ActiveSlot()
	k.fail = errors.New("device lost")
	rec.reset()

	if err := m.Tick(nil); !errors.Is(err, k.fail) {
		t.Fatalf("Tick error = %v", err)
	}
	if m.Mode() != Draw || m.ActiveSlot() != slot || m.Generation() != 0 {
		t.Fatal("failed step must not swap buffers or advance the generation")
	}
	if !slices.Equal(before, m.Active().Pix()) {
		t.Fatal("failed step altered the active buffer")
	}
	if rec.count(isConfigError) != 1 {
		t.Fatalf("expected a configuration error event, got %v", rec.events)
	}
}

func TestModeTransitionsEmitOnce(t *testing.T) {
	m, rec := newMachine(t, Config{Size: 4, Kernel: &stepKernel{}})
	rec.reset()
	m.EnterDraw()
	m.EnterCompute()
	m.EnterCompute()
	m.EnterDraw()
	want := []Event{
		StateChange{NewState: Compute},
		StateChange{NewState: Draw},
	}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(Config{Size: 0}); !errors.Is(err, core.ErrInvalidSize) {
		t.Fatalf("New with size 0: %v", err)
	}
	p := core.DefaultPalette()
	p.Alive.R = 0
	if _, err := New(Config{Size: 4, Palette: p}); !errors.Is(err, core.ErrInvalidPalette) {
		t.Fatalf("New with bad palette: %v", err)
	}
}

func TestParameters(t *testing.T) {
	m, _ := newMachine(t, Config{Size: 16, Randomize: false, Kernel: &stepKernel{}})
	snap := m.Parameters()
	checks := map[string]string{
		"size":       "16",
		"alive":      "0",
		"state":      "DRAW",
		"generation": "0",
		"kernel":     "step",
		"ready":      "true",
	}
	for key, want := range checks {
		p, ok := snap.Lookup(key)
		if !ok {
			t.Fatalf("parameter %q missing", key)
		}
		if p.Value != want {
			t.Fatalf("parameter %q = %q, want %q", key, p.Value, want)
		}
	}
}
