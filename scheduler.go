package sekai

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"time"

	"github.com/rotisserie/eris"
)

// Phase names the scheduler hook a system was running when it failed.
type Phase uint8

const (
	PhaseUpdate Phase = iota
	PhaseRender
	PhaseTeardown
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseTeardown:
		return "teardown"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// System is a unit of per-tick behavior. Systems are usually pointers to
// structs holding their own state and Component accessors.
type System interface {
	Update(dt time.Duration) error
}

// Renderer is implemented by systems that take part in the render pass. ctx
// is whatever the host passes to Render, e.g. an *ebiten.Image.
type Renderer interface {
	Render(ctx any) error
}

// Teardowner is implemented by systems that release resources when they are
// removed from the scheduler.
type Teardowner interface {
	Teardown() error
}

// Namer lets a system choose the identity that appears in fault reports.
type Namer interface {
	Name() string
}

// Scheduler runs systems in registration order. Every hook call runs behind
// its own recover boundary: an error or panic is logged, counted and published
// as a Fault, and the remaining systems still run. A failing system is never
// disabled or retried; it keeps being called every tick until removed.
//
// Mutations a system performed before failing are kept.
type Scheduler struct {
	logger    *log.Logger
	events    *EventBus
	faults    map[string]uint64
	now       func() time.Time
	systems   []System
	snapshot  []System
	depth     int
	logFaults bool
}

// NewScheduler creates a standalone Scheduler with its own EventBus.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	return newScheduler(cfg, &EventBus{})
}

func newScheduler(cfg SchedulerConfig, events *EventBus) *Scheduler {
	cfg.applyDefaults()
	return &Scheduler{
		logger:    cfg.Logger,
		events:    events,
		faults:    make(map[string]uint64),
		now:       time.Now,
		systems:   make([]System, 0, 16),
		logFaults: *cfg.LogFaults,
	}
}

// AddSystem appends sys. Order of registration is order of execution.
func (s *Scheduler) AddSystem(sys System) {
	if sys == nil {
		panic("ecs: cannot add nil system")
	}
	s.systems = append(s.systems, sys)
}

// RemoveSystem removes the first registration of sys and runs its Teardown
// hook behind the same fault boundary as Update. It reports whether sys was
// registered. A tick already in progress still runs sys.
func (s *Scheduler) RemoveSystem(sys System) bool {
	if sys == nil {
		return false
	}
	idx := slices.IndexFunc(s.systems, func(registered System) bool {
		return sameSystem(registered, sys)
	})
	if idx < 0 {
		return false
	}
	s.systems = slices.Delete(s.systems, idx, idx+1)
	if _, ok := sys.(Teardowner); ok {
		s.call(sys, PhaseTeardown, 0, nil)
	}
	return true
}

// sameSystem compares systems by interface equality. Values that cannot be
// compared, such as structs holding a slice behind an interface field, are
// never equal.
func sameSystem(a, b System) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Systems returns a copy of the registered systems in execution order.
func (s *Scheduler) Systems() []System {
	return slices.Clone(s.systems)
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	return len(s.systems)
}

// Update runs the Update hook of every system once.
func (s *Scheduler) Update(dt time.Duration) {
	systems := s.begin()
	defer s.end()
	for _, sys := range systems {
		s.call(sys, PhaseUpdate, dt, nil)
	}
}

// Render runs the Render hook of every system implementing Renderer. Faults
// in Update do not affect it.
func (s *Scheduler) Render(ctx any) {
	systems := s.begin()
	defer s.end()
	for _, sys := range systems {
		if _, ok := sys.(Renderer); ok {
			s.call(sys, PhaseRender, 0, ctx)
		}
	}
}

// Faults returns the number of faults recorded per system name.
func (s *Scheduler) Faults() map[string]uint64 {
	return maps.Clone(s.faults)
}

// SubscribeFaults registers fn to be called for every fault.
func (s *Scheduler) SubscribeFaults(fn func(Fault)) (cancel func()) {
	return Subscribe(s.events, fn)
}

// Events returns the bus faults are published on.
func (s *Scheduler) Events() *EventBus {
	return s.events
}

// begin snapshots the system list so that systems added or removed during the
// pass only take effect on the next one. The outermost pass reuses one buffer.
func (s *Scheduler) begin() []System {
	s.depth++
	if s.depth > 1 {
		return slices.Clone(s.systems)
	}
	s.snapshot = append(s.snapshot[:0], s.systems...)
	return s.snapshot
}

func (s *Scheduler) end() {
	s.depth--
	if s.depth == 0 {
		clear(s.snapshot)
	}
}

func (s *Scheduler) call(sys System, phase Phase, dt time.Duration, ctx any) {
	if err := invoke(sys, phase, dt, ctx); err != nil {
		s.fault(sys, phase, err)
	}
}

// invoke runs one hook and converts a panic into an error.
func invoke(sys System, phase Phase, dt time.Duration, ctx any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	switch phase {
	case PhaseUpdate:
		return sys.Update(dt)
	case PhaseRender:
		return sys.(Renderer).Render(ctx)
	case PhaseTeardown:
		return sys.(Teardowner).Teardown()
	}
	return nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return eris.Wrap(err, "panic")
	}
	return eris.Errorf("panic: %v", r)
}

func (s *Scheduler) fault(sys System, phase Phase, err error) {
	f := Fault{
		Time:   s.now(),
		Err:    err,
		System: SystemName(sys),
		Phase:  phase,
	}
	s.faults[f.System]++
	if s.logFaults {
		s.logger.Printf("system %s failed during %s at %s: %v", f.System, f.Phase, f.Time.Format(time.RFC3339Nano), err)
	}
	Publish(s.events, f)
}

// SystemName returns the identity used for sys in fault reports.
func SystemName(sys System) string {
	if n, ok := sys.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}
