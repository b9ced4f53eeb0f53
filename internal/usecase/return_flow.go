package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/onsiteclub/account-service/internal/domain/entity"
)

// ReturnPhase is the state of the post-payment return flow.
type ReturnPhase string

const (
	// PhaseDisplaying shows the confirmation with a live countdown.
	PhaseDisplaying ReturnPhase = "displaying"
	// PhaseHandedOff is terminal: navigation to the return destination has
	// fired. Re-entering it is a no-op.
	PhaseHandedOff ReturnPhase = "handed_off"
)

// DefaultCountdown is the number of ticks before the automatic handoff.
const DefaultCountdown = 10

// ReturnFlow drives the post-payment confirmation: a countdown that
// decrements once per tick and ends in exactly one navigation to the
// resolved return destination, either when the countdown reaches zero or
// when the user acts manually.
//
// Only one single-shot timer is outstanding at a time; each tick
// reschedules the next. Canceling the owning context before handoff
// discards the pending tick, and nothing fires after that.
type ReturnFlow struct {
	mu        sync.Mutex
	phase     ReturnPhase
	countdown int
	dest      entity.Destination

	interval  time.Duration
	timer     *time.Timer
	tornDown  bool
	navigate  func(entity.Destination)
	celebrate func()
	onTick    func(int)
}

// ReturnFlowOption customizes a ReturnFlow.
type ReturnFlowOption func(*ReturnFlow)

// WithTickInterval overrides the one-second tick, mainly for tests.
func WithTickInterval(d time.Duration) ReturnFlowOption {
	return func(f *ReturnFlow) { f.interval = d }
}

// WithCelebration registers the one-shot celebratory effect fired on first
// display. It runs outside the state machine and never delays a tick.
func WithCelebration(fn func()) ReturnFlowOption {
	return func(f *ReturnFlow) { f.celebrate = fn }
}

// WithTickObserver registers a callback invoked with the remaining
// countdown after every tick.
func WithTickObserver(fn func(int)) ReturnFlowOption {
	return func(f *ReturnFlow) { f.onTick = fn }
}

// NewReturnFlow creates a flow that will navigate to dest.
func NewReturnFlow(dest entity.Destination, navigate func(entity.Destination), opts ...ReturnFlowOption) *ReturnFlow {
	f := &ReturnFlow{
		phase:     PhaseDisplaying,
		countdown: DefaultCountdown,
		dest:      dest,
		interval:  time.Second,
		navigate:  navigate,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start fires the celebration and schedules the first tick. The flow is
// torn down when ctx is canceled: the pending tick is discarded and no
// transition fires afterwards.
func (f *ReturnFlow) Start(ctx context.Context) {
	f.mu.Lock()
	if f.celebrate != nil {
		go f.celebrate()
	}
	f.timer = time.AfterFunc(f.interval, f.tick)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.teardown()
	}()
}

func (f *ReturnFlow) tick() {
	f.mu.Lock()
	if f.phase == PhaseHandedOff || f.tornDown {
		f.mu.Unlock()
		return
	}

	f.countdown--
	remaining := f.countdown
	observer := f.onTick

	if remaining <= 0 {
		f.mu.Unlock()
		if observer != nil {
			observer(0)
		}
		f.HandOff()
		return
	}

	// The previous tick has fired, so scheduling the next one keeps the
	// single-outstanding-timer invariant.
	f.timer = time.AfterFunc(f.interval, f.tick)
	f.mu.Unlock()

	if observer != nil {
		observer(remaining)
	}
}

// HandOff transitions to the terminal state and performs the navigation.
// It is idempotent: the navigation fires exactly once no matter how often
// the countdown and the user race to call it.
func (f *ReturnFlow) HandOff() {
	f.mu.Lock()
	if f.phase == PhaseHandedOff || f.tornDown {
		f.mu.Unlock()
		return
	}
	f.phase = PhaseHandedOff
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	navigate := f.navigate
	dest := f.dest
	f.mu.Unlock()

	if navigate != nil {
		navigate(dest)
	}
}

func (f *ReturnFlow) teardown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseHandedOff || f.tornDown {
		return
	}
	f.tornDown = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Phase returns the current state.
func (f *ReturnFlow) Phase() ReturnPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Countdown returns the remaining ticks.
func (f *ReturnFlow) Countdown() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countdown
}
