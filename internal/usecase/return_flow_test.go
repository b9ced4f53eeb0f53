package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/onsiteclub/account-service/internal/domain/entity"
	"github.com/onsiteclub/account-service/internal/usecase"
)

func TestReturnFlow_CountdownReachesZero(t *testing.T) {
	dest := entity.NativeTarget("onsiteclub", "onsiteclub://payment-success")

	var navigations int32
	navigated := make(chan entity.Destination, 1)
	flow := usecase.NewReturnFlow(dest, func(d entity.Destination) {
		atomic.AddInt32(&navigations, 1)
		navigated <- d
	}, usecase.WithTickInterval(time.Millisecond))

	assert.Equal(t, usecase.PhaseDisplaying, flow.Phase())
	assert.Equal(t, usecase.DefaultCountdown, flow.Countdown())

	flow.Start(context.Background())

	select {
	case d := <-navigated:
		assert.Equal(t, "onsiteclub://payment-success", d.RawURL)
	case <-time.After(time.Second):
		t.Fatal("countdown never handed off")
	}

	assert.Equal(t, usecase.PhaseHandedOff, flow.Phase())

	// No second navigation fires after the terminal state.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&navigations))
}

func TestReturnFlow_ManualHandOff(t *testing.T) {
	var navigations int32
	flow := usecase.NewReturnFlow(entity.WebPath("/"), func(entity.Destination) {
		atomic.AddInt32(&navigations, 1)
	}, usecase.WithTickInterval(time.Hour))

	flow.Start(context.Background())

	// The user clicks before the first tick ever fires.
	flow.HandOff()
	assert.Equal(t, usecase.PhaseHandedOff, flow.Phase())
	assert.Equal(t, int32(1), atomic.LoadInt32(&navigations))

	// Re-entry is a no-op.
	flow.HandOff()
	assert.Equal(t, int32(1), atomic.LoadInt32(&navigations))
}

func TestReturnFlow_TickObserver(t *testing.T) {
	ticks := make(chan int, usecase.DefaultCountdown)
	done := make(chan struct{})

	flow := usecase.NewReturnFlow(entity.WebPath("/"), func(entity.Destination) {
		close(done)
	},
		usecase.WithTickInterval(time.Millisecond),
		usecase.WithTickObserver(func(remaining int) { ticks <- remaining }),
	)

	flow.Start(context.Background())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never finished")
	}
	close(ticks)

	var seen []int
	for n := range ticks {
		seen = append(seen, n)
	}
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, seen)
}

func TestReturnFlow_Celebration(t *testing.T) {
	celebrated := make(chan struct{})

	flow := usecase.NewReturnFlow(entity.WebPath("/"), nil,
		usecase.WithTickInterval(time.Hour),
		usecase.WithCelebration(func() { close(celebrated) }),
	)
	flow.Start(context.Background())

	select {
	case <-celebrated:
	case <-time.After(time.Second):
		t.Fatal("celebration never fired")
	}
}

func TestReturnFlow_TeardownCancelsPendingTick(t *testing.T) {
	var navigations int32
	flow := usecase.NewReturnFlow(entity.WebPath("/"), func(entity.Destination) {
		atomic.AddInt32(&navigations, 1)
	}, usecase.WithTickInterval(100*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	flow.Start(ctx)
	cancel()

	// The teardown lands well before the first tick; nothing may navigate
	// afterwards.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&navigations))
	assert.Equal(t, usecase.PhaseDisplaying, flow.Phase())

	// A torn-down flow refuses manual handoff too; the page is gone.
	flow.HandOff()
	assert.Equal(t, int32(0), atomic.LoadInt32(&navigations))
}
