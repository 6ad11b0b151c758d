package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastq/internal/clock"
)

func newTestEvictor(interval time.Duration) (*evictor, *clock.Fake, *[]uint64) {
	fc := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	var fired []uint64
	var e *evictor
	e = newEvictor(fc, interval, func(gen uint64) {
		if e.fired(gen) {
			fired = append(fired, gen)
		}
	})
	return e, fc, &fired
}

func TestEvictorState_String(t *testing.T) {
	assert.Equal(t, "idle", EvictorIdle.String())
	assert.Equal(t, "armed", EvictorArmed.String())
	assert.Equal(t, "stopped", EvictorStopped.String())
	assert.Equal(t, "unknown", EvictorState(9).String())
}

func TestEvictor_ArmCoalesces(t *testing.T) {
	e, fc, fired := newTestEvictor(time.Second)

	assert.True(t, e.arm())
	assert.False(t, e.arm(), "second arm while pending is coalesced")
	assert.False(t, e.arm())
	assert.Equal(t, EvictorArmed, e.state)
	assert.Equal(t, 1, fc.Pending())

	fc.Advance(999 * time.Millisecond)
	assert.Empty(t, *fired)

	fc.Advance(time.Millisecond)
	assert.Len(t, *fired, 1)
	assert.Equal(t, EvictorIdle, e.state)

	// Idle again, so arming schedules a new timer
	assert.True(t, e.arm())
}

func TestEvictor_Disarm(t *testing.T) {
	e, fc, fired := newTestEvictor(time.Second)

	e.arm()
	e.disarm()
	assert.Equal(t, EvictorIdle, e.state)
	assert.Equal(t, 0, fc.Pending())

	fc.Advance(5 * time.Second)
	assert.Empty(t, *fired)

	// Disarming an idle evictor is harmless
	e.disarm()
	assert.Equal(t, EvictorIdle, e.state)
}

func TestEvictor_StaleGenerationIgnored(t *testing.T) {
	e, _, _ := newTestEvictor(time.Second)

	e.arm()
	stale := e.generation
	e.disarm()
	e.arm()

	assert.False(t, e.fired(stale))
	assert.Equal(t, EvictorArmed, e.state)
	assert.True(t, e.fired(e.generation))
}

func TestEvictor_ResetReschedules(t *testing.T) {
	e, fc, fired := newTestEvictor(3 * time.Second)

	e.arm()
	fc.Advance(time.Second)
	assert.True(t, e.reset(500*time.Millisecond))

	assert.Equal(t, EvictorArmed, e.state)
	assert.Equal(t, 1, fc.Pending())

	fc.Advance(500 * time.Millisecond)
	assert.Len(t, *fired, 1)

	// Reset while idle only changes the interval
	assert.True(t, e.reset(2*time.Second))
	assert.Equal(t, EvictorIdle, e.state)
	assert.Equal(t, 2*time.Second, e.interval)
}

func TestEvictor_ResetSameIntervalKeepsDeadline(t *testing.T) {
	e, fc, fired := newTestEvictor(3 * time.Second)

	e.arm()
	gen := e.generation
	fc.Advance(1500 * time.Millisecond)

	assert.False(t, e.reset(3*time.Second))
	assert.Equal(t, gen, e.generation)
	assert.Equal(t, 1, fc.Pending())

	fc.Advance(1500 * time.Millisecond)
	assert.Equal(t, []uint64{gen}, *fired)
}

func TestEvictor_StopIsTerminal(t *testing.T) {
	e, fc, fired := newTestEvictor(time.Second)

	e.arm()
	e.stop()
	assert.Equal(t, EvictorStopped, e.state)
	assert.Equal(t, 0, fc.Pending())

	assert.False(t, e.arm())
	assert.False(t, e.reset(time.Millisecond))
	assert.Equal(t, EvictorStopped, e.state)

	fc.Advance(time.Minute)
	assert.Empty(t, *fired)
}
