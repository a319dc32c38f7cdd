package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDelayTimer_FiresOnceAfterDelay(t *testing.T) {
	var fired atomic.Int32
	d := newDelayTimer(50*time.Millisecond, func() {
		fired.Add(1)
	})

	d.Arm()

	if !d.Active() {
		t.Error("timer should be active after Arm")
	}

	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("expected 1 firing, got %d", fired.Load())
	}
	if d.Active() {
		t.Error("timer should not be active after firing")
	}
}

func TestDelayTimer_RearmRestartsCountdown(t *testing.T) {
	var fired atomic.Int32
	d := newDelayTimer(100*time.Millisecond, func() {
		fired.Add(1)
	})

	// Keep re-arming inside the window; only the last arm should fire.
	for i := 0; i < 5; i++ {
		d.Arm()
		time.Sleep(20 * time.Millisecond)
	}

	if fired.Load() != 0 {
		t.Errorf("timer fired during re-arm burst, count %d", fired.Load())
	}

	time.Sleep(150 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("expected 1 firing after burst, got %d", fired.Load())
	}
}

func TestDelayTimer_StopCancelsPendingFire(t *testing.T) {
	var fired atomic.Int32
	d := newDelayTimer(50*time.Millisecond, func() {
		fired.Add(1)
	})

	d.Arm()
	d.Stop()

	if d.Active() {
		t.Error("timer should not be active after Stop")
	}

	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 0 {
		t.Errorf("stopped timer fired %d times", fired.Load())
	}
}

func TestDelayTimer_StopWithoutArmIsNoop(t *testing.T) {
	d := newDelayTimer(10*time.Millisecond, func() {})
	d.Stop()

	if d.Active() {
		t.Error("timer should not be active")
	}
}

func TestDelayTimer_ArmAfterStop(t *testing.T) {
	var fired atomic.Int32
	d := newDelayTimer(30*time.Millisecond, func() {
		fired.Add(1)
	})

	d.Arm()
	d.Stop()
	d.Arm()

	time.Sleep(80 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("expected 1 firing after re-arm, got %d", fired.Load())
	}
}
