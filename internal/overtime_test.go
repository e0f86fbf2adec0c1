package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOvertimeIntensity(t *testing.T) {
	tests := []struct {
		name       string
		d          time.Duration
		wantScale  float64
		wantPeriod float64
	}{
		{name: "entering overtime", d: 0, wantScale: 0.92, wantPeriod: 1.0},
		{name: "negative clamps", d: -time.Minute, wantScale: 0.92, wantPeriod: 1.0},
		{name: "halfway", d: 150 * time.Second, wantScale: 0.86, wantPeriod: 0.85},
		{name: "ramp end", d: 5 * time.Minute, wantScale: 0.80, wantPeriod: 0.7},
		{name: "held after ramp", d: 42 * time.Minute, wantScale: 0.80, wantPeriod: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OvertimeIntensity(tt.d)
			assert.InDelta(t, tt.wantScale, got.Scale, 1e-9)
			assert.InDelta(t, tt.wantPeriod, got.BlinkPeriodSec, 1e-9)
		})
	}
}

func TestOvertimeIntensity_Monotonic(t *testing.T) {
	prev := OvertimeIntensity(0)
	for s := 1; s <= 400; s++ {
		cur := OvertimeIntensity(time.Duration(s) * time.Second)
		assert.LessOrEqual(t, cur.Scale, prev.Scale, "scale at %ds", s)
		assert.LessOrEqual(t, cur.BlinkPeriodSec, prev.BlinkPeriodSec, "period at %ds", s)
		prev = cur
	}
}

func TestIntensity_BlinkPeriod(t *testing.T) {
	assert.Equal(t, 700*time.Millisecond, Intensity{BlinkPeriodSec: 0.7}.BlinkPeriod())
	assert.Equal(t, time.Second, Intensity{BlinkPeriodSec: 1}.BlinkPeriod())
}
