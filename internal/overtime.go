package internal

import "time"

const (
	overtimeRamp      = 5 * time.Minute
	overtimeScaleFrom = 0.92
	overtimeScaleTo   = 0.80
	blinkPeriodFrom   = 1.0
	blinkPeriodTo     = 0.7
)

// Intensity describes how hard the overtime display pulses: the clock face
// scale and the blink period. Both ramp linearly over the first five minutes
// of overtime and then hold.
type Intensity struct {
	Scale          float64
	BlinkPeriodSec float64
}

// OvertimeIntensity returns the display intensity after d in overtime
func OvertimeIntensity(d time.Duration) Intensity {
	if d < 0 {
		d = 0
	}
	if d >= overtimeRamp {
		return Intensity{Scale: overtimeScaleTo, BlinkPeriodSec: blinkPeriodTo}
	}
	m := d.Minutes()
	return Intensity{
		Scale:          overtimeScaleFrom - (overtimeScaleFrom-overtimeScaleTo)*m/5,
		BlinkPeriodSec: blinkPeriodFrom - (blinkPeriodFrom-blinkPeriodTo)*m/5,
	}
}

// BlinkPeriod returns the blink period as a duration
func (i Intensity) BlinkPeriod() time.Duration {
	return time.Duration(i.BlinkPeriodSec * float64(time.Second))
}
