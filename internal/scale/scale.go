package scale

import (
	"math"
	"time"
)

// MinTimeSpan is the span a degenerate time domain is widened to.
const MinTimeSpan = 24 * time.Hour

// MinLinearSpan is the span a degenerate continuous domain is widened to.
const MinLinearSpan = 1.0

// Margin are the surface margins in pixels.
type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Surface is a drawing surface.
type Surface struct {
	Width  float64
	Height float64
	Margin Margin
}

// InnerWidth returns the drawable width inside the margins.
func (s Surface) InnerWidth() float64 {
	return max(s.Width-s.Margin.Left-s.Margin.Right, 0)
}

// InnerHeight returns the drawable height inside the margins.
func (s Surface) InnerHeight() float64 {
	return max(s.Height-s.Margin.Top-s.Margin.Bottom, 0)
}

// Time maps a time domain into a pixel range.
type Time struct {
	d0, d1 time.Time
	r0, r1 float64
}

// NewTime returns a time scale. Degenerate or inverted domains are widened to
// MinTimeSpan starting at min.
func NewTime(lo, hi time.Time, r0, r1 float64) Time {
	if !hi.After(lo) {
		hi = lo.Add(MinTimeSpan)
	}
	return Time{d0: lo, d1: hi, r0: r0, r1: r1}
}

// Map maps an instant into the range. Instants outside the domain are extrapolated.
func (s Time) Map(t time.Time) float64 {
	if t.Equal(s.d0) {
		return s.r0
	}
	if t.Equal(s.d1) {
		return s.r1
	}
	f := float64(t.Sub(s.d0)) / float64(s.d1.Sub(s.d0))
	return s.r0 + f*(s.r1-s.r0)
}

// Invert maps a range position back into the time domain.
func (s Time) Invert(px float64) time.Time {
	if s.r1 == s.r0 {
		return s.d0
	}
	f := (px - s.r0) / (s.r1 - s.r0)
	return s.d0.Add(time.Duration(math.Round(f * float64(s.d1.Sub(s.d0)))))
}

// Domain returns the domain boundaries.
func (s Time) Domain() (time.Time, time.Time) { return s.d0, s.d1 }

// Range returns the range boundaries.
func (s Time) Range() (float64, float64) { return s.r0, s.r1 }

// Contains returns true when the instant is inside the domain, boundaries included.
func (s Time) Contains(t time.Time) bool {
	return !t.Before(s.d0) && !t.After(s.d1)
}

// tickSteps are the candidate tick intervals in days.
var tickSteps = []int{1, 2, 7, 14, 30, 91, 182, 365}

// Ticks returns at most n day aligned instants inside the domain.
func (s Time) Ticks(n int) []time.Time {
	if n <= 0 {
		return nil
	}

	spanDays := s.d1.Sub(s.d0).Hours() / 24
	step := tickSteps[len(tickSteps)-1]
	for _, st := range tickSteps {
		if spanDays/float64(st) <= float64(n) {
			step = st
			break
		}
	}

	d0 := s.d0.UTC()
	first := time.Date(d0.Year(), d0.Month(), d0.Day(), 0, 0, 0, 0, time.UTC)
	if first.Before(s.d0) {
		first = first.AddDate(0, 0, 1)
	}

	var ticks []time.Time
	for t := first; !t.After(s.d1) && len(ticks) < n; t = t.AddDate(0, 0, step) {
		ticks = append(ticks, t)
	}
	return ticks
}

// Linear maps a continuous domain into a pixel range. The range may be inverted.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale. Degenerate or inverted domains are widened to
// MinLinearSpan centered on the value.
func NewLinear(lo, hi, r0, r1 float64) Linear {
	if !(hi > lo) {
		mid := lo
		lo, hi = mid-MinLinearSpan/2, mid+MinLinearSpan/2
	}
	return Linear{d0: lo, d1: hi, r0: r0, r1: r1}
}

// Map maps a value into the range.
func (s Linear) Map(v float64) float64 {
	if v == s.d0 {
		return s.r0
	}
	if v == s.d1 {
		return s.r1
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert maps a range position back into the domain.
func (s Linear) Invert(px float64) float64 {
	if s.r1 == s.r0 {
		return s.d0
	}
	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// Domain returns the domain boundaries.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the range boundaries.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Ticks returns at most n+1 evenly spaced round values inside the domain.
func (s Linear) Ticks(n int) []float64 {
	if n <= 0 {
		return nil
	}

	step := niceStep((s.d1 - s.d0) / float64(n))
	var ticks []float64
	for v := math.Ceil(s.d0/step) * step; v <= s.d1+step*1e-9; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// Band splits a range into one equal band per ordinal key.
type Band struct {
	index     map[string]int
	r0        float64
	step      float64
	bandwidth float64
	offset    float64
}

// NewBand returns a band scale over the keys in order. Padding is the fraction of
// each step left empty between bands, in the 0..1 range.
func NewBand(keys []string, r0, r1, padding float64) Band {
	padding = min(max(padding, 0), 0.95)

	b := Band{index: make(map[string]int, len(keys)), r0: r0}
	for i, k := range keys {
		if _, ok := b.index[k]; !ok {
			b.index[k] = i
		}
	}
	if len(keys) == 0 {
		return b
	}

	b.step = (r1 - r0) / float64(len(keys))
	b.bandwidth = b.step * (1 - padding)
	b.offset = (b.step - b.bandwidth) / 2
	return b
}

// Position returns the start of the band of a key.
func (b Band) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.r0 + float64(i)*b.step + b.offset, true
}

// Center returns the middle of the band of a key.
func (b Band) Center(key string) (float64, bool) {
	p, ok := b.Position(key)
	if !ok {
		return 0, false
	}
	return p + b.bandwidth/2, true
}

// Bandwidth returns the size of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the start of consecutive bands.
func (b Band) Step() float64 { return b.step }
