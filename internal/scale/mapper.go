package scale

import (
	"time"

	"github.com/slok/bbschedule/internal/model"
)

// Options customize the scale mapping.
type Options struct {
	// BandPadding is the fraction of each row left empty between Gantt bars.
	BandPadding float64
	// Now anchors the time domain when there are no tasks.
	Now time.Time
}

// Set is the group of scales of a render pass. All ranges are relative to the
// inner surface, renderers translate them by the margins.
type Set struct {
	Surface Surface
	Time    Time
	Rows    Band
	// Location is only meaningful when HasLocation is true.
	Location    Linear
	HasLocation bool
}

// Map computes the scales of a task set for a surface. The time domain covers every
// task start and end, the location domain covers every located task.
func Map(tasks []model.Task, surface Surface, opts Options) Set {
	set := Set{Surface: surface}
	w, h := surface.InnerWidth(), surface.InnerHeight()

	ids := make([]string, 0, len(tasks))
	var tMin, tMax time.Time
	var lMin, lMax float64
	for i, t := range tasks {
		ids = append(ids, t.ID)

		lo, hi := t.Start, t.End
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		if i == 0 || lo.Before(tMin) {
			tMin = lo
		}
		if i == 0 || hi.After(tMax) {
			tMax = hi
		}

		if !t.HasLocation() {
			continue
		}
		a, b := min(*t.LocationStart, *t.LocationEnd), max(*t.LocationStart, *t.LocationEnd)
		if !set.HasLocation {
			lMin, lMax = a, b
			set.HasLocation = true
			continue
		}
		lMin, lMax = min(lMin, a), max(lMax, b)
	}

	if len(tasks) == 0 {
		now := opts.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		tMin = model.Day(now)
		tMax = tMin
	}

	set.Time = NewTime(tMin, tMax, 0, w)
	set.Rows = NewBand(ids, 0, h, opts.BandPadding)
	set.Location = NewLinear(lMin, lMax, h, 0)

	return set
}
