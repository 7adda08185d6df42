package metrics

import (
	"sort"

	"github.com/slok/bbschedule/internal/model"
)

const floatTolerance = 1e-9

// CriticalPath returns the ids of the tasks with zero total float using the critical
// path method over finish to start dependencies, ordered by early start. Unknown
// predecessors are ignored and dependency cycles are broken by ignoring the edge that
// closes the cycle.
func CriticalPath(tasks []model.Task) []string {
	if len(tasks) == 0 {
		return nil
	}

	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}

	// Resolve the acyclic predecessor graph and a topological order.
	const (
		white = iota
		grey
		black
	)
	color := make([]int, len(tasks))
	preds := make([][]int, len(tasks))
	order := make([]int, 0, len(tasks))

	var visit func(i int)
	visit = func(i int) {
		color[i] = grey
		for _, dep := range tasks[i].Dependencies {
			p, ok := index[dep]
			if !ok || p == i || color[p] == grey {
				continue
			}
			preds[i] = append(preds[i], p)
			if color[p] == white {
				visit(p)
			}
		}
		color[i] = black
		order = append(order, i)
	}
	for i := range tasks {
		if color[i] == white {
			visit(i)
		}
	}

	succs := make([][]int, len(tasks))
	for i, ps := range preds {
		for _, p := range ps {
			succs[p] = append(succs[p], i)
		}
	}

	// Forward pass.
	dur := make([]float64, len(tasks))
	es := make([]float64, len(tasks))
	ef := make([]float64, len(tasks))
	finish := 0.0
	for _, i := range order {
		dur[i] = Duration(tasks[i])
		for _, p := range preds[i] {
			es[i] = max(es[i], ef[p])
		}
		ef[i] = es[i] + dur[i]
		finish = max(finish, ef[i])
	}

	// Backward pass.
	lf := make([]float64, len(tasks))
	ls := make([]float64, len(tasks))
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		lf[i] = finish
		for _, s := range succs[i] {
			lf[i] = min(lf[i], ls[s])
		}
		ls[i] = lf[i] - dur[i]
	}

	var critical []int
	for i := range tasks {
		if ls[i]-es[i] < floatTolerance {
			critical = append(critical, i)
		}
	}
	sort.SliceStable(critical, func(a, b int) bool {
		return es[critical[a]] < es[critical[b]]
	})

	ids := make([]string, 0, len(critical))
	for _, i := range critical {
		ids = append(ids, tasks[i].ID)
	}
	return ids
}
