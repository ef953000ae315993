package solver

import (
	"context"
	"math/rand"
)

// Options tune the search. Workers > 1 runs a portfolio of independent
// searches with randomised branching; the first definitive outcome wins.
type Options struct {
	Workers int
}

const deadlineCheckInterval = 256

// Solve runs a complete search over the model. It returns StatusUnknown when
// ctx is cancelled or its deadline passes before a proof is reached.
func (m *Model) Solve(ctx context.Context, opts Options) (Status, *Solution) {
	if opts.Workers <= 1 {
		s := newSearch(m, nil)
		return s.run(ctx)
	}

	type outcome struct {
		status   Status
		solution *Solution
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan outcome, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		var rng *rand.Rand
		if i > 0 {
			rng = rand.New(rand.NewSource(int64(i)))
		}
		go func(rng *rand.Rand) {
			s := newSearch(m, rng)
			status, solution := s.run(searchCtx)
			results <- outcome{status: status, solution: solution}
		}(rng)
	}

	for i := 0; i < opts.Workers; i++ {
		res := <-results
		if res.status != StatusUnknown {
			cancel()
			// Drain remaining workers so none leak past return.
			for j := i + 1; j < opts.Workers; j++ {
				<-results
			}
			return res.status, res.solution
		}
	}
	return StatusUnknown, nil
}

type search struct {
	model *Model
	rng   *rand.Rand

	// watch[v] lists indices of constraints mentioning v.
	watch [][]int

	assign    []int8 // -1 unassigned, 0 false, 1 true
	countTrue []int
	countFree []int
	trail     []Var
	nodes     int
}

func newSearch(m *Model, rng *rand.Rand) *search {
	s := &search{
		model:     m,
		rng:       rng,
		watch:     make([][]int, m.numVars),
		assign:    make([]int8, m.numVars),
		countTrue: make([]int, len(m.constraints)),
		countFree: make([]int, len(m.constraints)),
	}
	for i := range s.assign {
		s.assign[i] = -1
	}
	for ci, c := range m.constraints {
		s.countFree[ci] = len(c.vars)
		for _, v := range c.vars {
			s.watch[v] = append(s.watch[v], ci)
		}
	}
	return s
}

func (s *search) run(ctx context.Context) (Status, *Solution) {
	if ctx.Err() != nil {
		return StatusUnknown, nil
	}

	// A constraint can be unsatisfiable before any branching, e.g. an
	// exactly-one over an empty variable set.
	for ci, c := range s.model.constraints {
		if s.countTrue[ci]+s.countFree[ci] < c.min {
			return StatusInfeasible, nil
		}
	}

	for v, fixed := range s.model.fixedFalse {
		if fixed && s.assign[v] == -1 {
			if !s.propagate(Var(v), 0) {
				return StatusInfeasible, nil
			}
		}
	}

	return s.dfs(ctx)
}

func (s *search) dfs(ctx context.Context) (Status, *Solution) {
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 {
		if ctx.Err() != nil {
			return StatusUnknown, nil
		}
	}

	branch := s.pickBranchVar()
	if branch < 0 {
		return StatusFeasible, s.extract()
	}

	values := [2]int8{1, 0}
	if s.rng != nil && s.rng.Intn(2) == 0 {
		values = [2]int8{0, 1}
	}

	mark := len(s.trail)
	for _, val := range values {
		if s.propagate(branch, val) {
			status, solution := s.dfs(ctx)
			if status != StatusInfeasible {
				return status, solution
			}
		}
		s.undo(mark)
	}
	return StatusInfeasible, nil
}

// pickBranchVar selects a free variable from the tightest unsatisfied
// lower-bound constraint. A negative return means every lower bound is met,
// at which point the remaining free variables can all be false.
func (s *search) pickBranchVar() Var {
	bestConstraint := -1
	bestFree := 0
	for ci, c := range s.model.constraints {
		if s.countTrue[ci] >= c.min {
			continue
		}
		if bestConstraint == -1 || s.countFree[ci] < bestFree {
			bestConstraint = ci
			bestFree = s.countFree[ci]
		}
	}
	if bestConstraint == -1 {
		return -1
	}

	free := make([]Var, 0, bestFree)
	for _, v := range s.model.constraints[bestConstraint].vars {
		if s.assign[v] == -1 {
			free = append(free, v)
		}
	}
	if s.rng != nil {
		return free[s.rng.Intn(len(free))]
	}
	return free[0]
}

type pending struct {
	v   Var
	val int8
}

// propagate assigns v and chases all implied assignments. It returns false
// on conflict, leaving the trail for the caller to undo.
func (s *search) propagate(v Var, val int8) bool {
	queue := []pending{{v: v, val: val}}
	for len(queue) > 0 {
		next := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		current := s.assign[next.v]
		if current != -1 {
			if current != next.val {
				return false
			}
			continue
		}
		// A pinned variable can be the last free one in an exactly-one sum,
		// in which case the lower bound tries to force it true. That is a
		// conflict, not an assignment.
		if next.val == 1 && s.model.fixedFalse[next.v] {
			return false
		}

		s.assign[next.v] = next.val
		s.trail = append(s.trail, next.v)
		for _, ci := range s.watch[next.v] {
			s.countFree[ci]--
			if next.val == 1 {
				s.countTrue[ci]++
			}
		}

		for _, ci := range s.watch[next.v] {
			c := &s.model.constraints[ci]
			switch {
			case s.countTrue[ci] > c.max:
				return false
			case s.countTrue[ci]+s.countFree[ci] < c.min:
				return false
			case s.countTrue[ci] == c.max && s.countFree[ci] > 0:
				for _, w := range c.vars {
					if s.assign[w] == -1 {
						queue = append(queue, pending{v: w, val: 0})
					}
				}
			case s.countTrue[ci]+s.countFree[ci] == c.min && s.countFree[ci] > 0:
				for _, w := range c.vars {
					if s.assign[w] == -1 {
						queue = append(queue, pending{v: w, val: 1})
					}
				}
			}
		}
	}
	return true
}

func (s *search) undo(mark int) {
	for len(s.trail) > mark {
		v := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		val := s.assign[v]
		for _, ci := range s.watch[v] {
			s.countFree[ci]++
			if val == 1 {
				s.countTrue[ci]--
			}
		}
		s.assign[v] = -1
	}
}

// extract snapshots the assignment. Unassigned variables only appear in
// upper-bound constraints at this point, so false is always safe for them.
func (s *search) extract() *Solution {
	values := make([]bool, len(s.assign))
	for v, val := range s.assign {
		values[v] = val == 1
	}
	return &Solution{values: values}
}
