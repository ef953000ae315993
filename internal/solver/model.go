// Package solver implements a small pseudo-boolean constraint model with a
// complete depth-first search. Constraints are cardinality bounds over sets
// of boolean variables, which is all the scheduling engine needs: exactly-one
// slot per session and at-most-k occupancy ceilings.
package solver

// Var identifies a boolean decision variable within a Model.
type Var int

// Status is a terminal search outcome.
type Status int

const (
	// StatusFeasible means a satisfying assignment was found.
	StatusFeasible Status = iota
	// StatusInfeasible means the search space was exhausted without one.
	StatusInfeasible
	// StatusUnknown means the search was cut short by deadline or
	// cancellation before reaching a proof either way.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// constraint bounds the number of true variables in vars to [min, max].
type constraint struct {
	vars []Var
	min  int
	max  int
}

// Model accumulates variables and cardinality constraints. It is built once,
// then read-only during search, so independent searches may share it.
type Model struct {
	numVars     int
	fixedFalse  []bool
	constraints []constraint
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar registers a fresh boolean variable.
func (m *Model) NewBoolVar() Var {
	v := Var(m.numVars)
	m.numVars++
	m.fixedFalse = append(m.fixedFalse, false)
	return v
}

// FixFalse pins a variable to false before the search starts.
func (m *Model) FixFalse(v Var) {
	m.fixedFalse[v] = true
}

// AddExactlyOne requires exactly one of vars to be true.
func (m *Model) AddExactlyOne(vars []Var) {
	m.addSum(vars, 1, 1)
}

// AddAtMost requires no more than k of vars to be true.
func (m *Model) AddAtMost(vars []Var, k int) {
	m.addSum(vars, 0, k)
}

func (m *Model) addSum(vars []Var, min, max int) {
	owned := make([]Var, len(vars))
	copy(owned, vars)
	m.constraints = append(m.constraints, constraint{vars: owned, min: min, max: max})
}

// NumVars returns the number of registered variables.
func (m *Model) NumVars() int {
	return m.numVars
}

// NumConstraints returns the number of registered constraints.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// Solution holds a satisfying assignment.
type Solution struct {
	values []bool
}

// Value reports the assigned truth value of v.
func (s *Solution) Value(v Var) bool {
	if s == nil || int(v) >= len(s.values) {
		return false
	}
	return s.values[v]
}
