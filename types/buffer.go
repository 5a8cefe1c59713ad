package types

// Transition is one environment step as stored for training. It is owned by
// the buffer from Append until the next drain.
type Transition struct {
	State   FeatureVector
	Action  Action
	Reward  float64
	LogProb float64
	Value   float64
	Done    bool
}

// TrajectoryBuffer accumulates transitions for one training batch in
// insertion order. Order must be preserved: advantage estimation runs a
// backward recursion over it.
type TrajectoryBuffer struct {
	transitions []Transition
}

func NewTrajectoryBuffer() *TrajectoryBuffer {
	return &TrajectoryBuffer{
		transitions: make([]Transition, 0),
	}
}

func (b *TrajectoryBuffer) Append(t Transition) {
	b.transitions = append(b.transitions, t)
}

func (b *TrajectoryBuffer) Len() int {
	return len(b.transitions)
}

// Transitions returns the buffered transitions in insertion order. The slice
// is only valid until the next Drain.
func (b *TrajectoryBuffer) Transitions() []Transition {
	return b.transitions
}

// Drain returns all buffered transitions and resets the buffer to empty.
func (b *TrajectoryBuffer) Drain() []Transition {
	out := b.transitions
	b.transitions = make([]Transition, 0)
	return out
}

// Merge appends all transitions of other, preserving other's internal order.
func (b *TrajectoryBuffer) Merge(other *TrajectoryBuffer) {
	b.transitions = append(b.transitions, other.transitions...)
}
