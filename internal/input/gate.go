package input

import "github.com/iamasit07/dropfour/internal/domain"

type GateState string

const (
	GateIdle       GateState = "idle"
	GateDragging   GateState = "dragging"
	GateCommitting GateState = "committing"
)

const (
	ErrInvalidGeometry domain.Error = "invalid board geometry"
	ErrGestureBlocked  domain.Error = "a drop is still in flight"
	ErrNotDragging     domain.Error = "no drag in progress"
	ErrNoDrag          domain.Error = "press released without a drag"
)

// Gate serialises gestures: a press-and-hold starts a drag, moves update
// the hovered column, release hands one column to the engine and blocks
// every further gesture until Complete is called.
type Gate struct {
	mapper *Mapper
	state  GateState
	column int
	x      float64
	moved  bool
}

func NewGate(m *Mapper) *Gate {
	return &Gate{mapper: m, state: GateIdle, column: -1}
}

func (g *Gate) State() GateState {
	return g.state
}

// Column is the hovered column while dragging and the committed one while committing.
func (g *Gate) Column() int {
	return g.column
}

// X is the clamped chip position of the current drag.
func (g *Gate) X() float64 {
	return g.x
}

func (g *Gate) Begin(x float64) (int, error) {
	// a second press while dragging restarts the drag
	if g.state == GateCommitting {
		return -1, ErrGestureBlocked
	}
	g.state = GateDragging
	g.moved = false
	g.track(x)
	return g.column, nil
}

func (g *Gate) Move(x float64) (int, error) {
	switch g.state {
	case GateCommitting:
		return -1, ErrGestureBlocked
	case GateIdle:
		return -1, ErrNotDragging
	}
	g.moved = true
	g.track(x)
	return g.column, nil
}

// End releases the chip. A release straight after the press, with no drag
// in between, is dropped and the gate goes back to idle.
func (g *Gate) End() (int, error) {
	switch g.state {
	case GateCommitting:
		return -1, ErrGestureBlocked
	case GateIdle:
		return -1, ErrNotDragging
	}
	if !g.moved {
		g.reset()
		return -1, ErrNoDrag
	}
	g.state = GateCommitting
	return g.column, nil
}

func (g *Gate) Cancel() error {
	if g.state == GateCommitting {
		return ErrGestureBlocked
	}
	g.reset()
	return nil
}

// Complete unblocks the gate once the drop and its animation have resolved.
func (g *Gate) Complete() {
	if g.state == GateCommitting {
		g.reset()
	}
}

// Hold blocks the gate for a drop that did not come from a gesture,
// such as a bot move, until Complete is called.
func (g *Gate) Hold(col int) error {
	if g.state != GateIdle {
		return ErrGestureBlocked
	}
	g.state = GateCommitting
	g.column = col
	return nil
}

// Force puts the gate back to idle regardless of state, for a new game.
func (g *Gate) Force() {
	g.reset()
}

func (g *Gate) track(x float64) {
	g.x = g.mapper.ClampX(x)
	g.column = g.mapper.ResolveColumn(x)
}

func (g *Gate) reset() {
	g.state = GateIdle
	g.column = -1
	g.moved = false
	g.x = 0
}
