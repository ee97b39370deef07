package state

// History holds the committed strokes, oldest first, and the undo buffer,
// most recently undone last. Every stroke lives in exactly one of the two.
// History is not safe for concurrent use; the owner serializes access.
type History struct {
	committed []Stroke
	undone    []Stroke
}

func NewHistory() *History {
	return &History{
		committed: make([]Stroke, 0, 64),
		undone:    make([]Stroke, 0, 16),
	}
}

// Commit pushes s onto the history. Any undone strokes are discarded for good.
func (h *History) Commit(s Stroke) {
	h.committed = append(h.committed, s)
	h.undone = drop(h.undone)
}

// Undo moves the most recent stroke to the undo buffer.
// It reports false and changes nothing when the history is empty.
func (h *History) Undo() (Stroke, bool) {
	s, ok := pop(&h.committed)
	if !ok {
		return Stroke{}, false
	}
	h.undone = append(h.undone, s)
	return s, true
}

// Redo moves the most recently undone stroke back onto the history.
// It reports false and changes nothing when the undo buffer is empty.
func (h *History) Redo() (Stroke, bool) {
	s, ok := pop(&h.undone)
	if !ok {
		return Stroke{}, false
	}
	h.committed = append(h.committed, s)
	return s, true
}

// Reset empties both stacks. It cannot be undone.
func (h *History) Reset() {
	h.committed = drop(h.committed)
	h.undone = drop(h.undone)
}

func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }
func (h *History) Len() int { return len(h.committed) }
func (h *History) UndoLen() int { return len(h.undone) }

// Strokes returns the committed strokes in commit order.
func (h *History) Strokes() []Stroke {
	out := make([]Stroke, len(h.committed))
	copy(out, h.committed)
	return out
}

// Undone returns the undo buffer, most recently undone last.
func (h *History) Undone() []Stroke {
	out := make([]Stroke, len(h.undone))
	copy(out, h.undone)
	return out
}

func pop(stack *[]Stroke) (Stroke, bool) {
	n := len(*stack)
	if n == 0 {
		return Stroke{}, false
	}
	s := (*stack)[n-1]
	(*stack)[n-1] = Stroke{}
	*stack = (*stack)[:n-1]
	return s, true
}

func drop(stack []Stroke) []Stroke {
	clear(stack)
	return stack[:0]
}
