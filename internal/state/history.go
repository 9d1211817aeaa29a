package state

// History is a two-stack undo/redo container. The done stack is the active
// list; Undo moves its top to the undone stack and Redo moves it back.
// Pushing a new entry discards everything undone.
type History[T any] struct {
	done   []T
	undone []T
}

// Push records a new entry and clears the redo stack.
func (h *History[T]) Push(v T) {
	h.done = append(h.done, v)
	h.undone = nil
}

// Undo moves the most recent entry to the redo stack.
func (h *History[T]) Undo() (T, bool) {
	var zero T
	if len(h.done) == 0 {
		return zero, false
	}
	v := h.done[len(h.done)-1]
	h.done[len(h.done)-1] = zero
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, v)
	return v, true
}

// Redo moves the most recently undone entry back to the end of the active list.
func (h *History[T]) Redo() (T, bool) {
	var zero T
	if len(h.undone) == 0 {
		return zero, false
	}
	v := h.undone[len(h.undone)-1]
	h.undone[len(h.undone)-1] = zero
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, v)
	return v, true
}

func (h *History[T]) Done() []T   { return append([]T(nil), h.done...) }
func (h *History[T]) Undone() []T { return append([]T(nil), h.undone...) }

func (h *History[T]) CanUndo() bool { return len(h.done) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.undone) > 0 }

// Clear drops both stacks.
func (h *History[T]) Clear() {
	h.done = nil
	h.undone = nil
}
