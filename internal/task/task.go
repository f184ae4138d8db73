// Package task holds the in-memory task collection and its mutations.
package task

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTask is returned by Add when the text is empty after trimming.
var ErrEmptyTask = errors.New("task text is empty")

// Task is a single entry in the task list.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Store owns the ordered task collection. Insertion order is display order.
// A Store is not safe for concurrent use; all mutations happen from the
// single event loop that drives the UI.
type Store struct {
	tasks  []Task
	lastID int64
	now    func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add trims raw, creates a task with a fresh id and Completed=false, and
// appends it. Returns ErrEmptyTask when the trimmed text is empty.
func (s *Store) Add(raw string) (Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Task{}, ErrEmptyTask
	}

	t := Task{
		ID:   s.nextID(),
		Text: text,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// nextID issues a unique, monotonically increasing id. Ids come from the
// millisecond clock; same-millisecond adds bump past the last issued id.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Toggle flips the completed flag of the first task with the given id.
// A missing id is a no-op, not an error: a stale reference to a deleted
// task is expected and harmless. Reports whether a task was found.
func (s *Store) Toggle(id int64) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			return true
		}
	}
	return false
}

// Remove deletes every task with the given id (expected: at most one).
// Reports whether anything was removed; a missing id is a no-op.
func (s *Store) Remove(id int64) bool {
	kept := s.tasks[:0]
	removed := false
	for _, t := range s.tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	return removed
}

// Tasks returns a copy of the collection. Callers (renderer, persistence)
// only read; the store stays the sole owner of the backing slice.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Replace swaps in a full collection (startup hydration) and re-seeds the
// id source so new ids cannot collide with loaded ones.
func (s *Store) Replace(tasks []Task) {
	s.tasks = make([]Task, len(tasks))
	copy(s.tasks, tasks)
	for _, t := range tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}
