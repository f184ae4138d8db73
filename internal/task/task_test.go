package task

import (
	"errors"
	"testing"
	"time"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		wantErr  error
	}{
		{name: "plain text", raw: "buy milk", wantText: "buy milk"},
		{name: "trims whitespace", raw: "  buy milk\t", wantText: "buy milk"},
		{name: "empty", raw: "", wantErr: ErrEmptyTask},
		{name: "whitespace only", raw: "   ", wantErr: ErrEmptyTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			got, err := s.Add(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Add(%q) error: got %v, want %v", tt.raw, err, tt.wantErr)
				}
				if s.Len() != 0 {
					t.Errorf("Len after rejected add: got %d, want 0", s.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(%q) failed: %v", tt.raw, err)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text: got %q, want %q", got.Text, tt.wantText)
			}
			if got.Completed {
				t.Errorf("Completed: got true, want false")
			}
			if s.Len() != 1 {
				t.Errorf("Len: got %d, want 1", s.Len())
			}
		})
	}
}

func TestAddIDsUnique(t *testing.T) {
	s := NewStore()
	// Frozen clock: every call lands in the same millisecond.
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		task, err := s.Add("task")
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddPreservesOrder(t *testing.T) {
	s := NewStore()
	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Add(text); err != nil {
			t.Fatalf("Add(%q) failed: %v", text, err)
		}
	}

	tasks := s.Tasks()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if tasks[i].Text != w {
			t.Errorf("tasks[%d].Text: got %q, want %q", i, tasks[i].Text, w)
		}
	}
}

func TestToggle(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")

	if !s.Toggle(a.ID) {
		t.Fatalf("Toggle(%d): got false, want true", a.ID)
	}
	tasks := s.Tasks()
	if !tasks[0].Completed {
		t.Errorf("toggled task: Completed got false, want true")
	}
	if tasks[1].Completed {
		t.Errorf("other task changed: Completed got true, want false")
	}
	if tasks[1].ID != b.ID {
		t.Errorf("other task id: got %d, want %d", tasks[1].ID, b.ID)
	}

	// Toggling twice restores the original value.
	s.Toggle(a.ID)
	if s.Tasks()[0].Completed {
		t.Errorf("double toggle: Completed got true, want false")
	}
}

func TestToggleMissingIDIsNoop(t *testing.T) {
	s := NewStore()
	s.Add("a")
	before := s.Tasks()

	if s.Toggle(999) {
		t.Errorf("Toggle(999): got true, want false")
	}
	after := s.Tasks()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("collection changed: got %+v, want %+v", after, before)
	}
}

func TestRemove(t *testing.T) {
	s := NewStore()
	a, _ := s.Add("a")
	b, _ := s.Add("b")
	c, _ := s.Add("c")

	if !s.Remove(b.ID) {
		t.Fatalf("Remove(%d): got false, want true", b.ID)
	}
	if s.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", s.Len())
	}
	for _, task := range s.Tasks() {
		if task.ID == b.ID {
			t.Errorf("removed task %d still present", b.ID)
		}
	}
	tasks := s.Tasks()
	if tasks[0].ID != a.ID || tasks[1].ID != c.ID {
		t.Errorf("order after remove: got [%d %d], want [%d %d]",
			tasks[0].ID, tasks[1].ID, a.ID, c.ID)
	}
}

func TestRemoveMissingIDIsNoop(t *testing.T) {
	s := NewStore()
	s.Add("a")

	if s.Remove(999) {
		t.Errorf("Remove(999): got true, want false")
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
}

func TestReplaceReseedsIDs(t *testing.T) {
	s := NewStore()
	s.now = func() time.Time { return time.UnixMilli(100) }

	s.Replace([]Task{
		{ID: 500, Text: "old", Completed: true},
		{ID: 700, Text: "older"},
	})
	if s.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", s.Len())
	}

	// Clock is behind the loaded ids; the fresh id must still be unique.
	added, err := s.Add("new")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID <= 700 {
		t.Errorf("new id: got %d, want > 700", added.ID)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("a")

	tasks := s.Tasks()
	tasks[0].Text = "mutated"
	if s.Tasks()[0].Text != "a" {
		t.Errorf("store text: got %q, want %q", s.Tasks()[0].Text, "a")
	}
}
