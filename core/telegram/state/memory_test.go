package state

import (
	"sync"
	"testing"
)

func TestMemoryManagerEnterReplacesTempData(t *testing.T) {
	m := NewMemoryManager()

	m.Enter(1, State("first"))
	m.SetTemp(1, "leftover", "value")

	m.Enter(1, State("second"))
	if got := m.GetState(1); got != State("second") {
		t.Fatalf("state = %s, expected second", got)
	}
	if _, ok := m.GetTemp(1, "leftover"); ok {
		t.Fatal("temp data survived Enter")
	}
}

func TestMemoryManagerUserIsolation(t *testing.T) {
	m := NewMemoryManager()

	m.Enter(1, State("one"))
	m.SetTemp(1, "key", "a")

	if m.InProgress(2) {
		t.Fatal("user 2 should be idle")
	}
	if _, ok := m.GetTemp(2, "key"); ok {
		t.Fatal("user 2 should have no temp data")
	}

	m.Clear(2)
	if !m.InProgress(1) {
		t.Fatal("clearing user 2 touched user 1")
	}
}

func TestMemoryManagerGetTempInt64(t *testing.T) {
	m := NewMemoryManager()
	m.SetTemp(1, "id", int64(42))
	m.SetTemp(1, "name", "x")

	if v, ok := m.GetTempInt64(1, "id"); !ok || v != 42 {
		t.Fatalf("GetTempInt64 = %d, %v", v, ok)
	}
	if _, ok := m.GetTempInt64(1, "name"); ok {
		t.Fatal("expected type mismatch to report not found")
	}
	if _, ok := m.GetTempInt64(1, "missing"); ok {
		t.Fatal("expected missing key to report not found")
	}
}

func TestMemoryManagerUpdateTemp(t *testing.T) {
	m := NewMemoryManager()

	m.UpdateTemp(1, "n", func(old interface{}) interface{} {
		if old != nil {
			t.Fatalf("expected nil for missing key, got %v", old)
		}
		return 1
	})

	v, ok := m.GetTemp(1, "n")
	if !ok || v.(int) != 1 {
		t.Fatalf("GetTemp = %v, %v", v, ok)
	}
}

func TestMemoryManagerUpdateTempConcurrent(t *testing.T) {
	m := NewMemoryManager()

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.UpdateTemp(1, "n", func(old interface{}) interface{} {
				n, _ := old.(int)
				return n + 1
			})
		}()
	}
	wg.Wait()

	v, ok := m.GetTemp(1, "n")
	if !ok {
		t.Fatal("expected value")
	}
	if v.(int) != workers {
		t.Fatalf("n = %d, expected %d (lost update)", v.(int), workers)
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager()
	m.Enter(7, State("busy"))
	m.Clear(7)

	if m.InProgress(7) {
		t.Fatal("expected idle after Clear")
	}
	if got := m.GetState(7); got != StateIdle {
		t.Fatalf("state = %s, expected idle", got)
	}
}

func TestStash(t *testing.T) {
	s := NewStash()

	values := []string{"a", "b"}
	s.Put(1, values)
	values[0] = "mutated"

	got, ok := s.Get(1)
	if !ok {
		t.Fatal("expected entry for user 1")
	}
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("stash entry mutated: %v", got)
	}

	if _, ok := s.Get(2); ok {
		t.Fatal("unexpected entry for user 2")
	}

	s.Clear(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("entry survived Clear")
	}
}
