package util

import (
	"testing"
)

func TestOrderedMapKeepsInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	for i, k := range []string{"zeta", "alpha", "mid"} {
		if err := m.Insert(k, i); err != nil {
			t.Fatalf("insert %q: %v", k, err)
		}
	}

	expected := []OrderedMapEntry[string, int]{
		{Key: "zeta", Value: 0},
		{Key: "alpha", Value: 1},
		{Key: "mid", Value: 2},
	}

	entries := m.Entries()
	keys := m.Keys()
	values := m.Values()
	if len(entries) != len(expected) || len(keys) != len(expected) || len(values) != len(expected) {
		t.Fatal("unexpected number of entries")
	}
	if m.Len() != len(expected) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(expected))
	}
	for i := range entries {
		if entries[i] != expected[i] {
			t.Fatalf("unexpected entry at index %d", i)
		}
		if keys[i] != expected[i].Key {
			t.Fatalf("unexpected key at index %d", i)
		}
		if values[i] != expected[i].Value {
			t.Fatalf("unexpected value at index %d", i)
		}
	}
}

func TestOverridesForbidden(t *testing.T) {
	m := NewOrderedMap[int, string]()
	if err := m.Insert(1, "hello"); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert(1, "world"); err == nil {
		t.Fatal("expected an error when overriding a key")
	}
	if v, _ := m.Lookup(1); v != "hello" {
		t.Fatalf("value changed to %q", v)
	}
}

func TestZeroValueRefusesOverrides(t *testing.T) {
	var m OrderedMap[string, int]
	if err := m.Insert("a", 1); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert("a", 2); err == nil {
		t.Fatal("expected an error when overriding a key")
	}
	if keys := m.Keys(); len(keys) != 1 {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestLookups(t *testing.T) {
	m := NewOrderedMap[int, string]()
	m.Insert(10, "aint")

	if _, ok := m.Lookup(17); ok {
		t.Fatal("lookup should have failed")
	}
	v, ok := m.Lookup(10)
	if !ok || v != "aint" {
		t.Fatal("unexpected lookup result")
	}
}

func TestZeroValueMap(t *testing.T) {
	var m OrderedMap[string, int]
	if err := m.Insert("a", 1); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Fatal("zero value map should accept inserts")
	}
}

func TestOrderedSlice(t *testing.T) {
	s := []int{10, 3, 523, 77, -95}
	o := OrderedSlice(s)

	expected := []int{-95, 3, 10, 77, 523}
	if len(o) != len(expected) {
		t.Fatal("wrong size")
	}
	for i := range o {
		if o[i] != expected[i] {
			t.Fatalf("wrong element %d", i)
		}
	}
}

func TestSliceOrderedBy(t *testing.T) {
	s := []int{10, 3, 523, 77, -95}
	o := SliceOrderedBy(s, func(v *int) int { return -*v })

	expected := []int{523, 77, 10, 3, -95}
	for i := range o {
		if o[i] != expected[i] {
			t.Fatalf("wrong element %d", i)
		}
	}
}

func TestOrderedEntries(t *testing.T) {
	r := map[string]string{"LUT1": "28", "BUFG": "1", "FDRE": "28"}
	entries := OrderedEntries(r)
	want := []string{"BUFG", "FDRE", "LUT1"}
	for i, e := range entries {
		if e.Key != want[i] || e.Value != r[want[i]] {
			t.Fatalf("unexpected entry %d: %+v", i, e)
		}
	}
}
