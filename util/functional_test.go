package util

import (
	"strconv"
	"strings"
	"testing"
)

func TestMappedSlice(t *testing.T) {
	r := []int{123, 44, -4}
	m := MappedSlice(r, func(v int) string { return strconv.Itoa(v) })

	expected := []string{"123", "44", "-4"}
	if len(m) != len(expected) {
		t.Fatal("unexpected result size")
	}
	for i := range m {
		if m[i] != expected[i] {
			t.Fatalf("unexpected value at index %d", i)
		}
	}
}

func TestFilteredSlice(t *testing.T) {
	files := []string{"top.v", "pkg.vhd", "defs.vh", "core.sv"}
	f := FilteredSlice(files, func(s string) bool { return strings.HasSuffix(s, "v") })

	expected := []string{"top.v", "core.sv"}
	if len(f) != len(expected) {
		t.Fatalf("unexpected result %v", f)
	}
	for i := range f {
		if f[i] != expected[i] {
			t.Fatalf("unexpected value at index %d", i)
		}
	}

	if empty := FilteredSlice(files, func(string) bool { return false }); empty == nil || len(empty) != 0 {
		t.Fatal("expected an empty, non-nil slice")
	}
}
