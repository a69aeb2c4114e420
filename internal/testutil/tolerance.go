package testutil

import (
	"fmt"
	"testing"
)

// RequireSamplesEqual fails t if got and want differ in length or in any sample.
func RequireSamplesEqual(t *testing.T, got, want []int32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

// RequireSamplesNear fails t if any sample pair differs by more than eps.
func RequireSamplesNear(t *testing.T, got, want []int32, eps int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := int64(got[i]) - int64(want[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > eps {
			t.Fatalf("index %d: got %d, want %d (diff %d > eps %d)", i, got[i], want[i], diff, eps)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []int32) (int64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	var maxDiff int64
	for i := range a {
		d := int64(a[i]) - int64(b[i])
		if d < 0 {
			d = -d
		}
		maxDiff = max(maxDiff, d)
	}
	return maxDiff, nil
}
