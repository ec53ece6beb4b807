package nlu_test

import (
	"testing"

	"github.com/kabalen/tanong/internal/nlu"
)

func TestDistance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"schedule", "shcedule", 2},
		{"same", "same", 0},
	}
	for _, tc := range tests {
		if got := nlu.Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"", "a", "schedule", "maraming salamat"} {
		if got := nlu.Similarity(s, s); got != 1 {
			t.Errorf("Similarity(%q, %q) = %v, want 1", s, s, got)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	t.Parallel()
	pairs := [][2]string{
		{"sched", "schedule"},
		{"kitten", "sitting"},
		{"", "abc"},
		{"presidnt", "president"},
	}
	for _, p := range pairs {
		ab := nlu.Similarity(p[0], p[1])
		ba := nlu.Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Range(t *testing.T) {
	t.Parallel()
	// Completely different equal-length strings score zero.
	if got := nlu.Similarity("abc", "xyz"); got != 0 {
		t.Errorf("Similarity(abc, xyz) = %v, want 0", got)
	}
	// One substitution in eight characters.
	got := nlu.Similarity("schedule", "schedulx")
	if got != 1-1.0/8 {
		t.Errorf("Similarity = %v, want %v", got, 1-1.0/8)
	}
}

func TestFuzzyContains_Substring(t *testing.T) {
	t.Parallel()
	if !nlu.FuzzyContains("view my class schedule", "schedule", 0.99) {
		t.Error("literal substring should match regardless of threshold")
	}
	if !nlu.FuzzyContains("View My SCHEDULE", "schedule", 0.99) {
		t.Error("substring match should be case-insensitive")
	}
}

func TestFuzzyContains_TokenSimilarity(t *testing.T) {
	t.Parallel()
	// "sched" vs "schedule": 1 - 3/8 = 0.625.
	if !nlu.FuzzyContains("sched", "schedule", 0.55) {
		t.Error("token within threshold should match")
	}
	if nlu.FuzzyContains("sched", "schedule", 0.7) {
		t.Error("token below threshold should not match")
	}
	if nlu.FuzzyContains("lunch menu", "schedule", 0.55) {
		t.Error("unrelated tokens should not match")
	}
}
