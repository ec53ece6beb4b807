package nlu_test

import (
	"slices"
	"testing"

	"github.com/kabalen/tanong/internal/lexicon"
	"github.com/kabalen/tanong/internal/nlu"
)

func TestExtract(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	tests := []struct {
		name string
		in   string
		typ  lexicon.EntityType
		want []string
	}{
		{"room number", "where is Room 204", lexicon.EntityRoom, []string{"room 204"}},
		{"abbreviated room", "is rm. 12b free", lexicon.EntityRoom, []string{"rm. 12b"}},
		{"day english", "my schedule tomorrow", lexicon.EntityDay, []string{"tomorrow"}},
		{"day tagalog", "may event ba bukas", lexicon.EntityDay, []string{"bukas"}},
		{"clock time", "vacant rooms at 3:00 pm", lexicon.EntityTime, []string{"3:00 pm"}},
		{"organization code", "officers of JPCS", lexicon.EntityOrganization, []string{"jpcs"}},
		{"position", "who is the Vice  President", lexicon.EntityPosition, []string{"vice  president"}},
		{"subject", "programming schedule", lexicon.EntitySubject, []string{"programming"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bag := e.Extract(tc.in)
			if !slices.Equal(bag[tc.typ], tc.want) {
				t.Errorf("Extract(%q)[%s] = %v, want %v", tc.in, tc.typ, bag[tc.typ], tc.want)
			}
		})
	}
}

func TestExtract_DeduplicatesCaseInsensitively(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	bag := e.Extract("Room 204 or room 204 or ROOM 204")
	if got := bag[lexicon.EntityRoom]; !slices.Equal(got, []string{"room 204"}) {
		t.Errorf("rooms = %v, want single deduplicated match", got)
	}
}

func TestExtract_AbsentTypesOmitted(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	bag := e.Extract("hello")
	if len(bag) != 0 {
		t.Errorf("Extract(hello) = %v, want empty bag", bag)
	}
}

func TestOrganization_AliasResolution(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	tests := []struct {
		in       string
		wantCode string
		wantOK   bool
	}{
		{"who runs the student council", "CSC", true},
		{"tell me about csc", "CSC", true},
		{"officers ng JPIA", "JPIA", true},
		{"the accounting society officers", "JPIA", true},
		{"nothing relevant here", "", false},
		// Alias must sit on word boundaries: "tec" inside "technology"
		// is not the Teacher Education Circle.
		{"technology events", "", false},
	}
	for _, tc := range tests {
		org, ok := e.Organization(tc.in)
		if ok != tc.wantOK || org.Code != tc.wantCode {
			t.Errorf("Organization(%q) = (%q, %v), want (%q, %v)", tc.in, org.Code, ok, tc.wantCode, tc.wantOK)
		}
	}
}

func TestPosition_LongestKeywordWins(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	// "vice president" must resolve before its "president" suffix.
	id, ok := e.Position("who is the vice president of csc")
	if !ok || id != "vice-president" {
		t.Errorf("Position = (%q, %v), want (vice-president, true)", id, ok)
	}

	id, ok = e.Position("sino ang kalihim")
	if !ok || id != "secretary" {
		t.Errorf("Position = (%q, %v), want (secretary, true)", id, ok)
	}

	if _, ok := e.Position("no role here"); ok {
		t.Error("Position matched text without a position keyword")
	}
}

func TestCommittee_Resolution(t *testing.T) {
	t.Parallel()
	e := nlu.NewExtractor(lexicon.Default())

	id, ok := e.Committee("who are in the events committee of jpcs")
	if !ok || id != "events" {
		t.Errorf("Committee = (%q, %v), want (events, true)", id, ok)
	}
	id, ok = e.Committee("creatives ng hms")
	if !ok || id != "publicity" {
		t.Errorf("Committee = (%q, %v), want (publicity, true)", id, ok)
	}
}

func TestEntityBag_Merge(t *testing.T) {
	t.Parallel()
	older := nlu.EntityBag{
		lexicon.EntityRoom: {"room 101"},
		lexicon.EntityDay:  {"monday"},
	}
	newer := nlu.EntityBag{
		lexicon.EntityRoom: {"room 204"},
	}

	merged := older.Merge(newer)

	if !slices.Equal(merged[lexicon.EntityRoom], []string{"room 204"}) {
		t.Errorf("merged rooms = %v, newer values should win", merged[lexicon.EntityRoom])
	}
	if !slices.Equal(merged[lexicon.EntityDay], []string{"monday"}) {
		t.Errorf("merged days = %v, older values should carry over", merged[lexicon.EntityDay])
	}
	// The inputs stay untouched.
	if !slices.Equal(older[lexicon.EntityRoom], []string{"room 101"}) {
		t.Error("Merge mutated the older bag")
	}
}
