package lexicon_test

import (
	"strings"
	"testing"

	"github.com/kabalen/tanong/internal/lexicon"
)

func TestLoadOverlayFromReader_RejectsUnknownFields(t *testing.T) {
	t.Parallel()
	yaml := `
intents:
  - name: EVENTS
    patterns: ["intrams"]
    weight: 1.0
no_such_table: {}
`
	_, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestApply_AppendsPatternsToExistingIntent(t *testing.T) {
	t.Parallel()
	yaml := `
intents:
  - name: EVENTS
    patterns: ["foundation week", "intrams"]
    weight: 1.0
`
	ov, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadOverlayFromReader: %v", err)
	}

	lex, err := ov.Apply(lexicon.Default())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var events *lexicon.IntentDefinition
	for i := range lex.Intents {
		if lex.Intents[i].Name == lexicon.IntentEvents {
			events = &lex.Intents[i]
			break
		}
	}
	if events == nil {
		t.Fatal("EVENTS intent missing after overlay")
	}
	joined := strings.Join(events.Patterns, "|")
	if !strings.Contains(joined, "intrams") || !strings.Contains(joined, "foundation week") {
		t.Errorf("overlay patterns not appended, got: %v", events.Patterns)
	}
	// Built-in patterns must survive the merge.
	if !strings.Contains(joined, "upcoming events") {
		t.Errorf("built-in patterns lost, got: %v", events.Patterns)
	}
}

func TestApply_AddsNewIntent(t *testing.T) {
	t.Parallel()
	yaml := `
intents:
  - name: CAFETERIA_MENU
    patterns: ["what's for lunch", "cafeteria menu"]
    weight: 0.9
`
	ov, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadOverlayFromReader: %v", err)
	}
	lex, err := ov.Apply(lexicon.Default())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	found := false
	for _, def := range lex.Intents {
		if def.Name == "CAFETERIA_MENU" {
			found = true
		}
	}
	if !found {
		t.Error("new overlay intent not added")
	}
}

func TestApply_MergesTables(t *testing.T) {
	t.Parallel()
	yaml := `
typos:
  anaunsment: announcement
fillers: ["ehh"]
org_aliases:
  - alias: "math club"
    code: MATHSOC
    display_name: "Mathematics Society"
positions:
  fin sec: treasurer
`
	ov, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadOverlayFromReader: %v", err)
	}
	lex, err := ov.Apply(lexicon.Default())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if lex.Typos["anaunsment"] != "announcement" {
		t.Error("overlay typo not merged")
	}
	// Built-in typo must survive.
	if lex.Typos["shcedule"] != "schedule" {
		t.Error("built-in typo lost in merge")
	}
	if _, ok := lex.Fillers["ehh"]; !ok {
		t.Error("overlay filler not merged")
	}
	org, ok := lex.OrgAliases["math club"]
	if !ok || org.Code != "MATHSOC" {
		t.Errorf("overlay org alias not merged, got %+v ok=%v", org, ok)
	}
	if lex.Positions["fin sec"] != "treasurer" {
		t.Error("overlay position not merged")
	}
}

func TestApply_InvalidOverlayRejected(t *testing.T) {
	t.Parallel()
	yaml := `
intents:
  - name: BROKEN
    patterns: []
    weight: 1.0
`
	ov, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadOverlayFromReader: %v", err)
	}
	if _, err := ov.Apply(lexicon.Default()); err == nil {
		t.Fatal("expected validation error for intent without patterns, got nil")
	}
}

func TestApply_DoesNotMutateBase(t *testing.T) {
	t.Parallel()
	base := lexicon.Default()
	baseTypos := len(base.Typos)

	yaml := "typos:\n  zzz: schedule\n"
	ov, err := lexicon.LoadOverlayFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadOverlayFromReader: %v", err)
	}
	if _, err := ov.Apply(base); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(base.Typos) != baseTypos {
		t.Errorf("Apply mutated base typo table: %d -> %d entries", baseTypos, len(base.Typos))
	}
}
