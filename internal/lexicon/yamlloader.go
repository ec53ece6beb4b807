package lexicon

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Overlay is the top-level structure of a lexicon overlay YAML file.
// Campus staff use it to extend the built-in tables without a rebuild:
// new intent patterns, local slang typos, and newly chartered organizations.
//
// Example:
//
//	intents:
//	  - name: EVENTS
//	    patterns: ["foundation week", "intrams"]
//	    weight: 1.0
//	typos:
//	  anaunsment: announcement
//	org_aliases:
//	  - alias: "math club"
//	    code: MATHSOC
//	    display_name: "Mathematics Society"
type Overlay struct {
	Intents    []IntentDefinition `yaml:"intents"`
	Typos      map[string]string  `yaml:"typos"`
	Fillers    []string           `yaml:"fillers"`
	Positive   []string           `yaml:"positive"`
	Negative   []string           `yaml:"negative"`
	OrgAliases []OrgAliasEntry    `yaml:"org_aliases"`
	Positions  map[string]string  `yaml:"positions"`
	Committees map[string]string  `yaml:"committees"`
}

// OrgAliasEntry is one overlay row of the organization alias table.
type OrgAliasEntry struct {
	Alias       string `yaml:"alias"`
	Code        string `yaml:"code"`
	DisplayName string `yaml:"display_name"`
}

// LoadOverlay reads and parses a lexicon overlay YAML file from disk.
func LoadOverlay(path string) (*Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open overlay %q: %w", path, err)
	}
	defer f.Close()

	ov, err := LoadOverlayFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon: parse overlay %q: %w", path, err)
	}
	return ov, nil
}

// LoadOverlayFromReader parses overlay YAML from r. The reader is consumed
// entirely; the caller is responsible for closing it.
func LoadOverlayFromReader(r io.Reader) (*Overlay, error) {
	var ov Overlay
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&ov); err != nil {
		return nil, fmt.Errorf("lexicon: decode overlay yaml: %w", err)
	}
	return &ov, nil
}

// Apply merges the overlay into base and returns a new validated Lexicon.
// base is never modified. Overlay intents with a name that already exists
// have their patterns appended to the existing definition; new names are
// appended to the table. Map entries overwrite on key collision.
func (ov *Overlay) Apply(base *Lexicon) (*Lexicon, error) {
	intents := slices.Clone(base.Intents)
	for _, def := range ov.Intents {
		idx := slices.IndexFunc(intents, func(d IntentDefinition) bool {
			return d.Name == def.Name
		})
		if idx >= 0 {
			merged := intents[idx]
			merged.Patterns = append(slices.Clone(merged.Patterns), def.Patterns...)
			if def.Weight > 0 {
				merged.Weight = def.Weight
			}
			intents[idx] = merged
			continue
		}
		intents = append(intents, def)
	}

	typos := maps.Clone(base.Typos)
	maps.Copy(typos, ov.Typos)

	fillers := maps.Clone(base.Fillers)
	for _, w := range ov.Fillers {
		fillers[w] = struct{}{}
	}

	aliases := maps.Clone(base.OrgAliases)
	for _, e := range ov.OrgAliases {
		if e.Alias == "" || e.Code == "" {
			return nil, fmt.Errorf("lexicon: overlay org alias %q needs both alias and code", e.Alias)
		}
		aliases[e.Alias] = Organization{Code: e.Code, DisplayName: e.DisplayName}
	}

	positions := maps.Clone(base.Positions)
	maps.Copy(positions, ov.Positions)

	committees := maps.Clone(base.Committees)
	maps.Copy(committees, ov.Committees)

	return New(intents, Tables{
		Typos:          typos,
		Fillers:        fillers,
		EntityPatterns: base.EntityPatterns,
		Positive:       append(slices.Clone(base.Positive), ov.Positive...),
		Negative:       append(slices.Clone(base.Negative), ov.Negative...),
		OrgAliases:     aliases,
		Positions:      positions,
		Committees:     committees,
	})
}
