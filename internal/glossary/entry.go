package glossary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	pkgerrors "github.com/yungbote/protocol-clarity-backend/internal/pkg/errors"
)

// Entry is one glossary record. The set is loaded once per batch run and is
// read-only for the run's duration; the engine never mutates it.
type Entry struct {
	Term               string  `json:"term"`
	Definition         string  `json:"user_friendly"`
	ClinicalDefinition string  `json:"clinical_definition"`
	Category           string  `json:"category"`
	Analogy            string  `json:"analogy,omitempty"`
	WhyItMatters       string  `json:"why_it_matters,omitempty"`
	ExampleSentence    string  `json:"example_sentence,omitempty"`
	ReadingLevel       float64 `json:"reading_level,omitempty"`
	// SourceCount is how many raw records collapsed into this entry during
	// deduplication. Zero means the entry never went through dedupe.
	SourceCount int `json:"source_count,omitempty"`
}

// DisplayDefinition is the text injected into tooltips: the user-friendly
// definition, falling back to the clinical one.
func (e Entry) DisplayDefinition() string {
	if s := strings.TrimSpace(e.Definition); s != "" {
		return s
	}
	return strings.TrimSpace(e.ClinicalDefinition)
}

// Validate enforces the markup wire format: a term must survive inside
// {{term||definition}} unambiguously.
func (e Entry) Validate() error {
	term := strings.TrimSpace(e.Term)
	if term == "" {
		return fmt.Errorf("%w: empty term", pkgerrors.ErrInvalidArgument)
	}
	if strings.ContainsAny(term, "|}") {
		return fmt.Errorf("%w: term %q contains markup delimiter characters", pkgerrors.ErrInvalidArgument, term)
	}
	def := e.DisplayDefinition()
	if def == "" {
		return fmt.Errorf("%w: term %q has no definition", pkgerrors.ErrInvalidArgument, term)
	}
	if strings.Contains(def, "}}") {
		return fmt.Errorf("%w: definition for %q contains '}}'", pkgerrors.ErrInvalidArgument, term)
	}
	return nil
}

// LoadFile reads a glossary JSON array from disk. Earlier glossary exports
// used clinical_term/user_friendly_term/explanation keys; both shapes load.
// Malformed entries are dropped (returned separately), not fatal.
func LoadFile(path string) ([]Entry, []error, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read glossary %s: %w", path, err)
	}

	var rows []struct {
		Entry
		ClinicalTerm     string `json:"clinical_term"`
		UserFriendlyTerm string `json:"user_friendly_term"`
		Explanation      string `json:"explanation"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, nil, fmt.Errorf("parse glossary %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(rows))
	var rejected []error
	for i, row := range rows {
		e := row.Entry
		if e.Term == "" {
			e.Term = row.ClinicalTerm
		}
		if e.Definition == "" {
			e.Definition = row.UserFriendlyTerm
		}
		if e.Definition == "" {
			e.Definition = row.Explanation
		}
		if e.Category == "" {
			e.Category = "general"
		}
		e.Term = strings.TrimSpace(e.Term)
		if err := e.Validate(); err != nil {
			rejected = append(rejected, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, rejected, nil
}
