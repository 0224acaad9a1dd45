package annotate

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/yungbote/protocol-clarity-backend/internal/pkg/errors"
)

var nestedRE = regexp.MustCompile(`\{\{[^}]*\{\{`)

// Validate certifies that annotated text is structurally sound against its
// pre-injection original. Checks short-circuit in order: nesting, delimiter
// balance, the round-trip invariant, markdown marker balance. Any failure
// wraps ErrValidationFailed with the first reason found; text that fails is
// never allowed to replace the original.
func Validate(original, annotated string) error {
	if nestedRE.MatchString(annotated) {
		return fmt.Errorf("%w: nested tooltips detected", pkgerrors.ErrValidationFailed)
	}

	open := strings.Count(annotated, "{{")
	closed := strings.Count(annotated, "}}")
	if open != closed {
		return fmt.Errorf("%w: unbalanced tooltips: %d open, %d close", pkgerrors.ErrValidationFailed, open, closed)
	}

	// Round-trip invariant: stripping markup must reproduce the original,
	// allowing only surrounding-whitespace differences.
	stripped := StripMarkup(annotated)
	if stripped != original && strings.TrimSpace(stripped) != strings.TrimSpace(original) {
		return fmt.Errorf("%w: original content altered", pkgerrors.ErrValidationFailed)
	}

	// Coarse proxy for "did injection break existing markdown formatting":
	// every paired emphasis marker must occur an even number of times.
	for _, marker := range []string{"**", "*", "__", "_"} {
		if strings.Count(annotated, marker)%2 != 0 {
			return fmt.Errorf("%w: unbalanced markdown marker: %s", pkgerrors.ErrValidationFailed, marker)
		}
	}

	return nil
}
