package report

import "fmt"

// Kind is an assessment report type.
type Kind string

// Known report kinds.
const (
	Scorecard        Kind = "scorecard"
	CriticalityScore Kind = "criticality_score"
	CodeQL           Kind = "codeql"
)

// AllKinds lists every kind in the order --get-all runs them.
var AllKinds = []Kind{Scorecard, CriticalityScore, CodeQL}

// InvalidKindError is returned by ParseKind for unknown kinds.
type InvalidKindError struct {
	Value string
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid report %s", e.Value)
}

// ParseKind validates s against the known kinds.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", &InvalidKindError{Value: s}
}

// UpdatesVersion reports whether the kind produces a score for the
// version details file.
func (k Kind) UpdatesVersion() bool {
	return k == Scorecard || k == CriticalityScore
}

func (k Kind) String() string { return string(k) }
