package filter

import (
	"fmt"
	"strings"
)

// Kind identifies one stage of the chain.
type Kind uint8

const (
	Identity Kind = iota
	Blur
	Grayscale
	Invert

	kindCount
)

// kindNames maps Kind values to their string representation.
var kindNames = [...]string{
	Identity:  "identity",
	Blur:      "blur",
	Grayscale: "grayscale",
	Invert:    "invert",
}

// String returns the lowercase stage name.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind converts a stage name to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("filter: unknown stage %q", s)
}

// Set is a set of enabled stage kinds. The zero value enables nothing
// beyond identity, which always runs.
type Set uint8

// NewSet returns a set containing kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// ParseSet parses a comma separated list of stage names, e.g. "blur,invert".
// An empty string yields the empty set.
func ParseSet(s string) (Set, error) {
	var set Set
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return 0, err
		}
		set = set.With(k)
	}
	return set, nil
}

// Has reports whether k is in the set. Identity is always present.
func (s Set) Has(k Kind) bool {
	if k == Identity {
		return true
	}
	return k < kindCount && s&(1<<k) != 0
}

// With returns s with k added.
func (s Set) With(k Kind) Set {
	if k == Identity || k >= kindCount {
		return s
	}
	return s | 1<<k
}

// Without returns s with k removed.
func (s Set) Without(k Kind) Set {
	return s &^ (1 << k)
}

// Kinds returns the enabled optional stages in chain order.
func (s Set) Kinds() []Kind {
	var out []Kind
	for k := Blur; k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// String formats the set as a comma separated list in chain order.
func (s Set) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
