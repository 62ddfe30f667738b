package manifest

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Path addresses a value by its chain of object keys.
type Path []string

// Key is shorthand for a path of literal keys.
func Key(keys ...string) Path { return Path(keys) }

// ParsePath parses a JSONPath selector made only of child segments, e.g.
// "$.scripts.prepare", "scripts.prepare" or "$.scripts['build:css']".
func ParsePath(selector string) (Path, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("empty path")
	}

	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", selector, err)
	}

	var p Path
	for i, frag := range x {
		switch f := frag.(type) {
		case jp.Root:
			if i != 0 {
				return nil, fmt.Errorf("invalid path %q: root must come first", selector)
			}
		case jp.Bracket:
			// Notation marker only.
		case jp.Child:
			p = append(p, string(f))
		default:
			return nil, fmt.Errorf("invalid path %q: only object keys are supported", selector)
		}
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("invalid path %q: no keys", selector)
	}
	return p, nil
}

// String renders p as a JSONPath expression.
func (p Path) String() string {
	x := jp.R()
	for _, key := range p {
		x = x.C(key)
	}
	return x.String()
}

// Equal reports whether p and q name the same key.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// overlaps reports whether one path is a prefix of the other.
func (p Path) overlaps(q Path) bool {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	return p[:n].Equal(q[:n])
}
