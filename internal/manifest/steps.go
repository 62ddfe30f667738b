package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Well-known package.json sections.
const (
	SectionScripts         = "scripts"
	SectionDevDependencies = "devDependencies"
)

// Step is a named, pure edit of a Document. Writes lists every key path the
// step may change; Disjoint uses it to reject step lists whose result would
// depend on their order.
type Step struct {
	Name   string
	Writes []Path
	Fn     func(Document) Document
}

// Apply runs the step against d.
func (s Step) Apply(d Document) Document {
	if s.Fn == nil {
		return d
	}
	return s.Fn(d)
}

// Entry is one key/value pair inserted into a section.
type Entry struct {
	Key   string
	Value string
}

// Apply runs steps in order and returns the final document.
func Apply(d Document, steps ...Step) Document {
	for _, s := range steps {
		d = s.Apply(d)
	}
	return d
}

// Disjoint returns an error when two steps write overlapping key paths.
func Disjoint(steps ...Step) error {
	for i := range steps {
		for j := i + 1; j < len(steps); j++ {
			for _, a := range steps[i].Writes {
				for _, b := range steps[j].Writes {
					if a.overlaps(b) {
						return fmt.Errorf("steps %q and %q both write %s", steps[i].Name, steps[j].Name, a)
					}
				}
			}
		}
	}
	return nil
}

// SetField sets p to a string value. Top-level fields are always set; nested
// fields only when their parent object exists.
func SetField(p Path, value string) Step {
	return Step{
		Name:   "set " + p.String(),
		Writes: []Path{p},
		Fn: func(d Document) Document {
			out, err := d.Set(p, value)
			if err != nil {
				return d
			}
			return out
		},
	}
}

// RemoveField deletes p when present.
func RemoveField(p Path) Step {
	return Step{
		Name:   "remove " + p.String(),
		Writes: []Path{p},
		Fn: func(d Document) Document {
			return d.Delete(p)
		},
	}
}

// RemoveEntry deletes key from section when both are present.
func RemoveEntry(section, key string) Step {
	return RemoveField(Key(section, key))
}

// InsertEntries sets each entry inside section. When the section is absent
// or not an object the step does nothing.
func InsertEntries(section string, entries ...Entry) Step {
	writes := make([]Path, len(entries))
	for i, e := range entries {
		writes[i] = Key(section, e.Key)
	}
	return Step{
		Name:   fmt.Sprintf("insert %d %s entries", len(entries), section),
		Writes: writes,
		Fn: func(d Document) Document {
			sec, ok := d.Get(Key(section))
			if !ok {
				return d
			}
			if _, isObj := sec.(Document); !isObj {
				return d
			}
			for _, e := range entries {
				out, err := d.Set(Key(section, e.Key), e.Value)
				if err != nil {
					return d
				}
				d = out
			}
			return d
		},
	}
}

// DevDependencies builds an InsertEntries step for devDependencies after
// checking that every value is a valid version range.
func DevDependencies(entries ...Entry) (Step, error) {
	for _, e := range entries {
		if e.Key == "" {
			return Step{}, fmt.Errorf("dependency name must not be empty")
		}
		if _, err := semver.NewConstraint(e.Value); err != nil {
			return Step{}, fmt.Errorf("dependency %s: invalid version range %q: %w", e.Key, e.Value, err)
		}
	}
	return InsertEntries(SectionDevDependencies, entries...), nil
}

// CustomizeSteps returns the edits that detach a freshly extracted theme
// from its upstream project: a fixed display name, no repository reference
// and no prepare hook.
func CustomizeSteps(displayName string) []Step {
	return []Step{
		SetField(Key("name"), displayName),
		RemoveField(Key("repository")),
		RemoveEntry(SectionScripts, "prepare"),
	}
}
