package archive

import (
	"path"
	"path/filepath"
	"strings"
)

// resolve maps a raw entry name to a slash-separated path relative to the
// destination root. ok is false when nothing is left after stripping.
func resolve(name string, strip int) (rel string, ok bool, err error) {
	normalized := strings.ReplaceAll(name, `\`, "/")

	if strings.HasPrefix(normalized, "/") || filepath.VolumeName(normalized) != "" || hasDriveLetter(normalized) {
		return "", false, unsafePath(name, "absolute path")
	}

	var parts []string
	for _, p := range strings.Split(normalized, "/") {
		switch p {
		case "", ".":
			continue
		case "..":
			return "", false, unsafePath(name, "parent directory traversal")
		}
		parts = append(parts, p)
	}

	if len(parts) <= strip {
		return "", false, nil
	}

	rel = path.Join(parts[strip:]...)
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", false, unsafePath(name, "escapes destination root")
	}
	return rel, true, nil
}

func hasDriveLetter(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
