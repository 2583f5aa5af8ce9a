package camels

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// escapeGlob quotes doublestar metacharacters so s is matched literally.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// findBasinFile searches dir recursively for a file whose base name matches
// pattern and returns its path within fsys. Exactly one match is required.
func findBasinFile(fsys fs.FS, dir, basin, pattern string) (string, error) {
	if basin == "" {
		return "", fmt.Errorf("%w: empty basin id", ErrFileNotFound)
	}

	glob := path.Join(escapeGlob(dir), "**", pattern)
	matches, err := doublestar.Glob(fsys, glob, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("search %s: %w", dir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no file for basin %s under %s", ErrFileNotFound, basin, dir)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: basin %s matches %s", ErrAmbiguousFile, basin, strings.Join(matches, ", "))
	}
}

// requireDir reports ErrDirectoryNotFound unless name is a directory in fsys.
func requireDir(fsys fs.FS, name string) error {
	info, err := fs.Stat(fsys, name)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, name)
	}
	return nil
}
