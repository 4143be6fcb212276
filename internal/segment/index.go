package segment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
)

// FileName returns the clip filename for prefix and index.
func FileName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s_%03d.%s", prefix, index, ext)
}

// NextIndex returns the first unused clip index for prefix in dir: zero when
// no clip exists, otherwise one past the highest index found. Gaps are never
// reused. Entries that do not follow the clip filename grammar are ignored, and
// a missing directory counts as empty.
func NextIndex(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan clip directory %q: %w", dir, err)
	}

	pattern := clipPattern(prefix)
	next := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, ok := parseIndex(pattern, entry.Name())
		if !ok {
			continue
		}
		if index+1 > next {
			next = index + 1
		}
	}
	return next, nil
}

func clipPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_(\d{3,})\.[A-Za-z0-9]+$`)
}

func parseIndex(pattern *regexp.Regexp, name string) (int, bool) {
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return index, true
}
