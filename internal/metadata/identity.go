package metadata

import (
	"net/url"
	"strings"
)

// VideoID returns the video ID named by a youtu.be/<id>,
// youtube.com/watch?v=<id> or youtube.com/shorts/<id> URL.
func VideoID(rawURL string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(parsed.Host)
	path := strings.Trim(parsed.Path, "/")
	switch {
	case strings.Contains(host, "youtu.be"):
		if path != "" {
			return path, true
		}
	case strings.Contains(host, "youtube.com"):
		switch {
		case strings.Contains(parsed.Path, "watch"):
			if id := parsed.Query().Get("v"); id != "" {
				return id, true
			}
		case strings.Contains(parsed.Path, "shorts"):
			parts := strings.Split(path, "/")
			if id := parts[len(parts)-1]; id != "" && id != "shorts" {
				return id, true
			}
		}
	}
	return "", false
}

// SameSource reports whether two source identifiers name the same recording.
// URLs that carry a video ID compare by that ID, so watch?v=ID and youtu.be/ID
// match; anything else compares as trimmed text.
func SameSource(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	idA, okA := VideoID(a)
	idB, okB := VideoID(b)
	return okA && okB && idA == idB
}
