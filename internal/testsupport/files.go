package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// TouchClips creates placeholder clip files under root and returns their
// paths. Names are relative to root, for example "4_motors/vid_4_motors_000.wav".
// The files hold a bare RIFF tag; use WriteWAV when the audio must decode.
func TouchClips(t testing.TB, root string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		paths = append(paths, path)
	}
	return paths
}
