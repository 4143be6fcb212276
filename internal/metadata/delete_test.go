package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"droneset/internal/metadata"
)

func writeClip(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestDeleteAndClearFiles(t *testing.T) {
	store, path := newStore(t)
	audio := filepath.Join(filepath.Dir(path), "audio")
	other := "https://youtu.be/other"

	mine := []string{
		filepath.Join(audio, "4_motors", "abc123XYZ_0_4_motors_000.wav"),
		filepath.Join(audio, "not_a_drone", "wind", "abc123XYZ_0_4_motors_001.wav"),
	}
	theirs := []string{
		filepath.Join(audio, "4_motors", "other_4_motors_000.wav"),
		filepath.Join(audio, "4_motors", "abc123XYZ_0extra_4_motors_000.wav"),
	}
	for _, p := range append(append([]string{}, mine...), theirs...) {
		writeClip(t, p)
	}

	if err := store.Append(
		metadata.NewDroneRecord("abc123XYZ_0_4_motors_000.wav", "4_motors", 4, metadata.RemoteOrigin(videoURL), 2),
		metadata.NewDroneRecord("other_4_motors_000.wav", "4_motors", 4, metadata.RemoteOrigin(other), 2),
		metadata.NewNoDroneRecord("abc123XYZ_0_4_motors_001.wav", metadata.SubtypeWind, metadata.RemoteOrigin(videoURL), 2),
	); err != nil {
		t.Fatalf("Append: %v", err)
	}

	result, err := store.DeleteAndClearFiles(videoURL, "abc123XYZ_0", audio)
	if err != nil {
		t.Fatalf("DeleteAndClearFiles: %v", err)
	}
	if result.RecordsRemoved != 2 {
		t.Fatalf("expected 2 records removed, got %d", result.RecordsRemoved)
	}
	if len(result.FilesRemoved) != 2 || result.Err() != nil {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, p := range mine {
		if exists(p) {
			t.Fatalf("expected %s removed", p)
		}
	}
	for _, p := range theirs {
		if !exists(p) {
			t.Fatalf("expected %s kept", p)
		}
	}
	remaining := store.Load()
	if len(remaining) != 1 || remaining[0].Identifier() != other {
		t.Fatalf("unexpected remaining records: %+v", remaining)
	}
	if store.HasSource(videoURL) {
		t.Fatal("source should be gone")
	}
}

func TestDeleteAndClearFilesMatchesOtherURLForm(t *testing.T) {
	store, path := newStore(t)
	audio := filepath.Join(filepath.Dir(path), "audio")
	clipPath := filepath.Join(audio, "4_motors", "abc123XYZ_0_4_motors_000.wav")
	writeClip(t, clipPath)
	if err := store.Append(metadata.NewDroneRecord("abc123XYZ_0_4_motors_000.wav", "4_motors", 4, metadata.RemoteOrigin(videoURL), 2)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	result, err := store.DeleteAndClearFiles("https://youtu.be/abc123XYZ_0", "abc123XYZ_0", audio)
	if err != nil {
		t.Fatalf("DeleteAndClearFiles: %v", err)
	}
	if result.RecordsRemoved != 1 || len(result.FilesRemoved) != 1 {
		t.Fatalf("expected 1 record and 1 file removed, got %+v", result)
	}
	if exists(clipPath) {
		t.Fatal("clip should be removed")
	}
	if remaining := store.Load(); len(remaining) != 0 {
		t.Fatalf("records left pointing at deleted files: %+v", remaining)
	}
}

func TestDeleteAndClearFilesDropsRecordsNamedAfterStem(t *testing.T) {
	store, path := newStore(t)
	audio := filepath.Join(filepath.Dir(path), "audio")
	first := "https://vimeo.com/111"
	second := "https://vimeo.com/222"
	writeClip(t, filepath.Join(audio, "2_motors", "ytclip_2_motors_000.wav"))
	writeClip(t, filepath.Join(audio, "2_motors", "ytclip_2_motors_001.wav"))
	if err := store.Append(
		metadata.NewDroneRecord("ytclip_2_motors_000.wav", "2_motors", 3, metadata.RemoteOrigin(first), 2),
		metadata.NewDroneRecord("ytclip_2_motors_001.wav", "2_motors", 3, metadata.RemoteOrigin(second), 2),
	); err != nil {
		t.Fatalf("Append: %v", err)
	}

	result, err := store.DeleteAndClearFiles(first, "ytclip", audio)
	if err != nil {
		t.Fatalf("DeleteAndClearFiles: %v", err)
	}
	if result.RecordsRemoved != 2 || len(result.FilesRemoved) != 2 {
		t.Fatalf("records and files should be removed together, got %+v", result)
	}
	if remaining := store.Load(); len(remaining) != 0 {
		t.Fatalf("unexpected remaining records: %+v", remaining)
	}
}

func TestDeleteAndClearFilesKeepsUnreadableStore(t *testing.T) {
	store, path := newStore(t)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := store.DeleteAndClearFiles(videoURL, "abc123XYZ_0", t.TempDir()); err == nil {
		t.Fatal("expected read error")
	}
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		t.Fatalf("store path should be left alone: %v", err)
	}
}

func TestDeleteAndClearFilesIsIdempotent(t *testing.T) {
	store, path := newStore(t)
	audio := filepath.Join(filepath.Dir(path), "audio")
	writeClip(t, filepath.Join(audio, "2_motors", "vid_2_motors_000.wav"))
	if err := store.Append(metadata.NewDroneRecord("vid_2_motors_000.wav", "2_motors", 2, metadata.RemoteOrigin(videoURL), 2)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if _, err := store.DeleteAndClearFiles(videoURL, "vid", audio); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	second, err := store.DeleteAndClearFiles(videoURL, "vid", audio)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if second.RecordsRemoved != 0 || len(second.FilesRemoved) != 0 || len(second.Errors) != 0 {
		t.Fatalf("second delete should be a no-op, got %+v", second)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("second delete must not rewrite the store")
	}
}

func TestDeleteAndClearFilesMissingRootAndStore(t *testing.T) {
	store, path := newStore(t)
	result, err := store.DeleteAndClearFiles(videoURL, "vid", filepath.Join(filepath.Dir(path), "nowhere"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RecordsRemoved != 0 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDeleteAndClearFilesRejectsEmptyStem(t *testing.T) {
	store, _ := newStore(t)
	if _, err := store.DeleteAndClearFiles(videoURL, " ", t.TempDir()); err == nil {
		t.Fatal("empty stem would match every file")
	}
	if _, err := store.DeleteAndClearFiles("", "vid", t.TempDir()); err == nil {
		t.Fatal("expected error for empty identifier")
	}
}

func TestDeleteAndClearFilesContinuesPastFailures(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	store, path := newStore(t)
	audio := filepath.Join(filepath.Dir(path), "audio")
	locked := filepath.Join(audio, "locked")
	writeClip(t, filepath.Join(locked, "vid_4_motors_000.wav"))
	writeClip(t, filepath.Join(audio, "open", "vid_4_motors_001.wav"))
	if err := store.Append(metadata.NewDroneRecord("vid_4_motors_000.wav", "4_motors", 2, metadata.RemoteOrigin(videoURL), 2)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := os.Chmod(locked, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := store.DeleteAndClearFiles(videoURL, "vid", audio)
	if err != nil {
		t.Fatalf("partial failure must not abort: %v", err)
	}
	if result.RecordsRemoved != 1 {
		t.Fatalf("metadata should still be rewritten, removed %d", result.RecordsRemoved)
	}
	if len(result.FilesRemoved) != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected one removal and one failure, got %+v", result)
	}
	if !errors.Is(result.Err(), metadata.ErrPartialFileDeletion) {
		t.Fatalf("expected ErrPartialFileDeletion, got %v", result.Err())
	}
}

func TestWriterLockIsExclusive(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "meta", "metadata.json.lock")
	first, err := metadata.AcquireWriterLock(lockPath)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if _, err := metadata.AcquireWriterLock(lockPath); !errors.Is(err, metadata.ErrStoreLocked) {
		t.Fatalf("expected ErrStoreLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	second, err := metadata.AcquireWriterLock(lockPath)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	_ = second.Release()
}
