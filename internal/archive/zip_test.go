package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, r *zip.Reader) map[string]string {
	t.Helper()
	entries := make(map[string]string, len(r.File))
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	return entries
}

func TestBuild(t *testing.T) {
	t.Parallel()

	files := []File{
		{Name: "movie.de-DE.vtt", Data: []byte("WEBVTT\n\nHallo\n")},
		{Name: "movie.ja-JP.vtt", Data: []byte("WEBVTT\n\nこんにちは\n")},
	}

	data, err := Build(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("built archive is not a valid zip: %v", err)
	}

	entries := readEntries(t, reader)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries["movie.de-DE.vtt"] != "WEBVTT\n\nHallo\n" {
		t.Errorf("unexpected de-DE content: %q", entries["movie.de-DE.vtt"])
	}
	if entries["movie.ja-JP.vtt"] != "WEBVTT\n\nこんにちは\n" {
		t.Errorf("unexpected ja-JP content: %q", entries["movie.ja-JP.vtt"])
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	data, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Errorf("empty archive is not a valid zip: %v", err)
	}
}

func TestWriteZip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.zip")
	files := []File{{Name: "a.vtt", Data: []byte("WEBVTT\n")}}

	if err := WriteZip(path, files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("written archive is not a valid zip: %v", err)
	}
	defer reader.Close()

	entries := readEntries(t, &reader.Reader)
	if entries["a.vtt"] != "WEBVTT\n" {
		t.Errorf("unexpected content: %q", entries["a.vtt"])
	}
}

func TestWriteZip_BadPath(t *testing.T) {
	t.Parallel()

	err := WriteZip(filepath.Join(t.TempDir(), "missing", "out.zip"), nil)
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
