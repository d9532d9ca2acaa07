package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// File is one entry to include in an archive.
type File struct {
	Name string
	Data []byte
}

// Build returns the zip archive of the given files as a byte slice, for
// serving directly in an HTTP response.
func Build(files []File) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeEntries(&buf, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteZip writes the given files into a deflate-compressed zip at path.
func WriteZip(path string, files []File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	if err := writeEntries(f, files); err != nil {
		return err
	}
	return f.Close()
}

func writeEntries(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		entry, err := zw.Create(file.Name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", file.Name, err)
		}
		if _, err := entry.Write(file.Data); err != nil {
			return fmt.Errorf("write zip entry %s: %w", file.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
