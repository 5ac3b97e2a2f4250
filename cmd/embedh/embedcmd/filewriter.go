package embedcmd

import (
	"io"
	"os"
	"path/filepath"
)

type FileWriterFunc func(name string, contents []byte) error

// FileWriter writes the destination in place.
func FileWriter(fileName string, contents []byte) error {
	return os.WriteFile(fileName, contents, 0o644)
}

// AtomicFileWriter stages the contents in a temp file next to the
// destination and renames it into place, so a failed run never leaves a
// truncated header for the consuming build to pick up.
func AtomicFileWriter(fileName string, contents []byte) error {
	f, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(contents); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, fileName); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func WriterFileWriter(w io.Writer) FileWriterFunc {
	return func(_ string, contents []byte) error {
		_, err := w.Write(contents)
		return err
	}
}
