package table

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteAtomic creates path by writing to a temp file in the same directory
// and renaming it into place, so readers never observe a partial file.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "table: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return eris.Wrapf(err, "table: create temp for %s", path)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "table: close temp for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "table: rename into %s", path)
	}
	committed = true
	return nil
}

// WriteCSV writes t to path atomically.
func WriteCSV(path string, t *Table) error {
	return WriteAtomic(path, func(f io.Writer) error {
		w := csv.NewWriter(f)
		if err := w.Write(t.Header); err != nil {
			return eris.Wrap(err, "csv: write header")
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return eris.Wrap(err, "csv: write rows")
		}
		return nil
	})
}
