package table

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMissingFile marks a required input that does not exist.
var ErrMissingFile = eris.New("required input file not found")

// SchemaError reports required columns absent from a loaded table.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table: %s is missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// CheckExists returns ErrMissingFile wrapped with the first path that does
// not exist.
func CheckExists(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return eris.Wrapf(ErrMissingFile, "table: %s", p)
			}
			return eris.Wrapf(err, "table: stat %s", p)
		}
		if info.IsDir() {
			return eris.Wrapf(ErrMissingFile, "table: %s is a directory", p)
		}
	}
	return nil
}
