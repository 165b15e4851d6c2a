package artifact

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrNotCSV reports a payload that failed structural validation. It carries
// no classification; callers wrap it as content-invalid where that matters.
var ErrNotCSV = errors.New("payload is not a recognizable time-series CSV")

// ValidateCSV checks that r holds a non-empty CSV with a recognizable header
// row and at least one data row. The header must mention a global horizontal
// irradiance column, which every PSM3 response carries regardless of the
// requested attribute list.
func ValidateCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ErrNotCSV
	}
	if !headerRecognized(header) {
		return ErrNotCSV
	}
	if _, err := reader.Read(); err != nil {
		return ErrNotCSV
	}
	return nil
}

// ValidateFile runs ValidateCSV against a file on disk. A missing or
// unreadable file validates false rather than erroring; the caller only
// cares whether the artifact can be trusted.
func ValidateFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return ValidateCSV(f) == nil
}

func headerRecognized(header []string) bool {
	for _, field := range header {
		if strings.Contains(strings.ToUpper(field), "GHI") {
			return true
		}
	}
	return false
}
