package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a single write out to every underlying writer,
// e.g. a rotated log file and stdout.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

// Write reports len(p) when at least one writer took the whole payload.
// Errors from the failing writers are combined and returned alongside.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	succeeded := 0
	for _, w := range cw.Writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		succeeded++
	}
	if succeeded == 0 {
		return 0, err
	}
	return len(p), err
}
