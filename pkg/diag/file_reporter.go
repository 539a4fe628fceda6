package diag

import (
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Header is the first record of a report file. It identifies the run that
// produced the report.
type Header struct {
	// Format is the report file format version.
	Format int `cbor:"1,keyasint"`

	// RunID uniquely identifies the run (UUID).
	RunID string `cbor:"2,keyasint"`

	// Tool is the tool version string that produced the report.
	Tool string `cbor:"3,keyasint"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `cbor:"4,keyasint"`
}

// FormatVersion is the current report file format version.
const FormatVersion = 1

// FileReporter writes findings to a file as a CBOR stream, preceded by a
// Header record. It is safe for concurrent use.
type FileReporter struct {
	file    *os.File
	encoder *cbor.Encoder
	header  Header
	mu      sync.Mutex
	closed  bool
}

// NewFileReporter creates a FileReporter writing to path. Any existing file
// is truncated; the file is created with permissions 0644. The header record
// carrying a fresh run ID and the given tool version is written immediately.
func NewFileReporter(path, tool string) (*FileReporter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	r := &FileReporter{
		file:    f,
		encoder: NewEncoder(f),
		header: Header{
			Format:    FormatVersion,
			RunID:     uuid.NewString(),
			Tool:      tool,
			CreatedAt: time.Now(),
		},
	}
	if err := r.encoder.Encode(r.header); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Header returns the header record written to the file.
func (r *FileReporter) Header() Header {
	return r.header
}

// Report writes a finding record to the file.
// Encoding errors are ignored; reporting must not disrupt the run.
func (r *FileReporter) Report(f Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	_ = r.encoder.Encode(f)
}

// Close closes the report file. It is safe to call Close multiple times.
// After Close, subsequent Report calls are silently ignored.
func (r *FileReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Compile-time interface satisfaction check.
var _ Reporter = (*FileReporter)(nil)
