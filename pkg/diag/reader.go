package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering report findings.
// Empty/nil fields match all findings for that criterion.
type Filter struct {
	// Severity filters by exact severity.
	Severity *Severity

	// Kind filters by problem kind.
	Kind *Kind

	// PathPrefix filters findings whose entity path starts with the prefix.
	PathPrefix string
}

// matches returns true if the finding matches all filter criteria.
func (f *Filter) matches(fd Finding) bool {
	if f.Severity != nil && fd.Severity != *f.Severity {
		return false
	}
	if f.Kind != nil && fd.Kind != *f.Kind {
		return false
	}
	if f.PathPrefix != "" && !hasPathPrefix(fd.Path, f.PathPrefix) {
		return false
	}
	return true
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	// Prefix must end on a path component boundary.
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// Reader reads findings from a CBOR-encoded report file.
// It provides an iterator interface for streaming large reports.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	header  Header
	filter  Filter
}

// NewReader creates a Reader that reads all findings from the report file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads findings matching the filter.
// The header record is decoded eagerly and available via Header.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := NewDecoder(f)

	var header Header
	if err := dec.Decode(&header); err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding report header: %w", err)
	}
	if header.Format != FormatVersion {
		f.Close()
		return nil, fmt.Errorf("unsupported report format %d", header.Format)
	}

	return &Reader{
		file:    f,
		decoder: dec,
		header:  header,
		filter:  filter,
	}, nil
}

// Header returns the report file header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next finding that matches the filter.
// Returns io.EOF when no more findings are available.
func (r *Reader) Next() (Finding, error) {
	for {
		var f Finding
		if err := r.decoder.Decode(&f); err != nil {
			if err == io.EOF {
				return Finding{}, io.EOF
			}
			return Finding{}, err
		}

		if r.filter.matches(f) {
			return f, nil
		}
		// Finding doesn't match filter, continue to next
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
