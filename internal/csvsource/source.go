package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderSet is the set of column names present in the input file. It is
// computed once when the source is opened and read-only afterwards, so it
// is safe for concurrent use without synchronization.
type HeaderSet map[string]struct{}

// Has reports whether the input file declared the given column.
func (h HeaderSet) Has(column string) bool {
	_, ok := h[column]
	return ok
}

// Record is a single data row keyed by column name, paired with the
// 1-based line number it started on in the original file. The header
// occupies line 1, so the first data record is line 2.
type Record struct {
	fields map[string]string
	line   int
}

// NewRecord builds a Record directly from a field map. Useful for tests
// and for callers that produce records from something other than a file.
func NewRecord(fields map[string]string, line int) Record {
	return Record{fields: fields, line: line}
}

// Get returns the raw cell value for the given column, or the empty
// string if the column is absent from the row.
func (r Record) Get(column string) string {
	return r.fields[column]
}

// Line returns the record's 1-based line number in the source file.
func (r Record) Line() int {
	return r.line
}

// Source streams records from a CSV file. It is not safe for concurrent
// use; wrap it in a Dispatcher to share it between workers.
type Source struct {
	file    *os.File
	reader  *csv.Reader
	header  []string
	headers HeaderSet
	err     error
}

// Open opens the CSV file at path and consumes its header line. It fails
// if the file cannot be read or the header is missing or empty.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	r := csv.NewReader(f)
	// Rows may legitimately carry fewer cells than the header declares.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("CSV file %q is empty", path)
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := make(HeaderSet, len(header))
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		headers[header[i]] = struct{}{}
	}

	return &Source{
		file:    f,
		reader:  r,
		header:  header,
		headers: headers,
	}, nil
}

// Headers returns the immutable set of column names from the header line.
func (s *Source) Headers() HeaderSet {
	return s.headers
}

// Next returns the next record, or ok=false once the file is exhausted or
// an unrecoverable parse error occurred. Parse errors are retained and
// reported by Err.
func (s *Source) Next() (Record, bool) {
	if s.err != nil {
		return Record{}, false
	}

	row, err := s.reader.Read()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return Record{}, false
	}

	// FieldPos reports the position of the record's first field, which is
	// the line the record started on.
	line, _ := s.reader.FieldPos(0)

	fields := make(map[string]string, len(s.header))
	for i, name := range s.header {
		if i < len(row) {
			fields[name] = row[i]
		}
	}
	return Record{fields: fields, line: line}, true
}

// Err returns the parse error that terminated the stream early, if any.
// A cleanly exhausted source returns nil.
func (s *Source) Err() error {
	return s.err
}

// Close releases the underlying file handle.
func (s *Source) Close() error {
	return s.file.Close()
}
