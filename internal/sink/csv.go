package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/wikicat/internal/model"
)

// ErrSink wraps every failure to open, write or close the output.
var ErrSink = errors.New("sink error")

// Delimiters.
const (
	Comma = ','
	Tab   = '\t'
)

// CSVSink writes records as delimiter-separated rows with standard CSV
// quoting.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	closed bool
}

// Option configures a CSVSink.
type Option func(*csv.Writer)

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(delimiter rune) Option {
	return func(w *csv.Writer) {
		w.Comma = delimiter
	}
}

// WithCRLF terminates rows with \r\n instead of \n.
func WithCRLF() Option {
	return func(w *csv.Writer) {
		w.UseCRLF = true
	}
}

// DelimiterFor returns the delimiter for an output format name ("csv" or "tsv").
func DelimiterFor(format string) rune {
	if strings.EqualFold(format, "tsv") {
		return Tab
	}
	return Comma
}

// Create opens path for writing, truncating any existing file and creating
// missing parent directories.
func Create(path string, opts ...Option) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: failed to create output directory: %w", ErrSink, err)
		}
	}

	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create output file: %w", ErrSink, err)
	}

	writer := csv.NewWriter(file)
	for _, opt := range opts {
		opt(writer)
	}

	return &CSVSink{path: path, file: file, writer: writer}, nil
}

// Path returns the output path.
func (s *CSVSink) Path() string {
	return s.path
}

// Rows returns the number of records written, excluding the header.
func (s *CSVSink) Rows() int {
	return s.rows
}

// WriteHeader writes the column header row.
func (s *CSVSink) WriteHeader() error {
	return s.write(model.RecordHeader)
}

// WriteRecord writes one record and flushes it to the file.
func (s *CSVSink) WriteRecord(record model.Record) error {
	if err := s.write(record.Columns()); err != nil {
		return err
	}
	s.rows++
	return nil
}

func (s *CSVSink) write(row []string) error {
	if s.closed {
		return fmt.Errorf("%w: write to closed sink %s", ErrSink, s.path)
	}
	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.writer.Flush()
	flushErr := s.writer.Error()
	closeErr := s.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}
