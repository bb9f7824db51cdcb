package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wikicat/internal/model"
)

// JSONWriter outputs run history as JSON.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runDetail is the JSON shape of a single run with its pages.
type runDetail struct {
	*model.Run
	Visits []*model.Visit `json:"visits"`
}

// WriteRuns outputs the runs as a JSON array.
func (w *JSONWriter) WriteRuns(runs []*model.Run) (int, error) {
	if runs == nil {
		runs = []*model.Run{}
	}
	return w.write(runs)
}

// WriteRun outputs one run with its visits as a JSON object.
func (w *JSONWriter) WriteRun(run *model.Run, visits []*model.Visit) (int, error) {
	if visits == nil {
		visits = []*model.Visit{}
	}
	return w.write(runDetail{Run: run, Visits: visits})
}

func (w *JSONWriter) write(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
