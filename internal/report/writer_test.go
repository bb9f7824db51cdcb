package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikicat/internal/model"
)

// createTestRuns creates runs with sample data for testing.
func createTestRuns() []*model.Run {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Run{
		{
			ID:         2,
			StartURL:   "https://en.wikipedia.org/wiki/Category:Data_science",
			OutputPath: "wikipedia_category.csv",
			Limit:      100,
			StartedAt:  started.Add(time.Hour),
			FinishedAt: started.Add(time.Hour + 3*time.Second),
			Records:    100,
			Pages:      1,
			StopReason: model.StopLimit,
		},
		{
			ID:         1,
			StartURL:   "https://en.wikipedia.org/wiki/Category:Statistics",
			OutputPath: "stats.csv",
			StartedAt:  started,
			FinishedAt: started.Add(2 * time.Second),
			Records:    12,
			Pages:      3,
			StopReason: model.StopPageBudget,
		},
	}
}

func createTestVisits() []*model.Visit {
	fetched := time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC)
	return []*model.Visit{
		{RunID: 1, Seq: 1, URL: "https://en.wikipedia.org/wiki/Category:Statistics", StatusCode: 200,
			Hash: "1af17a664e3fa8e419b8ba05c2a173169df76162a5a286e0c405b460d478f7ef", Records: 5,
			NextURL: "https://en.wikipedia.org/w/index.php?title=Category:Statistics&pagefrom=F", FetchedAt: fetched},
		{RunID: 1, Seq: 2, URL: "https://en.wikipedia.org/w/index.php?title=Category:Statistics&pagefrom=F", StatusCode: 200,
			Hash: "", Records: 0, FetchedAt: fetched},
	}
}

func TestStopReasonLabel(t *testing.T) {
	t.Parallel()

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		run  *model.Run
		want string
	}{
		{"exhausted", &model.Run{FinishedAt: finished, StopReason: model.StopExhausted}, "Exhausted"},
		{"limit", &model.Run{FinishedAt: finished, StopReason: model.StopLimit}, "Limit"},
		{"page budget", &model.Run{FinishedAt: finished, StopReason: model.StopPageBudget}, "Page Budget"},
		{"failed", &model.Run{FinishedAt: finished, StopReason: model.StopFailed}, "Failed"},
		{"unfinished", &model.Run{}, "In Progress"},
		{"finished without reason", &model.Run{FinishedAt: finished}, "Unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StopReasonLabel(tt.run); got != tt.want {
				t.Errorf("StopReasonLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSimpleWriter tests the plain text writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).WriteRuns(createTestRuns())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "ID") {
			t.Errorf("expected header line, got %q", lines[0])
		}
		if !strings.Contains(lines[1], "Category:Data_science") || !strings.Contains(lines[1], "Limit") {
			t.Errorf("unexpected first row: %q", lines[1])
		}
		if !strings.Contains(lines[2], "Page Budget") {
			t.Errorf("expected page budget label in %q", lines[2])
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRuns(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("run details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := createTestRuns()[1]
		run.Error = "fetch failed"
		if _, err := NewSimpleWriter(&buf).WriteRun(run, createTestVisits()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"Run:       #1", "Limit:     unbounded", "Elapsed:   2s", "Error:     fetch failed", "1af17a664e3f", "SEQ"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "1af17a664e3fa8") {
			t.Error("expected hash to be shortened")
		}
	})

	t.Run("truncates long URLs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithURLWidth(30)).WriteRuns(createTestRuns()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Data_science") {
			t.Error("expected long URL to be truncated")
		}
		if !strings.Contains(buf.String(), "...") {
			t.Error("expected ellipsis in truncated URL")
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists runs as a table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRuns(createTestRuns()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# wikicat Run History", "Start URL", "https://en.wikipedia.org/wiki/Category:Data_science", "Page Budget", "---"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRuns(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded.") {
			t.Errorf("expected empty message:\n%s", buf.String())
		}
	})

	t.Run("run details with failure alert", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := createTestRuns()[0]
		run.Error = "unexpected status 503"
		if _, err := NewMarkdownWriter(&buf).WriteRun(run, createTestVisits()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"# wikicat Run #2", "[!CAUTION]", "unexpected status 503", "## Pages", "1af17a664e3f"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("page budget warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(createTestRuns()[1], nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!WARNING]") {
			t.Errorf("expected warning alert:\n%s", output)
		}
		if !strings.Contains(output, "No pages recorded.") {
			t.Errorf("expected empty pages message:\n%s", output)
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("runs array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRuns(createTestRuns()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(decoded))
		}
		if decoded[1]["stop_reason"] != "page_budget" {
			t.Errorf("expected stop_reason page_budget, got %v", decoded[1]["stop_reason"])
		}
	})

	t.Run("nil runs is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRuns(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})

	t.Run("run with visits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteRun(createTestRuns()[1], createTestVisits()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"id\": 1") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}

		var decoded struct {
			ID     int64         `json:"id"`
			Visits []model.Visit `json:"visits"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ID != 1 || len(decoded.Visits) != 2 {
			t.Errorf("unexpected decoded run: %+v", decoded)
		}
	})
}

func TestShortHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hash string
		want string
	}{
		{"1af17a664e3fa8e419b8ba05c2a173169df76162a5a286e0c405b460d478f7ef", "1af17a664e3f"},
		{"1af17a664e3f", "1af17a664e3f"},
		{"abc", "abc"},
		{"", "-"},
	}

	for _, tt := range tests {
		if got := shortHash(tt.hash); got != tt.want {
			t.Errorf("shortHash(%q) = %q, want %q", tt.hash, got, tt.want)
		}
	}
}
