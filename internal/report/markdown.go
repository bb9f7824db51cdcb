package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/wikicat/internal/model"
)

// MarkdownWriter outputs run history as Markdown tables.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRuns outputs a table of runs.
func (w *MarkdownWriter) WriteRuns(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("wikicat Run History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			strconv.FormatInt(run.ID, 10),
			formatTime(run.StartedAt),
			"`" + run.StartURL + "`",
			strconv.Itoa(run.Records),
			strconv.Itoa(run.Pages),
			StopReasonLabel(run),
			formatElapsed(run),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Start URL", "Records", "Pages", "Result", "Elapsed"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteRun outputs run details and a table of visited pages.
func (w *MarkdownWriter) WriteRun(run *model.Run, visits []*model.Visit) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("wikicat Run #" + strconv.FormatInt(run.ID, 10))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + run.StartURL + "`"},
			{"Output", "`" + run.OutputPath + "`"},
			{"Limit", limitText(run.Limit)},
			{"Started", formatTime(run.StartedAt)},
			{"Elapsed", formatElapsed(run)},
			{"Records", strconv.Itoa(run.Records)},
			{"Pages", strconv.Itoa(run.Pages)},
			{"Result", StopReasonLabel(run)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, run)
	w.writeVisits(md, visits)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch {
	case run.Error != "":
		md.Cautionf("The run failed: %s", run.Error)
	case run.StopReason == model.StopPageBudget:
		md.Warningf("The page budget ended the run after %d page(s); the listing may have more records.", run.Pages)
	case !run.Finished():
		md.Note("This run has not finished.")
	default:
		return
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeVisits(md *markdown.Markdown, visits []*model.Visit) {
	md.H2("Pages")
	md.PlainText("")

	if len(visits) == 0 {
		md.PlainText("No pages recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(visits))
	for i, v := range visits {
		rows[i] = []string{
			strconv.Itoa(v.Seq),
			"`" + v.URL + "`",
			strconv.Itoa(v.StatusCode),
			strconv.Itoa(v.Records),
			"`" + shortHash(v.Hash) + "`",
			orDash(v.NextURL),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Status", "Records", "Hash", "Next"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [wikicat](https://github.com/nao1215/wikicat)*")
}
