package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/okulab/sage/internal/gemini"
	"github.com/okulab/sage/internal/stream"
	"github.com/rivo/uniseg"
)

// maxTitleGraphemes caps citation titles in the source list; provider
// titles are occasionally whole page headings.
const maxTitleGraphemes = 60

// StreamPrinter writes each accumulated snapshot incrementally: only the
// unseen tail of the text is printed, so re-rendering after every fold
// costs one small write. Safe because accumulated text is append-only.
type StreamPrinter struct {
	w       io.Writer
	sp      *Spinner
	printed int
}

func NewStreamPrinter(w io.Writer, sp *Spinner) *StreamPrinter {
	return &StreamPrinter{w: w, sp: sp}
}

// Update renders the unseen portion of acc.Text.
func (p *StreamPrinter) Update(acc stream.Accumulated) {
	if len(acc.Text) <= p.printed {
		return
	}
	if p.printed == 0 {
		p.sp.Stop()
	}
	fmt.Fprint(p.w, acc.Text[p.printed:])
	p.printed = len(acc.Text)
}

// Finish flushes any remaining text, terminates the line and lists the
// unique sources.
func (p *StreamPrinter) Finish(acc stream.Accumulated) {
	p.Update(acc)
	p.sp.Stop()
	if p.printed > 0 && !strings.HasSuffix(acc.Text, "\n") {
		fmt.Fprintln(p.w)
	}
	PrintCitations(p.w, acc.Citations)
}

// PrintCitations lists unique cited sources as clickable links.
func PrintCitations(w io.Writer, citations []gemini.Citation) {
	if len(citations) == 0 {
		return
	}
	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintln(w, "Sources:")
	for i, c := range citations {
		fmt.Fprintf(w, "  [%d] %s <%s>\n", i+1, TruncateTitle(c.Title, maxTitleGraphemes), c.URI)
	}
}

// PrintTranslation renders a structured translation result.
func PrintTranslation(w io.Writer, t *gemini.Translation) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "Translation:")
	fmt.Fprintf(w, "  %s\n", t.MainTranslation)

	if len(t.WordByWord) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Word by word:")
		width := 0
		for _, pair := range t.WordByWord {
			if n := uniseg.StringWidth(pair.Original); n > width {
				width = n
			}
		}
		for _, pair := range t.WordByWord {
			pad := strings.Repeat(" ", width-uniseg.StringWidth(pair.Original))
			fmt.Fprintf(w, "  %s%s  ", pair.Original, pad)
			cyan.Fprintln(w, pair.Translation)
		}
	}

	if t.Explanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Note: %s\n", t.Explanation)
	}
}

// TruncateTitle cuts s to at most max grapheme clusters, appending an
// ellipsis when anything was removed. Counting clusters instead of bytes
// keeps multi-codepoint scripts intact.
func TruncateTitle(s string, max int) string {
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	g := uniseg.NewGraphemes(s)
	var b strings.Builder
	count := 0
	for g.Next() && count < max {
		b.WriteString(g.Str())
		count++
	}
	return b.String() + "…"
}
