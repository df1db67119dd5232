// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/termenv"

	"github.com/asbuiltproj/asbuilt-mcp/internal/asbuilt"
	"github.com/asbuiltproj/asbuilt-mcp/internal/checksum"
	"github.com/asbuiltproj/asbuilt-mcp/internal/compare"
	"github.com/asbuiltproj/asbuilt-mcp/internal/report"
)

// textWriter accumulates styled sections for one output.
type textWriter struct {
	w    io.Writer
	opts Options
	re   *lipgloss.Renderer

	title   lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
	diff    *color.Color
	good    *color.Color
	warning *color.Color

	err error
}

func newTextWriter(w io.Writer, opts Options) *textWriter {
	re := lipgloss.NewRenderer(w)
	if opts.Color {
		re.SetColorProfile(termenv.ANSI)
	} else {
		re.SetColorProfile(termenv.Ascii)
	}

	t := &textWriter{
		w:       w,
		opts:    opts,
		re:      re,
		title:   re.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(14)),
		header:  re.NewStyle().Bold(true).Padding(0, 1),
		border:  re.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		diff:    color.New(color.FgHiWhite, color.BgRed),
		good:    color.New(color.FgGreen, color.Bold),
		warning: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{t.diff, t.good, t.warning} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) table(headers []string, rows [][]string) {
	cell := t.re.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.header
			}
			return cell
		})
	t.printf("%s\n", tbl.String())
}

func (t *textWriter) wrap(s string) string {
	return wordwrap.WrapString(s, t.opts.width())
}

// ---------------------------------------------------------------------------
// Report
// ---------------------------------------------------------------------------

// Report writes a projected document.
func Report(w io.Writer, r report.Report, f Format, opts Options) error {
	if f != FormatText {
		return encode(w, f, r)
	}
	t := newTextWriter(w, opts)
	t.printf("%s\n", t.title.Render("VIN: "+r.VIN))

	if len(r.Errors) > 0 {
		t.printf("\n%s\n", t.title.Render("Errors Found"))
		for _, e := range r.Errors {
			t.printf("%s\n", t.warning.Sprint(t.wrap(fmt.Sprintf("%s: %s", e.Code, e.Description))))
		}
	}

	if len(r.Nodes) > 0 {
		t.printf("\n%s\n", t.title.Render("Module Information"))
		headers := []string{"Module", "Node ID"}
		for _, c := range r.Columns {
			headers = append(headers, t.wrap(c.Label))
		}
		rows := make([][]string, 0, len(r.Nodes))
		for _, n := range r.Nodes {
			row := []string{n.ModuleName, n.Prefix}
			for _, c := range r.Columns {
				row = append(row, n.FCodes[c.Key])
			}
			rows = append(rows, row)
		}
		t.table(headers, rows)
	}

	for _, g := range r.Modules {
		heading := fmt.Sprintf("%s (%s)", g.LongName, g.ShortName)
		if g.PartNumber != "" {
			heading += " - " + g.PartNumber
		}
		t.printf("\n%s\n", t.title.Render(heading))
		t.table([]string{"Label", "Code 1", "Code 2", "Code 3"}, recordRows(g.Records))
	}

	for _, s := range r.Other {
		t.printf("\n%s\n", t.title.Render(s.Title))
		t.table([]string{"Label", "Code 1", "Code 2", "Code 3"}, recordRows(s.Records))
	}
	return t.err
}

func recordRows(records []asbuilt.ModuleRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{rec.Label, "", "", ""}
		copy(row[1:], rec.Codes)
		rows = append(rows, row)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// Comparison writes a comparison result. Differing nibbles are highlighted
// when color is on and marked with a trailing * otherwise.
func Comparison(w io.Writer, r compare.Result, f Format, opts Options) error {
	if f != FormatText {
		return encode(w, f, r)
	}
	t := newTextWriter(w, opts)
	t.printf("%s\n", t.title.Render(fmt.Sprintf("Car 1 VIN: %s    Car 2 VIN: %s", r.VINA, r.VINB)))

	for _, g := range r.Groups {
		status := t.good.Sprint("Identical")
		if !g.Identical {
			status = fmt.Sprintf("(%d differences)", g.Differing)
		}
		t.printf("\n%s - %d blocks %s\n", t.title.Render(fmt.Sprintf("%s (%s)", g.ShortName, g.LongName)), g.Blocks, status)
		if g.Missing > 0 {
			t.printf("%s\n", t.warning.Sprintf("%d blocks present in only one car", g.Missing))
		}
		parts := fmt.Sprintf("%s / %s", g.PartNumberA, g.PartNumberB)
		if g.PartNumbersMatch {
			parts = t.good.Sprint(parts)
		}
		t.printf("Part Numbers: %s\n", parts)

		rows := make([][]string, 0, len(g.Results))
		for _, c := range g.Results {
			row := []string{c.Label}
			for i, s := range c.Slots {
				row = append(row, t.code(at(c.CodesA, i), s), t.code(at(c.CodesB, i), s))
			}
			rows = append(rows, row)
		}
		t.table([]string{"Block ID", "Car 1 Code 1", "Car 2 Code 1", "Car 1 Code 2", "Car 2 Code 2", "Car 1 Code 3", "Car 2 Code 3"}, rows)
	}

	if len(r.NodeGroups) > 0 {
		t.printf("\n%s\n", t.title.Render("Node Differences"))
		rows := [][]string{}
		for _, g := range r.NodeGroups {
			for _, n := range g.Results {
				rows = append(rows, []string{g.Name, n.Label, n.ValueA, n.ValueB, n.PartNumberA, n.PartNumberB, t.wrap(n.Difference)})
			}
		}
		t.table([]string{"Module", "Node", "Car 1 ID", "Car 2 ID", "Car 1 Part", "Car 2 Part", "Difference"}, rows)
	}
	return t.err
}

func (t *textWriter) code(code string, s compare.SlotDiff) string {
	if len(s.Positions) == 0 {
		return code
	}
	if !t.opts.Color {
		return code + "*"
	}
	marked := make(map[int]bool, len(s.Positions))
	for _, p := range s.Positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, ch := range code {
		if marked[i] {
			b.WriteString(t.diff.Sprint(string(ch)))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func at(codes []string, i int) string {
	if i < len(codes) {
		return codes[i]
	}
	return ""
}

// ---------------------------------------------------------------------------
// Checksum
// ---------------------------------------------------------------------------

// Checksum writes a computed block.
func Checksum(w io.Writer, r checksum.Result, f Format, opts Options) error {
	if f != FormatText {
		return encode(w, f, r)
	}
	t := newTextWriter(w, opts)
	t.printf("%s\n", r.String())
	return t.err
}
