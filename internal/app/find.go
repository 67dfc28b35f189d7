package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cristianoliveira/scrollmap-search-panel/internal/config"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/core"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/scrollmap"
	"github.com/cristianoliveira/scrollmap-search-panel/internal/searchpanel"
	"github.com/pelletier/go-toml/v2"
)

// Output formats of the find command.
const (
	FormatText = "text"
	FormatTOML = "toml"
)

// FindInput represents find command inputs after flag parsing.
// Nil pointers leave the configured value in place.
type FindInput struct {
	Pattern    string
	Files      []string
	Mode       string
	IgnoreCase *bool
	Threshold  *int
	Permanent  *bool
	Hidden     bool
	Format     string
	// GutterHeight, when positive, adds a scrollmap column of that many cells.
	GutterHeight int
}

// FindReport is the result of a find run.
type FindReport struct {
	Query     string       `toml:"query"`
	Mode      string       `toml:"mode"`
	Threshold int          `toml:"threshold"`
	Permanent bool         `toml:"permanent"`
	Visible   bool         `toml:"visible"`
	Files     []FileReport `toml:"files"`
}

// FileReport holds the find layer of one file.
type FileReport struct {
	Path    string `toml:"path"`
	Matches int    `toml:"matches"`
	// Rows are the rows the find layer renders; empty when suppressed or hidden.
	Rows       []int  `toml:"rows"`
	Suppressed bool   `toml:"suppressed"`
	Gutter     string `toml:"gutter,omitempty"`
}

// FindUseCase runs one search over files and reports the resulting find
// scrollmap layers.
type FindUseCase struct {
	session *Session
}

// NewFindUseCase creates a find use-case on session.
func NewFindUseCase(session *Session) *FindUseCase {
	if session == nil {
		panic("NewFindUseCase: session dependency cannot be nil")
	}
	return &FindUseCase{session: session}
}

// Run applies input, searches and syncs the find layers once, and returns
// the report.
func (u *FindUseCase) Run(input FindInput) (FindReport, error) {
	s := u.session
	if strings.TrimSpace(input.Pattern) == "" {
		return FindReport{}, fmt.Errorf("find: pattern cannot be empty")
	}
	if len(input.Files) == 0 {
		return FindReport{}, fmt.Errorf("find: at least one file is required")
	}

	if input.Threshold != nil {
		if *input.Threshold < 0 {
			return FindReport{}, fmt.Errorf("find: threshold must be zero or a positive integer")
		}
		s.Store.Set(config.KeyThreshold, strconv.Itoa(*input.Threshold))
	}
	if input.Permanent != nil {
		s.Store.Set(config.KeyPermanent, strconv.FormatBool(*input.Permanent))
	}
	if input.IgnoreCase != nil {
		s.Panel.SetCaseInsensitive(*input.IgnoreCase)
	}
	if input.Mode != "" {
		if err := s.Panel.SetMode(searchpanel.Mode(input.Mode)); err != nil {
			return FindReport{}, fmt.Errorf("find: %w", err)
		}
	}

	buffers, err := s.Open(input.Files...)
	if err != nil {
		return FindReport{}, fmt.Errorf("find: %w", err)
	}

	s.Panel.SetQuery(input.Pattern)
	if !input.Hidden {
		s.Panel.Show()
	}
	if err := s.Bridge.SyncAll(); err != nil {
		return FindReport{}, fmt.Errorf("find: %w", err)
	}
	report := FindReport{
		Query:     input.Pattern,
		Mode:      string(s.Panel.Mode()),
		Threshold: s.Bridge.Threshold(),
		Permanent: s.Bridge.Permanent(),
		Visible:   s.Panel.IsFindVisible(),
		Files:     make([]FileReport, 0, len(buffers)),
	}
	for _, b := range buffers {
		items := b.Scrollmap().Items(core.LayerName)
		rows := make([]int, 0, len(items))
		for _, item := range items {
			rows = append(rows, item.Row)
		}
		matches := s.Panel.Count(b)
		fr := FileReport{
			Path:       b.Path(),
			Matches:    matches,
			Rows:       rows,
			Suppressed: report.Threshold > 0 && matches > report.Threshold && (report.Visible || report.Permanent),
		}
		if input.GutterHeight > 0 {
			fr.Gutter = gutterColumn(scrollmap.Project(rows, b.LineCount(), input.GutterHeight))
		}
		report.Files = append(report.Files, fr)
	}
	// A hidden, non-permanent run never queries the panel during the sync
	// pass, so pattern errors only surface once the counts are computed.
	if err := s.Panel.Err(); err != nil {
		return FindReport{}, fmt.Errorf("find: %w", err)
	}
	return report, nil
}

// Execute runs the search and writes the report to w in input.Format.
func (u *FindUseCase) Execute(input FindInput, w io.Writer) error {
	format := input.Format
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatTOML {
		return fmt.Errorf("find: unknown format %q (want %s or %s)", format, FormatText, FormatTOML)
	}

	report, err := u.Run(input)
	if err != nil {
		return err
	}

	if format == FormatTOML {
		data, err := toml.Marshal(report)
		if err != nil {
			return fmt.Errorf("find: encode report: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	printReport(report, w)
	return nil
}

func printReport(report FindReport, w io.Writer) {
	for _, f := range report.Files {
		switch {
		case f.Suppressed:
			_, _ = fmt.Fprintf(w, "%s: %d matches, suppressed (threshold %d)\n", f.Path, f.Matches, report.Threshold)
		case len(f.Rows) == 0:
			_, _ = fmt.Fprintf(w, "%s: %d matches\n", f.Path, f.Matches)
		default:
			_, _ = fmt.Fprintf(w, "%s: %d matches, lines %s\n", f.Path, f.Matches, joinRows(f.Rows))
		}
		if f.Gutter != "" {
			for _, cell := range strings.Split(f.Gutter, "\n") {
				_, _ = fmt.Fprintf(w, "  %s\n", cell)
			}
		}
	}
}

// joinRows formats zero-based rows as one-based line numbers.
func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r + 1)
	}
	return strings.Join(parts, ",")
}

// gutterColumn renders projected cell counts top to bottom, one cell per line.
func gutterColumn(cells []int) string {
	lines := make([]string, len(cells))
	for i, n := range cells {
		switch {
		case n == 0:
			lines[i] = "│"
		case n == 1:
			lines[i] = "▪"
		default:
			lines[i] = "■"
		}
	}
	return strings.Join(lines, "\n")
}
