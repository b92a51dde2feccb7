// Package excel liest und schreibt Aufgabenlisten als .xlsx.
package excel

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/neolist/neolist/internal/entity"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName  = "Aufgaben"
	DateLayout = "2006-01-02"
)

var ErrMissingTitleColumn = errors.New("excel: header row has no title column")

// Spalten in Export-Reihenfolge. Beim Import werden auch die englischen Namen akzeptiert.
var columns = []struct {
	key     string
	header  string
	aliases []string
	width   float64
}{
	{"title", "Titel", []string{"title"}, 40},
	{"notes", "Notizen", []string{"notes"}, 50},
	{"due", "Fällig am", []string{"due date", "due"}, 14},
	{"priority", "Priorität", []string{"priority"}, 12},
	{"completed", "Erledigt", []string{"completed", "done"}, 10},
	{"assignees", "Zugewiesen", []string{"assignees"}, 40},
}

type Row struct {
	Title     string
	Notes     string
	DueDate   *time.Time
	Priority  entity.TaskPriority
	Completed bool
	Assignees []string
}

// ImportedRow trägt die Zeilennummer aus dem Blatt (1-basiert, inkl. Kopfzeile).
type ImportedRow struct {
	Line int
	Row
}

type RowIssue struct {
	Line   int
	Reason string
}

func Export(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		if err := sw.SetColWidth(i+1, i+1, c.width); err != nil {
			return err
		}
		header[i] = excelize.Cell{StyleID: bold, Value: c.header}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.Format(DateLayout)
		}
		completed := "nein"
		if r.Completed {
			completed = "ja"
		}
		values := []interface{}{r.Title, r.Notes, due, string(r.Priority), completed, strings.Join(r.Assignees, ", ")}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// Import liest das erste Blatt. Zeilen ohne Titel oder mit ungültigen Werten
// werden übersprungen und als RowIssue gemeldet.
func Import(r io.Reader) ([]ImportedRow, []RowIssue, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrMissingTitleColumn
	}

	index := headerIndex(rows[0])
	if _, ok := index["title"]; !ok {
		return nil, nil, ErrMissingTitleColumn
	}

	var (
		out    []ImportedRow
		issues []RowIssue
	)
	for i, cells := range rows[1:] {
		line := i + 2
		get := func(key string) string {
			col, ok := index[key]
			if !ok || col >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[col])
		}

		if isBlank(cells) {
			continue
		}
		row, reason := parseRow(get)
		if reason != "" {
			issues = append(issues, RowIssue{Line: line, Reason: reason})
			continue
		}
		out = append(out, ImportedRow{Line: line, Row: row})
	}
	return out, issues, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, c := range columns {
			if name == strings.ToLower(c.header) || slices.Contains(c.aliases, name) {
				if _, dup := index[c.key]; !dup {
					index[c.key] = i
				}
			}
		}
	}
	return index
}

func parseRow(get func(string) string) (Row, string) {
	row := Row{
		Title: get("title"),
		Notes: get("notes"),
	}
	if row.Title == "" {
		return row, "title missing"
	}

	if raw := get("due"); raw != "" {
		due, err := parseDate(raw)
		if err != nil {
			return row, fmt.Sprintf("invalid due date %q", raw)
		}
		row.DueDate = &due
	}

	row.Priority = entity.PriorityMedium
	if raw := get("priority"); raw != "" {
		p, ok := parsePriority(raw)
		if !ok {
			return row, fmt.Sprintf("invalid priority %q", raw)
		}
		row.Priority = p
	}

	switch strings.ToLower(get("completed")) {
	case "ja", "yes", "true", "x", "1":
		row.Completed = true
	}

	for _, a := range strings.FieldsFunc(get("assignees"), func(r rune) bool { return r == ',' || r == ';' }) {
		if a = strings.TrimSpace(a); a != "" {
			row.Assignees = append(row.Assignees, a)
		}
	}
	return row, ""
}

var dateLayouts = []string{DateLayout, "02.01.2006", "2006-01-02 15:04", "02.01.2006 15:04", "01-02-06"}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parsePriority(raw string) (entity.TaskPriority, bool) {
	for _, p := range []entity.TaskPriority{entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent} {
		if strings.EqualFold(raw, string(p)) {
			return p, true
		}
	}
	return "", false
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
