package export

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 10
	maxColWidth = 60
	// rows sampled when sizing columns
	widthSample = 50
)

// SheetSpec is one worksheet: a header row followed by string rows
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Workbook wraps an excelize file built from sheet specs
type Workbook struct {
	File *excelize.File
}

// NewWorkbook renders sheets into a new workbook. Each header row is bold and carries
// an auto filter; column widths follow content length.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("new header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		if err := writeSheet(f, s, bold); err != nil {
			return nil, err
		}
	}

	return &Workbook{File: f}, nil
}

func writeSheet(f *excelize.File, s SheetSpec, headerStyle int) error {
	if len(s.Header) == 0 {
		return fmt.Errorf("sheet %q has no header", s.Title)
	}

	for c, h := range s.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(s.Title, cell, h); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	for r, row := range s.Rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(s.Title, cell, val); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
	_ = f.SetCellStyle(s.Title, "A1", end, headerStyle)
	_ = f.AutoFilter(s.Title, "A1:"+end, nil)

	for c := range s.Header {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(s.Title, col, col, columnWidth(s, c))
	}
	return nil
}

func columnWidth(s SheetSpec, c int) float64 {
	longest := utf8.RuneCountInString(s.Header[c]) + 2
	for r := 0; r < len(s.Rows) && r < widthSample; r++ {
		if c < len(s.Rows[r]) {
			// CJK glyphs render about twice as wide as latin ones
			if l := visualWidth(s.Rows[r][c]); l > longest {
				longest = l
			}
		}
	}
	w := float64(longest) * 1.1
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

func visualWidth(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x2E80 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// WriteTo streams the workbook as xlsx
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.File.WriteTo(out)
}

// Close releases the workbook's temporary resources
func (w *Workbook) Close() error {
	return w.File.Close()
}

// Filename builds a dated download name such as students_2024-06-01.xlsx
func Filename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, at.Format("2006-01-02"))
}
