package sheet

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WorkbookSheet is the sheet name used in new workbooks.
const WorkbookSheet = "Outreach"

// recipientCol is the zero-based column holding the recipient address.
const recipientCol = 3

var workbookHeader = []string{"Entreprise", "Date", "Site", "Email"}

// Workbook appends rows to a local .xlsx file, creating it on first use.
type Workbook struct {
	path string
	cfg  RowConfig
	mu   sync.Mutex
}

// NewWorkbook creates a Workbook sink writing to path.
func NewWorkbook(path string, cfg RowConfig) *Workbook {
	return &Workbook{path: path, cfg: cfg}
}

// Append implements Sink. The whole workbook is rewritten on each call.
func (w *Workbook) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "sheet: append cancelled")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, sh, err := w.open()
	if err != nil {
		return err
	}

	row := sh.AddRow()
	for i, v := range Row(e, w.cfg) {
		cell := row.AddCell()
		if i == 2 {
			// HYPERLINK evaluates to a string.
			cell.SetStringFormula(strings.TrimPrefix(v, "="))
			continue
		}
		cell.SetString(v)
	}

	if err := f.Save(w.path); err != nil {
		return eris.Wrapf(err, "sheet: save %s", w.path)
	}
	return nil
}

// Recipients lists the recipient column of every logged row, lowercased.
// A missing workbook has no recipients.
func (w *Workbook) Recipients(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "sheet: recipients cancelled")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	f, err := xlsx.OpenFile(w.path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", w.path)
	}
	sh, err := sheetOf(f)
	if err != nil {
		return nil, err
	}

	var out []string
	for i, row := range sh.Rows {
		if i == 0 || row == nil || len(row.Cells) <= recipientCol {
			continue
		}
		if v := strings.ToLower(strings.TrimSpace(row.Cells[recipientCol].String())); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (w *Workbook) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		f := xlsx.NewFile()
		sh, err := f.AddSheet(WorkbookSheet)
		if err != nil {
			return nil, nil, eris.Wrap(err, "sheet: add sheet")
		}
		header := sh.AddRow()
		for _, h := range workbookHeader {
			header.AddCell().SetString(h)
		}
		return f, sh, nil
	}

	f, err := xlsx.OpenFile(w.path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "sheet: open %s", w.path)
	}
	sh, err := sheetOf(f)
	if err != nil {
		return nil, nil, err
	}
	return f, sh, nil
}

func sheetOf(f *xlsx.File) (*xlsx.Sheet, error) {
	if sh, ok := f.Sheet[WorkbookSheet]; ok {
		return sh, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("sheet: workbook has no sheets")
	}
	return f.Sheets[0], nil
}
