package table

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX loads the first sheet of a workbook. The first row is the header;
// cells past the header width are ignored.
func LoadXLSX(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoColumns
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoColumns
	}
	b := newBuilder(filepath.Base(path), rows[0], opt.MaxRows)
	for _, row := range rows[1:] {
		if len(row) > len(b.cols) {
			row = row[:len(b.cols)]
		}
		if !b.add(row) {
			break
		}
	}
	return b.build(), nil
}
