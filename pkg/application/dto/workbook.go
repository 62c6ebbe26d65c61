package dto

// Workbook is a format-neutral tabular report: an ordered list of named sheets
type Workbook struct {
	Sheets []Sheet
}

// Sheet is one table of a Workbook. Widths holds one display width per column.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
	Widths  []int
}

// Sheet returns the sheet with the given name, or nil
func (w *Workbook) Sheet(name string) *Sheet {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i]
		}
	}
	return nil
}
