package quandl

// ---------------------------------------------------------------------------
// Dataset API response types (api/v3/datasets).
// ---------------------------------------------------------------------------

// quandlDatasetResponse wraps a dataset endpoint response.
type quandlDatasetResponse struct {
	Dataset quandlDataset `json:"dataset"`
}

// quandlDataset is the column-oriented dataset payload. Rows in Data are
// positional; ColumnNames gives the meaning of each position.
type quandlDataset struct {
	ID           int64    `json:"id"`
	DatasetCode  string   `json:"dataset_code"`
	DatabaseCode string   `json:"database_code"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	ColumnNames  []string `json:"column_names"`
	Frequency    string   `json:"frequency,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Data         [][]any  `json:"data"`
	Order        string   `json:"order,omitempty"`
}

// columnIndex maps column names to their positions, for column-order parsing.
func (d quandlDataset) columnIndex() map[string]int {
	idx := make(map[string]int, len(d.ColumnNames))
	for i, name := range d.ColumnNames {
		idx[name] = i
	}
	return idx
}

// cell returns the row value at the named column, or nil when the column is
// absent or the row is short.
func (d quandlDataset) cell(row []any, idx map[string]int, column string) any {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// quandlErrorResponse is Quandl's documented error body.
type quandlErrorResponse struct {
	QuandlError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"quandl_error"`
}

// ---------------------------------------------------------------------------
// Cell coercion helpers.
// ---------------------------------------------------------------------------

// asFloat coerces a dataset cell to float64 (Quandl serves numbers as JSON
// floats, but null cells decode to nil).
func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

// asString coerces a dataset cell to string.
func asString(v any) string {
	s, _ := v.(string)
	return s
}
