package export

// Column describes one exported column. Weight sets its relative width in
// paginated formats; zero means equal share.
type Column struct {
	Key    string
	Label  string
	Weight float64
}

// Table is the renderer-independent export shape. Row values are keyed by
// Column.Key; missing keys render empty.
type Table struct {
	Columns []Column
	Rows    []map[string]string
}

func (t Table) labels() []string {
	labels := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		labels[i] = col.Label
	}
	return labels
}

func (t Table) record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		record[i] = row[col.Key]
	}
	return record
}

func (t Table) weights() []float64 {
	total := 0.0
	for _, col := range t.Columns {
		if col.Weight > 0 {
			total += col.Weight
		} else {
			total++
		}
	}
	weights := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		w := col.Weight
		if w <= 0 {
			w = 1
		}
		weights[i] = w / total
	}
	return weights
}
