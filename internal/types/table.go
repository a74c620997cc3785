package types

import (
	"time"
)

const (
	// DateLayout renders the index of daily and longer intervals.
	DateLayout = "2006-01-02"
	// DatetimeLayout renders the index of intraday intervals.
	DatetimeLayout = "2006-01-02 15:04:05-07:00"
)

// Schema describes the shape of a price table: which ticker it holds and which
// columns the provider returned.
type Schema struct {
	Ticker   string
	Interval Interval
	// Location is the zone index timestamps are rendered in. Nil means UTC.
	Location *time.Location
	Columns  []Column
}

// IndexLabel is the header of the leading date column.
func (s Schema) IndexLabel() string {
	if s.Interval.IsIntraday() {
		return "Datetime"
	}

	return "Date"
}

// Header returns the full header row, index first.
func (s Schema) Header() []string {
	header := make([]string, 0, len(s.Columns)+1)
	header = append(header, s.IndexLabel())

	for _, column := range s.Columns {
		header = append(header, string(column))
	}

	return header
}

// FormatTime renders a bar time as an index value.
func (s Schema) FormatTime(t time.Time) string {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}

	if s.Interval.IsIntraday() {
		return t.In(loc).Format(DatetimeLayout)
	}

	return t.In(loc).Format(DateLayout)
}

// Record renders bar as one row matching Header.
func (s Schema) Record(bar Bar) []string {
	record := make([]string, 0, len(s.Columns)+1)
	record = append(record, s.FormatTime(bar.Time))

	for _, column := range s.Columns {
		record = append(record, column.Format(bar))
	}

	return record
}

// PriceTable is the in-memory result of one download.
type PriceTable struct {
	Schema

	// Bars are kept in provider order.
	Bars []Bar
}

// NewPriceTable creates an empty table with the given schema.
func NewPriceTable(schema Schema) *PriceTable {
	return &PriceTable{
		Schema: schema,
		Bars:   []Bar{},
	}
}

// Append adds a bar at the end of the table.
func (t *PriceTable) Append(bar Bar) {
	t.Bars = append(t.Bars, bar)
}

// Len returns the number of rows.
func (t *PriceTable) Len() int {
	return len(t.Bars)
}

// Head returns up to n leading bars. The slice shares storage with the table.
func (t *PriceTable) Head(n int) []Bar {
	if n < 0 {
		n = 0
	}

	if n > len(t.Bars) {
		n = len(t.Bars)
	}

	return t.Bars[:n]
}

// Records renders every bar, header excluded.
func (t *PriceTable) Records() [][]string {
	records := make([][]string, 0, len(t.Bars))
	for _, bar := range t.Bars {
		records = append(records, t.Record(bar))
	}

	return records
}

// Clip drops bars outside [start, end) and returns how many were dropped.
func (t *PriceTable) Clip(start, end time.Time) int {
	kept := t.Bars[:0]

	for _, bar := range t.Bars {
		if bar.Time.Before(start) || !bar.Time.Before(end) {
			continue
		}

		kept = append(kept, bar)
	}

	dropped := len(t.Bars) - len(kept)
	t.Bars = kept

	return dropped
}
