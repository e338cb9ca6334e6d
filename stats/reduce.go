// Package stats reduces raw benchmark records into summary rows and
// renders them for humans (aligned table) or machines (delimited rows).
package stats

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldCount is the number of ;-separated fields in a raw record.
const FieldCount = 7

// Row is the reduced form of one raw benchmark record. Avg, Min and Max
// share the unit of the raw timing samples (nanoseconds per iteration);
// Var is in squared units.
type Row struct {
	Name  string
	Avg   float64
	Var   float64
	Min   float64
	Max   float64
	Above uint64
	Below uint64
}

// MalformedRecordError reports a raw line that does not match the
// expected name;avg;var;min;max;above;below shape.
type MalformedRecordError struct {
	Line   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q: %s", e.Line, e.Reason)
}

// Reduce parses one raw benchmark output line into a Row.
func Reduce(line string) (Row, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ";")
	if len(fields) != FieldCount {
		return Row{}, &MalformedRecordError{
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(fields)),
		}
	}

	var (
		row Row
		err error
	)
	row.Name = fields[0]
	floats := []struct {
		dst *float64
		idx int
	}{
		{&row.Avg, 1}, {&row.Var, 2}, {&row.Min, 3}, {&row.Max, 4},
	}
	for _, f := range floats {
		*f.dst, err = strconv.ParseFloat(fields[f.idx], 64)
		if err != nil {
			return Row{}, &MalformedRecordError{Line: line, Reason: fmt.Sprintf("field %d: %v", f.idx, err)}
		}
	}
	counts := []struct {
		dst *uint64
		idx int
	}{
		{&row.Above, 5}, {&row.Below, 6},
	}
	for _, c := range counts {
		*c.dst, err = strconv.ParseUint(fields[c.idx], 10, 64)
		if err != nil {
			return Row{}, &MalformedRecordError{Line: line, Reason: fmt.Sprintf("field %d: %v", c.idx, err)}
		}
	}
	return row, nil
}

// Record renders the row in the lossless machine-readable form accepted
// by Reduce: Reduce(r.Record()) yields r again.
func (r Row) Record() string {
	return strings.Join([]string{
		r.Name,
		strconv.FormatFloat(r.Avg, 'g', -1, 64),
		strconv.FormatFloat(r.Var, 'g', -1, 64),
		strconv.FormatFloat(r.Min, 'g', -1, 64),
		strconv.FormatFloat(r.Max, 'g', -1, 64),
		strconv.FormatUint(r.Above, 10),
		strconv.FormatUint(r.Below, 10),
	}, ";")
}
