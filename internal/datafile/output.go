package datafile

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/laketemp/internal/types"
)

// OutputRecord is one row of simulation output.
type OutputRecord struct {
	Date string  `json:"date" msgpack:"date"`
	Tepi float64 `json:"tepi" msgpack:"tepi"`
	Thyp float64 `json:"thyp" msgpack:"thyp"`
}

// OutputRecords flattens a simulated series into dated records.
func OutputRecords(s types.SimulatedSeries) []OutputRecord {
	out := make([]OutputRecord, s.Len())
	for i := range out {
		out[i] = OutputRecord{Tepi: s.Tepi[i], Thyp: s.Thyp[i]}
		if i < len(s.Dates) {
			out[i].Date = s.Dates[i].Format(types.DateLayout)
		}
	}
	return out
}

// formatFloat renders v in its shortest exact form, with nan for NaN.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatFixed renders v with three decimals, with nan for NaN.
func formatFixed(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// WriteOutput writes the series as a `date tepi thyp` table.
func WriteOutput(path string, s types.SimulatedSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "date tepi thyp")
	for _, r := range OutputRecords(s) {
		fmt.Fprintf(w, "%s %s %s\n", r.Date, formatFloat(r.Tepi), formatFloat(r.Thyp))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteOutputMsgpack writes the series as a MessagePack array of records.
func WriteOutputMsgpack(path string, s types.SimulatedSeries) error {
	b, err := msgpack.Marshal(OutputRecords(s))
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadOutputMsgpack reads records written by WriteOutputMsgpack.
func ReadOutputMsgpack(path string) ([]OutputRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []OutputRecord
	if err := msgpack.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return out, nil
}

// WriteValidation writes the epilimnion and hypolimnion statistics, one row
// each, below an `n sd r me mae rmse` header.
func WriteValidation(path string, epilimnion, hypolimnion types.ValidationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "n sd r me mae rmse")
	for _, r := range []types.ValidationResult{epilimnion, hypolimnion} {
		fmt.Fprintf(w, "%d %s %s %s %s %s\n", r.N,
			formatFixed(r.SD), formatFixed(r.R), formatFixed(r.ME), formatFixed(r.MAE), formatFixed(r.RMSE))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}
