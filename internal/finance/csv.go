package finance

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteCashFlowCSV writes a discounted cash-flow schedule with the columns
// {Year, Discount Factor, Capital, Replacement, Salvage, O&M, Total}.
func WriteCashFlowCSV(path string, rows []CashFlowRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Year", "Discount Factor", "Capital", "Replacement", "Salvage", "O&M", "Total"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.FormatFloat(r.Year, 'f', -1, 64),
			strconv.FormatFloat(r.DiscountFactor, 'f', 3, 64),
			strconv.FormatFloat(r.Capital, 'f', 0, 64),
			strconv.FormatFloat(r.Replacement, 'f', 0, 64),
			strconv.FormatFloat(r.Salvage, 'f', 0, 64),
			strconv.FormatFloat(r.OM, 'f', 0, 64),
			strconv.FormatFloat(r.Total, 'f', 0, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
