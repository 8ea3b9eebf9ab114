package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"datetime",
		"load_kw",
		"wind_kw",
		"solar_kw",
		"storage_kw",
		"soc",
		"action",
		"generation_kw",
		"unmet_kw",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			fmtFloat(r.LoadKW),
			fmtFloat(r.WindKW),
			fmtFloat(r.SolarKW),
			fmtFloat(r.StorageKW),
			fmtFloat(r.SoC),
			string(r.Action),
			fmtFloat(r.GenerationKW),
			fmtFloat(r.UnmetKW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
