package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tkmc-personal/hybridsizer/internal/model"
)

// Resource column names. A resource CSV must carry a "datetime" column plus
// the column for the model it feeds.
const (
	ColumnWindSpeed  = "wind speed" // m/s
	ColumnIrradiance = "irradiance" // kW/m^2
	ColumnLoad       = "load"       // kW
	columnDatetime   = "datetime"
	columnPower      = "power" // kW, power curve only
)

// timeLayout is the datetime format of the resource files: day first.
const timeLayout = "02/01/2006 15:04"

// LoadResourceCSV reads a resource profile from path. column selects the
// scalar column required by the consuming model (ColumnWindSpeed,
// ColumnIrradiance or ColumnLoad). A missing required column is fatal:
// ingestion fails before any simulation starts.
func LoadResourceCSV(path, column string) (Series, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	timeIdx, err := columnIndex(records[0], columnDatetime, path)
	if err != nil {
		return nil, err
	}
	valIdx, err := columnIndex(records[0], column, path)
	if err != nil {
		return nil, err
	}

	series := make(Series, 0, len(records)-1)
	for i, row := range records[1:] {
		ts, err := time.Parse(timeLayout, row[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad datetime %q: %w", path, i+1, row[timeIdx], err)
		}
		v, err := strconv.ParseFloat(row[valIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad %s value %q: %w", path, i+1, column, row[valIdx], err)
		}
		series = append(series, Sample{Timestamp: ts, Value: v})
	}
	return series, nil
}

// LoadPowerCurveCSV reads a turbine power curve from path. The file needs
// "wind speed" and "power" columns and no datetime column.
func LoadPowerCurveCSV(path string) (model.PowerCurve, error) {
	records, err := readCSV(path)
	if err != nil {
		return model.PowerCurve{}, err
	}

	speedIdx, err := columnIndex(records[0], ColumnWindSpeed, path)
	if err != nil {
		return model.PowerCurve{}, err
	}
	powerIdx, err := columnIndex(records[0], columnPower, path)
	if err != nil {
		return model.PowerCurve{}, err
	}

	curve := model.PowerCurve{Points: make([]model.CurvePoint, 0, len(records)-1)}
	for i, row := range records[1:] {
		speed, err := strconv.ParseFloat(row[speedIdx], 64)
		if err != nil {
			return model.PowerCurve{}, fmt.Errorf("%s row %d: bad wind speed %q: %w", path, i+1, row[speedIdx], err)
		}
		power, err := strconv.ParseFloat(row[powerIdx], 64)
		if err != nil {
			return model.PowerCurve{}, fmt.Errorf("%s row %d: bad power %q: %w", path, i+1, row[powerIdx], err)
		}
		curve.Points = append(curve.Points, model.CurvePoint{WindSpeed: speed, Power: power})
	}
	if err := curve.Validate(); err != nil {
		return model.PowerCurve{}, fmt.Errorf("%s: %w", path, err)
	}
	return curve, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	return records, nil
}

func columnIndex(header []string, name, path string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: resource must contain a column named %q", path, name)
}
