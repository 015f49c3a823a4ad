package xlsxtimetable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/datasets"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/formats"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

type Timetable struct {
	DataSet datasets.DataSet

	rows [][]ctdf.Cell
}

func (t *Timetable) ParseFile(reader io.Reader) error {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return err
	}
	defer workbook.Close()

	sheet := t.DataSet.Sheet
	if sheet == "" {
		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Raw values keep time cells as day fractions instead of formatted text
	rows, err := workbook.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}

	if len(rows) <= t.DataSet.HeaderRow {
		return fmt.Errorf("sheet %s has no header row", sheet)
	}

	header := formats.OriginHeader
	if t.DataSet.Kind == datasets.TimetableKindTransfer {
		header = formats.TransferHeader
	}

	t.rows = [][]ctdf.Cell{}
	firstRow := t.DataSet.HeaderRow + 1
	for index, row := range rows[firstRow:] {
		if formats.IsBlankRecord(row) {
			continue
		}

		rowNumber := firstRow + index + 1
		record := formats.NormaliseRecord(row, len(header))
		cells := make([]ctdf.Cell, len(header))
		for i, value := range record {
			var timeFormatted func() bool
			if formats.IsTimeColumn(header[i]) {
				column := i + 1
				timeFormatted = func() bool {
					return isTimeFormatted(workbook, sheet, column, rowNumber)
				}
			}

			cells[i] = toCell(value, timeFormatted)
		}

		t.rows = append(t.rows, cells)
	}

	log.Debug().Str("dataset", t.DataSet.Identifier).Str("sheet", sheet).Int("rows", len(t.rows)).Msg("Read sheet")

	return nil
}

func (t *Timetable) Import(timetables *ctdf.Timetables) error {
	switch t.DataSet.Kind {
	case datasets.TimetableKindOrigin:
		for _, row := range t.rows {
			timetables.Origin = append(timetables.Origin, ctdf.TimetableEntry{
				DepartureTime:     row[0],
				Destination:       label(row[1]),
				TrainType:         label(row[2]),
				IntermediateTime:  row[3],
				TransferATime:     row[4],
				DirectArrivalTime: row[5],
				TransferBArrival:  row[6],
			})
		}
	case datasets.TimetableKindTransfer:
		for _, row := range t.rows {
			timetables.Transfer = append(timetables.Transfer, ctdf.TransferTimetableEntry{
				DepartureTime:     row[0],
				Destination:       label(row[1]),
				TrainType:         label(row[2]),
				DirectArrivalTime: row[3],
			})
		}
	default:
		return fmt.Errorf("unknown timetable kind %q", t.DataSet.Kind)
	}

	return nil
}

// toCell converts numeric cells with a date or time number format (Excel
// serial days) into time values. Anything else stays as text for the time
// parser to judge.
func toCell(value string, timeFormatted func() bool) ctdf.Cell {
	value = strings.TrimSpace(value)
	if value == "" {
		return ctdf.Cell{}
	}

	if timeFormatted != nil {
		serial, err := strconv.ParseFloat(value, 64)
		if err == nil && serial >= 0 && timeFormatted() {
			return ctdf.NewCell(serialToTime(serial))
		}
	}

	return ctdf.NewCell(value)
}

// Built in number formats that show a date or a time
var builtInTimeFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isTimeFormatted(workbook *excelize.File, sheet string, column int, row int) bool {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return false
	}

	styleID, err := workbook.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}

	style, err := workbook.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}

	if style.CustomNumFmt != nil {
		return isTimeFormatCode(*style.CustomNumFmt)
	}

	return builtInTimeFormats[style.NumFmt]
}

// isTimeFormatCode looks for date or time tokens outside quoted text,
// escapes and bracketed colours or conditions
func isTimeFormatCode(code string) bool {
	code = strings.ToLower(code)
	if code == "general" {
		return false
	}

	var plain strings.Builder
	quoted := false
	bracket := ""
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quoted:
			quoted = c != '"'
		case bracket != "":
			if c == ']' {
				// Elapsed time sections such as [h] and [mm] still count
				if strings.Trim(bracket[1:], "hms") == "" {
					plain.WriteString(bracket[1:])
				}
				bracket = ""
			} else {
				bracket += string(c)
			}
		case c == '"':
			quoted = true
		case c == '[':
			bracket = "["
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			plain.WriteByte(c)
		}
	}

	return strings.ContainsAny(plain.String(), "hmsdy")
}

func serialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 24 * 60 * 60)

	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
}

func label(cell ctdf.Cell) string {
	if cell.Value == nil {
		return ""
	}

	return fmt.Sprint(cell.Value)
}
