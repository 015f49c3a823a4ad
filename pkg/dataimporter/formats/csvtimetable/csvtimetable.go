package csvtimetable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/datasets"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/formats"
	"github.com/rs/zerolog/log"
)

type Timetable struct {
	DataSet datasets.DataSet

	Origin   []ctdf.TimetableEntry
	Transfer []ctdf.TransferTimetableEntry
}

func (t *Timetable) ParseFile(reader io.Reader) error {
	csvReader := csv.NewReader(reader)
	// Allow us to ignore those naughty records that have missing columns
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return err
	}

	if len(records) <= t.DataSet.HeaderRow {
		return errors.New("file has no header row")
	}

	header := t.header()

	// Rewrite the rows under our own header so gocsv can map them by name
	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	writer.Write(header)

	skipped := 0
	for _, record := range records[t.DataSet.HeaderRow+1:] {
		if formats.IsBlankRecord(record) {
			skipped++
			continue
		}
		writer.Write(formats.NormaliseRecord(record, len(header)))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	log.Debug().Str("dataset", t.DataSet.Identifier).Int("blank", skipped).Msg("Skipped blank rows")

	switch t.DataSet.Kind {
	case datasets.TimetableKindOrigin:
		err = gocsv.Unmarshal(buffer, &t.Origin)
	case datasets.TimetableKindTransfer:
		err = gocsv.Unmarshal(buffer, &t.Transfer)
	}
	if err != nil {
		return fmt.Errorf("failed to parse csv file: %w", err)
	}

	return nil
}

func (t *Timetable) Import(timetables *ctdf.Timetables) error {
	switch t.DataSet.Kind {
	case datasets.TimetableKindOrigin:
		timetables.Origin = append(timetables.Origin, t.Origin...)
	case datasets.TimetableKindTransfer:
		timetables.Transfer = append(timetables.Transfer, t.Transfer...)
	default:
		return fmt.Errorf("unknown timetable kind %q", t.DataSet.Kind)
	}

	return nil
}

func (t *Timetable) header() []string {
	if t.DataSet.Kind == datasets.TimetableKindTransfer {
		return formats.TransferHeader
	}

	return formats.OriginHeader
}
