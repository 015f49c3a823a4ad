package manager

import (
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/datasets"
)

type ColumnReport struct {
	Column     string
	Parsed     int
	Blank      int
	Unparsable int
}

type Report struct {
	Kind    datasets.TimetableKind
	Rows    int
	Columns []ColumnReport
}

// Summarise counts how many cells of every time column the planner will be
// able to use
func Summarise(timetables *ctdf.Timetables) []Report {
	origin := Report{
		Kind: datasets.TimetableKindOrigin,
		Rows: len(timetables.Origin),
	}
	for _, column := range []ctdf.Column{
		ctdf.ColumnOriginDeparture,
		ctdf.ColumnIntermediate,
		ctdf.ColumnTransferA,
		ctdf.ColumnDirectArrival,
		ctdf.ColumnTransferB,
	} {
		columnReport := ColumnReport{Column: string(column)}
		for i := range timetables.Origin {
			columnReport.count(timetables.Origin[i].Cell(column))
		}
		origin.Columns = append(origin.Columns, columnReport)
	}

	transfer := Report{
		Kind: datasets.TimetableKindTransfer,
		Rows: len(timetables.Transfer),
	}
	departures := ColumnReport{Column: string(ctdf.ColumnOriginDeparture)}
	arrivals := ColumnReport{Column: string(ctdf.ColumnDirectArrival)}
	for _, entry := range timetables.Transfer {
		departures.count(entry.DepartureTime)
		arrivals.count(entry.DirectArrivalTime)
	}
	transfer.Columns = []ColumnReport{departures, arrivals}

	return []Report{origin, transfer}
}

func (c *ColumnReport) count(cell ctdf.Cell) {
	if cell.IsBlank() {
		c.Blank++
		return
	}

	if _, ok := cell.Time(); ok {
		c.Parsed++
	} else {
		c.Unparsable++
	}
}
