package ctdf

import (
	"errors"
	"fmt"
)

// Column names the time columns of the origin timetable. The first three
// double as the departure column of each query origin.
type Column string

const (
	ColumnOriginDeparture Column = "dep_time"
	ColumnIntermediate    Column = "minami_arr"
	ColumnTransferA       Column = "futsuka_arr"
	ColumnDirectArrival   Column = "keyaki_arr"
	ColumnTransferB       Column = "kiyama_arr"
)

var ErrUnknownColumn = errors.New("unknown timetable column")

func ParseColumn(s string) (Column, error) {
	switch column := Column(s); column {
	case ColumnOriginDeparture, ColumnIntermediate, ColumnTransferA, ColumnDirectArrival, ColumnTransferB:
		return column, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, s)
	}
}

// TimetableEntry is one train in the origin timetable
type TimetableEntry struct {
	DepartureTime     Cell   `csv:"dep_time"`
	Destination       string `csv:"dest"`
	TrainType         string `csv:"type"`
	IntermediateTime  Cell   `csv:"minami_arr"`
	TransferATime     Cell   `csv:"futsuka_arr"`
	DirectArrivalTime Cell   `csv:"keyaki_arr"`
	TransferBArrival  Cell   `csv:"kiyama_arr"`
}

func (e *TimetableEntry) Cell(column Column) Cell {
	switch column {
	case ColumnOriginDeparture:
		return e.DepartureTime
	case ColumnIntermediate:
		return e.IntermediateTime
	case ColumnTransferA:
		return e.TransferATime
	case ColumnDirectArrival:
		return e.DirectArrivalTime
	case ColumnTransferB:
		return e.TransferBArrival
	default:
		return Cell{}
	}
}

// TransferTimetableEntry is one train departing station B towards the destination
type TransferTimetableEntry struct {
	DepartureTime     Cell   `csv:"dep_time"`
	Destination       string `csv:"dest"`
	TrainType         string `csv:"type"`
	DirectArrivalTime Cell   `csv:"keyaki_arr"`
}

// Timetables is the pair of tables a search runs over. Row order is the
// order of the source file.
type Timetables struct {
	Origin   []TimetableEntry
	Transfer []TransferTimetableEntry
}
