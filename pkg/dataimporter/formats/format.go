package formats

import (
	"io"
	"strings"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
)

// Format parses one timetable file and imports its rows into the search tables
type Format interface {
	ParseFile(io.Reader) error
	Import(*ctdf.Timetables) error
}

// Column headers in file order. Files are read by position, A:G for the
// origin timetable and A:D for the transfer timetable.
var (
	OriginHeader   = []string{"dep_time", "dest", "type", "minami_arr", "futsuka_arr", "keyaki_arr", "kiyama_arr"}
	TransferHeader = []string{"dep_time", "dest", "type", "keyaki_arr"}
)

// NormaliseRecord pads or trims a record to the given width
func NormaliseRecord(record []string, width int) []string {
	normalised := make([]string, width)
	copy(normalised, record)

	return normalised
}

func IsBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}

	return true
}

// IsTimeColumn reports whether the header names a time column rather than a label
func IsTimeColumn(header string) bool {
	return header != "dest" && header != "type"
}
