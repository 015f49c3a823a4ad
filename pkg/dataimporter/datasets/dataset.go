package datasets

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

type DataSet struct {
	Identifier string        `yaml:"identifier"`
	Format     DataSetFormat `yaml:"format"`
	Source     string        `yaml:"source"`

	// Sheet is only used by spreadsheet formats, the first sheet when empty
	Sheet string `yaml:"sheet"`

	// HeaderRow is the zero based row holding the column headers. Rows above
	// it are titles and are skipped.
	HeaderRow int `yaml:"header_row"`

	Kind TimetableKind `yaml:"-"`
}

type DataSetFormat string

const (
	DataSetFormatXLSX DataSetFormat = "xlsx"
	DataSetFormatCSV  DataSetFormat = "csv"
)

type TimetableKind string

const (
	TimetableKindOrigin   TimetableKind = "origin"
	TimetableKindTransfer TimetableKind = "transfer"
)

// ResolveFormat returns the explicit format or infers one from the source file extension
func (d *DataSet) ResolveFormat() (DataSetFormat, error) {
	if d.Format != "" {
		switch d.Format {
		case DataSetFormatXLSX, DataSetFormatCSV:
			return d.Format, nil
		default:
			return "", fmt.Errorf("unrecognised format %s", d.Format)
		}
	}

	switch strings.ToLower(d.sourceExtension()) {
	case ".xlsx", ".xlsm":
		return DataSetFormatXLSX, nil
	case ".csv", ".txt":
		return DataSetFormatCSV, nil
	default:
		return "", fmt.Errorf("cannot infer format of %s", d.Source)
	}
}

// sourceExtension ignores the query string and fragment of URL sources
func (d *DataSet) sourceExtension() string {
	if u, err := url.Parse(d.Source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return path.Ext(u.Path)
	}

	return filepath.Ext(d.Source)
}
