package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/datasets"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/formats"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/formats/csvtimetable"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/formats/xlsxtimetable"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

var ErrTimetableLoad = errors.New("failed to load timetable")

// Loader reads the origin and transfer timetables. Local files are kept in
// memory until they change on disk; every caller gets its own copy.
type Loader struct {
	Origin   datasets.DataSet
	Transfer datasets.DataSet

	mutex sync.Mutex
	cache map[string]cachedDataSet
}

type cachedDataSet struct {
	modTime time.Time
	size    int64

	timetables ctdf.Timetables
}

func NewLoader(origin datasets.DataSet, transfer datasets.DataSet) *Loader {
	origin.Kind = datasets.TimetableKindOrigin
	transfer.Kind = datasets.TimetableKindTransfer

	return &Loader{
		Origin:   origin,
		Transfer: transfer,
		cache:    map[string]cachedDataSet{},
	}
}

func (l *Loader) Load(ctx context.Context) (*ctdf.Timetables, error) {
	var origin, transfer ctdf.Timetables

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return l.loadDataSet(ctx, l.Origin, &origin)
	})
	p.Go(func(ctx context.Context) error {
		return l.loadDataSet(ctx, l.Transfer, &transfer)
	})

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &ctdf.Timetables{
		Origin:   origin.Origin,
		Transfer: transfer.Transfer,
	}, nil
}

func (l *Loader) loadDataSet(ctx context.Context, dataset datasets.DataSet, destination *ctdf.Timetables) error {
	source := dataset.Source
	var fileInfo os.FileInfo

	if isValidUrl(dataset.Source) {
		tempFile, err := tempDownloadFile(ctx, dataset.Source)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
		}
		defer os.Remove(tempFile.Name())

		source = tempFile.Name()
	} else {
		var err error
		fileInfo, err = os.Stat(source)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
		}

		if cached, ok := l.cached(source, fileInfo); ok {
			log.Debug().Str("dataset", dataset.Identifier).Msg("Using cached timetable")
			return copyTimetables(destination, &cached)
		}
	}

	format, err := newFormat(dataset)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
	}

	file, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
	}
	defer file.Close()

	log.Info().Str("dataset", dataset.Identifier).Str("file", dataset.Source).Msg("Loading file")

	if err := format.ParseFile(file); err != nil {
		return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
	}

	loaded := ctdf.Timetables{}
	if err := format.Import(&loaded); err != nil {
		return fmt.Errorf("%w %s: %w", ErrTimetableLoad, dataset.Identifier, err)
	}

	log.Info().
		Str("dataset", dataset.Identifier).
		Int("origin", len(loaded.Origin)).
		Int("transfer", len(loaded.Transfer)).
		Msg("Loaded timetable")

	if fileInfo != nil {
		l.store(source, fileInfo, loaded)
	}

	return copyTimetables(destination, &loaded)
}

func (l *Loader) cached(source string, fileInfo os.FileInfo) (ctdf.Timetables, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cached, ok := l.cache[source]
	if !ok || !cached.modTime.Equal(fileInfo.ModTime()) || cached.size != fileInfo.Size() {
		return ctdf.Timetables{}, false
	}

	return cached.timetables, true
}

func (l *Loader) store(source string, fileInfo os.FileInfo, timetables ctdf.Timetables) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.cache[source] = cachedDataSet{
		modTime:    fileInfo.ModTime(),
		size:       fileInfo.Size(),
		timetables: timetables,
	}
}

// Cell values are immutable and shared between copies
var cellConverter = copier.TypeConverter{
	SrcType: ctdf.Cell{},
	DstType: ctdf.Cell{},
	Fn: func(src interface{}) (interface{}, error) {
		return src, nil
	},
}

func copyTimetables(destination *ctdf.Timetables, source *ctdf.Timetables) error {
	return copier.CopyWithOption(destination, source, copier.Option{
		DeepCopy:   true,
		Converters: []copier.TypeConverter{cellConverter},
	})
}

func newFormat(dataset datasets.DataSet) (formats.Format, error) {
	format, err := dataset.ResolveFormat()
	if err != nil {
		return nil, err
	}

	switch format {
	case datasets.DataSetFormatXLSX:
		return &xlsxtimetable.Timetable{DataSet: dataset}, nil
	case datasets.DataSetFormatCSV:
		return &csvtimetable.Timetable{DataSet: dataset}, nil
	default:
		return nil, fmt.Errorf("unrecognised format %s", format)
	}
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

func tempDownloadFile(ctx context.Context, source string) (*os.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(os.TempDir(), "keyakigo-data-importer-")
	if err != nil {
		return nil, err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return nil, err
	}

	return tmpFile, nil
}
