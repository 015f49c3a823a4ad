package dataaggregator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stationName string

type fixedSource struct {
	name   string
	answer any
	err    error
}

func (f fixedSource) GetName() string {
	return f.name
}

func (f fixedSource) Supports() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(stationName(""))}
}

func (f fixedSource) Lookup(q any) (interface{}, error) {
	return f.answer, f.err
}

func TestLookupFallsThroughUnsupported(t *testing.T) {
	aggregator := &Aggregator{}
	aggregator.RegisterSource(fixedSource{name: "first", err: source.UnsupportedSourceError})
	aggregator.RegisterSource(fixedSource{name: "second", answer: stationName("基山")})

	value, err := LookupFrom[stationName](aggregator, "query")
	require.NoError(t, err)
	assert.Equal(t, stationName("基山"), value)
}

func TestLookupReturnsSourceError(t *testing.T) {
	failure := errors.New("timetable missing")

	aggregator := &Aggregator{}
	aggregator.RegisterSource(fixedSource{name: "failing", err: failure})
	aggregator.RegisterSource(fixedSource{name: "second", answer: stationName("基山")})

	_, err := LookupFrom[stationName](aggregator, "query")
	assert.ErrorIs(t, err, failure)
}

func TestLookupNoSource(t *testing.T) {
	GlobalAggregator = Aggregator{}

	_, err := Lookup[stationName]("query")
	assert.ErrorIs(t, err, ErrNoMatchingSource)
}
