package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/journeyplanner"
	"github.com/keyakigo/keyakigo/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTimetables struct {
	timetables *ctdf.Timetables
	err        error
}

func (s staticTimetables) Load(ctx context.Context) (*ctdf.Timetables, error) {
	return s.timetables, s.err
}

func fixtureTimetables() *ctdf.Timetables {
	return &ctdf.Timetables{
		Origin: []ctdf.TimetableEntry{
			{
				DepartureTime:     ctdf.NewCell("08:00"),
				Destination:       "鳥栖",
				TrainType:         "普通",
				TransferATime:     ctdf.NewCell("08:15"),
				DirectArrivalTime: ctdf.NewCell("08:40"),
				TransferBArrival:  ctdf.NewCell("08:30"),
			},
			{
				DepartureTime:     ctdf.NewCell("08:05"),
				Destination:       "荒木",
				TrainType:         "快速",
				TransferATime:     ctdf.NewCell("08:18"),
				DirectArrivalTime: ctdf.NewCell("08:32"),
			},
		},
		Transfer: []ctdf.TransferTimetableEntry{
			{
				DepartureTime:     ctdf.NewCell("08:33"),
				Destination:       "博多",
				TrainType:         "普通",
				DirectArrivalTime: ctdf.NewCell("08:37"),
			},
		},
	}
}

func newTestApp(t *testing.T, provider journeyplanner.TimetableProvider) *fiber.App {
	t.Helper()

	keyakigoConfig := config.Default()

	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}
	dataaggregator.GlobalAggregator.RegisterSource(journeyplanner.Source{
		Planner:    journeyplanner.NewPlanner(keyakigoConfig),
		Timetables: provider,
	})

	return NewApp(keyakigoConfig, settings.NewMemoryStore())
}

func doRequest(t *testing.T, app *fiber.App, method string, target string, body string) (int, map[string]interface{}) {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, bodyReader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func stationPath(prefix string, station string) string {
	return prefix + url.PathEscape(station)
}

func TestVersion(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, "/core/version", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["version"])
}

func TestStations(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, "/core/stations", "")
	require.Equal(t, http.StatusOK, status)

	origins := body["origins"].([]interface{})
	require.Len(t, origins, 3)
	assert.Equal(t, map[string]interface{}{"name": "博多"}, origins[0])
	assert.Equal(t, "けやき台", body["destination"])
}

func TestDepartures(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/departures/", "博多"), "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "博多", body["station"])
	assert.ElementsMatch(t, []interface{}{"08:00", "08:05"}, body["departures"])

	status, _ = doRequest(t, app, http.MethodGet, stationPath("/core/departures/", "小倉"), "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doRequest(t, app, http.MethodGet, stationPath("/core/departures/", "南福岡"), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no data", body["error"])
}

func TestPlanner(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=08:00&date=2026-04-01", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "博多", body["origin_station"])
	assert.Equal(t, "2026-04-01", body["service_date"])
	assert.NotContains(t, body, "routes")
	assert.NotContains(t, body, "message")

	best := body["best"].(map[string]interface{})
	assert.Equal(t, "08:32", best["arrival"])
	assert.NotContains(t, best, "arrival_instant")

	// The direct train arrives at the same time but is shorter, its delta clamps to zero
	alternatives := body["alternatives"].([]interface{})
	require.Len(t, alternatives, 3)
	assert.Equal(t, float64(0), alternatives[0].(map[string]interface{})["minutes_behind"])
}

func TestPlannerDetailed(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=08:00&date=2026-04-01&detailed=true", "")
	require.Equal(t, http.StatusOK, status)

	assert.Len(t, body["routes"], 4)
	assert.Contains(t, body["best"], "arrival_instant")
}

func TestPlannerNoRoute(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=23:00", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "no route found", body["message"])
	assert.Nil(t, body["best"])
	assert.Empty(t, body["alternatives"])
}

func TestPlannerBadRequests(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, _ := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=8am", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=08:00&date=01/04/2026", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "小倉")+"?time=08:00", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlannerNoData(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "南福岡"), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no data", body["error"])

	status, body = doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "南福岡")+"?time=08:00", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no data", body["error"])
}

func TestPlannerTimetableUnavailable(t *testing.T) {
	app := newTestApp(t, staticTimetables{err: errors.New("failed to load timetable")})

	status, body := doRequest(t, app, http.MethodGet, stationPath("/core/planner/", "博多")+"?time=08:00", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "failed to load timetable", body["error"])
}

func TestSettings(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})

	status, body := doRequest(t, app, http.MethodGet, "/core/settings/browser-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(100), body["zoom"])
	assert.Equal(t, true, body["blur"])

	status, body = doRequest(t, app, http.MethodPut, "/core/settings/browser-1", `{"zoom": 150, "blur": false}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(150), body["zoom"])
	assert.Equal(t, float64(50), body["pos_x"])

	status, body = doRequest(t, app, http.MethodGet, "/core/settings/browser-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(150), body["zoom"])
	assert.Equal(t, false, body["blur"])

	status, _ = doRequest(t, app, http.MethodPut, "/core/settings/browser-1", `{"zoom": 1000}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodDelete, "/core/settings/browser-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(100), body["zoom"])

	status, body = doRequest(t, app, http.MethodGet, "/core/settings/browser-1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(100), body["zoom"])
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t, staticTimetables{timetables: fixtureTimetables()})
	doRequest(t, app, http.MethodGet, "/core/version", "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "keyakigo_http_requests_total")
}

func TestMetricsAfterSettingsRequests(t *testing.T) {
	keyakigoConfig := config.Default()
	store := settings.NewMemoryStore()
	app := NewApp(keyakigoConfig, store)

	status, _ := doRequest(t, app, http.MethodGet, "/core/settings/tablet", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPut, "/core/settings/tablet", `{"zoom": 120}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPut, "/core/settings/phone", `{"zoom": 80}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodDelete, "/core/settings/tablet", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, "/core/version", "")
	require.Equal(t, http.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `method="PUT"`)
	assert.Contains(t, string(metrics), `method="DELETE"`)
	assert.Contains(t, string(metrics), `method="GET"`)

	// The session saved by an earlier request is still under its own id
	saved, err := store.Load(context.Background(), "phone")
	require.NoError(t, err)
	assert.Equal(t, 80, saved.Zoom)
}
