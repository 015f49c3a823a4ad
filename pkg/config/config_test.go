package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	require.NoError(t, config.Validate())
	assert.Len(t, config.Network.Origins, 3)
	assert.Equal(t, "Asia/Tokyo", config.Location().String())
	assert.Equal(t, 2*time.Minute, config.Rules.TransferAMinimum)
	assert.Equal(t, 20*time.Minute, config.Rules.TransferAMaximumWait)
	assert.Equal(t, 3*time.Minute, config.Rules.TransferBMinimum)
	assert.Equal(t, 30*time.Minute, config.Rules.DepartureWindow)

	assert.Equal(t, "直行", config.DirectLabel())
	assert.Equal(t, "二日市乗換", config.TransferALabel())
	assert.Equal(t, "基山経由", config.TransferBLabel())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyakigo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: Asia/Tokyo
network:
  origins:
    - name: 博多
      column: dep_time
  transfer_a: 二日市
  transfer_b: 基山
  destination: けやき台
  labels:
    transfer_b: 基山乗換
datasets:
  origin:
    identifier: hakata
    source: data/hakata.csv
    header_row: 1
rules:
  transfer_a_maximum_wait: 15m
`), 0o644))

	config, err := Load(path)
	require.NoError(t, err)

	require.Len(t, config.Network.Origins, 1)
	assert.Equal(t, ctdf.ColumnOriginDeparture, config.Network.Origins[0].Column)
	assert.Equal(t, "data/hakata.csv", config.Datasets.Origin.Source)
	assert.Equal(t, "kiyama", config.Datasets.Transfer.Identifier)
	assert.Equal(t, 15*time.Minute, config.Rules.TransferAMaximumWait)
	assert.Equal(t, 2*time.Minute, config.Rules.TransferAMinimum)
	assert.Equal(t, "基山乗換", config.TransferBLabel())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown column", "network:\n  origins:\n    - name: 博多\n      column: platform\n"},
		{"no origins", "network:\n  origins: []\n"},
		{"duplicate origin", "network:\n  origins:\n    - {name: 博多, column: dep_time}\n    - {name: 博多, column: minami_arr}\n"},
		{"negative rule", "rules:\n  departure_window: -5m\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"unknown field", "colour: blue\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Parse([]byte(test.yaml), Default())
			assert.Error(t, err)
		})
	}
}

func TestStation(t *testing.T) {
	config := Default()

	station, err := config.Station("南福岡")
	require.NoError(t, err)
	assert.Equal(t, ctdf.ColumnIntermediate, station.Column)

	_, err = config.Station("小倉")
	assert.ErrorIs(t, err, ErrUnknownStation)
}
