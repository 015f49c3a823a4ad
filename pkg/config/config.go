package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/datasets"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

var ErrUnknownStation = errors.New("unknown station")
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Timezone string   `yaml:"timezone"`
	Network  Network  `yaml:"network"`
	Datasets Datasets `yaml:"datasets"`
	Rules    Rules    `yaml:"rules"`
}

type Network struct {
	Origins []ctdf.Station `yaml:"origins"`

	TransferA   string `yaml:"transfer_a"`
	TransferB   string `yaml:"transfer_b"`
	Destination string `yaml:"destination"`

	Labels Labels `yaml:"labels"`
}

// Labels are the route category names shown to riders. Empty labels are
// derived from the station names.
type Labels struct {
	Direct    string `yaml:"direct"`
	TransferA string `yaml:"transfer_a"`
	TransferB string `yaml:"transfer_b"`
}

type Datasets struct {
	Origin   datasets.DataSet `yaml:"origin"`
	Transfer datasets.DataSet `yaml:"transfer"`
}

type Rules struct {
	TransferAMinimum     time.Duration `yaml:"transfer_a_minimum"`
	TransferAMaximumWait time.Duration `yaml:"transfer_a_maximum_wait"`
	TransferBMinimum     time.Duration `yaml:"transfer_b_minimum"`
	DepartureWindow      time.Duration `yaml:"departure_window"`
}

func Default() *Config {
	return &Config{
		Timezone: "Asia/Tokyo",
		Network: Network{
			Origins: []ctdf.Station{
				{Name: "博多", Column: ctdf.ColumnOriginDeparture},
				{Name: "南福岡", Column: ctdf.ColumnIntermediate},
				{Name: "二日市", Column: ctdf.ColumnTransferA},
			},
			TransferA:   "二日市",
			TransferB:   "基山",
			Destination: "けやき台",
		},
		Datasets: Datasets{
			Origin: datasets.DataSet{
				Identifier: "hakata",
				Source:     "data/博多駅時刻表.xlsx",
				HeaderRow:  1,
			},
			Transfer: datasets.DataSet{
				Identifier: "kiyama",
				Source:     "data/基山駅時刻表.xlsx",
				HeaderRow:  1,
			},
		},
		Rules: DefaultRules(),
	}
}

func DefaultRules() Rules {
	return Rules{
		TransferAMinimum:     2 * time.Minute,
		TransferAMaximumWait: 20 * time.Minute,
		TransferBMinimum:     3 * time.Minute,
		DepartureWindow:      30 * time.Minute,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}

	log.Debug().Str("path", path).Msg("Loading config file")

	configYaml, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(configYaml, config); err != nil {
		return nil, err
	}

	return config, nil
}

func Parse(configYaml []byte, config *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(configYaml))
	decoder.KnownFields(true)

	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return config.Validate()
}

func (c *Config) Validate() error {
	if len(c.Network.Origins) == 0 {
		return fmt.Errorf("%w: no origin stations", ErrInvalidConfig)
	}

	seen := map[string]bool{}
	for _, station := range c.Network.Origins {
		if station.Name == "" {
			return fmt.Errorf("%w: origin station without a name", ErrInvalidConfig)
		}
		if seen[station.Name] {
			return fmt.Errorf("%w: duplicate origin station %s", ErrInvalidConfig, station.Name)
		}
		seen[station.Name] = true

		if _, err := ctdf.ParseColumn(string(station.Column)); err != nil {
			return fmt.Errorf("%w: station %s: %w", ErrInvalidConfig, station.Name, err)
		}
	}

	if c.Network.Destination == "" || c.Network.TransferA == "" || c.Network.TransferB == "" {
		return fmt.Errorf("%w: destination and transfer stations must be named", ErrInvalidConfig)
	}

	if c.Rules.TransferAMinimum <= 0 || c.Rules.TransferAMaximumWait <= 0 ||
		c.Rules.TransferBMinimum <= 0 || c.Rules.DepartureWindow <= 0 {
		return fmt.Errorf("%w: rules must be positive", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return location
}

func (c *Config) Station(name string) (ctdf.Station, error) {
	for _, station := range c.Network.Origins {
		if station.Name == name {
			return station, nil
		}
	}

	return ctdf.Station{}, fmt.Errorf("%w: %s", ErrUnknownStation, name)
}

func (c *Config) DirectLabel() string {
	if c.Network.Labels.Direct != "" {
		return c.Network.Labels.Direct
	}

	return "直行"
}

func (c *Config) TransferALabel() string {
	if c.Network.Labels.TransferA != "" {
		return c.Network.Labels.TransferA
	}

	return c.Network.TransferA + "乗換"
}

func (c *Config) TransferBLabel() string {
	if c.Network.Labels.TransferB != "" {
		return c.Network.Labels.TransferB
	}

	return c.Network.TransferB + "経由"
}
