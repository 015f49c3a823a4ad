package config

import "github.com/urfave/cli/v2"

func Flag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML file describing the network, timetables and connection rules",
		EnvVars: []string{"KEYAKIGO_CONFIG"},
	}
}

// FromCLI loads the config named by the --config flag of the command or any parent
func FromCLI(c *cli.Context) (*Config, error) {
	return Load(c.String("config"))
}
