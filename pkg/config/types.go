package config

import (
	"time"
)

// Duration reads values such as "400ms" from every config source.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	value, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(value)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Creative struct {
	// How long to watch for the server undoing a slot change on versions
	// that do not acknowledge them.
	WaitTimeout Duration `yaml:"waitTimeout" json:"waitTimeout" env:"WAIT_TIMEOUT"`
	FlightSpeed float64  `yaml:"flightSpeed" json:"flightSpeed" env:"FLIGHT_SPEED"`
}

type Capture struct {
	// Empty disables recording.
	Directory string `yaml:"directory" json:"directory" env:"DIR"`
}

// Snapshots are written to Redis when an address is set and to Directory
// otherwise.
type Snapshots struct {
	Directory string `yaml:"directory" json:"directory" env:"DIR"`
	Redis     string `yaml:"redis" json:"redis" env:"REDIS"`
}

type Config struct {
	Username  string    `yaml:"username" json:"username" env:"USERNAME"`
	Version   string    `yaml:"version" json:"version" env:"VERSION"`
	Brand     string    `yaml:"brand" json:"brand" env:"BRAND"`
	Creative  Creative  `yaml:"creative" json:"creative" envPrefix:"CREATIVE_"`
	Capture   Capture   `yaml:"capture" json:"capture" envPrefix:"CAPTURE_"`
	Snapshots Snapshots `yaml:"snapshots" json:"snapshots" envPrefix:"SNAPSHOT_"`
}
