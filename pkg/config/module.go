package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cfoust/craftbot/pkg/features"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

const EnvPrefix = "CRAFTBOT_"

var ErrInvalid = errors.New("invalid config")

// mergeFile decodes a file over config. Only the keys present in the
// file are changed.
func mergeFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	extension := filepath.Ext(path)
	switch extension {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(config)
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err := decoder.Decode(config)
		// An empty file changes nothing
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	return fmt.Errorf(
		"not in a valid format",
	)
}

func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("%w: username must not be empty", ErrInvalid)
	}

	if _, err := features.ForVersion(c.Version); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Creative.WaitTimeout < 0 {
		return fmt.Errorf("%w: creative wait timeout must not be negative", ErrInvalid)
	}

	if c.Creative.FlightSpeed <= 0 {
		return fmt.Errorf("%w: flight speed must be positive", ErrInvalid)
	}

	if c.Snapshots.Directory == "" && c.Snapshots.Redis == "" {
		return fmt.Errorf("%w: snapshots need a directory or a redis address", ErrInvalid)
	}

	return nil
}

// Load reads the default configuration, the provided configuration files
// in order, and finally any CRAFTBOT_ variables in environment. A nil
// environment means the process environment.
func Load(configPaths []string, environment map[string]string) (*Config, error) {
	config := Config{}

	err := yaml.Unmarshal(DEFAULT, &config)
	if err != nil {
		return nil, fmt.Errorf("invalid default config file: %w", err)
	}

	for _, path := range configPaths {
		err := mergeFile(&config, path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %w",
				path,
				err,
			)
		}
	}

	err = env.ParseWithOptions(&config, env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	})
	if err != nil {
		return nil, fmt.Errorf("could not read environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Process loads configuration with the process environment applied.
func Process(configPaths []string) (*Config, error) {
	return Load(configPaths, nil)
}
