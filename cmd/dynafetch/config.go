package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "dynafetch.yaml"

// Config holds defaults for dynafetch, loaded from dynafetch.yaml if present.
// Flags and environment variables take precedence.
type Config struct {
	// Region is the AWS region, the environment and shared config are consulted when empty.
	Region string `yaml:"region"`

	// Endpoint overrides the DynamoDB endpoint, e.g. http://localhost:8000 for dynamodb-local.
	Endpoint string `yaml:"endpoint"`

	// Timeout applied to each request sent to DynamoDB.
	Timeout time.Duration `yaml:"timeout"`

	// LocalDir stores tables in a local BadgerDB instead of DynamoDB.
	LocalDir string `yaml:"localDir"`

	// IfNotExists guards inserts with a conditional write on the partition key.
	IfNotExists bool `yaml:"ifNotExists"`

	// ConsistentRead defaults to true.
	ConsistentRead *bool `yaml:"consistentRead"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// LoadConfig reads the config file at path, when path is empty dynafetch.yaml is searched
// for from the current directory up to the filesystem root. A missing file is not an error
// unless it was named explicitly.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path == "" {
		dir, err := os.Getwd()
		if err != nil {
			return cfg, nil
		}

		path = findConfigFile(dir)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// findConfigFile searches for dynafetch.yaml walking up from dir.
func findConfigFile(dir string) string {
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}
