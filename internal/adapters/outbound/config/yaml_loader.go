package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openkraft/autograder/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".autograder.yaml"

// Environment overrides, applied on top of the file.
const (
	EnvExpectedOutput = "AUTOGRADER_EXPECTED_OUTPUT"
	EnvTimeout        = "AUTOGRADER_TIMEOUT"
	EnvCompile        = "AUTOGRADER_COMPILE"
	EnvRun            = "AUTOGRADER_RUN"
)

// YAMLLoader implements domain.ConfigLoader by reading .autograder.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .autograder.yaml from dir.
// Returns DefaultConfig (plus environment overrides) if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.GradeConfig, error) {
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err == nil {
		return l.LoadFile(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return domain.GradeConfig{}, fmt.Errorf("reading %s: %w", fileName, err)
	}

	cfg := domain.DefaultConfig()
	if err := applyEnv(&cfg); err != nil {
		return domain.GradeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.GradeConfig{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// LoadFile reads an explicit config file. expected_file is resolved
// relative to the config file's directory.
func (l *YAMLLoader) LoadFile(path string) (domain.GradeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.GradeConfig{}, err
	}

	name := filepath.Base(path)
	var cfg domain.GradeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.GradeConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	// Validate before merging; catches typos in user's raw input.
	if err := cfg.Validate(); err != nil {
		return domain.GradeConfig{}, fmt.Errorf("invalid %s: %w", name, err)
	}

	if cfg.ExpectedFile != "" {
		expected, err := readExpected(filepath.Dir(path), cfg.ExpectedFile)
		if err != nil {
			return domain.GradeConfig{}, fmt.Errorf("reading expected_file: %w", err)
		}
		cfg.ExpectedOutput = expected
	}

	if err := applyEnv(&cfg); err != nil {
		return domain.GradeConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.GradeConfig{}, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg.WithDefaults(), nil
}

func readExpected(baseDir, file string) (string, error) {
	if !filepath.IsAbs(file) {
		file = filepath.Join(baseDir, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func applyEnv(cfg *domain.GradeConfig) error {
	if v := os.Getenv(EnvExpectedOutput); v != "" {
		cfg.ExpectedOutput = v
	}
	if v := os.Getenv(EnvCompile); v != "" {
		cfg.Toolchain.Compile = v
	}
	if v := os.Getenv(EnvRun); v != "" {
		cfg.Toolchain.Run = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
