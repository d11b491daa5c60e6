package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile  = ".loxrc.yaml"
	defaultHistoryFile = ".lox_history"
	defaultPrompt      = "> "
)

type config struct {
	LogLevel    string `yaml:"log_level"`
	Color       bool   `yaml:"color"`
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

func defaultConfig() config {
	return config{
		LogLevel:    logrus.WarnLevel.String(),
		Color:       true,
		HistoryFile: filepath.Join(homeDir(), defaultHistoryFile),
		Prompt:      defaultPrompt,
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// loadConfig reads path over the defaults. An empty path means the default
// file, which may be missing.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir(), defaultConfigFile)
	}

	file, err := os.Open(expandHome(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, tracerr.Wrap(err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, tracerr.Wrap(err)
	}

	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	return cfg, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
	}
	logger.SetLevel(lvl)
	return logger, nil
}
