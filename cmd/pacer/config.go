package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// duration is a time.Duration written as a Go duration string in YAML.
type duration time.Duration

func (d *duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = duration(v)
	return nil
}

// schedulerConfig is one scheduler section of the config file. Unset
// fields keep the command's defaults.
type schedulerConfig struct {
	Name     string    `yaml:"name"`
	Delay    *duration `yaml:"delay"`
	Interval *duration `yaml:"interval"`
	MaxWait  *duration `yaml:"max_wait"`
	Leading  *bool     `yaml:"leading"`
	Trailing *bool     `yaml:"trailing"`
}

type fileConfig struct {
	Verbose     bool            `yaml:"verbose"`
	MetricsAddr string          `yaml:"metrics_addr"`
	Debounce    schedulerConfig `yaml:"debounce"`
	Throttle    schedulerConfig `yaml:"throttle"`
}

func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fc, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// settings is the resolved configuration of the scheduler a command runs.
type settings struct {
	name        string
	period      time.Duration
	maxWait     time.Duration
	hasMaxWait  bool
	leading     bool
	trailing    bool
	verbose     bool
	metricsAddr string
}

// apply overlays the file section on s. period is the section's delay or
// interval, whichever the command uses.
func (s *settings) apply(sc schedulerConfig, period *duration) {
	if sc.Name != "" {
		s.name = sc.Name
	}
	if period != nil {
		s.period = time.Duration(*period)
	}
	if sc.MaxWait != nil {
		s.maxWait = time.Duration(*sc.MaxWait)
		s.hasMaxWait = true
	}
	if sc.Leading != nil {
		s.leading = *sc.Leading
	}
	if sc.Trailing != nil {
		s.trailing = *sc.Trailing
	}
}

// commandFlags holds the values of the flags shared by both subcommands.
type commandFlags struct {
	configPath  string
	verbose     bool
	metricsAddr string
	name        string
	period      time.Duration
	maxWait     time.Duration
	leading     bool
	noTrailing  bool
}

// overlay applies the flags the user set explicitly. periodFlag is
// "delay" or "interval".
func (s *settings) overlay(fs *pflag.FlagSet, f *commandFlags, periodFlag string) {
	if fs.Changed("verbose") {
		s.verbose = f.verbose
	}
	if fs.Changed("metrics-addr") {
		s.metricsAddr = f.metricsAddr
	}
	if fs.Changed("name") {
		s.name = f.name
	}
	if fs.Changed(periodFlag) {
		s.period = f.period
	}
	if fs.Lookup("max-wait") != nil && fs.Changed("max-wait") {
		s.maxWait = f.maxWait
		s.hasMaxWait = true
	}
	if fs.Changed("leading") {
		s.leading = f.leading
	}
	if fs.Changed("no-trailing") {
		s.trailing = !f.noTrailing
	}
}
