package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"

	"github.com/kopchik/smon"
	"github.com/kopchik/smon/probes/command"
	"github.com/kopchik/smon/probes/diskspace"
	"github.com/kopchik/smon/probes/dnsprobe"
	"github.com/kopchik/smon/probes/goroutinecount"
	"github.com/kopchik/smon/probes/memcacheprobe"
	"github.com/kopchik/smon/probes/mongoprobe"
	"github.com/kopchik/smon/probes/postgres"
	"github.com/kopchik/smon/probes/redisprobe"
	"github.com/kopchik/smon/probes/tcpdial"
)

// fileConfig is the top-level shape of the YAML configuration file smond
// reads at startup: where to listen and which checks to schedule.
type fileConfig struct {
	Listen string       `yaml:"listen"`
	Checks []checkEntry `yaml:"checks"`
}

// checkEntry describes one scheduled check. Exactly one of the probe-kind
// fields below is expected to be populated, matching Kind.
type checkEntry struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Kind        string        `yaml:"kind"`
	Interval    time.Duration `yaml:"interval"`
	Timeout     time.Duration `yaml:"timeout"`

	// Command kind.
	CommandLine string `yaml:"command"`

	// TCP dial / Redis / Memcache kind.
	Addr string `yaml:"addr"`

	// DNS kind.
	Host string `yaml:"host"`

	// Diskspace kind.
	Directory      string `yaml:"directory"`
	ThresholdBytes uint64 `yaml:"threshold_bytes"`

	// Goroutine count kind.
	Threshold int `yaml:"threshold"`

	// Postgres / Mongo kind.
	DSN string `yaml:"dsn"`
}

// loadConfig reads and parses the YAML file at path.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// buildRegistry turns every entry in cfg.Checks into a *smon.Check and
// registers it. Probe kinds backed by a driver client (redis, postgres,
// mongo) construct that client once here, in the composition root, and
// every run of the check reuses it.
func buildRegistry(cfg *fileConfig) (*smon.CheckRegistry, error) {
	registry := smon.NewCheckRegistry()

	for _, entry := range cfg.Checks {
		if entry.Interval <= 0 {
			return nil, fmt.Errorf("check %q: interval must be positive", entry.Name)
		}

		probe, err := buildProbe(entry)
		if err != nil {
			return nil, fmt.Errorf("check %q: %w", entry.Name, err)
		}

		opts := []smon.CheckOption{}
		if entry.Timeout > 0 {
			opts = append(opts, smon.WithTimeout(entry.Timeout))
		}

		check := smon.NewCheck(entry.Name, entry.Interval, probe, opts...)
		check.Description = entry.Description
		registry.Register(check)
	}

	return registry, nil
}

func buildProbe(entry checkEntry) (smon.Probe, error) {
	switch entry.Kind {
	case "command":
		return command.New(entry.CommandLine)
	case "tcpdial":
		return tcpdial.New(entry.Addr), nil
	case "dns":
		return dnsprobe.New(entry.Host), nil
	case "diskspace":
		return diskspace.New(entry.Directory, entry.ThresholdBytes), nil
	case "goroutinecount":
		return goroutinecount.New(entry.Threshold), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: entry.Addr})
		return redisprobe.New(client), nil
	case "postgres":
		db, err := sql.Open("postgres", entry.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres dsn: %w", err)
		}
		return postgres.New(db), nil
	case "memcache":
		return memcacheprobe.New(entry.Addr), nil
	case "mongo":
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(entry.DSN))
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return mongoprobe.New(client), nil
	default:
		return nil, fmt.Errorf("unknown check kind %q", entry.Kind)
	}
}
