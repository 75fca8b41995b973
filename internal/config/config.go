package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Calendar Calendar `koanf:"calendar"`
	Feeds    []Feed   `koanf:"feeds"`
	Database Database `koanf:"db"`
}

// Calendar holds the default layout parameters; every view request may
// override them per call.
type Calendar struct {
	FirstDayOfWeek      int     `koanf:"firstdayofweek"`
	StartHour           int     `koanf:"starthour"`
	EndHour             int     `koanf:"endhour"`
	HourHeight          float64 `koanf:"hourheight"`
	SlotDurationMinutes int     `koanf:"slotdurationminutes"`
	SnapRangeMinutes    int     `koanf:"snaprangeminutes"`
	MaxVisibleRows      int     `koanf:"maxvisiblerows"`
	ShowSixthRow        bool    `koanf:"showsixthrow"`
}

// Feed is one read-only ICS subscription merged into the event source.
type Feed struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen: ":8181",
		Calendar: Calendar{
			FirstDayOfWeek:      1,
			StartHour:           0,
			EndHour:             24,
			HourHeight:          60,
			SlotDurationMinutes: 15,
			SnapRangeMinutes:    5,
			MaxVisibleRows:      4,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "multical",
			Pass:   "",
			Name:   "multical",
			Schema: "multical",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "MULTICAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "MULTICAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
