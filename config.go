package main

import (
	"flag"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config mirrors the optional TOML config file. Keys match flag names;
// absent keys keep their flag defaults and explicitly set flags win over
// file values.
type Config struct {
	MsgType  string `toml:"msgtype"`
	Format   string `toml:"format"`
	GPIOChip string `toml:"gpiochip"`
	GPIOPin  int    `toml:"gpiopin"`
	Broker   string `toml:"broker"`
	Topic    string `toml:"topic"`
	Verbose  bool   `toml:"verbose"`
}

func LoadConfig(path string) (cfg Config, err error) {
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("load config: unknown keys %v", undecoded)
	}
	return cfg, nil
}

// applyConfig overlays file values onto every flag the user did not set on
// the command line or through the environment.
func applyConfig(cfg Config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["msgtype"] && cfg.MsgType != "" {
		*msgType = cfg.MsgType
	}
	if !set["format"] && cfg.Format != "" {
		*format = cfg.Format
	}
	if !set["gpiochip"] && cfg.GPIOChip != "" {
		*gpioChip = cfg.GPIOChip
	}
	if !set["gpiopin"] && cfg.GPIOPin != 0 {
		*gpioPin = cfg.GPIOPin
	}
	if !set["broker"] && cfg.Broker != "" {
		*broker = cfg.Broker
	}
	if !set["topic"] && cfg.Topic != "" {
		*topic = cfg.Topic
	}
	if !set["verbose"] && cfg.Verbose {
		*verbose = true
	}
}
