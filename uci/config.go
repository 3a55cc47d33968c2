package uci

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional startup config (timecat.yaml), read once
// before the UCI options loop takes over (spec.md's Domain Stack:
// yaml.v3 covers the one remaining config knob this engine needs).
type fileConfig struct {
	Threads        int `yaml:"threads"`
	HashMB         int `yaml:"hash_mb"`
	MoveOverheadMS int `yaml:"move_overhead_ms"`
}

// LoadConfigFile reads path and overlays any set fields onto opt. A
// missing file is not an error: the engine's built-in defaults apply.
func LoadConfigFile(path string, opt Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opt, nil
		}
		return opt, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return opt, err
	}
	if cfg.Threads > 0 {
		opt.Threads = cfg.Threads
	}
	if cfg.HashMB > 0 {
		opt.HashMB = cfg.HashMB
	}
	if cfg.MoveOverheadMS > 0 {
		opt.MoveOverhead = time.Duration(cfg.MoveOverheadMS) * time.Millisecond
	}
	return opt, nil
}
