// Package config reads a project file that supplies defaults for command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project file looked up in the working directory.
const FileName = "treerig.toml"

type Config struct {
	Grammar string     `toml:"grammar"`
	Source  string     `toml:"source"`
	Rule    string     `toml:"rule"`
	Mode    string     `toml:"mode"`
	Trace   string     `toml:"trace"`
	Test    TestConfig `toml:"test"`
}

type TestConfig struct {
	Paths []string `toml:"paths"`
}

func Default() *Config {
	return &Config{
		Source: "Text",
		Mode:   "ll",
		Trace:  "error",
	}
}

// Load reads a project file. Keys missing from the file keep their default values, and unknown
// keys are errors.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("cannot read the config file %v: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%v: unknown keys: %v", path, strings.Join(keys, ", "))
	}
	err = c.validate()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Trace {
	case "error", "info", "debug":
	default:
		return fmt.Errorf("trace must be one of error, info, or debug: %v", c.Trace)
	}
	return nil
}
