// Package config holds the compiler settings that can be read from a TOML
// file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// Target describes the machine the IR is laid out for.
type Target struct {
	WordSize   int
	DoubleSize int
}

// Optimizer switches the two optimization phases on or off.
type Optimizer struct {
	Tree bool
	IR   bool
}

// Output controls how carlosc presents results.
type Output struct {
	Color   bool
	Summary bool
}

type Config struct {
	Target    Target
	Optimizer Optimizer
	Output    Output
}

// Defaults is the configuration used when no file is given.
var Defaults = Config{
	Target:    Target{WordSize: 4, DoubleSize: 8},
	Optimizer: Optimizer{Tree: true, IR: true},
	Output:    Output{Color: true},
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load reads file over cfg. Keys missing from the file keep their value.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = Decode(bufio.NewReader(f), cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// Decode reads TOML from r over cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	if err := tomlSettings.NewDecoder(r).Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks that the sizes describe a usable target.
func (c *Config) Validate() error {
	if c.Target.WordSize <= 0 {
		return fmt.Errorf("target word size must be positive, got %d", c.Target.WordSize)
	}
	if c.Target.DoubleSize < c.Target.WordSize {
		return fmt.Errorf("target double size %d is smaller than the word size %d", c.Target.DoubleSize, c.Target.WordSize)
	}
	return nil
}

// Marshal renders c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return tomlSettings.Marshal(c)
}
