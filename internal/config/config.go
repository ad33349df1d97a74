// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the datamodel command settings from an optional
// config file and DATAMODEL_* environment variables.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "DATAMODEL"

// Output formats for schema files without a recognized extension.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	// Format is used when writing a file whose extension does not name one.
	Format string `mapstructure:"format"`
	// Indent is the number of spaces used to indent JSON output.
	Indent int `mapstructure:"indent"`
	Debug  bool `mapstructure:"debug"`
	// NoColor disables colored log output.
	NoColor bool `mapstructure:"no-color"`
}

// Load reads settings into v and decodes them. An empty file means only
// defaults and the environment are consulted.
func Load(v *viper.Viper, file string) (*Config, error) {
	v.SetDefault("format", FormatJSON)
	v.SetDefault("indent", 2)
	v.SetDefault("debug", false)
	v.SetDefault("no-color", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", file)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format != FormatJSON && c.Format != FormatYAML {
		return nil, errors.Errorf("unknown format %q, want %s or %s", c.Format, FormatJSON, FormatYAML)
	}
	if c.Indent < 0 {
		return nil, errors.Errorf("indent must not be negative, got %d", c.Indent)
	}
	return &c, nil
}
