// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/siemens/proxyhunter/probe"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables taking precedence over
// configuration file settings, such as PROXYHUNTER_WORKERS for --workers.
const EnvPrefix = "PROXYHUNTER"

// settings of a proxy hunt, layered from flags, environment variables, an
// optional configuration file, and finally the flag defaults.
type settings struct {
	Workers     int
	Timeout     time.Duration
	Country     bool
	Verbose     bool
	Inputs      []string
	Output      string
	Pages       int
	SearchURL   string
	UserAgent   string
	LivenessURL string
	GeoURL      string
	Scheme      string
	Netns       string
	Container   string
	GeoIPDB     string
	Spinner     time.Duration
}

// loadSettings binds the persistent flags of the specified root command to
// viper and then reads the settings.
func loadSettings(v *viper.Viper, rootCmd *cobra.Command) (settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return settings{}, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("cannot read configuration, reason: %w", err)
		}
	}
	return settings{
		Workers:     v.GetInt("workers"),
		Timeout:     v.GetDuration("timeout"),
		Country:     v.GetBool("country"),
		Verbose:     v.GetBool("verbose"),
		Inputs:      v.GetStringSlice("input"),
		Output:      v.GetString("output"),
		Pages:       v.GetInt("pages"),
		SearchURL:   v.GetString("search-url"),
		UserAgent:   v.GetString("user-agent"),
		LivenessURL: v.GetString("liveness-url"),
		GeoURL:      v.GetString("geo-url"),
		Scheme:      v.GetString("scheme"),
		Netns:       v.GetString("netns"),
		Container:   v.GetString("container"),
		GeoIPDB:     v.GetString("geoip-db"),
		Spinner:     v.GetDuration("spinner"),
	}, nil
}

// validate the settings, rejecting out-of-range values.
func (s settings) validate() error {
	if s.Workers < 1 || s.Workers > 10000 {
		return fmt.Errorf("--workers out of range [1..10000]")
	}
	if s.Timeout < 100*time.Millisecond || s.Timeout > 5*time.Minute {
		return fmt.Errorf("--timeout out of range [100ms..5m]")
	}
	if s.Pages < 0 || s.Pages > 50 {
		return fmt.Errorf("--pages out of range [0..50]")
	}
	if s.Spinner < 10*time.Millisecond {
		return fmt.Errorf("--spinner must be at least 10ms")
	}
	switch s.Scheme {
	case probe.SchemeHTTP, probe.SchemeSOCKS5:
	default:
		return fmt.Errorf("--scheme must be either %s or %s", probe.SchemeHTTP, probe.SchemeSOCKS5)
	}
	if s.Netns != "" && s.Container != "" {
		return fmt.Errorf("--netns and --container are mutually exclusive")
	}
	return nil
}
