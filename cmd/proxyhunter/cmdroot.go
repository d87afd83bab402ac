// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/siemens/proxyhunter/discover"
	"github.com/siemens/proxyhunter/probe"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() (rootCmd *cobra.Command) {
	v := viper.New()
	var s settings
	rootCmd = &cobra.Command{
		Use:     "proxyhunter [flags]",
		Short:   "proxyhunter finds proxy lists and checks which of the listed proxies actually work",
		Version: "0.9",
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err = loadSettings(v, cmd.Root())
			if err != nil {
				return err
			}
			return s.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Usage is for getting flags wrong, not for hunts turning up empty.
			cmd.SilenceUsage = true
			return HuntAndReport(cmd.Context(), s, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	flags.IntP("workers", "w", 500,
		"number of proxies to probe in parallel")
	flags.DurationP("timeout", "t", 2*time.Second,
		"timeout for probing a single proxy")
	flags.BoolP("country", "c", false,
		"geolocate working proxies using the geolocation service")
	flags.BoolP("verbose", "v", false,
		"enable diagnostic output for each probe")
	flags.StringSliceP("input", "i", nil,
		"read proxy candidates from file(s) instead of searching the web")
	flags.StringP("output", "o", "",
		"write working proxies to this file instead of stdout")
	flags.Int("pages", 1,
		"number of web search result pages to crawl for proxy lists")
	flags.String("search-url", discover.DefaultSearchURL,
		"web search URL template, with {start} for the result offset")
	flags.String("user-agent", discover.DefaultUserAgent,
		"user agent for web searches and proxy list downloads")
	flags.String("liveness-url", probe.DefaultLivenessURL,
		"reference endpoint for checking proxy liveness")
	flags.String("geo-url", probe.DefaultGeolocationURL,
		"reference endpoint for geolocating proxies")
	flags.String("scheme", probe.SchemeHTTP,
		"proxy scheme: http or socks5")
	flags.String("netns", "",
		"probe from inside the network namespace referenced by this path")
	flags.String("container", "",
		"probe from inside the network namespace of this Docker container")
	flags.String("geoip-db", "",
		"MaxMind database for offline geolocation of proxy exit addresses")
	flags.Duration("spinner", 100*time.Millisecond,
		"spinner interval")
	flags.String("config", "",
		"configuration file")
	return
}
