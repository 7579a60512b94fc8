// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	noCleaner      = pflag.Bool("no-cleaner", false, "Disables the expiry cleanup loop")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// Hosts the extraction backend is known to handle. Overridable through
// downloads.allowed_hosts.
var defaultAllowedHosts = []string{
	"youtube.com", "youtu.be", "instagram.com", "tiktok.com", "x.com",
	"twitter.com", "facebook.com", "fb.watch", "vimeo.com", "reddit.com",
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("downloads.dir", "downloads_dir")
	v.BindEnv("downloads.max_size", "downloads_max_size")
	v.BindEnv("downloads.max_history", "downloads_max_history")

	v.BindEnv("fetch.retries", "fetch_retries")

	v.BindEnv("cleaner.interval", "cleaner_interval")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("downloads.dir", "downloads")
	v.SetDefault("downloads.max_size", 500)
	v.SetDefault("downloads.max_history", 500)
	v.SetDefault("downloads.allowed_hosts", defaultAllowedHosts)

	v.SetDefault("fetch.retries", 3)

	v.SetDefault("cleaner.interval", 60)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if err := Validate(); err != nil {
		return err
	}

	v.Set("downloads.max_size", v.GetInt64("downloads.max_size")<<20)
	return nil
}

// CleanerDisabled reports whether the --no-cleaner flag was passed
func CleanerDisabled() bool {
	return *noCleaner
}

// Validate checks that the loaded values can actually run the app
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("downloads.dir") == "" {
		return errors.New("downloads.dir can't be empty")
	}

	if v.GetInt("downloads.max_size") <= 0 {
		return errors.New("downloads.max_size must be bigger than 0")
	}

	if v.GetInt("downloads.max_history") <= 0 {
		return errors.New("downloads.max_history must be bigger than 0")
	}

	if len(v.GetStringSlice("downloads.allowed_hosts")) == 0 {
		return errors.New("downloads.allowed_hosts can't be empty")
	}

	if v.GetInt("fetch.retries") <= 0 {
		return errors.New("fetch.retries must be bigger than 0")
	}

	if v.GetInt("cleaner.interval") <= 0 {
		return errors.New("cleaner.interval must be bigger than 0")
	}

	return nil
}
