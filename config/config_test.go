package config_test

import (
	"testing"

	"bitwise74/media-api/config"

	"github.com/spf13/viper"
)

func setValidConfig() {
	viper.Set("app.log_level", "info")
	viper.Set("host.port", 8080)
	viper.Set("downloads.dir", "downloads")
	viper.Set("downloads.max_size", 500)
	viper.Set("downloads.max_history", 500)
	viper.Set("downloads.allowed_hosts", []string{"youtube.com"})
	viper.Set("fetch.retries", 3)
	viper.Set("cleaner.interval", 60)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr bool
	}{
		{"valid defaults", "", nil, false},
		{"bad log level", "app.log_level", "loud", true},
		{"zero port", "host.port", 0, true},
		{"empty downloads dir", "downloads.dir", "", true},
		{"zero max size", "downloads.max_size", 0, true},
		{"zero history limit", "downloads.max_history", 0, true},
		{"no allowed hosts", "downloads.allowed_hosts", []string{}, true},
		{"zero retries", "fetch.retries", 0, true},
		{"zero cleaner interval", "cleaner.interval", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidConfig()
			if tt.key != "" {
				viper.Set(tt.key, tt.value)
			}

			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
