// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: []error{ErrInvalidLogLevel},
		},
		{
			name:    "bad engine",
			mutate:  func(c *Config) { c.RPM.Container = ContainerConfig{Engine: "lxc", Image: "x"} },
			wantErr: []error{ErrInvalidContainerEngine},
		},
		{
			name: "every problem reported",
			mutate: func(c *Config) {
				c.Log.Level = ""
				c.RPM.Container.Engine = ContainerEnginePodman
			},
			wantErr: []error{ErrInvalidLogLevel, ErrMissingField},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want %v", err, want)
				}
			}
		})
	}
}
