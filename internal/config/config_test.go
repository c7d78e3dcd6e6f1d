package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "UTC", cfg.Shop.Timezone)
	assert.NotNil(t, cfg.Shop.Location)
	assert.Equal(t, 10, cfg.Shop.PortalPageSize)
	assert.Equal(t, "vehicle_repair", cfg.NATS.SubjectPrefix)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{
			DB:   DBConfig{DSN: "dsn"},
			Auth: AuthConfig{AccessSecret: "secret"},
		}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			modify: func(c *Config) {},
		},
		{
			name:    "missing dsn",
			modify:  func(c *Config) { c.DB.DSN = "" },
			wantErr: "DB_DSN is required",
		},
		{
			name:    "missing secret",
			modify:  func(c *Config) { c.Auth.AccessSecret = "" },
			wantErr: "JWT_ACCESS_SECRET is required",
		},
		{
			name:    "unknown driver",
			modify:  func(c *Config) { c.DB.Driver = "mysql" },
			wantErr: "DB_DRIVER",
		},
		{
			name:    "bad timezone",
			modify:  func(c *Config) { c.Shop.Timezone = "Mars/Olympus" },
			wantErr: "SHOP_TIMEZONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
