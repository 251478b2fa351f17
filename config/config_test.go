package config

import (
	"strings"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.applyDefaults()

	if len(c.Venue.Pitches) != 2 || c.Venue.Pitches[0] != "barnebau" {
		t.Errorf("Pitches = %v", c.Venue.Pitches)
	}
	if c.Sync.RollingDays != 28 {
		t.Errorf("RollingDays = %d, want 28", c.Sync.RollingDays)
	}
	if c.Buzzer.WarningLeadMinutes != 5 {
		t.Errorf("WarningLeadMinutes = %d, want 5", c.Buzzer.WarningLeadMinutes)
	}
	if c.Venue.PhoneRegion != "TR" {
		t.Errorf("PhoneRegion = %q", c.Venue.PhoneRegion)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() after defaults = %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"no pitches", func(c *Config) { c.Venue.Pitches = nil }, "venue.pitches"},
		{"bad zone", func(c *Config) { c.Venue.Location = "Mars/Olympus" }, "venue.location"},
		{"negative price", func(c *Config) { c.Venue.HourlyPrice = -1 }, "venue.hourly_price"},
		{"zero rolling days", func(c *Config) { c.Sync.RollingDays = 0 }, "sync.rolling_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.edit(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestVenueLocAndLockTTL(t *testing.T) {
	v := VenueConfig{Location: "Europe/Istanbul"}
	if got := v.Loc().String(); got != "Europe/Istanbul" {
		t.Errorf("Loc() = %s", got)
	}
	if got := (SyncConfig{}).LockTTL(); got != 5*time.Minute {
		t.Errorf("default LockTTL = %v", got)
	}
	if got := (SyncConfig{LockTTLSeconds: 30}).LockTTL(); got != 30*time.Second {
		t.Errorf("LockTTL = %v", got)
	}
}
