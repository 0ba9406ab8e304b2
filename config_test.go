/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			bind:           "127.0.0.1",
			port:           8080,
			challengeDelay: 3 * time.Second,
			sendBuffer:     16,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "cert without key", mutate: func(c *Config) { c.tlsCert = "cert.pem" }, wantErr: true},
		{name: "cert and key", mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		{name: "port zero", mutate: func(c *Config) { c.port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.port = 65536 }, wantErr: true},
		{name: "zero delay", mutate: func(c *Config) { c.challengeDelay = 0 }, wantErr: true},
		{name: "no buffer", mutate: func(c *Config) { c.sendBuffer = 0 }, wantErr: true},
		{name: "yaml bank", mutate: func(c *Config) { c.trivia = "bank.YML" }},
		{name: "jsonc bank", mutate: func(c *Config) { c.trivia = "bank.jsonc" }},
		{name: "csv bank", mutate: func(c *Config) { c.trivia = "bank.csv" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlagsReadEnvironment(t *testing.T) {
	t.Setenv("PAIRBOX_PORT", "9090")
	t.Setenv("PAIRBOX_CHALLENGE_DELAY", "5s")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.port)
	}
	if cfg.challengeDelay != 5*time.Second {
		t.Fatalf("challenge delay = %s", cfg.challengeDelay)
	}
	if cfg.sendBuffer != 16 || !cfg.metrics {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := map[int]string{
		0:       "0 B",
		999:     "999 B",
		1000:    "1.0 kB",
		1500000: "1.5 MB",
	}

	for in, want := range tests {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}
