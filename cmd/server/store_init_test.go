// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/store"
)

const testCatalog = `{"items": [
	{"id": "frieren", "title": "Frieren", "genres": ["Adventure", "Fantasy"], "rating": 9.1, "viewCount": 900},
	{"id": "mushishi", "title": "Mushishi", "genres": ["Mystery", "Slice of Life"], "rating": 8.7, "viewCount": 150}
]}`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestInitStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cfg         config.StoreConfig
		wantErr     bool
		wantBreaker bool
		wantItem    string
	}{
		{
			name:        "memory with breaker and seed",
			cfg:         config.StoreConfig{Backend: config.BackendMemory, Breaker: config.BreakerConfig{Enabled: true}},
			wantBreaker: true,
			wantItem:    "frieren",
		},
		{
			name: "memory without breaker",
			cfg:  config.StoreConfig{Backend: config.BackendMemory},
		},
		{
			name:    "unknown backend",
			cfg:     config.StoreConfig{Backend: "cassandra"},
			wantErr: true,
		},
		{
			name:    "missing seed file",
			cfg:     config.StoreConfig{Backend: config.BackendMemory, SeedPath: "/nonexistent/catalog.json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			if tt.wantItem != "" {
				cfg.SeedPath = writeCatalog(t, testCatalog)
			}

			st, err := initStore(context.Background(), &cfg, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("initStore() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initStore() error = %v", err)
			}
			t.Cleanup(func() { _ = st.Close() })

			if _, ok := st.(*store.Breaker); ok != tt.wantBreaker {
				t.Errorf("store is %T, want breaker=%v", st, tt.wantBreaker)
			}
			if tt.wantItem != "" {
				item, err := st.FindItem(context.Background(), tt.wantItem)
				if err != nil {
					t.Fatalf("FindItem(%q) error = %v", tt.wantItem, err)
				}
				if item.ViewCount != 900 {
					t.Errorf("ViewCount = %d, want 900", item.ViewCount)
				}
			}
		})
	}
}

func TestInitStore_InvalidSeed(t *testing.T) {
	t.Parallel()

	cfg := config.StoreConfig{
		Backend:  config.BackendMemory,
		SeedPath: writeCatalog(t, `{"items": [{"id": "x", "rating": 11}]}`),
	}
	if _, err := initStore(context.Background(), &cfg, zerolog.Nop()); err == nil {
		t.Fatal("initStore() error = nil, want rating range error")
	}
}

func TestBreakerConfig(t *testing.T) {
	t.Parallel()

	def := store.DefaultBreakerConfig()
	tests := []struct {
		name string
		in   config.BreakerConfig
		want store.BreakerConfig
	}{
		{
			name: "zero values keep defaults",
			want: store.BreakerConfig{
				Name: "duckdb", MaxRequests: def.MaxRequests, Interval: def.Interval,
				Timeout: def.Timeout, MinRequests: def.MinRequests, FailureRatio: def.FailureRatio,
			},
		},
		{
			name: "overrides",
			in: config.BreakerConfig{
				MaxRequests: 1, Interval: time.Second, Timeout: 2 * time.Second,
				MinRequests: 4, FailureRatio: 0.5,
			},
			want: store.BreakerConfig{
				Name: "duckdb", MaxRequests: 1, Interval: time.Second,
				Timeout: 2 * time.Second, MinRequests: 4, FailureRatio: 0.5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := breakerConfig(&config.StoreConfig{Backend: config.BackendDuckDB, Breaker: tt.in})
			if got != tt.want {
				t.Errorf("breakerConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
