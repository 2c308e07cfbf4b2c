// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantN   int
		wantErr string
	}{
		{
			name:  "valid",
			doc:   `{"items":[{"id":"1","title":"Cowboy Bebop","genres":["Action","Sci-Fi"],"studio":"Sunrise","year":1998,"rating":8.8,"viewCount":10}]}`,
			wantN: 1,
		},
		{name: "empty", doc: `{"items":[]}`, wantN: 0},
		{name: "missing id", doc: `{"items":[{"title":"x"}]}`, wantErr: "missing id"},
		{name: "duplicate", doc: `{"items":[{"id":"1"},{"id":" 1 "}]}`, wantErr: "duplicate id"},
		{name: "rating range", doc: `{"items":[{"id":"1","rating":11}]}`, wantErr: "out of range"},
		{name: "negative counter", doc: `{"items":[{"id":"1","viewCount":-1}]}`, wantErr: "negative counter"},
		{name: "malformed", doc: `{"items":`, wantErr: "decode seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			items, err := ParseSeed([]byte(tt.doc))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseSeed() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeed() error = %v", err)
			}
			if len(items) != tt.wantN {
				t.Errorf("ParseSeed() returned %d items, want %d", len(items), tt.wantN)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.json")
	doc := `{"items":[{"id":"1","title":"One","genres":["Drama"]},{"id":"2","title":"Two"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewMemory()
	n, err := Seed(context.Background(), m, path)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Seed() = %d, want 2", n)
	}

	if n, err := Seed(context.Background(), m, ""); n != 0 || err != nil {
		t.Errorf("Seed(empty path) = %d, %v", n, err)
	}
	if _, err := Seed(context.Background(), m, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Seed(missing file) should fail")
	}
}
