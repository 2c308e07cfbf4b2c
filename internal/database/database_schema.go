// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
database_schema.go - Database Schema Management

Tables:
  - items: Catalog entries with denormalized engagement counters. Genres are
    stored pipe-joined and matched with list_contains(string_split(...)).
  - users: One row per user, created on first interaction.
  - interactions: Append-only interaction log, ordered by seq.
  - recommendation_history: Served recommendations, ordered by seq, with a
    clicked flag flipped by click tracking.

Interactions and history reference items by ID without a foreign key:
an item may disappear from the catalog while log entries remain.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS interactions_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS recommendation_history_seq START 1`,

		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			genres TEXT NOT NULL DEFAULT '',
			studio TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			rating DOUBLE NOT NULL DEFAULT 0,
			view_count BIGINT NOT NULL DEFAULT 0,
			watch_count BIGINT NOT NULL DEFAULT 0,
			bookmark_count BIGINT NOT NULL DEFAULT 0,
			share_count BIGINT NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS interactions (
			seq BIGINT NOT NULL DEFAULT nextval('interactions_seq'),
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			type TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 0,
			duration INTEGER NOT NULL DEFAULT 0,
			ts TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS recommendation_history (
			seq BIGINT NOT NULL DEFAULT nextval('recommendation_history_seq'),
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			score DOUBLE NOT NULL,
			clicked BOOLEAN NOT NULL DEFAULT false,
			ts TIMESTAMP NOT NULL
		)`,
	}
}

// createIndexes creates the lookup indexes used by user and history reads
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user_item ON recommendation_history(user_id, item_id)`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
