// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/animerec/internal/database/query"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

// genreSeparator joins genres in the genres column.
const genreSeparator = "|"

const itemColumns = `id, title, genres, studio, year, rating, view_count, watch_count, bookmark_count, share_count`

// sortColumns maps sortable fields to columns. Unknown fields are ignored.
var sortColumns = map[store.SortField]string{
	store.SortViews:     "view_count",
	store.SortRating:    "rating",
	store.SortBookmarks: "bookmark_count",
	store.SortYear:      "year",
}

// counterColumns maps counters to columns. Only these columns are ever
// interpolated into an UPDATE statement.
var counterColumns = map[models.Counter]string{
	models.CounterViews:     "view_count",
	models.CounterWatches:   "watch_count",
	models.CounterBookmarks: "bookmark_count",
	models.CounterShares:    "share_count",
}

// FindItem implements store.ItemReader.
func (db *DB) FindItem(ctx context.Context, id string) (item *models.Item, err error) {
	defer db.observe("find_item", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("find item", err)
	}
	return &it, nil
}

// FindItems implements store.ItemReader. Ties in q.Sort are broken by ID.
//
//nolint:gocritic // hugeParam: query passed by value to match store.ItemReader
func (db *DB) FindItems(ctx context.Context, q store.ItemQuery) (items []models.Item, err error) {
	defer db.observe("find_items", time.Now(), &err)

	where, args := buildItemWhere(&q).BuildWithPrefix()
	stmt := fmt.Sprintf("SELECT %s FROM items %s %s%s",
		itemColumns, where, buildItemOrder(q.Sort), query.LimitOffset(q.Limit, q.Skip))

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapErr("find items", err)
	}
	defer closeWithLog(rows, "rows")

	items = make([]models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrapErr("scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate items", err)
	}
	return items, nil
}

// CountItems implements store.ItemReader.
//
//nolint:gocritic // hugeParam: query passed by value to match store.ItemReader
func (db *DB) CountItems(ctx context.Context, q store.ItemQuery) (n int, err error) {
	defer db.observe("count_items", time.Now(), &err)

	where, args := buildItemWhere(&q).BuildWithPrefix()
	if err := db.conn.QueryRowContext(ctx, "SELECT count(*) FROM items "+where, args...).Scan(&n); err != nil {
		return 0, wrapErr("count items", err)
	}
	return n, nil
}

// IncrementCounter implements store.ItemWriter with a single atomic UPDATE.
func (db *DB) IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) (err error) {
	defer db.observe("increment_counter", time.Now(), &err)

	column, ok := counterColumns[counter]
	if !ok {
		return fmt.Errorf("unknown counter %q", counter)
	}

	stmt := fmt.Sprintf("UPDATE items SET %s = %s + ? WHERE id = ?", column, column)
	res, err := db.conn.ExecContext(ctx, stmt, delta, itemID)
	if err != nil {
		return wrapErr("increment counter", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("increment counter", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", itemID, store.ErrNotFound)
	}
	return nil
}

// UpsertItems implements store.ItemSeeder. Existing items are replaced,
// counters included.
func (db *DB) UpsertItems(ctx context.Context, items []models.Item) (err error) {
	defer db.observe("upsert_items", time.Now(), &err)

	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("item at index %d has no id", i)
		}
		for _, g := range items[i].Genres {
			if strings.Contains(g, genreSeparator) {
				return fmt.Errorf("item %s: genre %q contains %q", items[i].ID, g, genreSeparator)
			}
		}
	}

	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (`+itemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				genres = excluded.genres,
				studio = excluded.studio,
				year = excluded.year,
				rating = excluded.rating,
				view_count = excluded.view_count,
				watch_count = excluded.watch_count,
				bookmark_count = excluded.bookmark_count,
				share_count = excluded.share_count`)
		if err != nil {
			return wrapErr("prepare upsert", err)
		}
		defer closeWithLog(stmt, "prepared statement")

		for i := range items {
			it := &items[i]
			if _, err := stmt.ExecContext(ctx,
				it.ID, it.Title, strings.Join(it.Genres, genreSeparator), it.Studio, it.Year, it.Rating,
				it.ViewCount, it.WatchCount, it.BookmarkCount, it.ShareCount,
			); err != nil {
				return wrapErr("upsert item "+it.ID, err)
			}
		}
		return nil
	})
}

// buildItemWhere translates the filter part of q.
func buildItemWhere(q *store.ItemQuery) *query.WhereBuilder {
	wb := query.NewWhereBuilder().
		AddIn("id", q.IDs).
		AddNotIn("id", q.ExcludeIDs)

	similar := query.NewWhereBuilder()
	for _, g := range q.AnyGenres {
		similar.AddClause("list_contains(string_split(genres, '"+genreSeparator+"'), ?)", g)
	}
	if q.Studio != "" {
		similar.AddClause("studio = ?", q.Studio)
	}
	if q.HasYearRange() {
		similar.AddClause("year BETWEEN ? AND ?", q.YearFrom, q.YearTo)
	}
	return wb.AddAnyOf(similar)
}

// buildItemOrder translates sort keys, always ending with id ASC.
func buildItemOrder(keys []store.SortKey) string {
	var o query.OrderBy
	for _, k := range keys {
		column, ok := sortColumns[k.Field]
		if !ok {
			continue
		}
		if k.Desc {
			o.Desc(column)
		} else {
			o.Asc(column)
		}
	}
	return o.Asc("id").String()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var (
		it     models.Item
		genres string
	)
	err := row.Scan(&it.ID, &it.Title, &genres, &it.Studio, &it.Year, &it.Rating,
		&it.ViewCount, &it.WatchCount, &it.BookmarkCount, &it.ShareCount)
	if err != nil {
		return models.Item{}, err
	}
	it.Genres = splitGenres(genres)
	return it, nil
}

func splitGenres(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, genreSeparator)
}
