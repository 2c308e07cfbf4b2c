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
	"time"

	"github.com/tomtom215/animerec/internal/database/query"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

// FindUser implements store.UserReader. Interactions are joined with the
// catalog; rows whose item no longer exists keep a nil Item.
func (db *DB) FindUser(ctx context.Context, id string) (user *models.User, err error) {
	defer db.observe("find_user", time.Now(), &err)

	u := &models.User{ID: id}
	err = db.conn.QueryRowContext(ctx, "SELECT created_at FROM users WHERE id = ?", id).Scan(&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr("find user", err)
	}

	if u.Interactions, err = db.userInteractions(ctx, id); err != nil {
		return nil, err
	}
	if u.RecommendationHistory, err = db.userHistory(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

func (db *DB) userInteractions(ctx context.Context, userID string) ([]models.Interaction, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.item_id, i.type, i.rating, i.duration, i.ts,
			it.id, it.title, it.genres, it.studio, it.year, it.rating,
			it.view_count, it.watch_count, it.bookmark_count, it.share_count
		FROM interactions i
		LEFT JOIN items it ON it.id = i.item_id
		WHERE i.user_id = ?
		ORDER BY i.seq`, userID)
	if err != nil {
		return nil, wrapErr("find interactions", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]models.Interaction, 0)
	for rows.Next() {
		var (
			in     models.Interaction
			typ    string
			itemID sql.NullString
			title  sql.NullString
			genres sql.NullString
			studio sql.NullString
			year   sql.NullInt64
			rating sql.NullFloat64
			views  sql.NullInt64
			watch  sql.NullInt64
			books  sql.NullInt64
			shares sql.NullInt64
		)
		if err := rows.Scan(&in.ItemID, &typ, &in.Rating, &in.Duration, &in.Timestamp,
			&itemID, &title, &genres, &studio, &year, &rating, &views, &watch, &books, &shares); err != nil {
			return nil, wrapErr("scan interaction", err)
		}
		in.Type = models.InteractionType(typ)
		if itemID.Valid {
			in.Item = &models.Item{
				ID:            itemID.String,
				Title:         title.String,
				Genres:        splitGenres(genres.String),
				Studio:        studio.String,
				Year:          int(year.Int64),
				Rating:        rating.Float64,
				ViewCount:     views.Int64,
				WatchCount:    watch.Int64,
				BookmarkCount: books.Int64,
				ShareCount:    shares.Int64,
			}
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate interactions", err)
	}
	return out, nil
}

func (db *DB) userHistory(ctx context.Context, userID string) ([]models.RecommendationEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT item_id, algorithm, score, clicked, ts
		FROM recommendation_history
		WHERE user_id = ?
		ORDER BY seq`, userID)
	if err != nil {
		return nil, wrapErr("find history", err)
	}
	defer closeWithLog(rows, "rows")

	out := make([]models.RecommendationEntry, 0)
	for rows.Next() {
		var e models.RecommendationEntry
		if err := rows.Scan(&e.ItemID, &e.Algorithm, &e.Score, &e.Clicked, &e.Timestamp); err != nil {
			return nil, wrapErr("scan history", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate history", err)
	}
	return out, nil
}

// FindUsers implements store.UserReader. Users are returned in ID order
// and interaction items are not populated.
func (db *DB) FindUsers(ctx context.Context, q store.UserQuery) (users []models.User, err error) {
	defer db.observe("find_users", time.Now(), &err)

	wb := query.NewWhereBuilder().AddNotIn("u.id", q.ExcludeIDs)
	if q.WithInteractions {
		wb.AddClause("EXISTS (SELECT 1 FROM interactions i WHERE i.user_id = u.id)")
	}
	where, args := wb.BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx,
		"SELECT u.id, u.created_at FROM users u "+where+" ORDER BY u.id"+query.LimitOffset(q.Limit, 0),
		args...)
	if err != nil {
		return nil, wrapErr("find users", err)
	}

	users = make([]models.User, 0)
	index := make(map[string]int)
	for rows.Next() {
		u := models.User{Interactions: []models.Interaction{}}
		if err := rows.Scan(&u.ID, &u.CreatedAt); err != nil {
			closeQuietly(rows)
			return nil, wrapErr("scan user", err)
		}
		index[u.ID] = len(users)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, wrapErr("iterate users", err)
	}
	closeWithLog(rows, "rows")

	if len(users) == 0 {
		return users, nil
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	iwhere, iargs := query.NewWhereBuilder().AddIn("user_id", ids).BuildWithPrefix()
	irows, err := db.conn.QueryContext(ctx,
		"SELECT user_id, item_id, type, rating, duration, ts FROM interactions "+iwhere+" ORDER BY user_id, seq",
		iargs...)
	if err != nil {
		return nil, wrapErr("find user interactions", err)
	}
	defer closeWithLog(irows, "rows")

	for irows.Next() {
		var (
			userID string
			typ    string
			in     models.Interaction
		)
		if err := irows.Scan(&userID, &in.ItemID, &typ, &in.Rating, &in.Duration, &in.Timestamp); err != nil {
			return nil, wrapErr("scan interaction", err)
		}
		in.Type = models.InteractionType(typ)
		if i, ok := index[userID]; ok {
			users[i].Interactions = append(users[i].Interactions, in)
		}
	}
	if err := irows.Err(); err != nil {
		return nil, wrapErr("iterate user interactions", err)
	}
	return users, nil
}

// AppendInteraction implements store.UserWriter. The user row is created
// on first interaction.
func (db *DB) AppendInteraction(ctx context.Context, userID string, in models.Interaction) (err error) {
	defer db.observe("append_interaction", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, created_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING",
			userID, time.Now().UTC(),
		); err != nil {
			return wrapErr("create user", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO interactions (user_id, item_id, type, rating, duration, ts) VALUES (?, ?, ?, ?, ?, ?)",
			userID, in.ItemID, string(in.Type), in.Rating, in.Duration, in.Timestamp.UTC(),
		); err != nil {
			return wrapErr("insert interaction", err)
		}
		return nil
	})
}

// AppendRecommendationHistory implements store.UserWriter. The user must
// already exist.
func (db *DB) AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) (err error) {
	defer db.observe("append_history", time.Now(), &err)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)", userID,
		).Scan(&exists); err != nil {
			return wrapErr("check user", err)
		}
		if !exists {
			return fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
		}

		for i := range entries {
			e := &entries[i]
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO recommendation_history (user_id, item_id, algorithm, score, clicked, ts) VALUES (?, ?, ?, ?, ?, ?)",
				userID, e.ItemID, e.Algorithm, e.Score, e.Clicked, e.Timestamp.UTC(),
			); err != nil {
				return wrapErr("insert history", err)
			}
		}
		return nil
	})
}

// MarkRecommendationClicked implements store.UserWriter.
func (db *DB) MarkRecommendationClicked(ctx context.Context, userID, itemID string) (err error) {
	defer db.observe("mark_clicked", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `
		UPDATE recommendation_history SET clicked = true
		WHERE seq = (
			SELECT max(seq) FROM recommendation_history
			WHERE user_id = ? AND item_id = ? AND NOT clicked
		)`, userID, itemID)
	if err != nil {
		return wrapErr("mark clicked", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return wrapErr("mark clicked", err)
	}
	if affected == 0 {
		return fmt.Errorf("recommendation %s for user %s: %w", itemID, userID, store.ErrNotFound)
	}
	return nil
}
