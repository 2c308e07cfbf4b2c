// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/animerec/internal/models"
)

// Memory is an in-process Store. Items keep insertion order, which is the
// tie-break order for equal sort keys. It backs the default "memory"
// deployment and every package's tests.
type Memory struct {
	mu        sync.RWMutex
	items     map[string]*models.Item
	itemOrder []string
	users     map[string]*models.User
	userOrder []string

	unavailable atomic.Bool
	now         func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]*models.Item),
		users: make(map[string]*models.User),
		now:   time.Now,
	}
}

// SetAvailable toggles simulated availability. While unavailable, every
// call returns ErrUnavailable.
func (m *Memory) SetAvailable(available bool) {
	m.unavailable.Store(!available)
}

func (m *Memory) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.unavailable.Load() {
		return ErrUnavailable
	}
	return nil
}

// Ping implements Store.
func (m *Memory) Ping(ctx context.Context) error {
	return m.check(ctx)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

// UpsertItems implements ItemSeeder. Existing items are replaced in place
// and keep their original position.
func (m *Memory) UpsertItems(ctx context.Context, items []models.Item) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("item at index %d has no id", i)
		}
		item := cloneItem(&items[i])
		if _, exists := m.items[item.ID]; !exists {
			m.itemOrder = append(m.itemOrder, item.ID)
		}
		m.items[item.ID] = &item
	}
	return nil
}

// PutUser stores a user record as-is, replacing any previous one.
func (m *Memory) PutUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.ID]; !exists {
		m.userOrder = append(m.userOrder, u.ID)
	}
	cp := cloneUser(&u)
	m.users[u.ID] = &cp
}

// FindItem implements ItemReader.
func (m *Memory) FindItem(ctx context.Context, id string) (*models.Item, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	cp := cloneItem(item)
	return &cp, nil
}

// FindItems implements ItemReader.
func (m *Memory) FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	matched := make([]models.Item, 0, len(m.itemOrder))
	for _, id := range m.itemOrder {
		item := m.items[id]
		if q.Matches(item) {
			matched = append(matched, cloneItem(item))
		}
	}
	m.mu.RUnlock()

	if len(q.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return Less(q.Sort, &matched[i], &matched[j])
		})
	}
	return page(matched, q.Skip, q.Limit), nil
}

// CountItems implements ItemReader.
func (m *Memory) CountItems(ctx context.Context, q ItemQuery) (int, error) {
	if err := m.check(ctx); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, id := range m.itemOrder {
		if q.Matches(m.items[id]) {
			n++
		}
	}
	return n, nil
}

// IncrementCounter implements ItemWriter.
func (m *Memory) IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	if !counter.Valid() {
		return fmt.Errorf("unknown counter %q", counter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok {
		return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	counter.Add(item, delta)
	return nil
}

// FindUser implements UserReader.
func (m *Memory) FindUser(ctx context.Context, id string) (*models.User, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	cp := cloneUser(u)
	for i := range cp.Interactions {
		if item, ok := m.items[cp.Interactions[i].ItemID]; ok {
			it := cloneItem(item)
			cp.Interactions[i].Item = &it
		}
	}
	return &cp, nil
}

// FindUsers implements UserReader.
func (m *Memory) FindUsers(ctx context.Context, q UserQuery) ([]models.User, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]models.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		if slices.Contains(q.ExcludeIDs, id) {
			continue
		}
		u := m.users[id]
		if q.WithInteractions && len(u.Interactions) == 0 {
			continue
		}
		users = append(users, cloneUser(u))
		if q.Limit > 0 && len(users) >= q.Limit {
			break
		}
	}
	return users, nil
}

// AppendInteraction implements UserWriter.
func (m *Memory) AppendInteraction(ctx context.Context, userID string, in models.Interaction) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	in.Item = nil
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.userLocked(userID)
	u.Interactions = append(u.Interactions, in)
	return nil
}

// AppendRecommendationHistory implements UserWriter.
func (m *Memory) AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	u.RecommendationHistory = append(u.RecommendationHistory, entries...)
	return nil
}

// MarkRecommendationClicked implements UserWriter.
func (m *Memory) MarkRecommendationClicked(ctx context.Context, userID, itemID string) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	for i := len(u.RecommendationHistory) - 1; i >= 0; i-- {
		e := &u.RecommendationHistory[i]
		if e.ItemID == itemID && !e.Clicked {
			e.Clicked = true
			return nil
		}
	}
	return fmt.Errorf("recommendation %s for user %s: %w", itemID, userID, ErrNotFound)
}

// userLocked returns the user, creating it if needed. Caller holds mu.
func (m *Memory) userLocked(id string) *models.User {
	if u, ok := m.users[id]; ok {
		return u
	}
	u := &models.User{ID: id, CreatedAt: m.now()}
	m.users[id] = u
	m.userOrder = append(m.userOrder, id)
	return u
}

func cloneItem(item *models.Item) models.Item {
	cp := *item
	cp.Genres = slices.Clone(item.Genres)
	return cp
}

func cloneUser(u *models.User) models.User {
	cp := *u
	cp.Interactions = slices.Clone(u.Interactions)
	for i := range cp.Interactions {
		cp.Interactions[i].Item = nil
	}
	cp.RecommendationHistory = slices.Clone(u.RecommendationHistory)
	return cp
}

// page applies skip and limit to an already ordered slice.
func page[T any](list []T, skip, limit int) []T {
	if skip > 0 {
		if skip >= len(list) {
			return list[:0]
		}
		list = list[skip:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

var (
	_ Store      = (*Memory)(nil)
	_ ItemSeeder = (*Memory)(nil)
)
