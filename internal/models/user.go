// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package models

import "time"

// RecommendationEntry records one item served to a user.
// Clicked is flipped later by click tracking.
type RecommendationEntry struct {
	ItemID    string    `json:"itemId" bson:"item"`
	Algorithm string    `json:"algorithm" bson:"algorithm"`
	Score     float64   `json:"score" bson:"score"`
	Clicked   bool      `json:"clicked" bson:"clicked"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// User holds the interaction log and recommendation history of one user.
type User struct {
	ID                    string                `json:"id" bson:"_id"`
	Interactions          []Interaction         `json:"interactions" bson:"interactions"`
	RecommendationHistory []RecommendationEntry `json:"recommendationHistory,omitempty" bson:"recommendationHistory"`
	CreatedAt             time.Time             `json:"createdAt" bson:"createdAt"`
}

// InteractedItemIDs returns the set of item IDs present in the interaction log.
func (u *User) InteractedItemIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(u.Interactions))
	for i := range u.Interactions {
		ids[u.Interactions[i].ItemID] = struct{}{}
	}
	return ids
}

// InteractedItemList returns the distinct interacted item IDs in log order.
func (u *User) InteractedItemList() []string {
	seen := make(map[string]struct{}, len(u.Interactions))
	ids := make([]string, 0, len(u.Interactions))
	for i := range u.Interactions {
		id := u.Interactions[i].ItemID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
