// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// It ensures consistent parameter handling and reduces SQL injection risks.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddIn("id", ids)
//	wb.AddNotIn("id", excluded)
//	whereClause, args := wb.Build()
//	// id IN (?, ?) AND id NOT IN (?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "studio = ?")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds "column IN (?, ...)". An empty list is skipped.
// column must be a trusted identifier, never user input.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, Placeholders(len(values))))
	wb.args = appendStrings(wb.args, values)
	return wb
}

// AddNotIn adds "column NOT IN (?, ...)". An empty list is skipped.
func (wb *WhereBuilder) AddNotIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s NOT IN (%s)", column, Placeholders(len(values))))
	wb.args = appendStrings(wb.args, values)
	return wb
}

// AddAnyOf adds the clauses of another builder OR-ed together as a single
// parenthesized clause. An empty builder is skipped.
func (wb *WhereBuilder) AddAnyOf(alternatives *WhereBuilder) *WhereBuilder {
	if alternatives == nil || alternatives.IsEmpty() {
		return wb
	}
	wb.clauses = append(wb.clauses, "("+strings.Join(alternatives.clauses, " OR ")+")")
	wb.args = append(wb.args, alternatives.args...)
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
//
// Example:
//
//	whereClause, args := wb.Build()
//	query := fmt.Sprintf("SELECT * FROM items WHERE %s", whereClause)
//	db.Query(query, args...)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// OrderBy builds an ORDER BY clause from trusted column names.
// Each term is "column ASC" or "column DESC".
type OrderBy struct {
	terms []string
}

// Asc appends an ascending term.
func (o *OrderBy) Asc(column string) *OrderBy {
	o.terms = append(o.terms, column+" ASC")
	return o
}

// Desc appends a descending term.
func (o *OrderBy) Desc(column string) *OrderBy {
	o.terms = append(o.terms, column+" DESC")
	return o
}

// String returns "ORDER BY ..." or the empty string when no term was added.
func (o *OrderBy) String() string {
	if len(o.terms) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(o.terms, ", ")
}

// LimitOffset returns a LIMIT/OFFSET suffix. Non-positive values are omitted.
func LimitOffset(limit, offset int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String()
}

func appendStrings(args []interface{}, values []string) []interface{} {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
