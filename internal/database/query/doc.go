// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package query provides SQL query building utilities for the database package.

WhereBuilder accumulates parameterized conditions that are AND-ed together;
AddAnyOf nests a second builder whose conditions are OR-ed, which is how the
catalog similarity filter (shared genre OR same studio OR year window) is
expressed. Column names passed to the builders are always package
constants, never request input; every value goes through a "?" parameter.

Example:

	similar := query.NewWhereBuilder().
		AddClause("studio = ?", "Bones").
		AddClause("year BETWEEN ? AND ?", 2008, 2012)

	wb := query.NewWhereBuilder().
		AddNotIn("id", []string{"fma"}).
		AddAnyOf(similar)

	where, args := wb.BuildWithPrefix()
	// WHERE id NOT IN (?) AND (studio = ? OR year BETWEEN ? AND ?)
*/
package query
