// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/daviszhen/colvec/pkg/common"
)

func Parse(s string) ([]*pg_query.RawStmt, error) {
	result, err := pg_query.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %v: %w", s, err, common.ErrValidation)
	}
	return result.Stmts, nil
}

// TableName extracts the relation of a single-table SELECT. Queries
// that are not of that shape are rejected.
func TableName(s string) (string, error) {
	stmts, err := Parse(s)
	if err != nil {
		return "", err
	}
	if len(stmts) != 1 {
		return "", fmt.Errorf("expect one statement, got %d: %w", len(stmts), common.ErrValidation)
	}
	sel := stmts[0].GetStmt().GetSelectStmt()
	if sel == nil {
		return "", fmt.Errorf("not a select statement: %w", common.ErrValidation)
	}
	from := sel.GetFromClause()
	if len(from) != 1 {
		return "", fmt.Errorf("expect one table, got %d: %w", len(from), common.ErrValidation)
	}
	rv := from[0].GetRangeVar()
	if rv == nil {
		return "", fmt.Errorf("expect a plain table reference: %w", common.ErrValidation)
	}
	return rv.GetRelname(), nil
}
