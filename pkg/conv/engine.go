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

package conv

import (
	"go.uber.org/zap"

	"github.com/daviszhen/colvec/pkg/parser"
	"github.com/daviszhen/colvec/pkg/util"
)

// Execute validates the query, runs it on the foreign engine and
// wraps the outcome. The returned result always exists; a failure is
// reported through Success and ErrorMessage.
func Execute(eng Engine, query string) *Result {
	if _, err := parser.Parse(query); err != nil {
		util.Warn("reject query", zap.String("query", query), zap.Error(err))
		return failedResult(err)
	}
	fr, err := eng.Query(query)
	if err != nil {
		util.Warn("foreign query failed", zap.String("query", query), zap.Error(err))
		return failedResult(err)
	}
	res, err := newResult(fr)
	if err != nil {
		_ = fr.Close()
		util.Warn("unconvertible foreign schema", zap.Error(err))
		return failedResult(err)
	}
	return res
}
