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

package compute

import (
	"context"
	"fmt"

	wire "github.com/jeroenrinzema/psql-wire"
	"github.com/lib/pq/oid"
	"go.uber.org/zap"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/conv"
	"github.com/daviszhen/colvec/pkg/util"
)

// Runner drives one query through a foreign engine and streams the
// converted batches.
type Runner struct {
	cfg *util.Config
	res *conv.Result
}

func InitRunner(cfg *util.Config, query string) (*Runner, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	res := conv.Execute(eng, query)
	if !res.Success() {
		return nil, fmt.Errorf("query failed: %s", res.ErrorMessage())
	}
	return &Runner{
		cfg: cfg,
		res: res,
	}, nil
}

func NewEngine(cfg *util.Config) (conv.Engine, error) {
	switch cfg.Data.Format {
	case "parquet":
		return conv.NewParquetEngine(cfg.Data.Path), nil
	default:
		return nil, fmt.Errorf("data format %q: %w",
			cfg.Data.Format, common.ErrUnsupported)
	}
}

func (run *Runner) Columns() wire.Columns {
	cols := make(wire.Columns, 0)
	for i := 0; i < run.res.ColumnCount(); i++ {
		typ := run.res.TypeAt(i)
		col := wire.Column{
			Name:  run.res.NameAt(i),
			Oid:   columnOid(typ),
			Width: int16(typ.Width),
		}
		cols = append(cols, col)
	}
	return cols
}

func columnOid(lt common.LType) oid.Oid {
	switch lt.Id {
	case common.LTID_BOOLEAN:
		return oid.T_bool
	case common.LTID_TINYINT, common.LTID_SMALLINT:
		return oid.T_int2
	case common.LTID_INTEGER:
		return oid.T_int4
	case common.LTID_BIGINT:
		return oid.T_int8
	case common.LTID_HUGEINT, common.LTID_DECIMAL:
		return oid.T_numeric
	case common.LTID_FLOAT:
		return oid.T_float4
	case common.LTID_DOUBLE:
		return oid.T_float8
	case common.LTID_DATE:
		return oid.T_date
	case common.LTID_TIMESTAMP:
		return oid.T_timestamp
	default:
		return oid.T_varchar
	}
}

func (run *Runner) Run(ctx context.Context, writer wire.DataWriter) error {
	rows := 0
	for {
		next, err := run.res.Next()
		if err != nil {
			return err
		}
		if !next {
			break
		}
		output, err := run.res.GetVector()
		if err != nil {
			return err
		}
		if run.cfg.Debug.Explain {
			fmt.Println(output.Explain())
		}
		err = output.SaveToWriter(writer)
		if err != nil {
			return err
		}
		rows += output.Card()
		if run.cfg.Debug.MaxOutputRowCount > 0 &&
			rows >= run.cfg.Debug.MaxOutputRowCount {
			break
		}
	}
	return nil
}

func (run *Runner) Close() {
	_ = run.res.Close()
}

// Run executes the configured query and prints batches to stdout.
func Run(cfg *util.Config) error {
	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}
	res := conv.Execute(eng, cfg.Query)
	if !res.Success() {
		return fmt.Errorf("query failed: %s", res.ErrorMessage())
	}
	defer res.Close()

	rows := 0
	for {
		next, err := res.Next()
		if err != nil {
			return err
		}
		if !next {
			break
		}
		output, err := res.GetVector()
		if err != nil {
			return err
		}
		if cfg.Debug.Explain {
			fmt.Println(output.Explain())
		}
		if cfg.Debug.PrintResult {
			output.Print()
		}
		rows += output.Card()
		if cfg.Debug.MaxOutputRowCount > 0 &&
			rows >= cfg.Debug.MaxOutputRowCount {
			break
		}
	}
	util.Info("query done", zap.Int("rows", rows))
	return nil
}
