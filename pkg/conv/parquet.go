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
	"fmt"
	"path/filepath"

	pqLocal "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	pqReader "github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"

	"github.com/daviszhen/colvec/pkg/common"
	"github.com/daviszhen/colvec/pkg/parser"
	"github.com/daviszhen/colvec/pkg/util"
)

// ParquetEngine serves queries from a directory of parquet files, one
// file per table.
type ParquetEngine struct {
	dataPath string
	alloc    *util.TrackedAllocator
}

func NewParquetEngine(dataPath string) *ParquetEngine {
	return &ParquetEngine{
		dataPath: dataPath,
		alloc:    util.NewTrackedAllocator(nil),
	}
}

func (eng *ParquetEngine) Alloc() *util.TrackedAllocator {
	return eng.alloc
}

func (eng *ParquetEngine) Query(query string) (ForeignResult, error) {
	table, err := parser.TableName(query)
	if err != nil {
		return nil, err
	}
	file, err := pqLocal.NewLocalFileReader(
		filepath.Join(eng.dataPath, table+".parquet"))
	if err != nil {
		return nil, err
	}
	rdr, err := pqReader.NewParquetColumnReader(file, 1)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	fts, names, err := parquetSchema(rdr)
	if err != nil {
		rdr.ReadStop()
		_ = file.Close()
		return nil, err
	}
	return &parquetResult{
		eng:       eng,
		file:      file,
		rdr:       rdr,
		fts:       fts,
		names:     names,
		remaining: rdr.GetNumRows(),
	}, nil
}

func parquetSchema(rdr *pqReader.ParquetReader) ([]ForeignType, []string, error) {
	var fts []ForeignType
	var names []string
	//element 0 is the schema root
	for _, se := range rdr.SchemaHandler.SchemaElements[1:] {
		if se.NumChildren != nil && *se.NumChildren > 0 {
			return nil, nil, fmt.Errorf("nested parquet column %s: %w",
				se.Name, common.ErrUnsupported)
		}
		ft, err := parquetColumnType(se)
		if err != nil {
			return nil, nil, err
		}
		fts = append(fts, ft)
		names = append(names, se.Name)
	}
	return fts, names, nil
}

func parquetColumnType(se *parquet.SchemaElement) (ForeignType, error) {
	conv := func(ct parquet.ConvertedType) bool {
		return se.ConvertedType != nil && *se.ConvertedType == ct
	}
	if conv(parquet.ConvertedType_DECIMAL) {
		if se.Precision == nil || se.Scale == nil {
			return ForeignType{}, fmt.Errorf("decimal column %s without precision: %w",
				se.Name, common.ErrValidation)
		}
		return ForeignType{
			Id:    FT_DECIMAL,
			Width: int(*se.Precision),
			Scale: int(*se.Scale),
		}, nil
	}
	if se.Type == nil {
		return ForeignType{}, fmt.Errorf("untyped parquet column %s: %w",
			se.Name, common.ErrUnsupported)
	}
	switch *se.Type {
	case parquet.Type_BOOLEAN:
		return ForeignType{Id: FT_BOOLEAN}, nil
	case parquet.Type_INT32:
		if conv(parquet.ConvertedType_DATE) {
			return ForeignType{Id: FT_DATE}, nil
		}
		return ForeignType{Id: FT_INTEGER}, nil
	case parquet.Type_INT64:
		if conv(parquet.ConvertedType_TIMESTAMP_MICROS) {
			return ForeignType{Id: FT_TIMESTAMP}, nil
		}
		return ForeignType{Id: FT_BIGINT}, nil
	case parquet.Type_FLOAT:
		return ForeignType{Id: FT_FLOAT}, nil
	case parquet.Type_DOUBLE:
		return ForeignType{Id: FT_DOUBLE}, nil
	case parquet.Type_BYTE_ARRAY, parquet.Type_FIXED_LEN_BYTE_ARRAY:
		return ForeignType{Id: FT_VARCHAR}, nil
	default:
		return ForeignType{}, fmt.Errorf("parquet type %v of column %s: %w",
			*se.Type, se.Name, common.ErrUnsupported)
	}
}

type parquetResult struct {
	eng       *ParquetEngine
	file      source.ParquetFile
	rdr       *pqReader.ParquetReader
	fts       []ForeignType
	names     []string
	remaining int64
}

func (pr *parquetResult) ColumnCount() int {
	return len(pr.fts)
}

func (pr *parquetResult) TypeAt(i int) ForeignType {
	return pr.fts[i]
}

func (pr *parquetResult) NameAt(i int) string {
	return pr.names[i]
}

func (pr *parquetResult) Fetch() (ForeignChunk, error) {
	if pr.remaining <= 0 {
		return nil, nil
	}
	cnt := pr.remaining
	if cnt > int64(util.DefaultVectorSize) {
		cnt = int64(util.DefaultVectorSize)
	}
	mc := &MemChunk{
		card:  int(cnt),
		alloc: pr.eng.alloc,
	}
	mc.refs.Store(1)
	for i, ft := range pr.fts {
		values, _, _, err := pr.rdr.ReadColumnByIndex(int64(i), cnt)
		if err != nil {
			mc.Release()
			return nil, err
		}
		if err = appendParquetColumn(mc, ft, values); err != nil {
			mc.Release()
			return nil, err
		}
	}
	pr.remaining -= cnt
	return mc, nil
}

func (pr *parquetResult) Close() error {
	pr.rdr.ReadStop()
	return pr.file.Close()
}

func appendParquetColumn(mc *MemChunk, ft ForeignType, values []interface{}) error {
	switch ft.Id {
	case FT_BOOLEAN:
		return parquetFlat[bool](mc, values)
	case FT_INTEGER, FT_DATE:
		return parquetFlat[int32](mc, values)
	case FT_BIGINT, FT_TIMESTAMP:
		return parquetFlat[int64](mc, values)
	case FT_FLOAT:
		return parquetFlat[float32](mc, values)
	case FT_DOUBLE:
		return parquetFlat[float64](mc, values)
	case FT_DECIMAL:
		switch {
		case ft.Width <= common.DecimalMaxWidthInt32:
			return parquetFlat[int32](mc, values)
		case ft.Width <= common.DecimalMaxWidthInt64:
			return parquetFlat[int64](mc, values)
		default:
			return fmt.Errorf("parquet decimal width %d: %w",
				ft.Width, common.ErrUnsupported)
		}
	case FT_VARCHAR:
		strs := make([]string, len(values))
		var nulls []int
		for i, v := range values {
			if v == nil {
				nulls = append(nulls, i)
				continue
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("unexpected parquet value %T: %w",
					v, common.ErrValidation)
			}
			strs[i] = s
		}
		StringFlatColumn(mc, strs, nulls...)
		return nil
	default:
		return fmt.Errorf("parquet column of foreign type %v: %w",
			ft.Id, common.ErrUnsupported)
	}
}

func parquetFlat[T any](mc *MemChunk, values []interface{}) error {
	out := make([]T, len(values))
	var nulls []int
	for i, v := range values {
		if v == nil {
			nulls = append(nulls, i)
			continue
		}
		tv, ok := v.(T)
		if !ok {
			return fmt.Errorf("unexpected parquet value %T: %w",
				v, common.ErrValidation)
		}
		out[i] = tv
	}
	FlatColumn(mc, out, nulls...)
	return nil
}
