package conv

import (
	"unsafe"

	"github.com/daviszhen/colvec/pkg/util"
)

type ForeignEncoding int

const (
	FE_FLAT ForeignEncoding = iota
	FE_CONST
	FE_DICT
)

var foreignEncodingName = map[ForeignEncoding]string{
	FE_FLAT:  "flat",
	FE_CONST: "constant",
	FE_DICT:  "dictionary",
}

func (enc ForeignEncoding) String() string {
	if s, has := foreignEncodingName[enc]; has {
		return s
	}
	return "unknown"
}

type ForeignTypeId int

const (
	FT_INVALID ForeignTypeId = iota
	FT_BOOLEAN
	FT_TINYINT
	FT_SMALLINT
	FT_INTEGER
	FT_BIGINT
	FT_HUGEINT
	FT_FLOAT
	FT_DOUBLE
	FT_DECIMAL
	FT_VARCHAR
	FT_DATE
	FT_TIMESTAMP
)

var foreignTypeName = map[ForeignTypeId]string{
	FT_INVALID:   "invalid",
	FT_BOOLEAN:   "boolean",
	FT_TINYINT:   "tinyint",
	FT_SMALLINT:  "smallint",
	FT_INTEGER:   "integer",
	FT_BIGINT:    "bigint",
	FT_HUGEINT:   "hugeint",
	FT_FLOAT:     "float",
	FT_DOUBLE:    "double",
	FT_DECIMAL:   "decimal",
	FT_VARCHAR:   "varchar",
	FT_DATE:      "date",
	FT_TIMESTAMP: "timestamp",
}

func (id ForeignTypeId) String() string {
	if s, has := foreignTypeName[id]; has {
		return s
	}
	return "unknown"
}

// ForeignType describes one column of a foreign result. Width and
// Scale only matter for FT_DECIMAL.
type ForeignType struct {
	Id    ForeignTypeId
	Width int
	Scale int
}

// ForeignColumn is one column of a foreign batch. Data points at the
// engine's own memory; its layout follows the column type (micros for
// timestamps, days for dates, value bytes otherwise). A dictionary
// column carries row indices in Selection and its values in Child.
type ForeignColumn interface {
	Encoding() ForeignEncoding
	Data() unsafe.Pointer
	//nil means every row is valid
	Validity() *util.Bitmap
	Selection() []uint32
	Child() ForeignColumn
}

// StringColumn is implemented by varchar columns.
type StringColumn interface {
	StringAt(row int) []byte
}

// ForeignChunk is one refcounted batch. Release undoes one Retain;
// the batch memory stays alive until the count drops to zero.
type ForeignChunk interface {
	Card() int
	Column(i int) ForeignColumn
	Retain()
	Release()
}

// ForeignResult streams batches of a finished foreign query.
type ForeignResult interface {
	ColumnCount() int
	TypeAt(i int) ForeignType
	NameAt(i int) string
	//nil chunk means the result is exhausted
	Fetch() (ForeignChunk, error)
	Close() error
}

// Engine runs a query against a foreign source.
type Engine interface {
	Query(query string) (ForeignResult, error)
}
