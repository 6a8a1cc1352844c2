package models

import (
	"database/sql/driver"
	"math"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is an ordered list of strings stored as a postgres text[] column.
// Other dialects keep the same array literal encoding in a text column.
type StringArray pq.StringArray

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return pq.StringArray(a).Value()
}

func (a *StringArray) Scan(src any) error {
	return (*pq.StringArray)(a).Scan(src)
}

func (StringArray) GormDataType() string { return "text" }

func (StringArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Contains reports whether s is in the array.
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// Slugify derives a URL slug: lower-cased, apostrophes stripped, spaces replaced by underscores.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = strings.NewReplacer("'", "", "’", "").Replace(slug)
	return strings.ReplaceAll(slug, " ", "_")
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// Pagination is the limit/offset query common to every list endpoint.
type Pagination struct {
	Limit  int `json:"limit" query:"limit" validate:"omitempty,gt=0"`
	Offset int `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Normalize applies the defaults for absent values.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = DefaultOffset
	}
	return p
}

type PageMeta struct {
	Total    int64 `json:"total"`
	Offset   int   `json:"offset"`
	LastPage int   `json:"lastPage"`
}

// Page is the paginated list envelope: {data, meta:{total, offset, lastPage}}.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPage builds a page. Offsets past the end yield empty data with the real total.
func NewPage[T any](data []T, total int64, p Pagination) Page[T] {
	p = p.Normalize()
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data: data,
		Meta: PageMeta{
			Total:    total,
			Offset:   p.Offset,
			LastPage: int(math.Ceil(float64(total) / float64(p.Limit))),
		},
	}
}

// ListStamp summarizes the rows behind a list: any insert, update or soft delete changes it.
type ListStamp struct {
	Total      int64
	LastUpdate string
}
