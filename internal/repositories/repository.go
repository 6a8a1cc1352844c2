package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no active row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

const pgUniqueViolation = "23505"

// ListFilter scopes a paginated list. A nil StoreID means every store.
type ListFilter struct {
	StoreID *uint
	Limit   int
	Offset  int
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// translate maps driver errors onto the package sentinels, keeping the cause.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func likeTerm(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func active(db *gorm.DB, table string) *gorm.DB {
	return db.Where(table+".is_active = ?", true)
}

func scoped(db *gorm.DB, table string, f ListFilter) *gorm.DB {
	db = active(db, table)
	if f.StoreID != nil {
		db = db.Where(table+".store_id = ?", *f.StoreID)
	}
	return db
}

// listStamp reads COUNT(*) and MAX(updated_at) over the rows a list would page through.
func listStamp(ctx context.Context, db *gorm.DB, model any, table string, f ListFilter) (models.ListStamp, error) {
	var (
		total int64
		last  sql.NullString
	)
	row := scoped(db.WithContext(ctx).Model(model), table, f).
		Select("COUNT(*), MAX(" + table + ".updated_at)").
		Row()
	if err := row.Scan(&total, &last); err != nil {
		return models.ListStamp{}, fmt.Errorf("failed to stamp %s: %w", table, err)
	}
	return models.ListStamp{Total: total, LastUpdate: last.String}, nil
}

func page(db *gorm.DB, f ListFilter) *gorm.DB {
	return db.Limit(f.Limit).Offset(f.Offset)
}
