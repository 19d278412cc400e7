package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

// Guard is a WHERE fragment a row must still satisfy for a guarded update to apply.
type Guard struct {
	Clause string
	Args   []any
}

// ColumnIsNull guards on a column that is only ever set once, such as end_time.
func ColumnIsNull(column string) Guard {
	return Guard{Clause: strings.TrimSpace(column) + " IS NULL"}
}

// ColumnEquals guards on a column still holding an expected value.
func ColumnEquals(column string, v any) Guard {
	return Guard{Clause: strings.TrimSpace(column) + " = ?", Args: []any{v}}
}

// CASGuard runs compare-and-set style single-row updates for aggregate writes.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// UpdateIf applies updates to row id in table only while guard holds and
// reports whether the row changed.
func (g CASGuard) UpdateIf(dbc dbctx.Context, table string, id uuid.UUID, guard Guard, updates map[string]any) (bool, error) {
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil || strings.TrimSpace(guard.Clause) == "" {
		return false, ValidationError("guarded update needs a table, a row id and a guard")
	}
	if len(updates) == 0 {
		return false, ValidationError("guarded update has nothing to set")
	}
	var db *gorm.DB
	switch {
	case dbc.Tx != nil:
		db = dbc.Tx.WithContext(dbc.Ctx)
	case g.db != nil:
		db = g.db.WithContext(dbc.Ctx)
	default:
		return false, ValidationError("guarded update has no database handle")
	}
	res := db.Table(table).Where("id = ?", id).Where(guard.Clause, guard.Args...).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RequireApplied turns a guarded update that matched no row into a conflict.
func RequireApplied(applied bool, message string) error {
	if applied {
		return nil
	}
	return ConflictError(message)
}
