package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

// lockOrCreate inserts seed unless a row with the same key columns exists,
// then loads that row into dest under FOR UPDATE. created reports whether
// this call inserted it.
func lockOrCreate(dbc dbctx.Context, seed any, dest any, keys []string, where string, args ...any) (bool, error) {
	if dbc.Tx == nil {
		return false, fmt.Errorf("lockOrCreate requires dbc.Tx")
	}
	cols := make([]clause.Column, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, clause.Column{Name: k})
	}
	res := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(seed)
	if res.Error != nil {
		return false, res.Error
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(lockingUpdate()).
		Where(where, args...).
		Take(dest).Error; err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// ensure inserts seed unless the key already exists.
func ensure(dbc dbctx.Context, db *gorm.DB, seed any, keys []string) (bool, error) {
	cols := make([]clause.Column, 0, len(keys))
	for _, k := range keys {
		cols = append(cols, clause.Column{Name: k})
	}
	res := dbc.DB(db).
		Clauses(clause.OnConflict{Columns: cols, DoNothing: true}).
		Create(seed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func updateFields(dbc dbctx.Context, db *gorm.DB, model any, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.DB(db).
		Model(model).
		Where("id = ?", id).
		Updates(updates).Error
}

func lockingUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
