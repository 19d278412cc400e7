package user

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByTelegramID(dbc dbctx.Context, telegramID int64) (*types.User, error)
	GetByAuthToken(dbc dbctx.Context, token uuid.UUID) (*types.User, error)
	LockByTelegramID(dbc dbctx.Context, telegramID int64) (*types.User, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) first(dbc dbctx.Context, where string, args ...any) (*types.User, error) {
	var out []*types.User
	if err := dbc.DB(ur.db).
		Where(where, args...).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	return ur.first(dbc, "id = ?", id)
}

func (ur *userRepo) GetByTelegramID(dbc dbctx.Context, telegramID int64) (*types.User, error) {
	return ur.first(dbc, "telegram_id = ?", telegramID)
}

func (ur *userRepo) GetByAuthToken(dbc dbctx.Context, token uuid.UUID) (*types.User, error) {
	if token == uuid.Nil {
		return nil, fmt.Errorf("missing auth token")
	}
	return ur.first(dbc, "auth_token = ?", token)
}

// LockByTelegramID returns nil when no user has the id.
func (ur *userRepo) LockByTelegramID(dbc dbctx.Context, telegramID int64) (*types.User, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByTelegramID requires dbc.Tx")
	}
	var out []*types.User
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("telegram_id = ?", telegramID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
