package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	repotest "github.com/yungbote/lexiprogress-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	log   *logger.Logger
	repos repos.Set
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		db:    db,
		log:   log,
		repos: repos.NewSet(db, log),
	}
}

// baseOrder keeps block orders of concurrent runs on a shared database apart.
func baseOrder() int {
	return int(repotest.TelegramID()%1_000_000) * 10
}

func (f *fixture) create(rows ...any) {
	f.t.Helper()
	for _, r := range rows {
		if err := f.db.WithContext(f.ctx).Create(r).Error; err != nil {
			f.t.Fatalf("create %T: %v", r, err)
		}
	}
}

func (f *fixture) user() *types.User {
	return repotest.SeedUser(f.t, f.ctx, f.db)
}

func (f *fixture) dbc() dbctx.Context {
	return dbctx.Context{Ctx: f.ctx}
}
