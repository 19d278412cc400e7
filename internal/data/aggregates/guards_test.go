package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/lexiprogress-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/domain/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

func TestRequireApplied(t *testing.T) {
	if err := RequireApplied(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := RequireApplied(false, "session already ended")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if !domainagg.IsCode(MapError("op", err), domainagg.CodeConflict) {
		t.Fatalf("expected conflict code after mapping")
	}
}

func TestCASGuardRejectsIncompleteCalls(t *testing.T) {
	dbc := dbctx.Context{Ctx: context.Background()}
	set := map[string]any{"end_time": time.Now()}
	cases := map[string]func() (bool, error){
		"no db":      func() (bool, error) { return NewCASGuard(nil).UpdateIf(dbc, "study_session", uuid.New(), ColumnIsNull("end_time"), set) },
		"no table":   func() (bool, error) { return NewCASGuard(nil).UpdateIf(dbc, " ", uuid.New(), ColumnIsNull("end_time"), set) },
		"no id":      func() (bool, error) { return NewCASGuard(nil).UpdateIf(dbc, "study_session", uuid.Nil, ColumnIsNull("end_time"), set) },
		"no guard":   func() (bool, error) { return NewCASGuard(nil).UpdateIf(dbc, "study_session", uuid.New(), Guard{}, set) },
		"no updates": func() (bool, error) { return NewCASGuard(nil).UpdateIf(dbc, "study_session", uuid.New(), ColumnIsNull("end_time"), nil) },
	}
	for name, call := range cases {
		if _, err := call(); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: want validation error, got %v", name, err)
		}
	}
}

func TestCASGuardAppliesOnlyWhileGuardHolds(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	user := repotest.SeedUser(t, ctx, db)
	sess := repotest.SeedSession(t, ctx, db, user.ID, time.Now().UTC().Add(-time.Minute))
	table := (&progress.StudySession{}).TableName()

	g := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx}
	end := time.Now().UTC()

	ok, err := g.UpdateIf(dbc, table, sess.ID, ColumnIsNull("end_time"), map[string]any{"end_time": end})
	if err != nil || !ok {
		t.Fatalf("first close: ok=%v err=%v", ok, err)
	}
	ok, err = g.UpdateIf(dbc, table, sess.ID, ColumnIsNull("end_time"), map[string]any{"end_time": end})
	if err != nil || ok {
		t.Fatalf("second close should not apply: ok=%v err=%v", ok, err)
	}

	ok, err = g.UpdateIf(dbc, table, sess.ID, ColumnEquals("duration_minutes", 0), map[string]any{"duration_minutes": 5})
	if err != nil || !ok {
		t.Fatalf("equals guard: ok=%v err=%v", ok, err)
	}
	ok, err = g.UpdateIf(dbc, table, sess.ID, ColumnEquals("duration_minutes", 0), map[string]any{"duration_minutes": 9})
	if err != nil || ok {
		t.Fatalf("stale equals guard should not apply: ok=%v err=%v", ok, err)
	}
}
