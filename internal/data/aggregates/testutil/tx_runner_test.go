package testutil

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

func TestInjectedTxRunnerPhases(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		runner  *InjectedTxRunner
		body    error
		wantErr error
		want    []Phase
		ran     bool
	}{
		{name: "commit", runner: &InjectedTxRunner{}, want: []Phase{PhaseBegin, PhaseCommit}, ran: true},
		{name: "body error", runner: &InjectedTxRunner{}, body: boom, wantErr: boom, want: []Phase{PhaseBegin, PhaseRollback}, ran: true},
		{name: "begin error", runner: &InjectedTxRunner{FailBegin: boom}, wantErr: boom, want: []Phase{PhaseBegin}},
		{name: "commit error", runner: &InjectedTxRunner{FailCommit: boom}, wantErr: boom, want: []Phase{PhaseBegin, PhaseRollback}, ran: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
				ran = true
				if dbc.Tx != nil {
					t.Fatalf("fake runner must not hand out a tx")
				}
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err: want=%v got=%v", tc.wantErr, err)
			}
			if ran != tc.ran {
				t.Fatalf("body ran=%v want=%v", ran, tc.ran)
			}
			if !slices.Equal(tc.runner.Log, tc.want) {
				t.Fatalf("phases: want=%v got=%v", tc.want, tc.runner.Log)
			}
		})
	}
}

func TestInjectedTxRunnerCount(t *testing.T) {
	r := &InjectedTxRunner{}
	for i := 0; i < 3; i++ {
		_ = r.InTx(context.Background(), nil)
	}
	if r.Count(PhaseBegin) != 3 || r.Count(PhaseCommit) != 3 || r.Count(PhaseRollback) != 0 {
		t.Fatalf("unexpected log %v", r.Log)
	}
}
