package services

import (
	"testing"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
)

func TestAppLoginURL(t *testing.T) {
	cases := []struct {
		base, want string
	}{
		{"https://app.example.com/", "https://app.example.com/?token=abc"},
		{"https://app.example.com/login?lang=ar", "https://app.example.com/login?lang=ar&token=abc"},
	}
	for _, c := range cases {
		got, err := AppLoginURL(c.base, "abc")
		if err != nil || got != c.want {
			t.Fatalf("AppLoginURL(%q) = %q, %v; want %q", c.base, got, err, c.want)
		}
	}
}

func TestProvisioningEnsureUserReturnsLoginLink(t *testing.T) {
	f := newFixture(t)
	agg := aggregates.NewProvisioningAggregate(aggregates.ProvisioningAggregateDeps{
		Base:  aggregates.BaseDeps{DB: f.db, Log: f.log},
		Users: f.repos.Users,
		Stats: f.repos.Stats,
	})
	svc := NewProvisioningService(f.log, agg, "https://app.example.com/")

	out, err := svc.EnsureUser(f.ctx, ProvisionRequest{TelegramID: 4242000 + int64(baseOrder()), TelegramUsername: "@amina"})
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if !out.Created || !out.IsPaid {
		t.Fatalf("unexpected result: %+v", out)
	}
	u, err := f.repos.Users.GetByID(f.dbc(), out.UserID)
	if err != nil || u == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if want := "https://app.example.com/?token=" + u.AuthToken.String(); out.AppURL != want {
		t.Fatalf("AppURL = %q, want %q", out.AppURL, want)
	}

	again, err := svc.EnsureUser(f.ctx, ProvisionRequest{TelegramID: *u.TelegramID})
	if err != nil || again.Created || again.AppURL != out.AppURL {
		t.Fatalf("second EnsureUser: %+v err=%v", again, err)
	}
}
