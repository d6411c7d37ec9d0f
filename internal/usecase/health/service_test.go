package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockUpstream struct {
	err      error
	gotToken string
}

func (m *mockUpstream) Ping(_ context.Context, token string) error {
	m.gotToken = token
	return m.err
}

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		dbErr      error
		upstream   *mockUpstream
		wantStatus Status
		wantChecks map[string]CheckResult
	}{
		{
			name:       "all healthy",
			upstream:   &mockUpstream{},
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{"database": CheckOK, "recipe_api": CheckOK},
		},
		{
			name:       "database down",
			dbErr:      down,
			upstream:   &mockUpstream{},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{"database": CheckError, "recipe_api": CheckOK},
		},
		{
			name:       "recipe api down",
			upstream:   &mockUpstream{err: down},
			wantStatus: Degraded,
			wantChecks: map[string]CheckResult{"database": CheckOK, "recipe_api": CheckError},
		},
		{
			name:       "everything down",
			dbErr:      down,
			upstream:   &mockUpstream{err: down},
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"database": CheckError, "recipe_api": CheckError},
		},
		{
			name:       "api ping disabled",
			wantStatus: Healthy,
			wantChecks: map[string]CheckResult{"database": CheckOK},
		},
		{
			name:       "api ping disabled, database down",
			dbErr:      down,
			wantStatus: Unhealthy,
			wantChecks: map[string]CheckResult{"database": CheckError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var up UpstreamPinger
			if tt.upstream != nil {
				up = tt.upstream
			}
			svc := New(&mockDBPinger{err: tt.dbErr}, up, "tok")
			r := svc.Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, r.Status)
			}
			if len(r.Checks) != len(tt.wantChecks) {
				t.Errorf("expected checks %v, got %v", tt.wantChecks, r.Checks)
			}
			for k, want := range tt.wantChecks {
				if r.Checks[k] != want {
					t.Errorf("check %s: expected %q, got %q", k, want, r.Checks[k])
				}
			}
		})
	}
}

func TestCheck_PassesToken(t *testing.T) {
	up := &mockUpstream{}
	New(&mockDBPinger{}, up, "secret").Check(context.Background())

	if up.gotToken != "secret" {
		t.Errorf("expected token to be passed, got %q", up.gotToken)
	}
}
