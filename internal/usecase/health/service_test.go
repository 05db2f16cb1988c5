package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name       string
		index      error
		remote     *mockPinger
		wantStatus Status
		wantIndex  CheckResult
		wantRedis  CheckResult // empty when absent
	}{
		{"all healthy", nil, &mockPinger{}, Healthy, CheckOK, CheckOK},
		{"redis down", nil, &mockPinger{err: down}, Degraded, CheckOK, CheckError},
		{"index down", down, &mockPinger{}, Unhealthy, CheckError, CheckOK},
		{"both down", down, &mockPinger{err: down}, Unhealthy, CheckError, CheckError},
		{"memory only", nil, nil, Healthy, CheckOK, ""},
		{"memory only down", down, nil, Unhealthy, CheckError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var remote Pinger
			if tt.remote != nil {
				remote = tt.remote
			}
			r := New(&mockPinger{err: tt.index}, remote).Check(context.Background())

			if r.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", r.Status, tt.wantStatus)
			}
			if r.Checks["index"] != tt.wantIndex {
				t.Errorf("index = %q, want %q", r.Checks["index"], tt.wantIndex)
			}
			got, ok := r.Checks["redis"]
			if tt.wantRedis == "" {
				if ok {
					t.Error("redis check should be absent without a remote backend")
				}
			} else if got != tt.wantRedis {
				t.Errorf("redis = %q, want %q", got, tt.wantRedis)
			}
		})
	}
}
