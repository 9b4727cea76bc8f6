package apierror

import (
	"net/http"
	"testing"
)

func TestProblemDetailsError(t *testing.T) {
	tests := []struct {
		name    string
		problem *ProblemDetails
		want    string
	}{
		{
			name:    "detail takes precedence",
			problem: &ProblemDetails{Title: "Bad Request", Detail: "field x is missing"},
			want:    "field x is missing",
		},
		{
			name:    "falls back to title",
			problem: &ProblemDetails{Title: "Internal Server Error"},
			want:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.problem.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewReauthRequiredError(t *testing.T) {
	p := NewReauthRequiredError("req-1", "fitbit")

	if p.Status != http.StatusConflict {
		t.Errorf("Status = %d, want %d", p.Status, http.StatusConflict)
	}
	if p.Type != TypeReauthRequired {
		t.Errorf("Type = %q, want %q", p.Type, TypeReauthRequired)
	}
	if p.Action != "reconnect_integration" {
		t.Errorf("Action = %q, want reconnect_integration", p.Action)
	}
	if p.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", p.RequestID)
	}
}

func TestNewRateLimitErrorSetsRetryAfter(t *testing.T) {
	p := NewRateLimitError("req-2", 60)

	if p.RetryAfter == nil || *p.RetryAfter != 60 {
		t.Fatalf("RetryAfter = %v, want 60", p.RetryAfter)
	}
	if p.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", p.Status, http.StatusTooManyRequests)
	}
}
