package httpapi

import "testing"

func TestShouldTraceRequest_HealthAndScrapePaths(t *testing.T) {
	paths := []string{"/healthz", "/health", "/livez", "/readyz", " /healthz ", "/metrics", "/METRICS"}
	for _, path := range paths {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
}

func TestShouldTraceRequest_DomainPaths(t *testing.T) {
	paths := []string{"/v1/leaderboards/league", "/v1/selections", "/", "/metrics/extra"}
	for _, path := range paths {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}
