package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb.Name() != "test-circuit" {
		t.Errorf("expected name='test-circuit', got %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state=Closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := New(testConfig())

	result, err := cb.Execute(func() (interface{}, error) {
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected result='success', got %v", result)
	}
}

func TestCircuitBreaker_TripsOpenAndRecovers(t *testing.T) {
	cb := New(testConfig())
	testErr := errors.New("test error")

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (interface{}, error) { return nil, testErr }); err != testErr {
			t.Fatalf("request %d: expected test error, got %v", i, err)
		}
	}

	if !cb.IsOpen() {
		t.Fatalf("expected state=Open after 3 failures, got %v", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("function must not run while open")
	}

	time.Sleep(80 * time.Millisecond)

	if _, err := cb.Execute(func() (interface{}, error) { return "ok", nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected state=Closed after successful probe, got %v", cb.State())
	}
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cb := New(testConfig())
	testErr := errors.New("test error")

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, testErr })
	}

	if cb.IsOpen() {
		t.Error("breaker must stay closed below MinRequests")
	}
}

func TestFeedFetchConfig(t *testing.T) {
	cfg := FeedFetchConfig("example.com")

	if cfg.Name != "feed-fetch:example.com" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.FailureThreshold != 1.0 || cfg.MinRequests != 3 {
		t.Errorf("unexpected thresholds: %+v", cfg)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("svc")

	if cfg.Name != "svc" || cfg.MaxRequests != 3 || cfg.MinRequests != 5 {
		t.Errorf("unexpected default config: %+v", cfg)
	}
}

func TestRegistry_PerKeyIsolation(t *testing.T) {
	reg := NewRegistry(func(key string) Config {
		cfg := testConfig()
		cfg.Name = key
		return cfg
	})
	testErr := errors.New("down")

	a := reg.Get("a.example")
	for i := 0; i < 3; i++ {
		_, _ = a.Execute(func() (interface{}, error) { return nil, testErr })
	}

	if reg.Get("a.example") != a {
		t.Error("Get must return the same breaker for the same key")
	}
	if !reg.Get("a.example").IsOpen() {
		t.Error("expected a.example breaker open")
	}
	if reg.Get("b.example").IsOpen() {
		t.Error("b.example breaker must not be affected")
	}
	if n := reg.OpenCount(); n != 1 {
		t.Errorf("expected 1 open breaker, got %d", n)
	}
}
