package forensics

import (
	"context"
	"testing"
)

func TestGatherRejectsEmptyHost(t *testing.T) {
	if _, err := New().Gather(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty host")
	}
}

func TestResolverOverride(t *testing.T) {
	g := New(WithResolver("9.9.9.9"))
	if g.resolver != "9.9.9.9" {
		t.Errorf("resolver = %q, want 9.9.9.9", g.resolver)
	}
}

func TestGatherCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Gather(ctx, "example.com"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
