package gate

import (
	"context"
	"errors"
	"testing"
)

func testGate(role string, exists bool) *Gate {
	g := New(func(_ context.Context, _ uint) (string, bool) {
		return role, exists
	}, "admin")
	g.Register("thing.read", TierAuthenticated)
	g.Register("thing.public", TierPublic)
	g.Register("thing.admin", TierAdmin)
	return g
}

func TestAuthorizePublic(t *testing.T) {
	g := testGate("", false)
	if err := g.Authorize(context.Background(), "thing.public", 0); err != nil {
		t.Fatalf("public with no session: %v", err)
	}
}

func TestAuthorizeUnknownProcedure(t *testing.T) {
	g := testGate("admin", true)
	if err := g.Authorize(context.Background(), "thing.missing", 1); !errors.Is(err, ErrUnknownProcedure) {
		t.Fatalf("err = %v, want ErrUnknownProcedure", err)
	}
}

func TestAuthorizeRequiresSession(t *testing.T) {
	g := testGate("technician", true)
	if err := g.Authorize(context.Background(), "thing.read", 0); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if err := g.Authorize(context.Background(), "thing.read", 4); err != nil {
		t.Fatalf("authenticated read: %v", err)
	}
}

func TestAuthorizeDeletedUser(t *testing.T) {
	g := testGate("", false)
	if err := g.Authorize(context.Background(), "thing.read", 4); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated for missing user", err)
	}
}

func TestAuthorizeAdminTier(t *testing.T) {
	for _, tc := range []struct {
		role string
		want error
	}{
		{"admin", nil},
		{"service_advisor", ErrForbidden},
		{"technician", ErrForbidden},
	} {
		g := testGate(tc.role, true)
		err := g.Authorize(context.Background(), "thing.admin", 9)
		if !errors.Is(err, tc.want) {
			t.Fatalf("role %s: err = %v, want %v", tc.role, err, tc.want)
		}
	}
}

func TestRegisterOverwrites(t *testing.T) {
	g := testGate("admin", true)
	g.Register("thing.read", TierAdmin)
	tier, ok := g.Tier("thing.read")
	if !ok || tier != TierAdmin {
		t.Fatalf("tier = %v ok=%v", tier, ok)
	}
}
