package identity

import (
	"context"
	"errors"
	"testing"
)

func TestStaticProviderReady(t *testing.T) {
	p := NewStaticProvider("u-1", "token-1")

	token, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "token-1" {
		t.Fatalf("expected token-1, got %s", token)
	}
	if p.UserID() != "u-1" {
		t.Fatalf("expected u-1, got %s", p.UserID())
	}
}

func TestStaticProviderEmptyNotReady(t *testing.T) {
	p := NewStaticProvider("", "")

	if _, err := p.Token(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestStaticProviderSetAndClear(t *testing.T) {
	p := NewStaticProvider("", "")
	p.SetIdentity("u-2", "token-2")

	token, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token after SetIdentity: %v", err)
	}
	if token != "token-2" {
		t.Fatalf("expected token-2, got %s", token)
	}

	p.Clear()
	if _, err := p.Token(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady after Clear, got %v", err)
	}
}

func TestStaticProviderHonorsContext(t *testing.T) {
	p := NewStaticProvider("u-1", "token-1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Token(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
