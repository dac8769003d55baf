package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"commsafe/internal/domain"

	"github.com/rs/zerolog"
)

func TestCreateUser(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())

	user, err := svc.Create(context.Background(), CreateUserInput{
		SteamID:  "76561198000000001",
		Username: "NewPlayer",
		Email:    "player@example.com",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Error("user ID not assigned")
	}

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SteamID != "76561198000000001" {
		t.Errorf("SteamID = %q", got.SteamID)
	}
}

func TestCreateUserValidation(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())

	tests := []struct {
		name string
		in   CreateUserInput
	}{
		{"missing steam id", CreateUserInput{Username: "x"}},
		{"steam id too long", CreateUserInput{SteamID: strings.Repeat("7", 101)}},
		{"username too long", CreateUserInput{SteamID: "765", Username: strings.Repeat("x", 101)}},
		{"bad email", CreateUserInput{SteamID: "765", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !domain.IsValidation(err) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zerolog.Nop())

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEnsureFaceitUser(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())

	first, err := svc.EnsureFaceitUser(context.Background(), "faceit-abc", "FaceitNick")
	if err != nil {
		t.Fatalf("first EnsureFaceitUser failed: %v", err)
	}
	if first.Username != "FaceitNick" || first.FaceitID != "faceit-abc" {
		t.Errorf("user = %+v", first)
	}

	second, err := svc.EnsureFaceitUser(context.Background(), "faceit-abc", "DifferentNick")
	if err != nil {
		t.Fatalf("second EnsureFaceitUser failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call created a new user: %q vs %q", second.ID, first.ID)
	}

	// Nickname falls back to the Faceit ID.
	fallback, err := svc.EnsureFaceitUser(context.Background(), "faceit-xyz", "")
	if err != nil {
		t.Fatalf("EnsureFaceitUser failed: %v", err)
	}
	if fallback.Username != "faceit-xyz" {
		t.Errorf("Username = %q, want faceit id fallback", fallback.Username)
	}

	if _, err := svc.EnsureFaceitUser(context.Background(), "", "nick"); !domain.IsValidation(err) {
		t.Errorf("error = %v, want validation error for missing faceit id", err)
	}
}
