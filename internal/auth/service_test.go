package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/database"
	"github.com/mrlokans/readinglog/internal/database/users"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})
	return db
}

func setupService(t *testing.T) *Service {
	t.Helper()
	db := setupTestDB(t)
	return NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: 4})
}

func TestService_Register(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid user", "reader", "correct horse battery", nil},
		{"missing username", "", "correct horse battery", ErrUsernameRequired},
		{"missing password", "another", "", ErrPasswordRequired},
		{"invalid username", "a b", "correct horse battery", ErrUsernameInvalid},
		{"short password", "shorty", "tiny", ErrPasswordTooShort},
		{"duplicate", "reader", "correct horse battery", ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if tt.wantErr != ErrUserExists && !IsValidationError(err) {
					t.Errorf("expected %v to be a validation error", err)
				}
				return
			}
			if user.ID == uuid.Nil {
				t.Error("expected generated user ID")
			}
			if user.PasswordHash == tt.password {
				t.Error("password must be stored hashed")
			}
			if user.Elevated {
				t.Error("new users must not be elevated")
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "reader", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "reader", "correct horse battery")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected user %s, got %s", registered.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "reader", "wrong horse battery")
		if !errors.Is(err, ErrLoginFailed) {
			t.Errorf("expected ErrLoginFailed, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "correct horse battery")
		if !errors.Is(err, ErrLoginFailed) {
			t.Errorf("expected ErrLoginFailed, got %v", err)
		}
	})
}

func TestService_GetUserByID(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "reader", "correct horse battery")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.GetUserByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if user.Name != "reader" {
		t.Errorf("expected name reader, got %s", user.Name)
	}

	if _, err := svc.GetUserByID(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
