package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskhub/auth-service/internal/domain/auth/errors"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newUser() model.User {
	return model.User{
		ID:           uuid.New(),
		FullName:     "Alice Doe",
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "h",
	}
}

func TestPostgresUserRepo_Lookups(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	user := newUser()
	id, err := repo.CreateUser(ctx, user)
	if err != nil || id != user.ID {
		t.Fatalf("create %v", err)
	}

	if got, err := repo.GetUserByEmail(ctx, user.Email); err != nil || got.ID != user.ID {
		t.Fatalf("get by email %v", err)
	}
	if got, err := repo.GetUserByID(ctx, user.ID); err != nil || got.Email != user.Email {
		t.Fatalf("get by id %v", err)
	}
	if got, err := repo.GetUserByUsernameOrEmail(ctx, user.Username, "other@x.com"); err != nil || got.ID != user.ID {
		t.Fatalf("get by username-or-email %v", err)
	}
	if _, err := repo.GetUserByUsernameOrEmail(ctx, "nobody", "nobody@x.com"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresUserRepo_UpdateFieldsIsPartial(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	user := newUser()
	if _, err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create %v", err)
	}

	err := repo.UpdateFields(ctx, user.ID, map[string]any{
		"refresh_token_hash": "abc",
	})
	if err != nil {
		t.Fatalf("update %v", err)
	}

	got, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get %v", err)
	}
	if got.RefreshTokenHash == nil || *got.RefreshTokenHash != "abc" {
		t.Fatal("refresh hash not written")
	}
	if got.Email != user.Email || got.PasswordHash != user.PasswordHash {
		t.Fatal("unrelated fields must not change")
	}

	if err := repo.UpdateFields(ctx, uuid.New(), map[string]any{"refresh_token_hash": nil}); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestPostgresUserRepo_HashLookupsHonorExpiry(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	user := newUser()
	if _, err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create %v", err)
	}

	future := time.Now().Add(20 * time.Minute)
	err := repo.UpdateFields(ctx, user.ID, map[string]any{
		"email_verification_token_hash":   "vhash",
		"email_verification_token_expiry": future,
		"forgot_password_token_hash":      "rhash",
		"forgot_password_token_expiry":    future,
	})
	if err != nil {
		t.Fatalf("update %v", err)
	}

	if got, err := repo.GetUserByVerificationHash(ctx, "vhash", time.Now()); err != nil || got.ID != user.ID {
		t.Fatalf("verification lookup %v", err)
	}
	if got, err := repo.GetUserByResetHash(ctx, "rhash", time.Now()); err != nil || got.ID != user.ID {
		t.Fatalf("reset lookup %v", err)
	}

	// at a time past expiry both lookups must miss
	after := future.Add(time.Minute)
	if _, err := repo.GetUserByVerificationHash(ctx, "vhash", after); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after expiry, got %v", err)
	}
	if _, err := repo.GetUserByResetHash(ctx, "rhash", after); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after expiry, got %v", err)
	}

	if _, err := repo.GetUserByVerificationHash(ctx, "wrong", time.Now()); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown hash, got %v", err)
	}
}
