package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"quizbank/internal/store"
)

// UsersCollection holds user records; the access gate reads roles from it.
const UsersCollection = "users"

// RoleAdmin is the only role permitted to mutate the catalog.
const RoleAdmin = "admin"

// SeedAdmin creates a bootstrap admin user when the users collection is empty,
// so a fresh deployment has exactly one way in. The generated secret is logged
// once and only its bcrypt hash is stored.
func SeedAdmin(ctx context.Context, st store.Store, logger *slog.Logger) error {
	users, err := st.List(ctx, UsersCollection)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	secret, err := generateSecret()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap secret: %w", err)
	}

	const adminID = "admin"
	err = st.Set(ctx, UsersCollection, adminID, store.Document{
		"role":       RoleAdmin,
		"secretHash": string(hash),
	}, false)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	logger.InfoContext(ctx, "seeded bootstrap admin user",
		"user_id", adminID,
		"bootstrap_secret", secret,
	)
	return nil
}

// VerifySecret checks a plaintext secret against a stored bcrypt hash.
func VerifySecret(secret, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return fmt.Errorf("verify secret: %w", err)
	}
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
