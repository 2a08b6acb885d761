package identity

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quizbank/internal/store"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	log := slog.New(slog.DiscardHandler)

	require.NoError(t, SeedAdmin(ctx, st, log))

	doc, err := st.Get(ctx, UsersCollection, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, doc["role"])

	hash, _ := doc["secretHash"].(string)
	require.NotEmpty(t, hash)
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("guess")),
		"stored hash must not match an arbitrary secret")
}

func TestSeedAdminSkipsPopulatedCollection(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.Set(ctx, UsersCollection, "existing",
		store.Document{"role": "editor"}, false))

	require.NoError(t, SeedAdmin(ctx, st, slog.New(slog.DiscardHandler)))

	_, err := st.Get(ctx, UsersCollection, "admin")
	assert.Error(t, err, "a populated collection must not be reseeded")
}

func TestVerifySecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, VerifySecret("correct-horse", string(hash)))
	assert.Error(t, VerifySecret("wrong", string(hash)))
}
