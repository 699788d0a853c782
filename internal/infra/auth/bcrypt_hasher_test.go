package auth

import (
	"strings"
	"testing"

	"estate/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}})

	hash, err := hasher.Hash("longpass1")
	require.NoError(t, err)
	assert.NotEqual(t, "longpass1", hash)

	assert.True(t, hasher.Check("longpass1", hash))
	assert.False(t, hasher.Check("longpass2", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check("longpass1", "not-a-hash"))
}

func TestBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want int
	}{
		{name: "configured", cfg: &config.Config{Auth: &config.AuthConfig{BcryptCost: 5}}, want: 5},
		{name: "out of range", cfg: &config.Config{Auth: &config.AuthConfig{BcryptCost: 99}}, want: bcrypt.DefaultCost},
		{name: "missing auth section", cfg: &config.Config{}, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasher(tt.cfg).(*bcryptHasher)
			assert.Equal(t, tt.want, hasher.cost)
		})
	}
}

func TestBcryptHasher_RejectsOverlongPassword(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}})

	// 24 three-byte runes: 24 characters, 72 bytes.
	_, err := hasher.Hash(strings.Repeat("密", 24))
	require.NoError(t, err)

	_, err = hasher.Hash(strings.Repeat("密", 25))
	assert.ErrorContains(t, err, "bcrypt accepts at most 72")
}
