package authinfra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordService(t *testing.T) {
	s := NewBcryptPasswordService(bcrypt.MinCost)

	hash, err := s.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, s.Compare(hash, "secret1"))
	assert.False(t, s.Compare(hash, "secret2"))

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordService(99).cost)
}
