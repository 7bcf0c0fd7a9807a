package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.True(t, CheckPasswordHash("pw123456", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	again, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestValidateStruct(t *testing.T) {
	type signup struct {
		Username string `json:"username" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"omitempty,oneof=CLIENT FREELANCER"`
	}

	assert.Nil(t, ValidateStruct(signup{Username: "alice", Email: "a@x.com"}))

	errs := ValidateStruct(signup{Username: "al", Email: "nope", Role: "ADMIN"})
	assert.Equal(t, "Minimum length is 3", errs["username"])
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Must be one of: CLIENT, FREELANCER", errs["role"])

	type offer struct {
		Amount *float64 `json:"amount" validate:"required,gte=0,lte=9999999999.99"`
	}
	big, ok := 1e10, 0.0
	assert.Equal(t, "This field is required", ValidateStruct(offer{})["amount"])
	assert.Equal(t, "Must be less than or equal to 9999999999.99", ValidateStruct(offer{Amount: &big})["amount"])
	assert.Nil(t, ValidateStruct(offer{Amount: &ok}))

	assert.Equal(t,
		"email: Invalid email format; username: Minimum length is 3",
		FormatValidationErrors(map[string]string{
			"username": "Minimum length is 3",
			"email":    "Invalid email format",
		}))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 10, ParseInt("-3", 10))

	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
	assert.Equal(t, 0, CalculateTotalPages(5, 0))
}
