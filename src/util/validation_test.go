package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.domain.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("secret123"))
	assert.False(t, ValidatePassword("12345"))
}

func TestValidateDayOfMonth(t *testing.T) {
	assert.True(t, ValidateDayOfMonth(1))
	assert.True(t, ValidateDayOfMonth(31))
	assert.False(t, ValidateDayOfMonth(0))
	assert.False(t, ValidateDayOfMonth(32))
}
