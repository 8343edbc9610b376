package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"9876543210":      "9876543210",
		"98765 43210":     "9876543210",
		"+91 98765-43210": "9876543210",
		"(987) 654-3210":  "9876543210",
		"919876543210":    "9876543210",
	}
	for in, want := range cases {
		got, err := CleanPhoneNumber(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "12345", "00919876543210", "abcdefghij"} {
		_, err := CleanPhoneNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidPhone, bad)
	}
}

func TestGenerateNumericOTP(t *testing.T) {
	code, err := GenerateNumericOTP(6)
	assert.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "******3210", MaskPhone("9876543210"))
	assert.Equal(t, "123", MaskPhone("123"))
}
