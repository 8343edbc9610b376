package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Time    string `json:"time" validate:"required,hhmm"`
	Date    string `json:"date" validate:"required,date"`
	PAN     string `json:"pan" validate:"omitempty,pan"`
	Aadhaar string `json:"aadhaar" validate:"omitempty,aadhaar"`
	Phone   string `json:"phone" validate:"omitempty,phone10"`
}

func TestCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	ok := sampleInput{Time: "09:30", Date: "2026-10-20", PAN: "ABCDE1234F", Aadhaar: "123412341234", Phone: "9876543210"}
	assert.NoError(t, v.Struct(ok))

	bad := sampleInput{Time: "9:30", Date: "20-10-2026", PAN: "ABC123", Aadhaar: "1234", Phone: "12345"}
	err := v.Struct(bad)
	require.Error(t, err)
	msg := TranslateValidationError(err)
	assert.Contains(t, msg, "Time must be a time in HH:MM format")
	assert.Contains(t, msg, "Date must be a date in YYYY-MM-DD format")
	assert.Contains(t, msg, "PAN must be a valid PAN number")
	assert.Contains(t, msg, "Aadhaar must be a 12 digit Aadhaar number")
	assert.Contains(t, msg, "Phone must be a 10 digit phone number")
}

func TestValidHHMM(t *testing.T) {
	assert.True(t, ValidHHMM("00:00"))
	assert.True(t, ValidHHMM("23:59"))
	assert.False(t, ValidHHMM("24:00"))
	assert.False(t, ValidHHMM("7:15"))
}
