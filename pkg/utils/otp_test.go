package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTPLength(t *testing.T) {
	otp := GenerateOTP("carrier@example.com-20260830120000")
	assert.Len(t, otp, 4)

	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9', "OTP must be numeric")
	}
}

func TestGenerateOTPDeterministic(t *testing.T) {
	a := GenerateOTP("same-key")
	b := GenerateOTP("same-key")
	assert.Equal(t, a, b)
}

func TestGenerateOTPVariesWithKey(t *testing.T) {
	a := GenerateOTP("shipper@example.com-20260830120000")
	b := GenerateOTP("shipper@example.com-20260830120001")
	assert.NotEqual(t, a, b)
}
