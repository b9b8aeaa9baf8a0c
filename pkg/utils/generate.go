package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// ==================== OTP ====================

func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}

	return b.String()
}

// ==================== PUBLIC CODES ====================

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTicketCode returns a code like TKT-20260118-7QH2KD. It is what
// the ticket QR code encodes and what staff scan at the door.
func GenerateTicketCode(now time.Time) string {
	return generateCode("TKT", now)
}

// GenerateOrderCode returns a code like ORD-20260118-M3X9PA.
func GenerateOrderCode(now time.Time) string {
	return generateCode("ORD", now)
}

func generateCode(prefix string, now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
