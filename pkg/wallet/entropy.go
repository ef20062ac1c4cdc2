package wallet

import (
	"math"
	"unicode"
)

const (
	lowerPool  = 26
	upperPool  = 26
	digitPool  = 10
	symbolPool = 33
	// otherPool covers non ASCII characters.
	otherPool = 100
)

// StringEntropy returns the entropy, in bits, of str as length times the
// log2 of the size of the character pool it draws from.
func StringEntropy(str string) float64 {
	var (
		length                                  int
		hasLower, hasUpper, hasDigit, hasSymbol bool
		hasOther                                bool
	)
	for _, r := range str {
		length++
		switch {
		case r > unicode.MaxASCII:
			hasOther = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	pool := 0
	for _, p := range []struct {
		has  bool
		size int
	}{
		{hasLower, lowerPool},
		{hasUpper, upperPool},
		{hasDigit, digitPool},
		{hasSymbol, symbolPool},
		{hasOther, otherPool},
	} {
		if p.has {
			pool += p.size
		}
	}
	if pool == 0 {
		return 0
	}
	return float64(length) * math.Log2(float64(pool))
}
