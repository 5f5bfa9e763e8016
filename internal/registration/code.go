package registration

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in an activation code.
const CodeLength = 4

var codeSpace = big.NewInt(10000)

// GenerateCode produces a 4-digit numeric activation code, zero-padded,
// drawn uniformly from [0000, 9999]. Uniqueness against other live codes
// is enforced by the storage constraint; callers retry on collision.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("registration: generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
