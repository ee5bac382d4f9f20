package class

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// maxCodeAttempts bounds the uniqueness retry loop; with 36^8 codes a
// collision streak this long means something else is wrong.
const maxCodeAttempts = 5

var errCodeSpaceExhausted = errors.New("could not generate a unique class code")

func generateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, codeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "generating class code")
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

func (svc *Service) generateUniqueCode() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		exists, err := svc.repo.ClassCodeExists(code)
		if err != nil {
			return "", errors.Wrap(err, "checking class code uniqueness")
		}
		if !exists {
			return code, nil
		}
	}
	return "", errCodeSpaceExhausted
}
