package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"vaultpay/internal/models"
)

// NumberGenerator issues candidate wallet numbers. The default implementation
// draws from crypto/rand; tests substitute deterministic sequences.
type NumberGenerator interface {
	Generate() (string, error)
}

type numberGenerator struct{}

// NewNumberGenerator returns the crypto/rand backed generator.
func NewNumberGenerator() NumberGenerator {
	return numberGenerator{}
}

func (numberGenerator) Generate() (string, error) {
	randomDigits := models.WalletNumberLength - len(models.WalletNumberPrefix)
	space := big.NewInt(1)
	for i := 0; i < randomDigits; i++ {
		space.Mul(space, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, space)
	if err != nil {
		return "", fmt.Errorf("failed to draw wallet number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", models.WalletNumberPrefix, randomDigits, n), nil
}
