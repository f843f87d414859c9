// Package apikey issues and authenticates machine credentials. A key's
// plaintext secret leaves the system exactly once, at issuance; afterwards
// only its SHA-256 digest and public prefix exist server-side.
package apikey

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"

	domainErrors "vaultpay/internal/errors"
	"vaultpay/internal/models"
	"vaultpay/internal/repositories"
	"vaultpay/internal/utils"
)

const (
	secretPrefix = "vp_"

	// prefixLength is how many leading characters of the secret are stored
	// in clear and used for lookups.
	prefixLength = 12

	maxPrefixAttempts = 3
)

type Service interface {
	// Issue mints a key scoped to the given permissions. The returned string
	// is the plaintext secret, shown once and never stored.
	Issue(ctx context.Context, userID uint, label string, permissions []string) (*models.APIKey, string, error)

	List(ctx context.Context, userID uint) ([]models.APIKey, error)

	// Revoke disables one of the user's keys. Revoking twice is a no-op.
	Revoke(ctx context.Context, userID, keyID uint) error

	// Authenticate resolves a presented secret to the principal it grants.
	// Unknown and mismatched secrets are indistinguishable to the caller.
	Authenticate(ctx context.Context, secret string) (*models.Principal, error)
}

type service struct {
	keys repositories.APIKeyRepository
}

func NewService(keys repositories.APIKeyRepository) Service {
	if keys == nil {
		panic("api key repository is required")
	}
	return &service{keys: keys}
}

func (s *service) Issue(ctx context.Context, userID uint, label string, permissions []string) (*models.APIKey, string, error) {
	if userID == 0 {
		return nil, "", domainErrors.Wrap(domainErrors.ErrInvalidOperation, "api key needs an owner")
	}
	if len(permissions) == 0 {
		return nil, "", domainErrors.Wrap(domainErrors.ErrInvalidOperation, "api key needs at least one permission")
	}
	for _, p := range permissions {
		if !models.ValidPermission(p) {
			return nil, "", domainErrors.Wrap(domainErrors.ErrInvalidOperation, fmt.Sprintf("unknown permission %q", p))
		}
	}

	for attempt := 0; attempt < maxPrefixAttempts; attempt++ {
		code, err := utils.GenerateSecureCode()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate api key secret: %w", err)
		}
		secret := secretPrefix + code

		key := &models.APIKey{
			UserID:      userID,
			Label:       label,
			Prefix:      secret[:prefixLength],
			KeyHash:     utils.HashSecret(secret),
			Permissions: permissions,
		}
		err = s.keys.Create(ctx, key)
		if err == nil {
			return key, secret, nil
		}
		if errors.Is(err, repositories.ErrPrefixCollision) {
			continue
		}
		return nil, "", err
	}

	return nil, "", fmt.Errorf("failed to allocate a unique api key prefix after %d attempts", maxPrefixAttempts)
}

func (s *service) List(ctx context.Context, userID uint) ([]models.APIKey, error) {
	return s.keys.ListByUser(ctx, userID)
}

func (s *service) Revoke(ctx context.Context, userID, keyID uint) error {
	return s.keys.Revoke(ctx, userID, keyID)
}

func (s *service) Authenticate(ctx context.Context, secret string) (*models.Principal, error) {
	if len(secret) < prefixLength {
		return nil, domainErrors.ErrUnauthorized
	}

	key, err := s.keys.GetByPrefix(ctx, secret[:prefixLength])
	if err != nil {
		if errors.Is(err, domainErrors.ErrAPIKeyNotFound) {
			return nil, domainErrors.ErrUnauthorized
		}
		return nil, err
	}

	presented := utils.HashSecret(secret)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(key.KeyHash)) != 1 {
		return nil, domainErrors.ErrUnauthorized
	}
	if !key.Active() {
		return nil, domainErrors.ErrAPIKeyRevoked
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID); err != nil {
		log.Printf("failed to stamp usage for api key %d: %v", key.ID, err)
	}

	return &models.Principal{
		Kind:        models.PrincipalAPIKey,
		UserID:      key.UserID,
		Permissions: key.Permissions,
	}, nil
}
