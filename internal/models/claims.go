package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionWalletRead     = "wallet:read"
	PermissionWalletTransfer = "wallet:transfer"
	PermissionWalletDeposit  = "wallet:deposit"
)

// AllPermissions lists every permission an API key may be scoped to. Key
// management itself is session-only and deliberately not delegable.
var AllPermissions = []string{
	PermissionWalletRead,
	PermissionWalletTransfer,
	PermissionWalletDeposit,
}

// ValidPermission reports whether p names a known permission.
func ValidPermission(p string) bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// PrincipalKind distinguishes how a request was authenticated.
type PrincipalKind string

const (
	PrincipalSession PrincipalKind = "session"
	PrincipalAPIKey  PrincipalKind = "api_key"
)

// Principal is the authenticated caller attached to each request after the
// auth middleware runs. Session principals act with the account's full
// authority; API-key principals are limited to the permissions the key was
// issued with.
type Principal struct {
	Kind        PrincipalKind
	UserID      uint
	Permissions []string
}

// Allows reports whether the principal may perform an operation guarded by
// the given permission.
func (p *Principal) Allows(permission string) bool {
	if p == nil {
		return false
	}
	if p.Kind == PrincipalSession {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}
