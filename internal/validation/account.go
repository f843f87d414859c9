package validation

import (
	"fmt"

	"vaultpay/internal/models"
)

// RegisterInput validates the registration payload.
func (v *Validator) RegisterInput(input *models.CreateUserInput) {
	v.Required("name", input.Name)
	v.Required("email", input.Email)
	if input.Email != "" {
		v.Email("email", input.Email)
	}
	if input.Phone != "" {
		v.Phone("phone", input.Phone)
	}
	v.Password("password", input.Password)
}

// APIKeyInput validates an API key issuance payload. Every requested
// permission must be a known one.
func (v *Validator) APIKeyInput(label string, permissions []string) {
	v.Required("label", label)
	v.MaxLength("label", label, MaxLabelLength)
	v.Required("permissions", permissions)
	for _, p := range permissions {
		if !models.ValidPermission(p) {
			v.AddError("permissions", fmt.Sprintf("unknown permission %q", p))
			return
		}
	}
}
