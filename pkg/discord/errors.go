package discord

import (
	"eventosbot/internal/domain"
	"eventosbot/internal/ports/output"
)

// DomainErrorMessage resolves err to a translated user-facing message. Errors
// without a domain code get the generic message.
func DomainErrorMessage(tr output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return tr.T(locale, "errors."+code, nil)
	}
	return tr.T(locale, "errors.generic", nil)
}
