package discord

import (
	"time"

	"eventosbot/internal/ports/input"
	"eventosbot/internal/ports/output"
	pkgdiscord "eventosbot/pkg/discord"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	eventUseCase        input.EventUseCase
	registrationUseCase input.RegistrationUseCase
	wizardUseCase       input.WizardUseCase
	renderer            pkgdiscord.SummaryRenderer
	translator          output.T
	locale              string
	now                 func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(
	eventUseCase input.EventUseCase,
	registrationUseCase input.RegistrationUseCase,
	wizardUseCase input.WizardUseCase,
	renderer pkgdiscord.SummaryRenderer,
) *Handler {
	return &Handler{
		eventUseCase:        eventUseCase,
		registrationUseCase: registrationUseCase,
		wizardUseCase:       wizardUseCase,
		renderer:            renderer,
		translator:          renderer.Translator,
		locale:              renderer.Locale,
		now:                 time.Now,
	}
}

func (h *Handler) t(key string, data map[string]any) string {
	return h.translator.T(h.locale, key, data)
}

func (h *Handler) errorMessage(err error) string {
	return pkgdiscord.DomainErrorMessage(h.translator, h.locale, err)
}
