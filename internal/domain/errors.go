package domain

import "errors"

// Error is a domain error carrying a stable code that adapters translate into
// user-facing text.
type Error struct {
	code string
	msg  string
}

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier of the error (e.g. "event_not_found").
func (e *Error) Code() string { return e.code }

// Domain errors.
var (
	ErrEventNotFound       = newError("event_not_found", "evento no encontrado")
	ErrUnknownRoleKey      = newError("unknown_role_key", "rol de inscripción desconocido")
	ErrRegistrationClosed  = newError("registration_closed", "las inscripciones están cerradas")
	ErrRoleNotAllowed      = newError("role_not_allowed", "no tienes un rol permitido para este evento")
	ErrEventFull           = newError("event_full", "el evento está completo")
	ErrCorruptStore        = newError("corrupt_store", "el almacén de eventos está dañado")
	ErrInvalidStart        = newError("invalid_start", "fecha de inicio inválida (YYYY-MM-DD HH:MM)")
	ErrInvalidEvent        = newError("invalid_event", "datos del evento inválidos")
	ErrSummaryNotFound     = newError("summary_not_found", "mensaje del evento no encontrado")
	ErrForbidden           = newError("forbidden", "sin permisos para realizar la acción")
	ErrNotOrganizer        = newError("not_organizer", "solo el organizador puede realizar esta acción")
	ErrUnreachable         = newError("unreachable", "no se pudo contactar al usuario")
	ErrSessionActive       = newError("session_active", "ya tienes un asistente en curso")
	ErrConversationTimeout = newError("conversation_timeout", "tiempo de espera agotado")
)

// Code extracts the domain error code from err, or "" when err is not (or
// does not wrap) a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}
