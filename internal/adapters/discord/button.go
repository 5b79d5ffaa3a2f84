package discord

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	pkgdiscord "eventosbot/pkg/discord"
	"eventosbot/pkg/ics"
)

// defaultEventLength is used for calendar invites when the duration text is
// not a parsable duration.
const defaultEventLength = 2 * time.Hour

// manageEvents are the permissions that allow editing or deleting someone
// else's event.
const manageEvents = discordgo.PermissionAdministrator | discordgo.PermissionManageMessages | discordgo.PermissionManageEvents

func (h *Handler) HandleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	id, err := pkgdiscord.ParseButtonID(i.MessageComponentData().CustomID)
	if err != nil {
		h.handleStaleSummary(s, i, err)
		return
	}
	if id.Role != "" {
		h.handleRegister(s, i, id.EventID, id.Role)
		return
	}
	switch id.Action {
	case entities.ActionEdit:
		h.handleEdit(s, i, id.EventID)
	case entities.ActionDelete:
		h.handleDelete(s, i, id.EventID)
	}
}

// handleStaleSummary answers clicks on buttons this bot does not encode,
// such as summaries posted before a migration, by re-rendering the summary
// with current buttons.
func (h *Handler) handleStaleSummary(s *discordgo.Session, i *discordgo.InteractionCreate, cause error) {
	if i.Message == nil {
		log.Printf("⚠️ Botón desconocido: %v", cause)
		return
	}
	ctx := context.Background()
	event, err := h.eventUseCase.GetEventByMessageID(ctx, i.Message.ID)
	if err != nil {
		log.Printf("⚠️ Botón desconocido en el mensaje %s: %v", i.Message.ID, cause)
		respondEphemeral(s, i.Interaction, h.errorMessage(err))
		return
	}
	deferEphemeral(s, i.Interaction)
	if _, err := h.eventUseCase.RefreshSummary(ctx, event); err != nil {
		log.Printf("❌ No se pudo actualizar el resumen de %s: %v", event.ID, err)
		followUp(s, i.Interaction, h.errorMessage(err))
		return
	}
	followUp(s, i.Interaction, h.t("cmd.summary_refreshed", nil))
}

func (h *Handler) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string, key entities.RoleKey) {
	if i.Member == nil || i.Member.User == nil {
		return
	}
	deferEphemeral(s, i.Interaction)

	ctx := context.Background()
	participant := entities.Participant{
		ID:    entities.ParticipantID(i.Member.User.ID),
		Roles: i.Member.Roles,
	}
	event, err := h.registrationUseCase.Register(ctx, eventID, participant, key)
	if err != nil {
		if domain.Code(err) == "" {
			log.Printf("❌ Error al inscribir a %s en %s: %v", participant.ID, eventID, err)
		}
		followUp(s, i.Interaction, h.errorMessage(err))
		return
	}

	reply := h.t("cmd.registered", map[string]any{"Role": string(key)})
	if !key.Attending() {
		followUp(s, i.Interaction, reply)
		return
	}
	invite, err := ics.Invite(event, domain.EndTime(event, defaultEventLength), h.now())
	if err != nil {
		log.Printf("⚠️ No se pudo generar la invitación de %s: %v", eventID, err)
		followUp(s, i.Interaction, reply)
		return
	}
	followUp(s, i.Interaction, reply, attachment{
		name:        ics.FileName(event),
		contentType: "text/calendar",
		data:        invite,
	})
}

// canManage reports whether the member who clicked may edit or delete event.
func canManage(i *discordgo.InteractionCreate, event *entities.Event) bool {
	user := interactionUser(i)
	if user != nil && user.ID == event.CreatorID {
		return true
	}
	return i.Member != nil && i.Member.Permissions&manageEvents != 0
}

func (h *Handler) managedEvent(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string) *entities.Event {
	event, err := h.eventUseCase.GetEvent(context.Background(), eventID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorMessage(err))
		return nil
	}
	if !canManage(i, event) {
		respondEphemeral(s, i.Interaction, h.errorMessage(domain.ErrNotOrganizer))
		return nil
	}
	return event
}

func (h *Handler) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string) {
	event := h.managedEvent(s, i, eventID)
	if event == nil {
		return
	}
	user := interactionUser(i)
	deferEphemeral(s, i.Interaction)
	err := h.wizardUseCase.StartEdit(context.Background(), user.ID, event.ID)
	switch {
	case err == nil:
		followUp(s, i.Interaction, h.t("cmd.edit_dm", nil))
	case errors.Is(err, domain.ErrUnreachable):
		followUp(s, i.Interaction, h.t("cmd.dm_failed", nil))
	default:
		followUp(s, i.Interaction, h.errorMessage(err))
	}
}

func (h *Handler) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, eventID string) {
	event := h.managedEvent(s, i, eventID)
	if event == nil {
		return
	}
	deferEphemeral(s, i.Interaction)
	if _, err := h.eventUseCase.DeleteEvent(context.Background(), event.ID); err != nil {
		log.Printf("⚠️ No se pudo eliminar el evento %s: %v", event.ID, err)
		followUp(s, i.Interaction, h.errorMessage(err))
		return
	}
	followUp(s, i.Interaction, h.t("cmd.deleted", nil))
}
