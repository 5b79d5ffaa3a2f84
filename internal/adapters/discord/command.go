package discord

import (
	"context"
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/domain"
)

const (
	commandCreate   = "eventos"
	commandUpcoming = "proximos_eventos"
	commandPing     = "ping"
)

var commands = []*discordgo.ApplicationCommand{
	{Name: commandCreate, Description: "Crear un nuevo evento paso a paso por mensaje privado"},
	{Name: commandUpcoming, Description: "Ver los próximos eventos"},
	{Name: commandPing, Description: "Comprobar que el bot responde"},
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case commandCreate:
		h.handleCreate(s, i)
	case commandUpcoming:
		h.handleUpcoming(s, i)
	case commandPing:
		respondEphemeral(s, i.Interaction, h.t("cmd.ping", nil))
	}
}

func (h *Handler) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	// Starting the wizard lists channels and roles and opens the DM, which
	// can outlast the interaction deadline.
	deferEphemeral(s, i.Interaction)
	err := h.wizardUseCase.StartCreation(context.Background(), user.ID, i.ChannelID)
	switch {
	case err == nil:
		followUp(s, i.Interaction, h.t("cmd.create_dm", nil))
	case errors.Is(err, domain.ErrUnreachable):
		followUp(s, i.Interaction, h.t("cmd.dm_failed", nil))
	default:
		log.Printf("⚠️ /%s de %s: %v", commandCreate, user.ID, err)
		followUp(s, i.Interaction, h.errorMessage(err))
	}
}

func (h *Handler) handleUpcoming(s *discordgo.Session, i *discordgo.InteractionCreate) {
	events, err := h.eventUseCase.ListUpcoming(context.Background(), h.now())
	if err != nil {
		log.Printf("❌ Error al listar los próximos eventos: %v", err)
		respondEphemeral(s, i.Interaction, h.errorMessage(err))
		return
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{h.renderer.UpcomingEmbed(events)},
		},
	}); err != nil {
		log.Printf("❌ Error al responder /%s: %v", commandUpcoming, err)
	}
}
