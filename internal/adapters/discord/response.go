package discord

import (
	"bytes"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// interactionUser returns the invoking user both in guilds and in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func respondEphemeral(s *discordgo.Session, i *discordgo.Interaction, content string) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Printf("❌ Error al responder la interacción: %v", err)
	}
}

// deferEphemeral acknowledges i so the work after it may exceed the
// interaction deadline; the answer goes through followUp.
func deferEphemeral(s *discordgo.Session, i *discordgo.Interaction) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Printf("❌ Error al diferir la interacción: %v", err)
	}
}

type attachment struct {
	name        string
	contentType string
	data        []byte
}

func followUp(s *discordgo.Session, i *discordgo.Interaction, content string, files ...attachment) {
	params := &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
	for _, f := range files {
		params.Files = append(params.Files, &discordgo.File{
			Name:        f.name,
			ContentType: f.contentType,
			Reader:      bytes.NewReader(f.data),
		})
	}
	if _, err := s.FollowupMessageCreate(i, true, params); err != nil {
		log.Printf("❌ Error al enviar la respuesta: %v", err)
	}
}
