package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
	pkgdiscord "eventosbot/pkg/discord"
)

// Discord JSON error codes.
const (
	codeUnknownMessage    = 10008
	codeCannotMessageUser = 50007
	threadArchiveMinutes  = 1440
)

var _ output.Notifier = (*Notifier)(nil)

// Notifier implements output.Notifier with the bot session.
type Notifier struct {
	session   *discordgo.Session
	renderer  pkgdiscord.SummaryRenderer
	directory output.Directory
}

func NewNotifier(session *discordgo.Session, renderer pkgdiscord.SummaryRenderer, directory output.Directory) *Notifier {
	return &Notifier{session: session, renderer: renderer, directory: directory}
}

func restStatus(err error) (status, code int) {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return 0, 0
	}
	if restErr.Response != nil {
		status = restErr.Response.StatusCode
	}
	if restErr.Message != nil {
		code = restErr.Message.Code
	}
	return status, code
}

func (n *Notifier) names(ctx context.Context) pkgdiscord.NameResolver {
	return func(p entities.ParticipantID) string {
		return n.directory.ResolveParticipantDisplay(ctx, p)
	}
}

func (n *Notifier) RenderSummary(ctx context.Context, event *entities.Event) (string, error) {
	msg, err := n.session.ChannelMessageSendComplex(event.ChannelID, &discordgo.MessageSend{
		Content:    pkgdiscord.RoleMentions(event.MentionRoles),
		Embeds:     []*discordgo.MessageEmbed{n.renderer.Embed(event, n.names(ctx))},
		Components: n.renderer.Components(event),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Roles: event.MentionRoles,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("publicar resumen en %s: %w", event.ChannelID, err)
	}
	return msg.ID, nil
}

func (n *Notifier) UpdateSummary(ctx context.Context, event *entities.Event) error {
	embeds := []*discordgo.MessageEmbed{n.renderer.Embed(event, n.names(ctx))}
	components := n.renderer.Components(event)
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         event.MessageID,
		Channel:    event.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		if status, code := restStatus(err); status == http.StatusNotFound || code == codeUnknownMessage {
			return domain.ErrSummaryNotFound
		}
		return fmt.Errorf("actualizar resumen %s: %w", event.MessageID, err)
	}
	return nil
}

func (n *Notifier) DeleteSummary(ctx context.Context, event *entities.Event) error {
	err := n.session.ChannelMessageDelete(event.ChannelID, event.MessageID, discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}
	switch status, code := restStatus(err); {
	case status == http.StatusNotFound || code == codeUnknownMessage:
		return nil
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	}
	return fmt.Errorf("borrar resumen %s: %w", event.MessageID, err)
}

func (n *Notifier) CreateThread(ctx context.Context, channelRef, title string) (string, error) {
	th, err := n.session.ThreadStart(channelRef, title, discordgo.ChannelTypeGuildPublicThread, threadArchiveMinutes, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("crear hilo en %s: %w", channelRef, err)
	}
	return th.ID, nil
}

func (n *Notifier) SendToThread(ctx context.Context, threadRef, text string) error {
	_, err := n.session.ChannelMessageSend(threadRef, text, discordgo.WithContext(ctx))
	return err
}

func (n *Notifier) SendToVenue(ctx context.Context, channelRef, text string) error {
	_, err := n.session.ChannelMessageSend(channelRef, text, discordgo.WithContext(ctx))
	return err
}

func (n *Notifier) SendDirect(ctx context.Context, participant entities.ParticipantID, text string) error {
	ch, err := n.session.UserChannelCreate(string(participant), discordgo.WithContext(ctx))
	if err == nil {
		_, err = n.session.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx))
	}
	if err != nil {
		if status, code := restStatus(err); status == http.StatusForbidden || code == codeCannotMessageUser {
			return domain.ErrUnreachable
		}
		return fmt.Errorf("DM a %s: %w", participant, err)
	}
	return nil
}
