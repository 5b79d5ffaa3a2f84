package discord

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

const (
	buttonsPerRow  = 5
	maxEmbedFields = 25
	maxFieldValue  = 1024
	maxEmbedTotal  = 6000
)

// NameResolver returns the display name of a participant.
type NameResolver func(entities.ParticipantID) string

// SummaryRenderer builds the public summary message of an event.
type SummaryRenderer struct {
	Translator output.T
	Locale     string
	Location   *time.Location
	Now        func() time.Time
}

func (r SummaryRenderer) t(key string, data map[string]any) string {
	return r.Translator.T(r.Locale, key, data)
}

func (r SummaryRenderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Embed renders e; names resolves participant display names.
func (r SummaryRenderer) Embed(e *entities.Event, names NameResolver) *discordgo.MessageEmbed {
	title := e.Title
	if title == "" {
		title = r.t("summary.no_title", nil)
	}
	desc := e.Description
	if desc == "" {
		desc = r.t("summary.no_description", nil)
	}
	end := e.End
	if end == "" {
		end = r.t("summary.unspecified", nil)
	}

	attendees := len(e.Attendees())
	capacity := fmt.Sprintf("%d (%s)", attendees, r.t("summary.unlimited", nil))
	if e.MaxAttendees > 0 {
		capacity = fmt.Sprintf("%d/%d", attendees, e.MaxAttendees)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: r.t("summary.start", nil), Value: FormatEventDateTime(e.Start, r.Location), Inline: true},
		{Name: r.t("summary.duration", nil), Value: end, Inline: true},
		{Name: r.t("summary.capacity", nil), Value: capacity, Inline: true},
	}
	var lists []*roleList
	for _, k := range entities.RoleKeys {
		ids := e.Participants[k]
		field := &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s %s (%d)", k.Emoji(), k, len(ids)),
			Value:  r.t("summary.nobody", nil),
			Inline: true,
		}
		fields = append(fields, field)
		if len(ids) == 0 {
			continue
		}
		l := &roleList{field: field, names: make([]string, len(ids)), shown: len(ids)}
		for i, id := range ids {
			l.names[i] = names(id)
		}
		r.renderRoleList(l)
		for l.shown > 0 && utf8.RuneCountInString(l.field.Value) > maxFieldValue {
			l.shown--
			r.renderRoleList(l)
		}
		lists = append(lists, l)
	}
	if len(e.MentionRoles) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  r.t("summary.mentioned_roles", nil),
			Value: RoleMentions(e.MentionRoles),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       e.Color,
		Fields:      fields,
	}
	if e.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.Image}
	}
	if domain.RegistrationClosed(e, r.now()) {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.t("summary.closed", nil)}
	}
	r.fitEmbed(embed, lists)
	return embed
}

// roleList is the rendered participant list of one role field; only the
// first shown names are listed, the rest are counted.
type roleList struct {
	field *discordgo.MessageEmbedField
	names []string
	shown int
}

func (r SummaryRenderer) renderRoleList(l *roleList) {
	lines := append([]string(nil), l.names[:l.shown]...)
	if hidden := len(l.names) - l.shown; hidden > 0 {
		lines = append(lines, r.t("summary.more", map[string]any{"Count": hidden}))
	}
	l.field.Value = strings.Join(lines, "\n")
}

// fitEmbed keeps the whole embed within Discord's total size limit by
// dropping names from the longest role lists first.
func (r SummaryRenderer) fitEmbed(embed *discordgo.MessageEmbed, lists []*roleList) {
	for embedLength(embed) > maxEmbedTotal {
		var longest *roleList
		for _, l := range lists {
			if l.shown == 0 {
				continue
			}
			if longest == nil || utf8.RuneCountInString(l.field.Value) > utf8.RuneCountInString(longest.field.Value) {
				longest = l
			}
		}
		if longest == nil {
			return
		}
		longest.shown--
		r.renderRoleList(longest)
	}
}

// embedLength counts the characters Discord adds up against maxEmbedTotal.
func embedLength(e *discordgo.MessageEmbed) int {
	n := utf8.RuneCountInString(e.Title) + utf8.RuneCountInString(e.Description)
	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}
	if e.Author != nil {
		n += utf8.RuneCountInString(e.Author.Name)
	}
	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}

// Components returns one button per role key followed by the edit and
// delete actions.
func (r SummaryRenderer) Components(e *entities.Event) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(entities.RoleKeys)+2)
	for _, k := range entities.RoleKeys {
		buttons = append(buttons, discordgo.Button{
			Label:    string(k),
			Emoji:    &discordgo.ComponentEmoji{Name: k.Emoji()},
			Style:    buttonStyle(k.Style()),
			CustomID: RegisterButtonID(e.ID, k),
		})
	}
	buttons = append(buttons,
		discordgo.Button{Label: r.t("summary.edit_button", nil), Style: discordgo.SecondaryButton, CustomID: ActionButtonID(e.ID, entities.ActionEdit)},
		discordgo.Button{Label: r.t("summary.delete_button", nil), Style: discordgo.DangerButton, CustomID: ActionButtonID(e.ID, entities.ActionDelete)},
	)

	var components []discordgo.MessageComponent
	for i := 0; i < len(buttons); i += buttonsPerRow {
		end := min(i+buttonsPerRow, len(buttons))
		components = append(components, discordgo.ActionsRow{Components: buttons[i:end]})
	}
	return components
}

func buttonStyle(s entities.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case entities.StylePrimary:
		return discordgo.PrimaryButton
	case entities.StyleSuccess:
		return discordgo.SuccessButton
	case entities.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

// RoleMentions renders guild role ids as mentions.
func RoleMentions(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("<@&%s>", id)
	}
	return strings.Join(parts, " ")
}

// UpcomingEmbed lists events (already sorted by start) grouped by day.
func (r SummaryRenderer) UpcomingEmbed(events []entities.Event) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: r.t("upcoming.title", nil),
		Color: entities.DefaultColor,
	}
	if len(events) == 0 {
		embed.Description = r.t("upcoming.none", nil)
		return embed
	}
	embed.Description = r.t("upcoming.subtitle", nil)

	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	now := r.now()
	var current *discordgo.MessageEmbedField
	for _, e := range events {
		day := e.Start.In(loc).Format("02/01/2006")
		if current == nil || current.Name != day {
			if len(embed.Fields) == maxEmbedFields {
				break
			}
			current = &discordgo.MessageEmbedField{Name: day}
			embed.Fields = append(embed.Fields, current)
		}
		line := fmt.Sprintf("%s **%s** · %s (<#%s>)",
			ProximityEmoji(e.Start, now), e.Start.In(loc).Format("15:04"), e.Title, e.ChannelID)
		if current.Value != "" {
			line = "\n" + line
		}
		if len(current.Value)+len(line) <= maxFieldValue {
			current.Value += line
		}
	}
	return embed
}

// truncate cuts s to at most n bytes on a rune boundary, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
