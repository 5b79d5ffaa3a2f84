package discord

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/patrickmn/go-cache"

	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

var _ output.Directory = (*Directory)(nil)

// memberLookup is the subset of the session used to resolve members.
type memberLookup interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Directory implements output.Directory for a single guild. Display names
// are cached for ttl since summaries are re-rendered on every registration.
type Directory struct {
	session *discordgo.Session
	members memberLookup
	names   *cache.Cache

	mu      sync.RWMutex
	guildID string
}

func NewDirectory(session *discordgo.Session, guildID string, ttl time.Duration) *Directory {
	return &Directory{
		session: session,
		members: session,
		names:   cache.New(ttl, 2*ttl),
		guildID: guildID,
	}
}

// OnReady adopts the first guild the bot is in when none was configured.
func (d *Directory) OnReady(_ *discordgo.Session, r *discordgo.Ready) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.guildID == "" && len(r.Guilds) > 0 {
		d.guildID = r.Guilds[0].ID
	}
}

func (d *Directory) guild() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.guildID
}

func (d *Directory) ResolveParticipantDisplay(ctx context.Context, participant entities.ParticipantID) string {
	id := string(participant)
	if name, ok := d.names.Get(id); ok {
		return name.(string)
	}
	guildID := d.guild()
	var member *discordgo.Member
	if d.session != nil && d.session.State != nil {
		member, _ = d.session.State.Member(guildID, id)
	}
	if member == nil {
		m, err := d.members.GuildMember(guildID, id, discordgo.WithContext(ctx))
		if err != nil {
			// Unknown members keep rendering as a mention.
			return "<@" + id + ">"
		}
		member = m
	}
	name := resolveDisplayName(member)
	if name == "" {
		return "<@" + id + ">"
	}
	d.names.SetDefault(id, name)
	return name
}

func (d *Directory) Channels(ctx context.Context) ([]output.Option, error) {
	channels, err := d.session.GuildChannels(d.guild(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listar canales: %w", err)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].Position < channels[j].Position })
	var out []output.Option
	for _, c := range channels {
		if c.Type == discordgo.ChannelTypeGuildText || c.Type == discordgo.ChannelTypeGuildNews {
			out = append(out, output.Option{ID: c.ID, Name: "#" + c.Name})
		}
	}
	return out, nil
}

func (d *Directory) Roles(ctx context.Context) ([]output.Option, error) {
	guildID := d.guild()
	roles, err := d.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listar roles: %w", err)
	}
	return selectableRoles(guildID, roles), nil
}

// selectableRoles drops @everyone (whose id equals the guild id) and roles
// managed by integrations, highest position first.
func selectableRoles(guildID string, roles []*discordgo.Role) []output.Option {
	sorted := append([]*discordgo.Role(nil), roles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })
	var out []output.Option
	for _, r := range sorted {
		if r.ID == guildID || r.Managed {
			continue
		}
		out = append(out, output.Option{ID: r.ID, Name: r.Name})
	}
	return out
}

func (d *Directory) GrantRole(ctx context.Context, participant entities.ParticipantID, roleID string) error {
	if err := d.session.GuildMemberRoleAdd(d.guild(), string(participant), roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("asignar rol %s a %s: %w", roleID, participant, err)
	}
	return nil
}

func (d *Directory) RevokeRole(ctx context.Context, participant entities.ParticipantID, roleID string) error {
	if err := d.session.GuildMemberRoleRemove(d.guild(), string(participant), roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("retirar rol %s a %s: %w", roleID, participant, err)
	}
	return nil
}
