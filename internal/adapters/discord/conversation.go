package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/domain"
	"eventosbot/internal/ports/output"
)

const mailboxSize = 16

var _ output.Conversation = (*Conversation)(nil)

// Conversation implements output.Conversation over private messages. Direct
// messages are queued per user once the bot has written to that user, and
// dropped when nobody is waiting for them.
type Conversation struct {
	session *discordgo.Session

	mu        sync.Mutex
	mailboxes map[string]chan output.Message
}

func NewConversation(session *discordgo.Session) *Conversation {
	return &Conversation{
		session:   session,
		mailboxes: make(map[string]chan output.Message),
	}
}

func (c *Conversation) mailbox(userID string, create bool) chan output.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.mailboxes[userID]
	if !ok && create {
		box = make(chan output.Message, mailboxSize)
		c.mailboxes[userID] = box
	}
	return box
}

func (c *Conversation) Send(ctx context.Context, userID, text string) error {
	c.mailbox(userID, true)
	ch, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	if _, err := c.session.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	return nil
}

func (c *Conversation) NextMessage(ctx context.Context, userID string) (output.Message, error) {
	box := c.mailbox(userID, true)
	select {
	case msg := <-box:
		return msg, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return output.Message{}, errors.Join(domain.ErrConversationTimeout, ctx.Err())
		}
		return output.Message{}, ctx.Err()
	}
}

func (c *Conversation) Close(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mailboxes, userID)
}

// OnMessageCreate feeds private messages into the sender's mailbox.
func (c *Conversation) OnMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	box := c.mailbox(m.Author.ID, false)
	if box == nil {
		return
	}
	select {
	case box <- toMessage(m.Message):
	default:
	}
}

func toMessage(m *discordgo.Message) output.Message {
	msg := output.Message{Content: m.Content}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, output.Attachment{
			URL:         a.URL,
			ContentType: strings.ToLower(a.ContentType),
		})
	}
	return msg
}
