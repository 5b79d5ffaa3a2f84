package discord

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"eventosbot/internal/config"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsGuildMembers

// Stopper is implemented by components with background work to end on
// shutdown, such as open wizard sessions.
type Stopper interface {
	Shutdown()
}

// Bot is the Discord adapter.
type Bot struct {
	session      *discordgo.Session
	config       *config.Config
	handler      *Handler
	conversation *Conversation
	directory    *Directory
	scheduler    *Scheduler
	wizards      Stopper
}

// NewSession creates the gateway session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("crear la sesión de Discord: %w", err)
	}
	s.Identify.Intents = intents
	return s, nil
}

// NewBot wires the adapters around an already built session.
func NewBot(
	session *discordgo.Session,
	cfg *config.Config,
	handler *Handler,
	conversation *Conversation,
	directory *Directory,
	scheduler *Scheduler,
	wizards Stopper,
) *Bot {
	bot := &Bot{
		session:      session,
		config:       cfg,
		handler:      handler,
		conversation: conversation,
		directory:    directory,
		scheduler:    scheduler,
		wizards:      wizards,
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.conversation.OnMessageCreate)
	b.session.AddHandler(b.directory.OnReady)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("🤖 Conectado como %s", r.User.String())
	})
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handler.HandleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handler.HandleButton(s, i)
	}
}

// Start runs the bot until interrupted.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error al abrir la sesión: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			log.Printf("⚠️ Error al registrar el comando %s: %v", cmd.Name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.scheduler.Start(ctx)

	fmt.Println("🤖 ¡Bot en línea! Pulsa CTRL+C para salir.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("👋 Cerrando...")
	b.scheduler.Stop()
	b.wizards.Shutdown()
	return nil
}
