package main

import (
	"context"
	"log"
	"os"
	"time"

	"eventosbot/internal/adapters/discord"
	"eventosbot/internal/application"
	"eventosbot/internal/config"
	"eventosbot/internal/infrastructure/database"
	"eventosbot/internal/infrastructure/i18n"
	"eventosbot/internal/infrastructure/jsonstore"
	"eventosbot/internal/infrastructure/repository"
	"eventosbot/internal/ports/output"
	pkgdiscord "eventosbot/pkg/discord"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	ctx := context.Background()

	var store output.EventStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("❌ Error al aplicar las migraciones: %v", err)
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Error al inicializar la base de datos: %v", err)
		}
		defer pool.Close()
		store = database.NewEventStore(pool, cfg.Location())
	default:
		store = jsonstore.NewFileStore(cfg.EventsFile, cfg.Location())
		log.Printf("📁 Eventos en %s", cfg.EventsFile)
	}

	eventRepo := repository.NewEventRepository(store)
	if err := eventRepo.Load(ctx); err != nil {
		log.Fatalf("❌ Error al cargar los eventos: %v", err)
	}

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	translator := i18n.NewTranslator(cfg.Locale)
	if !translator.Supports(cfg.Locale) {
		log.Printf("⚠️ LOCALE=%s sin catálogo, se usa el texto por defecto", cfg.Locale)
	}
	renderer := pkgdiscord.SummaryRenderer{
		Translator: translator,
		Locale:     cfg.Locale,
		Location:   cfg.Location(),
		Now:        time.Now,
	}
	conversation := discord.NewConversation(session)
	directory := discord.NewDirectory(session, cfg.GuildID, cfg.MemberCacheTTL)
	notifier := discord.NewNotifier(session, renderer, directory)

	eventUC := application.NewEventService(eventRepo, notifier)
	registrationUC := application.NewRegistrationService(eventRepo, eventUC, notifier, directory, translator, cfg.Locale)
	reminderUC := application.NewReminderService(eventRepo, notifier, translator, cfg.Locale, cfg.ReminderLead)
	wizardUC := application.NewWizardService(conversation, directory, eventUC, translator, cfg.Locale, cfg.Location(), cfg.WizardTimeout)

	handler := discord.NewHandler(eventUC, registrationUC, wizardUC, renderer)
	scheduler := discord.NewScheduler(reminderUC, cfg.ReminderInterval)

	bot := discord.NewBot(session, cfg, handler, conversation, directory, scheduler, wizardUC)
	if err := bot.Start(); err != nil {
		log.Printf("❌ Error al iniciar el bot: %v", err)
		os.Exit(1)
	}
}
