package i18n

import (
	"embed"
	"io/fs"
	"log"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"eventosbot/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var _ output.T = (*Translator)(nil)

// Translator renders catalog messages through go-i18n. Localizers are built
// once per requested locale.
type Translator struct {
	bundle   *i18n.Bundle
	fallback string

	mu         sync.RWMutex
	localizers map[string]*i18n.Localizer
}

// NewTranslator loads every embedded active.<lang>.toml catalog. Messages
// missing in a locale fall back to defaultLocale, then to the key itself.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Spanish
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, _ := fs.Glob(localeFS, "active.*.toml")
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: no se pudo cargar %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:     bundle,
		fallback:   tag.String(),
		localizers: make(map[string]*i18n.Localizer),
	}
}

// Supports reports whether a catalog exists for locale.
func (t *Translator) Supports(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	for _, have := range t.bundle.LanguageTags() {
		if have == tag {
			return true
		}
	}
	return false
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	t.mu.RLock()
	l, ok := t.localizers[locale]
	t.mu.RUnlock()
	if ok {
		return l
	}

	langs := []string{t.fallback}
	if locale != "" {
		langs = []string{locale, t.fallback}
	}
	l = i18n.NewLocalizer(t.bundle, langs...)

	t.mu.Lock()
	t.localizers[locale] = l
	t.mu.Unlock()
	return l
}

func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("i18n: sin traducción para %s (%s): %v", key, locale, err)
		return key
	}
	return msg
}
