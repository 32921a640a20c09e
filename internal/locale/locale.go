package locale

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMissingTranslation = errors.New("missing translation")
	ErrMissingArgument    = errors.New("missing template argument")
	ErrUnknownLanguage    = errors.New("unknown language")
)

// FallbackText is what handlers send when even the default language has no
// entry for a key. Never crash a handler over a missing string.
const FallbackText = "Error"

const (
	LangRU = "ru"
	LangEN = "en"
	LangDE = "de"
)

// Key is a closed enumeration of message kinds. Every supported language must
// carry every key; completeness is enforced by tests.
type Key string

const (
	KeyWelcome           Key = "welcome"
	KeyLanguageSelect    Key = "language_select"
	KeyBanned            Key = "banned"
	KeyAccessDenied      Key = "access_denied"
	KeyNoTickets         Key = "no_tickets"
	KeyTicketsHeader     Key = "tickets_header"
	KeyTicketItem        Key = "ticket_item"
	KeyTicketCreated     Key = "ticket_created"
	KeyAdminNotification Key = "admin_notification"
	KeyUserReply         Key = "user_reply"
	KeyBanNotification   Key = "ban_notification"
	KeyUnbanNotification Key = "unban_notification"
	KeyGenericError      Key = "generic_error"
	KeyButtonReply       Key = "button_reply"
	KeyButtonClose       Key = "button_close"
	KeyButtonBan         Key = "button_ban"
)

// Keys lists every message key, for completeness checks.
var Keys = []Key{
	KeyWelcome, KeyLanguageSelect, KeyBanned, KeyAccessDenied,
	KeyNoTickets, KeyTicketsHeader, KeyTicketItem, KeyTicketCreated,
	KeyAdminNotification, KeyUserReply, KeyBanNotification,
	KeyUnbanNotification, KeyGenericError,
	KeyButtonReply, KeyButtonClose, KeyButtonBan,
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Args carries named placeholder values for Format.
type Args map[string]string

type Resolver struct {
	defaultLang string
}

func NewResolver(defaultLang string) (*Resolver, error) {
	if _, ok := catalog[defaultLang]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, defaultLang)
	}
	return &Resolver{defaultLang: defaultLang}, nil
}

func (r *Resolver) DefaultLanguage() string {
	return r.defaultLang
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// Resolve returns the template for key in lang, falling back to the default
// language when lang lacks the key.
func (r *Resolver) Resolve(key Key, lang string) (string, error) {
	if table, ok := catalog[lang]; ok {
		if tmpl, ok := table[key]; ok {
			return tmpl, nil
		}
	}
	if tmpl, ok := catalog[r.defaultLang][key]; ok {
		return tmpl, nil
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, lang)
}

// Format resolves the template and substitutes {name} placeholders from args.
// Every placeholder in the template must be covered by args.
func (r *Resolver) Format(key Key, lang string, args Args) (string, error) {
	tmpl, err := r.Resolve(key, lang)
	if err != nil {
		return "", err
	}
	return Apply(tmpl, args)
}

// Apply substitutes {name} placeholders in a raw template.
func Apply(tmpl string, args Args) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := args[name]; ok {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, strings.Join(missing, ", "))
	}
	return out, nil
}

// DetectLanguage maps a Telegram language code to a supported language,
// defaulting when no mapping applies.
func (r *Resolver) DetectLanguage(code string) string {
	switch code {
	case "ru", "be", "uk", "kk":
		return LangRU
	case "de", "at", "ch":
		return LangDE
	case "en":
		return LangEN
	}
	return r.defaultLang
}
