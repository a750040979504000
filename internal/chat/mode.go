package chat

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the system prompt that frames a chat turn.
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeFarmer  Mode = "farmer"
	ModeUrban   Mode = "urban"
)

var ErrUnknownMode = errors.New("unknown chat mode")

var systemPrompts = map[Mode]string{
	ModeFarmer:  "You are a helpful assistant for farmers. Provide irrigation tips, crop advice, and weather-based guidance. Keep answers short and practical.",
	ModeUrban:   "You are a helpful assistant for urban users. Provide air quality info, health, and lifestyle guidance.",
	ModeGeneral: "You are a climate assistant. Answer general climate and weather questions.",
}

// Modes lists the accepted modes in display order.
func Modes() []Mode {
	return []Mode{ModeGeneral, ModeFarmer, ModeUrban}
}

// ParseMode maps a request value to a Mode. Empty selects ModeGeneral; matching is exact.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeGeneral, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownMode, s, joinModes())
	}
	return m, nil
}

func joinModes() string {
	names := make([]string, 0, len(systemPrompts))
	for _, m := range Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

// SystemPrompt returns the prompt for m. ok is false for a Mode outside the enum.
func (m Mode) SystemPrompt() (prompt string, ok bool) {
	prompt, ok = systemPrompts[m]
	return prompt, ok
}

// Valid reports whether m is one of Modes().
func (m Mode) Valid() bool {
	_, ok := systemPrompts[m]
	return ok
}

// ComposePrompt builds the single-turn text sent to the model.
func ComposePrompt(mode Mode, message string) (string, error) {
	prompt, ok := mode.SystemPrompt()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	return prompt + "\nUser: " + message + "\nAssistant:", nil
}
