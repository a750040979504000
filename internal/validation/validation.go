package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterStructValidation(chatMessageLength, ChatMessage{})
	return v
}

// ErrCityEmpty is returned when city is empty or whitespace-only after trim.
var ErrCityEmpty = errors.New("city is required")

// ErrCityTooShort is returned when city length is below the minimum.
var ErrCityTooShort = errors.New("city too short")

// ErrCityTooLong is returned when city length exceeds the maximum.
var ErrCityTooLong = errors.New("city too long")

// ErrCityInvalidChars is returned when city contains disallowed characters.
var ErrCityInvalidChars = errors.New("city contains invalid characters")

// ErrMessageEmpty is returned for a blank chat message.
var ErrMessageEmpty = errors.New("message is required")

// ErrMessageTooLong is returned when a chat message exceeds the configured length.
var ErrMessageTooLong = errors.New("message too long")

// ValidateCity trims the input, enforces length bounds (minLen, maxLen in runes; 0 disables a
// bound) and restricts to letters, digits, space, comma, hyphen, period and apostrophe.
// Case is preserved: the prediction service formats the display name itself.
func ValidateCity(input string, minLen, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrCityEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrCityTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrCityTooLong
	}
	for _, c := range r {
		if !isAllowedCityRune(c) {
			return "", ErrCityInvalidChars
		}
	}
	return s, nil
}

func isAllowedCityRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
		return true
	}
	switch r {
	case ' ', ',', '-', '.', '\'':
		return true
	}
	return false
}

// ChatMessage is the validated part of a /chat request. MaxLength is the configured bound in
// runes; 0 leaves the message unbounded.
type ChatMessage struct {
	Text      string `validate:"notblank"`
	MaxLength int    `validate:"-"`
}

func chatMessageLength(sl validator.StructLevel) {
	m := sl.Current().Interface().(ChatMessage)
	if m.MaxLength > 0 && utf8.RuneCountInString(m.Text) > m.MaxLength {
		sl.ReportError(m.Text, "Text", "Text", "maxlength", strconv.Itoa(m.MaxLength))
	}
}

// ValidateChatMessage checks that message is non-blank and at most maxLen runes (0 = unbounded).
// The message is returned as sent; whitespace inside a prompt is the user's.
func ValidateChatMessage(message string, maxLen int) (string, error) {
	err := validate.Struct(ChatMessage{Text: message, MaxLength: maxLen})
	if err == nil {
		return message, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", fmt.Errorf("validate chat message: %w", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "notblank" {
			return "", ErrMessageEmpty
		}
	}
	return "", ErrMessageTooLong
}
