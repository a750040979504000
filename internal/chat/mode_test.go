package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"", ModeGeneral},
		{"general", ModeGeneral},
		{"farmer", ModeFarmer},
		{"urban", ModeUrban},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		require.NoError(t, err, "in=%q", tc.in)
		require.Equal(t, tc.want, got, "in=%q", tc.in)
	}
}

func TestParseMode_Unknown(t *testing.T) {
	for _, in := range []string{"pirate", "Farmer", " urban", "GENERAL"} {
		_, err := ParseMode(in)
		require.Error(t, err, "in=%q", in)
		require.True(t, errors.Is(err, ErrUnknownMode), "in=%q", in)
	}
}

func TestComposePrompt(t *testing.T) {
	got, err := ComposePrompt(ModeFarmer, "When should I irrigate?")
	require.NoError(t, err)
	require.Equal(t,
		"You are a helpful assistant for farmers. Provide irrigation tips, crop advice, and weather-based guidance. Keep answers short and practical.\nUser: When should I irrigate?\nAssistant:",
		got)
}

func TestComposePrompt_UnknownMode(t *testing.T) {
	_, err := ComposePrompt(Mode("unknown"), "hello")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestSystemPrompt(t *testing.T) {
	urban, ok := ModeUrban.SystemPrompt()
	require.True(t, ok)
	require.Equal(t, "You are a helpful assistant for urban users. Provide air quality info, health, and lifestyle guidance.", urban)

	general, ok := ModeGeneral.SystemPrompt()
	require.True(t, ok)
	require.Equal(t, "You are a climate assistant. Answer general climate and weather questions.", general)

	_, ok = Mode("unknown").SystemPrompt()
	require.False(t, ok, "unknown modes must not fall back to the general prompt")
	require.False(t, Mode("").Valid())
}

func TestModes(t *testing.T) {
	require.Equal(t, []Mode{ModeGeneral, ModeFarmer, ModeUrban}, Modes())
}
