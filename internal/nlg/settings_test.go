package nlg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSettings = `[general]
chat_models = ["gemini-2.5-flash", "gemini-2.5-flash-lite"]
model = "gemini-2.5-flash"
temperature = 0.4
max_tokens = 2000
max_attempts = 3

[prompts]
agent_role = "You are a support agent."
conversational_agent = "{{agent_role}}\n{{rag_context}}\n{{chat_history}}\n{{user_text}}"
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, validSettings))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", s.General.Model)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}, s.General.ChatModels)
	assert.InDelta(t, 0.4, s.General.Temperature, 1e-6)
	assert.Equal(t, 3, s.General.MaxAttempts)
	assert.Equal(t, "You are a support agent.", s.Prompts.AgentRole)
	assert.Contains(t, s.Prompts.ConversationalAgent, "{{user_text}}")
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadSettingsInvalidTOML(t *testing.T) {
	_, err := LoadSettings(writeSettings(t, "not [valid toml"))
	assert.Error(t, err)
}

func TestSettingsValidation(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			General: GeneralSettings{
				ChatModels:  []string{"gemini-2.5-flash"},
				Model:       "gemini-2.5-flash",
				Temperature: 0.4,
				MaxAttempts: 3,
			},
			Prompts: PromptSettings{
				AgentRole:           "role",
				ConversationalAgent: "template",
			},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"empty chat_models", func(s *Settings) { s.General.ChatModels = nil }},
		{"empty model", func(s *Settings) { s.General.Model = "" }},
		{"model not in allowlist", func(s *Settings) { s.General.Model = "gpt-4o" }},
		{"zero max_attempts", func(s *Settings) { s.General.MaxAttempts = 0 }},
		{"temperature out of range", func(s *Settings) { s.General.Temperature = 3 }},
		{"negative temperature", func(s *Settings) { s.General.Temperature = -0.1 }},
		{"empty agent_role", func(s *Settings) { s.Prompts.AgentRole = "" }},
		{"empty template", func(s *Settings) { s.Prompts.ConversationalAgent = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
