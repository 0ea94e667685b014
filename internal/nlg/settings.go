// Package nlg turns envelopes from the dialog core into user-facing text.
// Rendering is delegated to a Gemini chat model driven by an externalized
// prompt template; the dialog core stays free of model concerns and the
// renderer never influences state transitions.
package nlg

import (
	"fmt"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// GeneralSettings is the [general] section of the settings file.
type GeneralSettings struct {
	ChatModels  []string `toml:"chat_models"`
	Model       string   `toml:"model"`
	Temperature float32  `toml:"temperature"`
	MaxTokens   int      `toml:"max_tokens"`
	MaxAttempts int      `toml:"max_attempts"`
}

// PromptSettings is the [prompts] section of the settings file.
type PromptSettings struct {
	AgentRole           string `toml:"agent_role"`
	ConversationalAgent string `toml:"conversational_agent"`
}

// Settings is the full prompt and model configuration, loaded once at
// startup. Invalid settings fail fast rather than degrading at runtime.
type Settings struct {
	General GeneralSettings `toml:"general"`
	Prompts PromptSettings  `toml:"prompts"`
}

// LoadSettings reads and validates the TOML settings file.
func LoadSettings(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate enforces the presence of every required key and that the chosen
// model is part of the configured allowlist.
func (s *Settings) Validate() error {
	if len(s.General.ChatModels) == 0 {
		return fmt.Errorf("settings: general.chat_models must not be empty")
	}
	if s.General.Model == "" {
		return fmt.Errorf("settings: general.model is required")
	}
	if !slices.Contains(s.General.ChatModels, s.General.Model) {
		return fmt.Errorf("settings: general.model %q must be one of general.chat_models %v",
			s.General.Model, s.General.ChatModels)
	}
	if s.General.MaxAttempts < 1 {
		return fmt.Errorf("settings: general.max_attempts must be at least 1")
	}
	if s.General.Temperature < 0 || s.General.Temperature > 2 {
		return fmt.Errorf("settings: general.temperature %v out of range [0, 2]", s.General.Temperature)
	}
	if s.Prompts.AgentRole == "" {
		return fmt.Errorf("settings: prompts.agent_role is required")
	}
	if s.Prompts.ConversationalAgent == "" {
		return fmt.Errorf("settings: prompts.conversational_agent is required")
	}
	return nil
}
