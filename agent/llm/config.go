package llm

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Voice-Desk/pkg/openrouter"
)

// Config is the OpenRouter setup shared by all assistants plus per-assistant
// overrides, given as comma separated pairs:
//
//	OPENROUTER_ASSISTANT_MODELS=game:model-a,tutor:model-b
//	OPENROUTER_ASSISTANT_TEMPERATURES=game:0.9
type Config struct {
	openrouterx.Config

	AssistantModels       map[string]string  `envconfig:"ASSISTANT_MODELS"`
	AssistantTemperatures map[string]float32 `envconfig:"ASSISTANT_TEMPERATURES"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	for name := range c.AssistantModels {
		if _, err := contractx.ParseAssistantKind(strings.TrimSpace(name)); err != nil {
			return fmt.Errorf("assistant model override: %w", err)
		}
	}
	for name, temp := range c.AssistantTemperatures {
		if _, err := contractx.ParseAssistantKind(strings.TrimSpace(name)); err != nil {
			return fmt.Errorf("assistant temperature override: %w", err)
		}
		if temp < 0 || temp > 2 {
			return fmt.Errorf("%w: temperature for %s must be within [0,2]", contractx.ErrValidation, name)
		}
	}
	return nil
}

// OpenRouterFor returns the model settings for one assistant.
func (c Config) OpenRouterFor(kind contractx.AssistantKind) openrouterx.Config {
	out := c.Config
	out.APIKey = strings.TrimSpace(out.APIKey)
	out.Model = strings.TrimSpace(out.Model)
	if out.MaxCompletionToken != nil {
		maxTokens := *out.MaxCompletionToken
		out.MaxCompletionToken = &maxTokens
	}

	if v := strings.TrimSpace(c.AssistantModels[string(kind)]); v != "" {
		out.Model = v
	}
	if v, ok := c.AssistantTemperatures[string(kind)]; ok {
		out.Temperature = v
	}
	return out
}
