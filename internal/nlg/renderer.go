package nlg

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dannysmp/genai-customer-support-agent/internal/agent"
	errx "github.com/dannysmp/genai-customer-support-agent/internal/core/error"
	logx "github.com/dannysmp/genai-customer-support-agent/pkg/logger"
)

// FallbackMessage is shown when generation fails after all retries.
const FallbackMessage = "Let me connect you with a human agent."

// backoffSchedule is the capped wait between generation retries.
var backoffSchedule = []time.Duration{600 * time.Millisecond, 1200 * time.Millisecond}

// ContextBuilder supplies the retrieved grounding block for a user query.
type ContextBuilder interface {
	BuildContext(ctx context.Context, query string) string
}

// Renderer composes the final user-facing text for an envelope. The prompt
// template, agent role, and retry policy come from the settings file; the
// grounding context comes from the retrieval layer.
type Renderer struct {
	chatModel   einomodel.BaseChatModel
	contextFor  ContextBuilder
	modelName   string
	template    string
	agentRole   string
	maxAttempts int
}

func NewRenderer(chatModel einomodel.BaseChatModel, settings *Settings, contextFor ContextBuilder) *Renderer {
	return &Renderer{
		chatModel:   chatModel,
		contextFor:  contextFor,
		modelName:   settings.General.Model,
		template:    settings.Prompts.ConversationalAgent,
		agentRole:   settings.Prompts.AgentRole,
		maxAttempts: settings.General.MaxAttempts,
	}
}

// Reply renders the reply text for one envelope. The tracking-ID question
// is answered with a fixed string and never reaches the model, so that
// stage of the dialog stays byte-for-byte deterministic. All failures
// degrade to FallbackMessage rather than an error; the dialog state has
// already advanced and must not be rolled back by a rendering problem.
func (r *Renderer) Reply(ctx context.Context, env *agent.Envelope, userText, chatHistory string) string {
	lang := env.Lang
	if lang == "" {
		lang = "en"
	}

	if env.NextExpected == agent.SlotTrackingID || env.Intent == agent.IntentRequestTrackingID {
		return trackingQuestion(lang)
	}

	ragContext := ""
	if r.contextFor != nil {
		ragContext = r.contextFor.BuildContext(ctx, userText)
	}

	prompt, err := r.renderPrompt(env, userText, chatHistory, ragContext)
	if err != nil {
		logx.Error().Err(err).Msg("failed to render prompt")
		return FallbackMessage
	}

	raw, err := r.generate(ctx, prompt)
	if err != nil {
		logx.Error().Err(err).Str("intent", env.Intent).Msg("text generation failed")
		return FallbackMessage
	}

	// Some models answer with a JSON wrapper even in text mode; unwrap the
	// user_message field when present.
	if obj := ExtractJSON(raw); obj != nil {
		if um, ok := obj["user_message"].(string); ok && strings.TrimSpace(um) != "" {
			return strings.TrimSpace(um)
		}
	}

	out := strings.TrimSpace(raw)
	if out == "" {
		return FallbackMessage
	}
	return out
}

// renderPrompt substitutes the double-braced template placeholders and
// appends the live envelope so the model can follow the dialog policy.
func (r *Renderer) renderPrompt(env *agent.Envelope, userText, chatHistory, ragContext string) (string, error) {
	prompt := r.template
	for token, value := range map[string]string{
		"agent_role":   r.agentRole,
		"rag_context":  ragContext,
		"chat_history": chatHistory,
		"user_text":    userText,
	} {
		prompt = strings.ReplaceAll(prompt, "{{"+token+"}}", value)
	}

	envelopeJSON, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(prompt) + "\n\nEnvelope JSON:\n" + string(envelopeJSON) + "\n", nil
}

func (r *Renderer) generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{schema.UserMessage(prompt)}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		out, err := r.chatModel.Generate(ctx, messages)
		if err == nil {
			r.logUsage(out)
			return out.Content, nil
		}
		lastErr = err
		logx.Warn().Err(err).Int("attempt", attempt).Str("model", r.modelName).Msg("model call failed")

		if attempt < r.maxAttempts {
			idx := attempt - 1
			if idx >= len(backoffSchedule) {
				idx = len(backoffSchedule) - 1
			}
			select {
			case <-time.After(backoffSchedule[idx]):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", errx.New(lastErr, http.StatusBadGateway, errx.LLMErrorMessage)
}

func (r *Renderer) logUsage(out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	in, outCost, total := ComputeCost(usage, ResolvePricing(r.modelName))
	logx.Debug().
		Str("model", r.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", in).
		Float64("output_cost_usd", outCost).
		Float64("total_cost_usd", total).
		Msg("model usage")
}

func trackingQuestion(lang string) string {
	if lang == "es" {
		return "¿Podrías proporcionarme el ID de seguimiento, por favor?"
	}
	return "Could you please provide the tracking ID?"
}
