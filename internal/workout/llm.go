package workout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mvirta/fitpipe/internal/errors"
)

// planGenerator generates workout plans using the OpenAI API.
type planGenerator struct {
	client openai.Client
	logger *slog.Logger
}

// newPlanGenerator creates an LLM-backed plan generator.
func newPlanGenerator(apiKey string, logger *slog.Logger) *planGenerator {
	return &planGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		logger: logger,
	}
}

// llmPlanDraft is the part of the plan the LLM is responsible for. The
// deterministic scaffolding such as rest and warmup stays with the caller.
type llmPlanDraft struct {
	Exercises []PlannedExercise `json:"exercises"`
	Notes     []string          `json:"notes"`
}

const planSystemPrompt = `You are a workout planning assistant. Respond with a single JSON object
and nothing else, using this shape:

{
  "exercises": [
    {"name": "Push-up", "sets": 3, "reps": 12, "duration_sec": 0, "equipment": ["dumbbells"], "notes": "keep core tight"}
  ],
  "notes": ["General guidance for the session"]
}

Rules:
- Every exercise needs a name and either sets with reps or duration_sec.
- Only use equipment the prompt lists as available.
- Keep notes short and actionable.`

// Generate asks the model for a plan draft based on the rendered prompt.
func (pg *planGenerator) Generate(ctx context.Context, prompt string) (llmPlanDraft, error) {
	completion, err := pg.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(planSystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return llmPlanDraft{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return llmPlanDraft{}, errors.New("chat completion returned no choices")
	}

	pg.logger.DebugContext(ctx, "received plan completion",
		slog.Int64("completion_tokens", completion.Usage.CompletionTokens),
		slog.Int64("prompt_tokens", completion.Usage.PromptTokens))

	draft, err := parsePlanDraft(completion.Choices[0].Message.Content)
	if err != nil {
		return llmPlanDraft{}, fmt.Errorf("parse plan response: %w", err)
	}
	return draft, nil
}

// parsePlanDraft decodes and validates the model output. Markdown fences are
// tolerated since models add them despite instructions.
func parsePlanDraft(content string) (llmPlanDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var draft llmPlanDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return llmPlanDraft{}, fmt.Errorf("unmarshal plan draft: %w", err)
	}

	if len(draft.Exercises) == 0 {
		return llmPlanDraft{}, errors.New("plan draft has no exercises")
	}
	for i, exercise := range draft.Exercises {
		if exercise.Name == "" {
			return llmPlanDraft{}, fmt.Errorf("exercise %d is missing a name", i)
		}
		if exercise.Sets == 0 && exercise.Reps == 0 && exercise.DurationSec == 0 {
			return llmPlanDraft{}, fmt.Errorf("exercise %q has no sets, reps, or duration", exercise.Name)
		}
	}

	return draft, nil
}
