package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mvirta/fitpipe/internal/errors"
)

// defaultInsightConfidence is assumed when an evaluator leaves confidence unset.
const defaultInsightConfidence = 0.7

// Strategy fans a context out to the domain evaluators, merges their insights
// into recommendations, filters them by confidence, and ranks them.
type Strategy struct {
	evaluators []Evaluator
	logger     *slog.Logger
}

// NewStrategy creates a recommendation strategy over the given evaluators.
// Evaluator order is fixed and determines tie-break order for equal
// priority and confidence.
func NewStrategy(logger *slog.Logger, evaluators ...Evaluator) *Strategy {
	return &Strategy{
		evaluators: evaluators,
		logger:     logger,
	}
}

// Generate runs all applicable evaluators concurrently and returns the
// filtered, ranked recommendation set.
//
// A single failing or panicking evaluator contributes zero recommendations
// and is logged; it never aborts the batch. A failure to even start the
// fan-out propagates as a hard error.
func (s *Strategy) Generate(ctx context.Context, c Context, cfg Config) ([]Recommendation, error) {
	if len(s.evaluators) == 0 {
		return nil, errors.New("no domain evaluators registered")
	}

	gc := buildGlobalContext(c)

	// Settle-all fan-out: one slot per evaluator keeps emission order stable
	// regardless of completion order.
	results := make([][]Insight, len(s.evaluators))
	g, groupCtx := errgroup.WithContext(ctx)
	for i, evaluator := range s.evaluators {
		if conditional, ok := evaluator.(ConditionalEvaluator); ok && !conditional.Applicable(gc) {
			s.logger.DebugContext(ctx, "skipping evaluator", slog.String("evaluator", evaluator.Name()))
			continue
		}

		g.Go(func() error {
			defer func() {
				if recovered := recover(); recovered != nil {
					s.logger.WarnContext(groupCtx, "evaluator panicked",
						slog.String("evaluator", evaluator.Name()),
						errors.SlogError(errors.DecoratePanic(recovered)))
				}
			}()

			insights, err := evaluator.Analyze(groupCtx, gc)
			if err != nil {
				s.logger.WarnContext(groupCtx, "evaluator failed",
					slog.String("evaluator", evaluator.Name()),
					errors.SlogError(err))
				return nil
			}
			results[i] = insights
			return nil
		})
	}
	// The goroutines swallow evaluator errors, so Wait only reflects context
	// cancellation through groupCtx.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "evaluator fan-out interrupted")
	}

	var recommendations []Recommendation
	for i, insights := range results {
		for _, insight := range insights {
			recommendations = append(recommendations, normalizeInsight(insight, s.evaluators[i].Name()))
		}
	}

	recommendations = filterByConfidence(recommendations, cfg.ConfidenceThreshold)
	sortRecommendations(recommendations)

	s.logger.DebugContext(ctx, "generated recommendations",
		slog.Int("count", len(recommendations)),
		slog.Float64("threshold", cfg.ConfidenceThreshold))

	return recommendations, nil
}

// normalizeInsight maps a raw evaluator insight onto the Recommendation shape.
func normalizeInsight(insight Insight, evaluator string) Recommendation {
	confidence := insight.Confidence
	if confidence == 0 {
		confidence = defaultInsightConfidence
	}
	confidence = clampConfidence(confidence)

	recType := insight.Type
	if recType == "" {
		recType = RecGeneral
	}

	source := insight.Source
	if source == "" {
		source = SourceCombined
	}

	priority := insight.Priority
	if priority == "" {
		priority = PriorityFromConfidence(confidence)
	}

	metadata := insight.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["evaluator"] = evaluator

	return Recommendation{
		Type:       recType,
		Content:    insight.Recommendation,
		Confidence: confidence,
		Source:     source,
		Priority:   priority,
		Context:    metadata,
	}
}

func filterByConfidence(recs []Recommendation, threshold float64) []Recommendation {
	filtered := recs[:0]
	for _, rec := range recs {
		if rec.Confidence >= threshold {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// sortRecommendations orders by priority weight then confidence, both
// descending. The sort is stable so evaluator emission order breaks ties.
func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		wi, wj := recs[i].Priority.Weight(), recs[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return recs[i].Confidence > recs[j].Confidence
	})
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
