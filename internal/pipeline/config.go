package pipeline

import "time"

// Default configuration values.
const (
	DefaultMaxRecommendations  = 10
	DefaultConfidenceThreshold = 0.7
	DefaultAnalysisTimeout     = 30 * time.Second
)

// Config holds the pipeline tuning knobs.
type Config struct {
	// EnableDetailedAnalysis is reserved for future evaluator tuning and has
	// no effect on the core algorithm yet.
	EnableDetailedAnalysis bool
	// PrioritizeUserPreferences lets preference-aligned recommendations win
	// ties during ranking.
	PrioritizeUserPreferences bool
	// SafetyChecks gates injury and soreness note injection in generated plans.
	SafetyChecks bool
	// MaxRecommendations caps the final recommendation set.
	MaxRecommendations int
	// ConfidenceThreshold filters out recommendations below this confidence.
	ConfidenceThreshold float64
	// AnalysisTimeout bounds the evaluator fan-out.
	AnalysisTimeout time.Duration
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		EnableDetailedAnalysis:    true,
		PrioritizeUserPreferences: true,
		SafetyChecks:              true,
		MaxRecommendations:        DefaultMaxRecommendations,
		ConfidenceThreshold:       DefaultConfidenceThreshold,
		AnalysisTimeout:           DefaultAnalysisTimeout,
	}
}

// ConfigPatch is a partial configuration update. Nil fields leave the current
// value untouched.
type ConfigPatch struct {
	EnableDetailedAnalysis    *bool
	PrioritizeUserPreferences *bool
	SafetyChecks              *bool
	MaxRecommendations        *int
	ConfidenceThreshold       *float64
	AnalysisTimeout           *time.Duration
}

// apply merges the patch into cfg and returns the result.
func (cfg Config) apply(patch ConfigPatch) Config {
	if patch.EnableDetailedAnalysis != nil {
		cfg.EnableDetailedAnalysis = *patch.EnableDetailedAnalysis
	}
	if patch.PrioritizeUserPreferences != nil {
		cfg.PrioritizeUserPreferences = *patch.PrioritizeUserPreferences
	}
	if patch.SafetyChecks != nil {
		cfg.SafetyChecks = *patch.SafetyChecks
	}
	if patch.MaxRecommendations != nil {
		cfg.MaxRecommendations = *patch.MaxRecommendations
	}
	if patch.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *patch.ConfidenceThreshold
	}
	if patch.AnalysisTimeout != nil {
		cfg.AnalysisTimeout = *patch.AnalysisTimeout
	}
	return cfg
}
