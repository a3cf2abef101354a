package pipeline

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mvirta/fitpipe/internal/testhelpers"
)

func TestBuildProfileContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     RawProfile
		want    Profile
		wantErr bool
	}{
		{
			name: "presentation strings map to canonical levels",
			raw: RawProfile{
				ExperienceLevel:     "New to Exercise",
				PrimaryGoal:         "Build Muscle",
				PreferredActivities: []string{"Strength Training"},
				AvailableEquipment:  []string{"Dumbbells"},
			},
			want: Profile{
				FitnessLevel:        FitnessBeginner,
				ExperienceLevel:     "New to Exercise",
				PrimaryGoal:         "build_muscle",
				PreferredActivities: []string{"strength_training"},
				AvailableEquipment:  []string{"dumbbells"},
				WorkoutIntensity:    IntensityLow,
			},
		},
		{
			name: "legacy beginner alias",
			raw: RawProfile{
				ExperienceLevel: "Beginner",
				PrimaryGoal:     "general fitness",
			},
			want: Profile{
				FitnessLevel:     FitnessBeginner,
				ExperienceLevel:  "Beginner",
				PrimaryGoal:      "general_fitness",
				WorkoutIntensity: IntensityLow,
			},
		},
		{
			name: "advanced athlete derives high intensity",
			raw: RawProfile{
				ExperienceLevel: "Advanced Athlete",
				PrimaryGoal:     "strength",
			},
			want: Profile{
				FitnessLevel:     FitnessAdvanced,
				ExperienceLevel:  "Advanced Athlete",
				PrimaryGoal:      "strength",
				WorkoutIntensity: IntensityHigh,
			},
		},
		{
			name: "unknown experience defaults to intermediate",
			raw: RawProfile{
				ExperienceLevel: "Olympian",
				PrimaryGoal:     "strength",
			},
			want: Profile{
				FitnessLevel:     FitnessIntermediate,
				ExperienceLevel:  "Olympian",
				PrimaryGoal:      "strength",
				WorkoutIntensity: IntensityModerate,
			},
		},
		{
			name: "explicit intensity wins over derived",
			raw: RawProfile{
				ExperienceLevel:  "Some Experience",
				PrimaryGoal:      "strength",
				WorkoutIntensity: "High",
			},
			want: Profile{
				FitnessLevel:     FitnessIntermediate,
				ExperienceLevel:  "Some Experience",
				PrimaryGoal:      "strength",
				WorkoutIntensity: IntensityHigh,
			},
		},
		{
			name: "no injuries placeholder is dropped",
			raw: RawProfile{
				ExperienceLevel: "Some Experience",
				PrimaryGoal:     "strength",
				Injuries:        []string{"No Injuries", "lower back"},
			},
			want: Profile{
				FitnessLevel:     FitnessIntermediate,
				ExperienceLevel:  "Some Experience",
				PrimaryGoal:      "strength",
				Injuries:         []string{"lower_back"},
				WorkoutIntensity: IntensityModerate,
			},
		},
		{
			name:    "missing experience level",
			raw:     RawProfile{PrimaryGoal: "strength"},
			wantErr: true,
		},
		{
			name:    "missing primary goal",
			raw:     RawProfile{ExperienceLevel: "Some Experience"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

			got, err := BuildProfileContext(context.Background(), logger, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildProfileContext: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("profile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildWorkoutContext(t *testing.T) {
	t.Parallel()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	rating := 6.0

	got, err := BuildWorkoutContext(context.Background(), logger, RawWorkout{
		Focus:          "Strength",
		DurationMin:    45,
		EnergyLevel:    7,
		Intensity:      "Moderate",
		Equipment:      []string{"Dumbbells", "Resistance Bands"},
		TargetAreas:    []string{"Upper Body"},
		SorenessRating: &rating,
		SorenessAreas:  []string{"Legs"},
	})
	if err != nil {
		t.Fatalf("BuildWorkoutContext: %v", err)
	}

	want := Workout{
		Focus:          "strength",
		DurationMin:    45,
		DurationBucket: "standard",
		EnergyLevel:    7,
		EnergyBucket:   "moderate",
		Intensity:      "moderate",
		Equipment:      []string{"dumbbells", "resistance_bands"},
		TargetAreas:    []string{"upper_body"},
		Soreness:       &Soreness{Rating: 6, Bucket: "moderate", Areas: []string{"legs"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("workout mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWorkoutContextMalformedNumbers(t *testing.T) {
	t.Parallel()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	nan := math.NaN()

	got, err := BuildWorkoutContext(context.Background(), logger, RawWorkout{
		Focus:          "cardio",
		DurationMin:    math.NaN(),
		EnergyLevel:    math.Inf(1),
		Equipment:      []string{"treadmill"},
		SorenessRating: &nan,
	})
	if err != nil {
		t.Fatalf("BuildWorkoutContext: %v", err)
	}

	if got.DurationMin != defaultDurationMin {
		t.Errorf("DurationMin = %d, want default %d", got.DurationMin, defaultDurationMin)
	}
	if got.EnergyLevel != defaultEnergyLevel {
		t.Errorf("EnergyLevel = %d, want default %d", got.EnergyLevel, defaultEnergyLevel)
	}
	if got.Soreness == nil || got.Soreness.Rating != 0 {
		t.Errorf("Soreness = %+v, want rating 0", got.Soreness)
	}
}

func TestBuildWorkoutContextKeepsInvalidDuration(t *testing.T) {
	t.Parallel()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	// Zero duration passes through so validation can reject it.
	got, err := BuildWorkoutContext(context.Background(), logger, RawWorkout{
		Focus:       "cardio",
		DurationMin: 0,
		EnergyLevel: 5,
		Equipment:   []string{"treadmill"},
	})
	if err != nil {
		t.Fatalf("BuildWorkoutContext: %v", err)
	}
	if got.DurationMin != 0 {
		t.Errorf("DurationMin = %d, want 0", got.DurationMin)
	}
}

func TestDurationBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{10, "short"},
		{15, "short"},
		{16, "moderate"},
		{30, "moderate"},
		{45, "standard"},
		{60, "extended"},
		{90, "long"},
	}
	for _, tt := range tests {
		if got := DurationBucket(tt.minutes); got != tt.want {
			t.Errorf("DurationBucket(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestEnergyBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  string
	}{
		{1, "low"},
		{3, "low"},
		{4, "moderate_low"},
		{5, "moderate_low"},
		{7, "moderate"},
		{8, "moderate_high"},
		{9, "high"},
		{10, "high"},
	}
	for _, tt := range tests {
		if got := EnergyBucket(tt.level); got != tt.want {
			t.Errorf("EnergyBucket(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestSorenessBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating int
		want   string
	}{
		{0, "none"},
		{2, "minimal"},
		{4, "mild"},
		{6, "moderate"},
		{8, "significant"},
		{9, "severe"},
		{10, "severe"},
	}
	for _, tt := range tests {
		if got := SorenessBucket(tt.rating); got != tt.want {
			t.Errorf("SorenessBucket(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestBuildPreferences(t *testing.T) {
	t.Parallel()

	got := BuildPreferences(RawPreferences{
		WorkoutStyle:        []string{"Guided", "Flexible"},
		TimePreference:      "Morning",
		IntensityPreference: "Intense",
		AdvancedFeatures:    true,
		AssistLevel:         "Full",
	})
	want := Preferences{
		WorkoutStyle:        []string{"guided", "flexible"},
		TimePreference:      "morning",
		IntensityPreference: "intense",
		AdvancedFeatures:    true,
		AssistLevel:         AssistFull,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}

	// Unknown assist levels fall back to moderate.
	if got := BuildPreferences(RawPreferences{AssistLevel: "maximum"}); got.AssistLevel != AssistModerate {
		t.Errorf("AssistLevel = %q, want %q", got.AssistLevel, AssistModerate)
	}
}
