package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvirta/fitpipe/internal/errors"
	"github.com/mvirta/fitpipe/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// baseRepository holds the shared database handle.
type baseRepository struct {
	db *sqlite.Database
}

func newBaseRepository(db *sqlite.Database) baseRepository {
	return baseRepository{db: db}
}

// repository aggregates the persistence concerns of the workout service.
type repository struct {
	flags *sqliteFeatureFlagRepository
	plans *sqlitePlanRepository
}

func newRepository(db *sqlite.Database) *repository {
	return &repository{
		flags: &sqliteFeatureFlagRepository{baseRepository: newBaseRepository(db)},
		plans: &sqlitePlanRepository{baseRepository: newBaseRepository(db)},
	}
}

// sqliteFeatureFlagRepository stores feature flags.
type sqliteFeatureFlagRepository struct {
	baseRepository
}

// Get retrieves a feature flag by name.
func (r *sqliteFeatureFlagRepository) Get(ctx context.Context, name string) (FeatureFlag, error) {
	var flag FeatureFlag
	var enabled int

	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT name, enabled
		FROM feature_flags
		WHERE name = ?`, name).Scan(&flag.Name, &enabled)

	if errors.Is(err, sql.ErrNoRows) {
		return FeatureFlag{}, ErrNotFound
	}
	if err != nil {
		return FeatureFlag{}, fmt.Errorf("query feature flag %s: %w", name, err)
	}

	flag.Enabled = enabled == 1
	return flag, nil
}

// Set updates or creates a feature flag.
func (r *sqliteFeatureFlagRepository) Set(ctx context.Context, flag FeatureFlag) error {
	enabled := 0
	if flag.Enabled {
		enabled = 1
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO feature_flags (name, enabled)
		VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET enabled = excluded.enabled`,
		flag.Name, enabled)
	if err != nil {
		return fmt.Errorf("save feature flag %s: %w", flag.Name, err)
	}

	return nil
}

// List retrieves all feature flags.
func (r *sqliteFeatureFlagRepository) List(ctx context.Context) ([]FeatureFlag, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT name, enabled
		FROM feature_flags
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query feature flags: %w", err)
	}
	defer rows.Close()

	var flags []FeatureFlag
	for rows.Next() {
		var flag FeatureFlag
		var enabled int

		if scanErr := rows.Scan(&flag.Name, &enabled); scanErr != nil {
			return nil, fmt.Errorf("scan feature flag: %w", scanErr)
		}

		flag.Enabled = enabled == 1
		flags = append(flags, flag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature flags: %w", err)
	}

	return flags, nil
}

// sqlitePlanRepository stores generated plans.
type sqlitePlanRepository struct {
	baseRepository
}

// Create persists a plan and returns it with its assigned identity.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan Plan) (StoredPlan, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return StoredPlan{}, fmt.Errorf("marshal plan: %w", err)
	}

	createdAt := time.Now().UTC()
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO plans (created_at, workout_type, focus, duration_min, template_used, plan_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt.Format(timestampFormat),
		plan.WorkoutType,
		plan.Focus,
		plan.DurationMin,
		plan.TemplateUsed,
		string(planJSON))
	if err != nil {
		return StoredPlan{}, fmt.Errorf("insert plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return StoredPlan{}, fmt.Errorf("plan insert id: %w", err)
	}

	return StoredPlan{ID: id, CreatedAt: createdAt, Plan: plan}, nil
}

// Get retrieves a stored plan by ID.
func (r *sqlitePlanRepository) Get(ctx context.Context, id int64) (StoredPlan, error) {
	var (
		stored    StoredPlan
		createdAt string
		planJSON  string
	)

	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, created_at, plan_json
		FROM plans
		WHERE id = ?`, id).Scan(&stored.ID, &createdAt, &planJSON)

	if errors.Is(err, sql.ErrNoRows) {
		return StoredPlan{}, ErrNotFound
	}
	if err != nil {
		return StoredPlan{}, fmt.Errorf("query plan %d: %w", id, err)
	}

	if stored.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
		return StoredPlan{}, fmt.Errorf("parse plan timestamp: %w", err)
	}
	if err = json.Unmarshal([]byte(planJSON), &stored.Plan); err != nil {
		return StoredPlan{}, fmt.Errorf("unmarshal plan %d: %w", id, err)
	}

	return stored, nil
}

// List retrieves stored plans, newest first.
func (r *sqlitePlanRepository) List(ctx context.Context, limit int) ([]StoredPlan, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, created_at, plan_json
		FROM plans
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var (
			stored    StoredPlan
			createdAt string
			planJSON  string
		)
		if scanErr := rows.Scan(&stored.ID, &createdAt, &planJSON); scanErr != nil {
			return nil, fmt.Errorf("scan plan: %w", scanErr)
		}
		if stored.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse plan timestamp: %w", err)
		}
		if err = json.Unmarshal([]byte(planJSON), &stored.Plan); err != nil {
			return nil, fmt.Errorf("unmarshal plan %d: %w", stored.ID, err)
		}
		plans = append(plans, stored)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	return plans, nil
}
