package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/ferro/internal/models"
)

// CreatePlan instantiates a program for one athlete: validated config in,
// plan id out. The new plan becomes the current one.
func (s *Storage) CreatePlan(program *models.Program, cfg models.Config) (string, error) {
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	planID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, program_id, created_at) VALUES (?, ?, ?)`,
		planID, program.ID, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("Failed to create plan: %w", err)
	}

	if err := writeConfig(ctx, tx, planID, cfg); err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM current_plan`)
	if err != nil {
		return "", fmt.Errorf("Failed to clear current plan: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO current_plan (plan_id) VALUES (?)`, planID,
	)
	if err != nil {
		return "", fmt.Errorf("Failed to set current plan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return planID, nil
}

// CurrentPlan returns the active plan, or an error when none was generated.
func (s *Storage) CurrentPlan() (*models.Plan, error) {
	var p models.Plan
	var createdAt string

	err := s.DB.QueryRow(`
        SELECT p.id, p.program_id, p.created_at
        FROM current_plan cp
        JOIN plans p ON p.id = cp.plan_id
    `).Scan(&p.ID, &p.ProgramID, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("No current plan: generate one first")
		}
		return nil, fmt.Errorf("Failed to query current plan: %w", err)
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

func writeConfig(ctx context.Context, tx *sql.Tx, planID string, cfg models.Config) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM plan_config WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("Failed to clear plan config: %w", err)
	}

	for key, value := range cfg.Values {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plan_config (plan_id, key, kind, value) VALUES (?, ?, ?, ?)`,
			planID, key, models.FieldWeight, strconv.FormatFloat(value, 'g', -1, 64),
		)
		if err != nil {
			return fmt.Errorf("Failed to write config value: %w", err)
		}
	}
	for key, value := range cfg.Choices {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plan_config (plan_id, key, kind, value) VALUES (?, ?, ?, ?)`,
			planID, key, models.FieldChoice, value,
		)
		if err != nil {
			return fmt.Errorf("Failed to write config value: %w", err)
		}
	}
	return nil
}

// SaveConfig replaces the plan's config record atomically.
func (s *Storage) SaveConfig(planID string, cfg models.Config) error {
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeConfig(ctx, tx, planID, cfg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) LoadPlanConfig(planID string) (models.Config, error) {
	cfg := models.Config{
		Values:  make(map[string]float64),
		Choices: make(map[string]string),
	}

	rows, err := s.DB.Query(
		`SELECT key, kind, value FROM plan_config WHERE plan_id = ?`, planID,
	)
	if err != nil {
		return cfg, fmt.Errorf("Failed to query plan config: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, kind, value string
		if err := rows.Scan(&key, &kind, &value); err != nil {
			return cfg, fmt.Errorf("Failed to scan config row: %w", err)
		}
		switch kind {
		case models.FieldWeight:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return cfg, fmt.Errorf("Corrupt config value for %s: %w", key, err)
			}
			cfg.Values[key] = n
		case models.FieldChoice:
			cfg.Choices[key] = value
		}
	}

	return cfg, rows.Err()
}

// LoadOutcomes returns the append-only outcome log in write order.
func (s *Storage) LoadOutcomes(planID string) ([]models.Outcome, error) {
	rows, err := s.DB.Query(`
        SELECT workout_index, slot_id, result, amrap_reps, rpe, note, logged_at
        FROM plan_outcomes WHERE plan_id = ? ORDER BY seq
    `, planID)
	if err != nil {
		return nil, fmt.Errorf("Failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var oc models.Outcome
		var amrap sql.NullInt64
		var rpe sql.NullFloat64
		var note sql.NullString
		var loggedAt string

		err := rows.Scan(&oc.WorkoutIndex, &oc.SlotID, &oc.Result, &amrap, &rpe, &note, &loggedAt)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan outcome: %w", err)
		}

		if amrap.Valid {
			oc.AmrapReps = int(amrap.Int64)
		}
		if rpe.Valid {
			v := rpe.Float64
			oc.RPE = &v
		}
		if note.Valid {
			oc.Note = note.String
		}
		oc.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
		outcomes = append(outcomes, oc)
	}

	return outcomes, rows.Err()
}

// SaveOutcomes rewrites the plan's outcome log. The tracker owns the log in
// memory; persistence just mirrors it, so replace-wholesale keeps the two
// trivially consistent.
func (s *Storage) SaveOutcomes(planID string, outcomes []models.Outcome) error {
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM plan_outcomes WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("Failed to clear outcomes: %w", err)
	}

	for seq, oc := range outcomes {
		var rpe interface{}
		if oc.RPE != nil {
			rpe = *oc.RPE
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plan_outcomes (plan_id, seq, workout_index, slot_id, result, amrap_reps, rpe, note, logged_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			planID, seq, oc.WorkoutIndex, oc.SlotID, oc.Result,
			oc.AmrapReps, rpe, oc.Note, oc.LoggedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("Failed to write outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) LoadUndoStack(planID string) ([]models.UndoEntry, error) {
	rows, err := s.DB.Query(`
        SELECT workout_index, slot_id, previous
        FROM plan_undo WHERE plan_id = ? ORDER BY seq
    `, planID)
	if err != nil {
		return nil, fmt.Errorf("Failed to query undo stack: %w", err)
	}
	defer rows.Close()

	var stack []models.UndoEntry
	for rows.Next() {
		var entry models.UndoEntry
		var previous sql.NullString

		if err := rows.Scan(&entry.WorkoutIndex, &entry.SlotID, &previous); err != nil {
			return nil, fmt.Errorf("Failed to scan undo entry: %w", err)
		}
		if previous.Valid {
			var oc models.Outcome
			if err := json.Unmarshal([]byte(previous.String), &oc); err != nil {
				return nil, fmt.Errorf("Corrupt undo entry: %w", err)
			}
			entry.Previous = &oc
		}
		stack = append(stack, entry)
	}

	return stack, rows.Err()
}

func (s *Storage) SaveUndoStack(planID string, stack []models.UndoEntry) error {
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM plan_undo WHERE plan_id = ?`, planID)
	if err != nil {
		return fmt.Errorf("Failed to clear undo stack: %w", err)
	}

	for seq, entry := range stack {
		var previous interface{}
		if entry.Previous != nil {
			data, err := json.Marshal(entry.Previous)
			if err != nil {
				return fmt.Errorf("Failed to marshal undo entry: %w", err)
			}
			previous = string(data)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO plan_undo (plan_id, seq, workout_index, slot_id, previous)
             VALUES (?, ?, ?, ?, ?)`,
			planID, seq, entry.WorkoutIndex, entry.SlotID, previous,
		)
		if err != nil {
			return fmt.Errorf("Failed to write undo entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}

// ResetPlan clears the plan's outcome log and undo stack.
func (s *Storage) ResetPlan(planID string) error {
	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_outcomes WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("Failed to clear outcomes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_undo WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("Failed to clear undo stack: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}
