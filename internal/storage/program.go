package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/utils"
)

// CreateProgram parses a program definition TOML file and stores it. The
// definition is immutable once imported; slot bodies are kept as JSON so the
// nested stage/action structure survives round trips unchanged.
func (s *Storage) CreateProgram(tomlData []byte) (*models.Program, error) {
	program, err := utils.ParseProgram(tomlData)
	if err != nil {
		return nil, fmt.Errorf("Invalid TOML format: %w", err)
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	program.ID = uuid.New().String()
	program.CreatedAt = time.Now().UTC()

	inputsJSON, err := json.Marshal(program.Inputs)
	if err != nil {
		return nil, fmt.Errorf("Failed to marshal inputs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO programs (id, name, description, version, weeks, workouts_per_week, total_workouts, inputs, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		program.ID,
		program.Name,
		program.Description,
		program.Version,
		program.Weeks,
		program.WorkoutsPerWeek,
		program.TotalWorkouts,
		string(inputsJSON),
		program.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to create program: %w", err)
	}

	if err := insertDays(ctx, tx, program); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return program, nil
}

func insertDays(ctx context.Context, tx *sql.Tx, program *models.Program) error {
	for di, day := range program.Days {
		dayID := uuid.New().String()
		_, err := tx.ExecContext(ctx,
			`INSERT INTO program_days (id, program_id, name, order_index)
             VALUES (?, ?, ?, ?)`,
			dayID, program.ID, day.Name, di,
		)
		if err != nil {
			return fmt.Errorf("Failed to create program day: %w", err)
		}

		for si, slot := range day.Slots {
			slotJSON, err := json.Marshal(slot)
			if err != nil {
				return fmt.Errorf("Failed to marshal slot: %w", err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO program_slots (id, day_id, slot_id, order_index, definition)
                 VALUES (?, ?, ?, ?, ?)`,
				uuid.New().String(), dayID, slot.ID, si, string(slotJSON),
			)
			if err != nil {
				return fmt.Errorf("Failed to create program slot: %w", err)
			}
		}
	}
	return nil
}

func (s *Storage) ListPrograms() ([]models.Program, error) {
	rows, err := s.DB.Query(`
        SELECT id, name, description, version, created_at
        FROM programs
    `)
	if err != nil {
		return nil, fmt.Errorf("Failed to query programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var p models.Program
		var createdAt string

		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Version, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("Failed to scan program: %w", err)
		}

		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		programs = append(programs, p)
	}

	return programs, rows.Err()
}

func (s *Storage) GetProgramByName(name string) (*models.Program, error) {
	var id string
	err := s.DB.QueryRow(`SELECT id FROM programs WHERE name = ?`, name).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("Program '%s' not found", name)
		}
		return nil, fmt.Errorf("Failed to query program: %w", err)
	}
	return s.GetProgramByID(id)
}

func (s *Storage) GetProgramByID(id string) (*models.Program, error) {
	var p models.Program
	var inputsJSON, createdAt string

	err := s.DB.QueryRow(`
        SELECT id, name, description, version, weeks, workouts_per_week, total_workouts, inputs, created_at
        FROM programs WHERE id = ?
    `, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Version,
		&p.Weeks, &p.WorkoutsPerWeek, &p.TotalWorkouts,
		&inputsJSON, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("Program not found: %w", err)
		}
		return nil, fmt.Errorf("Failed to query program: %w", err)
	}

	if err := json.Unmarshal([]byte(inputsJSON), &p.Inputs); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal inputs: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	dayRows, err := s.DB.Query(`
        SELECT id, name FROM program_days
        WHERE program_id = ? ORDER BY order_index
    `, p.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to query program days: %w", err)
	}
	defer dayRows.Close()

	type dayRef struct {
		id   string
		name string
	}
	var refs []dayRef
	for dayRows.Next() {
		var r dayRef
		if err := dayRows.Scan(&r.id, &r.name); err != nil {
			return nil, fmt.Errorf("Failed to scan program day: %w", err)
		}
		refs = append(refs, r)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("Failed to iterate program days: %w", err)
	}

	for _, ref := range refs {
		day := models.Day{Name: ref.name}

		slotRows, err := s.DB.Query(`
            SELECT definition FROM program_slots
            WHERE day_id = ? ORDER BY order_index
        `, ref.id)
		if err != nil {
			return nil, fmt.Errorf("Failed to query program slots: %w", err)
		}
		for slotRows.Next() {
			var definition string
			if err := slotRows.Scan(&definition); err != nil {
				slotRows.Close()
				return nil, fmt.Errorf("Failed to scan program slot: %w", err)
			}
			var slot models.Slot
			if err := json.Unmarshal([]byte(definition), &slot); err != nil {
				slotRows.Close()
				return nil, fmt.Errorf("Failed to unmarshal slot: %w", err)
			}
			day.Slots = append(day.Slots, slot)
		}
		if err := slotRows.Err(); err != nil {
			slotRows.Close()
			return nil, fmt.Errorf("Failed to iterate program slots: %w", err)
		}
		slotRows.Close()

		p.Days = append(p.Days, day)
	}

	return &p, nil
}

// UpdateProgram refreshes an existing program from a TOML file, bumping the
// version and replacing days/slots wholesale. Slot ids are stable as long as
// the author keeps them, so existing outcome logs stay attached.
func (s *Storage) UpdateProgram(tomlData []byte) error {
	program, err := utils.ParseProgram(tomlData)
	if err != nil {
		return fmt.Errorf("Invalid TOML format: %w", err)
	}

	existing, err := s.GetProgramByName(program.Name)
	if err != nil {
		return fmt.Errorf("Failed to get existing program: %w", err)
	}

	ctx := context.Background()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inputsJSON, err := json.Marshal(program.Inputs)
	if err != nil {
		return fmt.Errorf("Failed to marshal inputs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE programs SET description = ?, version = ?, weeks = ?, workouts_per_week = ?, total_workouts = ?, inputs = ?
         WHERE id = ?`,
		program.Description, program.Version, program.Weeks,
		program.WorkoutsPerWeek, program.TotalWorkouts, string(inputsJSON),
		existing.ID,
	)
	if err != nil {
		return fmt.Errorf("Failed to update program: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM program_days WHERE program_id = ?`, existing.ID)
	if err != nil {
		return fmt.Errorf("Failed to clear program days: %w", err)
	}

	program.ID = existing.ID
	if err := insertDays(ctx, tx, program); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) DeleteProgramByName(name string) error {
	ctx := context.Background()

	var programID string
	err := s.DB.QueryRowContext(ctx, `SELECT id FROM programs WHERE name = ?`, name).Scan(&programID)
	if err != nil {
		return fmt.Errorf("Program not found: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, programID)
	if err != nil {
		return fmt.Errorf("Failed to delete program: %w", err)
	}

	return nil
}

func (s *Storage) ProgramExists(name string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM programs WHERE name = ?)",
		name,
	).Scan(&exists)

	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check program existence: %w", err)
	}

	return exists, nil
}
