package cmd

import (
	"fmt"

	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/storage"
	"github.com/misterclayt0n/ferro/internal/tracker"
	"github.com/misterclayt0n/ferro/internal/utils"
)

// loadCurrentTracker wires the current plan's persisted state into a tracker:
// program definition, config, outcome log, undo stack, and the previous
// replay baseline (when it belongs to this plan).
func loadCurrentTracker(st *storage.Storage) (*models.Plan, *tracker.Tracker, error) {
	plan, err := st.CurrentPlan()
	if err != nil {
		return nil, nil, err
	}

	program, err := st.GetProgramByID(plan.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to load program for plan: %w", err)
	}

	cfg, err := st.LoadPlanConfig(plan.ID)
	if err != nil {
		return nil, nil, err
	}

	outcomes, err := st.LoadOutcomes(plan.ID)
	if err != nil {
		return nil, nil, err
	}

	undo, err := st.LoadUndoStack(plan.ID)
	if err != nil {
		return nil, nil, err
	}

	var baseline *models.Snapshot
	if utils.SnapshotExists() {
		if snap, err := utils.LoadSnapshot(); err == nil && snap.PlanID == plan.ID {
			baseline = snap
		}
	}

	return plan, tracker.New(program, cfg, outcomes, undo, baseline), nil
}

// persistTracker mirrors the tracker's in-memory log and undo stack back to
// the database.
func persistTracker(st *storage.Storage, planID string, t *tracker.Tracker) error {
	if err := st.SaveOutcomes(planID, t.Outcomes()); err != nil {
		return err
	}
	return st.SaveUndoStack(planID, t.Undo())
}
