package engine_test

import (
	"testing"

	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightField(key string) models.ConfigField {
	return models.ConfigField{Key: key, Label: key, Kind: models.FieldWeight, Min: 0, Step: 2.5}
}

func singleSlotProgram(slot models.Slot, totalWorkouts int, inputs ...models.ConfigField) *models.Program {
	return &models.Program{
		Name:          "test-program",
		Version:       1,
		TotalWorkouts: totalWorkouts,
		Inputs:        inputs,
		Days:          []models.Day{{Name: "Day A", Slots: []models.Slot{slot}}},
	}
}

func outcome(workout int, slotID, result string) models.Outcome {
	return models.Outcome{WorkoutIndex: workout, SlotID: slotID, Result: result}
}

func ladderSlot() models.Slot {
	return models.Slot{
		ID:             "t1-squat",
		Exercise:       "Back squat",
		Tier:           "T1",
		Role:           models.RolePrimary,
		StartWeightKey: "squat_start",
		Increment:      1,
		Stages: []models.Stage{
			{Sets: 5, Reps: 3},
			{Sets: 6, Reps: 2},
			{Sets: 10, Reps: 1},
		},
		OnSuccess:        &models.Action{Type: "add_weight", Amount: 5},
		OnMidStageFail:   &models.Action{Type: "advance_stage"},
		OnFinalStageFail: &models.Action{Type: "deload_percent", Percent: 10},
	}
}

func TestReplay_StageLadder_FailsWalkTheStages(t *testing.T) {
	program := singleSlotProgram(ladderSlot(), 4, weightField("squat_start"))
	cfg := models.Config{Values: map[string]float64{"squat_start": 60}}

	outcomes := []models.Outcome{
		outcome(0, "t1-squat", models.ResultFail),
		outcome(1, "t1-squat", models.ResultFail),
		outcome(2, "t1-squat", models.ResultFail),
	}

	rows := engine.Replay(program, cfg, outcomes)
	require.Len(t, rows, 4)

	stages := []int{}
	weights := []float64{}
	for _, row := range rows {
		require.Len(t, row.Slots, 1)
		stages = append(stages, row.Slots[0].Stage)
		weights = append(weights, row.Slots[0].Weight)
	}

	assert.Equal(t, []int{0, 1, 2, 0}, stages)
	assert.Equal(t, []float64{60, 60, 60, 54}, weights)

	// The occurrence after the final-stage fail is the deload.
	assert.False(t, rows[2].Slots[0].IsDeload)
	assert.True(t, rows[3].Slots[0].IsDeload)
}

func TestReplay_StageLadder_SuccessAddsWeight(t *testing.T) {
	program := singleSlotProgram(ladderSlot(), 3, weightField("squat_start"))
	cfg := models.Config{Values: map[string]float64{"squat_start": 60}}

	outcomes := []models.Outcome{
		outcome(0, "t1-squat", models.ResultSuccess),
		outcome(1, "t1-squat", models.ResultSuccess),
	}

	rows := engine.Replay(program, cfg, outcomes)
	require.Len(t, rows, 3)

	assert.Equal(t, 60.0, rows[0].Slots[0].Weight)
	assert.Equal(t, 65.0, rows[1].Slots[0].Weight)
	assert.Equal(t, 70.0, rows[2].Slots[0].Weight)

	// Success never moves the stage for this rule set.
	for _, row := range rows {
		assert.Equal(t, 0, row.Slots[0].Stage)
	}
}

func TestReplay_StageLadder_FinalStageSuccessFallsBackToOnSuccess(t *testing.T) {
	slot := ladderSlot()
	rows := engine.Replay(
		singleSlotProgram(slot, 4, weightField("squat_start")),
		models.Config{Values: map[string]float64{"squat_start": 60}},
		[]models.Outcome{
			outcome(0, "t1-squat", models.ResultFail),
			outcome(1, "t1-squat", models.ResultFail),
			outcome(2, "t1-squat", models.ResultSuccess),
		},
	)

	// fail, fail puts the slot on the final stage; success there falls back
	// to on_success since no on_final_stage_success is declared.
	assert.Equal(t, 2, rows[2].Slots[0].Stage)
	assert.Equal(t, 2, rows[3].Slots[0].Stage)
	assert.Equal(t, 65.0, rows[3].Slots[0].Weight)
}

func TestReplay_StageLadder_FinalStageSuccessUsedWhenDeclared(t *testing.T) {
	slot := ladderSlot()
	slot.OnFinalStageSuccess = &models.Action{Type: "add_weight_reset_stage", Amount: 10}

	rows := engine.Replay(
		singleSlotProgram(slot, 4, weightField("squat_start")),
		models.Config{Values: map[string]float64{"squat_start": 60}},
		[]models.Outcome{
			outcome(0, "t1-squat", models.ResultFail),
			outcome(1, "t1-squat", models.ResultFail),
			outcome(2, "t1-squat", models.ResultSuccess),
		},
	)

	assert.Equal(t, 0, rows[3].Slots[0].Stage)
	assert.Equal(t, 70.0, rows[3].Slots[0].Weight)
}

func TestReplay_UnloggedOccurrencesCarryStateForward(t *testing.T) {
	program := singleSlotProgram(ladderSlot(), 6, weightField("squat_start"))
	cfg := models.Config{Values: map[string]float64{"squat_start": 60}}

	rows := engine.Replay(program, cfg, nil)

	for _, row := range rows {
		assert.Equal(t, 60.0, row.Slots[0].Weight)
		assert.Equal(t, 0, row.Slots[0].Stage)
	}
}

func TestReplay_Determinism(t *testing.T) {
	program := singleSlotProgram(ladderSlot(), 6, weightField("squat_start"))
	cfg := models.Config{Values: map[string]float64{"squat_start": 62.5}}
	outcomes := []models.Outcome{
		outcome(0, "t1-squat", models.ResultSuccess),
		outcome(1, "t1-squat", models.ResultFail),
		outcome(2, "t1-squat", models.ResultFail),
	}

	first := engine.Replay(program, cfg, outcomes)
	second := engine.Replay(program, cfg, outcomes)

	assert.Equal(t, first, second)
}

func TestReplay_AppendOnlyLog_LastEntryWins(t *testing.T) {
	program := singleSlotProgram(ladderSlot(), 2, weightField("squat_start"))
	cfg := models.Config{Values: map[string]float64{"squat_start": 60}}

	outcomes := []models.Outcome{
		outcome(0, "t1-squat", models.ResultFail),
		outcome(0, "t1-squat", models.ResultSuccess),
	}

	rows := engine.Replay(program, cfg, outcomes)
	assert.Equal(t, models.ResultSuccess, rows[0].Slots[0].Result)
	assert.Equal(t, 65.0, rows[1].Slots[0].Weight)
}

func TestReplay_PrescriptionLadder(t *testing.T) {
	slot := models.Slot{
		ID:        "comp-squat",
		Exercise:  "Competition squat",
		Role:      models.RolePrimary,
		PercentOf: "squat_1rm",
		Increment: 2.5,
		Prescriptions: []models.Prescription{
			{Percent: 50, Reps: 5, Sets: 1},
			{Percent: 60, Reps: 4, Sets: 1},
			{Percent: 70, Reps: 3, Sets: 1},
			{Percent: 75, Reps: 3, Sets: 4},
		},
	}
	program := singleSlotProgram(slot, 2, weightField("squat_1rm"))
	cfg := models.Config{Values: map[string]float64{"squat_1rm": 150}}

	rows := engine.Replay(program, cfg, nil)
	require.Len(t, rows, 2)

	row := rows[0].Slots[0]
	require.Len(t, row.Prescriptions, 4)

	got := []float64{}
	for _, p := range row.Prescriptions {
		got = append(got, p.Weight)
	}
	assert.Equal(t, []float64{75, 90, 105, 112.5}, got)

	// The working set is the last rung; earlier rungs are warm-ups.
	assert.Equal(t, 112.5, row.Weight)
	assert.Equal(t, 4, row.Sets)
	assert.Equal(t, 3, row.Reps)
	assert.True(t, row.Prescriptions[0].Warmup)
	assert.False(t, row.Prescriptions[3].Warmup)
}

func TestReplay_PrescriptionLadder_IgnoresHistory(t *testing.T) {
	slot := models.Slot{
		ID:            "comp-bench",
		Exercise:      "Bench press",
		Role:          models.RolePrimary,
		PercentOf:     "bench_1rm",
		Increment:     2.5,
		Prescriptions: []models.Prescription{{Percent: 80, Reps: 3, Sets: 5}},
	}
	program := singleSlotProgram(slot, 4, weightField("bench_1rm"), weightField("unrelated"))
	cfg := models.Config{Values: map[string]float64{"bench_1rm": 100, "unrelated": 40}}

	outcomes := []models.Outcome{
		outcome(0, "comp-bench", models.ResultFail),
		outcome(1, "comp-bench", models.ResultFail),
	}

	rows := engine.Replay(program, cfg, outcomes)
	for _, row := range rows {
		assert.Equal(t, 80.0, row.Slots[0].Weight)
	}

	// An unrelated config key never moves the ladder.
	cfg2 := models.Config{Values: map[string]float64{"bench_1rm": 100, "unrelated": 90}}
	rows2 := engine.Replay(program, cfg2, outcomes)
	for i := range rows {
		assert.Equal(t, rows[i].Slots[0].Weight, rows2[i].Slots[0].Weight)
	}

	// Moving the referenced 1RM moves every occurrence identically.
	cfg3 := models.Config{Values: map[string]float64{"bench_1rm": 110, "unrelated": 40}}
	rows3 := engine.Replay(program, cfg3, outcomes)
	for _, row := range rows3 {
		assert.Equal(t, 87.5, row.Slots[0].Weight)
	}
}

func tmProgram() (*models.Program, models.Config) {
	amrapSlot := models.Slot{
		ID:             "t1-bench",
		Exercise:       "Bench press",
		Tier:           "T1",
		Role:           models.RolePrimary,
		TrainingMaxKey: "bench_tm",
		TMPercent:      100,
		Increment:      2.5,
		Stages:         []models.Stage{{Sets: 5, Reps: 3, Amrap: true}},
		OnSuccess:      &models.Action{Type: "update_tm", Amount: 5, MinAmrapReps: 3},
	}
	ladder := models.Slot{
		ID:            "bench-backoff",
		Exercise:      "Bench press",
		Tier:          "T2",
		Role:          models.RoleSecondary,
		PercentOf:     "bench_tm",
		Increment:     2.5,
		Prescriptions: []models.Prescription{{Percent: 80, Reps: 8, Sets: 3}},
	}

	program := &models.Program{
		Name:          "coupled",
		Version:       1,
		TotalWorkouts: 4,
		Inputs:        []models.ConfigField{weightField("bench_tm")},
		Days: []models.Day{
			{Name: "Bench day", Slots: []models.Slot{amrapSlot, ladder}},
		},
	}
	cfg := models.Config{Values: map[string]float64{"bench_tm": 100}}
	return program, cfg
}

func TestReplay_CrossSlotCoupling_UpdateTM(t *testing.T) {
	program, cfg := tmProgram()

	oc := outcome(1, "t1-bench", models.ResultSuccess)
	oc.AmrapReps = 5
	rows := engine.Replay(program, cfg, []models.Outcome{oc})
	require.Len(t, rows, 4)

	// Workouts 0..k unchanged, k+1..end moved, for every slot on the key.
	assert.Equal(t, 100.0, rows[0].Slots[0].Weight)
	assert.Equal(t, 80.0, rows[0].Slots[1].Weight)
	assert.Equal(t, 100.0, rows[1].Slots[0].Weight)
	assert.Equal(t, 80.0, rows[1].Slots[1].Weight)

	assert.Equal(t, 105.0, rows[2].Slots[0].Weight)
	assert.Equal(t, 85.0, rows[2].Slots[1].Weight)
	assert.Equal(t, 105.0, rows[3].Slots[0].Weight)
	assert.Equal(t, 85.0, rows[3].Slots[1].Weight)
}

func TestReplay_UpdateTM_GatedByAmrapThreshold(t *testing.T) {
	program, cfg := tmProgram()

	oc := outcome(0, "t1-bench", models.ResultSuccess)
	oc.AmrapReps = 2 // below min_amrap_reps
	rows := engine.Replay(program, cfg, []models.Outcome{oc})

	for _, row := range rows {
		assert.Equal(t, 100.0, row.Slots[0].Weight)
		assert.Equal(t, 80.0, row.Slots[1].Weight)
	}
}

func TestReplay_WeightsAreIncrementMultiples(t *testing.T) {
	slot := models.Slot{
		ID:            "comp-dl",
		Exercise:      "Deadlift",
		Role:          models.RolePrimary,
		PercentOf:     "dl_1rm",
		Increment:     2.5,
		Prescriptions: []models.Prescription{
			{Percent: 55, Reps: 5, Sets: 1},
			{Percent: 72.5, Reps: 3, Sets: 3},
		},
	}
	program := singleSlotProgram(slot, 3, weightField("dl_1rm"))
	// Deliberately awkward 1RM: raw products are not multiples of 2.5.
	cfg := models.Config{Values: map[string]float64{"dl_1rm": 147.3}}

	rows := engine.Replay(program, cfg, nil)
	for _, row := range rows {
		for _, p := range row.Slots[0].Prescriptions {
			ratio := p.Weight / 2.5
			assert.Equal(t, float64(int64(ratio+0.5)), ratio, "weight %v is not a 2.5 multiple", p.Weight)
		}
	}
}

func TestReplay_UnresolvedSlotDoesNotAbortTheRest(t *testing.T) {
	broken := ladderSlot()
	broken.ID = "broken"
	broken.StartWeightKey = "missing_key"
	ok := ladderSlot()

	program := &models.Program{
		Name:          "partial",
		Version:       1,
		TotalWorkouts: 2,
		Inputs:        []models.ConfigField{weightField("squat_start")},
		Days: []models.Day{
			{Name: "Day A", Slots: []models.Slot{broken, ok}},
		},
	}
	cfg := models.Config{Values: map[string]float64{"squat_start": 60}}

	rows := engine.Replay(program, cfg, nil)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Slots[0].Unresolved)
	assert.Contains(t, rows[0].Slots[0].Problem, "missing_key")
	assert.False(t, rows[0].Slots[1].Unresolved)
	assert.Equal(t, 60.0, rows[0].Slots[1].Weight)
}

func TestReplay_GppSlot(t *testing.T) {
	slot := models.Slot{ID: "gpp-carry", Exercise: "Farmer carry", Role: models.RoleAccessory, IsGpp: true}
	program := singleSlotProgram(slot, 2)

	rows := engine.Replay(program, models.Config{}, []models.Outcome{
		outcome(0, "gpp-carry", models.ResultSuccess),
	})

	assert.True(t, rows[0].Slots[0].IsGpp)
	assert.Equal(t, models.ResultSuccess, rows[0].Slots[0].Result)
	assert.Zero(t, rows[0].Slots[0].Weight)
}

func TestMarkChanged_FlagsOnlyMovedRows(t *testing.T) {
	program, cfg := tmProgram()

	before := engine.Replay(program, cfg, nil)
	snap := engine.SnapshotOf("plan-1", before)

	oc := outcome(1, "t1-bench", models.ResultSuccess)
	oc.AmrapReps = 5
	after := engine.Replay(program, cfg, []models.Outcome{oc})
	engine.MarkChanged(snap, after)

	assert.False(t, after[0].Slots[0].IsChanged)
	assert.False(t, after[1].Slots[1].IsChanged)
	assert.True(t, after[2].Slots[0].IsChanged)
	assert.True(t, after[2].Slots[1].IsChanged)
	assert.True(t, after[3].Slots[1].IsChanged)
}

func TestMarkChanged_NilBaselineFlagsNothing(t *testing.T) {
	program, cfg := tmProgram()
	rows := engine.Replay(program, cfg, nil)
	engine.MarkChanged(nil, rows)

	for _, row := range rows {
		for _, sr := range row.Slots {
			assert.False(t, sr.IsChanged)
		}
	}
}

func TestReplay_StartWeightKey_MultiplierAndOffset(t *testing.T) {
	slot := ladderSlot()
	slot.StartWeightKey = "squat_start"
	slot.Multiplier = 0.5
	slot.Offset = 10

	rows := engine.Replay(
		singleSlotProgram(slot, 1, weightField("squat_start")),
		models.Config{Values: map[string]float64{"squat_start": 100}},
		nil,
	)

	assert.Equal(t, 60.0, rows[0].Slots[0].Weight)
}
