package engine_test

import (
	"strings"
	"testing"

	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_AcceptsWellFormedInput(t *testing.T) {
	fields := []models.ConfigField{
		{Key: "squat_1rm", Kind: models.FieldWeight, Min: 20, Step: 2.5},
		{Key: "variant", Kind: models.FieldChoice, Options: []models.FieldOption{
			{Label: "High bar", Value: "high_bar"},
			{Label: "Low bar", Value: "low_bar"},
		}},
	}

	cfg, errs := engine.ValidateConfig(fields, map[string]string{
		"squat_1rm": "147.3",
		"variant":   "low_bar",
	})

	require.Nil(t, errs)
	assert.Equal(t, 147.3, cfg.Values["squat_1rm"])
	assert.Equal(t, "low_bar", cfg.Choices["variant"])
}

func TestValidateConfig_IsAtomic(t *testing.T) {
	fields := []models.ConfigField{
		{Key: "squat_1rm", Kind: models.FieldWeight, Min: 20},
		{Key: "bench_1rm", Kind: models.FieldWeight, Min: 20},
	}

	cfg, errs := engine.ValidateConfig(fields, map[string]string{
		"squat_1rm": "150",
		"bench_1rm": "lots",
	})

	require.NotNil(t, errs)
	assert.Contains(t, errs, "bench_1rm")
	// The valid field is not admitted either.
	assert.Empty(t, cfg.Values)
}

func TestValidateConfig_FieldErrors(t *testing.T) {
	fields := []models.ConfigField{
		{Key: "w", Kind: models.FieldWeight, Min: 30},
		{Key: "c", Kind: models.FieldChoice, Options: []models.FieldOption{{Label: "A", Value: "a"}}},
	}

	tests := []struct {
		name string
		raw  map[string]string
		key  string
		msg  string
	}{
		{"missing field", map[string]string{"c": "a"}, "w", "required"},
		{"blank field", map[string]string{"w": "  ", "c": "a"}, "w", "required"},
		{"not a number", map[string]string{"w": "heavy", "c": "a"}, "w", "must be a number"},
		{"below min", map[string]string{"w": "25", "c": "a"}, "w", "must be at least 30"},
		{"above ceiling", map[string]string{"w": "1200", "c": "a"}, "w", "must be at most 1000"},
		{"unknown choice", map[string]string{"w": "100", "c": "b"}, "c", `not one of the declared options: "b"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := engine.ValidateConfig(fields, tc.raw)
			require.NotNil(t, errs)
			assert.Equal(t, tc.msg, errs[tc.key])
		})
	}
}

func TestValidateConfig_StoresUnrounded(t *testing.T) {
	fields := []models.ConfigField{{Key: "w", Kind: models.FieldWeight, Min: 0, Step: 2.5}}

	cfg, errs := engine.ValidateConfig(fields, map[string]string{"w": "101.3"})
	require.Nil(t, errs)
	assert.Equal(t, 101.3, cfg.Values["w"])
}

func validProgram() *models.Program {
	return &models.Program{
		Name:          "valid",
		Version:       1,
		TotalWorkouts: 2,
		Inputs: []models.ConfigField{
			{Key: "squat_start", Kind: models.FieldWeight},
			{Key: "bench_tm", Kind: models.FieldWeight},
		},
		Days: []models.Day{{
			Name: "Day A",
			Slots: []models.Slot{
				{
					ID:             "t1-squat",
					Exercise:       "Back squat",
					Role:           models.RolePrimary,
					StartWeightKey: "squat_start",
					Increment:      2.5,
					Stages:         []models.Stage{{Sets: 5, Reps: 3}},
					OnSuccess:      &models.Action{Type: "add_weight", Amount: 2.5},
				},
				{
					ID:            "bench-backoff",
					Exercise:      "Bench press",
					Role:          models.RoleSecondary,
					PercentOf:     "bench_tm",
					Increment:     2.5,
					Prescriptions: []models.Prescription{{Percent: 80, Reps: 8, Sets: 3}},
				},
				{ID: "gpp-row", Exercise: "Cable row", Role: models.RoleAccessory, IsGpp: true},
			},
		}},
	}
}

func TestValidateProgram_CleanDefinition(t *testing.T) {
	assert.Empty(t, engine.ValidateProgram(validProgram()))
}

func problemsFor(t *testing.T, mutate func(*models.Program)) []engine.SlotProblem {
	t.Helper()
	p := validProgram()
	mutate(p)
	return engine.ValidateProgram(p)
}

func TestValidateProgram_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Program)
		want   string
	}{
		{
			"missing slot id",
			func(p *models.Program) { p.Days[0].Slots[0].ID = "" },
			"slot has no id",
		},
		{
			"duplicate slot id",
			func(p *models.Program) { p.Days[0].Slots[1].ID = "t1-squat" },
			"duplicate slot id",
		},
		{
			"two modes at once",
			func(p *models.Program) { p.Days[0].Slots[0].IsGpp = true },
			"exactly one progression mode",
		},
		{
			"no mode at all",
			func(p *models.Program) { p.Days[0].Slots[0].Stages = nil },
			"exactly one progression mode",
		},
		{
			"dangling start weight key",
			func(p *models.Program) { p.Days[0].Slots[0].StartWeightKey = "nope" },
			`start_weight_key "nope" is not a declared weight field`,
		},
		{
			"dangling percent_of key",
			func(p *models.Program) { p.Days[0].Slots[1].PercentOf = "nope" },
			`percent_of key "nope" is not a declared weight field`,
		},
		{
			"missing percent_of",
			func(p *models.Program) { p.Days[0].Slots[1].PercentOf = "" },
			"no percent_of key",
		},
		{
			"non-positive increment",
			func(p *models.Program) { p.Days[0].Slots[1].Increment = 0 },
			"positive increment",
		},
		{
			"both weight sources",
			func(p *models.Program) { p.Days[0].Slots[0].TrainingMaxKey = "bench_tm" },
			"both start_weight_key and training_max_key",
		},
		{
			"neither weight source",
			func(p *models.Program) { p.Days[0].Slots[0].StartWeightKey = "" },
			"neither start_weight_key nor training_max_key",
		},
		{
			"tm without percent",
			func(p *models.Program) {
				p.Days[0].Slots[0].StartWeightKey = ""
				p.Days[0].Slots[0].TrainingMaxKey = "bench_tm"
				p.Days[0].Slots[0].OnSuccess = nil
			},
			"positive tm_percent",
		},
		{
			"unknown action tag",
			func(p *models.Program) { p.Days[0].Slots[0].OnSuccess.Type = "explode" },
			`unknown action type "explode"`,
		},
		{
			"update_tm without tm key",
			func(p *models.Program) { p.Days[0].Slots[0].OnSuccess.Type = "update_tm" },
			"update_tm on a slot without training_max_key",
		},
		{
			"add_weight on tm slot",
			func(p *models.Program) {
				p.Days[0].Slots[0].StartWeightKey = ""
				p.Days[0].Slots[0].TrainingMaxKey = "bench_tm"
				p.Days[0].Slots[0].TMPercent = 90
			},
			"never materializes on a training-max slot",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			problems := problemsFor(t, tc.mutate)
			require.NotEmpty(t, problems)

			found := false
			for _, p := range problems {
				if strings.Contains(p.Problem, tc.want) {
					found = true
				}
			}
			assert.True(t, found, "no problem mentioning %q in %v", tc.want, problems)
		})
	}
}

func TestSlotProblemString(t *testing.T) {
	p := engine.SlotProblem{DayName: "Day A", SlotID: "t1-squat", Problem: "duplicate slot id"}
	assert.Equal(t, "Day A/t1-squat: duplicate slot id", p.String())
}
