package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/misterclayt0n/ferro/internal/engine"
	"github.com/misterclayt0n/ferro/internal/models"
	"github.com/misterclayt0n/ferro/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "gzclp.toml"))
	require.NoError(t, err)

	program, err := utils.ParseProgram(data)
	require.NoError(t, err)

	assert.Equal(t, "GZCLP", program.Name)
	assert.Equal(t, 1, program.Version)
	assert.Equal(t, 36, program.TotalWorkoutCount())

	require.Len(t, program.Inputs, 3)
	assert.Equal(t, models.FieldWeight, program.Inputs[0].Kind)
	assert.Equal(t, 2.5, program.Inputs[0].Step)
	assert.Equal(t, models.FieldChoice, program.Inputs[2].Kind)
	require.Len(t, program.Inputs[2].Options, 2)
	assert.Equal(t, "barbell_row", program.Inputs[2].Options[0].Value)

	require.Len(t, program.Days, 2)
	dayA := program.Days[0]
	require.Len(t, dayA.Slots, 3)

	squat := dayA.SlotByID("t1-squat")
	require.NotNil(t, squat)
	assert.Equal(t, "squat_start", squat.StartWeightKey)
	require.Len(t, squat.Stages, 3)
	assert.True(t, squat.Stages[0].Amrap)
	require.NotNil(t, squat.OnFinalStageFail)
	assert.Equal(t, "deload_percent", squat.OnFinalStageFail.Type)
	assert.Equal(t, 10.0, squat.OnFinalStageFail.Percent)

	bench := dayA.SlotByID("t2-bench")
	require.NotNil(t, bench)
	assert.Equal(t, 0.6, bench.Multiplier)

	row := dayA.SlotByID("t3-row")
	require.NotNil(t, row)
	assert.True(t, row.IsGpp)
}

func TestParseProgram_ValidatesCleanly(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "gzclp.toml"))
	require.NoError(t, err)

	program, err := utils.ParseProgram(data)
	require.NoError(t, err)

	assert.Empty(t, engine.ValidateProgram(program))
}

func TestParseProgram_Rejections(t *testing.T) {
	_, err := utils.ParseProgram([]byte("days = ["))
	assert.Error(t, err)

	_, err = utils.ParseProgram([]byte("version = 1\n[[day]]\nname = \"A\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")

	_, err = utils.ParseProgram([]byte("name = \"empty\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no days")
}

func TestParseProgram_DefaultsVersion(t *testing.T) {
	program, err := utils.ParseProgram([]byte("name = \"x\"\n[[day]]\nname = \"A\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, program.Version)
}

func TestCalculateEpley1RM(t *testing.T) {
	assert.Equal(t, 0.0, utils.CalculateEpley1RM(100, 0))
	assert.Equal(t, 120.0, utils.CalculateEpley1RM(100, 6))
	assert.InDelta(t, 116.67, utils.CalculateEpley1RM(100, 5), 0.01)
}
