package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

func TestAllocateQuestionsProportional(t *testing.T) {
	skills := []model.RequiredSkill{
		{SkillName: "A", Priority: 2},
		{SkillName: "B", Priority: 3},
	}
	quota := allocateQuestions(skills, 10)

	assert.Equal(t, 4, quota["A"])
	assert.Equal(t, 6, quota["B"])
}

func TestAllocateQuestionsEverySkillGetsOne(t *testing.T) {
	skills := []model.RequiredSkill{
		{SkillName: "major", Priority: 99},
		{SkillName: "minor", Priority: 1},
	}
	quota := allocateQuestions(skills, 5)

	assert.GreaterOrEqual(t, quota["minor"], 1)
	sum := 0
	for _, n := range quota {
		sum += n
	}
	assert.GreaterOrEqual(t, sum, 5)
}

func TestAllocateQuestionsZeroPrioritySum(t *testing.T) {
	skills := []model.RequiredSkill{{SkillName: "A", Priority: 0}}
	quota := allocateQuestions(skills, 10)
	assert.Equal(t, 1, quota["A"])
}

func TestBaseBandContainment(t *testing.T) {
	// Range 0-9 splits into [0,3], [3,6], [6,9].
	assert.Equal(t, model.BandGood, baseBand(1, 0, 9))
	assert.Equal(t, model.BandGood, baseBand(3, 0, 9)) // shared boundary goes to the lower band
	assert.Equal(t, model.BandBetter, baseBand(4, 0, 9))
	assert.Equal(t, model.BandPerfect, baseBand(8, 0, 9))
	assert.Equal(t, model.BandPerfect, baseBand(9, 0, 9))
}

func TestBaseBandOutsideRangeDefaultsToGood(t *testing.T) {
	assert.Equal(t, model.BandGood, baseBand(20, 0, 9))
	assert.Equal(t, model.BandGood, baseBand(-1, 0, 9))
}
