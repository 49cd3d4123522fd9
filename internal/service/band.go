package service

import (
	"math"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// divideExperienceRange splits a job's experience range into three
// contiguous equal-width intervals, one per difficulty band.
func divideExperienceRange(min, max float64) map[model.Band][2]float64 {
	interval := (max - min) / 3
	return map[model.Band][2]float64{
		model.BandGood:    {min, min + interval},
		model.BandBetter:  {min + interval, min + 2*interval},
		model.BandPerfect: {min + 2*interval, max},
	}
}

// baseBand classifies a candidate's experience into a band by inclusive
// containment. Experience outside every interval, which can happen at
// floating-point boundaries, falls back to the easiest band.
func baseBand(experience, min, max float64) model.Band {
	intervals := divideExperienceRange(min, max)
	for _, band := range model.BandOrder {
		iv := intervals[band]
		if iv[0] <= experience && experience <= iv[1] {
			return band
		}
	}
	return model.BandGood
}

// allocateQuestions distributes the total question budget across skills
// proportionally to priority. Every skill gets at least one question, and
// rounding may push the sum above or below the total. That is accepted and
// never re-normalized.
func allocateQuestions(skills []model.RequiredSkill, total int) map[string]int {
	prioritySum := 0
	for _, s := range skills {
		prioritySum += s.Priority
	}
	if prioritySum == 0 {
		prioritySum = 1
	}

	out := make(map[string]int, len(skills))
	for _, s := range skills {
		n := int(math.Round(float64(s.Priority) / float64(prioritySum) * float64(total)))
		if n < 1 {
			n = 1
		}
		out[s.SkillName] = n
	}
	return out
}
