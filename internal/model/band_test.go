package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandAdvanceClampsAtPerfect(t *testing.T) {
	band := BandGood
	band = band.Advance()
	assert.Equal(t, BandBetter, band)
	band = band.Advance()
	assert.Equal(t, BandPerfect, band)
	band = band.Advance()
	assert.Equal(t, BandPerfect, band)
}

func TestBandRegressClampsAtGood(t *testing.T) {
	band := BandPerfect
	band = band.Regress()
	assert.Equal(t, BandBetter, band)
	band = band.Regress()
	assert.Equal(t, BandGood, band)
	band = band.Regress()
	assert.Equal(t, BandGood, band)
}

func TestBandValid(t *testing.T) {
	for _, band := range BandOrder {
		assert.True(t, band.Valid())
	}
	assert.False(t, Band("expert").Valid())
	assert.False(t, Band("").Valid())
}

func TestProficiencyBand(t *testing.T) {
	cases := []struct {
		proficiency int
		want        Band
	}{
		{4, BandGood},
		{6, BandBetter},
		{8, BandPerfect},
		{5, BandBetter}, // unknown values map to the middle tier
	}
	for _, tc := range cases {
		cs := CandidateSkill{SkillName: "Go", Proficiency: tc.proficiency}
		assert.Equal(t, tc.want, cs.ProficiencyBand(), "proficiency %d", tc.proficiency)
	}
}
