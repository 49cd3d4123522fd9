package model

// Candidate is the subset of a candidate profile the assessment engine needs.
type Candidate struct {
	CandidateID       int64   `json:"candidate_id"`
	Name              string  `json:"name"`
	YearsOfExperience float64 `json:"years_of_experience"`
	// ProfilePicture is the stored path of the reference image used for
	// face-match reconciliation; empty when none is on file.
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// CandidateSkill is a candidate's self-declared proficiency in one skill.
// Proficiency is recorded on the recruiter scale {4, 6, 8} = {low, mid, high}.
type CandidateSkill struct {
	SkillName   string `json:"skill"`
	Proficiency int    `json:"proficiency"`
}

// ProficiencyBand maps a proficiency record onto a starting difficulty band.
// Unknown proficiency values fall back to mid.
func (cs CandidateSkill) ProficiencyBand() Band {
	switch cs.Proficiency {
	case 4:
		return BandGood
	case 8:
		return BandPerfect
	default:
		return BandBetter
	}
}
