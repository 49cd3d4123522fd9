package model

// AssessmentSession is the mutable per-attempt state driving the adaptive
// exam. Exactly one live session exists per attempt; starting again
// overwrites it. The session is JSON-encoded into the session store and
// deleted on completion or expiry.
type AssessmentSession struct {
	JobID          int64 `json:"job_id"`
	TotalQuestions int   `json:"total_questions"`
	// TestDuration is the wall-clock budget in seconds.
	TestDuration int `json:"test_duration"`
	// StartTime is the session start as a Unix timestamp.
	StartTime int64 `json:"start_time"`
	// ExpiresAt bounds the session's life independent of progress; reads
	// past this instant treat the session as absent.
	ExpiresAt int64 `json:"expires_at"`

	// QuestionBank maps band → skill → question pool, pre-shuffled at
	// start. Generated questions are appended here so later fallbacks can
	// serve them; served questions stay in the pool and AskedQuestions
	// keeps them from being picked twice.
	QuestionBank map[Band]map[string][]BankQuestion `json:"question_bank"`

	// QuestionsPerSkill is the remaining quota per skill. Callers treat
	// values ≤ 0 as exhausted.
	QuestionsPerSkill map[string]int `json:"questions_per_skill"`

	CurrentBandPerSkill map[string]Band `json:"current_band_per_skill"`
	// InitialBandPerSkill is an immutable snapshot of the seeded bands,
	// kept for reporting.
	InitialBandPerSkill map[string]Band `json:"initial_band_per_skill"`

	PerformanceLog map[string]*SkillPerformance `json:"performance_log"`

	QuestionCount int `json:"question_count"`
	// AskedQuestions is append-only and drives both de-duplication and
	// answer grading.
	AskedQuestions []BankQuestion `json:"asked_questions"`

	JobDescription string `json:"job_description"`
	CustomPrompt   string `json:"custom_prompt"`

	Proctoring ProctoringData `json:"proctoring_data"`
}

// AskedByID finds a previously served question by mcq_id.
func (s *AssessmentSession) AskedByID(mcqID string) *BankQuestion {
	for i := range s.AskedQuestions {
		if s.AskedQuestions[i].MCQID == mcqID {
			return &s.AskedQuestions[i]
		}
	}
	return nil
}

// WasAsked reports whether the question was already served in this session.
func (s *AssessmentSession) WasAsked(mcqID string) bool {
	return s.AskedByID(mcqID) != nil
}

// SkillPerformance accumulates one skill's results over a session.
type SkillPerformance struct {
	QuestionsAttempted int            `json:"questions_attempted"`
	CorrectAnswers     int            `json:"correct_answers"`
	IncorrectAnswers   int            `json:"incorrect_answers"`
	FinalBand          Band           `json:"final_band,omitempty"`
	TimeSpent          float64        `json:"time_spent"`
	Responses          []AnswerRecord `json:"responses"`
	AccuracyPercent    float64        `json:"accuracy_percent"`
}

// AnswerRecord is one graded response inside a skill's log.
type AnswerRecord struct {
	MCQID     string  `json:"mcq_id"`
	Question  string  `json:"question"`
	Chosen    string  `json:"chosen"`
	Correct   string  `json:"correct"`
	IsCorrect bool    `json:"is_correct"`
	Band      Band    `json:"band"`
	TimeTaken float64 `json:"time_taken"`
}

// ProctoringData aggregates anti-cheating signals for one attempt. It lives
// inside the session until finalization, when it is embedded into the
// persisted report.
type ProctoringData struct {
	Snapshots          []Snapshot `json:"snapshots"`
	TabSwitches        int        `json:"tab_switches"`
	FullscreenWarnings int        `json:"fullscreen_warnings"`
	Remarks            []string   `json:"remarks"`
	ForcedTermination  bool       `json:"forced_termination"`
	TerminationReason  string     `json:"termination_reason"`
}

// Snapshot is one webcam capture. IsValid stays nil until face-match
// reconciliation runs (and remains nil when verification is skipped).
type Snapshot struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	IsValid   *bool  `json:"is_valid,omitempty"`
}

// ProctoringUpdate is the client-supplied proctoring payload accepted by the
// termination endpoints. Pointer fields distinguish "absent" from zero;
// remarks are unioned, everything else overwrites when present.
type ProctoringUpdate struct {
	TabSwitches        *int     `json:"tab_switches"`
	FullscreenWarnings *int     `json:"fullscreen_warnings"`
	Remarks            []string `json:"remarks"`
	ForcedTermination  *bool    `json:"forced_termination"`
	TerminationReason  *string  `json:"termination_reason"`
}

// Merge folds a client update into the session's proctoring block.
func (p *ProctoringData) Merge(in *ProctoringUpdate) {
	if in == nil {
		return
	}
	if in.TabSwitches != nil {
		p.TabSwitches = *in.TabSwitches
	}
	if in.FullscreenWarnings != nil {
		p.FullscreenWarnings = *in.FullscreenWarnings
	}
	p.Remarks = append(p.Remarks, in.Remarks...)
	if in.ForcedTermination != nil {
		p.ForcedTermination = *in.ForcedTermination
	}
	if in.TerminationReason != nil {
		p.TerminationReason = *in.TerminationReason
	}
}
