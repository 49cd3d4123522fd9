package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/generator"
	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/repository"
)

// Store contracts consumed by the engine. The repository layer satisfies
// them; tests substitute in-memory fakes.
type (
	AttemptStore interface {
		GetByID(ctx context.Context, attemptID int64) (*model.AssessmentAttempt, error)
		Complete(ctx context.Context, attemptID int64, performanceLog json.RawMessage, endTime time.Time) error
		ListCompletedByCandidate(ctx context.Context, candidateID int64) ([]repository.CompletedAttempt, error)
	}

	CandidateStore interface {
		GetByID(ctx context.Context, candidateID int64) (*model.Candidate, error)
		ListSkills(ctx context.Context, candidateID int64) ([]model.CandidateSkill, error)
	}

	JobStore interface {
		GetByID(ctx context.Context, jobID int64) (*model.Job, error)
		ListRequiredSkills(ctx context.Context, jobID int64) ([]model.RequiredSkill, error)
	}

	MCQStore interface {
		ListByJob(ctx context.Context, jobID int64) ([]model.MCQ, error)
	}

	SessionStore interface {
		Save(ctx context.Context, attemptID int64, sess *model.AssessmentSession) error
		Get(ctx context.Context, attemptID int64) (*model.AssessmentSession, error)
		Delete(ctx context.Context, attemptID int64) error
	}

	// FaceReconciler runs face-match verification over collected snapshots
	// at finalization. Failures surface only as remarks.
	FaceReconciler interface {
		Reconcile(ctx context.Context, candidate *model.Candidate, p *model.ProctoringData)
	}
)

// AssessmentService owns the adaptive session lifecycle: initialization,
// question selection, answer grading with band adaptation, and finalization.
type AssessmentService struct {
	attempts   AttemptStore
	candidates CandidateStore
	jobs       JobStore
	mcqs       MCQStore
	sessions   SessionStore
	reconciler FaceReconciler
	source     *questionSource
	locks      *AttemptLocks

	sessionTTL  time.Duration
	scheduleLoc *time.Location
	now         func() time.Time
	picker      *feedbackPicker
	rng         *rand.Rand
	log         zerolog.Logger
}

// AssessmentDeps bundles the engine's collaborators.
type AssessmentDeps struct {
	Attempts   AttemptStore
	Candidates CandidateStore
	Jobs       JobStore
	MCQs       MCQStore
	Sessions   SessionStore
	Reconciler FaceReconciler
	Generator  generator.QuestionGenerator
	Queue      QuestionQueue
	Locks      *AttemptLocks

	SessionTTL        time.Duration
	GenerationTimeout time.Duration
	ScheduleLocation  *time.Location

	// Now and Rand are injectable for tests; nil selects real time and an
	// unseeded source.
	Now  func() time.Time
	Rand *rand.Rand

	Logger zerolog.Logger
}

// NewAssessmentService wires up the engine.
func NewAssessmentService(d AssessmentDeps) *AssessmentService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Locks == nil {
		d.Locks = NewAttemptLocks()
	}
	if d.ScheduleLocation == nil {
		d.ScheduleLocation = time.UTC
	}
	log := d.Logger.With().Str("component", "assessment_service").Logger()
	return &AssessmentService{
		attempts:   d.Attempts,
		candidates: d.Candidates,
		jobs:       d.Jobs,
		mcqs:       d.MCQs,
		sessions:   d.Sessions,
		reconciler: d.Reconciler,
		source: &questionSource{
			gen:     d.Generator,
			queue:   d.Queue,
			timeout: d.GenerationTimeout,
			log:     log,
		},
		locks:       d.Locks,
		sessionTTL:  d.SessionTTL,
		scheduleLoc: d.ScheduleLocation,
		now:         d.Now,
		picker:      &feedbackPicker{rng: d.Rand},
		rng:         d.Rand,
		log:         log,
	}
}

// StartResult is returned by Start.
type StartResult struct {
	TotalQuestions int `json:"total_questions"`
	// TestDuration is in seconds.
	TestDuration int `json:"test_duration"`
}

// Start initializes a fresh session for an attempt. Any existing session for
// the attempt is overwritten. Nothing is persisted when validation fails.
func (s *AssessmentService) Start(ctx context.Context, attemptID int64) (*StartResult, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, mapNotFound(err, ErrAttemptNotFound)
	}
	candidate, err := s.candidates.GetByID(ctx, attempt.CandidateID)
	if err != nil {
		return nil, mapNotFound(err, ErrCandidateNotFound)
	}
	job, err := s.jobs.GetByID(ctx, attempt.JobID)
	if err != nil {
		return nil, mapNotFound(err, ErrJobNotFound)
	}

	if err := s.checkSchedule(job); err != nil {
		return nil, err
	}
	if job.ExperienceMin == nil || job.ExperienceMax == nil {
		return nil, ErrInvalidExperienceRange
	}

	requiredSkills, err := s.jobs.ListRequiredSkills(ctx, job.JobID)
	if err != nil {
		return nil, err
	}
	if len(requiredSkills) == 0 {
		return nil, ErrNoRequiredSkills
	}

	bank, err := s.loadQuestionBank(ctx, job.JobID)
	if err != nil {
		return nil, err
	}

	base := baseBand(candidate.YearsOfExperience, *job.ExperienceMin, *job.ExperienceMax)
	quota := allocateQuestions(requiredSkills, job.NumQuestions)
	currentBands := s.seedBands(ctx, candidate.CandidateID, requiredSkills, base)

	initialBands := make(map[string]model.Band, len(currentBands))
	perf := make(map[string]*model.SkillPerformance, len(requiredSkills))
	for _, rs := range requiredSkills {
		initialBands[rs.SkillName] = currentBands[rs.SkillName]
		perf[rs.SkillName] = &model.SkillPerformance{Responses: []model.AnswerRecord{}}
	}

	now := s.now()
	sess := &model.AssessmentSession{
		JobID:               job.JobID,
		TotalQuestions:      job.NumQuestions,
		TestDuration:        job.DurationMinutes * 60,
		StartTime:           now.Unix(),
		ExpiresAt:           now.Add(s.sessionTTL).Unix(),
		QuestionBank:        bank,
		QuestionsPerSkill:   quota,
		CurrentBandPerSkill: currentBands,
		InitialBandPerSkill: initialBands,
		PerformanceLog:      perf,
		AskedQuestions:      []model.BankQuestion{},
		JobDescription:      job.Description,
		CustomPrompt:        job.CustomPrompt,
		Proctoring: model.ProctoringData{
			Snapshots: []model.Snapshot{},
			Remarks:   []string{},
		},
	}
	if err := s.sessions.Save(ctx, attemptID, sess); err != nil {
		return nil, err
	}

	s.log.Info().Int64("attempt_id", attemptID).Int64("job_id", job.JobID).
		Int("total_questions", sess.TotalQuestions).Msg("assessment session started")

	return &StartResult{
		TotalQuestions: sess.TotalQuestions,
		TestDuration:   sess.TestDuration,
	}, nil
}

// checkSchedule validates the attempt falls inside the job's window. Stored
// schedule bounds are wall-clock values interpreted in the configured
// schedule timezone.
func (s *AssessmentService) checkSchedule(job *model.Job) error {
	now := s.now().In(s.scheduleLoc)
	if job.ScheduleStart != nil && now.Before(rebase(*job.ScheduleStart, s.scheduleLoc)) {
		return ErrScheduleNotStarted
	}
	if job.ScheduleEnd != nil && now.After(rebase(*job.ScheduleEnd, s.scheduleLoc)) {
		return ErrScheduleEnded
	}
	return nil
}

// rebase reinterprets a timestamp's wall-clock fields in loc.
func rebase(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// loadQuestionBank groups a job's stored questions by band and skill,
// dropping rows with malformed answer letters, and shuffles each pool.
func (s *AssessmentService) loadQuestionBank(ctx context.Context, jobID int64) (map[model.Band]map[string][]model.BankQuestion, error) {
	mcqs, err := s.mcqs.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	bank := make(map[model.Band]map[string][]model.BankQuestion, len(model.BandOrder))
	for _, band := range model.BandOrder {
		bank[band] = make(map[string][]model.BankQuestion)
	}

	total := 0
	for i := range mcqs {
		m := &mcqs[i]
		answer := m.AnswerText()
		if answer == "" {
			s.log.Error().Str("mcq_id", m.MCQID).Str("correct_answer", m.CorrectAnswer).
				Msg("skipping question with invalid correct answer")
			continue
		}
		if !m.Band.Valid() {
			s.log.Error().Str("mcq_id", m.MCQID).Str("band", string(m.Band)).
				Msg("skipping question with invalid difficulty band")
			continue
		}
		bank[m.Band][m.SkillName] = append(bank[m.Band][m.SkillName], model.BankQuestion{
			MCQID:    m.MCQID,
			Question: m.Question,
			Options:  m.Options(),
			Answer:   answer,
		})
		total++
	}
	if total == 0 {
		return nil, ErrNoQuestions
	}

	for _, skills := range bank {
		for _, pool := range skills {
			s.rng.Shuffle(len(pool), func(i, j int) {
				pool[i], pool[j] = pool[j], pool[i]
			})
		}
	}
	return bank, nil
}

// seedBands derives each skill's starting band from the candidate's declared
// proficiency, falling back to the experience-derived base band when no
// proficiency record exists.
func (s *AssessmentService) seedBands(ctx context.Context, candidateID int64, skills []model.RequiredSkill, base model.Band) map[string]model.Band {
	declared := make(map[string]model.Band)
	candidateSkills, err := s.candidates.ListSkills(ctx, candidateID)
	if err != nil {
		s.log.Warn().Err(err).Int64("candidate_id", candidateID).
			Msg("failed to load candidate skills, using base band for all skills")
	} else {
		for _, cs := range candidateSkills {
			declared[cs.SkillName] = cs.ProficiencyBand()
		}
	}

	out := make(map[string]model.Band, len(skills))
	for _, rs := range skills {
		if band, ok := declared[rs.SkillName]; ok {
			out[rs.SkillName] = band
		} else {
			out[rs.SkillName] = base
		}
	}
	return out
}

// ServedQuestion is one question handed to the candidate. The correct answer
// is withheld.
type ServedQuestion struct {
	Greeting       string   `json:"greeting"`
	MCQID          string   `json:"mcq_id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	Skill          string   `json:"skill"`
	QuestionNumber int      `json:"question_number"`
}

// NextQuestionResult is the three-way outcome of a next-question call:
// exactly one of Question, Completion or NoMoreQuestions is set.
type NextQuestionResult struct {
	Question        *ServedQuestion
	Completion      *model.CompletionReport
	NoMoreQuestions bool
}

// NextQuestion serves the next adaptive question, or finalizes the session
// when the question or time budget is exhausted. The completion check runs
// before selection so a completed session always returns the report shape.
func (s *AssessmentService) NextQuestion(ctx context.Context, attemptID int64, update *model.ProctoringUpdate) (*NextQuestionResult, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, attemptID)
	if err != nil {
		return nil, mapSessionErr(err)
	}

	elapsed := s.now().Unix() - sess.StartTime
	if sess.QuestionCount >= sess.TotalQuestions || elapsed >= int64(sess.TestDuration) {
		report, err := s.finalize(ctx, attemptID, sess, update)
		if err != nil {
			return nil, err
		}
		return &NextQuestionResult{Completion: report}, nil
	}

	requiredSkills, err := s.jobs.ListRequiredSkills(ctx, sess.JobID)
	if err != nil {
		return nil, err
	}
	priorities := make(map[string]int, len(requiredSkills))
	for _, rs := range requiredSkills {
		priorities[rs.SkillName] = rs.Priority
	}

	skills := make([]string, 0, len(sess.QuestionsPerSkill))
	for skill := range sess.QuestionsPerSkill {
		skills = append(skills, skill)
	}
	sort.Slice(skills, func(i, j int) bool {
		if priorities[skills[i]] != priorities[skills[j]] {
			return priorities[skills[i]] > priorities[skills[j]]
		}
		return skills[i] < skills[j]
	})

	for _, skill := range skills {
		if sess.QuestionsPerSkill[skill] <= 0 {
			continue
		}
		band := sess.CurrentBandPerSkill[skill]
		q, ok := s.source.next(ctx, sess, skill, band)
		if !ok {
			continue
		}

		sess.QuestionsPerSkill[skill]--
		sess.QuestionCount++
		sess.AskedQuestions = append(sess.AskedQuestions, q)
		if err := s.sessions.Save(ctx, attemptID, sess); err != nil {
			return nil, err
		}

		return &NextQuestionResult{Question: &ServedQuestion{
			Greeting:       s.picker.greeting(),
			MCQID:          q.MCQID,
			Question:       q.Question,
			Options:        q.Options,
			Skill:          skill,
			QuestionNumber: sess.QuestionCount,
		}}, nil
	}

	s.log.Warn().Int64("attempt_id", attemptID).Msg("no more questions available")
	if err := s.sessions.Save(ctx, attemptID, sess); err != nil {
		return nil, err
	}
	return &NextQuestionResult{NoMoreQuestions: true}, nil
}

// SubmitAnswerRequest carries one graded response.
type SubmitAnswerRequest struct {
	Skill string
	// Answer is the 1-based option index as a string, "1" through "4".
	Answer    string
	MCQID     string
	TimeTaken float64
}

var answerIndex = map[string]int{"1": 0, "2": 1, "3": 2, "4": 3}

// SubmitAnswer grades a response, updates the skill's log and walks its band
// one step up or down. Returns candidate-facing feedback text.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, attemptID int64, req SubmitAnswerRequest) (string, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, attemptID)
	if err != nil {
		return "", mapSessionErr(err)
	}

	perf, ok := sess.PerformanceLog[req.Skill]
	if !ok {
		return "", ErrInvalidSkill
	}
	idx, ok := answerIndex[req.Answer]
	if !ok {
		return "", ErrInvalidAnswer
	}
	question := sess.AskedByID(req.MCQID)
	if question == nil {
		return "", ErrInvalidMCQ
	}

	band := sess.CurrentBandPerSkill[req.Skill]
	chosen := question.Options[idx]
	correct := chosen == question.Answer

	perf.QuestionsAttempted++
	perf.TimeSpent += req.TimeTaken
	perf.Responses = append(perf.Responses, model.AnswerRecord{
		MCQID:     question.MCQID,
		Question:  question.Question,
		Chosen:    chosen,
		Correct:   question.Answer,
		IsCorrect: correct,
		Band:      band,
		TimeTaken: req.TimeTaken,
	})

	var feedback string
	if correct {
		perf.CorrectAnswers++
		sess.CurrentBandPerSkill[req.Skill] = band.Advance()
		feedback = s.picker.correct()
	} else {
		perf.IncorrectAnswers++
		sess.CurrentBandPerSkill[req.Skill] = band.Regress()
		feedback = s.picker.incorrect(question.Answer)
	}

	if err := s.sessions.Save(ctx, attemptID, sess); err != nil {
		return "", err
	}
	return feedback, nil
}

// End explicitly terminates a session, merging the caller's proctoring
// payload before finalization. The report is identical to the one produced
// by implicit completion.
func (s *AssessmentService) End(ctx context.Context, attemptID int64, update *model.ProctoringUpdate) (*model.CompletionReport, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, attemptID)
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return s.finalize(ctx, attemptID, sess, update)
}

// finalize is the single termination path shared by implicit and explicit
// completion: compute final bands and accuracy, merge proctoring input, run
// face reconciliation, persist the report, drop the session.
func (s *AssessmentService) finalize(ctx context.Context, attemptID int64, sess *model.AssessmentSession, update *model.ProctoringUpdate) (*model.CompletionReport, error) {
	for skill, perf := range sess.PerformanceLog {
		perf.FinalBand = sess.CurrentBandPerSkill[skill]
		if perf.QuestionsAttempted > 0 {
			perf.AccuracyPercent = round2(float64(perf.CorrectAnswers) / float64(perf.QuestionsAttempted) * 100)
		} else {
			perf.AccuracyPercent = 0.0
		}
	}

	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, mapNotFound(err, ErrAttemptNotFound)
	}
	candidate, err := s.candidates.GetByID(ctx, attempt.CandidateID)
	if err != nil {
		return nil, mapNotFound(err, ErrCandidateNotFound)
	}

	sess.Proctoring.Merge(update)
	s.reconciler.Reconcile(ctx, candidate, &sess.Proctoring)

	report := make(map[string]any, len(sess.PerformanceLog)+1)
	for skill, perf := range sess.PerformanceLog {
		report[skill] = perf
	}
	report["proctoring_data"] = sess.Proctoring
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	if err := s.attempts.Complete(ctx, attemptID, raw, s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, attemptID); err != nil {
		s.log.Warn().Err(err).Int64("attempt_id", attemptID).
			Msg("failed to delete completed session")
	}

	s.log.Info().Int64("attempt_id", attemptID).Int("questions_served", sess.QuestionCount).
		Msg("assessment completed")

	return &model.CompletionReport{
		Message:         "Assessment completed",
		CandidateReport: sess.PerformanceLog,
		Proctoring:      sess.Proctoring,
		TotalQuestions:  sess.TotalQuestions,
	}, nil
}

// ResultsReport is a completed attempt's stored report split back into its
// performance and proctoring halves.
type ResultsReport struct {
	CandidateReport map[string]json.RawMessage `json:"candidate_report"`
	Proctoring      json.RawMessage            `json:"proctoring_data"`
	TotalQuestions  int                        `json:"total_questions"`
}

// Results retrieves the persisted report for a completed attempt.
func (s *AssessmentService) Results(ctx context.Context, attemptID int64) (*ResultsReport, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, mapNotFound(err, ErrAttemptNotFound)
	}
	if attempt.Status != model.AttemptStatusCompleted {
		return nil, ErrAttemptNotCompleted
	}
	job, err := s.jobs.GetByID(ctx, attempt.JobID)
	if err != nil {
		return nil, mapNotFound(err, ErrJobNotFound)
	}

	var stored map[string]json.RawMessage
	if len(attempt.PerformanceLog) > 0 {
		if err := json.Unmarshal(attempt.PerformanceLog, &stored); err != nil {
			return nil, err
		}
	}
	proctoring := stored["proctoring_data"]
	delete(stored, "proctoring_data")

	return &ResultsReport{
		CandidateReport: stored,
		Proctoring:      proctoring,
		TotalQuestions:  job.NumQuestions,
	}, nil
}

// ListCompleted retrieves a candidate's completed attempts with job
// headlines.
func (s *AssessmentService) ListCompleted(ctx context.Context, candidateID int64) ([]repository.CompletedAttempt, error) {
	return s.attempts.ListCompletedByCandidate(ctx, candidateID)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}

func mapSessionErr(err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}
