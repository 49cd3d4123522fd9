package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/generator"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// QuestionQueue receives freshly generated questions for asynchronous
// persistence into the durable question pool.
type QuestionQueue interface {
	Enqueue(ctx context.Context, mcqs ...model.MCQ) error
}

// questionSource picks the next question for one (skill, band) pair. After
// the first question of a session it prefers real-time generation under a
// hard deadline and falls back to the session's bank pool when generation
// times out or fails. Generated questions are appended back into the pool so
// later fallbacks can reuse them.
type questionSource struct {
	gen     generator.QuestionGenerator
	queue   QuestionQueue
	timeout time.Duration
	log     zerolog.Logger
}

type genResult struct {
	mcqs []model.MCQ
	err  error
}

// next returns the selected question, or false when neither source can serve
// this skill at this band.
func (qs *questionSource) next(ctx context.Context, sess *model.AssessmentSession, skill string, band model.Band) (model.BankQuestion, bool) {
	var available []model.BankQuestion
	for _, q := range sess.QuestionBank[band][skill] {
		if !sess.WasAsked(q.MCQID) {
			available = append(available, q)
		}
	}

	if sess.QuestionCount > 0 && qs.gen != nil {
		if q, ok := qs.generate(ctx, sess, skill, band); ok {
			return q, true
		}
	}

	if len(available) > 0 {
		return available[0], true
	}
	return model.BankQuestion{}, false
}

// generate runs one generation call in its own goroutine so an overrun is
// abandoned rather than awaited. A late result is simply discarded.
func (qs *questionSource) generate(ctx context.Context, sess *model.AssessmentSession, skill string, band model.Band) (model.BankQuestion, bool) {
	avoid := make([]string, 0, len(sess.AskedQuestions))
	for _, aq := range sess.AskedQuestions {
		avoid = append(avoid, aq.Question)
	}

	genCtx, cancel := context.WithTimeout(ctx, qs.timeout)
	defer cancel()

	ch := make(chan genResult, 1)
	go func() {
		mcqs, err := qs.gen.Generate(genCtx, generator.Request{
			JobID:          sess.JobID,
			SkillName:      skill,
			Band:           band,
			Count:          1,
			JobDescription: sess.JobDescription,
			CustomPrompt:   sess.CustomPrompt,
			AvoidQuestions: avoid,
		})
		ch <- genResult{mcqs: mcqs, err: err}
	}()

	var res genResult
	select {
	case res = <-ch:
	case <-time.After(qs.timeout):
		qs.log.Warn().Str("skill", skill).Str("band", string(band)).
			Msg("question generation timed out, falling back to bank")
		return model.BankQuestion{}, false
	case <-ctx.Done():
		return model.BankQuestion{}, false
	}

	if res.err != nil {
		qs.log.Warn().Err(res.err).Str("skill", skill).Str("band", string(band)).
			Msg("question generation failed, falling back to bank")
		return model.BankQuestion{}, false
	}
	if len(res.mcqs) == 0 {
		return model.BankQuestion{}, false
	}

	mcq := res.mcqs[0]
	q := model.BankQuestion{
		MCQID:    mcq.MCQID,
		Question: mcq.Question,
		Options:  mcq.Options(),
		Answer:   mcq.AnswerText(),
	}

	// Refill the session pool so a later fallback for this band/skill can
	// serve the generated question.
	if sess.QuestionBank[band] == nil {
		sess.QuestionBank[band] = make(map[string][]model.BankQuestion)
	}
	sess.QuestionBank[band][skill] = append(sess.QuestionBank[band][skill], q)

	if qs.queue != nil {
		if err := qs.queue.Enqueue(ctx, mcq); err != nil {
			qs.log.Warn().Err(err).Str("mcq_id", mcq.MCQID).
				Msg("failed to enqueue generated question for persistence")
		}
	}
	return q, true
}
