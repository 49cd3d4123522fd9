package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillprobe/skillprobe-backend/internal/generator"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

func newSource(gen generator.QuestionGenerator, queue QuestionQueue, timeout time.Duration) *questionSource {
	return &questionSource{gen: gen, queue: queue, timeout: timeout, log: zerolog.Nop()}
}

func sourceSession(questionCount int) *model.AssessmentSession {
	return &model.AssessmentSession{
		JobID:         20,
		QuestionCount: questionCount,
		QuestionBank: map[model.Band]map[string][]model.BankQuestion{
			model.BandGood: {"Go": {
				{MCQID: "bank-1", Question: "first", Options: []string{"a", "b", "c", "d"}, Answer: "b"},
				{MCQID: "bank-2", Question: "second", Options: []string{"a", "b", "c", "d"}, Answer: "c"},
			}},
		},
	}
}

func TestSourceFirstQuestionComesFromBank(t *testing.T) {
	gen := &fakeGenerator{mcqs: []model.MCQ{bankMCQ("gen-1", "Go", model.BandGood)}}
	qs := newSource(gen, nil, time.Second)
	sess := sourceSession(0)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "bank-1", q.MCQID)
	assert.Zero(t, gen.callCount())
}

func TestSourcePrefersGenerationAfterFirstQuestion(t *testing.T) {
	gen := &fakeGenerator{mcqs: []model.MCQ{bankMCQ("gen-1", "Go", model.BandGood)}}
	queue := &fakeQueue{}
	qs := newSource(gen, queue, time.Second)
	sess := sourceSession(1)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "gen-1", q.MCQID)
	assert.Equal(t, "gen-1 option B", q.Answer)

	// The generated question refills the session pool and is queued for
	// durable persistence.
	assert.Len(t, sess.QuestionBank[model.BandGood]["Go"], 3)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "gen-1", queue.enqueued[0].MCQID)
}

func TestSourceGenerationTimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{
		mcqs:  []model.MCQ{bankMCQ("gen-1", "Go", model.BandGood)},
		delay: 500 * time.Millisecond,
	}
	qs := newSource(gen, nil, 10*time.Millisecond)
	sess := sourceSession(1)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "bank-1", q.MCQID)
}

func TestSourceGenerationErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: generator.ErrUnavailable}
	qs := newSource(gen, nil, time.Second)
	sess := sourceSession(1)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "bank-1", q.MCQID)
}

func TestSourceEmptyGenerationFallsBack(t *testing.T) {
	gen := &fakeGenerator{}
	qs := newSource(gen, nil, time.Second)
	sess := sourceSession(1)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "bank-1", q.MCQID)
}

func TestSourceSkipsAskedQuestions(t *testing.T) {
	qs := newSource(nil, nil, time.Second)
	sess := sourceSession(0)
	sess.AskedQuestions = []model.BankQuestion{{MCQID: "bank-1"}}

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "bank-2", q.MCQID)

	sess.AskedQuestions = append(sess.AskedQuestions, model.BankQuestion{MCQID: "bank-2"})
	_, ok = qs.next(context.Background(), sess, "Go", model.BandGood)
	assert.False(t, ok)
}

func TestSourceEnqueueFailureStillServes(t *testing.T) {
	gen := &fakeGenerator{mcqs: []model.MCQ{bankMCQ("gen-1", "Go", model.BandGood)}}
	queue := &fakeQueue{err: assert.AnError}
	qs := newSource(gen, queue, time.Second)
	sess := sourceSession(1)

	q, ok := qs.next(context.Background(), sess, "Go", model.BandGood)
	require.True(t, ok)
	assert.Equal(t, "gen-1", q.MCQID)
}

func TestSourceEmptyBandAndSkill(t *testing.T) {
	qs := newSource(nil, nil, time.Second)
	sess := sourceSession(0)

	_, ok := qs.next(context.Background(), sess, "SQL", model.BandGood)
	assert.False(t, ok)
	_, ok = qs.next(context.Background(), sess, "Go", model.BandPerfect)
	assert.False(t, ok)
}
