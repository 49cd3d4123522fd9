package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skillprobe/skillprobe-backend/internal/face"
	"github.com/skillprobe/skillprobe-backend/internal/generator"
	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/repository"
)

type fakeAttemptStore struct {
	attempts  map[int64]*model.AssessmentAttempt
	completed []repository.CompletedAttempt
}

func (f *fakeAttemptStore) GetByID(_ context.Context, attemptID int64) (*model.AssessmentAttempt, error) {
	a, ok := f.attempts[attemptID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) Complete(_ context.Context, attemptID int64, performanceLog json.RawMessage, endTime time.Time) error {
	a, ok := f.attempts[attemptID]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = model.AttemptStatusCompleted
	a.PerformanceLog = performanceLog
	a.EndTime = &endTime
	return nil
}

func (f *fakeAttemptStore) ListCompletedByCandidate(_ context.Context, _ int64) ([]repository.CompletedAttempt, error) {
	return f.completed, nil
}

type fakeCandidateStore struct {
	candidates map[int64]*model.Candidate
	skills     map[int64][]model.CandidateSkill
	skillsErr  error
}

func (f *fakeCandidateStore) GetByID(_ context.Context, candidateID int64) (*model.Candidate, error) {
	c, ok := f.candidates[candidateID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidateStore) ListSkills(_ context.Context, candidateID int64) ([]model.CandidateSkill, error) {
	if f.skillsErr != nil {
		return nil, f.skillsErr
	}
	return f.skills[candidateID], nil
}

type fakeJobStore struct {
	jobs           map[int64]*model.Job
	requiredSkills map[int64][]model.RequiredSkill
}

func (f *fakeJobStore) GetByID(_ context.Context, jobID int64) (*model.Job, error) {
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobStore) ListRequiredSkills(_ context.Context, jobID int64) ([]model.RequiredSkill, error) {
	return f.requiredSkills[jobID], nil
}

type fakeMCQStore struct {
	byJob map[int64][]model.MCQ
}

func (f *fakeMCQStore) ListByJob(_ context.Context, jobID int64) ([]model.MCQ, error) {
	return f.byJob[jobID], nil
}

// fakeSessionStore round-trips sessions through JSON the way the Redis store
// does, so tests catch anything that does not survive serialization.
type fakeSessionStore struct {
	mu      sync.Mutex
	data    map[int64][]byte
	saveErr error
}

func (f *fakeSessionStore) Save(_ context.Context, attemptID int64, sess *model.AssessmentSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		f.data = make(map[int64][]byte)
	}
	f.data[attemptID] = payload
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, attemptID int64) (*model.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.data[attemptID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	sess := &model.AssessmentSession{}
	if err := json.Unmarshal(payload, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, attemptID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, attemptID)
	return nil
}

type fakeReconciler struct {
	called int
	fn     func(*model.Candidate, *model.ProctoringData)
}

func (f *fakeReconciler) Reconcile(_ context.Context, c *model.Candidate, p *model.ProctoringData) {
	f.called++
	if f.fn != nil {
		f.fn(c, p)
	}
}

type fakeGenerator struct {
	mu    sync.Mutex
	mcqs  []model.MCQ
	err   error
	delay time.Duration
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, _ generator.Request) ([]model.MCQ, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.mcqs, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeQueue struct {
	mu       sync.Mutex
	enqueued []model.MCQ
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, mcqs ...model.MCQ) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, mcqs...)
	return nil
}

type fakeViolationStore struct {
	nextID  int64
	records []*model.ProctoringViolation
}

func (f *fakeViolationStore) Create(_ context.Context, v *model.ProctoringViolation) error {
	f.nextID++
	v.ViolationID = f.nextID
	f.records = append(f.records, v)
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func (f *fakeBlobStore) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	return key, nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) URL(key string) string {
	return "fake://" + key
}

type fakeComparator struct {
	result face.Result
	err    error
	calls  int
}

func (f *fakeComparator) Compare(_ context.Context, _, _ []byte) (face.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events map[int64][]any
}

func (f *fakePublisher) Publish(_ context.Context, attemptID int64, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events == nil {
		f.events = make(map[int64][]any)
	}
	f.events[attemptID] = append(f.events[attemptID], event)
	return nil
}
