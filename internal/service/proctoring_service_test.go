package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillprobe/skillprobe-backend/internal/face"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

type proctorFixture struct {
	attempts   *fakeAttemptStore
	sessions   *fakeSessionStore
	violations *fakeViolationStore
	blobs      *fakeBlobStore
	comparator *fakeComparator
	publisher  *fakePublisher
	now        time.Time
	svc        *ProctoringService
}

func newProctorFixture(t *testing.T) *proctorFixture {
	t.Helper()
	f := &proctorFixture{
		attempts: &fakeAttemptStore{attempts: map[int64]*model.AssessmentAttempt{
			1: {AttemptID: 1, CandidateID: 10, JobID: 20, Status: model.AttemptStatusStarted},
		}},
		sessions:   &fakeSessionStore{},
		violations: &fakeViolationStore{},
		blobs:      &fakeBlobStore{},
		comparator: &fakeComparator{},
		publisher:  &fakePublisher{},
		now:        time.Date(2025, 6, 1, 10, 4, 5, 0, time.UTC),
	}
	require.NoError(t, f.sessions.Save(context.Background(), 1, &model.AssessmentSession{}))

	f.svc = NewProctoringService(ProctoringDeps{
		Attempts:          f.attempts,
		Sessions:          f.sessions,
		Violations:        f.violations,
		Blobs:             f.blobs,
		Comparator:        f.comparator,
		Publisher:         f.publisher,
		ImageFetchTimeout: time.Second,
		Now:               func() time.Time { return f.now },
		Logger:            zerolog.Nop(),
	})
	return f
}

func TestCaptureSnapshot(t *testing.T) {
	f := newProctorFixture(t)
	ctx := context.Background()

	path, err := f.svc.CaptureSnapshot(ctx, 1, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "snapshots/attempt1_20250601T100405.jpg", path)
	assert.Equal(t, []byte("jpeg-bytes"), f.blobs.objects[path])

	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sess.Proctoring.Snapshots, 1)
	snap := sess.Proctoring.Snapshots[0]
	assert.Equal(t, "2025-06-01T10:04:05Z", snap.Timestamp)
	assert.Equal(t, path, snap.Path)
	assert.Nil(t, snap.IsValid)
	assert.Contains(t, sess.Proctoring.Remarks,
		"Snapshot captured at | 2025-06-01T10:04:05Z | "+path)

	assert.Len(t, f.publisher.events[1], 1)
}

func TestCaptureSnapshotRequiresLiveAttempt(t *testing.T) {
	f := newProctorFixture(t)
	ctx := context.Background()

	f.attempts.attempts[1].Status = model.AttemptStatusCompleted
	_, err := f.svc.CaptureSnapshot(ctx, 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAttemptNotInProgress)

	_, err = f.svc.CaptureSnapshot(ctx, 99, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestCaptureSnapshotWithoutSession(t *testing.T) {
	f := newProctorFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sessions.Delete(ctx, 1))
	_, err := f.svc.CaptureSnapshot(ctx, 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreViolation(t *testing.T) {
	f := newProctorFixture(t)
	ctx := context.Background()

	v, err := f.svc.StoreViolation(ctx, 1, strings.NewReader("evidence"), model.ViolationMobilePhone)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ViolationID)
	assert.Equal(t, "violations/violation_attempt1_20250601T100405.jpg", v.SnapshotPath)
	assert.Equal(t, model.ViolationMobilePhone, v.Type)
	assert.Equal(t, []byte("evidence"), f.blobs.objects[v.SnapshotPath])

	require.Len(t, f.violations.records, 1)
	assert.Len(t, f.publisher.events[1], 1)
}

func TestStoreViolationRejectsUnknownType(t *testing.T) {
	f := newProctorFixture(t)

	_, err := f.svc.StoreViolation(context.Background(), 1, strings.NewReader("x"), model.ViolationType("yawning"))
	assert.ErrorIs(t, err, ErrInvalidViolationType)
	assert.Empty(t, f.violations.records)
}

func TestReconcileWithoutProfileImage(t *testing.T) {
	f := newProctorFixture(t)

	p := &model.ProctoringData{Snapshots: []model.Snapshot{
		{Timestamp: "2025-06-01T10:00:00Z", Path: "snapshots/a.jpg"},
		{Timestamp: "2025-06-01T10:05:00Z", Path: "snapshots/b.jpg"},
	}}
	f.svc.Reconcile(context.Background(), &model.Candidate{CandidateID: 10}, p)

	assert.Equal(t, []string{"No candidate profile image available for comparison"}, p.Remarks)
	assert.Nil(t, p.Snapshots[0].IsValid)
	assert.Nil(t, p.Snapshots[1].IsValid)
	assert.Zero(t, f.comparator.calls)
}

func TestReconcileProfileFetchFailure(t *testing.T) {
	f := newProctorFixture(t)

	candidate := &model.Candidate{CandidateID: 10, ProfilePicture: "profiles/10.jpg"}
	p := &model.ProctoringData{Snapshots: []model.Snapshot{
		{Timestamp: "2025-06-01T10:00:00Z", Path: "snapshots/a.jpg"},
		{Timestamp: "2025-06-01T10:05:00Z", Path: "snapshots/b.jpg"},
	}}
	f.svc.Reconcile(context.Background(), candidate, p)

	require.Len(t, p.Remarks, 2)
	for i := range p.Snapshots {
		require.NotNil(t, p.Snapshots[i].IsValid)
		assert.False(t, *p.Snapshots[i].IsValid)
		assert.Contains(t, p.Remarks[i], "could not fetch profile image")
	}
	assert.Zero(t, f.comparator.calls)
}

func TestReconcileMatchAndMismatch(t *testing.T) {
	f := newProctorFixture(t)
	ctx := context.Background()

	_, err := f.blobs.Put(ctx, "profiles/10.jpg", strings.NewReader("profile"), "image/jpeg")
	require.NoError(t, err)
	_, err = f.blobs.Put(ctx, "snapshots/a.jpg", strings.NewReader("snap"), "image/jpeg")
	require.NoError(t, err)
	candidate := &model.Candidate{CandidateID: 10, ProfilePicture: "profiles/10.jpg"}

	t.Run("match", func(t *testing.T) {
		f.comparator.result = face.Result{Verified: true, Confidence: 0.91}
		p := &model.ProctoringData{Snapshots: []model.Snapshot{
			{Timestamp: "2025-06-01T10:00:00Z", Path: "snapshots/a.jpg"},
		}}
		f.svc.Reconcile(ctx, candidate, p)

		require.NotNil(t, p.Snapshots[0].IsValid)
		assert.True(t, *p.Snapshots[0].IsValid)
		assert.Contains(t, p.Remarks,
			"Snapshot at 2025-06-01T10:00:00Z: faces match (confidence=0.91)")
	})

	t.Run("mismatch", func(t *testing.T) {
		f.comparator.result = face.Result{Verified: false, Confidence: 0.40}
		p := &model.ProctoringData{Snapshots: []model.Snapshot{
			{Timestamp: "2025-06-01T10:00:00Z", Path: "snapshots/a.jpg"},
		}}
		f.svc.Reconcile(ctx, candidate, p)

		require.NotNil(t, p.Snapshots[0].IsValid)
		assert.False(t, *p.Snapshots[0].IsValid)
		assert.Contains(t, p.Remarks,
			"Snapshot at 2025-06-01T10:00:00Z: faces do not match (confidence=0.40)")
	})

	t.Run("missing snapshot blob", func(t *testing.T) {
		p := &model.ProctoringData{Snapshots: []model.Snapshot{
			{Timestamp: "2025-06-01T10:00:00Z", Path: "snapshots/gone.jpg"},
		}}
		f.svc.Reconcile(ctx, candidate, p)

		require.NotNil(t, p.Snapshots[0].IsValid)
		assert.False(t, *p.Snapshots[0].IsValid)
		assert.Contains(t, p.Remarks[0], "could not fetch snapshot")
	})
}
