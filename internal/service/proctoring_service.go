package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/face"
	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/storage"
)

// ViolationStore persists violations durably, outside session state.
type ViolationStore interface {
	Create(ctx context.Context, v *model.ProctoringViolation) error
}

// EventPublisher pushes live proctoring events to monitoring subscribers.
// Publishing is best effort; failures never block the candidate.
type EventPublisher interface {
	Publish(ctx context.Context, attemptID int64, event any) error
}

// ProctoringService handles webcam snapshots, violation records and the
// face-match reconciliation that runs at session finalization.
type ProctoringService struct {
	attempts   AttemptStore
	sessions   SessionStore
	violations ViolationStore
	blobs      storage.BlobStore
	comparator face.Comparator
	publisher  EventPublisher
	locks      *AttemptLocks

	fetchTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// ProctoringDeps bundles the service's collaborators.
type ProctoringDeps struct {
	Attempts   AttemptStore
	Sessions   SessionStore
	Violations ViolationStore
	Blobs      storage.BlobStore
	Comparator face.Comparator
	Publisher  EventPublisher
	Locks      *AttemptLocks

	ImageFetchTimeout time.Duration
	Now               func() time.Time
	Logger            zerolog.Logger
}

// NewProctoringService wires up the service.
func NewProctoringService(d ProctoringDeps) *ProctoringService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Locks == nil {
		d.Locks = NewAttemptLocks()
	}
	return &ProctoringService{
		attempts:     d.Attempts,
		sessions:     d.Sessions,
		violations:   d.Violations,
		blobs:        d.Blobs,
		comparator:   d.Comparator,
		publisher:    d.Publisher,
		locks:        d.Locks,
		fetchTimeout: d.ImageFetchTimeout,
		now:          d.Now,
		log:          d.Logger.With().Str("component", "proctoring_service").Logger(),
	}
}

// CaptureSnapshot stores a webcam image and appends it to the session's
// snapshot list. Returns the stored path.
func (s *ProctoringService) CaptureSnapshot(ctx context.Context, attemptID int64, image io.Reader) (string, error) {
	unlock := s.locks.Lock(attemptID)
	defer unlock()

	if err := s.requireInProgress(ctx, attemptID); err != nil {
		return "", err
	}
	sess, err := s.sessions.Get(ctx, attemptID)
	if err != nil {
		return "", mapSessionErr(err)
	}

	now := s.now().UTC()
	path := fmt.Sprintf("snapshots/attempt%d_%s.jpg", attemptID, now.Format("20060102T150405"))
	if _, err := s.blobs.Put(ctx, path, image, "image/jpeg"); err != nil {
		return "", err
	}

	snapshot := model.Snapshot{
		Timestamp: now.Format(time.RFC3339),
		Path:      path,
	}
	sess.Proctoring.Snapshots = append(sess.Proctoring.Snapshots, snapshot)
	sess.Proctoring.Remarks = append(sess.Proctoring.Remarks,
		fmt.Sprintf("Snapshot captured at | %s | %s", snapshot.Timestamp, snapshot.Path))

	if err := s.sessions.Save(ctx, attemptID, sess); err != nil {
		return "", err
	}

	s.publish(ctx, attemptID, map[string]any{
		"type":      "snapshot",
		"timestamp": snapshot.Timestamp,
		"path":      snapshot.Path,
	})
	return path, nil
}

// StoreViolation uploads the evidence image and writes a durable violation
// record tied to the attempt. Unlike snapshots, violations survive session
// expiry and deletion.
func (s *ProctoringService) StoreViolation(ctx context.Context, attemptID int64, image io.Reader, violationType model.ViolationType) (*model.ProctoringViolation, error) {
	if !violationType.Valid() {
		return nil, ErrInvalidViolationType
	}
	if err := s.requireInProgress(ctx, attemptID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	path := fmt.Sprintf("violations/violation_attempt%d_%s.jpg", attemptID, now.Format("20060102T150405"))
	if _, err := s.blobs.Put(ctx, path, image, "image/jpeg"); err != nil {
		return nil, err
	}

	violation := &model.ProctoringViolation{
		AttemptID:    attemptID,
		SnapshotPath: path,
		Type:         violationType,
		Timestamp:    now,
	}
	if err := s.violations.Create(ctx, violation); err != nil {
		return nil, err
	}

	s.log.Info().Int64("attempt_id", attemptID).Str("violation_type", string(violationType)).
		Msg("proctoring violation stored")

	s.publish(ctx, attemptID, map[string]any{
		"type":           "violation",
		"violation_type": violationType,
		"timestamp":      now.Format(time.RFC3339),
		"path":           path,
	})
	return violation, nil
}

// Reconcile verifies every snapshot against the candidate's profile image.
// Fetch or comparison failures become remarks, never errors; when no profile
// image exists a single skip remark is appended and validity stays unset.
func (s *ProctoringService) Reconcile(ctx context.Context, candidate *model.Candidate, p *model.ProctoringData) {
	if candidate.ProfilePicture == "" {
		p.Remarks = append(p.Remarks, "No candidate profile image available for comparison")
		return
	}

	profile, err := s.fetchImage(ctx, candidate.ProfilePicture)
	if err != nil {
		for i := range p.Snapshots {
			invalid := false
			p.Snapshots[i].IsValid = &invalid
			p.Remarks = append(p.Remarks, fmt.Sprintf(
				"Snapshot at %s: face comparison failed: could not fetch profile image: %v",
				p.Snapshots[i].Timestamp, err))
		}
		return
	}

	for i := range p.Snapshots {
		snap := &p.Snapshots[i]
		valid, remark := s.compareSnapshot(ctx, profile, snap.Path)
		snap.IsValid = &valid
		p.Remarks = append(p.Remarks, fmt.Sprintf("Snapshot at %s: %s", snap.Timestamp, remark))
	}
}

func (s *ProctoringService) compareSnapshot(ctx context.Context, profile []byte, path string) (bool, string) {
	img, err := s.fetchImage(ctx, path)
	if err != nil {
		return false, fmt.Sprintf("face comparison failed: could not fetch snapshot: %v", err)
	}
	result, err := s.comparator.Compare(ctx, profile, img)
	if err != nil {
		return false, fmt.Sprintf("face comparison failed: %v", err)
	}
	if result.Verified {
		return true, fmt.Sprintf("faces match (confidence=%.2f)", result.Confidence)
	}
	return false, fmt.Sprintf("faces do not match (confidence=%.2f)", result.Confidence)
}

func (s *ProctoringService) fetchImage(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rc, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *ProctoringService) requireInProgress(ctx context.Context, attemptID int64) error {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return mapNotFound(err, ErrAttemptNotFound)
	}
	if attempt.Status != model.AttemptStatusStarted {
		return ErrAttemptNotInProgress
	}
	return nil
}

func (s *ProctoringService) publish(ctx context.Context, attemptID int64, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, attemptID, event); err != nil {
		s.log.Warn().Err(err).Int64("attempt_id", attemptID).Msg("failed to publish proctoring event")
	}
}
