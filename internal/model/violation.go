package model

import "time"

// ViolationType is a fixed enumerated proctoring infraction.
type ViolationType string

const (
	ViolationGazeAway      ViolationType = "gaze_away"
	ViolationNoFace        ViolationType = "no_face"
	ViolationMultipleFaces ViolationType = "multiple_faces"
	ViolationMobilePhone   ViolationType = "mobile_phone"
)

// Valid reports whether v is one of the known violation types.
func (v ViolationType) Valid() bool {
	switch v {
	case ViolationGazeAway, ViolationNoFace, ViolationMultipleFaces, ViolationMobilePhone:
		return true
	}
	return false
}

// ProctoringViolation is a durable infraction record. Unlike the rest of the
// proctoring data it is written straight to the database so it survives
// session expiry and deletion.
type ProctoringViolation struct {
	ViolationID  int64         `json:"violation_id"`
	AttemptID    int64         `json:"attempt_id"`
	SnapshotPath string        `json:"snapshot_path"`
	Type         ViolationType `json:"violation_type"`
	Timestamp    time.Time     `json:"timestamp"`
}
