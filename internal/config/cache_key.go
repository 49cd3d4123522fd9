package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AssessmentSessionKey returns the session-store key for one attempt's
// mutable assessment state.
func (r *CacheKeyStruct) AssessmentSessionKey(attemptID int64) string {
	return fmt.Sprintf("assessment:%d:session", attemptID)
}

// AttemptMonitorChannel returns the Redis PubSub channel carrying live
// proctoring events for an attempt.
func (r *CacheKeyStruct) AttemptMonitorChannel(attemptID int64) string {
	return fmt.Sprintf("assessment:%d:monitor", attemptID)
}

var CacheKey = NewCacheKeyStruct()
