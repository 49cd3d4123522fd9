package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("live session", func(t *testing.T) {
		sess := &model.AssessmentSession{ExpiresAt: now.Add(time.Hour).Unix()}
		assert.False(t, sessionExpired(sess, now))
	})

	t.Run("expiry in the past", func(t *testing.T) {
		sess := &model.AssessmentSession{ExpiresAt: now.Add(-time.Second).Unix()}
		assert.True(t, sessionExpired(sess, now))
	})

	t.Run("expiry exactly now", func(t *testing.T) {
		sess := &model.AssessmentSession{ExpiresAt: now.Unix()}
		assert.True(t, sessionExpired(sess, now))
	})

	t.Run("zero expiry never expires", func(t *testing.T) {
		sess := &model.AssessmentSession{}
		assert.False(t, sessionExpired(sess, now))
	})
}
