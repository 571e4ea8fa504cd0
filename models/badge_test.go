package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStudentBadgeIsEarned(t *testing.T) {
	sb := StudentBadge{StudentID: 1, BadgeID: 2, Progress: 4}
	assert.False(t, sb.IsEarned())

	now := time.Now()
	sb.EarnedAt = &now
	assert.True(t, sb.IsEarned())
}

func TestQuizSubmissionIsPerfect(t *testing.T) {
	assert.False(t, (&QuizSubmission{Percentage: 99}).IsPerfect())
	assert.True(t, (&QuizSubmission{Percentage: 100}).IsPerfect())
}
