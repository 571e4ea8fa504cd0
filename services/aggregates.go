package services

import (
	"time"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
)

// Aggregate statistics are derived, never stored: each helper runs a fresh
// query over the underlying activity tables.

func (s *BadgeService) countSubmissions(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.QuizSubmission{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}

func (s *BadgeService) countPerfectSubmissions(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.QuizSubmission{}).
		Where("student_id = ? AND percentage >= 100", studentID).Count(&n).Error
	return n, err
}

func (s *BadgeService) countMasterySubmissions(studentID uint, subject string, minScore int) (int64, error) {
	var n int64
	err := s.db.Model(&models.QuizSubmission{}).
		Where("student_id = ? AND subject = ? AND percentage >= ?", studentID, subject, minScore).
		Count(&n).Error
	return n, err
}

// countSubmissionsInWindow counts submissions whose local hour falls in the
// [start, end) window. Hours are compared in Go so midnight wrapping behaves
// the same on every SQL backend.
func (s *BadgeService) countSubmissionsInWindow(studentID uint, startHour, endHour int) (int, error) {
	var times []time.Time
	err := s.db.Model(&models.QuizSubmission{}).
		Where("student_id = ?", studentID).
		Pluck("submitted_at", &times).Error
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range times {
		if hourInWindow(t.Local().Hour(), startHour, endHour) {
			n++
		}
	}
	return n, nil
}

// countWeekendActivities tallies every gradeable activity (quiz submissions,
// lesson completions, forum posts and replies) that happened on a Saturday
// or Sunday.
func (s *BadgeService) countWeekendActivities(studentID uint) (int, error) {
	n := 0

	var subTimes []time.Time
	if err := s.db.Model(&models.QuizSubmission{}).
		Where("student_id = ?", studentID).
		Pluck("submitted_at", &subTimes).Error; err != nil {
		return 0, err
	}
	n += countWeekendTimes(subTimes)

	var lessonTimes []time.Time
	if err := s.db.Model(&models.LessonCompletion{}).
		Where("student_id = ?", studentID).
		Pluck("created_at", &lessonTimes).Error; err != nil {
		return 0, err
	}
	n += countWeekendTimes(lessonTimes)

	var postTimes []time.Time
	if err := s.db.Model(&models.ForumPost{}).
		Where("user_id = ?", studentID).
		Pluck("created_at", &postTimes).Error; err != nil {
		return 0, err
	}
	n += countWeekendTimes(postTimes)

	var replyTimes []time.Time
	if err := s.db.Model(&models.ForumReply{}).
		Where("user_id = ?", studentID).
		Pluck("created_at", &replyTimes).Error; err != nil {
		return 0, err
	}
	n += countWeekendTimes(replyTimes)

	return n, nil
}

func (s *BadgeService) countLessonCompletions(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.LessonCompletion{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}

func (s *BadgeService) countForumPosts(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.ForumPost{}).Where("user_id = ?", studentID).Count(&n).Error
	return n, err
}

func (s *BadgeService) countForumReplies(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.ForumReply{}).Where("user_id = ?", studentID).Count(&n).Error
	return n, err
}

func (s *BadgeService) countCompletedSessions(studentID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.MentorSession{}).
		Where("student_id = ? AND status = ?", studentID, models.SessionCompleted).
		Count(&n).Error
	return n, err
}

func countWeekendTimes(times []time.Time) int {
	n := 0
	for _, t := range times {
		if isWeekend(t.Local()) {
			n++
		}
	}
	return n
}
