package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// Forum activity kinds accepted by CheckForumBadges.
const (
	ForumActivityPost  = "post"
	ForumActivityReply = "reply"
)

// BadgeService evaluates student activity against the badge catalog and
// maintains per-student progress rows. Awarding is best-effort: aggregate
// failures skip the affected requirement type and are logged, and callers
// never receive an error that could block the primary action.
//
// Every aggregate, including situational tallies like time-of-day and
// weekend counters, is recomputed from activity history on each evaluation,
// which keeps results stable under replay and backfill.
type BadgeService struct {
	db      *gorm.DB
	catalog *BadgeCatalog
	now     func() time.Time
}

// NewBadgeService creates an evaluator over the given database and catalog.
func NewBadgeService(db *gorm.DB, catalog *BadgeCatalog) *BadgeService {
	return &BadgeService{db: db, catalog: catalog, now: time.Now}
}

// StudentBadgeView joins a catalog definition with the student's progress.
// Badges without a progress row report zero progress and not earned.
type StudentBadgeView struct {
	models.Badge
	Progress int        `json:"progress"`
	EarnedAt *time.Time `json:"earned_at"`
	IsEarned bool       `json:"is_earned"`
}

// GetStudentBadges returns the full catalog with the student's progress
// merged in, for UI display.
func (s *BadgeService) GetStudentBadges(studentID uint) ([]StudentBadgeView, error) {
	var rows []models.StudentBadge
	if err := s.db.Where("student_id = ?", studentID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byBadge := make(map[uint]models.StudentBadge, len(rows))
	for _, r := range rows {
		byBadge[r.BadgeID] = r
	}

	badges := s.catalog.All()
	views := make([]StudentBadgeView, 0, len(badges))
	for _, b := range badges {
		view := StudentBadgeView{Badge: b}
		if r, ok := byBadge[b.ID]; ok {
			view.Progress = r.Progress
			view.EarnedAt = r.EarnedAt
			view.IsEarned = r.IsEarned()
		}
		views = append(views, view)
	}
	return views, nil
}

// CheckAndAwardBadgesForQuiz evaluates all quiz-triggered requirements after
// a submission has been persisted and returns the badges newly earned by
// this call. The submission itself is already part of the aggregates.
func (s *BadgeService) CheckAndAwardBadgesForQuiz(studentID, quizID uint, score, totalQuestions, completionTimeSeconds int) []models.Badge {
	percentage := 0
	if totalQuestions > 0 {
		percentage = score * 100 / totalQuestions
	}

	subject := ""
	var quiz models.Quiz
	if err := s.db.First(&quiz, quizID).Error; err != nil {
		s.warnSkip("quiz lookup", err)
	} else {
		subject = quiz.Subject
	}

	at := s.now()

	// Lifetime counts shared by several requirement types, computed once.
	totalQuizzes, totalErr := s.countSubmissions(studentID)

	var earned []models.Badge
	for _, badge := range s.catalog.All() {
		req := badge.Requirement
		var (
			progress int
			relevant bool
			aggErr   error
		)

		switch req.Type {
		case models.ReqQuizCount:
			progress, relevant, aggErr = int(totalQuizzes), true, totalErr

		case models.ReqPerfectScore:
			if percentage < 100 {
				continue
			}
			var n int64
			n, aggErr = s.countPerfectSubmissions(studentID)
			progress, relevant = int(n), true

		case models.ReqSubjectMastery:
			if subject != req.Subject || percentage < req.MinScore {
				continue
			}
			var n int64
			n, aggErr = s.countMasterySubmissions(studentID, req.Subject, req.MinScore)
			progress, relevant = int(n), true

		case models.ReqTimeBased:
			if !hourInWindow(at.Hour(), req.StartHour, req.EndHour) {
				continue
			}
			var n int
			n, aggErr = s.countSubmissionsInWindow(studentID, req.StartHour, req.EndHour)
			progress, relevant = n, true

		case models.ReqWeekendActivity:
			if !isWeekend(at) {
				continue
			}
			var n int
			n, aggErr = s.countWeekendActivities(studentID)
			progress, relevant = n, true

		case models.ReqSpeedCompletion:
			// One-shot: this submission either qualifies or it does not.
			if completionTimeSeconds <= 0 || completionTimeSeconds > req.Value || percentage != req.MinScore {
				continue
			}
			progress, relevant = req.Value, true

		default:
			continue
		}

		if !relevant {
			continue
		}
		if aggErr != nil {
			s.warnSkip(string(req.Type), aggErr)
			continue
		}
		if s.award(studentID, badge, progress) {
			earned = append(earned, badge)
		}
	}
	return earned
}

// CheckLessonBadges evaluates lesson-triggered requirements after a lesson
// completion has been persisted.
func (s *BadgeService) CheckLessonBadges(studentID uint) []models.Badge {
	var earned []models.Badge

	completions, err := s.countLessonCompletions(studentID)
	if err != nil {
		s.warnSkip("lesson_count", err)
	} else {
		for _, badge := range s.catalog.All() {
			if badge.Requirement.Type != models.ReqLessonCount {
				continue
			}
			if s.award(studentID, badge, int(completions)) {
				earned = append(earned, badge)
			}
		}
	}

	earned = append(earned, s.checkWeekendBadges(studentID)...)
	return earned
}

// CheckLoginBadges evaluates login-streak requirements after a login has
// refreshed the user's consecutive-day counter.
func (s *BadgeService) CheckLoginBadges(studentID uint) []models.Badge {
	var user models.User
	if err := s.db.First(&user, studentID).Error; err != nil {
		s.warnSkip("login_streak", err)
		return nil
	}

	var earned []models.Badge
	for _, badge := range s.catalog.All() {
		if badge.Requirement.Type != models.ReqLoginStreak {
			continue
		}
		if s.award(studentID, badge, user.ConsecutiveDays) {
			earned = append(earned, badge)
		}
	}
	return earned
}

// CheckForumBadges evaluates forum-participation requirements after a post
// or reply has been persisted.
func (s *BadgeService) CheckForumBadges(studentID uint, activity string) []models.Badge {
	want := models.ReqForumPosts
	count, err := s.countForumPosts(studentID)
	if activity == ForumActivityReply {
		want = models.ReqForumReplies
		count, err = s.countForumReplies(studentID)
	}

	var earned []models.Badge
	if err != nil {
		s.warnSkip(string(want), err)
	} else {
		for _, badge := range s.catalog.All() {
			if badge.Requirement.Type != want {
				continue
			}
			if s.award(studentID, badge, int(count)) {
				earned = append(earned, badge)
			}
		}
	}

	earned = append(earned, s.checkWeekendBadges(studentID)...)
	return earned
}

// CheckMentorSessionBadges evaluates mentorship requirements after a session
// has been marked completed.
func (s *BadgeService) CheckMentorSessionBadges(studentID uint) []models.Badge {
	count, err := s.countCompletedSessions(studentID)
	if err != nil {
		s.warnSkip("mentor_sessions", err)
		return nil
	}

	var earned []models.Badge
	for _, badge := range s.catalog.All() {
		if badge.Requirement.Type != models.ReqMentorSessions {
			continue
		}
		if s.award(studentID, badge, int(count)) {
			earned = append(earned, badge)
		}
	}
	return earned
}

// checkWeekendBadges advances weekend-activity badges when the triggering
// event happens on a Saturday or Sunday.
func (s *BadgeService) checkWeekendBadges(studentID uint) []models.Badge {
	if !isWeekend(s.now()) {
		return nil
	}
	count, err := s.countWeekendActivities(studentID)
	if err != nil {
		s.warnSkip("weekend_activity", err)
		return nil
	}

	var earned []models.Badge
	for _, badge := range s.catalog.All() {
		if badge.Requirement.Type != models.ReqWeekendActivity {
			continue
		}
		if s.award(studentID, badge, count) {
			earned = append(earned, badge)
		}
	}
	return earned
}

// award upserts the progress row and reports whether the badge crossed to
// earned in this call. Errors are logged; a failed update never aborts the
// evaluation of other badges.
func (s *BadgeService) award(studentID uint, badge models.Badge, progress int) bool {
	newlyEarned, err := s.upsertProgress(studentID, badge.ID, progress, badge.Requirement.Value)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("badge progress update failed student=%d badge=%q err=%v", studentID, badge.Name, err)
		}
		return false
	}
	return newlyEarned
}

// upsertProgress creates the row on first relevant event and refreshes the
// counter afterwards. The award itself is a single conditional UPDATE gated
// on earned_at IS NULL, so two racing evaluations crossing the same
// threshold report the badge as newly earned exactly once, and an earned
// badge is never un-earned.
func (s *BadgeService) upsertProgress(studentID, badgeID uint, progress, threshold int) (bool, error) {
	row := models.StudentBadge{StudentID: studentID, BadgeID: badgeID}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return false, err
	}

	if progress >= threshold {
		res := s.db.Model(&models.StudentBadge{}).
			Where("student_id = ? AND badge_id = ? AND earned_at IS NULL", studentID, badgeID).
			Updates(map[string]interface{}{"progress": progress, "earned_at": s.now()})
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 1 {
			return true, nil
		}
		// Already earned: only the cosmetic counter keeps climbing.
	}

	err := s.db.Model(&models.StudentBadge{}).
		Where("student_id = ? AND badge_id = ?", studentID, badgeID).
		Update("progress", progress).Error
	return false, err
}

func (s *BadgeService) warnSkip(what string, err error) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf("badge evaluation skipped %s: %v", what, err)
	}
}

// hourInWindow reports whether hour falls in [start, end), wrapping past
// midnight when start > end. Equal bounds mean a full-day window.
func hourInWindow(hour, start, end int) bool {
	switch {
	case start == end:
		return true
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
