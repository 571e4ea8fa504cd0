package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
)

// Wednesday noon, well clear of every time window and the weekend.
var weekdayNoon = time.Date(2025, 3, 12, 12, 0, 0, 0, time.Local)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.StudentBadge{},
		&models.Lesson{},
		&models.LessonCompletion{},
		&models.Quiz{},
		&models.QuizSubmission{},
		&models.ForumPost{},
		&models.ForumReply{},
		&models.MentorSession{},
	))
	return db
}

func newTestService(t *testing.T) (*gorm.DB, *BadgeCatalog, *BadgeService) {
	t.Helper()

	db := newTestDB(t)
	catalog := NewBadgeCatalog(db)
	require.NoError(t, catalog.Initialize())

	svc := NewBadgeService(db, catalog)
	svc.now = func() time.Time { return weekdayNoon }
	return db, catalog, svc
}

func seedStudent(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{Username: name, Role: models.RoleStudent}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedQuiz(t *testing.T, db *gorm.DB, subject string, totalQuestions int) models.Quiz {
	t.Helper()
	q := models.Quiz{AuthorID: 1, Title: subject + " quiz", Subject: subject, TotalQuestions: totalQuestions}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func seedSubmission(t *testing.T, db *gorm.DB, studentID uint, quiz models.Quiz, score, timeSeconds int, at time.Time) {
	t.Helper()
	pct := 0
	if quiz.TotalQuestions > 0 {
		pct = score * 100 / quiz.TotalQuestions
	}
	sub := models.QuizSubmission{
		StudentID:      studentID,
		QuizID:         quiz.ID,
		Subject:        quiz.Subject,
		Score:          score,
		TotalQuestions: quiz.TotalQuestions,
		Percentage:     pct,
		TimeSeconds:    timeSeconds,
		SubmittedAt:    at,
	}
	require.NoError(t, db.Create(&sub).Error)
}

func earnedNames(badges []models.Badge) []string {
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Name)
	}
	return names
}

func TestCatalogInitializeIdempotent(t *testing.T) {
	db := newTestDB(t)

	first := NewBadgeCatalog(db)
	require.NoError(t, first.Initialize())

	var countAfterFirst int64
	require.NoError(t, db.Model(&models.Badge{}).Count(&countAfterFirst).Error)
	assert.Equal(t, int64(len(badgeDefinitions)), countAfterFirst)

	// A restart must not duplicate or reorder anything.
	second := NewBadgeCatalog(db)
	require.NoError(t, second.Initialize())

	var countAfterSecond int64
	require.NoError(t, db.Model(&models.Badge{}).Count(&countAfterSecond).Error)
	assert.Equal(t, countAfterFirst, countAfterSecond)
	assert.Len(t, second.All(), int(countAfterFirst))
}

func TestCatalogLookups(t *testing.T) {
	_, catalog, _ := newTestService(t)

	b, ok := catalog.GetByName("Quiz Master")
	require.True(t, ok)
	assert.Equal(t, models.ReqQuizCount, b.Requirement.Type)
	assert.Equal(t, 25, b.Requirement.Value)

	_, ok = catalog.GetByName("No Such Badge")
	assert.False(t, ok)

	streaks := catalog.GetByType(models.BadgeTypeStreak)
	assert.Len(t, streaks, 3)

	legendary := catalog.GetByRarity(models.RarityLegendary)
	require.Len(t, legendary, 1)
	assert.Equal(t, "Unstoppable", legendary[0].Name)
}

func TestHourInWindow(t *testing.T) {
	cases := []struct {
		hour, start, end int
		want             bool
	}{
		{23, 21, 6, true},
		{3, 21, 6, true},
		{21, 21, 6, true},
		{6, 21, 6, false},
		{12, 21, 6, false},
		{5, 5, 9, true},
		{8, 5, 9, true},
		{9, 5, 9, false},
		{4, 5, 9, false},
		{0, 0, 0, true},
		{17, 7, 7, true},
	}
	for _, c := range cases {
		got := hourInWindow(c.hour, c.start, c.end)
		assert.Equalf(t, c.want, got, "hour=%d window=[%d,%d)", c.hour, c.start, c.end)
	}
}

func TestQuizCountAwardsExactlyAtThreshold(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "ada")
	quiz := seedQuiz(t, db, "history", 10)

	var all []models.Badge
	for i := 0; i < 4; i++ {
		seedSubmission(t, db, student.ID, quiz, 6, 600, weekdayNoon)
		all = append(all, svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 6, 10, 600)...)
	}
	// Four submissions: only the first-quiz badge so far.
	assert.Equal(t, []string{"First Steps"}, earnedNames(all))

	seedSubmission(t, db, student.ID, quiz, 6, 600, weekdayNoon)
	earned := svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 6, 10, 600)
	assert.Equal(t, []string{"Quiz Enthusiast"}, earnedNames(earned))

	// The sixth submission earns nothing new.
	seedSubmission(t, db, student.ID, quiz, 6, 600, weekdayNoon)
	earned = svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 6, 10, 600)
	assert.Empty(t, earned)
}

func TestSubjectMasteryGating(t *testing.T) {
	db, catalog, svc := newTestService(t)
	student := seedStudent(t, db, "blaise")
	math := seedQuiz(t, db, "math", 4)
	science := seedQuiz(t, db, "science", 4)

	// 75% on math is below the mastery floor and must not advance it.
	seedSubmission(t, db, student.ID, math, 3, 600, weekdayNoon)
	svc.CheckAndAwardBadgesForQuiz(student.ID, math.ID, 3, 4, 600)

	whiz, _ := catalog.GetByName("Math Whiz")
	var row models.StudentBadge
	err := db.Where("student_id = ? AND badge_id = ?", student.ID, whiz.ID).First(&row).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Five 100% science quizzes earn Science Explorer but never Math Whiz.
	var earned []models.Badge
	for i := 0; i < 5; i++ {
		seedSubmission(t, db, student.ID, science, 4, 600, weekdayNoon)
		earned = append(earned, svc.CheckAndAwardBadgesForQuiz(student.ID, science.ID, 4, 4, 600)...)
	}
	assert.Contains(t, earnedNames(earned), "Science Explorer")
	assert.NotContains(t, earnedNames(earned), "Math Whiz")
}

func TestTimeWindowWrapsMidnight(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "carol")
	quiz := seedQuiz(t, db, "history", 10)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	seedSubmission(t, db, student.ID, quiz, 5, 600, day.Add(23*time.Hour))
	seedSubmission(t, db, student.ID, quiz, 5, 600, day.Add(24*time.Hour+3*time.Hour))
	seedSubmission(t, db, student.ID, quiz, 5, 600, day.Add(12*time.Hour))

	// 23:00 and 03:00 fall in the 21:00-06:00 window, noon does not.
	n, err := svc.countSubmissionsInWindow(student.ID, 21, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNightOwlOnlyCountsWindowedSubmissions(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "dana")
	quiz := seedQuiz(t, db, "history", 10)

	night := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return night }

	var earned []models.Badge
	for i := 0; i < 5; i++ {
		seedSubmission(t, db, student.ID, quiz, 5, 600, night.Add(time.Duration(i)*time.Minute))
		earned = append(earned, svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 5, 10, 600)...)
	}
	assert.Contains(t, earnedNames(earned), "Night Owl")
	assert.NotContains(t, earnedNames(earned), "Early Bird")
}

func TestSpeedCompletionOneShot(t *testing.T) {
	db, _, svc := newTestService(t)
	quiz := seedQuiz(t, db, "history", 10)

	fast := seedStudent(t, db, "fast")
	seedSubmission(t, db, fast.ID, quiz, 10, 119, weekdayNoon)
	earned := svc.CheckAndAwardBadgesForQuiz(fast.ID, quiz.ID, 10, 10, 119)
	assert.Contains(t, earnedNames(earned), "Speed Demon")

	slow := seedStudent(t, db, "slow")
	seedSubmission(t, db, slow.ID, quiz, 10, 121, weekdayNoon)
	earned = svc.CheckAndAwardBadgesForQuiz(slow.ID, quiz.ID, 10, 10, 121)
	assert.NotContains(t, earnedNames(earned), "Speed Demon")

	imperfect := seedStudent(t, db, "imperfect")
	seedSubmission(t, db, imperfect.ID, quiz, 9, 60, weekdayNoon)
	earned = svc.CheckAndAwardBadgesForQuiz(imperfect.ID, quiz.ID, 9, 10, 60)
	assert.NotContains(t, earnedNames(earned), "Speed Demon")
}

func TestFifthPerfectFastQuizEarnsExactSet(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "eve")
	quiz := seedQuiz(t, db, "history", 10)

	for i := 0; i < 4; i++ {
		seedSubmission(t, db, student.ID, quiz, 6, 600, weekdayNoon)
		svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 6, 10, 600)
	}

	seedSubmission(t, db, student.ID, quiz, 10, 90, weekdayNoon)
	earned := svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 10, 10, 90)

	assert.ElementsMatch(t,
		[]string{"Quiz Enthusiast", "Perfect Score", "Speed Demon"},
		earnedNames(earned))
}

func TestLessonBadges(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "finn")

	var earned []models.Badge
	for i := 1; i <= 5; i++ {
		lesson := models.Lesson{AuthorID: 1, Title: fmt.Sprintf("lesson %d", i), Subject: "history", Content: "..."}
		require.NoError(t, db.Create(&lesson).Error)
		require.NoError(t, db.Create(&models.LessonCompletion{StudentID: student.ID, LessonID: lesson.ID}).Error)
		earned = append(earned, svc.CheckLessonBadges(student.ID)...)
	}
	assert.Equal(t, []string{"Bookworm"}, earnedNames(earned))
}

func TestLoginStreakBadges(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "grace")

	require.NoError(t, db.Model(&student).Update("consecutive_days", 7).Error)
	earned := svc.CheckLoginBadges(student.ID)

	// A streak that jumps past several thresholds awards all of them at once.
	assert.ElementsMatch(t, []string{"Daily Learner", "Week Warrior"}, earnedNames(earned))

	earned = svc.CheckLoginBadges(student.ID)
	assert.Empty(t, earned)
}

func TestForumBadges(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "hal")

	post := models.ForumPost{UserID: student.ID, Title: "hello", Content: "first post"}
	require.NoError(t, db.Create(&post).Error)
	earned := svc.CheckForumBadges(student.ID, ForumActivityPost)
	assert.Equal(t, []string{"Conversation Starter"}, earnedNames(earned))

	var fromReplies []models.Badge
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.ForumReply{PostID: post.ID, UserID: student.ID, Content: "reply"}).Error)
		fromReplies = append(fromReplies, svc.CheckForumBadges(student.ID, ForumActivityReply)...)
	}
	assert.Equal(t, []string{"Helping Hand"}, earnedNames(fromReplies))
}

func TestForumPostPreloadsReplies(t *testing.T) {
	db, _, _ := newTestService(t)
	author := seedStudent(t, db, "olga")
	replier := seedStudent(t, db, "pete")

	post := models.ForumPost{UserID: author.ID, Title: "thread", Content: "body"}
	require.NoError(t, db.Create(&post).Error)
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.ForumReply{PostID: post.ID, UserID: replier.ID, Content: "answer"}).Error)
	}

	var loaded models.ForumPost
	require.NoError(t, db.Preload("Replies").First(&loaded, post.ID).Error)
	require.Len(t, loaded.Replies, 2)
	assert.Equal(t, post.ID, loaded.Replies[0].PostID)
}

func TestMentorSessionBadges(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "ivy")
	mentor := seedStudent(t, db, "mentor")

	session := models.MentorSession{
		Reference:   "ref-1",
		StudentID:   student.ID,
		MentorID:    mentor.ID,
		ScheduledAt: weekdayNoon,
		Status:      models.SessionCompleted,
	}
	require.NoError(t, db.Create(&session).Error)

	earned := svc.CheckMentorSessionBadges(student.ID)
	assert.Equal(t, []string{"Mentor's Apprentice"}, earnedNames(earned))

	// Scheduled and cancelled sessions do not count.
	require.NoError(t, db.Create(&models.MentorSession{
		Reference: "ref-2", StudentID: student.ID, MentorID: mentor.ID,
		ScheduledAt: weekdayNoon, Status: models.SessionScheduled,
	}).Error)
	earned = svc.CheckMentorSessionBadges(student.ID)
	assert.Empty(t, earned)
}

func TestWeekendActivityBadge(t *testing.T) {
	db, _, svc := newTestService(t)
	student := seedStudent(t, db, "june")
	quiz := seedQuiz(t, db, "history", 10)

	saturday := time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return saturday }

	var earned []models.Badge
	for i := 0; i < 10; i++ {
		seedSubmission(t, db, student.ID, quiz, 5, 600, saturday.Add(time.Duration(i)*time.Minute))
		earned = append(earned, svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 5, 10, 600)...)
	}
	assert.Contains(t, earnedNames(earned), "Weekend Warrior")

	// The same tally on a weekday would not have moved.
	weekdayStudent := seedStudent(t, db, "kyle")
	svc.now = func() time.Time { return weekdayNoon }
	seedSubmission(t, db, weekdayStudent.ID, quiz, 5, 600, weekdayNoon)
	earned = svc.CheckAndAwardBadgesForQuiz(weekdayStudent.ID, quiz.ID, 5, 10, 600)
	assert.NotContains(t, earnedNames(earned), "Weekend Warrior")
}

func TestEarnedBadgeIsNeverRevoked(t *testing.T) {
	db, catalog, svc := newTestService(t)
	student := seedStudent(t, db, "lena")
	badge, _ := catalog.GetByName("Quiz Enthusiast")

	newly, err := svc.upsertProgress(student.ID, badge.ID, 5, badge.Requirement.Value)
	require.NoError(t, err)
	assert.True(t, newly)

	var row models.StudentBadge
	require.NoError(t, db.Where("student_id = ? AND badge_id = ?", student.ID, badge.ID).First(&row).Error)
	require.NotNil(t, row.EarnedAt)
	earnedAt := *row.EarnedAt

	// A later evaluation with a lower tally keeps the award intact.
	newly, err = svc.upsertProgress(student.ID, badge.ID, 2, badge.Requirement.Value)
	require.NoError(t, err)
	assert.False(t, newly)

	require.NoError(t, db.Where("student_id = ? AND badge_id = ?", student.ID, badge.ID).First(&row).Error)
	require.NotNil(t, row.EarnedAt)
	assert.True(t, earnedAt.Equal(*row.EarnedAt))
}

func TestConcurrentCrossingReportsOnce(t *testing.T) {
	db, catalog, svc := newTestService(t)
	student := seedStudent(t, db, "mona")
	badge, _ := catalog.GetByName("Perfect Score")

	const attempts = 8
	results := make([]bool, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			newly, err := svc.upsertProgress(student.ID, badge.ID, 1, badge.Requirement.Value)
			assert.NoError(t, err)
			results[i] = newly
		}(i)
	}
	wg.Wait()

	crossed := 0
	for _, r := range results {
		if r {
			crossed++
		}
	}
	assert.Equal(t, 1, crossed)
}

func TestGetStudentBadges(t *testing.T) {
	db, catalog, svc := newTestService(t)
	student := seedStudent(t, db, "nora")
	quiz := seedQuiz(t, db, "history", 10)

	seedSubmission(t, db, student.ID, quiz, 10, 600, weekdayNoon)
	svc.CheckAndAwardBadgesForQuiz(student.ID, quiz.ID, 10, 10, 600)

	views, err := svc.GetStudentBadges(student.ID)
	require.NoError(t, err)
	assert.Len(t, views, len(catalog.All()))

	byName := make(map[string]StudentBadgeView, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}

	first := byName["First Steps"]
	assert.True(t, first.IsEarned)
	require.NotNil(t, first.EarnedAt)
	assert.Equal(t, 1, first.Progress)

	// Untouched badges show up with zero progress, not as missing rows.
	unstoppable := byName["Unstoppable"]
	assert.False(t, unstoppable.IsEarned)
	assert.Nil(t, unstoppable.EarnedAt)
	assert.Equal(t, 0, unstoppable.Progress)
}
