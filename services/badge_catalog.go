package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/models"
	"github.com/ARIIK-ANTHONY/Class-Beyond-sub000/utils"
)

// badgeDefinitions is the static catalog seeded into the database on first
// boot. Names are unique; thresholds are positive.
var badgeDefinitions = []models.Badge{
	{Name: "First Steps", Description: "Submit your first quiz", Type: models.BadgeTypeAchievement, Rarity: models.RarityCommon, Icon: "👣", Points: 10,
		Requirement: models.Requirement{Type: models.ReqQuizCount, Value: 1}},
	{Name: "Quiz Enthusiast", Description: "Submit 5 quizzes", Type: models.BadgeTypeAchievement, Rarity: models.RarityCommon, Icon: "📝", Points: 25,
		Requirement: models.Requirement{Type: models.ReqQuizCount, Value: 5}},
	{Name: "Quiz Master", Description: "Submit 25 quizzes", Type: models.BadgeTypeAchievement, Rarity: models.RarityRare, Icon: "🎓", Points: 100,
		Requirement: models.Requirement{Type: models.ReqQuizCount, Value: 25}},
	{Name: "Perfect Score", Description: "Score 100% on a quiz", Type: models.BadgeTypeAchievement, Rarity: models.RarityRare, Icon: "💯", Points: 50,
		Requirement: models.Requirement{Type: models.ReqPerfectScore, Value: 1}},
	{Name: "Perfectionist", Description: "Score 100% on 10 quizzes", Type: models.BadgeTypeAchievement, Rarity: models.RarityEpic, Icon: "✨", Points: 150,
		Requirement: models.Requirement{Type: models.ReqPerfectScore, Value: 10}},
	{Name: "Bookworm", Description: "Complete 5 lessons", Type: models.BadgeTypeParticipation, Rarity: models.RarityCommon, Icon: "📚", Points: 25,
		Requirement: models.Requirement{Type: models.ReqLessonCount, Value: 5}},
	{Name: "Scholar", Description: "Complete 20 lessons", Type: models.BadgeTypeParticipation, Rarity: models.RarityRare, Icon: "🧠", Points: 100,
		Requirement: models.Requirement{Type: models.ReqLessonCount, Value: 20}},
	{Name: "Daily Learner", Description: "Log in 3 days in a row", Type: models.BadgeTypeStreak, Rarity: models.RarityCommon, Icon: "🔥", Points: 15,
		Requirement: models.Requirement{Type: models.ReqLoginStreak, Value: 3}},
	{Name: "Week Warrior", Description: "Log in 7 days in a row", Type: models.BadgeTypeStreak, Rarity: models.RarityRare, Icon: "⚡", Points: 50,
		Requirement: models.Requirement{Type: models.ReqLoginStreak, Value: 7}},
	{Name: "Unstoppable", Description: "Log in 30 days in a row", Type: models.BadgeTypeStreak, Rarity: models.RarityLegendary, Icon: "🏆", Points: 300,
		Requirement: models.Requirement{Type: models.ReqLoginStreak, Value: 30}},
	{Name: "Conversation Starter", Description: "Create your first forum post", Type: models.BadgeTypeParticipation, Rarity: models.RarityCommon, Icon: "💬", Points: 10,
		Requirement: models.Requirement{Type: models.ReqForumPosts, Value: 1}},
	{Name: "Community Voice", Description: "Create 10 forum posts", Type: models.BadgeTypeParticipation, Rarity: models.RarityRare, Icon: "📣", Points: 50,
		Requirement: models.Requirement{Type: models.ReqForumPosts, Value: 10}},
	{Name: "Helping Hand", Description: "Write 5 forum replies", Type: models.BadgeTypeParticipation, Rarity: models.RarityCommon, Icon: "🤝", Points: 25,
		Requirement: models.Requirement{Type: models.ReqForumReplies, Value: 5}},
	{Name: "Mentor's Apprentice", Description: "Complete your first mentor session", Type: models.BadgeTypeParticipation, Rarity: models.RarityCommon, Icon: "🧑‍🏫", Points: 20,
		Requirement: models.Requirement{Type: models.ReqMentorSessions, Value: 1}},
	{Name: "Dedicated Mentee", Description: "Complete 5 mentor sessions", Type: models.BadgeTypeParticipation, Rarity: models.RarityRare, Icon: "🌱", Points: 75,
		Requirement: models.Requirement{Type: models.ReqMentorSessions, Value: 5}},
	{Name: "Math Whiz", Description: "Score 80%+ on 5 math quizzes", Type: models.BadgeTypeMastery, Rarity: models.RarityEpic, Icon: "🧮", Points: 150,
		Requirement: models.Requirement{Type: models.ReqSubjectMastery, Value: 5, Subject: "math", MinScore: 80}},
	{Name: "Science Explorer", Description: "Score 80%+ on 5 science quizzes", Type: models.BadgeTypeMastery, Rarity: models.RarityEpic, Icon: "🔬", Points: 150,
		Requirement: models.Requirement{Type: models.ReqSubjectMastery, Value: 5, Subject: "science", MinScore: 80}},
	{Name: "Night Owl", Description: "Submit 5 quizzes between 9pm and 6am", Type: models.BadgeTypeSpecial, Rarity: models.RarityRare, Icon: "🦉", Points: 50,
		Requirement: models.Requirement{Type: models.ReqTimeBased, Value: 5, StartHour: 21, EndHour: 6}},
	{Name: "Early Bird", Description: "Submit 5 quizzes between 5am and 9am", Type: models.BadgeTypeSpecial, Rarity: models.RarityRare, Icon: "🌅", Points: 50,
		Requirement: models.Requirement{Type: models.ReqTimeBased, Value: 5, StartHour: 5, EndHour: 9}},
	{Name: "Weekend Warrior", Description: "Complete 10 activities on weekends", Type: models.BadgeTypeSpecial, Rarity: models.RarityRare, Icon: "🛡️", Points: 75,
		Requirement: models.Requirement{Type: models.ReqWeekendActivity, Value: 10}},
	{Name: "Speed Demon", Description: "Score 100% on a quiz in under 2 minutes", Type: models.BadgeTypeSpecial, Rarity: models.RarityEpic, Icon: "🚀", Points: 100,
		Requirement: models.Requirement{Type: models.ReqSpeedCompletion, Value: 120, MinScore: 100}},
}

// knownRequirementTypes lists the tags the evaluator implements. Catalog
// entries with other tags are skipped and warned about once at startup.
var knownRequirementTypes = map[models.RequirementType]bool{
	models.ReqQuizCount:       true,
	models.ReqPerfectScore:    true,
	models.ReqLessonCount:     true,
	models.ReqLoginStreak:     true,
	models.ReqForumPosts:      true,
	models.ReqForumReplies:    true,
	models.ReqMentorSessions:  true,
	models.ReqSubjectMastery:  true,
	models.ReqTimeBased:       true,
	models.ReqWeekendActivity: true,
	models.ReqSpeedCompletion: true,
}

// BadgeCatalog serves the immutable badge definition set. After Load the
// snapshot is read-only and safe for concurrent reads.
type BadgeCatalog struct {
	db       *gorm.DB
	badges   []models.Badge
	byName   map[string]models.Badge
	byType   map[string][]models.Badge
	byRarity map[string][]models.Badge
}

// NewBadgeCatalog creates a catalog bound to the given database.
func NewBadgeCatalog(db *gorm.DB) *BadgeCatalog {
	return &BadgeCatalog{db: db}
}

// Initialize bulk-inserts the static definition set when the persisted
// catalog is empty, then loads the in-memory snapshot. Safe to call on
// every process start: a concurrent seeding race falls on the unique name
// index and is tolerated.
func (c *BadgeCatalog) Initialize() error {
	var count int64
	if err := c.db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		defs := make([]models.Badge, len(badgeDefinitions))
		copy(defs, badgeDefinitions)
		if err := c.db.Create(&defs).Error; err != nil {
			// A racing initializer may have seeded first; the unique index on
			// name rejects our insert and that is fine.
			if isDuplicateErr(err) {
				if utils.Sugar != nil {
					utils.Sugar.Warnf("badge catalog already seeded by a concurrent initializer: %v", err)
				}
			} else {
				return err
			}
		} else if utils.Sugar != nil {
			utils.Sugar.Infof("seeded badge catalog with %d definitions", len(defs))
		}
	}

	return c.Load()
}

// Load reads the persisted catalog into the in-memory snapshot.
func (c *BadgeCatalog) Load() error {
	var badges []models.Badge
	if err := c.db.Order("id").Find(&badges).Error; err != nil {
		return err
	}

	c.badges = badges
	c.byName = make(map[string]models.Badge, len(badges))
	c.byType = make(map[string][]models.Badge)
	c.byRarity = make(map[string][]models.Badge)

	for _, b := range badges {
		c.byName[b.Name] = b
		c.byType[b.Type] = append(c.byType[b.Type], b)
		c.byRarity[b.Rarity] = append(c.byRarity[b.Rarity], b)
		if !knownRequirementTypes[b.Requirement.Type] && utils.Sugar != nil {
			utils.Sugar.Warnf("badge %q has unknown requirement type %q and will never be awarded", b.Name, b.Requirement.Type)
		}
	}
	return nil
}

// All returns every badge definition in catalog order.
func (c *BadgeCatalog) All() []models.Badge {
	return c.badges
}

// GetByName returns the definition for a badge name.
func (c *BadgeCatalog) GetByName(name string) (models.Badge, bool) {
	b, ok := c.byName[name]
	return b, ok
}

// GetByType returns all badges of the given type.
func (c *BadgeCatalog) GetByType(badgeType string) []models.Badge {
	return c.byType[badgeType]
}

// GetByRarity returns all badges of the given rarity.
func (c *BadgeCatalog) GetByRarity(rarity string) []models.Badge {
	return c.byRarity[rarity]
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
