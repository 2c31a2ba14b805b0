package achievement

// Codes for every seeded achievement.
const (
	CodeGoalGetter      = "GOAL_GETTER"
	CodeTripleThreat    = "TRIPLE_THREAT"
	CodeGoalMaster      = "GOAL_MASTER"
	CodeFirstSteps      = "FIRST_STEPS"
	CodeWeekWarrior     = "WEEK_WARRIOR"
	CodeMonthMaster     = "MONTH_MASTER"
	CodeHabitLegend     = "HABIT_LEGEND"
	CodeSaversStart     = "SAVERS_START"
	CodeFirstLakh       = "FIRST_LAKH"
	CodeBudgetBoss      = "BUDGET_BOSS"
	CodeDreamStarter    = "DREAM_STARTER"
	CodeAdventureSeeker = "ADVENTURE_SEEKER"
	CodeLifeTracker     = "LIFE_TRACKER"
)

// Catalog is the static achievement catalog, seeded into the database at
// startup and read-only afterwards.
var Catalog = []Achievement{
	{Code: CodeGoalGetter, Name: "Goal Getter", Description: "Complete your first goal", Category: CategoryGoals, Icon: "🎯", Requirement: "Complete 1 goal", BonusPoints: 25},
	{Code: CodeTripleThreat, Name: "Triple Threat", Description: "Complete 3 goals", Category: CategoryGoals, Icon: "🎯", Requirement: "Complete 3 goals", BonusPoints: 50},
	{Code: CodeGoalMaster, Name: "Goal Master", Description: "Complete 10 goals", Category: CategoryGoals, Icon: "🏅", Requirement: "Complete 10 goals", BonusPoints: 200},
	{Code: CodeFirstSteps, Name: "First Steps", Description: "Complete your first habit", Category: CategoryHabits, Icon: "👣", Requirement: "Complete 1 habit entry", BonusPoints: 10},
	{Code: CodeWeekWarrior, Name: "Week Warrior", Description: "Maintain a 7-day streak on any habit", Category: CategoryHabits, Icon: "🔥", Requirement: "7-day streak", BonusPoints: 50},
	{Code: CodeMonthMaster, Name: "Month Master", Description: "Maintain a 30-day streak on any habit", Category: CategoryHabits, Icon: "💪", Requirement: "30-day streak", BonusPoints: 200},
	{Code: CodeHabitLegend, Name: "Habit Legend", Description: "Maintain a 100-day streak on any habit", Category: CategoryHabits, Icon: "👑", Requirement: "100-day streak", BonusPoints: 1000},
	{Code: CodeSaversStart, Name: "Saver's Start", Description: "Create your first savings goal", Category: CategoryFinance, Icon: "🐷", Requirement: "Create 1 savings goal", BonusPoints: 25},
	{Code: CodeFirstLakh, Name: "First Lakh", Description: "Save ₹1,00,000 across all savings goals", Category: CategoryFinance, Icon: "💰", Requirement: "Save ₹1,00,000 total", BonusPoints: 200},
	{Code: CodeBudgetBoss, Name: "Budget Boss", Description: "Stay under budget for a full month", Category: CategoryFinance, Icon: "📊", Requirement: "Under budget for 1 month", BonusPoints: 100},
	{Code: CodeDreamStarter, Name: "Dream Starter", Description: "Complete your first bucket list item", Category: CategoryBucketList, Icon: "⭐", Requirement: "Complete 1 bucket list item", BonusPoints: 50},
	{Code: CodeAdventureSeeker, Name: "Adventure Seeker", Description: "Complete 5 bucket list items", Category: CategoryBucketList, Icon: "🗺️", Requirement: "Complete 5 bucket list items", BonusPoints: 150},
	{Code: CodeLifeTracker, Name: "Life Tracker", Description: "Use all features: goals, habits, finance, and bucket list", Category: CategoryOverall, Icon: "🌟", Requirement: "Create item in each category", BonusPoints: 100},
}

// ThresholdRule ties a counter threshold to an achievement code. Rules for
// the same domain are independent: crossing the highest threshold in one
// call fires every rule at or below it, each idempotently.
type ThresholdRule struct {
	Code      string
	Threshold int
}

var (
	GoalRules = []ThresholdRule{
		{CodeGoalGetter, 1},
		{CodeTripleThreat, 3},
		{CodeGoalMaster, 10},
	}

	HabitCompletionRules = []ThresholdRule{
		{CodeFirstSteps, 1},
	}

	HabitStreakRules = []ThresholdRule{
		{CodeWeekWarrior, 7},
		{CodeMonthMaster, 30},
		{CodeHabitLegend, 100},
	}

	BucketRules = []ThresholdRule{
		{CodeDreamStarter, 1},
		{CodeAdventureSeeker, 5},
	}
)

// FirstLakhThreshold is the total-saved amount that unlocks FIRST_LAKH.
const FirstLakhThreshold = 100000
