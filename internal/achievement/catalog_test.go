package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Catalog {
		assert.False(t, seen[a.Code], "duplicate code %s", a.Code)
		seen[a.Code] = true
	}
}

func TestCatalogEntriesAreWellFormed(t *testing.T) {
	for _, a := range Catalog {
		assert.NotEmpty(t, a.Code)
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.Description)
		assert.NotEmpty(t, a.Icon)
		assert.Greater(t, a.BonusPoints, 0, "achievement %s has no bonus", a.Code)
	}
}

func TestEveryRuleCodeIsSeeded(t *testing.T) {
	inCatalog := make(map[string]bool)
	for _, a := range Catalog {
		inCatalog[a.Code] = true
	}

	var rules []ThresholdRule
	rules = append(rules, GoalRules...)
	rules = append(rules, HabitCompletionRules...)
	rules = append(rules, HabitStreakRules...)
	rules = append(rules, BucketRules...)

	for _, r := range rules {
		assert.True(t, inCatalog[r.Code], "rule code %s missing from catalog", r.Code)
	}

	for _, code := range []string{CodeSaversStart, CodeFirstLakh, CodeBudgetBoss, CodeLifeTracker} {
		assert.True(t, inCatalog[code], "code %s missing from catalog", code)
	}
}

func TestThresholdRulesAscend(t *testing.T) {
	for _, rules := range [][]ThresholdRule{GoalRules, HabitStreakRules, BucketRules} {
		for i := 1; i < len(rules); i++ {
			assert.Greater(t, rules[i].Threshold, rules[i-1].Threshold)
		}
	}
}
