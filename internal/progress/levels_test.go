package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromXP(t *testing.T) {
	assert.Equal(t, 1, LevelFromXP(0).Level)
	assert.Equal(t, 1, LevelFromXP(500).Level)
	assert.Equal(t, 2, LevelFromXP(501).Level)
	assert.Equal(t, 2, LevelFromXP(1500).Level)
	assert.Equal(t, 3, LevelFromXP(1501).Level)
	assert.Equal(t, 4, LevelFromXP(3501).Level)
	assert.Equal(t, 5, LevelFromXP(7001).Level)
	assert.Equal(t, 6, LevelFromXP(12001).Level)
	assert.Equal(t, 7, LevelFromXP(20001).Level)
	assert.Equal(t, 7, LevelFromXP(9999999).Level)
}

func TestLevelFromXPMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 25000; xp += 7 {
		level := LevelFromXP(xp).Level
		assert.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestXPProgress(t *testing.T) {
	// 1000 XP sits in Apprentice (501..1500): 499 of 1000, 50%
	p := XPProgress(1000)
	assert.Equal(t, 499, p.CurrentInLevel)
	assert.Equal(t, 1000, p.RequiredForLevel)
	assert.Equal(t, 50, p.Percentage)

	assert.Equal(t, "Apprentice", LevelFromXP(1000).Title)
}

func TestXPProgressAtTierBoundary(t *testing.T) {
	p := XPProgress(501)
	assert.Equal(t, 0, p.CurrentInLevel)
	assert.Equal(t, 1000, p.RequiredForLevel)
	assert.Equal(t, 0, p.Percentage)
}

func TestXPProgressTerminalTier(t *testing.T) {
	p := XPProgress(25000)
	assert.Equal(t, 25000-20001, p.CurrentInLevel)
	assert.Equal(t, 0, p.RequiredForLevel)
	assert.Equal(t, 100, p.Percentage)
}

func TestXPProgressPercentageMonotonicWithinLevel(t *testing.T) {
	prev := 0
	for xp := 501; xp <= 1500; xp++ {
		p := XPProgress(xp)
		assert.GreaterOrEqual(t, p.Percentage, prev, "percentage dropped at xp=%d", xp)
		prev = p.Percentage
	}
}
