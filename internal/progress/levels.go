package progress

import "math"

type Level struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	MinXP int    `json:"min_xp"`
}

// Levels is the fixed ascending tier table. The last tier has no upper bound.
var Levels = []Level{
	{Level: 1, Title: "Novice", Icon: "🌱", MinXP: 0},
	{Level: 2, Title: "Apprentice", Icon: "🌿", MinXP: 501},
	{Level: 3, Title: "Journeyman", Icon: "🌳", MinXP: 1501},
	{Level: 4, Title: "Expert", Icon: "⚔️", MinXP: 3501},
	{Level: 5, Title: "Master", Icon: "🛡️", MinXP: 7001},
	{Level: 6, Title: "Grandmaster", Icon: "👑", MinXP: 12001},
	{Level: 7, Title: "Legend", Icon: "🏆", MinXP: 20001},
}

// LevelFromXP returns the highest tier whose MinXP <= xp.
func LevelFromXP(xp int) Level {
	for i := len(Levels) - 1; i >= 0; i-- {
		if xp >= Levels[i].MinXP {
			return Levels[i]
		}
	}
	return Levels[0]
}

type XPProgressInfo struct {
	CurrentInLevel   int `json:"current_in_level"`
	RequiredForLevel int `json:"required_for_level"`
	Percentage       int `json:"percentage"`
}

// XPProgress reports how far xp has advanced within its tier. At the terminal
// tier RequiredForLevel is 0 and Percentage is pinned at 100.
func XPProgress(xp int) XPProgressInfo {
	level := LevelFromXP(xp)

	var next *Level
	for i := range Levels {
		if Levels[i].Level == level.Level+1 {
			next = &Levels[i]
			break
		}
	}

	if next == nil {
		return XPProgressInfo{
			CurrentInLevel:   xp - level.MinXP,
			RequiredForLevel: 0,
			Percentage:       100,
		}
	}

	current := xp - level.MinXP
	required := next.MinXP - level.MinXP

	return XPProgressInfo{
		CurrentInLevel:   current,
		RequiredForLevel: required,
		Percentage:       int(math.Round(float64(current) / float64(required) * 100)),
	}
}
