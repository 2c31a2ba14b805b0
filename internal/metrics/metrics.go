package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	xpAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP granted, labeled by source",
		},
		[]string{"source"},
	)
	achievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total achievements unlocked, labeled by category",
		},
		[]string{"category"},
	)
)

// Register registers the engine metrics. Call this from main.go
func Register() {
	prometheus.MustRegister(xpAwarded)
	prometheus.MustRegister(achievementsUnlocked)
}

func AddXPAwarded(source string, points int) {
	if points > 0 {
		xpAwarded.WithLabelValues(source).Add(float64(points))
	}
}

func IncAchievementUnlocked(category string) {
	achievementsUnlocked.WithLabelValues(category).Inc()
}
