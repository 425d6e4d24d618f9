package services

import "github.com/rlocatelli9/daily-diet-api/internal/server/models"

// ComputeMetrics summarises meals, which must already be in chronological
// order. Sequence is the longest run of consecutive in-diet meals.
func ComputeMetrics(meals []*models.Meal) models.Metrics {
	var m models.Metrics
	run := 0

	for _, meal := range meals {
		m.Total++
		if !meal.InDiet {
			m.Out++
			run = 0
			continue
		}
		m.In++
		run++
		if run > m.Sequence {
			m.Sequence = run
		}
	}

	return m
}
