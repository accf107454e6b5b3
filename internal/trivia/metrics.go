package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quizSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "quiz_selections_total",
		Help:      "Quiz question selections by outcome.",
	}, []string{"result"})

	categoryCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trivia",
		Name:      "category_cache_lookups_total",
		Help:      "Category cache lookups by outcome.",
	}, []string{"result"})
)
