package solver

import "github.com/prometheus/client_golang/prometheus"

var (
	compileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ttc_solver_compile_duration_seconds",
			Help: "Time spent compiling and solving a timetable instance.",
		},
	)

	tierCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ttc_solver_weight_tiers",
			Help: "Number of distinct soft-constraint weight tiers in the last compile.",
		},
	)

	unsatCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ttc_solver_unsat_total",
			Help: "Number of compiles whose hard constraints were unsatisfiable.",
		},
	)
)

func init() {
	prometheus.MustRegister(compileDuration)
	prometheus.MustRegister(tierCount)
	prometheus.MustRegister(unsatCount)
}
