package calc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics считает выполненные и упавшие шаги.
//
// Метрики:
// * vec3calc_operations_total{op,element} — counter
// * vec3calc_step_errors_total{op} — counter
// * vec3calc_scripts_total{status} — counter
type Metrics struct {
	ops     *prometheus.CounterVec
	errors  *prometheus.CounterVec
	scripts *prometheus.CounterVec
}

// NewMetrics создает метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vec3calc",
			Name:      "operations_total",
			Help:      "Количество выполненных операций над векторами.",
		}, []string{"op", "element"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vec3calc",
			Name:      "step_errors_total",
			Help:      "Количество шагов, завершившихся ошибкой.",
		}, []string{"op"}),
		scripts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vec3calc",
			Name:      "scripts_total",
			Help:      "Количество выполненных скриптов по статусу.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.ops, m.errors, m.scripts)
	return m
}

// unknownOpLabel заменяет в метках имена операций, которых нет в knownOps
const unknownOpLabel = "unknown"

var knownOps = map[string]struct{}{
	"add": {}, "sub": {}, "dot": {}, "eq": {},
	"mul": {}, "div": {}, "magnitude": {}, "norm": {},
	"add_assign": {}, "sub_assign": {}, "mul_assign": {}, "div_assign": {},
}

func opLabel(op string) string {
	if _, ok := knownOps[op]; ok {
		return op
	}
	return unknownOpLabel
}

func (m *Metrics) observeOp(op, element string) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(opLabel(op), element).Inc()
}

func (m *Metrics) observeError(op string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(opLabel(op)).Inc()
}

func (m *Metrics) observeScript(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.scripts.WithLabelValues(status).Inc()
}
