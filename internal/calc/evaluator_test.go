package calc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/vec3math/internal/logging"
	"github.com/annel0/vec3math/internal/util"
	"github.com/annel0/vec3math/internal/vec"
)

const demoScript = `
name: demo
element: int
vectors:
  a: [1, 1, 1]
  b: [1, 2, 3]
  two: [2, 2, 2]
steps:
  - {op: add, args: [a, a], into: c}
  - {op: dot, args: [a, b]}
  - {op: div, args: [two], scalar: 2}
  - {op: eq, args: [c, two]}
  - {op: sub_assign, args: [c, a]}
  - {op: mul_assign, args: [b], scalar: 3}
  - {op: magnitude, args: [two]}
`

func newTestEvaluator(t *testing.T) (*Evaluator, *Metrics) {
	t.Helper()
	logger, err := logging.NewLoggerWithOptions("calc", logging.Options{Level: logging.ERROR, Out: io.Discard})
	require.NoError(t, err)

	m := NewMetrics(prometheus.NewRegistry())
	return NewEvaluator(WithLogger(logger), WithMetrics(m)), m
}

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := ParseScript([]byte(src))
	require.NoError(t, err)
	return s
}

func TestEvaluate_IntScript(t *testing.T) {
	e, m := newTestEvaluator(t)

	report, err := e.Evaluate(context.Background(), mustParse(t, demoScript))
	require.NoError(t, err)
	require.Len(t, report.Results, 7)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "int", report.Element)
	assert.Equal(t, vec.New(2, 2, 2), report.Results[0].Value)
	assert.Equal(t, "c", report.Results[0].Into)
	assert.Equal(t, 6, report.Results[1].Value)
	assert.Equal(t, vec.New(1, 1, 1), report.Results[2].Value)
	assert.Equal(t, true, report.Results[3].Value)
	assert.Equal(t, vec.New(1, 1, 1), report.Results[4].Value)
	assert.Equal(t, vec.New(3, 6, 9), report.Results[5].Value)
	assert.InDelta(t, 3.4641016151377544, report.Results[6].Value, 1e-15)

	assert.Equal(t, "(1, 1, 1)", report.Vectors["c"])
	assert.Equal(t, "(3, 6, 9)", report.Vectors["b"])
	assert.Equal(t, "(1, 1, 1)", report.Vectors["a"], "Исходный вектор не должен меняться")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("add", "int")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scripts.WithLabelValues("ok")))
}

func TestEvaluate_FloatDivideByZero(t *testing.T) {
	e, _ := newTestEvaluator(t)
	s := mustParse(t, `
element: float
vectors:
  a: [1, -1, 0]
steps:
  - {op: div, args: [a], scalar: 0}
`)

	report, err := e.Evaluate(context.Background(), s)
	require.NoError(t, err, "Для float деление на ноль не является ошибкой")

	v := report.Results[0].Value.(vec.Vec3Float)
	assert.True(t, math.IsInf(v.X, 1))
	assert.True(t, math.IsInf(v.Y, -1))
	assert.True(t, math.IsNaN(v.Z))
}

func TestEvaluate_IntDivideByZero(t *testing.T) {
	e, m := newTestEvaluator(t)
	s := mustParse(t, `
element: int
vectors:
  a: [1, 2, 3]
steps:
  - {op: add, args: [a, a]}
  - {op: div_assign, args: [a], scalar: 0}
`)

	report, err := e.Evaluate(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDivideByZero))
	assert.Len(t, report.Results, 1, "Отчет содержит шаги до ошибки")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("div_assign")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scripts.WithLabelValues("error")))
}

func TestEvaluate_Errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown op", "vectors: {a: [1, 2, 3]}\nsteps: [{op: cross, args: [a, a]}]", ErrUnknownOp},
		{"unknown vector", "vectors: {a: [1, 2, 3]}\nsteps: [{op: add, args: [a, b]}]", ErrUnknownVector},
		{"arity", "vectors: {a: [1, 2, 3]}\nsteps: [{op: dot, args: [a]}]", ErrBadArity},
		{"missing scalar", "vectors: {a: [1, 2, 3]}\nsteps: [{op: mul, args: [a]}]", ErrMissingScalar},
		{"into scalar", "vectors: {a: [1, 2, 3]}\nsteps: [{op: dot, args: [a, a], into: d}]", ErrNotVector},
		{"into bool", "vectors: {a: [1, 2, 3]}\nsteps: [{op: eq, args: [a, a], into: d}]", ErrNotVector},
		{"into magnitude", "vectors: {a: [1, 2, 3]}\nsteps: [{op: magnitude, args: [a], into: d}]", ErrNotVector},
		{"bad element", "element: complex\nsteps: []", ErrBadElement},
		{"fractional int", "element: int\nvectors: {a: [1.5, 2, 3]}", ErrBadComponent},
		{"fractional int scalar", "element: int\nvectors: {a: [1, 2, 3]}\nsteps: [{op: mul, args: [a], scalar: 0.5}]", ErrBadComponent},
		{"int overflow", "element: int\nvectors: {a: [1e300, 0, 0]}", ErrBadComponent},
		{"int overflow 2^63", "element: int\nvectors: {a: [0, 9223372036854775808, 0]}", ErrBadComponent},
		{"int negative overflow", "element: int\nvectors: {a: [0, 0, -1e19]}", ErrBadComponent},
		{"int overflow scalar", "element: int\nvectors: {a: [1, 2, 3]}\nsteps: [{op: mul, args: [a], scalar: 1e20}]", ErrBadComponent},
		{"int infinity", "element: int\nvectors: {a: [.inf, 0, 0]}", ErrBadComponent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEvaluator(t)
			_, err := e.Evaluate(context.Background(), mustParse(t, tc.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "получено: %v", err)
		})
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	e, _ := newTestEvaluator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Evaluate(ctx, mustParse(t, demoScript))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate_NoiseVectors(t *testing.T) {
	e, _ := newTestEvaluator(t)
	s := mustParse(t, `
element: float
vectors:
  n: {noise: {seed: 42, x: 0.5, y: 1.5}}
steps:
  - {op: mul, args: [n], scalar: 1}
`)

	report, err := e.Evaluate(context.Background(), s)
	require.NoError(t, err)

	expected := util.NewNoiseSource(42).Vec3At(0.5, 1.5)
	assert.Equal(t, expected, report.Results[0].Value)

	si := mustParse(t, `
element: int
vectors:
  n: {noise: {seed: 42, x: 0.5, y: 1.5}}
steps:
  - {op: mul, args: [n], scalar: 1}
`)
	report, err = e.Evaluate(context.Background(), si)
	require.NoError(t, err)
	assert.Equal(t, util.NewNoiseSource(42).Vec3IntAt(0.5, 1.5, 100), report.Results[0].Value)
}

func TestEvaluate_DefaultElement(t *testing.T) {
	logger, err := logging.NewLoggerWithOptions("calc", logging.Options{Level: logging.ERROR, Out: io.Discard})
	require.NoError(t, err)
	e := NewEvaluator(WithLogger(logger), WithDefaultElement(ElementInt))

	report, err := e.Evaluate(context.Background(), mustParse(t, "vectors: {a: [4, 4, 4]}\nsteps: [{op: div, args: [a], scalar: 3}]"))
	require.NoError(t, err)
	assert.Equal(t, "int", report.Element)
	assert.Equal(t, vec.New(1, 1, 1), report.Results[0].Value)
}

func TestParseScript_BadVectors(t *testing.T) {
	_, err := ParseScript([]byte("vectors: {a: [1, 2]}"))
	assert.ErrorIs(t, err, ErrBadComponent)

	_, err = ParseScript([]byte("vectors: {a: {seed: 1}}"))
	assert.ErrorIs(t, err, ErrBadComponent)

	_, err = ParseScript([]byte("vectors: {a: 5}"))
	assert.ErrorIs(t, err, ErrBadComponent)
}

func TestLoadScript_AndReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("element: int\nvectors: {a: [1, 1, 1]}\nsteps: [{op: add, args: [a, a], into: b}]"), 0644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name, "Имя по умолчанию - путь к файлу")

	e, _ := newTestEvaluator(t)
	report, err := e.Evaluate(context.Background(), s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))
	assert.Contains(t, buf.String(), "add(a, a) = (2, 2, 2) -> b")
	assert.Contains(t, buf.String(), "b = (2, 2, 2)")
}

func TestEvaluate_IntRangeBoundary(t *testing.T) {
	e, _ := newTestEvaluator(t)
	s := mustParse(t, `
element: int
vectors:
  a: [-9223372036854775808, 4611686018427387904, 0]
steps:
  - {op: mul, args: [a], scalar: 1}
`)

	report, err := e.Evaluate(context.Background(), s)
	require.NoError(t, err, "-2^63 и 2^62 помещаются в int")
	assert.Equal(t, vec.New(math.MinInt64, 1<<62, 0), report.Results[0].Value)
}

func TestEvaluate_UnknownOpMetricLabel(t *testing.T) {
	e, m := newTestEvaluator(t)

	for _, op := range []string{"cross", "rm -rf", "x1"} {
		s := &Script{
			Vectors: map[string]VectorSpec{"a": {Components: []float64{1, 2, 3}}},
			Steps:   []Step{{Op: op, Args: []string{"a"}}},
		}
		_, err := e.Evaluate(context.Background(), s)
		require.ErrorIs(t, err, ErrUnknownOp)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.errors.WithLabelValues("unknown")),
		"Неизвестные операции должны попадать в одну метку")
	assert.Equal(t, 1, testutil.CollectAndCount(m.errors), "Не должно появляться новых меток")
}

func TestEvaluate_VectorErrorsDeterministic(t *testing.T) {
	src := `
element: int
vectors:
  zeta: [0.5, 0, 0]
  beta: [1, 2.5, 0]
  alpha: [1.5, 0, 0]
  omega: [7, 7, 7.5]
`
	for i := 0; i < 20; i++ {
		e, _ := newTestEvaluator(t)
		_, err := e.Evaluate(context.Background(), mustParse(t, src))
		require.ErrorIs(t, err, ErrBadComponent)
		assert.Contains(t, err.Error(), `vector "alpha"`, "Векторы проверяются в порядке имен")
	}
}
