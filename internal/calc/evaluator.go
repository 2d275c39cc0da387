package calc

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/annel0/vec3math/internal/logging"
	"github.com/annel0/vec3math/internal/util"
	"github.com/annel0/vec3math/internal/vec"
)

const (
	ElementInt   = "int"
	ElementFloat = "float"

	defaultIntNoiseScale = 100
)

// Evaluator выполняет скрипты над векторами
type Evaluator struct {
	logger         *logging.Logger
	metrics        *Metrics
	defaultElement string
}

// Option настраивает Evaluator
type Option func(*Evaluator)

// WithLogger задает логгер
func WithLogger(l *logging.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithMetrics задает метрики
func WithMetrics(m *Metrics) Option {
	return func(e *Evaluator) { e.metrics = m }
}

// WithDefaultElement задает тип компонент для скриптов без поля element
func WithDefaultElement(element string) Option {
	return func(e *Evaluator) { e.defaultElement = element }
}

// NewEvaluator создает Evaluator
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger:         logging.GetCalcLogger(),
		defaultElement: ElementFloat,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate выполняет все шаги скрипта по порядку.
// При первой ошибке выполнение прекращается; отчет содержит уже выполненные шаги.
func (e *Evaluator) Evaluate(ctx context.Context, s *Script) (*Report, error) {
	element := strings.ToLower(strings.TrimSpace(s.Element))
	if element == "" {
		element = e.defaultElement
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Script:  s.Name,
		Element: element,
	}
	log := e.logger.With("run", report.RunID)
	log.Debug("Запуск скрипта %q: element=%s, векторов=%d, шагов=%d",
		s.Name, element, len(s.Vectors), len(s.Steps))

	var err error
	switch element {
	case ElementInt:
		err = run[int](ctx, e, log, s, report, true)
	case ElementFloat:
		err = run[float64](ctx, e, log, s, report, false)
	default:
		err = fmt.Errorf("element %q: %w", s.Element, ErrBadElement)
	}

	e.metrics.observeScript(err)
	if err != nil {
		log.Warn("Скрипт %q завершился ошибкой: %v", s.Name, err)
		return report, err
	}

	log.Info("Скрипт %q выполнен: %d шагов", s.Name, len(report.Results))
	return report, nil
}

type runner[T vec.Number] struct {
	e        *Evaluator
	log      *logging.Logger
	element  string
	integral bool
	env      map[string]vec.Vec3[T]
}

func run[T vec.Number](ctx context.Context, e *Evaluator, log *logging.Logger, s *Script, report *Report, integral bool) error {
	r := &runner[T]{
		e:        e,
		log:      log,
		element:  report.Element,
		integral: integral,
		env:      make(map[string]vec.Vec3[T], len(s.Vectors)),
	}

	names := make([]string, 0, len(s.Vectors))
	for name := range s.Vectors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, err := r.build(s.Vectors[name])
		if err != nil {
			return fmt.Errorf("vector %q: %w", name, err)
		}
		r.env[name] = v
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := r.exec(i, st)
		if err != nil {
			r.e.metrics.observeError(st.Op)
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		r.e.metrics.observeOp(st.Op, r.element)
		r.log.Trace("step %d: %s", i+1, res)
		report.Results = append(report.Results, res)
	}

	report.Vectors = make(map[string]string, len(r.env))
	for name, v := range r.env {
		report.Vectors[name] = v.String()
	}
	return nil
}

// minIntFloat = -2^63, точно представимо во float64
const minIntFloat = float64(math.MinInt64)

func (r *runner[T]) component(f float64) (T, error) {
	if !r.integral {
		return T(f), nil
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer: %w", f, ErrBadComponent)
	}
	// Преобразование float -> int вне диапазона не определено
	if f < minIntFloat || f >= -minIntFloat {
		return 0, fmt.Errorf("%v is out of int range: %w", f, ErrBadComponent)
	}
	v := T(f)
	if float64(v) != f {
		return 0, fmt.Errorf("%v is out of int range: %w", f, ErrBadComponent)
	}
	return v, nil
}

func (r *runner[T]) build(spec VectorSpec) (vec.Vec3[T], error) {
	comps := spec.Components
	if spec.Noise != nil {
		scale := spec.Noise.Scale
		if scale == 0 {
			scale = 1
			if r.integral {
				scale = defaultIntNoiseScale
			}
		}
		src := util.NewNoiseSource(spec.Noise.Seed)
		r.log.Debug("Шум: seed=%d, точка=(%v, %v), scale=%v", src.Seed(), spec.Noise.X, spec.Noise.Y, scale)
		if r.integral {
			n := src.Vec3IntAt(spec.Noise.X, spec.Noise.Y, scale)
			comps = []float64{float64(n.X), float64(n.Y), float64(n.Z)}
		} else {
			n := src.Vec3At(spec.Noise.X, spec.Noise.Y).Mul(scale)
			comps = []float64{n.X, n.Y, n.Z}
		}
	}
	if len(comps) != 3 {
		return vec.Vec3[T]{}, ErrBadComponent
	}

	var out [3]T
	for i, c := range comps {
		v, err := r.component(c)
		if err != nil {
			return vec.Vec3[T]{}, err
		}
		out[i] = v
	}
	return vec.New(out[0], out[1], out[2]), nil
}

func (r *runner[T]) lookup(args []string, want int) ([]vec.Vec3[T], error) {
	if len(args) != want {
		return nil, fmt.Errorf("want %d, got %d: %w", want, len(args), ErrBadArity)
	}
	out := make([]vec.Vec3[T], len(args))
	for i, name := range args {
		v, ok := r.env[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownVector)
		}
		out[i] = v
	}
	return out, nil
}

func (r *runner[T]) scalar(st Step) (T, error) {
	if st.Scalar == nil {
		return 0, ErrMissingScalar
	}
	return r.component(*st.Scalar)
}

// exec выполняет один шаг. Паника целочисленного деления на ноль
// из vec превращается в ErrDivideByZero, остальные паники пробрасываются.
func (r *runner[T]) exec(i int, st Step) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			if re, ok := p.(runtime.Error); ok && strings.Contains(re.Error(), "divide by zero") {
				err = ErrDivideByZero
				return
			}
			panic(p)
		}
	}()

	res = Result{Step: i + 1, Op: st.Op, Args: st.Args}

	switch st.Op {
	case "add", "sub", "dot", "eq":
		vs, err := r.lookup(st.Args, 2)
		if err != nil {
			return res, err
		}
		switch st.Op {
		case "add":
			res.Value = vs[0].Add(vs[1])
		case "sub":
			res.Value = vs[0].Sub(vs[1])
		case "dot":
			res.Value = vs[0].Dot(vs[1])
		case "eq":
			res.Value = vs[0].Equals(vs[1])
		}

	case "mul", "div":
		vs, err := r.lookup(st.Args, 1)
		if err != nil {
			return res, err
		}
		s, err := r.scalar(st)
		if err != nil {
			return res, err
		}
		if st.Op == "mul" {
			res.Value = vs[0].Mul(s)
		} else {
			res.Value = vs[0].Div(s)
		}

	case "magnitude", "norm":
		vs, err := r.lookup(st.Args, 1)
		if err != nil {
			return res, err
		}
		f := vec.ToVec3Float(vs[0])
		if st.Op == "magnitude" {
			res.Value = vec.Magnitude(f)
		} else {
			res.Value = vec.L2Norm(f)
		}

	case "add_assign", "sub_assign":
		vs, err := r.lookup(st.Args, 2)
		if err != nil {
			return res, err
		}
		target := vs[0]
		if st.Op == "add_assign" {
			target.AddAssign(vs[1])
		} else {
			target.SubAssign(vs[1])
		}
		r.env[st.Args[0]] = target
		res.Value = target

	case "mul_assign", "div_assign":
		vs, err := r.lookup(st.Args, 1)
		if err != nil {
			return res, err
		}
		s, err := r.scalar(st)
		if err != nil {
			return res, err
		}
		target := vs[0]
		if st.Op == "mul_assign" {
			target.MulAssign(s)
		} else {
			target.DivAssign(s)
		}
		r.env[st.Args[0]] = target
		res.Value = target

	default:
		return res, fmt.Errorf("%q: %w", st.Op, ErrUnknownOp)
	}

	if st.Into != "" {
		v, ok := res.Value.(vec.Vec3[T])
		if !ok {
			return res, fmt.Errorf("into %q: result of %s: %w", st.Into, st.Op, ErrNotVector)
		}
		r.env[st.Into] = v
		res.Into = st.Into
	}
	return res, nil
}
