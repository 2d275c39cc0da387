package calc

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Result - результат одного шага.
// Value хранит vec.Vec3[T], скаляр T, float64 для норм или bool для eq.
type Result struct {
	Step  int
	Op    string
	Args  []string
	Value interface{}
	Into  string
}

func (r Result) String() string {
	s := fmt.Sprintf("%s(%s) = %v", r.Op, strings.Join(r.Args, ", "), r.Value)
	if r.Into != "" {
		s += " -> " + r.Into
	}
	return s
}

// Report - итог выполнения скрипта
type Report struct {
	RunID   string
	Script  string
	Element string
	Results []Result
	// Vectors - итоговые значения всех именованных векторов
	Vectors map[string]string
}

// Write выводит отчет в человекочитаемом виде
func (r *Report) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# %s [%s] run=%s\n", r.Script, r.Element, r.RunID); err != nil {
		return err
	}
	for _, res := range r.Results {
		if _, err := fmt.Fprintf(w, "%3d  %s\n", res.Step, res); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(r.Vectors))
	for name := range r.Vectors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "     %s = %s\n", name, r.Vectors[name]); err != nil {
			return err
		}
	}
	return nil
}
