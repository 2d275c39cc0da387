package calc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script описывает набор векторов и последовательность операций над ними.
//
// Пример:
//
//	name: demo
//	element: int
//	vectors:
//	  a: [1, 1, 1]
//	  b: [1, 2, 3]
//	  n: {noise: {seed: 42, x: 0.5, y: 1.5}}
//	steps:
//	  - {op: add, args: [a, b], into: c}
//	  - {op: dot, args: [a, b]}
//	  - {op: div_assign, args: [c], scalar: 2}
type Script struct {
	Name    string                `yaml:"name"`
	Element string                `yaml:"element"`
	Vectors map[string]VectorSpec `yaml:"vectors"`
	Steps   []Step                `yaml:"steps"`
}

// VectorSpec задает вектор либо списком из трех компонент, либо источником шума
type VectorSpec struct {
	Components []float64
	Noise      *NoiseSpec
}

// NoiseSpec задает вектор, сгенерированный шумом Перлина в точке (X, Y).
// Scale умножает компоненты; для целых векторов по умолчанию 100.
type NoiseSpec struct {
	Seed  int64   `yaml:"seed"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Scale float64 `yaml:"scale"`
}

// Step - одна операция скрипта
type Step struct {
	Op     string   `yaml:"op"`
	Args   []string `yaml:"args"`
	Scalar *float64 `yaml:"scalar,omitempty"`
	Into   string   `yaml:"into,omitempty"`
}

// UnmarshalYAML принимает как [x, y, z], так и {noise: {...}}
func (v *VectorSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var comps []float64
		if err := node.Decode(&comps); err != nil {
			return err
		}
		if len(comps) != 3 {
			return fmt.Errorf("line %d: ожидалось 3 компоненты, получено %d: %w", node.Line, len(comps), ErrBadComponent)
		}
		v.Components = comps
		return nil
	case yaml.MappingNode:
		var raw struct {
			Noise *NoiseSpec `yaml:"noise"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Noise == nil {
			return fmt.Errorf("line %d: ожидался ключ noise: %w", node.Line, ErrBadComponent)
		}
		v.Noise = raw.Noise
		return nil
	}
	return fmt.Errorf("line %d: неподдерживаемое описание вектора: %w", node.Line, ErrBadComponent)
}

// ParseScript разбирает YAML скрипт
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript читает и разбирает YAML скрипт из файла
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}
