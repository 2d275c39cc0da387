package vec

import "fmt"

// Scalar - обертка над одним значением
type Scalar[T any] struct {
	Val T
}

// NewScalar создает Scalar
func NewScalar[T any](val T) Scalar[T] {
	return Scalar[T]{Val: val}
}

func (s Scalar[T]) String() string {
	return fmt.Sprint(s.Val)
}
