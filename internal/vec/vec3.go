package vec

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number ограничивает тип компонент вектора числовыми типами.
// Ограничение стоит на самом Vec3: методы в Go не могут добавлять
// собственные ограничения на параметр типа.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vec3 представляет трехмерный вектор с компонентами типа T.
// Значение копируется при передаче; сравнение через == структурное.
type Vec3[T Number] struct {
	X T
	Y T
	Z T
}

// Vec3Int представляет трехмерный вектор с целочисленными координатами
type Vec3Int = Vec3[int]

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float = Vec3[float64]

// New создает вектор из трех компонент
func New[T Number](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

// Zero возвращает нулевой вектор
func Zero[T Number]() Vec3[T] {
	return Vec3[T]{}
}

// Equals проверяет равенство векторов
func (v Vec3[T]) Equals(other Vec3[T]) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3[T]) Add(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// AddAssign прибавляет other к v на месте
func (v *Vec3[T]) AddAssign(other Vec3[T]) {
	*v = v.Add(other)
}

// Sub вычитает вектор
func (v Vec3[T]) Sub(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// SubAssign вычитает other из v на месте
func (v *Vec3[T]) SubAssign(other Vec3[T]) {
	*v = v.Sub(other)
}

// Dot возвращает скалярное произведение
func (v Vec3[T]) Dot(other Vec3[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Mul умножает вектор на скаляр
func (v Vec3[T]) Mul(scalar T) Vec3[T] {
	return Vec3[T]{
		X: v.X * scalar,
		Y: v.Y * scalar,
		Z: v.Z * scalar,
	}
}

// MulAssign умножает v на скаляр на месте
func (v *Vec3[T]) MulAssign(scalar T) {
	*v = v.Mul(scalar)
}

// Div делит вектор на скаляр.
// Деление на ноль не проверяется: для float получаем Inf/NaN,
// для целых типов - штатную панику рантайма.
func (v Vec3[T]) Div(scalar T) Vec3[T] {
	return Vec3[T]{
		X: v.X / scalar,
		Y: v.Y / scalar,
		Z: v.Z / scalar,
	}
}

// DivAssign делит v на скаляр на месте
func (v *Vec3[T]) DivAssign(scalar T) {
	*v = v.Div(scalar)
}

// String возвращает строковое представление вектора
func (v Vec3[T]) String() string {
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}
