package vec

import "math"

// L2Norm вычисляет евклидову норму вектора.
// Возведение в квадрат без масштабирования может терять точность
// на очень больших и очень малых компонентах.
func L2Norm(v Vec3Float) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Magnitude возвращает длину вектора
func Magnitude(v Vec3Float) float64 {
	return L2Norm(v)
}

// ToVec3Float преобразует вектор любого числового типа в Vec3Float
func ToVec3Float[T Number](v Vec3[T]) Vec3Float {
	return Vec3Float{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
