package util

import (
	"github.com/aquilax/go-perlin"

	"github.com/annel0/vec3math/internal/vec"
)

const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав

	// Смещения между осями, чтобы компоненты не совпадали
	noiseAxisOffset = 1000.5
)

// NoiseSource генерирует детерминированные векторы из шума Перлина
type NoiseSource struct {
	seed   int64
	perlin *perlin.Perlin
}

// NewNoiseSource создает генератор с указанным сидом
func NewNoiseSource(seed int64) *NoiseSource {
	return &NoiseSource{
		seed:   seed,
		perlin: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Seed возвращает сид генератора
func (n *NoiseSource) Seed() int64 {
	return n.seed
}

// Noise2D возвращает значение шума Перлина для указанных координат (от 0 до 1)
func (n *NoiseSource) Noise2D(x, y float64) float64 {
	// Получаем значение шума (от -1 до 1) и переводим в диапазон от 0 до 1
	return (n.perlin.Noise2D(x, y) + 1.0) / 2.0
}

// Vec3At возвращает вектор, компоненты которого - шум в трех смещенных точках
func (n *NoiseSource) Vec3At(x, y float64) vec.Vec3Float {
	return vec.New(
		n.Noise2D(x, y),
		n.Noise2D(x+noiseAxisOffset, y),
		n.Noise2D(x, y+noiseAxisOffset),
	)
}

// Vec3IntAt масштабирует Vec3At на scale и отбрасывает дробную часть
func (n *NoiseSource) Vec3IntAt(x, y, scale float64) vec.Vec3Int {
	f := n.Vec3At(x, y).Mul(scale)
	return vec.New(int(f.X), int(f.Y), int(f.Z))
}
