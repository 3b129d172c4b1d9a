package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
type Vec2Float struct {
	X, Y float64
}

// SplatFloat создаёт вектор с одинаковыми компонентами
func SplatFloat(v float64) Vec2Float {
	return Vec2Float{X: v, Y: v}
}

// Floor возвращает клетку, содержащую точку
func (v Vec2Float) Floor() Vec2 {
	return Vec2{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// Ceil округляет обе компоненты вверх
func (v Vec2Float) Ceil() Vec2 {
	return Vec2{X: int(math.Ceil(v.X)), Y: int(math.Ceil(v.Y))}
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// MulVec покомпонентно умножает векторы
func (v Vec2Float) MulVec(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X * other.X, Y: v.Y * other.Y}
}

// DivVec покомпонентно делит векторы
func (v Vec2Float) DivVec(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X / other.X, Y: v.Y / other.Y}
}

// Lerp линейно интерполирует от v к target с коэффициентом t
func (v Vec2Float) Lerp(target Vec2Float, t float64) Vec2Float {
	return v.Add(target.Sub(v).Mul(t))
}

// IsFinite проверяет, что обе компоненты конечны
func (v Vec2Float) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
