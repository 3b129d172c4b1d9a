package vec

// Vec2 представляет целочисленные 2D координаты клетки сетки
type Vec2 struct {
	X, Y int
}

// QuadWinding задаёт порядок обхода углов квадрата: (0,0),(0,1),(1,1),(1,0).
// Этот же порядок используется при чтении блока 2x2 на следующем слое.
var QuadWinding = [4]Vec2{
	{X: 0, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 1},
	{X: 1, Y: 0},
}

// Splat создаёт вектор с одинаковыми компонентами
func Splat(v int) Vec2 {
	return Vec2{X: v, Y: v}
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale умножает обе компоненты на скаляр
func (v Vec2) Scale(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Div делит обе компоненты на скаляр (целочисленное деление с усечением к нулю)
func (v Vec2) Div(k int) Vec2 {
	return Vec2{X: v.X / k, Y: v.Y / k}
}

// Wrap приводит координаты в диапазон [0, size) по модулю с округлением вниз.
// Результат всегда неотрицателен, даже для отрицательных входных координат.
func (v Vec2) Wrap(size int) Vec2 {
	return Vec2{X: FloorMod(v.X, size), Y: FloorMod(v.Y, size)}
}

// InRange проверяет, что обе компоненты лежат в [0, size)
func (v Vec2) InRange(size int) bool {
	return v.X >= 0 && v.X < size && v.Y >= 0 && v.Y < size
}

// ToFloat преобразует в вектор с плавающей точкой
func (v Vec2) ToFloat() Vec2Float {
	return Vec2Float{X: float64(v.X), Y: float64(v.Y)}
}

// FloorMod возвращает ((a % n) + n) % n
func FloorMod(a, n int) int {
	return (a%n + n) % n
}
