package grid

import (
	"math/rand"
	"testing"

	"github.com/annel0/layerworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backings возвращает обе реализации для табличных тестов
func backings(side int) map[string]Store[uint8] {
	return map[string]Store[uint8]{
		"dense":  NewDense[uint8](side),
		"sparse": NewSparse[uint8](side),
	}
}

func TestStore_WrapRangeAndIdempotence(t *testing.T) {
	for name, s := range backings(8) {
		for x := -40; x <= 40; x += 3 {
			for y := -25; y <= 25; y += 7 {
				c := vec.Vec2{X: x, Y: y}
				w := s.Wrap(c)
				assert.True(t, s.InBounds(w), "%s: Wrap(%v)=%v вне сетки", name, c, w)
				assert.Equal(t, w, s.Wrap(w), "%s: Wrap должен быть идемпотентным для %v", name, c)
			}
		}
	}
}

func TestStore_WrapFlooredModulo(t *testing.T) {
	s := NewDense[uint8](4)
	assert.Equal(t, vec.Vec2{X: 3, Y: 0}, s.Wrap(vec.Vec2{X: -1, Y: 4}))
	assert.Equal(t, vec.Vec2{X: 1, Y: 3}, s.Wrap(vec.Vec2{X: 5, Y: -5}))
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, s.Wrap(vec.Vec2{X: -8, Y: 8}))
}

func TestStore_GetAfterSet(t *testing.T) {
	for name, s := range backings(4) {
		v, ok := s.Get(vec.Vec2{X: 2, Y: 3})
		require.True(t, ok, "%s: клетка в пределах сетки всегда читается", name)
		assert.Equal(t, uint8(0), v, "%s: незаписанная клетка равна нулю", name)

		s.Set(vec.Vec2{X: 2, Y: 3}, 7)
		v, ok = s.Get(vec.Vec2{X: 2, Y: 3})
		require.True(t, ok)
		assert.Equal(t, uint8(7), v, "%s", name)

		s.Set(vec.Vec2{X: 2, Y: 3}, 9)
		v, _ = s.Get(vec.Vec2{X: 2, Y: 3})
		assert.Equal(t, uint8(9), v, "%s: запись должна перезаписывать значение", name)
	}
}

func TestStore_OutOfBounds(t *testing.T) {
	for name, s := range backings(4) {
		for _, c := range []vec.Vec2{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 4, Y: 0}, {X: 0, Y: 4}} {
			_, ok := s.Get(c)
			assert.False(t, ok, "%s: %v вне сетки", name, c)

			s.Set(c, 1)
		}
		assert.Equal(t, lenAfterNoop(name), s.Len(), "%s: запись вне сетки игнорируется", name)
	}
}

func lenAfterNoop(name string) int {
	if name == "dense" {
		return 16
	}
	return 0
}

func TestStore_FarOutOfRangeRoundTrip(t *testing.T) {
	for name, s := range backings(8) {
		far := vec.Vec2{X: 8 + 3, Y: -1}
		s.Set(s.Wrap(far), 5)

		v, ok := s.Get(vec.Vec2{X: 3, Y: 7})
		require.True(t, ok)
		assert.Equal(t, uint8(5), v, "%s: (N+3,-1) эквивалентно (3,N-1)", name)
	}
}

func TestStore_FillRowMajor(t *testing.T) {
	for name, s := range backings(3) {
		var order []vec.Vec2
		s.Fill(func(c vec.Vec2) uint8 {
			order = append(order, c)
			return uint8(c.X + c.Y*3)
		})

		require.Len(t, order, 9)
		assert.Equal(t, vec.Vec2{X: 0, Y: 0}, order[0])
		assert.Equal(t, vec.Vec2{X: 1, Y: 0}, order[1], "%s: обход должен быть построчным", name)
		assert.Equal(t, vec.Vec2{X: 0, Y: 1}, order[3])

		v, _ := s.Get(vec.Vec2{X: 2, Y: 2})
		assert.Equal(t, uint8(8), v, "%s", name)
	}
}

func TestSparse_SortedUniqueInvariant(t *testing.T) {
	s := NewSparse[uint8](16)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		c := vec.Vec2{X: rng.Intn(16), Y: rng.Intn(16)}
		s.Set(c, uint8(rng.Intn(4)))

		for j := 1; j < len(s.entries); j++ {
			prev, cur := s.key(s.entries[j-1].pos), s.key(s.entries[j].pos)
			require.Less(t, prev, cur, "записи должны быть строго упорядочены по ключу")
		}
	}
}

func TestSparse_ZeroRemovesEntry(t *testing.T) {
	s := NewSparse[uint8](4)
	s.Set(vec.Vec2{X: 1, Y: 1}, 3)
	assert.Equal(t, 1, s.Len())

	s.Set(vec.Vec2{X: 1, Y: 1}, 0)
	assert.Equal(t, 0, s.Len(), "нулевое значение не хранится")

	v, ok := s.Get(vec.Vec2{X: 1, Y: 1})
	assert.True(t, ok)
	assert.Equal(t, uint8(0), v)
}

// Обе реализации прогоняются по одному журналу операций и должны отвечать одинаково
func TestStore_DenseSparseDifferential(t *testing.T) {
	const side = 8
	dense := NewDense[uint8](side)
	sparse := NewSparse[uint8](side)
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 3000; step++ {
		c := vec.Vec2{X: rng.Intn(3*side) - side, Y: rng.Intn(3*side) - side}

		switch rng.Intn(4) {
		case 0:
			v := uint8(rng.Intn(5))
			dense.Set(c, v)
			sparse.Set(c, v)
		case 1:
			w := dense.Wrap(c)
			require.Equal(t, w, sparse.Wrap(c), "шаг %d: Wrap(%v)", step, c)
			v := uint8(rng.Intn(5))
			dense.Set(w, v)
			sparse.Set(w, v)
		case 2:
			dv, dok := dense.Get(c)
			sv, sok := sparse.Get(c)
			require.Equal(t, dok, sok, "шаг %d: наличие %v", step, c)
			require.Equal(t, dv, sv, "шаг %d: значение %v", step, c)
		case 3:
			if rng.Intn(100) == 0 {
				seed := uint8(rng.Intn(3))
				f := func(p vec.Vec2) uint8 { return uint8((p.X*p.Y + int(seed)) % 3) }
				dense.Fill(f)
				sparse.Fill(f)
			}
		}

		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				p := vec.Vec2{X: x, Y: y}
				dv, _ := dense.Get(p)
				sv, _ := sparse.Get(p)
				require.Equal(t, dv, sv, "шаг %d: расхождение в %v", step, p)
			}
		}
	}
}

// Benchmarks

func BenchmarkDense_Get(b *testing.B) {
	s := NewDense[uint8](128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(vec.Vec2{X: i % 128, Y: (i / 128) % 128})
	}
}

func BenchmarkSparse_Set(b *testing.B) {
	s := NewSparse[uint8](128)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(vec.Vec2{X: (i * 31) % 128, Y: (i * 17) % 128}, uint8(i%3+1))
	}
}

func BenchmarkSparse_Get(b *testing.B) {
	s := NewSparse[uint8](128)
	for i := 0; i < 4096; i++ {
		s.Set(vec.Vec2{X: (i * 31) % 128, Y: (i * 17) % 128}, 1)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Get(vec.Vec2{X: i % 128, Y: (i / 128) % 128})
	}
}
