package dungeon

import (
	"dungeon-kernel/internal/domain"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// EnvVariants is how many cosmetic shades Decorate hands out.
const EnvVariants = 4

const decorScale = 0.15

// Decorate fills the Env layer with smooth noise so floors and walls are not
// one flat colour. Walls and floors are decorated independently; nothing in
// the simulation reads Env.
func Decorate(m *domain.Map, seed int64) {
	noise := opensimplex.NewNormalized(seed)
	for idx := range m.Env {
		x, y := m.XY(idx)
		n := noise.Eval2(float64(x)*decorScale, float64(y)*decorScale)
		v := int(n * EnvVariants)
		if v >= EnvVariants {
			v = EnvVariants - 1
		}
		m.Env[idx] = domain.Env(v)
	}
}
