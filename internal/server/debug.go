package server

import (
	"context"
	"net/http"
	"time"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
)

const inspectTimeout = 2 * time.Second

// DebugHandler предоставляет доступ к полному состоянию игры, без тумана войны.
type DebugHandler struct {
	Session *Session
}

func NewDebugHandler(s *Session) *DebugHandler {
	return &DebugHandler{Session: s}
}

func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/entities", enableCORS(h.handleDumpEntities))
	mux.HandleFunc("/debug/map", enableCORS(h.handleDumpMap))
}

// EntityDump - все компоненты сущности, интересные при отладке.
type EntityDump struct {
	ID         types.EntityID      `json:"id"`
	Kind       string              `json:"kind"`
	Name       string              `json:"name,omitempty"`
	Pos        *domain.Position    `json:"pos,omitempty"`
	Stats      *domain.CombatStats `json:"stats,omitempty"`
	Owner      *types.EntityID     `json:"owner,omitempty"`
	Confusion  int                 `json:"confusion,omitempty"`
	Components []string            `json:"components"`
}

// /debug/entities - дамп всех живых сущностей в порядке слотов
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	var dump []EntityDump
	err := h.inspect(r.Context(), func(g *engine.Game) {
		dump = dumpEntities(g.Ctx.World)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if dump == nil {
		dump = []EntityDump{}
	}
	writeJSON(w, http.StatusOK, dump)
}

type MapDump struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Turn   uint64   `json:"turn"`
	State  string   `json:"state"`
	Rows   []string `json:"rows"`
}

// /debug/map - вся карта текстом, сущности поверх тайлов
func (h *DebugHandler) handleDumpMap(w http.ResponseWriter, r *http.Request) {
	var dump MapDump
	err := h.inspect(r.Context(), func(g *engine.Game) {
		dump = MapDump{
			Width:  g.Ctx.Map.Width,
			Height: g.Ctx.Map.Height,
			Turn:   g.Turn,
			State:  g.State.String(),
			Rows:   RenderASCII(g.Ctx.World, g.Ctx.Map),
		}
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, dump)
}

func (h *DebugHandler) inspect(ctx context.Context, fn func(g *engine.Game)) error {
	ctx, cancel := context.WithTimeout(ctx, inspectTimeout)
	defer cancel()
	return h.Session.Inspect(ctx, fn)
}

func dumpEntities(w *domain.World) []EntityDump {
	var out []EntityDump
	// У каждой живой сущности есть Name, Position или InBackpack, так что
	// объединение этих хранилищ покрывает всех.
	seen := make(map[types.EntityID]bool)
	for _, ids := range [][]types.EntityID{w.Names.IDs(), w.Positions.IDs(), w.InBackpack.IDs()} {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, dumpEntity(w, id))
		}
	}
	return out
}

func dumpEntity(w *domain.World, id types.EntityID) EntityDump {
	d := EntityDump{
		ID:   id,
		Kind: w.Entities.Kind(id).String(),
		Name: w.NameOf(id, ""),
	}
	if p, ok := w.Positions.Get(id); ok {
		d.Pos = &p
	}
	if s, ok := w.Stats.Get(id); ok {
		d.Stats = &s
	}
	if b, ok := w.InBackpack.Get(id); ok {
		d.Owner = &b.Owner
	}
	if c, ok := w.Confusion.Get(id); ok {
		d.Confusion = c.Turns
	}
	d.Components = w.ComponentNames(id)
	return d
}

// RenderASCII рисует карту по строке на ряд: '#' стена, '.' пол, поверх
// символ сущности с наименьшим порядком отрисовки на тайле.
func RenderASCII(w *domain.World, m *domain.Map) []string {
	grid := make([][]byte, m.Height)
	for y := range grid {
		grid[y] = make([]byte, m.Width)
		for x := range grid[y] {
			if m.TileAt(x, y) == domain.TileFloor {
				grid[y][x] = '.'
			} else {
				grid[y][x] = '#'
			}
		}
	}

	order := make(map[int]int)
	w.Renderables.Each(func(id types.EntityID, r *domain.Renderable) {
		p, ok := w.Positions.Get(id)
		if !ok || !m.InBounds(p.X, p.Y) {
			return
		}
		idx := m.IndexOf(p)
		if prev, drawn := order[idx]; drawn && prev <= r.Order {
			return
		}
		order[idx] = r.Order
		grid[p.Y][p.X] = r.Glyph.Char()
	})

	rows := make([]string, m.Height)
	for y, row := range grid {
		rows[y] = string(row)
	}
	return rows
}
