package systems

import (
	"container/heap"
	"math"

	"dungeon-kernel/internal/domain"
)

// Path is the result of an A* search. Steps starts with the start tile and
// ends with the goal; it is empty when Success is false.
type Path struct {
	Success bool
	Steps   []int
	Cost    float64
}

// searchNode is an entry of the open set.
type searchNode struct {
	Idx      int
	G        float64
	F        float64 // G + heuristic
	Seq      int     // insertion order, breaks ties deterministically
	Index    int     // position in the heap, kept current for heap.Fix
	InClosed bool
}

// openSet is a min-heap on F.
type openSet []*searchNode

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *openSet) Push(x any) {
	n := len(*pq)
	item := x.(*searchNode)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *openSet) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// update lowers a queued node's cost in place.
func (pq *openSet) update(n *searchNode, g, f float64) {
	n.G = g
	n.F = f
	heap.Fix(pq, n.Index)
}

// AStar finds the cheapest path over m.Exits from start to goal, guided by
// m.PathingDistance. The goal itself must be enterable (not blocked) unless it
// is the start. Search is capped at one expansion per map tile.
func AStar(m *domain.Map, start, goal int) Path {
	if start < 0 || goal < 0 || start >= m.Len() || goal >= m.Len() {
		return Path{}
	}
	if start == goal {
		return Path{Success: true, Steps: []int{start}}
	}

	nodes := make(map[int]*searchNode)
	parent := make(map[int]int)
	open := &openSet{}
	seq := 0

	first := &searchNode{Idx: start, F: m.PathingDistance(start, goal), Seq: seq}
	nodes[start] = first
	heap.Push(open, first)

	for expansions := 0; open.Len() > 0 && expansions < m.Len(); expansions++ {
		cur := heap.Pop(open).(*searchNode)
		if cur.Idx == goal {
			return Path{Success: true, Steps: walkBack(parent, start, goal), Cost: cur.G}
		}
		cur.InClosed = true

		for _, exit := range m.Exits(cur.Idx) {
			g := cur.G + exit.Cost
			next, known := nodes[exit.Idx]
			if known && (next.InClosed || g >= next.G) {
				continue
			}
			f := g + m.PathingDistance(exit.Idx, goal)
			parent[exit.Idx] = cur.Idx
			if known {
				open.update(next, g, f)
				continue
			}
			seq++
			next = &searchNode{Idx: exit.Idx, G: g, F: f, Seq: seq}
			nodes[exit.Idx] = next
			heap.Push(open, next)
		}
	}
	return Path{Cost: math.Inf(1)}
}

func walkBack(parent map[int]int, start, goal int) []int {
	steps := []int{goal}
	for cur := goal; cur != start; {
		cur = parent[cur]
		steps = append(steps, cur)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
