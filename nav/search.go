package nav

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/pthm-cable/aeronav/geom"
)

// FailReason classifies an unsuccessful search. Callers treat every reason
// as "no path produced"; the distinction exists for diagnostics.
type FailReason uint8

const (
	FailNone FailReason = iota
	FailNoPath
	FailIterationLimit
	FailUninitialized
	FailBusy
	FailOutOfBounds
)

func (r FailReason) String() string {
	switch r {
	case FailNone:
		return "none"
	case FailNoPath:
		return "no_path"
	case FailIterationLimit:
		return "iteration_limit"
	case FailUninitialized:
		return "uninitialized"
	case FailBusy:
		return "busy"
	case FailOutOfBounds:
		return "out_of_bounds"
	}
	return fmt.Sprintf("fail_reason(%d)", uint8(r))
}

// SearchStats reports the outcome and effort of one search.
type SearchStats struct {
	Found      bool
	Reason     FailReason // FailNone on success
	Cost       float64    // total path cost on success
	Iterations int        // open-set pops
	Expanded   int        // nodes closed
}

type nodeState uint8

const (
	stateUnvisited nodeState = iota
	stateOpen
	stateClosed
)

// searchNode is the per-cell working state, reused across searches.
type searchNode struct {
	g       float64
	h       float64
	f       float64
	parent  int32
	heapIdx int32
	state   nodeState
}

// openHeap orders open node indices by f, breaking ties toward the lower
// heuristic so the search deterministically prefers nodes nearer the goal.
type openHeap struct {
	nodes []searchNode
	items []int32
}

func (h openHeap) Len() int { return len(h.items) }

func (h openHeap) Less(i, j int) bool {
	a, b := &h.nodes[h.items[i]], &h.nodes[h.items[j]]
	if a.f != b.f {
		return a.f < b.f
	}
	return a.h < b.h
}

func (h openHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.nodes[h.items[i]].heapIdx = int32(i)
	h.nodes[h.items[j]].heapIdx = int32(j)
}

func (h *openHeap) Push(x any) {
	idx := x.(int32)
	h.nodes[idx].heapIdx = int32(len(h.items))
	h.items = append(h.items, idx)
}

func (h *openHeap) Pop() any {
	old := h.items
	n := len(old)
	idx := old[n-1]
	h.nodes[idx].heapIdx = -1
	h.items = old[:n-1]
	return idx
}

// neighborSteps lists the 8-connected moves, cardinals first.
var neighborSteps = [8]struct {
	dx, dy int
	kind   StepKind
}{
	{1, 0, StepCardinal},
	{-1, 0, StepCardinal},
	{0, 1, StepCardinal},
	{0, -1, StepCardinal},
	{1, 1, StepDiagonal},
	{1, -1, StepDiagonal},
	{-1, 1, StepDiagonal},
	{-1, -1, StepDiagonal},
}

// Engine runs best-first searches over one elevation grid. All working
// memory (the node arena, open set, touched list) is allocated once and
// reused; re-initialization between searches touches only the nodes the
// previous run visited. An Engine is not safe for concurrent searches.
type Engine struct {
	grid          *ElevationGrid
	bounds        Boundary
	nodes         []searchNode
	touched       []int32
	open          openHeap
	path          []geom.GridPos
	maxIterations int
}

// NewEngine allocates working memory sized to the grid. maxIterations caps
// open-set pops as a safety bound; values <= 0 derive the cap from the
// grid's cell count.
func NewEngine(grid *ElevationGrid, maxIterations int) *Engine {
	n := grid.CellCount()
	if maxIterations <= 0 {
		maxIterations = n
	}
	e := &Engine{
		grid:          grid,
		bounds:        NewBoundary(grid.Config()),
		nodes:         make([]searchNode, n),
		touched:       make([]int32, 0, n),
		path:          make([]geom.GridPos, 0, 64),
		maxIterations: maxIterations,
	}
	inf := math.Inf(1)
	for i := range e.nodes {
		e.nodes[i] = searchNode{g: inf, parent: -1, heapIdx: -1}
	}
	e.open = openHeap{nodes: e.nodes, items: make([]int32, 0, n)}
	return e
}

// Search finds the cheapest 8-connected path between two in-range cells.
// Passing an out-of-range cell is a broken invariant (the caller clamps
// first) and panics. The returned slice is engine-owned and valid only
// until the next Search call.
func (e *Engine) Search(start, end geom.GridPos) ([]geom.GridPos, SearchStats) {
	if !e.bounds.Contains(start) || !e.bounds.Contains(end) {
		panic(fmt.Sprintf("nav: search endpoints (%v -> %v) outside grid", start, end))
	}
	e.reset()

	cfg := e.grid.Config()
	w := int32(cfg.Width)
	startIdx := int32(start.Y)*w + int32(start.X)
	endIdx := int32(end.Y)*w + int32(end.X)

	if startIdx == endIdx {
		e.path = append(e.path[:0], start)
		return e.path, SearchStats{Found: true}
	}

	sn := e.touch(startIdx)
	sn.g = 0
	sn.h = Octile(start, end, cfg.CellSize)
	sn.f = sn.h
	sn.state = stateOpen
	heap.Push(&e.open, startIdx)

	var iterations, expanded int
	for e.open.Len() > 0 {
		if iterations >= e.maxIterations {
			return nil, SearchStats{Reason: FailIterationLimit, Iterations: iterations, Expanded: expanded}
		}
		iterations++

		cur := heap.Pop(&e.open).(int32)
		node := &e.nodes[cur]
		if cur == endIdx {
			return e.reconstruct(startIdx, endIdx), SearchStats{
				Found:      true,
				Cost:       node.g,
				Iterations: iterations,
				Expanded:   expanded,
			}
		}
		node.state = stateClosed
		expanded++

		cx := int(cur % w)
		cy := int(cur / w)
		fromElev := e.grid.elevationAtIndex(cur)

		for _, st := range neighborSteps {
			nx := cx + st.dx
			ny := cy + st.dy
			if nx < 0 || nx >= cfg.Width || ny < 0 || ny >= cfg.Height {
				continue
			}
			// A diagonal step may not cut a corner: it is rejected
			// unless at least one flanking cardinal cell is in bounds.
			if st.kind == StepDiagonal {
				flankA := e.bounds.Contains(geom.GridPos{X: nx, Y: cy})
				flankB := e.bounds.Contains(geom.GridPos{X: cx, Y: ny})
				if !flankA && !flankB {
					continue
				}
			}

			nIdx := int32(ny)*w + int32(nx)
			nb := &e.nodes[nIdx]
			if nb.state == stateClosed {
				continue
			}

			tentative := node.g + EdgeCost(fromElev, e.grid.elevationAtIndex(nIdx), st.kind, cfg.CellSize, cfg.CostMultiplier)
			switch nb.state {
			case stateUnvisited:
				nb = e.touch(nIdx)
				nb.g = tentative
				nb.h = Octile(geom.GridPos{X: nx, Y: ny}, end, cfg.CellSize)
				nb.f = tentative + nb.h
				nb.parent = cur
				nb.state = stateOpen
				heap.Push(&e.open, nIdx)
			case stateOpen:
				if tentative < nb.g {
					nb.g = tentative
					nb.f = tentative + nb.h
					nb.parent = cur
					heap.Fix(&e.open, int(nb.heapIdx))
				}
			}
		}
	}

	return nil, SearchStats{Reason: FailNoPath, Iterations: iterations, Expanded: expanded}
}

// reset returns every node touched by the previous run to unvisited.
// Bounded by the touched list, not a full arena sweep.
func (e *Engine) reset() {
	inf := math.Inf(1)
	for _, idx := range e.touched {
		e.nodes[idx] = searchNode{g: inf, parent: -1, heapIdx: -1}
	}
	e.touched = e.touched[:0]
	e.open.items = e.open.items[:0]
}

// touch registers a node with the reset list and returns it.
func (e *Engine) touch(idx int32) *searchNode {
	e.touched = append(e.touched, idx)
	return &e.nodes[idx]
}

// reconstruct walks parent pointers from end back to start, then reverses
// into start->end order.
func (e *Engine) reconstruct(startIdx, endIdx int32) []geom.GridPos {
	w := int32(e.grid.Config().Width)
	e.path = e.path[:0]
	for cur := endIdx; ; cur = e.nodes[cur].parent {
		e.path = append(e.path, geom.GridPos{X: int(cur % w), Y: int(cur / w)})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(e.path)-1; i < j; i, j = i+1, j-1 {
		e.path[i], e.path[j] = e.path[j], e.path[i]
	}
	return e.path
}
