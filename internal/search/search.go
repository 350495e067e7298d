package search

// Phase strides. Generation floods only need "seen this run"; path and
// visibility searches also distinguish frontier cells from settled ones.
const (
	StrideFlood  = 1
	StrideSettle = 2
)

// Searcher holds per-cell scratch state for phased flood fills.
//
// A cell is unvisited in the current search iff its stored phase is below
// the current phase. Advancing the phase replaces clearing the scratch
// arrays between searches.
type Searcher struct {
	phase     []int
	distance  []int
	heuristic []int
	pathFrom  []int

	frontier *Queue
	current  int
}

// NewSearcher allocates scratch state for a grid of cellCount cells.
func NewSearcher(cellCount int) *Searcher {
	s := &Searcher{
		phase:     make([]int, cellCount),
		distance:  make([]int, cellCount),
		heuristic: make([]int, cellCount),
		pathFrom:  make([]int, cellCount),
		frontier:  NewQueue(cellCount),
	}
	for i := range s.pathFrom {
		s.pathFrom[i] = none
	}
	return s
}

// Size returns the number of cells the searcher was built for.
func (s *Searcher) Size() int { return len(s.phase) }

// Begin starts a new search, advancing the phase by stride and emptying the
// frontier. It returns the new phase.
func (s *Searcher) Begin(stride int) int {
	s.current += stride
	s.frontier.Clear()
	return s.current
}

// Phase returns the current search phase.
func (s *Searcher) Phase() int { return s.current }

// CellPhase returns the phase stored for a cell.
func (s *Searcher) CellPhase(index int) int { return s.phase[index] }

// Unvisited reports whether the cell has not been reached in this search.
func (s *Searcher) Unvisited(index int) bool { return s.phase[index] < s.current }

// Settled reports whether the cell was already dequeued in this search.
func (s *Searcher) Settled(index int) bool { return s.phase[index] > s.current }

// Visit marks a cell as reached in this search and pushes it onto the frontier.
func (s *Searcher) Visit(index, distance, heuristic, from int) {
	s.phase[index] = s.current
	s.distance[index] = distance
	s.heuristic[index] = heuristic
	s.pathFrom[index] = from
	s.frontier.Enqueue(index, distance+heuristic)
}

// Improve lowers the distance of a cell already on the frontier.
func (s *Searcher) Improve(index, distance, from int) {
	old := s.priority(index)
	s.distance[index] = distance
	s.pathFrom[index] = from
	s.frontier.Change(index, old, s.priority(index))
}

// Next pops the lowest-priority frontier cell.
func (s *Searcher) Next() (int, bool) {
	return s.frontier.Dequeue()
}

// Settle marks a dequeued cell as final for this search. Only meaningful
// with StrideSettle; with StrideFlood it would collide with the next phase.
func (s *Searcher) Settle(index int) {
	s.phase[index] = s.current + 1
}

// Pending returns the number of frontier cells.
func (s *Searcher) Pending() int { return s.frontier.Len() }

// Distance returns the best known distance to a cell in this search.
func (s *Searcher) Distance(index int) int { return s.distance[index] }

// Heuristic returns the heuristic stored for a cell.
func (s *Searcher) Heuristic(index int) int { return s.heuristic[index] }

// PathFrom returns the predecessor of a cell, or -1 for a search root.
func (s *Searcher) PathFrom(index int) int { return s.pathFrom[index] }

func (s *Searcher) priority(index int) int {
	return s.distance[index] + s.heuristic[index]
}

// Reset zeroes every stored phase and the phase counter.
func (s *Searcher) Reset() {
	for i := range s.phase {
		s.phase[i] = 0
	}
	s.current = 0
	s.frontier.Clear()
}
