package hexgrid

import "testing"

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want int
	}{
		{"same cell", Coord{2, 2}, Coord{2, 2}, 0},
		{"east neighbor", Coord{2, 2}, Coord{3, 2}, 1},
		{"diagonal even to odd", Coord{2, 2}, Coord{2, 3}, 1},
		{"diagonal odd to even", Coord{1, 1}, Coord{2, 2}, 1},
		{"straight column", Coord{2, 0}, Coord{2, 4}, 4},
		{"corner to corner", Coord{0, 0}, Coord{4, 7}, 8},
		{"symmetry check", Coord{4, 7}, Coord{0, 0}, 8},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Distance(%v, %v) = %d, want %d", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNeighborsParity(t *testing.T) {
	// Even and odd rows must produce different neighbor sets.
	even := Neighbors(Coord{2, 2}, nil)
	odd := Neighbors(Coord{2, 3}, nil)

	if len(even) != 6 || len(odd) != 6 {
		t.Fatalf("expected 6 neighbors, got %d and %d", len(even), len(odd))
	}

	// Every neighbor must be exactly distance 1 away.
	for _, n := range even {
		if Distance(Coord{2, 2}, n) != 1 {
			t.Errorf("even-row neighbor %v is not adjacent", n)
		}
	}
	for _, n := range odd {
		if Distance(Coord{2, 3}, n) != 1 {
			t.Errorf("odd-row neighbor %v is not adjacent", n)
		}
	}

	// The diagonal columns differ between parities: an even row reaches
	// x-1 on the row above, an odd row reaches x+1.
	hasEven := false
	for _, n := range even {
		if n == (Coord{1, 1}) {
			hasEven = true
		}
	}
	if !hasEven {
		t.Error("even row should reach NW at x-1")
	}
	hasOdd := false
	for _, n := range odd {
		if n == (Coord{3, 2}) {
			hasOdd = true
		}
	}
	if !hasOdd {
		t.Error("odd row should reach NE at x+1")
	}
}

func TestNeighborsReuseBuffer(t *testing.T) {
	buf := make([]Coord, 0, 6)
	a := Neighbors(Coord{0, 0}, buf)
	b := Neighbors(Coord{0, 0}, buf[:0])
	if len(a) != len(b) {
		t.Fatalf("buffer reuse changed result length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("neighbor %d differs after buffer reuse: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		c    Coord
		want bool
	}{
		{Coord{0, 0}, true},
		{Coord{4, 7}, true},
		{Coord{5, 0}, false},
		{Coord{0, 8}, false},
		{Coord{-1, 3}, false},
		{Coord{3, -1}, false},
	}
	for _, tt := range tests {
		if got := InBounds(tt.c, 5, 8); got != tt.want {
			t.Errorf("InBounds(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestFindPathStraightLine(t *testing.T) {
	unblocked := func(Coord) bool { return false }

	path, ok := FindPath(Coord{2, 0}, Coord{2, 7}, 1, 5, 8, unblocked)
	if !ok {
		t.Fatal("expected a path on an empty field")
	}
	// Target at distance 7, reach 1: the path ends one tile short.
	end := path[len(path)-1]
	if Distance(end, Coord{2, 7}) != 1 {
		t.Errorf("path should end within reach 1 of target, ends at %v", end)
	}
	if len(path) != 6 {
		t.Errorf("expected 6 steps, got %d (%v)", len(path), path)
	}
}

func TestFindPathAlreadyInReach(t *testing.T) {
	path, ok := FindPath(Coord{2, 2}, Coord{2, 3}, 1, 5, 8, func(Coord) bool { return false })
	if !ok {
		t.Fatal("expected success when already in reach")
	}
	if path != nil {
		t.Errorf("expected empty path when already in reach, got %v", path)
	}
}

func TestFindPathAroundObstacles(t *testing.T) {
	// Wall across row 3 with a gap at x=4.
	blocked := func(c Coord) bool { return c.Y == 3 && c.X != 4 }

	path, ok := FindPath(Coord{2, 0}, Coord{2, 6}, 1, 5, 8, blocked)
	if !ok {
		t.Fatal("expected a path through the gap")
	}
	through := false
	for _, c := range path {
		if blocked(c) {
			t.Errorf("path passes through blocked cell %v", c)
		}
		if c == (Coord{4, 3}) {
			through = true
		}
	}
	if !through {
		t.Error("path should squeeze through the gap at (4,3)")
	}
}

func TestFindPathUnreachable(t *testing.T) {
	// Full wall across row 3: lower half is sealed off.
	blocked := func(c Coord) bool { return c.Y == 3 }

	if _, ok := FindPath(Coord{2, 0}, Coord{2, 6}, 1, 5, 8, blocked); ok {
		t.Error("expected no path through a sealed wall")
	}
}

func TestFindPathDeterministic(t *testing.T) {
	blocked := func(c Coord) bool { return c == Coord{2, 2} || c == Coord{3, 2} }
	a, okA := FindPath(Coord{2, 0}, Coord{2, 5}, 1, 5, 8, blocked)
	b, okB := FindPath(Coord{2, 0}, Coord{2, 5}, 1, 5, 8, blocked)
	if okA != okB || len(a) != len(b) {
		t.Fatalf("non-deterministic pathing: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("step %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
