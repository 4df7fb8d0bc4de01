package tasktable

// PartsAtLevel returns the number of tasks at the given level of a tree with
// levels levels. The count halves at every level and is 1 at the top.
// Levels outside [0, levels) have no tasks.
func PartsAtLevel(level, levels int) int {
	if level < 0 || level >= levels {
		return 0
	}
	return 1 << (levels - 1 - level)
}

// layout builds the task grid for n elements. Leaf j of p covers
// [j*n/p, (j+1)*n/p); a merge task covers the union of its two children,
// which the same formula yields at every level, so no two tasks of one
// level overlap and the top task covers [0, n).
func layout(n, levels int) [][]Task {
	grid := make([][]Task, levels)
	for level := 0; level < levels; level++ {
		parts := PartsAtLevel(level, levels)
		row := make([]Task, parts)
		for i := range row {
			t := Task{
				Level: level,
				Index: i,
				State: Pending,
				Start: i * n / parts,
				End:   (i + 1) * n / parts,
				Mid:   -1,
			}
			if level > 0 {
				t.Mid = grid[level-1][2*i].End
			}
			row[i] = t
		}
		grid[level] = row
	}
	return grid
}
