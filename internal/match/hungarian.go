package match

// hungarian solves the minimum-cost assignment problem for a square,
// non-negative cost matrix and returns the column assigned to each row.
//
// Classic matrix reduction: subtract row minima, subtract column minima,
// star a maximal set of independent zeros, then alternate between covering
// columns, priming uncovered zeros and adjusting by the minimum uncovered
// value until every row carries a starred zero.
func hungarian(cost [][]int) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	c := make([][]int, n)
	for i := range cost {
		c[i] = make([]int, n)
		copy(c[i], cost[i])
	}

	// row minima
	for i := range c {
		m := c[i][0]
		for _, v := range c[i][1:] {
			if v < m {
				m = v
			}
		}
		for j := range c[i] {
			c[i][j] -= m
		}
	}
	// column minima
	for j := 0; j < n; j++ {
		m := c[0][j]
		for i := 1; i < n; i++ {
			if c[i][j] < m {
				m = c[i][j]
			}
		}
		for i := 0; i < n; i++ {
			c[i][j] -= m
		}
	}

	star := make([][]bool, n)
	prime := make([][]bool, n)
	for i := range star {
		star[i] = make([]bool, n)
		prime[i] = make([]bool, n)
	}
	rowCover := make([]bool, n)
	colCover := make([]bool, n)

	starInRow := func(i int) int {
		for j := 0; j < n; j++ {
			if star[i][j] {
				return j
			}
		}
		return -1
	}
	starInCol := func(j int) int {
		for i := 0; i < n; i++ {
			if star[i][j] {
				return i
			}
		}
		return -1
	}
	primeInRow := func(i int) int {
		for j := 0; j < n; j++ {
			if prime[i][j] {
				return j
			}
		}
		return -1
	}

	// initial independent zeros
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c[i][j] == 0 && starInRow(i) == -1 && starInCol(j) == -1 {
				star[i][j] = true
			}
		}
	}

	for {
		// cover every column containing a starred zero
		covered := 0
		for j := 0; j < n; j++ {
			colCover[j] = starInCol(j) != -1
			if colCover[j] {
				covered++
			}
		}
		if covered == n {
			break
		}

		// prime uncovered zeros until one lands in a row without a star
		var pr, pc int
		for {
			r, cc := uncoveredZero(c, rowCover, colCover)
			if r == -1 {
				adjustByMinUncovered(c, rowCover, colCover)
				continue
			}
			prime[r][cc] = true
			if sc := starInRow(r); sc != -1 {
				rowCover[r] = true
				colCover[sc] = false
				continue
			}
			pr, pc = r, cc
			break
		}

		// augment along the alternating prime/star path
		path := [][2]int{{pr, pc}}
		for {
			r := starInCol(path[len(path)-1][1])
			if r == -1 {
				break
			}
			path = append(path, [2]int{r, path[len(path)-1][1]})
			path = append(path, [2]int{r, primeInRow(r)})
		}
		for k, cell := range path {
			if k%2 == 0 {
				star[cell[0]][cell[1]] = true
			} else {
				star[cell[0]][cell[1]] = false
			}
		}

		for i := 0; i < n; i++ {
			rowCover[i] = false
			for j := 0; j < n; j++ {
				prime[i][j] = false
			}
		}
	}

	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = starInRow(i)
	}
	return out
}

func uncoveredZero(c [][]int, rowCover, colCover []bool) (int, int) {
	for i := range c {
		if rowCover[i] {
			continue
		}
		for j := range c[i] {
			if !colCover[j] && c[i][j] == 0 {
				return i, j
			}
		}
	}
	return -1, -1
}

// adjustByMinUncovered adds the smallest uncovered value to every covered row
// and subtracts it from every uncovered column, creating at least one new
// uncovered zero without disturbing starred zeros.
func adjustByMinUncovered(c [][]int, rowCover, colCover []bool) {
	n := len(c)
	m := -1
	for i := 0; i < n; i++ {
		if rowCover[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if colCover[j] {
				continue
			}
			if m == -1 || c[i][j] < m {
				m = c[i][j]
			}
		}
	}
	if m <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if rowCover[i] {
				c[i][j] += m
			}
			if !colCover[j] {
				c[i][j] -= m
			}
		}
	}
}
