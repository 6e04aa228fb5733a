package engine

import "slots_backend/internal/model"

// bestSubstitute возвращает самый частый не-wild символ линии.
// При равной частоте берётся лексикографически меньший, чтобы
// результат был детерминированным. Пустая строка - линия целиком
// из вайлдов
func bestSubstitute(symbols []string, wild string) string {
	counts := make(map[string]int)
	for _, s := range symbols {
		if s != wild {
			counts[s]++
		}
	}

	best := ""
	bestCount := 0
	for s, c := range counts {
		if c > bestCount || (c == bestCount && (best == "" || s < best)) {
			best, bestCount = s, c
		}
	}
	return best
}

// WildPositions возвращает координаты всех вайлдов на поле
func WildPositions(grid [][]string, wild string) []model.Position {
	var positions []model.Position
	for r, column := range grid {
		for row, sym := range column {
			if sym == wild {
				positions = append(positions, model.Position{Reel: r, Row: row})
			}
		}
	}
	return positions
}
