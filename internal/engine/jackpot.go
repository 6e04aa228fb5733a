package engine

import "slots_backend/internal/model"

// IsJackpot проверяет редкую джекпотную комбинацию: символ джекпота
// на центральном ряду всех барабанов. Проверка не зависит от того,
// какие линии активны
func IsJackpot(cfg *model.GameConfig, grid [][]string) bool {
	if len(grid) == 0 || cfg.JackpotSymbol == "" {
		return false
	}

	center := cfg.Rows / 2
	for _, column := range grid {
		if column[center] != cfg.JackpotSymbol {
			return false
		}
	}
	return true
}
