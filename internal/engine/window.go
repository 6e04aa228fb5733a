// Package engine - чистое вычислительное ядро слота: генерация окна
// барабанов, оценка линий, вайлдов, скаттеров и джекпота, валидация
// ставки. Никакого состояния, кроме выборок из rng
package engine

import (
	"slots_backend/internal/model"
	"slots_backend/pkg/rng"
)

// Positions выбирает стоп-позицию для каждого барабана: по одной
// равномерной выборке из [0, len(strip)-1] в порядке барабанов
func Positions(cfg *model.GameConfig, src *rng.Source) ([]int, error) {
	positions := make([]int, len(cfg.Reels))
	for r, strip := range cfg.Reels {
		p, err := src.Int(0, len(strip)-1)
		if err != nil {
			return nil, err
		}
		positions[r] = p
	}
	return positions, nil
}

// Window генерирует стоп-позиции и видимое окно.
// grid[r][row] = strip[(positions[r]+row) mod len(strip)] - окно
// циклически заворачивается через конец ленты.
// Повторный вызов с той же конфигурацией даёт независимые выборки
func Window(cfg *model.GameConfig, src *rng.Source) ([]int, [][]string, error) {
	positions, err := Positions(cfg, src)
	if err != nil {
		return nil, nil, err
	}

	grid := make([][]string, len(cfg.Reels))
	for r, strip := range cfg.Reels {
		column := make([]string, cfg.Rows)
		for row := 0; row < cfg.Rows; row++ {
			column[row] = strip[(positions[r]+row)%len(strip)]
		}
		grid[r] = column
	}

	return positions, grid, nil
}
