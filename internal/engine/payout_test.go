package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

// gridOf собирает окно из рядов: rows[row][reel] -> grid[reel][row]
func gridOf(rows ...[]string) [][]string {
	reels := len(rows[0])
	grid := make([][]string, reels)
	for r := 0; r < reels; r++ {
		column := make([]string, len(rows))
		for row := range rows {
			column[row] = rows[row][r]
		}
		grid[r] = column
	}
	return grid
}

func bet(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateLineWin(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"CHERRY", "CHERRY", "CHERRY", "LEMON", "ORANGE"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if len(out.WinningLines) != 1 {
		t.Fatalf("winning lines = %d, want 1", len(out.WinningLines))
	}
	line := out.WinningLines[0]
	if line.Payline != 0 || line.Symbol != "CHERRY" || line.Count != 3 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if !out.TotalPayout.Equal(bet("10.00")) {
		t.Fatalf("total payout = %s, want 10.00", out.TotalPayout)
	}
}

func TestEvaluateRunOfTwoPaysNothing(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"CHERRY", "CHERRY", "LEMON", "CHERRY", "CHERRY"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if len(out.WinningLines) != 0 {
		t.Fatalf("winning lines = %v, want none", out.WinningLines)
	}
	if !out.TotalPayout.IsZero() {
		t.Fatalf("total payout = %s, want 0", out.TotalPayout)
	}
}

func TestEvaluateWildExtendsRun(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"CHERRY", "WILD", "CHERRY", "CHERRY", "LEMON"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if len(out.WinningLines) != 1 {
		t.Fatalf("winning lines = %d, want 1", len(out.WinningLines))
	}
	line := out.WinningLines[0]
	if line.Symbol != "CHERRY" || line.Count != 4 {
		t.Fatalf("wild did not extend run: %+v", line)
	}
	if !out.TotalPayout.Equal(bet("25.00")) {
		t.Fatalf("total payout = %s, want 25.00", out.TotalPayout)
	}
	if len(out.WildPositions) != 1 || out.WildPositions[0] != (model.Position{Reel: 1, Row: 1}) {
		t.Fatalf("wild positions = %v", out.WildPositions)
	}
}

// Вайлд-якорь замещается самым частым не-wild символом линии
func TestEvaluateWildAnchorSubstitution(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"WILD", "CHERRY", "CHERRY", "LEMON", "ORANGE"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if len(out.WinningLines) != 1 {
		t.Fatalf("winning lines = %d, want 1", len(out.WinningLines))
	}
	line := out.WinningLines[0]
	if line.Symbol != "CHERRY" || line.Count != 3 {
		t.Fatalf("wild anchor substitution: %+v", line)
	}
}

func TestEvaluateAllWildLine(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"WILD", "WILD", "WILD", "WILD", "WILD"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if len(out.WinningLines) != 1 {
		t.Fatalf("winning lines = %d, want 1", len(out.WinningLines))
	}
	line := out.WinningLines[0]
	if line.Symbol != "WILD" || line.Count != 5 {
		t.Fatalf("all-wild line: %+v", line)
	}
	if !out.TotalPayout.Equal(bet("100.00")) {
		t.Fatalf("total payout = %s, want 100.00", out.TotalPayout)
	}
}

func TestEvaluateScatterAwardsAcrossGrid(t *testing.T) {
	cfg := testConfig()
	// 4 скаттера вне активной линии
	grid := gridOf(
		[]string{"STAR", "ORANGE", "SEVEN", "STAR", "LEMON"},
		[]string{"CHERRY", "LEMON", "ORANGE", "LEMON", "ORANGE"},
		[]string{"STAR", "SEVEN", "LEMON", "SEVEN", "STAR"},
	)

	out := Evaluate(cfg, grid, bet("2.00"), []int{0})

	if out.Scatter.Count != 4 {
		t.Fatalf("scatter count = %d, want 4", out.Scatter.Count)
	}
	if !out.Scatter.Payout.Equal(bet("20.00")) {
		t.Fatalf("scatter payout = %s, want 20.00", out.Scatter.Payout)
	}
	if out.FreeSpinsAwarded != 15 {
		t.Fatalf("free spins awarded = %d, want 15", out.FreeSpinsAwarded)
	}
	if !out.TotalPayout.Equal(bet("20.00")) {
		t.Fatalf("total payout = %s, want 20.00", out.TotalPayout)
	}
}

func TestEvaluateTwoScattersPayNothing(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"STAR", "ORANGE", "SEVEN", "STAR", "LEMON"},
		[]string{"CHERRY", "LEMON", "ORANGE", "LEMON", "ORANGE"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("2.00"), []int{0})

	if out.Scatter.Count != 2 {
		t.Fatalf("scatter count = %d, want 2", out.Scatter.Count)
	}
	if !out.Scatter.Payout.IsZero() || out.FreeSpinsAwarded != 0 {
		t.Fatalf("two scatters must pay nothing: %+v", out.Scatter)
	}
}

func TestEvaluateJackpotOnCenterRow(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"JACKPOT", "JACKPOT", "JACKPOT", "JACKPOT", "JACKPOT"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("1.00"), []int{0})

	if !out.IsJackpot {
		t.Fatal("jackpot not detected")
	}
	// JACKPOT отсутствует в таблице выплат - весь выигрыш из джекпота
	if !out.TotalPayout.Equal(bet("5000.00")) {
		t.Fatalf("total payout = %s, want 5000.00", out.TotalPayout)
	}
}

func TestEvaluateJackpotRequiresAllReels(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"JACKPOT", "JACKPOT", "JACKPOT", "JACKPOT", "LEMON"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	if IsJackpot(cfg, grid) {
		t.Fatal("jackpot detected with 4 of 5 reels")
	}
}

func TestEvaluateIgnoresUnknownPaylines(t *testing.T) {
	cfg := testConfig()
	grid := gridOf(
		[]string{"LEMON", "ORANGE", "SEVEN", "ORANGE", "LEMON"},
		[]string{"CHERRY", "CHERRY", "CHERRY", "LEMON", "ORANGE"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	clean := Evaluate(cfg, grid, bet("1.00"), []int{0})
	withJunk := Evaluate(cfg, grid, bet("1.00"), []int{-1, 0, 99})

	if !clean.TotalPayout.Equal(withJunk.TotalPayout) {
		t.Fatalf("junk payline indexes changed payout: %s != %s",
			clean.TotalPayout, withJunk.TotalPayout)
	}
	if len(withJunk.WinningLines) != 1 {
		t.Fatalf("winning lines = %d, want 1", len(withJunk.WinningLines))
	}
}

// Округление применяется один раз к итогу, а не к каждой компоненте
func TestEvaluateRoundsTotalOnce(t *testing.T) {
	cfg := testConfig()
	cfg.Paytable["CHERRY"] = map[int]float64{5: 0.5}

	// Две линии по 0.125: по компонентам было бы 0.13+0.13=0.26
	grid := gridOf(
		[]string{"CHERRY", "CHERRY", "CHERRY", "CHERRY", "CHERRY"},
		[]string{"CHERRY", "CHERRY", "CHERRY", "CHERRY", "CHERRY"},
		[]string{"ORANGE", "SEVEN", "LEMON", "SEVEN", "ORANGE"},
	)

	out := Evaluate(cfg, grid, bet("0.25"), []int{0, 1})

	if !out.TotalPayout.Equal(bet("0.25")) {
		t.Fatalf("total payout = %s, want 0.25", out.TotalPayout)
	}
}

func TestBestSubstituteTieBreak(t *testing.T) {
	// При равной частоте выбирается лексикографически меньший символ
	got := bestSubstitute([]string{"WILD", "LEMON", "CHERRY", "WILD", "WILD"}, "WILD")
	if got != "CHERRY" {
		t.Fatalf("bestSubstitute = %q, want CHERRY", got)
	}

	if got := bestSubstitute([]string{"WILD", "WILD"}, "WILD"); got != "" {
		t.Fatalf("all-wild substitute = %q, want empty", got)
	}
}
