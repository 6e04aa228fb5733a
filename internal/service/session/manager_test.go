package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/model"
)

type fakeSessionRepo struct {
	sessions map[int64]*model.PlaySession
	nextID   int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[int64]*model.PlaySession), nextID: 1}
}

func (r *fakeSessionRepo) GetActiveSession(_ context.Context, playerID int, gameSlug string) (*model.PlaySession, error) {
	var latest *model.PlaySession
	for _, s := range r.sessions {
		if s.PlayerID == playerID && s.GameSlug == gameSlug && s.Status == model.SessionStatusActive {
			if latest == nil || s.StartedAt.After(latest.StartedAt) {
				latest = s
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, id int64) (*model.PlaySession, error) {
	copied := *r.sessions[id]
	return &copied, nil
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *model.PlaySession) (int64, error) {
	id := r.nextID
	r.nextID++
	stored := *session
	stored.ID = id
	r.sessions[id] = &stored
	return id, nil
}

func (r *fakeSessionRepo) CloseSession(_ context.Context, id int64, endedAt time.Time) error {
	s := r.sessions[id]
	s.Status = model.SessionStatusClosed
	s.EndedAt = &endedAt
	return nil
}

func (r *fakeSessionRepo) AddTotals(_ context.Context, id int64, spins int, bet, win decimal.Decimal) error {
	s := r.sessions[id]
	s.TotalSpins += spins
	s.TotalBet = s.TotalBet.Add(bet)
	s.TotalWin = s.TotalWin.Add(win)
	return nil
}

func (r *fakeSessionRepo) SubtractTotals(_ context.Context, id int64, spins int, bet, win decimal.Decimal) error {
	s := r.sessions[id]
	s.TotalSpins = max(s.TotalSpins-spins, 0)
	s.TotalBet = decimal.Max(s.TotalBet.Sub(bet), decimal.Zero)
	s.TotalWin = decimal.Max(s.TotalWin.Sub(win), decimal.Zero)
	return nil
}

func TestGetOrCreateStartsSession(t *testing.T) {
	repo := newFakeSessionRepo()
	serv := NewSessionService(repo, zap.NewNop()).(*serv)

	got, err := serv.GetOrCreate(context.Background(), 1, "classic-fruits")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if got.ID == 0 || got.Token == "" {
		t.Fatalf("session not initialized: %+v", got)
	}
	if got.Status != model.SessionStatusActive {
		t.Fatalf("status = %q, want active", got.Status)
	}
}

func TestGetOrCreateReusesActiveSession(t *testing.T) {
	repo := newFakeSessionRepo()
	serv := NewSessionService(repo, zap.NewNop()).(*serv)

	first, err := serv.GetOrCreate(context.Background(), 1, "classic-fruits")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := serv.GetOrCreate(context.Background(), 1, "classic-fruits")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("active session not reused: %d != %d", first.ID, second.ID)
	}
}

func TestGetOrCreateIsolatesGames(t *testing.T) {
	repo := newFakeSessionRepo()
	serv := NewSessionService(repo, zap.NewNop()).(*serv)

	a, _ := serv.GetOrCreate(context.Background(), 1, "classic-fruits")
	b, _ := serv.GetOrCreate(context.Background(), 1, "other-game")

	if a.ID == b.ID {
		t.Fatal("different games share one session")
	}
}

func TestGetOrCreateReplacesExpiredSession(t *testing.T) {
	repo := newFakeSessionRepo()
	s := NewSessionService(repo, zap.NewNop()).(*serv)

	now := time.Now()
	s.now = func() time.Time { return now }

	first, err := s.GetOrCreate(context.Background(), 1, "classic-fruits")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// Сдвигаем часы за границу жизни сессии
	s.now = func() time.Time { return now.Add(sessionLifetime + time.Minute) }

	second, err := s.GetOrCreate(context.Background(), 1, "classic-fruits")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("expired session was reused")
	}

	old := repo.sessions[first.ID]
	if old.Status != model.SessionStatusClosed || old.EndedAt == nil {
		t.Fatalf("expired session not closed: %+v", old)
	}
}
