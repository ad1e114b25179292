package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fixture"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/lockoverride"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	lockoverridemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/lockoverride"
	selectionmock "github.com/riskibarqy/cricket-fantasy/internal/mocks/domain/selection"
	usecasemock "github.com/riskibarqy/cricket-fantasy/internal/mocks/usecase"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

type stubIDGenerator struct {
	id string
}

func (g stubIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type stubStartResolver map[int64]time.Time

func (r stubStartResolver) ResolveStart(_ context.Context, fixtureID int64) (time.Time, error) {
	start, ok := r[fixtureID]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: fixture %d does not exist", ErrInvalidInput, fixtureID)
	}
	return start, nil
}

var testFixtureStart = time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)

func newTestSelectionService(t *testing.T, now time.Time) (*SelectionService, *selectionmock.Repository, *lockoverridemock.Repository) {
	t.Helper()

	repo := selectionmock.NewRepository(t)
	overrideRepo := lockoverridemock.NewRepository(t)
	gate := NewLockGate(overrideRepo, logging.NewNop())
	gate.now = func() time.Time { return now }

	svc := NewSelectionService(repo, gate, stubStartResolver{42: testFixtureStart}, stubIDGenerator{id: "sel-1"}, nil, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc, repo, overrideRepo
}

func validSubmitInput() SubmitSelectionInput {
	return SubmitSelectionInput{
		UserID:     "user-1",
		FixtureID:  42,
		TeamAIDs:   []int64{1, 2, 3, 4},
		TeamANames: []string{"A1", "A2", "A3", "A4"},
		TeamBIDs:   []int64{5, 6, 7, 8},
		TeamBNames: []string{"B1", "B2", "B3", "B4"},
	}
}

func TestSelectionService_Submit_BeforeStart(t *testing.T) {
	t.Parallel()

	svc, repo, overrideRepo := newTestSelectionService(t, testFixtureStart.Add(-time.Hour))
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{}, nil).Once()
	repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(42)).Return(selection.Selection{}, false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s selection.Selection) bool {
		return s.ID == "sel-1" && s.FixtureStartsAt != nil && s.FixtureStartsAt.Equal(testFixtureStart)
	})).Return(nil).Once()

	got, err := svc.Submit(context.Background(), validSubmitInput())
	if err != nil {
		t.Fatalf("submit selection: %v", err)
	}
	if got.ID != "sel-1" || len(got.PlayerIDs()) != 8 {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestSelectionService_Submit_AfterStartRespectsOverride(t *testing.T) {
	t.Parallel()

	after := testFixtureStart.Add(time.Minute)

	t.Run("override off", func(t *testing.T) {
		svc, _, overrideRepo := newTestSelectionService(t, after)
		overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: false}, nil).Once()

		_, err := svc.Submit(context.Background(), validSubmitInput())
		if !errors.Is(err, selection.ErrLocked) {
			t.Fatalf("expected ErrLocked, got %v", err)
		}
		if err.Error() != "Match has already started. Selections are closed." {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("override on", func(t *testing.T) {
		svc, repo, overrideRepo := newTestSelectionService(t, after)
		overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: true}, nil).Once()
		repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(42)).Return(selection.Selection{}, false, nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		if _, err := svc.Submit(context.Background(), validSubmitInput()); err != nil {
			t.Fatalf("expected submission to succeed with override, got %v", err)
		}
	})

	t.Run("exactly at start", func(t *testing.T) {
		svc, _, overrideRepo := newTestSelectionService(t, testFixtureStart)
		overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{}, nil).Once()

		if _, err := svc.Submit(context.Background(), validSubmitInput()); !errors.Is(err, selection.ErrLocked) {
			t.Fatalf("expected ErrLocked at kickoff, got %v", err)
		}
	})
}

func TestSelectionService_Submit_RejectsDuplicateRegardlessOfOverride(t *testing.T) {
	t.Parallel()

	for _, enabled := range []bool{false, true} {
		svc, repo, overrideRepo := newTestSelectionService(t, testFixtureStart.Add(-time.Hour))
		overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: enabled}, nil).Once()
		repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(42)).
			Return(selection.Selection{ID: "existing"}, true, nil).
			Once()

		_, err := svc.Submit(context.Background(), validSubmitInput())
		if !errors.Is(err, selection.ErrAlreadySubmitted) {
			t.Fatalf("override=%v: expected ErrAlreadySubmitted, got %v", enabled, err)
		}
		if err.Error() != "Selection already submitted. Selections cannot be changed." {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
}

func TestSelectionService_Submit_UniqueConstraintRace(t *testing.T) {
	t.Parallel()

	svc, repo, overrideRepo := newTestSelectionService(t, testFixtureStart.Add(-time.Hour))
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{}, nil).Once()
	repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(42)).Return(selection.Selection{}, false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(selection.ErrAlreadySubmitted).Once()

	if _, err := svc.Submit(context.Background(), validSubmitInput()); !errors.Is(err, selection.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSelectionService_Submit_ValidatesSquads(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*SubmitSelectionInput){
		"three players":   func(in *SubmitSelectionInput) { in.TeamAIDs = []int64{1, 2, 3}; in.TeamANames = nil },
		"duplicate id":    func(in *SubmitSelectionInput) { in.TeamBIDs = []int64{5, 5, 7, 8} },
		"non positive id": func(in *SubmitSelectionInput) { in.TeamBIDs = []int64{0, 6, 7, 8} },
		"name mismatch":   func(in *SubmitSelectionInput) { in.TeamANames = []string{"A1"} },
	}
	for name, mutate := range cases {
		svc, _, _ := newTestSelectionService(t, testFixtureStart.Add(-time.Hour))
		input := validSubmitInput()
		mutate(&input)

		_, err := svc.Submit(context.Background(), input)
		if !errors.Is(err, selection.ErrInvalidSquad) {
			t.Fatalf("%s: expected ErrInvalidSquad, got %v", name, err)
		}
	}
}

func TestSelectionService_Submit_UnresolvableStartIsRefused(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestSelectionService(t, testFixtureStart.Add(-time.Hour))

	input := validSubmitInput()
	input.FixtureID = 99
	if _, err := svc.Submit(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown fixture, got %v", err)
	}
}

func newProviderBackedSelectionService(t *testing.T, now time.Time) (*SelectionService, *selectionmock.Repository, *lockoverridemock.Repository, *usecasemock.FixtureProvider) {
	t.Helper()

	fixtures, cacheRepo, provider := newTestFixtureService(t, now)
	cacheRepo.On("LatestSnapshot", mock.Anything).Return(fixture.Snapshot{
		Fixtures:  []fixture.Fixture{{ID: 42, StartingAt: now.Add(time.Hour)}},
		FetchedAt: now,
	}, true, nil)

	repo := selectionmock.NewRepository(t)
	overrideRepo := lockoverridemock.NewRepository(t)
	gate := NewLockGate(overrideRepo, logging.NewNop())
	gate.now = func() time.Time { return now }

	svc := NewSelectionService(repo, gate, fixtures, stubIDGenerator{id: "sel-1"}, nil, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc, repo, overrideRepo, provider
}

func TestSelectionService_Submit_StartedFixtureOutsideListIsLocked(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	realStart := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)
	svc, _, overrideRepo, provider := newProviderBackedSelectionService(t, now)
	provider.On("FetchFixture", mock.Anything, int64(99)).Return(fixture.Fixture{ID: 99, StartingAt: realStart}, nil).Once()
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{}, nil).Once()

	input := validSubmitInput()
	input.FixtureID = 99
	_, err := svc.Submit(context.Background(), input)
	if !errors.Is(err, selection.ErrLocked) {
		t.Fatalf("expected ErrLocked for a fixture that already started, got %v", err)
	}
}

func TestSelectionService_Submit_StoresProviderStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	realStart := time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC)
	svc, repo, overrideRepo, provider := newProviderBackedSelectionService(t, now)
	provider.On("FetchFixture", mock.Anything, int64(99)).Return(fixture.Fixture{ID: 99, StartingAt: realStart}, nil).Once()
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: true}, nil).Once()
	repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(99)).Return(selection.Selection{}, false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s selection.Selection) bool {
		return s.FixtureStartsAt != nil && s.FixtureStartsAt.Equal(realStart)
	})).Return(nil).Once()

	input := validSubmitInput()
	input.FixtureID = 99
	got, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("submit with override: %v", err)
	}
	if !got.StartTime().Equal(realStart) {
		t.Fatalf("expected provider start %s, got %s", realStart, got.StartTime())
	}
	window := leaderboard.WeeklyWindow(got.StartTime())
	if window.Key != "2024-04-07" {
		t.Fatalf("expected the fixture's own week, got %s", window.Key)
	}
}

func TestSelectionService_Submit_ProviderOutageIsRefused(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc, _, _, provider := newProviderBackedSelectionService(t, now)
	provider.On("FetchFixture", mock.Anything, int64(99)).Return(fixture.Fixture{}, errors.New("connection refused")).Once()

	input := validSubmitInput()
	input.FixtureID = 99
	if _, err := svc.Submit(context.Background(), input); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSelectionService_Get(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestSelectionService(t, time.Now())
	repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(42)).Return(selection.Selection{ID: "sel-1"}, true, nil).Once()
	repo.On("GetByUserAndFixture", mock.Anything, "user-1", int64(43)).Return(selection.Selection{}, false, nil).Once()

	got, err := svc.Get(context.Background(), "user-1", 42)
	if err != nil || got.ID != "sel-1" {
		t.Fatalf("unexpected selection: %+v err=%v", got, err)
	}
	if _, err := svc.Get(context.Background(), "user-1", 43); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLockGate_StatusAndOverride(t *testing.T) {
	t.Parallel()

	now := testFixtureStart.Add(time.Hour)
	overrideRepo := lockoverridemock.NewRepository(t)
	gate := NewLockGate(overrideRepo, logging.NewNop())
	gate.now = func() time.Time { return now }

	overrideRepo.On("Set", mock.Anything, true, now).Return(lockoverride.Override{Enabled: true, UpdatedAt: now}, nil).Once()
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: true, UpdatedAt: now}, nil).Once()
	overrideRepo.On("Set", mock.Anything, false, now).Return(lockoverride.Override{Enabled: false, UpdatedAt: now}, nil).Once()
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{Enabled: false, UpdatedAt: now}, nil).Once()

	if _, err := gate.ForceUnlock(context.Background()); err != nil {
		t.Fatalf("force unlock: %v", err)
	}
	status, err := gate.Status(context.Background(), testFixtureStart)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.DerivedState != lockoverride.StateLocked || status.EffectiveState != lockoverride.StateUnlocked {
		t.Fatalf("unexpected unlocked status: %+v", status)
	}

	if _, err := gate.ForceLock(context.Background()); err != nil {
		t.Fatalf("force lock: %v", err)
	}
	status, err = gate.Status(context.Background(), testFixtureStart)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.EffectiveState != lockoverride.StateLocked || status.OverrideEnabled {
		t.Fatalf("unexpected locked status: %+v", status)
	}
}

func TestLockGate_UnknownStartNeverLocks(t *testing.T) {
	t.Parallel()

	overrideRepo := lockoverridemock.NewRepository(t)
	overrideRepo.On("Get", mock.Anything).Return(lockoverride.Override{}, nil).Once()
	gate := NewLockGate(overrideRepo, logging.NewNop())

	status, err := gate.Status(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.EffectiveState != lockoverride.StateUnlocked || status.FixtureStartsAt != nil {
		t.Fatalf("unexpected status: %+v", status)
	}
}
