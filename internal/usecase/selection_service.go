package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/selection"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// Submission outcomes reported to metrics.
const (
	SubmissionAccepted         = "accepted"
	SubmissionLocked           = "locked"
	SubmissionAlreadySubmitted = "already_submitted"
	SubmissionInvalid          = "invalid"
	SubmissionError            = "error"
)

// StartResolver finds a fixture's scheduled start from provider data.
type StartResolver interface {
	ResolveStart(ctx context.Context, fixtureID int64) (time.Time, error)
}

type SubmitSelectionInput struct {
	UserID     string
	FixtureID  int64
	TeamAIDs   []int64
	TeamANames []string
	TeamBIDs   []int64
	TeamBNames []string
}

type SelectionService struct {
	repo    selection.Repository
	gate    *LockGate
	starts  StartResolver
	idGen   id.Generator
	metrics Metrics
	logger  *logging.Logger
	now     func() time.Time
}

func NewSelectionService(
	repo selection.Repository,
	gate *LockGate,
	starts StartResolver,
	idGen id.Generator,
	metrics Metrics,
	logger *logging.Logger,
) *SelectionService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &SelectionService{
		repo:    repo,
		gate:    gate,
		starts:  starts,
		idGen:   idGen,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit stores a write-once selection. It is refused once the fixture has
// started unless the lock override is enabled, and refused for a user who
// already picked for the fixture.
func (s *SelectionService) Submit(ctx context.Context, input SubmitSelectionInput) (selection.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Submit")
	defer span.End()
	span.SetAttributes(attribute.Int64("fixture.id", input.FixtureID))

	created, err := s.submit(ctx, input)
	s.metrics.ObserveSelectionSubmission(submissionOutcome(err))
	if err != nil {
		return selection.Selection{}, err
	}
	s.logger.InfoContext(ctx, "selection submitted", "user_id", created.UserID, "fixture_id", created.FixtureID, "selection_id", created.ID)
	return created, nil
}

func (s *SelectionService) submit(ctx context.Context, input SubmitSelectionInput) (selection.Selection, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return selection.Selection{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.FixtureID <= 0 {
		return selection.Selection{}, fmt.Errorf("%w: fixture_id must be positive", ErrInvalidInput)
	}
	if err := selection.ValidateSquads(input.TeamAIDs, input.TeamANames, input.TeamBIDs, input.TeamBNames); err != nil {
		return selection.Selection{}, err
	}

	start, err := s.resolveStart(ctx, input.FixtureID)
	if err != nil {
		return selection.Selection{}, err
	}
	if err := s.gate.CheckOpen(ctx, start); err != nil {
		return selection.Selection{}, err
	}

	_, exists, err := s.repo.GetByUserAndFixture(ctx, userID, input.FixtureID)
	if err != nil {
		return selection.Selection{}, fmt.Errorf("check existing selection: %w", err)
	}
	if exists {
		return selection.Selection{}, selection.ErrAlreadySubmitted
	}

	selectionID, err := s.idGen.NewID()
	if err != nil {
		return selection.Selection{}, fmt.Errorf("generate selection id: %w", err)
	}

	startCopy := start
	item := selection.Selection{
		ID:              selectionID,
		UserID:          userID,
		FixtureID:       input.FixtureID,
		FixtureStartsAt: &startCopy,
		TeamAIDs:        append([]int64(nil), input.TeamAIDs...),
		TeamANames:      trimNames(input.TeamANames),
		TeamBIDs:        append([]int64(nil), input.TeamBIDs...),
		TeamBNames:      trimNames(input.TeamBNames),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, selection.ErrAlreadySubmitted) {
			return selection.Selection{}, selection.ErrAlreadySubmitted
		}
		return selection.Selection{}, fmt.Errorf("create selection: %w", err)
	}
	return item, nil
}

func (s *SelectionService) resolveStart(ctx context.Context, fixtureID int64) (time.Time, error) {
	if s.starts == nil {
		return time.Time{}, fmt.Errorf("%w: fixture start resolver is not configured", ErrDependencyUnavailable)
	}
	start, err := s.starts.ResolveStart(ctx, fixtureID)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve start of fixture %d: %w", fixtureID, err)
	}
	if start.IsZero() {
		return time.Time{}, fmt.Errorf("%w: start time of fixture %d is unknown", ErrInvalidInput, fixtureID)
	}
	return start.UTC(), nil
}

// Get returns the user's selection for a fixture.
func (s *SelectionService) Get(ctx context.Context, userID string, fixtureID int64) (selection.Selection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" || fixtureID <= 0 {
		return selection.Selection{}, fmt.Errorf("%w: user_id and fixture_id are required", ErrInvalidInput)
	}

	item, ok, err := s.repo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return selection.Selection{}, fmt.Errorf("get selection: %w", err)
	}
	if !ok {
		return selection.Selection{}, fmt.Errorf("%w: no selection for fixture %d", ErrNotFound, fixtureID)
	}
	return item, nil
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return SubmissionAccepted
	case errors.Is(err, selection.ErrLocked):
		return SubmissionLocked
	case errors.Is(err, selection.ErrAlreadySubmitted):
		return SubmissionAlreadySubmitted
	case errors.Is(err, selection.ErrInvalidSquad), errors.Is(err, ErrInvalidInput):
		return SubmissionInvalid
	default:
		return SubmissionError
	}
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.TrimSpace(name))
	}
	return out
}
