// Package submission scores completed assessments on the backend and keeps
// them: a row per result in Postgres plus a JSON archive in blob storage.
package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eqcoach/eqcoach/internal/users"
	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// UserDirectory resolves identity-provider subjects to local users.
type UserDirectory interface {
	EnsureUser(ctx context.Context, externalID string) (*users.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*users.User, error)
}

// Archive is the blob written for every stored result.
type Archive struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Answers     []int             `json:"answers"`
	Result      assessment.Result `json:"result"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// Service orchestrates the submission pipeline.
type Service struct {
	engine *assessment.Engine
	users  UserDirectory
	repo   Repository
	store  ResultStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new submission Service.
func NewService(engine *assessment.Engine, users UserDirectory, repo Repository, store ResultStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine: engine,
		users:  users,
		repo:   repo,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Definition returns the questionnaire submissions are scored against.
func (s *Service) Definition() *assessment.Definition {
	return s.engine.Definition()
}

// Submit scores answers for the user and stores the result. Invalid or
// incomplete answers return an assessment *ValidationError and nothing is
// stored.
func (s *Service) Submit(ctx context.Context, externalUserID string, answers []int) (*Record, error) {
	result, err := s.engine.PackageAnswers(answers)
	if err != nil {
		return nil, err
	}

	user, err := s.users.EnsureUser(ctx, externalUserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	rec := &Record{
		ID:      uuid.New().String(),
		UserID:  user.ID,
		Answers: append([]int(nil), answers...),
		Result:  *result,
	}

	data, err := json.Marshal(Archive{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Answers:     rec.Answers,
		Result:      rec.Result,
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal archive: %w", err)
	}
	if err := s.store.PutResult(ctx, rec.UserID, rec.ID, data); err != nil {
		return nil, fmt.Errorf("put result blob: %w", err)
	}
	rec.StorageRef = objectKey(rec.UserID, rec.ID)

	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}

	s.logger.Info("assessment submitted",
		zap.String("user_id", rec.UserID),
		zap.String("result_id", rec.ID),
		zap.Int("total_score", rec.Result.TotalScore),
		zap.Int("below_threshold", len(rec.Result.Recommendations())),
	)
	return rec, nil
}

// lookup resolves a user without creating one. A user who never submitted
// has no results, reported as ErrNotFound.
func (s *Service) lookup(ctx context.Context, externalUserID string) (*users.User, error) {
	user, err := s.users.GetByExternalID(ctx, externalUserID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}

// List returns the user's results, newest first.
func (s *Service) List(ctx context.Context, externalUserID string) ([]Record, error) {
	user, err := s.lookup(ctx, externalUserID)
	if errors.Is(err, ErrNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	recs, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Latest returns the user's most recent result.
func (s *Service) Latest(ctx context.Context, externalUserID string) (*Record, error) {
	user, err := s.lookup(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.LatestByUser(ctx, user.ID)
}

// Get returns one of the user's results.
func (s *Service) Get(ctx context.Context, externalUserID, resultID string) (*Record, error) {
	if _, err := uuid.Parse(resultID); err != nil {
		return nil, ErrNotFound
	}
	user, err := s.lookup(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, user.ID, resultID)
}

// Export returns the archived blob of one of the user's results.
func (s *Service) Export(ctx context.Context, externalUserID, resultID string) ([]byte, error) {
	rec, err := s.Get(ctx, externalUserID, resultID)
	if err != nil {
		return nil, err
	}
	data, err := s.store.GetResult(ctx, rec.UserID, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("get result blob: %w", err)
	}
	return data, nil
}
