package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/reward"
	"github.com/at-ishikawa/verbdrill/internal/statistics"
	"github.com/at-ishikawa/verbdrill/internal/user"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

// SelectRequest asks for a practice batch. A zero Limit uses the configured default.
type SelectRequest struct {
	UserID int64 `json:"user_id" validate:"gt=0"`
	Limit  int   `json:"limit" validate:"gte=0"`
}

// OutcomeRequest reports one answer.
type OutcomeRequest struct {
	UserID  int64 `json:"user_id" validate:"gt=0"`
	VerbID  int64 `json:"verb_id" validate:"gt=0"`
	Correct bool  `json:"correct"`
}

// InitRequest enrolls a user in the whole catalog.
type InitRequest struct {
	UserID int64 `json:"user_id" validate:"gt=0"`
}

// ListRequest lists the progress of a user.
type ListRequest struct {
	UserID int64 `json:"user_id" validate:"gt=0"`
}

// StatsRequest asks for the statistics of a user.
type StatsRequest struct {
	UserID int64 `json:"user_id" validate:"gt=0"`
}

// Summary is returned after an answer has been recorded.
type Summary struct {
	VerbID   int64     `json:"verb_id" yaml:"verb_id"`
	Correct  bool      `json:"correct" yaml:"correct"`
	Streak   int       `json:"streak" yaml:"streak"`
	Mistakes int       `json:"mistakes" yaml:"mistakes"`
	DueAt    time.Time `json:"due_at" yaml:"due_at"`
	Reward   int       `json:"reward" yaml:"reward"`
}

// Entry is a progress record with its verb.
type Entry struct {
	Verb   verb.Verb       `json:"verb" yaml:"verb"`
	Record progress.Record `json:"progress" yaml:"progress"`
}

// Service is the entry point for callers. It validates requests, checks that
// users and verbs exist and stamps every operation with the current time.
type Service struct {
	users       user.Repository
	catalog     verb.Repository
	store       progress.Repository
	selector    *Selector
	updater     *Updater
	initializer *Initializer

	validate     *validator.Validate
	trans        ut.Translator
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service. A nil sink discards rewards.
func NewService(
	users user.Repository,
	catalog verb.Repository,
	store progress.Repository,
	sink reward.Sink,
	cfg config.PracticeConfig,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	validate, trans, err := config.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("config.NewValidator() > %w", err)
	}
	s := &Service{
		users:        users,
		catalog:      catalog,
		store:        store,
		selector:     NewSelector(store, catalog, logger),
		updater:      NewUpdater(store, sink, logger),
		initializer:  NewInitializer(store),
		validate:     validate,
		trans:        trans,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SelectPractice returns the next batch of verbs for the user.
func (s *Service) SelectPractice(ctx context.Context, req SelectRequest) ([]verb.Verb, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		return nil, fmt.Errorf("%w: limit must be %d or less", ErrInvalidArgument, s.maxLimit)
	}
	if _, err := s.findUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	return s.selector.Select(ctx, req.UserID, limit, s.timestamp())
}

// SubmitOutcome records an answer and returns the new schedule of the verb.
func (s *Service) SubmitOutcome(ctx context.Context, req OutcomeRequest) (Summary, error) {
	if err := s.validateRequest(req); err != nil {
		return Summary{}, err
	}
	if _, err := s.findUser(ctx, req.UserID); err != nil {
		return Summary{}, err
	}
	v, err := s.catalog.FindByID(ctx, req.VerbID)
	if err != nil {
		return Summary{}, fmt.Errorf("catalog.FindByID() > %w", err)
	}
	if v == nil {
		return Summary{}, fmt.Errorf("verb %d: %w", req.VerbID, ErrNotFound)
	}

	result, err := s.updater.RecordAnswer(ctx, req.UserID, req.VerbID, req.Correct, s.timestamp())
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		VerbID:   req.VerbID,
		Correct:  req.Correct,
		Streak:   result.Record.Streak,
		Mistakes: result.Record.Mistakes,
		DueAt:    result.Record.DueAt,
		Reward:   result.Reward,
	}, nil
}

// InitializeUser enrolls the user in every verb and returns how many records were created.
func (s *Service) InitializeUser(ctx context.Context, req InitRequest) (int, error) {
	if err := s.validateRequest(req); err != nil {
		return 0, err
	}
	if _, err := s.findUser(ctx, req.UserID); err != nil {
		return 0, err
	}
	return s.initializer.Initialize(ctx, req.UserID, s.timestamp())
}

// ListProgress returns the user's records, weakest first, with their verbs.
func (s *Service) ListProgress(ctx context.Context, req ListRequest) ([]Entry, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	records, err := s.store.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("store.ListByUser() > %w", err)
	}
	if len(records) == 0 {
		return []Entry{}, nil
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.VerbID)
	}
	verbs, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog.FindByIDs() > %w", err)
	}
	byID := make(map[int64]verb.Verb, len(verbs))
	for _, v := range verbs {
		byID[v.ID] = v
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		v, ok := byID[rec.VerbID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Verb: v, Record: rec})
	}
	return entries, nil
}

// UserStats summarizes the user's progress.
func (s *Service) UserStats(ctx context.Context, req StatsRequest) (statistics.Statistics, error) {
	if err := s.validateRequest(req); err != nil {
		return statistics.Statistics{}, err
	}
	u, err := s.findUser(ctx, req.UserID)
	if err != nil {
		return statistics.Statistics{}, err
	}
	total, err := s.catalog.Count(ctx)
	if err != nil {
		return statistics.Statistics{}, fmt.Errorf("catalog.Count() > %w", err)
	}
	records, err := s.store.ListByUser(ctx, req.UserID)
	if err != nil {
		return statistics.Statistics{}, fmt.Errorf("store.ListByUser() > %w", err)
	}
	return statistics.Calculate(*u, total, records, s.timestamp()), nil
}

func (s *Service) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, config.TranslateError(err, s.trans))
		}
		return fmt.Errorf("validate.Struct() > %w", err)
	}
	return nil
}

func (s *Service) findUser(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("users.FindByID() > %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return u, nil
}

// timestamp is the current time at the precision every store keeps.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}
