package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"meetsync/models"

	"go.uber.org/zap"
)

// ErrNoResults is returned when no solver response has been received yet.
var ErrNoResults = errors.New("no meeting suggestions available yet")

// SnapshotReader is the part of the availability store a submission needs.
type SnapshotReader interface {
	Snapshot() models.StoreSnapshot
}

// SubmissionService validates the store, calls the solver and keeps the most
// recent response.
type SubmissionService interface {
	Submit(ctx context.Context, hours *models.HoursWindow) (*models.SolverResponse, error)
	SubmitAsync(hours *models.HoursWindow, done func(*models.SolverResponse, error)) error
	Latest() (*Result, error)
}

// Result is a solver response together with the time it arrived.
type Result struct {
	Response   *models.SolverResponse `json:"response"`
	ReceivedAt time.Time              `json:"receivedAt"`
}

type DefaultSubmissionService struct {
	store  SnapshotReader
	client SolverClient
	cache  SuggestionCache
	guard  Guard
	topK   int
	logger *zap.Logger

	mu     sync.RWMutex
	latest *Result
}

// NewDefaultSubmissionService wires the service. cache may be nil.
func NewDefaultSubmissionService(
	store SnapshotReader,
	client SolverClient,
	cache SuggestionCache,
	topK int,
	logger *zap.Logger,
) (*DefaultSubmissionService, error) {
	if store == nil || client == nil {
		return nil, fmt.Errorf("submission service initialization error: store or solver client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultSubmissionService{
		store:  store,
		client: client,
		cache:  cache,
		topK:   topK,
		logger: logger,
	}, nil
}

// prepare validates a snapshot and builds the wire body from it.
func (s *DefaultSubmissionService) prepare(hours *models.HoursWindow) (models.SolverRequest, error) {
	snap := s.store.Snapshot()
	if err := s.guard.Validate(len(snap.Users), hours, snap.MeetingLengthMinutes); err != nil {
		s.logger.Warn("Submission rejected", zap.Error(err))
		return models.SolverRequest{}, err
	}
	return BuildRequest(snap, hours, s.topK), nil
}

// Submit blocks until the solver answers or ctx is done.
func (s *DefaultSubmissionService) Submit(ctx context.Context, hours *models.HoursWindow) (*models.SolverResponse, error) {
	req, err := s.prepare(hours)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, req)
}

// SubmitAsync validates synchronously, then calls the solver on its own
// goroutine. There is no correlation between overlapping calls: whichever
// response arrives last becomes the latest result. done may be nil.
func (s *DefaultSubmissionService) SubmitAsync(hours *models.HoursWindow, done func(*models.SolverResponse, error)) error {
	req, err := s.prepare(hours)
	if err != nil {
		return err
	}
	go func() {
		resp, err := s.call(context.Background(), req)
		if err != nil {
			s.logger.Error("Async submission failed", zap.Error(err))
		}
		if done != nil {
			done(resp, err)
		}
	}()
	return nil
}

func (s *DefaultSubmissionService) call(ctx context.Context, req models.SolverRequest) (*models.SolverResponse, error) {
	key := ""
	if s.cache != nil {
		var err error
		if key, err = CacheKey(req); err != nil {
			s.logger.Warn("Suggestion cache key failed", zap.Error(err))
		} else if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("Suggestion cache read failed", zap.Error(err))
		} else if ok {
			s.logger.Debug("Suggestion cache hit", zap.String("key", key))
			s.remember(cached)
			return cached, nil
		}
	}

	resp, err := s.client.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Solver returned suggestions",
		zap.Int("attendees", len(req.Availability)),
		zap.Int("suggestions", len(resp.Suggestions)))

	if s.cache != nil && key != "" {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.logger.Warn("Suggestion cache write failed", zap.Error(err))
		}
	}
	s.remember(resp)
	return resp, nil
}

func (s *DefaultSubmissionService) remember(resp *models.SolverResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &Result{Response: resp, ReceivedAt: time.Now()}
}

// Latest returns the most recently received response or ErrNoResults.
func (s *DefaultSubmissionService) Latest() (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNoResults
	}
	return s.latest, nil
}
