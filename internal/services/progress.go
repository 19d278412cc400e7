package services

import (
	"context"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type RecordAttemptRequest struct {
	WordID           uuid.UUID
	LessonID         *uuid.UUID
	IsCorrect        bool
	TimeSpentSeconds int
}

type EndSessionRequest struct {
	LessonIDs       []uuid.UUID
	WordIDs         []uuid.UUID
	AverageAccuracy float64
}

// ProgressService is the write surface for a signed-in learner: answer
// attempts, study sessions and block tests. Every call is one aggregate
// transaction.
type ProgressService interface {
	RecordAttempt(ctx context.Context, userID uuid.UUID, req RecordAttemptRequest) (domainagg.RecordAttemptResult, error)

	StartSession(ctx context.Context, userID uuid.UUID) (domainagg.StartSessionResult, error)
	EndSession(ctx context.Context, userID, sessionID uuid.UUID, req EndSessionRequest) (domainagg.EndSessionResult, error)

	StartBlockTest(ctx context.Context, userID, blockID uuid.UUID) (domainagg.StartBlockTestResult, error)
	SubmitBlockTest(ctx context.Context, userID, testID uuid.UUID, answers map[string]string) (domainagg.SubmitBlockTestResult, error)
}

type progressService struct {
	log        *logger.Logger
	attempts   domainagg.ProgressAggregate
	sessions   domainagg.SessionAggregate
	blockTests domainagg.BlockTestAggregate
}

func NewProgressService(
	log *logger.Logger,
	attempts domainagg.ProgressAggregate,
	sessions domainagg.SessionAggregate,
	blockTests domainagg.BlockTestAggregate,
) ProgressService {
	return &progressService{
		log:        log.With("service", "ProgressService"),
		attempts:   attempts,
		sessions:   sessions,
		blockTests: blockTests,
	}
}

func (s *progressService) RecordAttempt(ctx context.Context, userID uuid.UUID, req RecordAttemptRequest) (domainagg.RecordAttemptResult, error) {
	res, err := s.attempts.RecordAttempt(ctx, domainagg.RecordAttemptInput{
		UserID:           userID,
		WordID:           req.WordID,
		LessonID:         req.LessonID,
		IsCorrect:        req.IsCorrect,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		return res, err
	}
	if res.LessonCompleted || res.BlockCompleted {
		s.log.Info("progress milestone",
			"user_id", userID,
			"lesson_id", res.LessonID,
			"lesson_completed", res.LessonCompleted,
			"block_completed", res.BlockCompleted,
		)
	}
	return res, nil
}

func (s *progressService) StartSession(ctx context.Context, userID uuid.UUID) (domainagg.StartSessionResult, error) {
	return s.sessions.Start(ctx, domainagg.StartSessionInput{UserID: userID})
}

func (s *progressService) EndSession(ctx context.Context, userID, sessionID uuid.UUID, req EndSessionRequest) (domainagg.EndSessionResult, error) {
	return s.sessions.End(ctx, domainagg.EndSessionInput{
		UserID:          userID,
		SessionID:       sessionID,
		LessonIDs:       req.LessonIDs,
		WordIDs:         req.WordIDs,
		AverageAccuracy: req.AverageAccuracy,
	})
}

func (s *progressService) StartBlockTest(ctx context.Context, userID, blockID uuid.UUID) (domainagg.StartBlockTestResult, error) {
	return s.blockTests.Start(ctx, domainagg.StartBlockTestInput{UserID: userID, BlockID: blockID})
}

func (s *progressService) SubmitBlockTest(ctx context.Context, userID, testID uuid.UUID, answers map[string]string) (domainagg.SubmitBlockTestResult, error) {
	res, err := s.blockTests.Submit(ctx, domainagg.SubmitBlockTestInput{
		UserID:  userID,
		TestID:  testID,
		Answers: answers,
	})
	if err != nil {
		return res, err
	}
	s.log.Info("block test submitted", "user_id", userID, "test_id", testID, "score", res.Score, "passed", res.IsPassed)
	return res, nil
}
