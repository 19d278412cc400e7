package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/learning/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

type WordView struct {
	ID                 uuid.UUID `json:"id"`
	Term               string    `json:"term"`
	Translation        string    `json:"translation"`
	Transcription      string    `json:"transcription"`
	Example            string    `json:"example"`
	ExampleTranslation string    `json:"example_translation"`
	AudioURL           string    `json:"audio_url,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	Order              int       `json:"order"`
	IsLearned          bool      `json:"is_learned"`
	Accuracy           float64   `json:"accuracy"`
	CorrectCount       int       `json:"correct_count"`
	TotalAttempts      int       `json:"total_attempts"`
}

type LessonProgressView struct {
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Accuracy         float64    `json:"accuracy"`
	TimeSpentMinutes int        `json:"time_spent_minutes"`
}

type LessonView struct {
	ID       uuid.UUID          `json:"id"`
	BlockID  uuid.UUID          `json:"block_id"`
	Title    string             `json:"title"`
	Order    int                `json:"order"`
	IsLocked bool               `json:"is_locked"`
	Progress LessonProgressView `json:"progress"`
	Words    []WordView         `json:"words,omitempty"`
}

type BlockProgressView struct {
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	LessonsCompleted int        `json:"lessons_completed"`
	TotalLessons     int        `json:"total_lessons"`
	OverallAccuracy  float64    `json:"overall_accuracy"`
}

type BlockView struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Order        int               `json:"order"`
	IsLocked     bool              `json:"is_locked"`
	TotalWords   int               `json:"total_words"`
	LearnedWords int               `json:"learned_words"`
	Progress     BlockProgressView `json:"progress"`
}

type BlockDetail struct {
	Block   BlockView    `json:"block"`
	Lessons []LessonView `json:"lessons"`
}

type LessonDetail struct {
	Lesson     LessonView `json:"lesson"`
	BlockTitle string     `json:"block_title"`
	Words      []WordView `json:"words"`
}

// CatalogService serves the content tree with the user's progress and lock
// state folded in. It only reads committed state.
type CatalogService interface {
	ListBlocks(ctx context.Context, userID uuid.UUID) ([]BlockView, error)
	BlockDetail(ctx context.Context, userID, blockID uuid.UUID) (*BlockDetail, error)
	LessonDetail(ctx context.Context, userID, lessonID uuid.UUID) (*LessonDetail, error)
}

type catalogService struct {
	log            *logger.Logger
	blocks         repos.BlockRepo
	lessons        repos.LessonRepo
	words          repos.WordRepo
	mastery        repos.WordMasteryRepo
	lessonProgress repos.LessonProgressRepo
	blockProgress  repos.BlockProgressRepo
}

func NewCatalogService(log *logger.Logger, set repos.Set) CatalogService {
	return &catalogService{
		log:            log.With("service", "CatalogService"),
		blocks:         set.Blocks,
		lessons:        set.Lessons,
		words:          set.Words,
		mastery:        set.Mastery,
		lessonProgress: set.LessonProgress,
		blockProgress:  set.BlockProgress,
	}
}

func (s *catalogService) ListBlocks(ctx context.Context, userID uuid.UUID) ([]BlockView, error) {
	const op = "Catalog.ListBlocks"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	blocks, err := s.blocks.ListActive(dbc)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return s.blockViews(dbc, userID, blocks)
}

func (s *catalogService) blockViews(dbc dbctx.Context, userID uuid.UUID, blocks []*types.Block) ([]BlockView, error) {
	out := make([]BlockView, 0, len(blocks))
	if len(blocks) == 0 {
		return out, nil
	}
	ids := lo.Map(blocks, func(b *types.Block, _ int) uuid.UUID { return b.ID })

	rows, err := s.blockProgress.ListByUserAndBlocks(dbc, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list block progress: %w", err)
	}
	byBlock := lo.KeyBy(rows, func(p *types.BlockProgress) uuid.UUID { return p.BlockID })
	totals, err := s.words.CountActiveByBlocks(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count block words: %w", err)
	}
	learned, err := s.mastery.CountLearnedByBlocks(dbc, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("count learned block words: %w", err)
	}

	completed := map[uuid.UUID]bool{}
	for id, p := range byBlock {
		completed[id] = p.IsCompleted
	}
	locks := progress.LockMap(lo.Map(blocks, func(b *types.Block, _ int) progress.OrderedItem {
		return progress.OrderedItem{ID: b.ID, Order: b.Order}
	}), completed)

	for _, b := range blocks {
		v := BlockView{
			ID:           b.ID,
			Title:        b.Title,
			Description:  b.Description,
			Order:        b.Order,
			IsLocked:     locks[b.ID],
			TotalWords:   totals[b.ID],
			LearnedWords: learned[b.ID],
		}
		if p := byBlock[b.ID]; p != nil {
			v.Progress = BlockProgressView{
				IsCompleted:      p.IsCompleted,
				CompletedAt:      p.CompletedAt,
				LessonsCompleted: p.LessonsCompleted,
				TotalLessons:     p.TotalLessons,
				OverallAccuracy:  p.OverallAccuracy,
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *catalogService) BlockDetail(ctx context.Context, userID, blockID uuid.UUID) (*BlockDetail, error) {
	const op = "Catalog.BlockDetail"
	if userID == uuid.Nil || blockID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or block_id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	active, err := s.blocks.ListActive(dbc)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	block, ok := lo.Find(active, func(b *types.Block) bool { return b.ID == blockID })
	if !ok {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("block %s not found", blockID), nil)
	}
	views, err := s.blockViews(dbc, userID, active)
	if err != nil {
		return nil, err
	}
	view, _ := lo.Find(views, func(v BlockView) bool { return v.ID == block.ID })

	lessons, err := s.lessons.ListActiveByBlock(dbc, block.ID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	lessonViews, err := s.lessonViews(dbc, userID, lessons, true)
	if err != nil {
		return nil, err
	}
	return &BlockDetail{Block: view, Lessons: lessonViews}, nil
}

func (s *catalogService) LessonDetail(ctx context.Context, userID, lessonID uuid.UUID) (*LessonDetail, error) {
	const op = "Catalog.LessonDetail"
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id or lesson_id", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil || !lesson.IsActive {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("lesson %s not found", lessonID), nil)
	}
	block, err := s.blocks.GetByID(dbc, lesson.BlockID)
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	if block == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("block %s not found", lesson.BlockID), nil)
	}

	siblings, err := s.lessons.ListActiveByBlock(dbc, lesson.BlockID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	views, err := s.lessonViews(dbc, userID, siblings, false)
	if err != nil {
		return nil, err
	}
	view, ok := lo.Find(views, func(v LessonView) bool { return v.ID == lesson.ID })
	if !ok {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("lesson %s not found", lessonID), nil)
	}
	if view.IsLocked {
		s.log.Debug("lesson locked", "lesson_id", lesson.ID, "user_id", userID)
		return nil, domainagg.NewForbidden(op, domainagg.ReasonLessonLocked, "complete the previous lesson first")
	}

	words, err := s.wordViews(dbc, userID, lesson.ID)
	if err != nil {
		return nil, err
	}
	return &LessonDetail{Lesson: view, BlockTitle: block.Title, Words: words}, nil
}

// lessonViews resolves lock flags across the given active siblings and,
// when withWords is set, attaches each lesson's words.
func (s *catalogService) lessonViews(dbc dbctx.Context, userID uuid.UUID, lessons []*types.Lesson, withWords bool) ([]LessonView, error) {
	out := make([]LessonView, 0, len(lessons))
	if len(lessons) == 0 {
		return out, nil
	}
	ids := lo.Map(lessons, func(l *types.Lesson, _ int) uuid.UUID { return l.ID })
	rows, err := s.lessonProgress.ListByUserAndLessons(dbc, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}
	byLesson := lo.KeyBy(rows, func(p *types.LessonProgress) uuid.UUID { return p.LessonID })
	completed := map[uuid.UUID]bool{}
	for id, p := range byLesson {
		completed[id] = p.IsCompleted
	}
	locks := progress.LockMap(lo.Map(lessons, func(l *types.Lesson, _ int) progress.OrderedItem {
		return progress.OrderedItem{ID: l.ID, Order: l.Order}
	}), completed)

	for _, l := range lessons {
		v := LessonView{
			ID:       l.ID,
			BlockID:  l.BlockID,
			Title:    l.Title,
			Order:    l.Order,
			IsLocked: locks[l.ID],
		}
		if p := byLesson[l.ID]; p != nil {
			v.Progress = LessonProgressView{
				IsCompleted:      p.IsCompleted,
				CompletedAt:      p.CompletedAt,
				Accuracy:         p.Accuracy,
				TimeSpentMinutes: p.TimeSpentMinutes,
			}
		}
		if withWords {
			words, err := s.wordViews(dbc, userID, l.ID)
			if err != nil {
				return nil, err
			}
			v.Words = words
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *catalogService) wordViews(dbc dbctx.Context, userID, lessonID uuid.UUID) ([]WordView, error) {
	words, err := s.words.ListActiveByLesson(dbc, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	ids := lo.Map(words, func(w *types.Word, _ int) uuid.UUID { return w.ID })
	rows, err := s.mastery.ListByUserAndWords(dbc, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list mastery: %w", err)
	}
	byWord := lo.KeyBy(rows, func(m *types.WordMastery) uuid.UUID { return m.WordID })

	out := make([]WordView, 0, len(words))
	for _, w := range words {
		v := WordView{
			ID:                 w.ID,
			Term:               w.Term,
			Translation:        w.Translation,
			Transcription:      w.Transcription,
			Example:            w.Example,
			ExampleTranslation: w.ExampleTranslation,
			AudioURL:           w.AudioURL,
			ImageURL:           w.ImageURL,
			Order:              w.Order,
		}
		if m := byWord[w.ID]; m != nil {
			v.IsLearned = m.IsLearned
			v.CorrectCount = m.CorrectCount
			v.TotalAttempts = m.TotalAttempts
			v.Accuracy = progress.Round(progress.Accuracy(m.CorrectCount, m.TotalAttempts), 2)
		}
		out = append(out, v)
	}
	return out, nil
}
