package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/lexiprogress-backend/internal/data/repos"
	types "github.com/yungbote/lexiprogress-backend/internal/domain"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/learning/progress"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

const (
	DefaultHistoryDays    = 30
	DefaultRecentSessions = 5
)

type UserSummary struct {
	ID               uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	TelegramUsername string     `json:"telegram_username"`
	IsPaid           bool       `json:"is_paid"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
}

type DashboardStats struct {
	TotalWords            int     `json:"total_words"`
	LearnedWords          int     `json:"learned_words"`
	ProgressPercentage    float64 `json:"progress_percentage"`
	TotalStudyTimeMinutes int     `json:"total_study_time_minutes"`
	TotalSessions         int     `json:"total_sessions"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	TodayWords            int     `json:"today_words"`
	TodayLessons          int     `json:"today_lessons"`
	TodayMinutes          int     `json:"today_minutes"`
}

type AchievementView struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

type Dashboard struct {
	User         UserSummary       `json:"user"`
	Stats        DashboardStats    `json:"stats"`
	Blocks       []BlockView       `json:"blocks"`
	Achievements []AchievementView `json:"achievements"`
}

type HistoryOverview struct {
	TotalWords            int     `json:"total_words"`
	LearnedWords          int     `json:"learned_words"`
	ProgressPercentage    float64 `json:"progress_percentage"`
	TotalStudyTimeMinutes int     `json:"total_study_time_minutes"`
	TotalSessions         int     `json:"total_sessions"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	AverageAccuracy       float64 `json:"average_accuracy"`
}

type ChartPoint struct {
	Date               string  `json:"date"`
	WordsLearned       int     `json:"words_learned"`
	LessonsCompleted   int     `json:"lessons_completed"`
	TimeStudiedMinutes int     `json:"time_studied_minutes"`
	Accuracy           float64 `json:"accuracy"`
}

type BlockAccuracy struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	TotalWords         int       `json:"total_words"`
	LearnedWords       int       `json:"learned_words"`
	ProgressPercentage float64   `json:"progress_percentage"`
	IsCompleted        bool      `json:"is_completed"`
	Accuracy           float64   `json:"accuracy"`
}

type StudyHabits struct {
	FavoriteTime       progress.TimeOfDay `json:"favorite_time"`
	AverageSessionTime float64            `json:"average_session_time"`
	WordsPerDay        float64            `json:"words_per_day"`
	TotalStudyDays     int                `json:"total_study_days"`
}

type History struct {
	Overview         HistoryOverview            `json:"overview"`
	Chart            []ChartPoint               `json:"chart_data"`
	Blocks           []BlockAccuracy            `json:"blocks_progress"`
	TimeDistribution map[progress.TimeOfDay]int `json:"time_distribution"`
	Achievements     []AchievementView          `json:"achievements"`
	Habits           StudyHabits                `json:"study_habits"`
}

type SessionView struct {
	ID              uuid.UUID  `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	LessonsCount    int        `json:"lessons_count"`
	WordsCount      int        `json:"words_count"`
	Accuracy        float64    `json:"accuracy"`
}

// DashboardService builds the read models behind the dashboard and
// progress pages.
type DashboardService interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	History(ctx context.Context, userID uuid.UUID, days int) (*History, error)
	RecentSessions(ctx context.Context, userID uuid.UUID, limit int) ([]SessionView, error)
}

type dashboardService struct {
	log      *logger.Logger
	repos    repos.Set
	catalog  CatalogService
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(log *logger.Logger, set repos.Set, catalog CatalogService, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		log:      log.With("service", "DashboardService"),
		repos:    set,
		catalog:  catalog,
		location: loc,
		now:      time.Now,
	}
}

func (s *dashboardService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	const op = "Progress.Dashboard"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	var (
		user    *types.User
		stats   *types.UserStats
		today   *types.DailyProgress
		blocks  []BlockView
		awards  []*types.UserAchievement
		learned int
	)
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.repos.Users.GetByID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.repos.Stats.GetByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		today, err = s.repos.Daily.GetByUserAndDate(dbctx.Context{Ctx: gctx}, userID, progress.CalendarDay(now, s.location))
		return err
	})
	g.Go(func() (err error) {
		blocks, err = s.catalog.ListBlocks(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		awards, err = s.repos.UserAchievements.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		learned, err = s.repos.Mastery.CountLearned(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("dashboard load failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("load dashboard: %w", err)
	}
	if user == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "user not found", nil)
	}

	totalWords := lo.SumBy(blocks, func(b BlockView) int { return b.TotalWords })
	out := &Dashboard{
		User: UserSummary{
			ID:               user.ID,
			Username:         user.Username,
			TelegramUsername: user.TelegramUsername,
			IsPaid:           user.IsPaid,
			PaymentDate:      user.PaymentDate,
		},
		Stats: DashboardStats{
			TotalWords:         totalWords,
			LearnedWords:       learned,
			ProgressPercentage: progress.Percentage(learned, totalWords),
		},
		Blocks:       blocks,
		Achievements: achievementViews(awards),
	}
	if stats != nil {
		out.Stats.TotalStudyTimeMinutes = stats.TotalStudyTimeMinutes
		out.Stats.TotalSessions = stats.TotalSessions
		out.Stats.CurrentStreak = stats.CurrentStreak
		out.Stats.LongestStreak = stats.LongestStreak
	}
	if today != nil {
		out.Stats.TodayWords = today.WordsLearned
		out.Stats.TodayLessons = today.LessonsCompleted
		out.Stats.TodayMinutes = today.TimeStudiedMinutes
	}
	return out, nil
}

func (s *dashboardService) History(ctx context.Context, userID uuid.UUID, days int) (*History, error) {
	const op = "Progress.History"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if days <= 0 {
		days = DefaultHistoryDays
	}
	if days > 366 {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "days must be at most 366", nil)
	}
	now := s.now()
	chartDays := progress.ChartDays(now, days, s.location)
	windowStart := progress.DayStart(chartDays[0], s.location)

	var (
		stats     *types.UserStats
		dailyRows []*types.DailyProgress
		mastery   []*types.WordMastery
		blocks    []*types.Block
		sessions  []*types.StudySession
		awards    []*types.UserAchievement
		studyDays int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = s.repos.Stats.GetByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		dailyRows, err = s.repos.Daily.ListByUserBetween(dbctx.Context{Ctx: gctx}, userID, chartDays[0], chartDays[len(chartDays)-1])
		return err
	})
	g.Go(func() (err error) {
		mastery, err = s.repos.Mastery.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		blocks, err = s.repos.Blocks.ListActive(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.repos.Sessions.ListEndedByUserSince(dbctx.Context{Ctx: gctx}, userID, windowStart)
		return err
	})
	g.Go(func() (err error) {
		awards, err = s.repos.UserAchievements.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() (err error) {
		studyDays, err = s.repos.Daily.CountStudyDays(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("history load failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("load history: %w", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	masteryByWord := lo.KeyBy(mastery, func(m *types.WordMastery) uuid.UUID { return m.WordID })
	blockRows, err := s.blockAccuracies(dbc, userID, blocks, masteryByWord)
	if err != nil {
		return nil, err
	}

	learned := lo.CountBy(mastery, func(m *types.WordMastery) bool { return m.IsLearned })
	totalWords := lo.SumBy(blockRows, func(b BlockAccuracy) int { return b.TotalWords })
	out := &History{
		Overview: HistoryOverview{
			TotalWords:         totalWords,
			LearnedWords:       learned,
			ProgressPercentage: progress.Percentage(learned, totalWords),
			AverageAccuracy:    progress.MeanAccuracy(masteryAccuracies(mastery)),
		},
		Chart:            chartPoints(chartDays, dailyRows),
		Blocks:           blockRows,
		TimeDistribution: timeDistribution(sessions, s.location),
		Achievements:     achievementViews(awards),
	}
	if stats != nil {
		out.Overview.TotalStudyTimeMinutes = stats.TotalStudyTimeMinutes
		out.Overview.TotalSessions = stats.TotalSessions
		out.Overview.CurrentStreak = stats.CurrentStreak
		out.Overview.LongestStreak = stats.LongestStreak
	}

	out.Habits = StudyHabits{
		FavoriteTime:   progress.FavoriteTime(out.TimeDistribution),
		TotalStudyDays: studyDays,
	}
	if out.Overview.TotalSessions > 0 {
		out.Habits.AverageSessionTime = progress.Round(float64(out.Overview.TotalStudyTimeMinutes)/float64(out.Overview.TotalSessions), 1)
	}
	if studyDays > 0 {
		out.Habits.WordsPerDay = progress.Round(float64(learned)/float64(studyDays), 1)
	}
	return out, nil
}

func (s *dashboardService) blockAccuracies(dbc dbctx.Context, userID uuid.UUID, blocks []*types.Block, masteryByWord map[uuid.UUID]*types.WordMastery) ([]BlockAccuracy, error) {
	ids := lo.Map(blocks, func(b *types.Block, _ int) uuid.UUID { return b.ID })
	progressRows, err := s.repos.BlockProgress.ListByUserAndBlocks(dbc, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list block progress: %w", err)
	}
	completed := lo.KeyBy(progressRows, func(p *types.BlockProgress) uuid.UUID { return p.BlockID })

	out := make([]BlockAccuracy, 0, len(blocks))
	for _, b := range blocks {
		words, err := s.repos.Words.ListActiveByBlock(dbc, b.ID)
		if err != nil {
			return nil, fmt.Errorf("list block words: %w", err)
		}
		var accs []float64
		learned := 0
		for _, w := range words {
			m := masteryByWord[w.ID]
			if m == nil {
				continue
			}
			accs = append(accs, progress.Accuracy(m.CorrectCount, m.TotalAttempts))
			if m.IsLearned {
				learned++
			}
		}
		row := BlockAccuracy{
			ID:                 b.ID,
			Title:              b.Title,
			TotalWords:         len(words),
			LearnedWords:       learned,
			ProgressPercentage: progress.Percentage(learned, len(words)),
			Accuracy:           progress.MeanAccuracy(accs),
		}
		if p := completed[b.ID]; p != nil {
			row.IsCompleted = p.IsCompleted
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *dashboardService) RecentSessions(ctx context.Context, userID uuid.UUID, limit int) ([]SessionView, error) {
	const op = "Progress.RecentSessions"
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if limit <= 0 {
		limit = DefaultRecentSessions
	}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.repos.Sessions.ListRecentByUser(dbc, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	links, err := s.repos.Sessions.CountLinks(dbc, lo.Map(rows, func(r *types.StudySession, _ int) uuid.UUID { return r.ID }))
	if err != nil {
		return nil, fmt.Errorf("count session links: %w", err)
	}
	return lo.Map(rows, func(r *types.StudySession, _ int) SessionView {
		return SessionView{
			ID:              r.ID,
			StartTime:       r.StartTime,
			EndTime:         r.EndTime,
			DurationMinutes: r.DurationMinutes,
			LessonsCount:    links[r.ID].Lessons,
			WordsCount:      links[r.ID].Words,
			Accuracy:        r.AverageAccuracy,
		}
	}), nil
}

func achievementViews(rows []*types.UserAchievement) []AchievementView {
	out := make([]AchievementView, 0, len(rows))
	for _, ua := range rows {
		if ua == nil || ua.Achievement == nil {
			continue
		}
		out = append(out, AchievementView{
			Type:        ua.Achievement.Type,
			Name:        ua.Achievement.Name,
			Description: ua.Achievement.Description,
			Icon:        ua.Achievement.Icon,
			EarnedAt:    ua.EarnedAt,
		})
	}
	return out
}

func masteryAccuracies(rows []*types.WordMastery) []float64 {
	return lo.Map(rows, func(m *types.WordMastery, _ int) float64 {
		return progress.Accuracy(m.CorrectCount, m.TotalAttempts)
	})
}

func chartPoints(days []time.Time, rows []*types.DailyProgress) []ChartPoint {
	byDay := make(map[string]*types.DailyProgress, len(rows))
	for _, r := range rows {
		byDay[r.Date.UTC().Format(time.DateOnly)] = r
	}
	out := make([]ChartPoint, 0, len(days))
	for _, d := range days {
		key := d.Format(time.DateOnly)
		p := ChartPoint{Date: key}
		if r := byDay[key]; r != nil {
			p.WordsLearned = r.WordsLearned
			p.LessonsCompleted = r.LessonsCompleted
			p.TimeStudiedMinutes = r.TimeStudiedMinutes
			p.Accuracy = r.Accuracy
		}
		out = append(out, p)
	}
	return out
}

func timeDistribution(sessions []*types.StudySession, loc *time.Location) map[progress.TimeOfDay]int {
	out := make(map[progress.TimeOfDay]int, len(progress.TimesOfDay))
	for _, tod := range progress.TimesOfDay {
		out[tod] = 0
	}
	for _, s := range sessions {
		out[progress.TimeOfDayOf(s.StartTime, loc)] += s.DurationMinutes
	}
	return out
}
