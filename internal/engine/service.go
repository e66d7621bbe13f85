package engine

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"cavern-combat/internal/domain"
	"cavern-combat/internal/network"
	"cavern-combat/pkg/api"
	"cavern-combat/pkg/dungeon"
	"cavern-combat/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session - один бой, запущенный через сервис.
// Поля меняет только горутина боя, читатели берут снимок через View.
type Session struct {
	ID        string
	Search    bool
	StartedAt time.Time

	mu      sync.RWMutex
	status  string
	round   int
	grid    api.GridMeta
	outcome *api.OutcomeView
	err     string

	cancel context.CancelFunc
	done   chan struct{}
}

// View возвращает DTO для клиента
func (s *Session) View() api.BattleView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return api.BattleView{
		ID:        s.ID,
		Status:    s.status,
		Search:    s.Search,
		Round:     s.round,
		Grid:      s.grid,
		StartedAt: s.StartedAt.UnixMilli(),
		Outcome:   s.outcome,
		Error:     s.err,
	}
}

// Done закрывается, когда горутина боя завершилась.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop прерывает бой между раундами.
func (s *Session) Stop() {
	s.cancel()
}

func (s *Session) setRound(round int) {
	s.mu.Lock()
	s.round = round
	s.mu.Unlock()
}

func (s *Session) finish(outcome *api.OutcomeView, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = api.StatusFailed
		s.err = err.Error()
		return
	}
	s.status = api.StatusFinished
	s.outcome = outcome
}

// BattleService запускает бои в отдельных горутинах и транслирует раунды зрителям через Hub.
type BattleService struct {
	Hub *network.Broadcaster

	cfg Config
	ctx context.Context
	log *logrus.Entry

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewBattleService создает сервис. Отмена ctx останавливает все бои.
func NewBattleService(ctx context.Context, cfg Config) *BattleService {
	return &BattleService{
		Hub:      network.NewBroadcaster(),
		cfg:      cfg,
		ctx:      ctx,
		log:      logger.ForComponent("battle_service"),
		sessions: make(map[string]*Session),
	}
}

// Start разбирает раскладку и запускает бой. Ошибка разбора возвращается сразу,
// все остальное происходит в горутине боя.
func (s *BattleService) Start(req api.StartBattleRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedMap, err)
	}

	m, roster, err := dungeon.ParseBattle(req.Layout)
	if err != nil {
		return nil, err
	}

	cfg := s.cfg
	if req.ElfPower > 0 {
		cfg.ElfPower = req.ElfPower
	}
	if req.GoblinPower > 0 {
		cfg.GoblinPower = req.GoblinPower
	}

	// Проверяем стартовое состояние до запуска горутины
	if _, err := NewBattle("validate", m, roster.Clone(), cfg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(s.ctx)
	sess := &Session{
		ID:        uuid.NewString(),
		Search:    req.Search,
		StartedAt: time.Now(),
		status:    api.StatusRunning,
		grid:      api.GridMeta{Width: m.Width(), Height: m.Height()},
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	// Тема открывается до ответа клиенту, чтобы зритель не опоздал к первому снимку
	s.Hub.OpenTopic(sess.ID)

	s.log.WithFields(logrus.Fields{
		"battle_id": sess.ID,
		"search":    sess.Search,
		"units":     roster.Len(),
	}).Info("Battle session started.")

	go s.run(ctx, sess, m, roster, cfg)
	return sess, nil
}

// Get ищет сессию по ID
func (s *BattleService) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// List возвращает все сессии, старые первыми.
func (s *BattleService) List() []api.BattleView {
	s.mu.RLock()
	views := make([]api.BattleView, 0, len(s.sessions))
	for _, sess := range s.sessions {
		views = append(views, sess.View())
	}
	s.mu.RUnlock()

	slices.SortFunc(views, func(a, b api.BattleView) int {
		if c := cmp.Compare(a.StartedAt, b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return views
}

// --- BATTLE LOOP ---

func (s *BattleService) run(ctx context.Context, sess *Session, m *domain.GridMap, initial *domain.Roster, cfg Config) {
	defer s.retire(sess.ID, cfg.SessionTTL)
	defer close(sess.done)
	defer s.Hub.CloseTopic(sess.ID)
	defer sess.cancel()

	log := s.log.WithField("battle_id", sess.ID)

	if sess.Search {
		res, err := FindMinimumWinningPower(ctx, m, initial, cfg.Protected(), cfg)
		if err != nil {
			s.fail(sess, log, err)
			return
		}
		cfg = cfg.WithAttackPower(res.Protected, res.Power)
		log.WithFields(logrus.Fields{
			"power":  res.Power,
			"trials": len(res.Trials),
		}).Info("Power search finished, replaying the winning trial.")
	}

	roster := initial.Clone()
	cfg.Apply(roster)

	b, err := NewBattle(sess.ID, m, roster, cfg)
	if err != nil {
		s.fail(sess, log, err)
		return
	}

	s.Hub.Publish(sess.ID, BuildSnapshot(sess.ID, api.SnapshotRound, 0, m, roster))
	b.OnRound = func(r RoundReport) {
		sess.setRound(r.Round)
		if r.Status != RoundComplete {
			return
		}
		s.Hub.Publish(sess.ID, BuildSnapshot(sess.ID, api.SnapshotRound, r.Round, m, r.Roster))
		s.pause(ctx, cfg.RoundDelay)
	}

	outcome, err := b.Run(ctx)
	if err != nil {
		s.fail(sess, log, err)
		return
	}

	view := toOutcomeView(outcome, cfg.ElfPower)
	sess.finish(view, nil)

	final := BuildSnapshot(sess.ID, api.SnapshotOutcome, outcome.Rounds, m, roster)
	final.Outcome = view
	s.Hub.Publish(sess.ID, final)

	log.WithFields(logrus.Fields{
		"rounds": outcome.Rounds,
		"score":  outcome.Score,
		"winner": outcome.Winner.String(),
	}).Info("Battle session finished.")
}

func (s *BattleService) fail(sess *Session, log *logrus.Entry, err error) {
	sess.finish(nil, err)
	s.Hub.Publish(sess.ID, api.RoundSnapshot{
		Type:     api.SnapshotError,
		BattleID: sess.ID,
		Round:    sess.View().Round,
		Error:    err.Error(),
	})
	log.WithError(err).Warn("Battle session failed.")
}

// retire убирает законченную сессию из сервиса через ttl.
func (s *BattleService) retire(id string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	time.AfterFunc(ttl, func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		s.log.WithField("battle_id", id).Debug("Battle session evicted.")
	})
}

// pause ждет между раундами, чтобы зрители успевали смотреть.
func (s *BattleService) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// BuildSnapshot собирает снимок поля для зрителя.
func BuildSnapshot(battleID, kind string, round int, m *domain.GridMap, roster *domain.Roster) api.RoundSnapshot {
	living := roster.Living()
	units := make([]api.UnitView, 0, len(living))
	for _, u := range living {
		view := api.UnitView{
			ID:          int(u.ID),
			Faction:     u.Faction.String(),
			Symbol:      string(u.Faction.Symbol()),
			HP:          u.Stats.HP,
			AttackPower: u.Stats.AttackPower,
		}
		view.Pos.X = u.Pos.X
		view.Pos.Y = u.Pos.Y
		units = append(units, view)
	}

	return api.RoundSnapshot{
		Type:     kind,
		BattleID: battleID,
		Round:    round,
		Grid:     &api.GridMeta{Width: m.Width(), Height: m.Height()},
		Map:      dungeon.RenderGrid(m, roster),
		Units:    units,
	}
}

func toOutcomeView(o Outcome, elfPower int) *api.OutcomeView {
	losses := make(map[string]int, len(o.Losses))
	for f, n := range o.Losses {
		losses[f.String()] = n
	}
	return &api.OutcomeView{
		Winner:    o.Winner.String(),
		Rounds:    o.Rounds,
		HitPoints: o.HitPoints,
		Score:     o.Score,
		Losses:    losses,
		ElfPower:  elfPower,
	}
}
