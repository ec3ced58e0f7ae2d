// Package memory in-process implementation of the storage contracts.
// Все репозитории хранилища разделяют один мьютекс; транзакция держит его целиком
// и при ошибке откатывает состояние к снимку.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-MentorshipService/internal/domain"
)

type txKey struct{}

// Store общее состояние всех репозиториев
type Store struct {
	mu sync.Mutex

	sessions      map[uuid.UUID]*domain.Session
	profiles      map[uuid.UUID]*domain.MentorProfile
	stats         map[uuid.UUID]*domain.ParticipantStats
	relationships map[uuid.UUID]*domain.Relationship

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions:      make(map[uuid.UUID]*domain.Session),
		profiles:      make(map[uuid.UUID]*domain.MentorProfile),
		stats:         make(map[uuid.UUID]*domain.ParticipantStats),
		relationships: make(map[uuid.UUID]*domain.Relationship),
		now:           time.Now,
	}
}

func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{store: s}
}

func (s *Store) Mentors() *MentorRepository {
	return &MentorRepository{store: s}
}

func (s *Store) Stats() *StatsRepository {
	return &StatsRepository{store: s}
}

func (s *Store) Relationships() *RelationshipRepository {
	return &RelationshipRepository{store: s}
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// lock берет мьютекс, если вызывающий не внутри транзакции этого хранилища
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

type snapshot struct {
	sessions      map[uuid.UUID]*domain.Session
	profiles      map[uuid.UUID]*domain.MentorProfile
	stats         map[uuid.UUID]*domain.ParticipantStats
	relationships map[uuid.UUID]*domain.Relationship
}

// snapshot копирует карты. Значения не изменяются на месте, только заменяются,
// поэтому поверхностной копии достаточно.
func (s *Store) snapshot() snapshot {
	return snapshot{
		sessions:      copyMap(s.sessions),
		profiles:      copyMap(s.profiles),
		stats:         copyMap(s.stats),
		relationships: copyMap(s.relationships),
	}
}

func (s *Store) restore(snap snapshot) {
	s.sessions = snap.sessions
	s.profiles = snap.profiles
	s.stats = snap.stats
	s.relationships = snap.relationships
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TxManager транзакции поверх Store с тем же контрактом, что у txmanager
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			err = fmt.Errorf("memory: transaction panicked: %v", p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
