package participations

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chillele/studymate/internal/common"
	"github.com/chillele/studymate/internal/logging"
	"github.com/chillele/studymate/internal/server/studies"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*Participation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: map[int64]*Participation{}}
}

func (m *memoryRepo) Create(ctx context.Context, p *Participation) (*Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.byID[p.ID] = p
	return p, nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id int64) (*Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (m *memoryRepo) Exists(ctx context.Context, studyID int64, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.StudyID == studyID && p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) ListByStudy(ctx context.Context, studyID int64) ([]*Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Participation{}
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.byID[id]; ok && p.StudyID == studyID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByUser(ctx context.Context, userID string) ([]*Participation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Participation{}
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.byID[id]; ok && p.UserID == userID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

type studyRepoStub struct {
	studies map[int64]*studies.Study
}

func (s *studyRepoStub) FindByID(ctx context.Context, id int64) (*studies.Study, error) {
	if st, ok := s.studies[id]; ok {
		return st, nil
	}
	return nil, common.ErrNotFound
}

func (s *studyRepoStub) Create(ctx context.Context, st *studies.Study) (*studies.Study, error) {
	return st, nil
}
func (s *studyRepoStub) ListAll(ctx context.Context) ([]*studies.Study, error) { return nil, nil }
func (s *studyRepoStub) ListByAuthor(ctx context.Context, authorID string) ([]*studies.Study, error) {
	return nil, nil
}
func (s *studyRepoStub) FindLatestDraft(ctx context.Context, authorID string) (*studies.Study, error) {
	return nil, common.ErrNotFound
}
func (s *studyRepoStub) Update(ctx context.Context, st *studies.Study) error { return nil }
func (s *studyRepoStub) Delete(ctx context.Context, id int64) error          { return nil }
func (s *studyRepoStub) IncrementViews(ctx context.Context, id int64) (int, error) {
	return 0, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestService() *Service {
	stub := &studyRepoStub{studies: map[int64]*studies.Study{
		1: {ID: 1, AuthorID: "owner"},
		2: {ID: 2, AuthorID: "other-owner"},
	}}
	return NewService(newMemoryRepo(), stub, testLogger())
}

func TestApply(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Apply(ctx, 1, "alice")
	require.NoError(t, err)
	require.Equal(t, StatusPending, p.Status)

	_, err = svc.Apply(ctx, 1, "alice")
	require.ErrorIs(t, err, common.ErrAlreadyApplied)

	_, err = svc.Apply(ctx, 1, "owner")
	require.ErrorIs(t, err, common.ErrOwnStudy)

	_, err = svc.Apply(ctx, 42, "alice")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListByStudy_AuthorOnly(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Apply(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, 1, "bob")
	require.NoError(t, err)

	_, err = svc.ListByStudy(ctx, 1, "alice")
	require.ErrorIs(t, err, common.ErrForbidden)

	list, err := svc.ListByStudy(ctx, 1, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Apply(ctx, 1, "alice")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, 1, p.ID, "alice", StatusApproved)
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.SetStatus(ctx, 1, p.ID, "owner", "MAYBE")
	require.ErrorIs(t, err, common.ErrInvalidStatus)

	// application belongs to study 1, not study 2
	_, err = svc.SetStatus(ctx, 2, p.ID, "other-owner", StatusApproved)
	require.ErrorIs(t, err, common.ErrNotFound)

	updated, err := svc.SetStatus(ctx, 1, p.ID, "owner", StatusApproved)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, updated.Status)

	mine, err := svc.ListMine(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, StatusApproved, mine[0].Status)
}
