package comments

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

type memoryCommentRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*Comment
}

func newMemoryCommentRepo() *memoryCommentRepo {
	return &memoryCommentRepo{nextID: 1, byID: map[int64]*Comment{}}
}

func (m *memoryCommentRepo) Create(ctx context.Context, c *Comment) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.byID[c.ID] = c
	return c, nil
}

func (m *memoryCommentRepo) FindByID(ctx context.Context, id int64) (*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (m *memoryCommentRepo) ListByStudy(ctx context.Context, studyID int64) ([]*Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*Comment{}
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.byID[id]; ok && c.StudyID == studyID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryCommentRepo) Update(ctx context.Context, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.ID]; !ok {
		return common.ErrNotFound
	}
	copied := *c
	m.byID[c.ID] = &copied
	return nil
}

func (m *memoryCommentRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// fixedStudyRepo serves a single study owned by ownerID.
type fixedStudyRepo struct {
	studyID int64
	ownerID string
}

func (f *fixedStudyRepo) FindByID(ctx context.Context, id int64) (*studies.Study, error) {
	if id != f.studyID {
		return nil, common.ErrNotFound
	}
	return &studies.Study{ID: f.studyID, AuthorID: f.ownerID}, nil
}

func (f *fixedStudyRepo) Create(ctx context.Context, s *studies.Study) (*studies.Study, error) {
	return s, nil
}
func (f *fixedStudyRepo) ListAll(ctx context.Context) ([]*studies.Study, error) { return nil, nil }
func (f *fixedStudyRepo) ListByAuthor(ctx context.Context, authorID string) ([]*studies.Study, error) {
	return nil, nil
}
func (f *fixedStudyRepo) FindLatestDraft(ctx context.Context, authorID string) (*studies.Study, error) {
	return nil, common.ErrNotFound
}
func (f *fixedStudyRepo) Update(ctx context.Context, s *studies.Study) error { return nil }
func (f *fixedStudyRepo) Delete(ctx context.Context, id int64) error         { return nil }
func (f *fixedStudyRepo) IncrementViews(ctx context.Context, id int64) (int, error) {
	return 0, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestService() *Service {
	return NewService(newMemoryCommentRepo(), &fixedStudyRepo{studyID: 1, ownerID: "owner"}, testLogger())
}

func TestCreate_ParentMustBelongToStudy(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	// parent on a different study id is rejected
	other, err := svc.repo.Create(ctx, &Comment{StudyID: 99, AuthorID: "u-1", Content: "elsewhere"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, "u-1", "reply", &other.ID)
	require.ErrorIs(t, err, common.ErrNotFound)

	parent, err := svc.Create(ctx, 1, "u-1", "top level", nil)
	require.NoError(t, err)

	reply, err := svc.Create(ctx, 1, "u-2", "reply", &parent.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, *reply.ParentID)
}

func TestListByStudy_Threads(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	top1, err := svc.Create(ctx, 1, "u-1", "first", nil)
	require.NoError(t, err)
	top2, err := svc.Create(ctx, 1, "u-2", "second", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "u-3", "reply to first", &top1.ID)
	require.NoError(t, err)

	thread, err := svc.ListByStudy(ctx, 1)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	require.Equal(t, top1.ID, thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	require.Equal(t, "reply to first", thread[0].Replies[0].Content)
	require.Equal(t, top2.ID, thread[1].ID)
	require.Empty(t, thread[1].Replies)
}

func TestDelete_CommentAuthorOrStudyAuthor(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	c1, err := svc.Create(ctx, 1, "u-1", "by u-1", nil)
	require.NoError(t, err)
	c2, err := svc.Create(ctx, 1, "u-1", "by u-1 too", nil)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, c1.ID, "stranger"), common.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, c1.ID, "u-1"), "comment author may delete")
	require.NoError(t, svc.Delete(ctx, c2.ID, "owner"), "study author may delete")
}

func TestUpdate_AuthorOnly(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	c, err := svc.Create(ctx, 1, "u-1", "original", nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, c.ID, "u-2", "hijacked")
	require.ErrorIs(t, err, common.ErrForbidden)

	updated, err := svc.Update(ctx, c.ID, "u-1", "edited")
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Content)
}
