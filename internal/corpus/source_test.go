package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSource_Documents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "leave_US.txt", "US leave policy")
	writeFile(t, dir, "notice_India.md", "India notice policy")
	writeFile(t, dir, "conduct.txt", "Code of conduct")
	writeFile(t, dir, "handbook.pdf", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	docs, err := NewDirSource(dir, nil).Documents(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 3)
	byName := map[string]domain.PolicyDocument{}
	for _, d := range docs {
		byName[d.Name] = d
	}
	assert.Equal(t, domain.Region("US"), byName["leave_US.txt"].Region)
	assert.Equal(t, domain.Region("India"), byName["notice_India.md"].Region)
	assert.Equal(t, domain.RegionGeneral, byName["conduct.txt"].Region)
	assert.NotContains(t, byName, "handbook.pdf")
}

func TestDirSource_MissingDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "nope"), nil).Documents(context.Background())
	assert.ErrorIs(t, err, domain.ErrPolicySourceNotFound)
}

func TestDirSource_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "policies")
	src := NewDirSource(dir, nil)

	require.NoError(t, src.Put(context.Background(), "remote_US.md", []byte("Remote work")))

	data, err := os.ReadFile(filepath.Join(dir, "remote_US.md"))
	require.NoError(t, err)
	assert.Equal(t, "Remote work", string(data))
}

func TestDirSource_PutRejectsBadNames(t *testing.T) {
	src := NewDirSource(t.TempDir(), nil)
	for _, name := range []string{"", "../escape.txt", "sub/dir.txt", "scan.pdf"} {
		err := src.Put(context.Background(), name, []byte("x"))
		var de *domain.DomainError
		require.ErrorAs(t, err, &de, name)
		assert.Equal(t, domain.ErrCodeValidation, de.Code)
	}
}

func TestS3Source_Documents(t *testing.T) {
	store := new(MockObjectStore)
	store.On("ListKeys", mock.Anything, "policies/").
		Return([]string{"policies/notice_US.txt", "policies/", "policies/scan.pdf", "policies/conduct.md"}, nil)
	store.On("GetObject", mock.Anything, "policies/notice_US.txt").Return([]byte("two weeks"), nil)
	store.On("GetObject", mock.Anything, "policies/conduct.md").Return([]byte("be kind"), nil)

	docs, err := NewS3Source(store, "policies/", nil).Documents(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "conduct.md", docs[0].Name)
	assert.Equal(t, domain.RegionGeneral, docs[0].Region)
	assert.Equal(t, "notice_US.txt", docs[1].Name)
	assert.Equal(t, domain.Region("US"), docs[1].Region)
	store.AssertExpectations(t)
}

func TestS3Source_MissingBucket(t *testing.T) {
	store := new(MockObjectStore)
	store.On("ListKeys", mock.Anything, "").Return(nil, storage.ErrObjectNotFound)

	_, err := NewS3Source(store, "", nil).Documents(context.Background())

	assert.ErrorIs(t, err, domain.ErrPolicySourceNotFound)
}

func TestS3Source_GetFailure(t *testing.T) {
	store := new(MockObjectStore)
	store.On("ListKeys", mock.Anything, "").Return([]string{"a.txt"}, nil)
	store.On("GetObject", mock.Anything, "a.txt").Return(nil, errors.New("timeout"))

	_, err := NewS3Source(store, "", nil).Documents(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.txt")
}

func TestS3Source_Put(t *testing.T) {
	store := new(MockObjectStore)
	store.On("PutObject", mock.Anything, "policies/leave_India.txt", "text/plain; charset=utf-8", []byte("leave")).Return(nil)

	err := NewS3Source(store, "policies", nil).Put(context.Background(), "leave_India.txt", []byte("leave"))

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestChunk_TagsRegions(t *testing.T) {
	docs := []domain.PolicyDocument{
		{Name: "notice_US.txt", Region: "US", Content: "Two weeks notice."},
		{Name: "conduct.txt", Content: "Be kind."},
		{Name: "empty_US.txt", Region: "US", Content: "   "},
	}

	chunks := Chunk(docs, DefaultChunkConfig())

	require.Len(t, chunks, 2)
	assert.Equal(t, domain.Region("US"), chunks[0].Region)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, domain.RegionGeneral, chunks[1].Region)
	assert.Equal(t, "conduct.txt", chunks[1].Source)
}
