// Package corpus loads policy documents and turns them into region-tagged
// chunks for the retrieval index.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/storage"
	"go.uber.org/zap"
)

// DocumentSource lists policy documents and accepts new ones.
type DocumentSource interface {
	Documents(ctx context.Context) ([]domain.PolicyDocument, error)
	Put(ctx context.Context, name string, content []byte) error
}

var supportedExtensions = map[string]string{
	".txt": "text/plain; charset=utf-8",
	".md":  "text/markdown; charset=utf-8",
}

// Supported reports whether name has a readable extension.
func Supported(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ValidateName rejects names that are empty, carry a path or use an
// unreadable extension.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return domain.NewDomainError(domain.ErrCodeValidation, "policy name must be a plain file name")
	}
	if !Supported(name) {
		return domain.NewDomainError(domain.ErrCodeValidation, "policy documents must be .txt or .md")
	}
	return nil
}

// DirSource reads policy documents from a local directory, non-recursively.
type DirSource struct {
	dir    string
	logger *zap.Logger
}

func NewDirSource(dir string, logger *zap.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logging.OrNop(logger)}
}

func (s *DirSource) Documents(ctx context.Context) ([]domain.PolicyDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrPolicySourceNotFound.Message, err)
		}
		return nil, fmt.Errorf("read policy dir: %w", err)
	}

	var docs []domain.PolicyDocument
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !Supported(name) {
			s.logger.Info("skipping unsupported policy file", zap.String("file", name))
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read policy %s: %w", name, err)
		}
		docs = append(docs, domain.PolicyDocument{
			Name:    name,
			Region:  domain.RegionFromFilename(name),
			Content: string(data),
		})
	}
	return docs, nil
}

func (s *DirSource) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create policy dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return fmt.Errorf("write policy %s: %w", name, err)
	}
	return nil
}

// ObjectStore is the subset of storage.S3Client the S3 source needs.
type ObjectStore interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	PutObject(ctx context.Context, key, contentType string, data []byte) error
}

// S3Source reads policy documents from a bucket under an optional prefix.
type S3Source struct {
	store  ObjectStore
	prefix string
	logger *zap.Logger
}

func NewS3Source(store ObjectStore, prefix string, logger *zap.Logger) *S3Source {
	return &S3Source{store: store, prefix: prefix, logger: logging.OrNop(logger)}
}

func (s *S3Source) Documents(ctx context.Context) ([]domain.PolicyDocument, error) {
	keys, err := s.store.ListKeys(ctx, s.prefix)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, domain.ErrPolicySourceNotFound.Message, err)
		}
		return nil, fmt.Errorf("list policies: %w", err)
	}
	sort.Strings(keys)

	var docs []domain.PolicyDocument
	for _, key := range keys {
		name := path.Base(key)
		if strings.HasSuffix(key, "/") || !Supported(name) {
			s.logger.Info("skipping unsupported policy object", zap.String("key", key))
			continue
		}
		data, err := s.store.GetObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get policy %s: %w", key, err)
		}
		docs = append(docs, domain.PolicyDocument{
			Name:    name,
			Region:  domain.RegionFromFilename(name),
			Content: string(data),
		})
	}
	return docs, nil
}

func (s *S3Source) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	contentType := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return s.store.PutObject(ctx, path.Join(s.prefix, name), contentType, content)
}

// Chunk splits every document and tags each chunk with its document's region.
func Chunk(docs []domain.PolicyDocument, cfg ChunkConfig) []domain.PolicyChunk {
	var chunks []domain.PolicyChunk
	for _, d := range docs {
		region := d.Region
		if region == "" {
			region = domain.RegionFromFilename(d.Name)
		}
		for i, text := range Split(d.Content, cfg) {
			chunks = append(chunks, domain.PolicyChunk{
				Source:     d.Name,
				Region:     region,
				ChunkIndex: i,
				Content:    text,
			})
		}
	}
	return chunks
}
