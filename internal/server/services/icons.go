package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/logging"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const MaxIconSize = 2 * 1024 * 1024

// BlobStore keeps icon bytes under a storage key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// IconCache holds recently served icons by file name. Get reports a miss
// with ok == false.
type IconCache interface {
	Get(ctx context.Context, filename string) (blob *models.IconBlob, ok bool, err error)
	Set(ctx context.Context, filename string, blob *models.IconBlob) error
}

type IconService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       BlobStore
	cache       IconCache
	logger      logging.Logger
	now         func() time.Time
}

func NewIconService(db *sql.DB, m repomanager.RepositoryManager, store BlobStore, cache IconCache, logger logging.Logger) *IconService {
	return &IconService{
		db:          db,
		repomanager: m,
		store:       store,
		cache:       cache,
		logger:      logger.With("module", "icons"),
		now:         time.Now,
	}
}

func (s *IconService) storageKey() string {
	d := s.now().UTC()
	return fmt.Sprintf("icons/%04d/%02d/%s", d.Year(), int(d.Month()), uuid.New())
}

// Upload stores the bytes first and the metadata second; if the metadata
// insert fails the stored object is removed again.
func (s *IconService) Upload(ctx context.Context, filename, contentType string, data []byte) (*models.Icon, error) {
	filename = path.Base(strings.TrimSpace(filename))
	switch {
	case filename == "." || filename == "/" || filename == "":
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	case !strings.HasPrefix(contentType, "image/"):
		return nil, fmt.Errorf("%w: %q is not an image", common.ErrorValidation, contentType)
	case len(data) == 0 || len(data) > MaxIconSize:
		return nil, fmt.Errorf("%w: icon size %d out of limits", common.ErrorValidation, len(data))
	}

	repo := s.repomanager.Icons(s.db)
	if _, err := repo.GetByFilename(ctx, filename); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	key := s.storageKey()
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("store icon: %w", err)
	}

	icon, err := repo.Create(ctx, &models.Icon{Filename: filename, ContentType: contentType, StorageKey: key})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "orphaned icon object", "key", key, "error", delErr)
		}
		return nil, err
	}
	return icon, nil
}

// Get serves an icon from the cache, falling back to object storage and
// refilling the cache. Cache failures are logged and otherwise ignored.
func (s *IconService) Get(ctx context.Context, filename string) (*models.IconBlob, error) {
	if blob, ok, err := s.cache.Get(ctx, filename); err != nil {
		s.logger.Warn(ctx, "icon cache read failed", "filename", filename, "error", err)
	} else if ok {
		return blob, nil
	}

	icon, err := s.repomanager.Icons(s.db).GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Get(ctx, icon.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load icon: %w", err)
	}

	blob := &models.IconBlob{ContentType: icon.ContentType, Data: data, CreatedAt: icon.CreatedAt}
	if err := s.cache.Set(ctx, filename, blob); err != nil {
		s.logger.Warn(ctx, "icon cache write failed", "filename", filename, "error", err)
	}
	return blob, nil
}
