package storage

import (
	"context"
	"errors"
	"sync"

	"celebstyle-backend/internal/shared/apperror"

	"github.com/rs/zerolog/log"
)

// File là ảnh nhận từ multipart form
type File struct {
	Name string
	Data []byte
}

// Uploader validate, normalize rồi upload ảnh lên AssetStore
type Uploader struct {
	store     AssetStore
	processor *ImageProcessor
}

func NewUploader(store AssetStore, processor *ImageProcessor) *Uploader {
	return &Uploader{store: store, processor: processor}
}

// Store trả về AssetStore bên dưới
func (u *Uploader) Store() AssetStore {
	return u.store
}

// NewBatch mở một batch cho một lần write.
// Upload luôn xong trước khi ghi DB; nếu write fail thì Discard để không để lại asset mồ côi.
func (u *Uploader) NewBatch() *Batch {
	return &Batch{uploader: u}
}

type Batch struct {
	uploader *Uploader
	mu       sync.Mutex
	keys     []string
}

// Put upload một file, keyFor nhận extension sau normalize và trả về object key
func (b *Batch) Put(ctx context.Context, file File, keyFor func(ext string) string) (string, error) {
	processed, err := b.uploader.processor.Normalize(file.Data)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrNotAnImage) {
			return "", apperror.ErrInvalidUpload.
				WithMessage("%s: %v", file.Name, err).
				WithFields(map[string]string{"file": file.Name})
		}
		return "", apperror.ErrUploadFailed.Wrap(err)
	}

	key := keyFor(processed.Ext)
	url, err := b.uploader.store.Upload(ctx, key, processed.Data, processed.ContentType)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Asset upload failed")
		return "", apperror.ErrUploadFailed.Wrap(err)
	}

	b.mu.Lock()
	b.keys = append(b.keys, key)
	b.mu.Unlock()

	return url, nil
}

// Keys là các object đã upload thành công trong batch
func (b *Batch) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.keys...)
}

// Discard xóa (best effort) mọi object của batch. Dùng context riêng vì
// request context có thể đã hết hạn khi write fail.
func (b *Batch) Discard(ctx context.Context) {
	keys := b.Keys()
	if len(keys) == 0 {
		return
	}
	if err := b.uploader.store.DeleteKeys(context.WithoutCancel(ctx), keys); err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("Failed to discard uploaded assets")
		return
	}
	log.Info().Int("count", len(keys)).Msg("Discarded assets of failed write")
}
