package job

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/infrastructure/storage/storagetest"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func thumbTask(t *testing.T, keys ...string) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(queue.GenerateThumbnailsPayload{OutfitID: uuid.New(), Keys: keys})
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeGenerateOutfitThumbs, data)
}

func TestThumbnailHandler_GeneratesVariants(t *testing.T) {
	store := new(storagetest.MockAssetStore)
	h := NewThumbnailHandler(store, storage.NewImageProcessor(0))

	key := "outfits/c/o/zendaya-abc123.png"
	store.On("Download", mock.Anything, key).Return(pngBytes(t, 800, 600), nil)
	store.On("Upload", mock.Anything, "outfits/c/o/thumb_zendaya-abc123.jpg", mock.Anything, "image/jpeg").
		Return(storagetest.URLFor("outfits/c/o/thumb_zendaya-abc123.jpg"), nil)

	err := h.ProcessTask(context.Background(), thumbTask(t, key, "outfits/c/o/thumb_old.jpg"))

	require.NoError(t, err)
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Download", 1)
}

func TestThumbnailHandler_SkipsMissingAndUndecodable(t *testing.T) {
	store := new(storagetest.MockAssetStore)
	h := NewThumbnailHandler(store, storage.NewImageProcessor(0))

	store.On("Download", mock.Anything, "outfits/c/o/gone.jpg").Return(nil, storage.ErrObjectNotFound)
	store.On("Download", mock.Anything, "outfits/c/o/broken.jpg").Return([]byte("not an image"), nil)

	err := h.ProcessTask(context.Background(), thumbTask(t, "outfits/c/o/gone.jpg", "outfits/c/o/broken.jpg"))

	require.NoError(t, err)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestThumbnailHandler_RetriesOnStoreError(t *testing.T) {
	store := new(storagetest.MockAssetStore)
	h := NewThumbnailHandler(store, storage.NewImageProcessor(0))

	store.On("Download", mock.Anything, "outfits/c/o/a.jpg").Return(nil, errors.New("connection reset"))

	err := h.ProcessTask(context.Background(), thumbTask(t, "outfits/c/o/a.jpg"))

	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestThumbnailHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewThumbnailHandler(new(storagetest.MockAssetStore), storage.NewImageProcessor(0))

	err := h.ProcessTask(context.Background(), asynq.NewTask(queue.TypeGenerateOutfitThumbs, []byte("{")))

	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
