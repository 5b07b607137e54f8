package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageTooLarge     = errors.New("image exceeds maximum upload size")
	ErrUnsupportedFormat = errors.New("image format not allowed (jpeg, png, webp, gif)")
	ErrNotAnImage        = errors.New("file is not a decodable image")
)

const (
	DefaultMaxUploadSize = 5 * 1024 * 1024 // 5MB
	DefaultMaxDimension  = 2000
	ThumbnailSize        = 400
	jpegQuality          = 90
)

var allowedFormats = map[string]bool{"jpeg": true, "png": true, "webp": true, "gif": true}

// ProcessedImage là kết quả sau khi normalize, sẵn sàng upload
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // px, cạnh dài nhất sau normalize
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &ImageProcessor{MaxSize: maxSize, MaxDimension: DefaultMaxDimension}
}

// ValidateImage check size và format, trả về format đã detect
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("%w (%dMB)", ErrImageTooLarge, p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if !allowedFormats[format] {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedFormat, format)
	}
	return format, nil
}

// Normalize validate rồi resize (chỉ thu nhỏ) về MaxDimension và encode JPEG q90.
// JPEG đã nhỏ hơn giới hạn được giữ nguyên bytes.
func (p *ImageProcessor) Normalize(data []byte) (*ProcessedImage, error) {
	format, err := p.ValidateImage(data)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	b := img.Bounds()
	if format == "jpeg" && b.Dx() <= p.MaxDimension && b.Dy() <= p.MaxDimension {
		return &ProcessedImage{Data: data, ContentType: "image/jpeg", Ext: "jpg", Width: b.Dx(), Height: b.Dy()}, nil
	}

	return encodeJPEG(imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos))
}

// Thumbnail tạo variant vuông-vừa ThumbnailSize px (dùng bởi worker)
func (p *ImageProcessor) Thumbnail(data []byte) (*ProcessedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	return encodeJPEG(imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos))
}

func encodeJPEG(img image.Image) (*ProcessedImage, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("cannot encode jpeg: %w", err)
	}
	b := img.Bounds()
	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         "jpg",
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}
