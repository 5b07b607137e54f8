package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"celebstyle-backend/internal/shared/utils"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Asset namespaces trong bucket
const (
	PrefixCelebrities   = "celebrities"
	PrefixOutfits       = "outfits"
	PrefixBlogCovers    = "blog-covers"
	PrefixCategoryItems = "category-items"
	PrefixProducts      = "products"

	ThumbnailPrefix = "thumb_"
)

// URL-safe, không có "-" và "_" để không lẫn với separator của slug
const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const suffixLength = 10

// KeyBuilder tạo object key collision-resistant (random suffix thay cho sequence number,
// không cần list-then-count trước khi upload)
type KeyBuilder struct {
	suffix func() string
	now    func() time.Time
}

func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{suffix: randomSuffix, now: time.Now}
}

func randomSuffix() string {
	id, err := gonanoid.Generate(suffixAlphabet, suffixLength)
	if err != nil {
		// crypto/rand không đọc được: fallback uuid
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
	}
	return id
}

// Celebrity: celebrities/{celebSlug}-{nanoid}.{ext}
func (b *KeyBuilder) Celebrity(celebSlug, ext string) string {
	return path.Join(PrefixCelebrities, b.name(celebSlug, ext))
}

// OutfitImage: outfits/{celebrityId}/{outfitId}/{celebSlug}-{nanoid}.{ext}
func (b *KeyBuilder) OutfitImage(celebrityID, outfitID uuid.UUID, celebSlug, ext string) string {
	return path.Join(OutfitPrefix(celebrityID, outfitID), b.name(celebSlug, ext))
}

// BlogCover: blog-covers/{titleSlug}-{unixSeconds}-{nanoid}.{ext}
func (b *KeyBuilder) BlogCover(titleSlug, ext string) string {
	stamped := fmt.Sprintf("%s-%d", slugOr(titleSlug, "cover"), b.now().Unix())
	return path.Join(PrefixBlogCovers, b.name(stamped, ext))
}

// CategoryItem: category-items/{categorySlug}/{titleSlug}-{nanoid}.{ext}
func (b *KeyBuilder) CategoryItem(categorySlug, titleSlug, ext string) string {
	return path.Join(PrefixCategoryItems, slugOr(categorySlug, "uncategorized"), b.name(titleSlug, ext))
}

// Product: products/{outfitId}/{titleSlug}-{nanoid}.{ext}
func (b *KeyBuilder) Product(outfitID uuid.UUID, titleSlug, ext string) string {
	return path.Join(PrefixProducts, outfitID.String(), b.name(titleSlug, ext))
}

// OutfitPrefix là "folder" chứa toàn bộ gallery của một outfit (có "/" cuối)
func OutfitPrefix(celebrityID, outfitID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s/", PrefixOutfits, celebrityID, outfitID)
}

// CelebrityOutfitsPrefix chứa gallery của mọi outfit thuộc celebrity
func CelebrityOutfitsPrefix(celebrityID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", PrefixOutfits, celebrityID)
}

// ProductsPrefix chứa ảnh affiliate products của một outfit
func ProductsPrefix(outfitID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/", PrefixProducts, outfitID)
}

// ThumbnailKey: outfits/.../zendaya-abc.jpg → outfits/.../thumb_zendaya-abc.jpg
func ThumbnailKey(key string) string {
	dir, file := path.Split(key)
	base := strings.TrimSuffix(file, path.Ext(file))
	return dir + ThumbnailPrefix + base + ".jpg"
}

// IsThumbnailKey để worker không tạo thumbnail của thumbnail
func IsThumbnailKey(key string) bool {
	return strings.HasPrefix(path.Base(key), ThumbnailPrefix)
}

func (b *KeyBuilder) name(slug, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" || ext == "jpeg" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s-%s.%s", slugOr(slug, "asset"), b.suffix(), ext)
}

func slugOr(s, fallback string) string {
	if slug := utils.GenerateSlug(s); slug != "" {
		return slug
	}
	return fallback
}
