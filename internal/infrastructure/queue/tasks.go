package queue

import (
	"github.com/google/uuid"
)

// Task types
const (
	TypeDeleteAssetPrefix     = "asset:delete_prefix"
	TypeDeleteAssetKeys       = "asset:delete_keys"
	TypeGenerateOutfitThumbs  = "outfit:generate_thumbnails"
	TypeReconcileOutfitCounts = "celebrity:reconcile_outfit_counts"
	TypeSendWelcomeEmail      = "newsletter:send_welcome"
)

// Queue names (priority được set ở worker)
const (
	QueueMedia       = "media"
	QueueMaintenance = "maintenance"
	QueueDefault     = "default"
)

// DeleteAssetPrefixPayload xóa toàn bộ objects dưới một "folder"
type DeleteAssetPrefixPayload struct {
	Prefix string `json:"prefix"`
	Reason string `json:"reason,omitempty"`
}

// DeleteAssetKeysPayload xóa danh sách objects cụ thể
type DeleteAssetKeysPayload struct {
	Keys   []string `json:"keys"`
	Reason string   `json:"reason,omitempty"`
}

// GenerateThumbnailsPayload tạo thumb_ variant cho ảnh gallery vừa upload
type GenerateThumbnailsPayload struct {
	OutfitID uuid.UUID `json:"outfit_id"`
	Keys     []string  `json:"keys"`
}

type ReconcileOutfitCountsPayload struct{}

// SendWelcomeEmailPayload email chào mừng subscriber mới
type SendWelcomeEmailPayload struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}
