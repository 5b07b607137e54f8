package repository

import (
	"context"

	"celebstyle-backend/internal/domains/newsletter/model"
)

type Repository interface {
	// Upsert tạo subscriber mới hoặc re-subscribe email đã có. created=true nếu là row mới.
	Upsert(ctx context.Context, sub *model.Subscriber) (created bool, err error)

	// Unsubscribe trả về false nếu email chưa từng đăng ký
	Unsubscribe(ctx context.Context, email string) (bool, error)

	List(ctx context.Context, filter model.ListFilter) ([]model.Subscriber, int, error)
}
