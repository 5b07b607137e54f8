package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/newsletter/model"
	"celebstyle-backend/internal/domains/newsletter/repository"
	"celebstyle-backend/internal/shared/apperror"
	"celebstyle-backend/internal/shared/export"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	defaultLimit   = 20
	maxLimit       = 100
	exportPageSize = 1000
)

type Service interface {
	// Subscribe idempotent: email đã có thì re-subscribe, created=false
	Subscribe(ctx context.Context, req model.SubscribeRequest) (sub *model.Subscriber, created bool, err error)
	Unsubscribe(ctx context.Context, req model.UnsubscribeRequest) error
	List(ctx context.Context, filter model.ListFilter) ([]model.Subscriber, int, error)
	ExportXLSX(ctx context.Context, filter model.ListFilter) (*excelize.File, error)
}

// WelcomeMailer enqueue email chào mừng (queue.TaskClient); nil = tắt
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, source string) error
}

type newsletterService struct {
	repo   repository.Repository
	mailer WelcomeMailer
	now    func() time.Time
}

func NewService(repo repository.Repository, mailer WelcomeMailer) Service {
	return &newsletterService{
		repo:   repo,
		mailer: mailer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *newsletterService) Subscribe(ctx context.Context, req model.SubscribeRequest) (*model.Subscriber, bool, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, apperror.FromValidation(err)
	}

	now := s.now()
	sub := &model.Subscriber{
		ID:        uuid.New(),
		Email:     req.Email,
		Source:    req.Source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Upsert(ctx, sub)
	if err != nil {
		return nil, false, err
	}

	log.Info().
		Str("subscriber_id", sub.ID.String()).
		Str("source", sub.Source).
		Bool("created", created).
		Msg("Newsletter subscription")

	// Chỉ subscriber mới nhận welcome; lỗi enqueue không làm fail subscribe
	if created && s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(ctx, sub.Email, sub.Source); err != nil {
			log.Warn().Err(err).Str("subscriber_id", sub.ID.String()).Msg("Failed to enqueue welcome email")
		}
	}
	return sub, created, nil
}

// Unsubscribe email chưa từng đăng ký vẫn trả về thành công (không lộ danh sách subscriber)
func (s *newsletterService) Unsubscribe(ctx context.Context, req model.UnsubscribeRequest) error {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return apperror.FromValidation(err)
	}

	found, err := s.repo.Unsubscribe(ctx, req.Email)
	if err != nil {
		return err
	}
	log.Info().Bool("found", found).Msg("Newsletter unsubscribe")
	return nil
}

func (s *newsletterService) List(ctx context.Context, filter model.ListFilter) ([]model.Subscriber, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Source = strings.ToLower(strings.TrimSpace(filter.Source))
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter)
}

func (s *newsletterService) ExportXLSX(ctx context.Context, filter model.ListFilter) (*excelize.File, error) {
	filter.Source = strings.ToLower(strings.TrimSpace(filter.Source))
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Limit = exportPageSize
	filter.Offset = 0

	var rows [][]interface{}
	for {
		subs, total, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			status := "unsubscribed"
			if sub.Subscribed {
				status = "subscribed"
			}
			rows = append(rows, []interface{}{
				sub.Email, sub.Source, status, export.FormatTime(sub.CreatedAt), export.FormatTime(sub.UpdatedAt),
			})
		}
		filter.Offset += len(subs)
		if len(subs) == 0 || filter.Offset >= total {
			break
		}
	}

	f, err := export.Build(export.Sheet{
		Name:    "Subscribers",
		Headers: []string{"email", "source", "status", "subscribed_at", "updated_at"},
		Rows:    rows,
	})
	if err != nil {
		return nil, fmt.Errorf("build newsletter export: %w", err)
	}
	return f, nil
}
