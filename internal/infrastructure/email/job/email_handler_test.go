package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"celebstyle-backend/internal/infrastructure/email"
	"celebstyle-backend/internal/infrastructure/queue"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWelcome(ctx context.Context, data email.WelcomeData) error {
	return m.Called(ctx, data).Error(0)
}

func welcomeTask(t *testing.T, payload queue.SendWelcomeEmailPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(queue.TypeSendWelcomeEmail, data)
}

func TestWelcomeEmailHandler(t *testing.T) {
	ctx := context.Background()
	sender := new(mockSender)
	sender.On("SendWelcome", ctx, email.WelcomeData{
		Email:          "fan+style@example.com",
		Source:         "footer",
		UnsubscribeURL: "https://celebstyle.test/newsletter/unsubscribe?email=fan%2Bstyle%40example.com",
	}).Return(nil)

	h := NewWelcomeEmailHandler(sender, "https://celebstyle.test/newsletter/unsubscribe")
	err := h.ProcessTask(ctx, welcomeTask(t, queue.SendWelcomeEmailPayload{Email: "fan+style@example.com", Source: "footer"}))

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestWelcomeEmailHandler_Errors(t *testing.T) {
	tests := []struct {
		name      string
		task      *asynq.Task
		sendErr   error
		skipRetry bool
	}{
		{"malformed payload", asynq.NewTask(queue.TypeSendWelcomeEmail, []byte("{")), nil, true},
		{"empty email", asynq.NewTask(queue.TypeSendWelcomeEmail, []byte(`{"email":""}`)), nil, true},
		{"smtp failure is retried", asynq.NewTask(queue.TypeSendWelcomeEmail, []byte(`{"email":"fan@example.com"}`)), errors.New("421 try later"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := new(mockSender)
			sender.On("SendWelcome", mock.Anything, mock.Anything).Return(tt.sendErr)

			err := NewWelcomeEmailHandler(sender, "").ProcessTask(context.Background(), tt.task)

			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
