package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/bloodlink-api/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDeliverer struct{ mock.Mock }

func (m *mockDeliverer) Deliver(ctx context.Context, msg domain.OTPMessage) error {
	return m.Called(ctx, msg).Error(0)
}

var msg = domain.OTPMessage{Channel: domain.ChannelEmail, Address: "a@b.com", Code: "111222", ValidMinutes: 10}

func TestHandleOTPDeliver_RoundTrip(t *testing.T) {
	task, err := NewOTPTask(msg)
	require.NoError(t, err)
	assert.Equal(t, TypeOTPDeliver, task.Type())

	d := &mockDeliverer{}
	d.On("Deliver", mock.Anything, msg).Return(nil)

	require.NoError(t, HandleOTPDeliver(d, zap.NewNop())(context.Background(), task))
	d.AssertExpectations(t)
}

func TestHandleOTPDeliver_PropagatesFailureForRetry(t *testing.T) {
	task, _ := NewOTPTask(msg)
	d := &mockDeliverer{}
	d.On("Deliver", mock.Anything, msg).Return(errors.New("smtp down"))

	err := HandleOTPDeliver(d, zap.NewNop())(context.Background(), task)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleOTPDeliver_BadPayloadSkipsRetry(t *testing.T) {
	d := &mockDeliverer{}
	err := HandleOTPDeliver(d, zap.NewNop())(context.Background(), asynq.NewTask(TypeOTPDeliver, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	d.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}
