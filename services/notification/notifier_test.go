package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vehiclecare/database/repository/memory"
	"vehiclecare/models"
	"vehiclecare/services/tasks"

	"firebase.google.com/go/v4/messaging"
	"github.com/gorilla/websocket"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSink struct {
	mock.Mock
	name string
}

func (m *mockSink) Name() string { return m.name }

func (m *mockSink) Deliver(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg *messaging.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func sampleNotification() models.Notification {
	return models.Notification{
		ID:         "n-1",
		Name:       models.EventProcessUpdated,
		Recipient:  models.Recipient{Role: models.RoleClient, ID: "client-1"},
		Payload:    models.NotificationPayload{Status: models.StatusActive, Booking: models.Booking{ID: "b-1", Status: models.StatusActive}},
		OccurredAt: time.Now().UTC(),
	}
}

func TestDispatcherDeliversToEverySinkAndJoinsErrors(t *testing.T) {
	n := sampleNotification()
	ok := &mockSink{name: "ok"}
	ok.On("Deliver", mock.Anything, n).Return(nil).Once()
	broken := &mockSink{name: "broken"}
	broken.On("Deliver", mock.Anything, n).Return(errors.New("unreachable")).Once()

	d := NewDispatcher(zap.NewNop(), broken, ok)
	err := d.Deliver(context.Background(), n)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: unreachable")
	ok.AssertExpectations(t)
	broken.AssertExpectations(t)
}

func TestInlineNotifierDoesNotBlockOrFail(t *testing.T) {
	n := sampleNotification()
	delivered := make(chan struct{})
	sink := &mockSink{name: "slow"}
	sink.On("Deliver", mock.Anything, n).Run(func(mock.Arguments) { close(delivered) }).Return(errors.New("down"))

	err := NewInlineNotifier(sink, zap.NewNop()).Emit(context.Background(), n)
	assert.NoError(t, err)

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("notification was never delivered")
	}
}

func TestQueueNotifierEnqueuesDeliveryTask(t *testing.T) {
	n := sampleNotification()
	q := &mockEnqueuer{}
	q.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeDeliverNotification
	})).Return(&asynq.TaskInfo{ID: n.ID}, nil).Once()

	require.NoError(t, NewQueueNotifier(q, 5).Emit(context.Background(), n))
	q.AssertExpectations(t)
}

func TestQueueNotifierIgnoresDuplicateTask(t *testing.T) {
	q := &mockEnqueuer{}
	q.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, asynq.ErrTaskIDConflict)
	assert.NoError(t, NewQueueNotifier(q, 5).Emit(context.Background(), sampleNotification()))

	q2 := &mockEnqueuer{}
	q2.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	assert.Error(t, NewQueueNotifier(q2, 5).Emit(context.Background(), sampleNotification()))
}

func TestDeliveryHandler(t *testing.T) {
	n := sampleNotification()
	task, _, err := tasks.NewNotificationTask(n, 3)
	require.NoError(t, err)

	sink := &mockSink{name: "s"}
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(got models.Notification) bool {
		return got.ID == n.ID && got.Recipient == n.Recipient
	})).Return(errors.New("try later")).Once()

	handler := NewDeliveryHandler(sink, zap.NewNop())
	assert.Error(t, handler(context.Background(), task))

	err = handler(context.Background(), asynq.NewTask(tasks.TypeDeliverNotification, []byte("nope")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	sink.AssertExpectations(t)
}

func TestFCMSinkSkipsRecipientsWithoutDevice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Upsert(ctx, &models.Principal{ID: "client-1", Role: models.RoleClient}))

	sender := &mockSender{}
	sink := NewFCMSink(sender, store.Users())
	assert.NoError(t, sink.Deliver(ctx, sampleNotification()))

	n := sampleNotification()
	n.Recipient.ID = "ghost"
	assert.NoError(t, sink.Deliver(ctx, n))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestFCMSinkSendsToRegisteredDevice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Users().Upsert(ctx, &models.Principal{ID: "client-1", Role: models.RoleClient, FCMToken: "tok"}))

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(m *messaging.Message) bool {
		return m.Token == "tok" && m.Data["event"] == models.EventProcessUpdated && m.Data["bookingId"] == "b-1"
	})).Return("msg-1", nil).Once()

	require.NoError(t, NewFCMSink(sender, store.Users()).Deliver(ctx, sampleNotification()))
	sender.AssertExpectations(t)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "booking.processupdated", RoutingKey(models.EventProcessUpdated))
}

func TestHubDeliversOnlyToRecipient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, r.URL.Query().Get("id"))
	}))
	defer srv.Close()

	dial := func(id string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?id=" + id
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}
	client := dial("client-1")
	defer client.Close()
	other := dial("client-2")
	defer other.Close()

	require.Eventually(t, func() bool {
		return hub.ConnectionCount("client-1") == 1 && hub.ConnectionCount("client-2") == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Deliver(ctx, sampleNotification()))

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"processUpdated"`)
	assert.Contains(t, string(data), `"status":"Active"`)

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}
