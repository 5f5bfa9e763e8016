package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestClientEnqueueSendEmail(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	info, err := client.EnqueueSendEmail(context.Background(), SendEmailPayload{
		To:      "a@x.com",
		Subject: "Your activation code",
		Body:    "Your activation code is 1234.",
	})
	require.NoError(t, err)
	require.Equal(t, TaskTypeSendEmail, info.Type)
	require.Equal(t, QueueDefault, info.Queue)
}

func TestHandlerHealthReportsPending(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := asynq.RedisClientOpt{Addr: mr.Addr()}

	client, err := NewClient(opts)
	require.NoError(t, err)
	defer client.Close()
	_, err = client.EnqueueSendEmail(context.Background(), SendEmailPayload{To: "a@x.com"})
	require.NoError(t, err)

	h := NewHandler(asynq.NewInspector(opts), nil)
	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"queue":"default"`)
	require.Contains(t, rec.Body.String(), `"pending":1`)
}

func TestNewWorkerRegistersHandlers(t *testing.T) {
	mr := miniredis.RunT(t)

	task, err := NewCodeCleanupTask(0)
	require.NoError(t, err)

	worker, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: mr.Addr()},
		Handlers: []TaskHandler{
			{Type: TaskTypeSendEmail, Handler: func(ctx context.Context, t *asynq.Task) error { return nil }},
		},
		Cron: []CronRegistration{
			{Spec: "*/10 * * * *", Task: task},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, worker)
	require.NotNil(t, worker.scheduler)
}
