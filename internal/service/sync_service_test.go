package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/pkg/config"
)

func syncReport() models.Report {
	return models.Report{
		ID:           "r-1",
		Date:         time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		TeacherID:    "t-1",
		TeacherName:  "Cikgu Zaid",
		Subject:      models.SubjectMatematik,
		Timeslot:     models.Timeslot0730,
		Attendance:   models.AttendanceMap{"p-2": true},
		TotalPresent: 1,
	}
}

func TestSyncServicePostsReportToWebhook(t *testing.T) {
	received := make(chan dto.SheetSyncPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload dto.SheetSyncPayload
		assert.NoError(t, json.Unmarshal(body, &payload))
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewSyncService(config.SyncConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    2 * time.Second,
		Workers:    1,
		Retries:    1,
	}, newTestRoster(t), nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.EnqueueReport(syncReport())

	select {
	case payload := <-received:
		assert.Equal(t, "r-1", payload.Report.ID)
		require.Len(t, payload.Rows, 5)
		// Rows follow roster order and carry the per-pupil flag.
		assert.Equal(t, "p-2", payload.Rows[0].PupilID)
		assert.True(t, payload.Rows[0].Present)
		assert.False(t, payload.Rows[1].Present)
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestSyncServiceRetriesFailedSubmission(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		done <- struct{}{}
	}))
	defer server.Close()

	svc := NewSyncService(config.SyncConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    2 * time.Second,
		Workers:    1,
		Retries:    2,
	}, newTestRoster(t), nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.EnqueueReport(syncReport())

	select {
	case <-done:
		assert.Equal(t, int32(2), calls.Load())
	case <-time.After(3 * time.Second):
		t.Fatal("submission was never retried")
	}
}

func TestSyncServiceDisabledIsNoOp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("disabled sync must not call the webhook")
	}))
	defer server.Close()

	svc := NewSyncService(config.SyncConfig{Enabled: false, WebhookURL: server.URL, Timeout: time.Second}, newTestRoster(t), nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.EnqueueReport(syncReport())
	time.Sleep(100 * time.Millisecond)
}
