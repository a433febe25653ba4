package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"visadesk-data/internal/importer"
	"visadesk-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewImportNotifierDisabled(t *testing.T) {
	assert.Nil(t, NewImportNotifier("", zap.NewNop()))
}

func TestImportNotifierPostsSummary(t *testing.T) {
	received := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := NewImportNotifier(ts.URL, zap.NewNop())
	require.NotNil(t, n)
	n.ImportCompleted("cases.xlsx", &ImportResult{HeadersOK: true})

	select {
	case ct := <-received:
		assert.Contains(t, ct, "application/json")
	default:
		t.Fatal("webhook was not called")
	}
}

func TestImportSucceedsWhenWebhookFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	employees := repository.NewMemoryEmployeesRepo()
	audit := repository.NewMemoryAuditRepo()
	notifier := NewImportNotifier(ts.URL, zap.NewNop())
	svc := NewTrackerService(employees, audit, notifier, 0, zap.NewNop())

	res, err := svc.ImportFile(context.Background(), "cases.xlsx", sampleFile(t), importer.ModeReplaceAll, "tester")
	require.NoError(t, err, "a rejected webhook must not fail the import")
	assert.Equal(t, 2, res.Summary.Created)

	stored, err := employees.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
