package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_FetchRecords_PaginatesAndGroupsByLocalDate(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		start := time.Date(2026, 1, 12, 22, 0, 0, 0, time.UTC) // 23:00 Copenhagen (CET, winter)
		end := start.Add(1 * time.Hour)

		page := apiPage{
			Records: []apiTimeEntry{
				{Worker: "Jens Hansen", StartUTC: start, EndUTC: end, Activity: "Nattevagt"},
			},
			TotalCount: 1,
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "test-token", logrus.New())
	from := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)

	records, err := client.FetchRecords(context.Background(), "emp-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, records, 1)
	assert.Equal(t, "Jens Hansen", records[0].WorkerName)
	assert.Len(t, records[0].Entries, 1)
}

func TestAPIClient_FetchRecords_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "test-token", logrus.New())
	from := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)

	_, err := client.FetchRecords(context.Background(), "emp-1", from, to)
	require.Error(t, err)
}
