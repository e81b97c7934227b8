package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dealerops/dealerledger/internal/usecase"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestClosePeriod(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"cl-1","period":"2025-02"}`))
	}))
	defer server.Close()

	baseURL = server.URL
	timeout = 2 * time.Second

	out := captureOutput(t, func() {
		closePeriod("2025-02", "admin")
	})

	require.Equal(t, "/api/v1/closures/", gotPath)
	require.Contains(t, out, "Period 2025-02 closed")
}

func TestListClosures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"period":"2025-01","closed_by":"admin","closed_at":"2025-02-01T00:00:00Z"}]`))
	}))
	defer server.Close()

	baseURL = server.URL
	timeout = 2 * time.Second

	out := captureOutput(t, func() {
		listClosures()
	})

	require.Contains(t, out, "2025-01")
	require.Contains(t, out, "closed by admin")
}

func TestClosureStatus(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"period":"2025-02","closed":true}`))
	}))
	defer server.Close()

	baseURL = server.URL
	timeout = 2 * time.Second

	out := captureOutput(t, func() {
		closureStatus("2025-02")
	})

	require.Equal(t, "/api/v1/closures/2025-02", gotPath)
	require.Contains(t, out, "2025-02 is CLOSED")
}

func TestPrintReport(t *testing.T) {
	report := &usecase.RepairReport{
		BackupTable:           "penjualan_backup_20250301120000",
		Scanned:               3,
		RecordsRedated:        2,
		EntriesRedated:        1,
		AmbiguousRecordIDs:    []string{"rec-9"},
		MissingEntryRecordIDs: []string{"rec-7"},
		StartedAt:             time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:            time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC),
	}

	out := captureOutput(t, func() {
		printReport(report)
	})

	require.Contains(t, out, "penjualan_backup_20250301120000")
	require.Contains(t, out, "Records re-dated: 2")
	require.Contains(t, out, "SKIPPED (ambiguous ledger match): rec-9")
	require.Contains(t, out, "NO LEDGER ENTRY: rec-7")
}
