package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmfwatch/rmf-dashboard/internal/api/handlers"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
	"github.com/rmfwatch/rmf-dashboard/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy with a connected database", func(t *testing.T) {
		db := testutil.SetupNavDB(t)
		fs := testutil.NewTestFundService(t, testutil.WriteSnapshot(t,
			testutil.NewFundRow("AAARMF").Build(),
		))
		h := handlers.NewSystemHandler(service.NewSystemService(db, fs))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()
		h.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp handlers.HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Status != "healthy" || resp.Database != "connected" {
			t.Errorf("Unexpected health: %s / %s", resp.Status, resp.Database)
		}
		if !resp.Store.Initialized || resp.Store.RecordCount != 1 {
			t.Errorf("Unexpected store status: %+v", resp.Store)
		}
	})

	t.Run("uninitialized store is still healthy", func(t *testing.T) {
		db := testutil.SetupNavDB(t)
		fs := service.NewFundService(repository.NewSnapshotRepository("/nonexistent.csv"))
		h := handlers.NewSystemHandler(service.NewSystemService(db, fs))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()
		h.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var resp handlers.HealthResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Store.Initialized {
			t.Error("Expected uninitialized store status")
		}
	})

	t.Run("closed database answers 503", func(t *testing.T) {
		db := testutil.SetupNavDB(t)
		fs := testutil.NewTestFundService(t, testutil.WriteSnapshot(t,
			testutil.NewFundRow("AAARMF").Build(),
		))
		h := handlers.NewSystemHandler(service.NewSystemService(db, fs))
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()
		h.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupNavDB(t)
	fs := service.NewFundService(repository.NewSnapshotRepository("/nonexistent.csv"))
	h := handlers.NewSystemHandler(service.NewSystemService(db, fs))

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	w := httptest.NewRecorder()
	h.Version(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp handlers.VersionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.AppVersion == "" {
		t.Error("Expected a non-empty app version")
	}
}
