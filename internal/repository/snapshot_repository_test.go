package repository_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/testutil"
)

func TestSnapshotRepository_ReadAll(t *testing.T) {
	t.Run("derives nav change from prior nav", func(t *testing.T) {
		path := testutil.WriteSnapshot(t,
			testutil.NewFundRow("TESTRMF").WithNAV(10.0, 9.5).Build(),
		)

		records, err := repository.NewSnapshotRepository(path).ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}

		rec := records[0]
		if rec.Symbol != "TESTRMF" {
			t.Errorf("Expected symbol TESTRMF, got %s", rec.Symbol)
		}
		if rec.NAVChange == nil || math.Abs(*rec.NAVChange-0.5) > 0.01 {
			t.Errorf("Expected nav change 0.5, got %v", rec.NAVChange)
		}
		if rec.NAVChangePercent == nil || math.Abs(*rec.NAVChangePercent-5.0) > 0.01 {
			t.Errorf("Expected nav change percent 5.0, got %v", rec.NAVChangePercent)
		}
	})

	t.Run("no nav change without prior nav", func(t *testing.T) {
		path := testutil.WriteSnapshot(t,
			testutil.NewFundRow("NOPRIOR").WithoutPriorNAV().Build(),
		)

		records, err := repository.NewSnapshotRepository(path).ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if records[0].NAVChange != nil {
			t.Errorf("Expected nil nav change, got %v", *records[0].NAVChange)
		}
		if records[0].NAVChangePercent != nil {
			t.Errorf("Expected nil nav change percent, got %v", *records[0].NAVChangePercent)
		}
	})

	t.Run("skips malformed rows", func(t *testing.T) {
		path := testutil.WriteSnapshot(t,
			testutil.NewFundRow("GOOD1").Build(),
			[]string{"TOOSHORT", "only two fields"},
			testutil.NewFundRow("GOOD2").Build(),
		)

		records, err := repository.NewSnapshotRepository(path).ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Symbol != "GOOD1" || records[1].Symbol != "GOOD2" {
			t.Errorf("Unexpected symbols: %s, %s", records[0].Symbol, records[1].Symbol)
		}
	})

	t.Run("blank returns become nil", func(t *testing.T) {
		path := testutil.WriteSnapshot(t,
			testutil.NewFundRow("BLANKS").WithYTD(3.25).Build(),
		)

		records, err := repository.NewSnapshotRepository(path).ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}

		rec := records[0]
		if rec.Returns.YTD == nil || *rec.Returns.YTD != 3.25 {
			t.Errorf("Expected YTD 3.25, got %v", rec.Returns.YTD)
		}
		if rec.Returns.Y10 != nil {
			t.Errorf("Expected nil 10y return, got %v", *rec.Returns.Y10)
		}
	})

	t.Run("carries factsheet blobs opaquely", func(t *testing.T) {
		holdings := `[{"name":"PTT","weight":9.1}]`
		path := testutil.WriteSnapshot(t,
			testutil.NewFundRow("BLOBBY").
				WithBlob("holdings", holdings).
				WithBlob("fees", "front-end 1.5%").
				Build(),
		)

		records, err := repository.NewSnapshotRepository(path).ReadAll()
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}

		rec := records[0]
		if string(rec.Holdings) != holdings {
			t.Errorf("Expected holdings passed through, got %s", rec.Holdings)
		}
		// Non-JSON blob text is wrapped as a JSON string.
		if string(rec.Fees) != `"front-end 1.5%"` {
			t.Errorf("Expected quoted fees blob, got %s", rec.Fees)
		}
	})

	t.Run("missing file is a data source error", func(t *testing.T) {
		_, err := repository.NewSnapshotRepository("/nonexistent/rmf.csv").ReadAll()
		if !errors.Is(err, apperrors.ErrDataSourceUnavailable) {
			t.Errorf("Expected ErrDataSourceUnavailable, got %v", err)
		}
	})

	t.Run("rejects a mismatched header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		if err := os.WriteFile(path, []byte("wrong,header\nX,Y\n"), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}

		_, err := repository.NewSnapshotRepository(path).ReadAll()
		if !errors.Is(err, apperrors.ErrInvalidSnapshotHeader) {
			t.Errorf("Expected ErrInvalidSnapshotHeader, got %v", err)
		}
	})
}
