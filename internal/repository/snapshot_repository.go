package repository

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
	"github.com/rmfwatch/rmf-dashboard/internal/model"
)

// snapshotColumns is the fixed column contract of the fund snapshot CSV.
// Rows with fewer fields are skipped, not fatal.
var snapshotColumns = []string{
	"symbol", "name", "amc", "category", "management_style", "dividend_policy",
	"risk_level", "nav", "prior_nav", "nav_date", "buy_price", "sell_price",
	"ret_ytd", "ret_3m", "ret_6m", "ret_1y", "ret_3y", "ret_5y", "ret_10y",
	"ret_inception", "benchmark", "benchmark_returns", "asset_allocation",
	"fees", "parties", "holdings", "risk_factors", "suitability", "documents",
	"minimums",
}

// Column positions within a snapshot row.
const (
	colSymbol = iota
	colName
	colAMC
	colCategory
	colManagementStyle
	colDividendPolicy
	colRiskLevel
	colNAV
	colPriorNAV
	colNAVDate
	colBuyPrice
	colSellPrice
	colRetYTD
	colRet3M
	colRet6M
	colRet1Y
	colRet3Y
	colRet5Y
	colRet10Y
	colRetInception
	colBenchmark
	colBenchmarkReturns
	colAssetAllocation
	colFees
	colParties
	colHoldings
	colRiskFactors
	colSuitability
	colDocuments
	colMinimums
)

// SnapshotRepository reads the fund snapshot CSV produced by the fetchdata
// tool. The repository owns parsing only; indexing happens in the service.
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository creates a new SnapshotRepository for the given file.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// ReadAll reads every fund record from the snapshot file in row order.
// The header row is validated against the column contract and skipped.
// Rows with fewer fields than the contract, or without a symbol, are skipped.
//
// Returns apperrors.ErrDataSourceUnavailable when the file is missing or
// unreadable, and apperrors.ErrInvalidSnapshotHeader when the header does not
// match the contract.
func (r *SnapshotRepository) ReadAll() ([]model.FundRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrDataSourceUnavailable, r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row length is validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrDataSourceUnavailable, r.path, err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var records []model.FundRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrDataSourceUnavailable, r.path, err)
		}
		if len(row) < len(snapshotColumns) {
			continue
		}
		record, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

func validateHeader(header []string) error {
	if len(header) < len(snapshotColumns) {
		return fmt.Errorf("%w: expected %d columns, got %d",
			apperrors.ErrInvalidSnapshotHeader, len(snapshotColumns), len(header))
	}
	for i, name := range snapshotColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return fmt.Errorf("%w: column %d is %q, expected %q",
				apperrors.ErrInvalidSnapshotHeader, i, header[i], name)
		}
	}
	return nil
}

// parseRow converts one snapshot row into a FundRecord. Numeric-looking
// fields become numbers, blank numeric cells become nil, and factsheet blob
// columns are carried through opaquely.
func parseRow(row []string) (model.FundRecord, bool) {
	symbol := strings.TrimSpace(row[colSymbol])
	if symbol == "" {
		return model.FundRecord{}, false
	}

	record := model.FundRecord{
		Symbol:          symbol,
		Name:            strings.TrimSpace(row[colName]),
		AMC:             strings.TrimSpace(row[colAMC]),
		Category:        strings.TrimSpace(row[colCategory]),
		ManagementStyle: strings.TrimSpace(row[colManagementStyle]),
		DividendPolicy:  strings.TrimSpace(row[colDividendPolicy]),
		RiskLevel:       parseRiskLevel(row[colRiskLevel]),
		NAV:             parseFloatOrZero(row[colNAV]),
		NAVDate:         parseDate(row[colNAVDate]),
		BuyPrice:        parseOptionalFloat(row[colBuyPrice]),
		SellPrice:       parseOptionalFloat(row[colSellPrice]),
		Returns: model.Returns{
			YTD:       parseOptionalFloat(row[colRetYTD]),
			M3:        parseOptionalFloat(row[colRet3M]),
			M6:        parseOptionalFloat(row[colRet6M]),
			Y1:        parseOptionalFloat(row[colRet1Y]),
			Y3:        parseOptionalFloat(row[colRet3Y]),
			Y5:        parseOptionalFloat(row[colRet5Y]),
			Y10:       parseOptionalFloat(row[colRet10Y]),
			Inception: parseOptionalFloat(row[colRetInception]),
		},
		Benchmark:        strings.TrimSpace(row[colBenchmark]),
		BenchmarkReturns: parseBlob(row[colBenchmarkReturns]),
		AssetAllocation:  parseBlob(row[colAssetAllocation]),
		Fees:             parseBlob(row[colFees]),
		Parties:          parseBlob(row[colParties]),
		Holdings:         parseBlob(row[colHoldings]),
		RiskFactors:      parseBlob(row[colRiskFactors]),
		Suitability:      parseBlob(row[colSuitability]),
		Documents:        parseBlob(row[colDocuments]),
		Minimums:         parseBlob(row[colMinimums]),
	}

	// Day-over-day change derives from the prior NAV column at load time.
	if prior := parseOptionalFloat(row[colPriorNAV]); prior != nil && *prior > 0 {
		change := record.NAV - *prior
		pct := change / *prior * 100
		record.NAVChange = &change
		record.NAVChangePercent = &pct
	}

	return record, true
}

func parseRiskLevel(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 8 {
		return 8
	}
	return n
}

func parseFloatOrZero(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseOptionalFloat(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseBlob keeps a factsheet sub-object column opaque. Valid JSON passes
// through byte-for-byte; any other non-empty text is carried as a JSON string
// so downstream marshaling stays well-formed.
func parseBlob(value string) json.RawMessage {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, err := json.Marshal(trimmed)
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
