// Command fetchdata builds the dashboard's data files from the Thailand SEC
// open API: the fund snapshot CSV and the NAV history SQLite database. The
// server never calls SEC itself; it only reads what this tool produces.
//
// Requires SEC_FUND_FACTSHEET_KEY and SEC_FUND_DAILY_INFO_KEY in the
// environment or a .env file.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rmfwatch/rmf-dashboard/internal/config"
	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/sec"
)

var snapshotHeader = []string{
	"symbol", "name", "amc", "category", "management_style", "dividend_policy",
	"risk_level", "nav", "prior_nav", "nav_date", "buy_price", "sell_price",
	"ret_ytd", "ret_3m", "ret_6m", "ret_1y", "ret_3y", "ret_5y", "ret_10y",
	"ret_inception", "benchmark", "benchmark_returns", "asset_allocation",
	"fees", "parties", "holdings", "risk_factors", "suitability", "documents",
	"minimums",
}

// candidate pairs an RMF fund with its managing company.
type candidate struct {
	amc  sec.AMC
	fund sec.Fund
}

func main() {
	days := flag.Int("days", 400, "trailing days of NAV history to fetch per fund")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := sec.NewClient(cfg.SEC.BaseURL, cfg.SEC.FactsheetKey, cfg.SEC.DailyInfoKey)

	navDB, err := repository.OpenNavDB(cfg.Data.NavHistoryPath)
	if err != nil {
		log.Fatalf("Failed to open nav history database: %v", err)
	}
	defer navDB.Close()
	navRepo := repository.NewNavHistoryRepository(navDB)

	candidates, err := findRMFFunds(ctx, client)
	if err != nil {
		log.Fatalf("Failed to list RMF funds: %v", err)
	}
	log.Printf("Found %d RMF funds", len(candidates))

	rows, err := buildSnapshotRows(ctx, client, navRepo, candidates, *days)
	if err != nil {
		log.Fatalf("Failed to build snapshot rows: %v", err)
	}

	if err := writeSnapshot(cfg.Data.SnapshotPath, rows); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}
	log.Printf("Wrote %d funds to %s", len(rows), cfg.Data.SnapshotPath)
}

// findRMFFunds walks every AMC and collects its registered RMF funds.
func findRMFFunds(ctx context.Context, client *sec.Client) ([]candidate, error) {
	amcs, err := client.AMCs(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d AMCs", len(amcs))

	var mu sync.Mutex
	var candidates []candidate

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, amc := range amcs {
		amc := amc
		g.Go(func() error {
			funds, err := client.FundsByAMC(ctx, amc.UniqueID)
			if err != nil {
				log.Printf("Skipping AMC %s: %v", amc.NameEN, err)
				return nil
			}
			mu.Lock()
			for _, fund := range funds {
				if isActiveRMF(fund) {
					candidates = append(candidates, candidate{amc: amc, fund: fund})
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].fund.ProjAbbrName < candidates[j].fund.ProjAbbrName
	})
	return candidates, nil
}

func isActiveRMF(fund sec.Fund) bool {
	if !strings.Contains(strings.ToUpper(fund.ProjAbbrName), "RMF") {
		return false
	}
	// RG = registered; anything else is terminated or pending.
	return fund.FundStatus == "" || fund.FundStatus == "RG"
}

// buildSnapshotRows fetches each fund's NAV series into the history
// database and derives its snapshot row from the stored series.
func buildSnapshotRows(ctx context.Context, client *sec.Client, navRepo *repository.NavHistoryRepository, candidates []candidate, days int) ([][]string, error) {
	var mu sync.Mutex
	var rows [][]string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, cand := range candidates {
		cand := cand
		g.Go(func() error {
			entries := fetchNavSeries(ctx, client, navRepo, cand.fund, days)
			if len(entries) == 0 {
				log.Printf("No NAV data for %s, skipping", cand.fund.ProjAbbrName)
				return nil
			}

			asset, err := client.FundAsset(ctx, cand.fund.ProjID)
			if err != nil {
				asset = nil
			}

			mu.Lock()
			rows = append(rows, buildRow(cand, entries, asset))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows, nil
}

// fetchNavSeries pulls the trailing window of daily NAVs for one fund,
// storing each published observation. Non-trading days answer empty and are
// skipped.
func fetchNavSeries(ctx context.Context, client *sec.Client, navRepo *repository.NavHistoryRepository, fund sec.Fund, days int) []model.NavEntry {
	var entries []model.NavEntry
	today := time.Now().UTC()

	for i := days; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		nav, err := client.DailyNav(ctx, fund.ProjID, date.Format("2006-01-02"))
		if err != nil || nav == nil || nav.LastVal <= 0 {
			continue
		}
		if err := navRepo.UpsertEntry(ctx, fund.ProjAbbrName, date, nav.LastVal); err != nil {
			log.Printf("Failed to store NAV for %s: %v", fund.ProjAbbrName, err)
			continue
		}
		entries = append(entries, model.NavEntry{Date: date, NAV: nav.LastVal})
	}
	return entries
}

func buildRow(cand candidate, entries []model.NavEntry, asset sec.FundAsset) []string {
	last := entries[len(entries)-1]

	prior := ""
	if len(entries) >= 2 {
		prior = formatFloat(entries[len(entries)-2].NAV)
	}

	row := make([]string, len(snapshotHeader))
	row[0] = cand.fund.ProjAbbrName
	row[1] = fundDisplayName(cand.fund)
	row[2] = cand.amc.NameEN
	row[3] = "RMF"
	// TODO: pull management style, dividend policy, and risk level from the
	// FundFactsheet policy and risk endpoints once the subscription covers
	// them; the daily-info product does not expose these fields.
	row[6] = "0"
	row[7] = formatFloat(last.NAV)
	row[8] = prior
	row[9] = last.Date.Format("2006-01-02")
	row[12] = formatReturn(trailingReturnYTD(entries))
	row[13] = formatReturn(trailingReturn(entries, 91))
	row[14] = formatReturn(trailingReturn(entries, 182))
	row[15] = formatReturn(trailingReturn(entries, 365))
	if asset != nil {
		row[22] = string(asset)
	}
	return row
}

func fundDisplayName(fund sec.Fund) string {
	if fund.ProjNameEN != "" {
		return fund.ProjNameEN
	}
	return fund.ProjNameTH
}

// trailingReturn computes the percent return over the trailing horizon, or
// nil when the series does not reach back that far.
func trailingReturn(entries []model.NavEntry, horizonDays int) *float64 {
	last := entries[len(entries)-1]
	cutoff := last.Date.AddDate(0, 0, -horizonDays)

	var base *model.NavEntry
	for i := range entries {
		if entries[i].Date.After(cutoff) {
			break
		}
		base = &entries[i]
	}
	if base == nil || base.NAV <= 0 {
		return nil
	}
	pct := (last.NAV - base.NAV) / base.NAV * 100
	return &pct
}

// trailingReturnYTD computes the return since the last observation of the
// previous calendar year.
func trailingReturnYTD(entries []model.NavEntry) *float64 {
	last := entries[len(entries)-1]
	yearStart := time.Date(last.Date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	var base *model.NavEntry
	for i := range entries {
		if !entries[i].Date.Before(yearStart) {
			break
		}
		base = &entries[i]
	}
	if base == nil || base.NAV <= 0 {
		return nil
	}
	pct := (last.NAV - base.NAV) / base.NAV * 100
	return &pct
}

func formatReturn(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func writeSnapshot(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(snapshotHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
