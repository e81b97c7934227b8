package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/dealerops/dealerledger/internal/adapter/repository/postgres"
	"github.com/dealerops/dealerledger/internal/infrastructure/config"
	"github.com/dealerops/dealerledger/internal/infrastructure/postgres"
	"github.com/dealerops/dealerledger/internal/usecase"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealerledger-cli",
		Short: "DealerLedger CLI tool",
		Long:  `A command line interface for the DealerLedger posting engine.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DealerLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(closureCmd(), repairCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func closureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "closure",
		Short: "Monthly closure operations",
	}

	var closedBy string
	closeCmd := &cobra.Command{
		Use:   "close [period]",
		Short: "Close an accounting period (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			closePeriod(args[0], closedBy)
		},
	}
	closeCmd.Flags().StringVar(&closedBy, "by", "", "Who is closing the period")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List closed periods",
		Run: func(cmd *cobra.Command, args []string) {
			listClosures()
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status [period]",
		Short: "Show whether a period is closed (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			closureStatus(args[0])
		},
	}

	cmd.AddCommand(closeCmd, listCmd, statusCmd)
	return cmd
}

func closePeriod(period, closedBy string) {
	payload, _ := json.Marshal(map[string]string{
		"period":    period,
		"closed_by": closedBy,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/closures/", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Closing %s FAILED (Status: %d)\nResponse: %s\n", period, resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Period %s closed\n", period)
}

func listClosures() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/closures/")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Listing closures FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var closures []struct {
		Period   string `json:"period"`
		ClosedBy string `json:"closed_by"`
		ClosedAt string `json:"closed_at"`
	}
	if err := json.Unmarshal(body, &closures); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, c := range closures {
		fmt.Printf("%s\tclosed by %s at %s\n", c.Period, c.ClosedBy, c.ClosedAt)
	}
}

func closureStatus(period string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/closures/" + period)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Checking %s FAILED (Status: %d)\nResponse: %s\n", period, resp.StatusCode, string(body))
		os.Exit(1)
	}

	var status struct {
		Period string `json:"period"`
		Closed bool   `json:"closed"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if status.Closed {
		fmt.Printf("%s is CLOSED\n", status.Period)
	} else {
		fmt.Printf("%s is open\n", status.Period)
	}
}

func repairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Data consistency repair",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Re-date misdated retroactive records against the database",
		Run: func(cmd *cobra.Command, args []string) {
			runRepair()
		},
	}

	cmd.AddCommand(runCmd)
	return cmd
}

// runRepair talks to the database directly: the repair takes a table
// backup and rewrites rows in one transaction, which is a maintenance
// job rather than an API call.
func runRepair() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		fmt.Printf("Failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	uc := usecase.NewRepairUseCase(
		postgresRepo.NewTxManager(pool),
		postgresRepo.NewRecordRepository(pool),
		postgresRepo.NewEntryRepository(pool),
		nil,
	)

	report, err := uc.Run(ctx)
	if err != nil {
		fmt.Printf("Repair FAILED: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(report *usecase.RepairReport) {
	fmt.Printf("Backup table: %s\n", report.BackupTable)
	fmt.Printf("Scanned:          %d\n", report.Scanned)
	fmt.Printf("Records re-dated: %d\n", report.RecordsRedated)
	fmt.Printf("Entries re-dated: %d\n", report.EntriesRedated)
	for _, id := range report.AmbiguousRecordIDs {
		fmt.Printf("SKIPPED (ambiguous ledger match): %s\n", id)
	}
	for _, id := range report.MissingEntryRecordIDs {
		fmt.Printf("NO LEDGER ENTRY: %s\n", id)
	}
	fmt.Printf("Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
