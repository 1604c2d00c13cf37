package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corebank-cli",
		Short: "Corebank CLI tool",
		Long:  `A command line interface for operating the corebank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the corebank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	var batchRef string
	postBatchCmd := &cobra.Command{
		Use:   "post-batch <lines.json>",
		Short: "Post a balanced journal batch from a JSON file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postBatch(args[0], batchRef)
		},
	}
	postBatchCmd.Flags().StringVar(&batchRef, "ref", "", "Batch reference (generated when empty)")

	ledgerCmd.AddCommand(consistencyCmd, postBatchCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Accrual commands
	var accrualDate string
	accrueCmd := &cobra.Command{
		Use:   "accrue <account-code> [account-code...]",
		Short: "Post one day of interest for savings accounts",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			accrueAccounts(args, accrualDate)
		},
	}
	accrueCmd.Flags().StringVar(&accrualDate, "date", "", "Accrual date YYYY-MM-DD (defaults to today)")
	rootCmd.AddCommand(accrueCmd)

	// Limit commands
	limitsCmd := &cobra.Command{
		Use:   "limits",
		Short: "Transfer limit operations",
	}

	resetDueCmd := &cobra.Command{
		Use:   "reset-due",
		Short: "Reset window limits whose reset time has passed",
		Run: func(cmd *cobra.Command, args []string) {
			resetDueLimits()
		},
	}

	limitsCmd.AddCommand(resetDueCmd)
	rootCmd.AddCommand(limitsCmd)

	// Reconciliation commands
	reconCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation operations",
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reconcile every account against its journal history",
		Run: func(cmd *cobra.Command, args []string) {
			reconciliationReport()
		},
	}

	releaseStaleCmd := &cobra.Command{
		Use:   "release-stale",
		Short: "Fail abandoned in-flight movements and release their reservations",
		Run: func(cmd *cobra.Command, args []string) {
			releaseStale()
		},
	}

	reconCmd.AddCommand(reportCmd, releaseStaleCmd)
	rootCmd.AddCommand(reconCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Printf("Consistency check FAILED\nDetail: %v\n", result["detail"])
	os.Exit(1)
}

func postBatch(linesPath, ref string) {
	data, err := os.ReadFile(linesPath)
	if err != nil {
		fmt.Printf("Failed to read lines file: %v\n", err)
		os.Exit(1)
	}

	var lines []map[string]any
	if err := json.Unmarshal(data, &lines); err != nil {
		fmt.Printf("Invalid lines file: %v\n", err)
		os.Exit(1)
	}

	if ref == "" {
		ref = "adj:" + uuid.NewString()
	}

	payload, _ := json.Marshal(map[string]any{
		"batch_ref": ref,
		"lines":     lines,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/batches", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Printf("Post batch FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	fmt.Printf("Posted batch %s\n%s\n", ref, string(body))
}

func accrueAccounts(accountCodes []string, date string) {
	client := &http.Client{Timeout: timeout}

	payload, _ := json.Marshal(map[string]string{"date": date})

	failures := 0
	for _, code := range accountCodes {
		resp, err := client.Post(baseURL+"/api/v1/accounts/"+code+"/accrue", "application/json", bytes.NewReader(payload))
		if err != nil {
			fmt.Printf("%s: request error: %v\n", code, err)
			failures++
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			fmt.Printf("%s: accrued\n", code)
		case http.StatusConflict:
			fmt.Printf("%s: already accrued\n", code)
		default:
			fmt.Printf("%s: FAILED (Status: %d) %s\n", code, resp.StatusCode, string(body))
			failures++
		}
	}

	if failures > 0 {
		fmt.Printf("%d of %d accounts failed\n", failures, len(accountCodes))
		os.Exit(1)
	}
}

func resetDueLimits() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/limits/reset-due", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Reset FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Reset %v limits\n", result["reset_count"])
}

func reconciliationReport() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/reconciliation/report")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Report FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var report struct {
		TotalAccounts      int  `json:"total_accounts"`
		ReconciledAccounts int  `json:"reconciled_accounts"`
		LedgerConsistent   bool `json:"ledger_consistent"`
		Discrepancies      []struct {
			AccountCode string `json:"account_code"`
			Difference  string `json:"difference"`
		} `json:"discrepancies"`
	}
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Accounts: %d reconciled of %d, ledger consistent: %v\n",
		report.ReconciledAccounts, report.TotalAccounts, report.LedgerConsistent)

	for _, d := range report.Discrepancies {
		fmt.Printf("  %s: difference %s\n", d.AccountCode, d.Difference)
	}

	if len(report.Discrepancies) > 0 || !report.LedgerConsistent {
		os.Exit(1)
	}
}

func releaseStale() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/reconciliation/release-stale", "application/json", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Release FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Released %v stale movements\n", result["released_count"])
}
