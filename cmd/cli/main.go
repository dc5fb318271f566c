package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moneymarket-cli",
		Short: "Moneymarket ledger CLI tool",
		Long:  `A command line interface for interacting with the moneymarket ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd(), transactionCmd(), eodCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var (
		customerID   int64
		subProductID string
		name         string
		currency     string
		recon        bool
	)

	openCustomer := &cobra.Command{
		Use:   "open-customer",
		Short: "Open a customer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/accounts/customer", map[string]any{
				"customerId":   customerID,
				"subProductId": subProductID,
				"name":         name,
				"currency":     currency,
			}, "")
		},
	}
	openCustomer.Flags().Int64Var(&customerID, "customer-id", 0, "Customer ID")
	openCustomer.Flags().StringVar(&subProductID, "sub-product", "", "Sub-product ID")
	openCustomer.Flags().StringVar(&name, "name", "", "Account name")
	openCustomer.Flags().StringVar(&currency, "currency", "USD", "Account currency")
	openCustomer.MarkFlagRequired("customer-id")
	openCustomer.MarkFlagRequired("sub-product")

	openOffice := &cobra.Command{
		Use:   "open-office",
		Short: "Open an office (GL) account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/accounts/office", map[string]any{
				"subProductId":  subProductID,
				"name":          name,
				"currency":      currency,
				"reconRequired": recon,
			}, "")
		},
	}
	openOffice.Flags().StringVar(&subProductID, "sub-product", "", "Sub-product ID")
	openOffice.Flags().StringVar(&name, "name", "", "Account name")
	openOffice.Flags().StringVar(&currency, "currency", "USD", "Account currency")
	openOffice.Flags().BoolVar(&recon, "recon", false, "Reconciliation required")
	openOffice.MarkFlagRequired("sub-product")

	get := &cobra.Command{
		Use:   "get <account-no>",
		Short: "Get an account by number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/accounts/" + args[0])
		},
	}

	var page, size int
	var sort string

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/accounts" + listQuery(page, size, sort))
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Zero-based page index")
	list.Flags().IntVar(&size, "size", 20, "Page size")
	list.Flags().StringVar(&sort, "sort", "", "Sort token, e.g. openDate,desc")

	closeCmd := &cobra.Command{
		Use:   "close <account-no>",
		Short: "Close an account (balance must be zero)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/accounts/"+args[0]+"/close", nil, "")
		},
	}

	transactions := &cobra.Command{
		Use:   "transactions <account-no>",
		Short: "List transactions touching an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/accounts/" + args[0] + "/transactions" + listQuery(page, size, sort))
		},
	}
	transactions.Flags().IntVar(&page, "page", 0, "Zero-based page index")
	transactions.Flags().IntVar(&size, "size", 20, "Page size")
	transactions.Flags().StringVar(&sort, "sort", "", "Sort token, e.g. entryTime,desc")

	cmd.AddCommand(openCustomer, openOffice, get, list, closeCmd, transactions)
	return cmd
}

func transactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}

	var (
		file           string
		idempotencyKey string
		validateOnly   bool
	)

	post := &cobra.Command{
		Use:   "post",
		Short: "Post a transaction entry from a JSON file (or stdin with -)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readEntryFile(file)
			if err != nil {
				return err
			}

			path := "/api/transactions/entry"
			if validateOnly {
				path = "/api/transactions/validate"
			}
			return postRaw(path, body, idempotencyKey)
		},
	}
	post.Flags().StringVar(&file, "file", "-", "Entry JSON file, - for stdin")
	post.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key")
	post.Flags().BoolVar(&validateOnly, "validate-only", false, "Run validation without posting")

	get := &cobra.Command{
		Use:   "get <tran-id>",
		Short: "Get a transaction by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/transactions/" + args[0])
		},
	}

	var page, size int
	var sort string

	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/transactions" + listQuery(page, size, sort))
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Zero-based page index")
	list.Flags().IntVar(&size, "size", 20, "Page size")
	list.Flags().StringVar(&sort, "sort", "", "Sort token, e.g. entryTime,desc")

	cmd.AddCommand(post, get, list)
	return cmd
}

func eodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eod",
		Short: "End-of-day operations",
	}

	var date string

	run := &cobra.Command{
		Use:   "run",
		Short: "Trigger the end-of-day accrual run",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/admin/run-eod"
			if date != "" {
				path += "?date=" + url.QueryEscape(date)
			}
			return postJSON(path, nil, "")
		},
	}
	run.Flags().StringVar(&date, "date", "", "Business date (YYYY-MM-DD), default today")

	status := &cobra.Command{
		Use:   "status [date]",
		Short: "Show an end-of-day run, latest when no date given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "latest"
			if len(args) == 1 {
				target = args[0]
			}
			return getJSON("/api/admin/eod-runs/" + target)
		},
	}

	cmd.AddCommand(run, status)
	return cmd
}

// listQuery builds the pagination query string shared by the list commands.
func listQuery(page, size int, sort string) string {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("size", fmt.Sprintf("%d", size))
	if sort != "" {
		q.Set("sort", sort)
	}
	return "?" + q.Encode()
}

func readEntryFile(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, payload any, idempotencyKey string) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}
	return postRaw(path, body, idempotencyKey)
}

func postRaw(path string, body []byte, idempotencyKey string) error {
	req, err := http.NewRequest(http.MethodPost, baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
	} else {
		printJSON(pretty)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
