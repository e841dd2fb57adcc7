package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	token   string
	timeout time.Duration

	// Swappable for tests.
	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "borrowbook-cli",
		Short: "Borrow Book CLI tool",
		Long:  `A command line interface for interacting with the Borrow Book API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Borrow Book API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Access token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/ready")
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
}

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the per-counterparty ledger overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/ledger/overview")
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the ledger report as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := apiGet("/api/v1/reports/pdf")
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Printf("wrote %d bytes to %s\n", len(body), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "borrowbook.pdf", "Output file")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a password for manual user seeding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiGet(path string) ([]byte, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
