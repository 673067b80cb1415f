package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/ynamazon/pkg/ai"
	"github.com/yurifrl/ynamazon/pkg/amazon"
	"github.com/yurifrl/ynamazon/pkg/config"
	"github.com/yurifrl/ynamazon/pkg/csv"
	"github.com/yurifrl/ynamazon/pkg/executors"
	"github.com/yurifrl/ynamazon/pkg/matcher"
	"github.com/yurifrl/ynamazon/pkg/models"
	"github.com/yurifrl/ynamazon/pkg/ynab"
)

var cfgFile string

var (
	stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

var rootCmd = &cobra.Command{
	Use:   "ynamazon",
	Short: "Match YNAB transactions to Amazon purchases and write itemized memos",
	RunE:  runMatch,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "(default) Run one reconciliation pass",
	RunE:  runMatch,
}

var printYnabCmd = &cobra.Command{
	Use:   "print-ynab",
	Short: "Print the YNAB transactions waiting for a memo",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		client := ynab.New(cfg.YNAB.APIKey)
		txns, _, err := client.TransactionsNeedingMemo(cfg.YNAB.BudgetID, cfg.YNAB.PayeeToProcess, cfg.YNAB.PayeeCompleted)
		if errors.Is(err, ynab.ErrSetup) {
			fmt.Println("No matching transactions found in YNAB.")
			return nil
		}
		if err != nil {
			return err
		}

		t := table.New().Border(lipgloss.NormalBorder()).Headers("Date", "Amount", "Memo")
		for _, tx := range txns {
			memoText := "n/a"
			if tx.Memo != nil && *tx.Memo != "" {
				memoText = *tx.Memo
			}
			t.Row(tx.Date.Format("2006-01-02"), "$"+ynab.AmountDecimal(tx).Neg().StringFixed(2), memoText)
		}
		fmt.Println(t)
		fmt.Println(doneStyle.Render(fmt.Sprintf("Found %d transactions.", len(txns))))
		return nil
	},
}

var printAmazonCmd = &cobra.Command{
	Use:   "print-amazon",
	Short: "Print the aggregated Amazon purchase transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		purchases, err := fetchAllPurchases(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		if dump, _ := cmd.Flags().GetBool("debug"); dump {
			pp.Println(purchases)
			return nil
		}
		if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
			fmt.Print(string(csv.Create(purchases, nil)))
			return nil
		}

		t := table.New().Border(lipgloss.NormalBorder()).
			Headers("Account", "Completed", "Transaction", "Order Total", "Order Number", "Items")
		for _, p := range purchases {
			t.Row(p.AccountName, p.Date(), "$"+p.TransactionTotal.StringFixed(2), "$"+p.OrderTotal.StringFixed(2), p.OrderNumber, p.Memo())
		}
		fmt.Println(t)
		fmt.Println(doneStyle.Render(fmt.Sprintf("Found %d transactions.", len(purchases))))
		return nil
	},
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ynamazon",
	})
}

func runMatch(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	client := ynab.New(cfg.YNAB.APIKey)
	budgetTxns, completed, err := client.TransactionsNeedingMemo(cfg.YNAB.BudgetID, cfg.YNAB.PayeeToProcess, cfg.YNAB.PayeeCompleted)
	if errors.Is(err, ynab.ErrSetup) {
		fmt.Println("No matching transactions found in YNAB. Exiting.")
		logger.Info("nothing to process", "reason", err)
		return nil
	}
	if err != nil {
		return err
	}

	purchases, err := fetchAllPurchases(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	var summarizer ai.Summarizer
	if cfg.UseAISummarization {
		summarizer = ai.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	}

	exec := executors.New(logger, cfg, client, summarizer, executors.NewStdinConfirmer())
	outcomes, err := exec.Run(cmd.Context(), purchases, budgetTxns, completed)
	if err != nil {
		return err
	}

	var updated int
	for _, outcome := range outcomes {
		if outcome.Status == matcher.Updated {
			updated++
		}
	}
	logger.Info("run complete", "processed", len(outcomes), "updated", updated)
	return nil
}

// fetchAllPurchases retrieves every configured account sequentially and
// concatenates the results, keeping account identity on each purchase.
func fetchAllPurchases(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]models.PurchaseTransaction, error) {
	fmt.Println(stepStyle.Render("Starting search for Amazon transactions across all accounts..."))

	var purchases []models.PurchaseTransaction
	for _, account := range cfg.Accounts {
		fmt.Println(stepStyle.Render(fmt.Sprintf("Fetching transactions for %s...", account.Name)))
		retriever := amazon.NewRetriever(account, cfg.OrderYears, cfg.TransactionDays, cfg.ForceRefresh, nil, logger)
		accountPurchases, err := retriever.Purchases(ctx)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, accountPurchases...)
		fmt.Println(doneStyle.Render(fmt.Sprintf("%d transactions retrieved for %s.", len(accountPurchases), account.Name)))
	}

	fmt.Println(doneStyle.Render(fmt.Sprintf(
		"Total: %d Amazon transactions retrieved across %d account(s).", len(purchases), len(cfg.Accounts),
	)))
	return purchases, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().Bool("force-refresh", false, "Refresh Amazon data instead of using the cache")
	rootCmd.PersistentFlags().StringSliceP("years", "y", nil, "Order years; leave empty for the current year")
	rootCmd.PersistentFlags().IntP("days", "d", 0, "Days of transactions to retrieve")
	rootCmd.PersistentFlags().Bool("markdown", false, "Render memos with markdown links")
	rootCmd.PersistentFlags().Bool("ai", false, "Summarize memos with AI before truncation")

	printAmazonCmd.Flags().Bool("csv", false, "Emit CSV instead of a table")
	printAmazonCmd.Flags().Bool("debug", false, "Dump raw structs")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(printYnabCmd)
	rootCmd.AddCommand(printAmazonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
