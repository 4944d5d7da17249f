package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/takeru0219/repo-maintidx/internal/analyzer"
	"github.com/takeru0219/repo-maintidx/internal/config"
	"github.com/takeru0219/repo-maintidx/internal/domain"
	"github.com/takeru0219/repo-maintidx/internal/enhancer"
	"github.com/takeru0219/repo-maintidx/internal/render"
	"github.com/takeru0219/repo-maintidx/internal/snapshot"
	"github.com/takeru0219/repo-maintidx/internal/storage"
	"github.com/takeru0219/repo-maintidx/internal/storage/postgres"
	"github.com/takeru0219/repo-maintidx/internal/storage/sqlite"
	"github.com/takeru0219/repo-maintidx/pkg/client"
)

const version = "0.3.0"

var (
	outputJSON  bool
	windowDays  int
	noEnhance   bool
	enhancerCLI string
	saveReport  bool
	historyN    int
	remote      bool
)

var rootCmd = &cobra.Command{
	Use:   "repo-maintidx",
	Short: "Repository maintainability index",
	Long: `A CLI tool that computes a composite maintainability index for a
GitHub repository.

It fetches the file tree, recent commits, issues and pull requests, derives
four quality sub-scores (code quality, documentation, activity, community
health), combines them into a weighted index with a quality tier, and can
add an AI-generated narrative summary.`,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [owner/repo]",
	Short: "Analyze a repository",
	Long:  `Fetch a repository snapshot from GitHub, compute the maintainability sub-scores and the composite index, and print the report.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var historyCmd = &cobra.Command{
	Use:   "history [owner/repo]",
	Short: "Show past reports for a repository",
	Long:  `List previously saved reports for a repository, newest first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	analyzeCmd.Flags().IntVar(&windowDays, "window", 0, "commit history window in days (default from WINDOW_DAYS)")
	analyzeCmd.Flags().BoolVar(&noEnhance, "no-enhance", false, "skip the AI narrative even if configured")
	analyzeCmd.Flags().StringVar(&enhancerCLI, "enhancer", "", "AI CLI to use for the narrative (claude, codex, gemini)")
	analyzeCmd.Flags().BoolVar(&saveReport, "save", false, "save the report to the local history store")

	historyCmd.Flags().IntVar(&historyN, "limit", 10, "maximum number of reports to list")
	historyCmd.Flags().BoolVar(&remote, "remote", false, "query the API server instead of local storage")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if windowDays > 0 {
		cfg.WindowDays = windowDays
	}
	if enhancerCLI != "" {
		cfg.EnhancerEnabled = true
		cfg.EnhancerCLI = enhancerCLI
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	provider := snapshot.NewGitHubProvider(cfg.GitHubToken, cfg.WindowDays)

	var opts []analyzer.Option
	if cfg.EnhancerEnabled && !noEnhance {
		summarizer, err := enhancer.NewCLISummarizer(cfg.EnhancerCLI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v, continuing without narrative\n", err)
		} else {
			opts = append(opts, analyzer.WithEnhancer(summarizer, cfg.EnhancerTimeout))
		}
	}

	svc := analyzer.New(provider, cfg.GitHubToken, opts...)

	fmt.Fprintf(os.Stderr, "Analyzing %s (last %d days)...\n", args[0], cfg.WindowDays)

	report, err := svc.Analyze(context.Background(), args[0])
	if err != nil {
		return err
	}

	if saveReport {
		store, err := getStorage(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open history store: %v\n", err)
		} else {
			defer store.Close()
			if err := store.SaveReport(context.Background(), report); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save report: %v\n", err)
			}
		}
	}

	if outputJSON {
		return render.JSON(os.Stdout, report)
	}
	render.Table(os.Stdout, report)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if remote {
		api := client.NewClient(cfg.APIEndpoint)
		id, err := splitIdentifier(args[0])
		if err != nil {
			return err
		}
		reports, err := api.ListReports(id[0], id[1], historyN)
		if err != nil {
			return err
		}
		return printHistory(reports)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer store.Close()

	reports, err := store.ListReports(context.Background(), args[0], historyN)
	if err != nil {
		return err
	}
	return printHistory(reports)
}

func splitIdentifier(raw string) ([2]string, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '/' {
			return [2]string{raw[:i], raw[i+1:]}, nil
		}
	}
	return [2]string{}, fmt.Errorf("invalid repository identifier %q (expected owner/name)", raw)
}

func printHistory(reports []*domain.Report) error {
	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Println("No saved reports")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Generated", "Composite", "Tier", "ID"})
	for _, r := range reports {
		composite := "n/a"
		if r.Composite != nil {
			composite = fmt.Sprintf("%.1f", *r.Composite)
		}
		table.Append([]string{
			r.GeneratedAt.Format("2006-01-02 15:04"),
			composite,
			string(r.Tier),
			r.ID,
		})
	}
	table.Render()

	return nil
}
