package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nestorwheelock/osint-search/internal/config"
	"github.com/nestorwheelock/osint-search/internal/metasearch"
	"github.com/nestorwheelock/osint-search/internal/search"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	urlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var (
		strategy   string
		adapters   []string
		maxResults int
		quick      string
		asJSON     bool
		showStats  bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a meta-search across the configured adapters",
		Long: `Run a meta-search across multiple back-ends and print the merged,
deduplicated, ranked results.

Examples:
  # Adaptive search with the default adapter set
  osint-search search "john doe portland oregon"

  # Parallel search against selected adapters
  osint-search search -s parallel -a duckduckgo,lynx "acme corp"

  # Single-adapter quick search, skipping orchestration
  osint-search search --quick duckduckgo "acme corp"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if quick != "" {
				return runQuickSearch(query, quick, asJSON)
			}
			return runSearch(query, strategy, adapters, maxResults, asJSON, showStats)
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "dispatch strategy: parallel, sequential, or adaptive")
	cmd.Flags().StringSliceVarP(&adapters, "adapters", "a", nil, "adapters to use (default: configured preferred + fallback)")
	cmd.Flags().IntVarP(&maxResults, "limit", "l", 0, "maximum total results (default from config)")
	cmd.Flags().StringVar(&quick, "quick", "", "bypass orchestration and query one adapter directly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit results as JSON")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print adapter statistics after the search")

	return cmd
}

func runSearch(query, strategy string, adapterNames []string, maxResults int, asJSON, showStats bool) error {
	searchCfg := config.GetSearch()

	cfg := metasearch.Config{
		MaxResultsPerAdapter: searchCfg.MaxResultsPerAdapter,
		Timeout:              searchCfg.TimeoutDuration(),
		EnableDeduplication:  searchCfg.EnableDeduplication,
		EnableRanking:        searchCfg.EnableRanking,
		PreferredAdapters:    searchCfg.PreferredAdapters,
		FallbackAdapters:     searchCfg.FallbackAdapters,
		MinSnippetLength:     searchCfg.MinSnippetLength,
		MaxTotalResults:      searchCfg.MaxTotalResults,
	}
	if maxResults > 0 {
		cfg.MaxTotalResults = maxResults
	}

	if strategy == "" {
		strategy = searchCfg.DefaultStrategy
	}
	parsed, err := metasearch.ParseStrategy(strategy)
	if err != nil {
		return err
	}

	factory := search.NewFactory(search.Credentials{
		GoogleAPIKey:   searchCfg.Adapters.Google.APIKey,
		GoogleSearchID: searchCfg.Adapters.Google.SearchID,
		BingAPIKey:     searchCfg.Adapters.Bing.APIKey,
	})
	orchestrator, err := metasearch.New(cfg, factory)
	if err != nil {
		return err
	}

	if len(adapterNames) == 0 {
		adapterNames = append(append([]string{}, cfg.PreferredAdapters...), cfg.FallbackAdapters...)
	}
	if err := orchestrator.LoadAdapters(adapterNames); err != nil {
		return err
	}

	results, err := orchestrator.Search(context.Background(), query, parsed)
	if err != nil {
		return err
	}

	if asJSON {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		printResults(query, results)
	}

	if showStats {
		printStatistics(orchestrator.Stats())
	}
	return nil
}

func runQuickSearch(query, adapterName string, asJSON bool) error {
	results, err := metasearch.QuickSearch(context.Background(), query, adapterName)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(results)
	}
	printResults(query, results)
	return nil
}

func printJSON(results []search.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func printResults(query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Println(warningStyle.Render("No results for: " + query))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d results for: %s", len(results), query)))
	fmt.Println()
	for _, r := range results {
		fmt.Printf("%s %s\n", metaStyle.Render(fmt.Sprintf("%2d.", r.Rank)), titleStyle.Render(r.Title))
		fmt.Printf("    %s\n", urlStyle.Render(r.URL))
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
		fmt.Printf("    %s\n", metaStyle.Render(fmt.Sprintf("source: %s  score: %.3f", r.Source, r.Score)))
		fmt.Println()
	}
}

func printStatistics(stats metasearch.Statistics) {
	fmt.Println(headerStyle.Render("Adapter statistics"))
	fmt.Printf("searches: %d  success rate: %.0f%%  avg time: %s\n",
		stats.TotalSearches, stats.SuccessRate()*100, stats.AverageResponseTime())

	names := make([]string, 0, len(stats.Adapters))
	for name := range stats.Adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		perf := stats.Adapters[name]
		fmt.Printf("  %-12s attempts: %d  success rate: %.0f%%  avg time: %s\n",
			name, perf.Attempts, perf.SuccessRate()*100, perf.AverageResponseTime())
	}
}
