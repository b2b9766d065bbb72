package handlers

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nestorwheelock/osint-search/internal/urlcanon"
)

// NewURLCmd creates the url command with its canon, dedup, and domain
// subcommands.
func NewURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "URL canonicalization utilities",
		Long:  `Normalize, deduplicate, and inspect URLs using the same canonical form the search pipeline uses to detect duplicate results.`,
	}

	cmd.AddCommand(newURLCanonCmd())
	cmd.AddCommand(newURLDedupCmd())
	cmd.AddCommand(newURLDomainCmd())
	return cmd
}

func newURLCanonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canon [url...]",
		Short: "Print the canonical form of each URL",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts := urlcanon.DefaultOptions()
			for _, raw := range args {
				fmt.Println(urlcanon.Canonicalize(raw, opts))
			}
		},
	}
}

func newURLDedupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedup [url...]",
		Short: "Remove URLs that canonicalize to the same form",
		Long: `Remove URLs that canonicalize to the same form, keeping the first
occurrence of each. Reads URLs from stdin when no arguments are given.`,
		Run: func(cmd *cobra.Command, args []string) {
			urls := args
			if len(urls) == 0 {
				urls = readLines(os.Stdin)
			}
			for _, u := range urlcanon.Deduplicate(urls) {
				fmt.Println(u)
			}
		},
	}
}

func newURLDomainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domain [url...]",
		Short: "Print the normalized domain of each URL",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, raw := range args {
				fmt.Println(urlcanon.ExtractDomain(raw))
			}
		},
	}
}

func readLines(f *os.File) []string {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
