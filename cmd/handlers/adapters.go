package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nestorwheelock/osint-search/internal/config"
	"github.com/nestorwheelock/osint-search/internal/search"
)

// NewAdaptersCmd creates the adapters command.
func NewAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List search adapters and their availability",
		Long: `List every known search adapter, whether it is usable on this
machine, and the transport it would use. Subprocess adapters require
their binary on PATH; API adapters fall back to scraping without
credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			searchCfg := config.GetSearch()
			factory := search.NewFactory(search.Credentials{
				GoogleAPIKey:   searchCfg.Adapters.Google.APIKey,
				GoogleSearchID: searchCfg.Adapters.Google.SearchID,
				BingAPIKey:     searchCfg.Adapters.Bing.APIKey,
			})

			fmt.Println(headerStyle.Render("Search adapters"))
			for _, typ := range factory.AvailableTypes() {
				adapter, err := factory.Create(typ)
				if err != nil {
					fmt.Printf("  %-12s %s\n", typ, warningStyle.Render("error: "+err.Error()))
					continue
				}
				status := "available"
				style := headerStyle
				if !adapter.Available() {
					status = "unavailable"
					style = warningStyle
				}
				fmt.Printf("  %-12s %s\n", adapter.Name(), style.Render(status))
			}
			return nil
		},
	}
}
