package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	appsearch "github.com/swiftype/app-search-go"
)

var searchOptions string

var searchCmd = &cobra.Command{
	Use:   "search [engine] [query]",
	Short: "Search an engine",
	Long: `Runs a search query against an engine and prints the raw response.
Extra search options are given as a JSON object, e.g.
  --options '{"page":{"size":10},"search_fields":["title"]}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts appsearch.SearchOptions
		if searchOptions != "" {
			if err := json.Unmarshal([]byte(searchOptions), &opts); err != nil {
				return fmt.Errorf("invalid --options: %w", err)
			}
		}

		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		res, err := client.Search(cmd.Context(), args[0], args[1], opts)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchOptions, "options", "o", "", "search options as a JSON object")
	rootCmd.AddCommand(searchCmd)
}
