package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appsearch "github.com/swiftype/app-search-go"
)

var documentsFile string

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Index, fetch and delete documents",
}

var documentsIndexCmd = &cobra.Command{
	Use:   "index [engine]",
	Short: "Index documents from a JSON file",
	Long: `Reads a JSON object or an array of objects from --file ("-" for stdin) and
indexes it. A single object is indexed on its own and fails on any
server-reported error; an array is sent in one batch and per-document errors
are printed with the results.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsIndex,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get [engine] [id...]",
	Short: "Fetch documents by id",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		docs, err := client.GetDocuments(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		return printJSON(cmd, docs)
	},
}

var documentsDestroyCmd = &cobra.Command{
	Use:   "destroy [engine] [id...]",
	Short: "Delete documents by id",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		res, err := client.DestroyDocuments(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	documentsIndexCmd.Flags().StringVarP(&documentsFile, "file", "f", "-", `JSON file to index ("-" for stdin)`)
	documentsCmd.AddCommand(documentsIndexCmd, documentsGetCmd, documentsDestroyCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsIndex(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, documentsFile)
	if err != nil {
		return err
	}
	single, docs, err := parseDocuments(data)
	if err != nil {
		return err
	}

	client, done, err := newClient()
	if err != nil {
		return err
	}
	defer done()

	if single {
		res, err := client.IndexDocument(cmd.Context(), args[0], docs[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	}

	res, err := client.IndexDocuments(cmd.Context(), args[0], docs)
	if err != nil {
		return err
	}
	return printJSON(cmd, res)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseDocuments accepts one JSON object or an array of objects.
func parseDocuments(data []byte) (single bool, docs []appsearch.Document, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false, nil, errors.New("no documents in input")
	}

	if trimmed[0] == '{' {
		var doc appsearch.Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return false, nil, fmt.Errorf("failed to parse document: %w", err)
		}
		return true, []appsearch.Document{doc}, nil
	}

	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return false, nil, fmt.Errorf("failed to parse documents: %w", err)
	}
	if len(docs) == 0 {
		return false, nil, errors.New("no documents in input")
	}
	return false, docs, nil
}
