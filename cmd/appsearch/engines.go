package main

import (
	"github.com/spf13/cobra"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Manage engines",
}

var enginesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List engines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		engines, err := client.ListEngines(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, engines)
	},
}

var enginesGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Show one engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		engine, err := client.GetEngine(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, engine)
	},
}

var enginesCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		engine, err := client.CreateEngine(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, engine)
	},
}

var enginesDestroyCmd = &cobra.Command{
	Use:   "destroy [name]",
	Short: "Delete an engine and all of its documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, done, err := newClient()
		if err != nil {
			return err
		}
		defer done()

		res, err := client.DestroyEngine(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	enginesCmd.AddCommand(enginesListCmd, enginesGetCmd, enginesCreateCmd, enginesDestroyCmd)
	rootCmd.AddCommand(enginesCmd)
}
