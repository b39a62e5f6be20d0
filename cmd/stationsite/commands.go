// ABOUTME: Cobra command tree for the station site binary
// ABOUTME: serve, build, stations list/show and config check
package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "stationsite",
		Short:         "Radio station site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML config file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the station pages",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cfgPath)
			},
		},
		stationsCommand(&cfgPath),
		configCommand(&cfgPath),
	)

	return rootCmd
}

func buildCommand(cfgPath *string) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the station pages to a directory for static hosting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return build(*cfgPath, outDir, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "dist", "Output directory")
	return cmd
}

func stationsCommand(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Inspect the station directory",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stations in directory order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, mgr, err := loadSite(*cfgPath)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SLUG\tNAME\tSTREAM")
				for _, s := range mgr.All() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Slug, s.Name, s.StreamURL)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "show <slug>",
			Short: "Print one station as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, mgr, err := loadSite(*cfgPath)
				if err != nil {
					return err
				}
				s, ok := mgr.Lookup(args[0])
				if !ok {
					return fmt.Errorf("station %q not found", args[0])
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			},
		},
	)

	return cmd
}

func configCommand(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the config and the station table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, mgr, err := loadSite(*cfgPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d stations, listening on %s\n", len(mgr.All()), cfg.Addr())
			return nil
		},
	})

	return cmd
}
