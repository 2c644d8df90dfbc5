package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPluginsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect and toggle plugin settings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plugin settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			settings, _ := st.PluginSettings()
			if len(settings) == 0 {
				fmt.Println("No plugin settings stored.")
				return nil
			}

			ids := make([]string, 0, len(settings))
			for id := range settings {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PLUGIN\tENABLED\tCONFIG KEYS")
			for _, id := range ids {
				s := settings[id]
				fmt.Fprintf(w, "%s\t%t\t%d\n", id, s.Enabled, len(s.Config))
			}
			return w.Flush()
		},
	}

	toggle := func(enabled bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			st, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			settings, _ := st.PluginSettings()
			existing := settings[args[0]]
			if err := st.UpdatePluginSetting(args[0], enabled, existing.Config); err != nil {
				return err
			}
			fmt.Printf("Plugin %s enabled=%t\n", args[0], enabled)
			return nil
		}
	}

	enableCmd := &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  toggle(true),
	}
	disableCmd := &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable a plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  toggle(false),
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "devlens.yaml", "path to config file")
	cmd.AddCommand(listCmd, enableCmd, disableCmd)
	return cmd
}
