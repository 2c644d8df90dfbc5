package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPrefsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change user preferences",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
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

			p, _ := st.Preferences()
			fmt.Printf("theme:         %s\n", p.Theme)
			fmt.Printf("language:      %s\n", p.Language)
			fmt.Printf("auto-save:     %t\n", p.AutoSave)
			fmt.Printf("notifications: %t\n", p.Notifications)
			fmt.Printf("telemetry:     %t\n", p.Telemetry)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set one preference field",
		Args:  cobra.ExactArgs(2),
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

			p, _ := st.Preferences()
			field, value := args[0], args[1]

			switch field {
			case "theme":
				if value != "dark" && value != "light" {
					return fmt.Errorf("theme must be dark or light, got %q", value)
				}
				p.Theme = value
			case "language":
				p.Language = value
			case "auto-save", "notifications", "telemetry":
				b, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("%s takes true or false, got %q", field, value)
				}
				switch field {
				case "auto-save":
					p.AutoSave = b
				case "notifications":
					p.Notifications = b
				case "telemetry":
					p.Telemetry = b
				}
			default:
				return fmt.Errorf("unknown preference field %q", field)
			}

			if err := st.SavePreferences(p); err != nil {
				return err
			}
			fmt.Printf("%s set to %s\n", field, value)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "devlens.yaml", "path to config file")
	cmd.AddCommand(showCmd, setCmd)
	return cmd
}
