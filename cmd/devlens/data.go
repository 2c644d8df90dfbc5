package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDataCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import, clear or size the durable store",
	}

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every stored record as one JSON document",
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

			doc, err := st.Export()
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(doc)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported to %s\n", outPath)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "output", "o", "", "write the document to a file instead of stdout")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a previously exported document",
		Args:  cobra.ExactArgs(1),
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

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			ok, err := st.Import(string(data))
			if !ok {
				return err
			}
			if err != nil {
				// Parsed fine but some keys failed to persist.
				fmt.Fprintf(os.Stderr, "partial import: %v\n", err)
			}
			fmt.Println("Imported.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record the store owns",
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

			if err := st.Clear(); err != nil {
				return err
			}
			fmt.Println("All devlens data cleared.")
			return nil
		},
	}

	sizeCmd := &cobra.Command{
		Use:   "size",
		Short: "Show approximate storage usage",
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

			size, err := st.Size()
			if err != nil {
				return err
			}
			fmt.Printf("%d bytes\n", size)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "devlens.yaml", "path to config file")
	cmd.AddCommand(exportCmd, importCmd, clearCmd, sizeCmd)
	return cmd
}
