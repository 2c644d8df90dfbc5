package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage saved generations and analyses",
	}

	var analyses bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List history entries, most recent first",
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

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			if analyses {
				list, _ := st.AnalysisHistory()
				if len(list) == 0 {
					fmt.Println("No analysis history.")
					return nil
				}
				fmt.Fprintln(w, "ID\tTIME\tFILE\tLANGUAGE\tISSUES\tSCORE")
				for _, rec := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f\n",
						rec.ID, rec.Timestamp.Format("2006-01-02T15:04:05"), rec.FileName, rec.Language, rec.Issues, rec.Score)
				}
				return w.Flush()
			}

			list, _ := st.GenerationHistory()
			if len(list) == 0 {
				fmt.Println("No generation history.")
				return nil
			}
			fmt.Fprintln(w, "ID\tTIME\tLANGUAGE\tFAV\tPROMPT")
			for _, rec := range list {
				fav := ""
				if rec.Favorited {
					fav = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID, rec.Timestamp.Format("2006-01-02T15:04:05"), rec.Language, fav, truncate(rec.Prompt, 60))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().BoolVar(&analyses, "analyses", false, "list analysis history instead of generations")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a generation history entry",
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

			if err := st.DeleteGeneration(args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}

	favoriteCmd := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag on a generation entry",
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

			if err := st.ToggleFavoriteGeneration(args[0]); err != nil {
				return err
			}
			fmt.Println("Toggled.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "devlens.yaml", "path to config file")
	cmd.AddCommand(listCmd, deleteCmd, favoriteCmd)
	return cmd
}

// truncate shortens s to at most n runes, never splitting a multibyte
// sequence.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
