package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var kanjiCmd = &cobra.Command{
	Use:   "kanji",
	Short: "Inspect and extend the kanji normalization table",
	Long: `The kanji table rewrites traditional characters found in the manuscripts
to their modern forms (樂→楽, 龍→竜, 壹→壱, 絃→弦). Extra pairs come from the
kanji section of the config file.

Examples:
  splitmark-cli kanji list
  splitmark-cli kanji get 樂
  splitmark-cli kanji add 學 学
  splitmark-cli kanji normalize 還城樂`,
}

var kanjiListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(svc.Kanji.List())
		return nil
	},
}

var kanjiGetCmd = &cobra.Command{
	Use:   "get <character>",
	Short: "Show the modern form of a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modern, ok := svc.Kanji.Get(args[0])
		if !ok {
			return fmt.Errorf("no modern form registered for %s", args[0])
		}
		fmt.Printf("%s → %s\n", args[0], modern)
		return nil
	},
}

var kanjiAddCmd = &cobra.Command{
	Use:   "add <traditional> <modern>",
	Short: "Add a pair to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Kanji.Add(args[0], args[1]); err != nil {
			return err
		}
		if err := configManager.AddKanji(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Added %s → %s to %s\n", args[0], args[1], configManager.ConfigFile())
		return nil
	},
}

var kanjiNormalizeCmd = &cobra.Command{
	Use:   "normalize <text>...",
	Short: "Rewrite traditional characters in text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(svc.Kanji.Normalize(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kanjiCmd)
	kanjiCmd.AddCommand(kanjiListCmd)
	kanjiCmd.AddCommand(kanjiGetCmd)
	kanjiCmd.AddCommand(kanjiAddCmd)
	kanjiCmd.AddCommand(kanjiNormalizeCmd)
}
