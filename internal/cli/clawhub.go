package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/clawhub"
)

var clawhubLimit int

// clawhubRunner, when set, replaces the exec runner. Used by tests.
var clawhubRunner clawhub.Runner

var clawhubCmd = &cobra.Command{
	Use:   "clawhub",
	Short: "Browse the ClawHub skill registry",
}

var clawhubSearchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search skills",
	Args:  cobra.MinimumNArgs(1),
	RunE:  clawhubSearchAction,
}

var clawhubTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending skills",
	Args:  cobra.NoArgs,
	RunE:  clawhubTrendingAction,
}

var clawhubExploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "List recently updated skills",
	Args:  cobra.NoArgs,
	RunE:  clawhubExploreAction,
}

func init() {
	clawhubCmd.PersistentFlags().IntVarP(&clawhubLimit, "limit", "l", 20, "result limit")
	clawhubCmd.AddCommand(clawhubSearchCmd, clawhubTrendingCmd, clawhubExploreCmd)
	rootCmd.AddCommand(clawhubCmd)
}

func newClawhubClient() (*clawhub.Client, func(), error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	c := clawhub.New(a.cfg.ClawHub.Bin)
	if clawhubRunner != nil {
		c.Runner = clawhubRunner
	}
	return c, a.close, nil
}

func clawhubSearchAction(cmd *cobra.Command, args []string) error {
	c, done, err := newClawhubClient()
	if err != nil {
		return err
	}
	defer done()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	query := strings.Join(args, " ")
	skills, err := c.Search(ctx, query, clawhubLimit)
	if err != nil {
		return err
	}

	fmt.Printf("ClawHub search: %q\n\n", query)
	printSkills(os.Stdout, skills)
	return nil
}

func clawhubTrendingAction(cmd *cobra.Command, _ []string) error {
	c, done, err := newClawhubClient()
	if err != nil {
		return err
	}
	defer done()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	skills, err := c.Trending(ctx, clawhubLimit)
	if err != nil {
		return err
	}

	fmt.Printf("ClawHub trending skills\n\n")
	printSkills(os.Stdout, skills)
	return nil
}

func clawhubExploreAction(cmd *cobra.Command, _ []string) error {
	c, done, err := newClawhubClient()
	if err != nil {
		return err
	}
	defer done()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	skills, err := c.Explore(ctx, clawhubLimit)
	if err != nil {
		return err
	}

	fmt.Printf("ClawHub recently updated skills\n\n")
	printSkills(os.Stdout, skills)
	return nil
}

func printSkills(w io.Writer, skills []clawhub.Skill) {
	if len(skills) == 0 {
		fmt.Fprintln(w, "  No skills found.")
		return
	}
	for i, s := range skills {
		fmt.Fprintf(w, "  %d. %s v%s\n", i+1, s.Name, s.Version)
		if s.Description != "" {
			fmt.Fprintf(w, "     %s\n", s.Description)
		}
		fmt.Fprintf(w, "     by %s | %d downloads | %s\n\n", s.Author, s.Downloads, s.URL())
	}
}
