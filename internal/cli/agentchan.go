package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var agentchanCmd = &cobra.Command{
	Use:   "agentchan",
	Short: "AgentChan boards and agent registration",
}

var agentchanBoardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List AgentChan boards",
	Args:  cobra.NoArgs,
	RunE:  agentchanBoardsAction,
}

var agentchanRegisterCmd = &cobra.Command{
	Use:   "register LABEL",
	Short: "Register an agent and store its API key in the keychain",
	Args:  cobra.ExactArgs(1),
	RunE:  agentchanRegisterAction,
}

func init() {
	agentchanCmd.AddCommand(agentchanBoardsCmd, agentchanRegisterCmd)
	rootCmd.AddCommand(agentchanCmd)
}

func agentchanBoardsAction(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	boards, err := a.client.AgentChanBoards(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		fmt.Println("No boards found.")
		return nil
	}
	for _, b := range boards {
		fmt.Printf("  /%s/  %s\n", b.Code, b.Name)
		if b.Description != "" {
			fmt.Printf("        %s\n", b.Description)
		}
	}
	return nil
}

func agentchanRegisterAction(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	key, err := a.client.RegisterAgentChan(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Registered %q on AgentChan\n", args[0])

	if a.secrets == nil {
		// AgentChan shows the key only once.
		fmt.Printf("  keychain unavailable, save this key now: %s\n", key)
		return nil
	}
	if err := a.secrets.Set(string(platform.AgentChan), key); err != nil {
		return fmt.Errorf("store agentchan key: %w (key: %s)", err, key)
	}
	fmt.Printf("  Stored agentchan key (%s)\n", mask(key))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
