package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var (
	pinchedinLimit        int
	pinchedinStatus       string
	pinchedinMessage      string
	pinchedinTitle        string
	pinchedinDescription  string
	pinchedinRequirements string
	pinchedinCompensation string
)

var pinchedinCmd = &cobra.Command{
	Use:   "pinchedin",
	Short: "PinchedIn bots, jobs, connections and hiring",
}

var pinchedinBotsCmd = &cobra.Command{
	Use:   "bots",
	Short: "List bots on PinchedIn",
	Args:  cobra.NoArgs,
	RunE:  pinchedinBotsAction,
}

var pinchedinLikeCmd = &cobra.Command{
	Use:   "like POST_ID",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE:  pinchedinLikeAction,
}

var pinchedinConnectCmd = &cobra.Command{
	Use:   "connect BOT_ID",
	Short: "Send a connection request",
	Args:  cobra.ExactArgs(1),
	RunE:  pinchedinConnectAction,
}

var pinchedinJobCmd = &cobra.Command{
	Use:   "job",
	Short: "Publish a job listing",
	Args:  cobra.NoArgs,
	RunE:  pinchedinJobAction,
}

var pinchedinHireCmd = &cobra.Command{
	Use:   "hire BOT_ID",
	Short: "Send a hiring request to a bot",
	Args:  cobra.ExactArgs(1),
	RunE:  pinchedinHireAction,
}

var pinchedinInboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List hiring requests",
	Args:  cobra.NoArgs,
	RunE:  pinchedinInboxAction,
}

var pinchedinRespondCmd = &cobra.Command{
	Use:   "respond REQUEST_ID accepted|rejected|completed",
	Short: "Answer a hiring request",
	Args:  cobra.ExactArgs(2),
	RunE:  pinchedinRespondAction,
}

func init() {
	pinchedinBotsCmd.Flags().IntVarP(&pinchedinLimit, "limit", "l", 20, "result limit")
	pinchedinInboxCmd.Flags().StringVar(&pinchedinStatus, "status", "", "pending, accepted, rejected or completed")
	pinchedinHireCmd.Flags().StringVarP(&pinchedinMessage, "message", "m", "", "message to the bot")
	_ = pinchedinHireCmd.MarkFlagRequired("message")
	for _, c := range []*cobra.Command{pinchedinJobCmd, pinchedinHireCmd} {
		c.Flags().StringVarP(&pinchedinTitle, "title", "t", "", "task title")
		c.Flags().StringVarP(&pinchedinDescription, "description", "d", "", "task description")
		c.Flags().StringVar(&pinchedinRequirements, "requirements", "", "comma-separated requirements")
		c.Flags().StringVar(&pinchedinCompensation, "compensation", "", "offered compensation")
	}
	pinchedinCmd.AddCommand(pinchedinBotsCmd, pinchedinLikeCmd, pinchedinConnectCmd,
		pinchedinJobCmd, pinchedinHireCmd, pinchedinInboxCmd, pinchedinRespondCmd)
	rootCmd.AddCommand(pinchedinCmd)
}

func pinchedinTask() platform.PinchedInTask {
	return platform.PinchedInTask{
		Title:        strings.TrimSpace(pinchedinTitle),
		Description:  strings.TrimSpace(pinchedinDescription),
		Requirements: splitTags(pinchedinRequirements),
		Compensation: strings.TrimSpace(pinchedinCompensation),
	}
}

func pinchedinBotsAction(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	bots, err := a.client.DiscoverPinchedInBots(commandContext(cmd), pinchedinLimit)
	if err != nil {
		return err
	}
	if len(bots) == 0 {
		fmt.Println("No bots found.")
		return nil
	}
	for _, b := range bots {
		fmt.Printf("  %s  (id:%s)\n", b.Name, b.ID)
		if b.Headline != "" {
			fmt.Printf("    %s\n", b.Headline)
		}
		if len(b.Skills) > 0 {
			fmt.Printf("    skills: %s\n", strings.Join(b.Skills, ", "))
		}
	}
	return nil
}

func pinchedinLikeAction(cmd *cobra.Command, args []string) error {
	return pinchedinWrite("Liked post "+shortTarget(args[0]), func(a *app) (platform.Response, error) {
		return a.client.LikePinchedIn(commandContext(cmd), args[0])
	})
}

func pinchedinConnectAction(cmd *cobra.Command, args []string) error {
	return pinchedinWrite("Connection request sent to "+shortTarget(args[0]), func(a *app) (platform.Response, error) {
		return a.client.ConnectPinchedIn(commandContext(cmd), args[0])
	})
}

func pinchedinJobAction(cmd *cobra.Command, _ []string) error {
	return pinchedinWrite("Job posted on PinchedIn", func(a *app) (platform.Response, error) {
		return a.client.PostPinchedInJob(commandContext(cmd), pinchedinTask())
	})
}

func pinchedinHireAction(cmd *cobra.Command, args []string) error {
	return pinchedinWrite("Hiring request sent to "+shortTarget(args[0]), func(a *app) (platform.Response, error) {
		return a.client.HirePinchedIn(commandContext(cmd), args[0], pinchedinMessage, pinchedinTask())
	})
}

func pinchedinRespondAction(cmd *cobra.Command, args []string) error {
	return pinchedinWrite("Hiring request "+shortTarget(args[0])+" marked "+args[1], func(a *app) (platform.Response, error) {
		return a.client.RespondPinchedInHire(commandContext(cmd), args[0], args[1])
	})
}

func pinchedinInboxAction(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	reqs, err := a.client.PinchedInInbox(commandContext(cmd), pinchedinStatus)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Println("No hiring requests.")
		return nil
	}
	for _, r := range reqs {
		from := r.Requester.Name
		if from == "" {
			from = "?"
		}
		fmt.Printf("  [%s] %s  from %s  (id:%s)\n", r.Status, r.Message, from, r.ID)
	}
	return nil
}

func pinchedinWrite(done string, fn func(a *app) (platform.Response, error)) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := fn(a)
	if err != nil {
		return err
	}
	fmt.Println(done)
	fmt.Printf("  ID: %s\n", idOrOK(resp))
	return nil
}
