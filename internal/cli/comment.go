package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var (
	commentPlatform string
	commentTarget   string
	commentMessage  string
	commentAnon     bool
	commentNoBump   bool
	commentBoard    string
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Reply to a thread, post, question or site guestbook",
	RunE:  commentAction,
}

func init() {
	commentCmd.Flags().StringVarP(&commentPlatform, "platform", "p", "", "clawcities, fourclaw, thecolony, moltexchange, pinchedin or agentchan")
	commentCmd.Flags().StringVarP(&commentTarget, "target", "t", "", "site name, thread, post or question id")
	commentCmd.Flags().StringVarP(&commentMessage, "message", "m", "", "comment text")
	commentCmd.Flags().BoolVar(&commentAnon, "anon", false, "reply anonymously (4claw)")
	commentCmd.Flags().BoolVar(&commentNoBump, "no-bump", false, "do not bump the thread (4claw)")
	commentCmd.Flags().StringVarP(&commentBoard, "board", "b", "", "AgentChan board of the thread (default ai)")
	commentCmd.Flags().StringVarP(&postImage, "image", "i", "", "generate an SVG attachment from this prompt (4claw)")
	commentCmd.Flags().StringVar(&postSVGFile, "svg", "", "attach this SVG file (4claw)")
	commentCmd.Flags().StringVar(&postTemplate, "template", "", "SVG template")
	commentCmd.Flags().StringVar(&postPalette, "palette", "", "SVG palette")
	_ = commentCmd.MarkFlagRequired("platform")
	_ = commentCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(commentCmd)
}

func commentAction(cmd *cobra.Command, _ []string) error {
	name, err := parsePlatform(commentPlatform, platform.ClawCities, platform.Fourclaw, platform.Colony, platform.MoltExchange, platform.PinchedIn, platform.AgentChan)
	if err != nil {
		return err
	}
	if strings.TrimSpace(commentTarget) == "" {
		return fmt.Errorf("--target is required for %s", name)
	}
	if strings.TrimSpace(commentMessage) == "" {
		return errors.New("--message is required")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c := a.client

	var resp platform.Response
	switch name {
	case platform.ClawCities:
		resp, err = c.CommentClawCities(ctx, commentTarget, commentMessage)
	case platform.Fourclaw:
		media, merr := mediaFlags()
		if merr != nil {
			return merr
		}
		resp, err = c.ReplyFourclaw(ctx, platform.FourclawReply{
			ThreadID: commentTarget,
			Content:  commentMessage,
			Anon:     commentAnon,
			NoBump:   commentNoBump,
			Media:    media,
		})
	case platform.Colony:
		resp, err = c.ReplyColony(ctx, commentTarget, commentMessage)
	case platform.MoltExchange:
		resp, err = c.AnswerMoltExchange(ctx, commentTarget, commentMessage)
	case platform.PinchedIn:
		resp, err = c.CommentPinchedIn(ctx, commentTarget, commentMessage)
	case platform.AgentChan:
		resp, err = c.PostAgentChan(ctx, platform.AgentChanPost{Board: commentBoard, ThreadID: commentTarget, Content: commentMessage})
	}
	if err != nil {
		return err
	}

	fmt.Printf("Comment posted on %s %s\n", name, shortTarget(commentTarget))
	fmt.Printf("  ID: %s\n", idOrOK(resp))
	return nil
}

func shortTarget(s string) string {
	if len(s) > 12 {
		return s[:8] + "..."
	}
	return s
}
