package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/platform"
)

var (
	postPlatform string
	postTitle    string
	postMessage  string
	postBoard    string
	postImage    string
	postSVGFile  string
	postTemplate string
	postPalette  string
	postType     string
	postImageURL string
	postLink     string
	postName     string
	postAnon     bool
	postLLM      bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create a new post or thread",
	RunE:  postAction,
}

var postPlatforms = []platform.Name{
	platform.Fourclaw, platform.Moltbook, platform.Clawsta,
	platform.Colony, platform.MoltX, platform.MoltExchange,
	platform.PinchedIn, platform.ClawTasks, platform.ClawNews, platform.AgentChan,
}

func init() {
	postCmd.Flags().StringVarP(&postPlatform, "platform", "p", "", "fourclaw, moltbook, clawsta, thecolony, moltx, moltexchange, pinchedin, clawtasks, clawnews or agentchan")
	postCmd.Flags().StringVarP(&postTitle, "title", "t", "", "post or thread title")
	postCmd.Flags().StringVarP(&postMessage, "message", "m", "", "post content")
	postCmd.Flags().StringVarP(&postBoard, "board", "b", "", "4claw or AgentChan board, Moltbook submolt, or comma-separated ClawTasks/ClawNews tags")
	postCmd.Flags().StringVarP(&postImage, "image", "i", "", "generate an SVG attachment from this prompt (4claw)")
	postCmd.Flags().StringVar(&postSVGFile, "svg", "", "attach this SVG file (4claw)")
	postCmd.Flags().StringVar(&postTemplate, "template", "", "SVG template: circuit, wave, grid, badge, terminal")
	postCmd.Flags().StringVar(&postPalette, "palette", "", "SVG palette: tech, crypto, retro, nature, dark, fire, ocean")
	postCmd.Flags().BoolVar(&postLLM, "llm", true, "use the configured LLM for image generation (--llm=false forces templates)")
	postCmd.Flags().StringVar(&postType, "type", "", "The Colony post type (default discussion)")
	postCmd.Flags().StringVar(&postImageURL, "image-url", "", "Clawsta image URL")
	postCmd.Flags().StringVar(&postLink, "url", "", "story link (ClawNews)")
	postCmd.Flags().StringVar(&postName, "name", "", "display name, tripcode after '#' (AgentChan)")
	postCmd.Flags().BoolVar(&postAnon, "anon", false, "post anonymously (4claw)")
	_ = postCmd.MarkFlagRequired("platform")
	_ = postCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(postCmd)
}

func postAction(cmd *cobra.Command, _ []string) error {
	name, err := parsePlatform(postPlatform, postPlatforms...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(postMessage) == "" {
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
	var where string
	switch name {
	case platform.Fourclaw:
		if postBoard == "" {
			return errors.New("--board is required for 4claw (e.g. b, singularity, crypto)")
		}
		if postTitle == "" {
			return errors.New("--title is required for 4claw")
		}
		media, err := mediaFlags()
		if err != nil {
			return err
		}
		resp, err = c.PostFourclaw(ctx, platform.FourclawPost{
			Board:   postBoard,
			Title:   postTitle,
			Content: postMessage,
			Anon:    postAnon,
			Media:   media,
		})
		if err != nil {
			return err
		}
		where = "/" + postBoard + "/"
	case platform.Moltbook:
		submolt := postBoard
		if submolt == "" {
			submolt = "tech"
		}
		resp, err = c.PostMoltbook(ctx, postMessage, postTitle, submolt)
		where = "m/" + submolt
	case platform.Clawsta:
		resp, err = c.PostClawsta(ctx, postMessage, postImageURL)
		where = "Clawsta"
	case platform.Colony:
		if postTitle == "" {
			return errors.New("--title is required for The Colony")
		}
		resp, err = c.PostColony(ctx, postTitle, postMessage, postType)
		where = "The Colony"
	case platform.MoltX:
		resp, err = c.PostMoltX(ctx, postMessage)
		where = "MoltX"
	case platform.MoltExchange:
		if postTitle == "" {
			return errors.New("--title is required for MoltExchange")
		}
		resp, err = c.PostMoltExchange(ctx, postTitle, postMessage)
		where = "MoltExchange"
	case platform.PinchedIn:
		resp, err = c.PostPinchedIn(ctx, postMessage)
		where = "PinchedIn"
	case platform.ClawTasks:
		if postTitle == "" {
			return errors.New("--title is required for ClawTasks")
		}
		resp, err = c.PostClawTask(ctx, platform.ClawTaskPost{Title: postTitle, Description: postMessage, Tags: splitTags(postBoard)})
		where = "ClawTasks"
	case platform.ClawNews:
		if postTitle == "" || postLink == "" {
			return errors.New("--title and --url are required for ClawNews")
		}
		resp, err = c.PostClawNews(ctx, platform.ClawNewsSubmission{Headline: postTitle, URL: postLink, Summary: postMessage, Tags: splitTags(postBoard)})
		where = "ClawNews"
	case platform.AgentChan:
		board := postBoard
		if board == "" {
			board = "ai"
		}
		resp, err = c.PostAgentChan(ctx, platform.AgentChanPost{Board: board, Content: postMessage, Name: postName})
		where = "AgentChan /" + board + "/"
	}
	if err != nil {
		return err
	}

	fmt.Printf("Posted to %s\n", where)
	if postTitle != "" {
		fmt.Printf("  Title: %s\n", postTitle)
	}
	fmt.Printf("  ID: %s\n", idOrOK(resp))
	if name == platform.Fourclaw && postSVGFile == "" && postImage != "" {
		fmt.Printf("  Image: generated from %q\n", postImage)
	}
	return nil
}

// mediaFlags builds the 4claw attachment from --svg or --image.
func mediaFlags() (platform.MediaOptions, error) {
	m := platform.MediaOptions{
		ImagePrompt: postImage,
		Template:    postTemplate,
		Palette:     postPalette,
		PreferLLM:   postLLM,
	}
	if postSVGFile != "" {
		data, err := os.ReadFile(postSVGFile)
		if err != nil {
			return m, fmt.Errorf("read --svg: %w", err)
		}
		m.SVG = string(data)
	}
	return m, nil
}

// splitTags turns "a, b,,c" into [a b c].
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func idOrOK(resp platform.Response) string {
	if id := resp.ID(); id != "" {
		return id
	}
	return "ok"
}
