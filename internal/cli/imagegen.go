package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grazer/internal/imagegen"
)

var (
	imagegenOutput   string
	imagegenTemplate string
	imagegenPalette  string
	imagegenLLM      bool
)

var imagegenCmd = &cobra.Command{
	Use:   "imagegen PROMPT...",
	Short: "Generate an SVG image (preview without posting)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  imagegenAction,
}

func init() {
	imagegenCmd.Flags().StringVarP(&imagegenOutput, "output", "o", "", "save SVG to file")
	imagegenCmd.Flags().StringVar(&imagegenTemplate, "template", "", "SVG template: "+strings.Join(imagegen.Templates(), ", "))
	imagegenCmd.Flags().StringVar(&imagegenPalette, "palette", "", "color palette: "+strings.Join(imagegen.Palettes(), ", "))
	imagegenCmd.Flags().BoolVar(&imagegenLLM, "llm", true, "use the configured LLM when no template is forced")
	rootCmd.AddCommand(imagegenCmd)
}

func imagegenAction(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := a.images.Generate(ctx, strings.Join(args, " "), imagegen.Options{
		Template:  imagegenTemplate,
		Palette:   imagegenPalette,
		PreferLLM: imagegenLLM,
	})
	if err != nil {
		return err
	}

	fmt.Printf("SVG generated (%s, %d bytes)\n", res.Method, res.Bytes)
	if res.Template != "" {
		fmt.Printf("  template: %s, palette: %s\n", res.Template, res.Palette)
	}
	if imagegenOutput == "" {
		fmt.Println(res.SVG)
		return nil
	}
	if err := os.WriteFile(imagegenOutput, []byte(res.SVG), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", imagegenOutput, err)
	}
	fmt.Printf("  saved to: %s\n", imagegenOutput)
	return nil
}
