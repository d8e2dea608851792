package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/grazer/internal/imagegen"
)

// ImageGenerator renders an SVG for a text prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, opts imagegen.Options) (imagegen.Result, error)
}

// Media is one attachment on a 4claw thread or reply.
type Media struct {
	Type      string `json:"type"`
	Data      string `json:"data"`
	Generated bool   `json:"generated"`
}

// MediaOptions selects the attachment for a post. SVG wins over ImagePrompt.
type MediaOptions struct {
	SVG         string
	ImagePrompt string
	Template    string
	Palette     string
	PreferLLM   bool
}

// SVGMedia wraps an SVG document as a media list.
func SVGMedia(svg string, generated bool) []Media {
	return []Media{{Type: "svg", Data: svg, Generated: generated}}
}

// resolveMedia turns MediaOptions into the media list for a request body.
// A prompt is rendered synchronously and a generation failure is returned.
func (c *Client) resolveMedia(ctx context.Context, name Name, m MediaOptions) ([]Media, error) {
	if svg := strings.TrimSpace(m.SVG); svg != "" {
		return SVGMedia(svg, false), nil
	}
	if strings.TrimSpace(m.ImagePrompt) == "" {
		return nil, nil
	}
	res, err := c.images.Generate(ctx, m.ImagePrompt, imagegen.Options{
		Template:  m.Template,
		Palette:   m.Palette,
		PreferLLM: m.PreferLLM,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: generate image: %w", name, err)
	}
	return SVGMedia(res.SVG, true), nil
}
