// Package imagegen renders small SVG images for posts, either from built-in
// templates or through an OpenAI-compatible chat endpoint.
package imagegen

import "context"

const (
	MethodTemplate = "template"
	MethodLLM      = "llm"
)

// Options tune a single generation.
type Options struct {
	Template  string // force a template; skips the LLM
	Palette   string // force a palette
	PreferLLM bool   // try the LLM first when one is configured
}

// Result is a rendered image.
type Result struct {
	SVG      string
	Method   string // "template" or "llm"
	Bytes    int
	Template string // empty for LLM output
	Palette  string
}

// Generator produces an SVG from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (Result, error)
}

func newResult(svg, method, template, palette string) Result {
	return Result{
		SVG:      svg,
		Method:   method,
		Bytes:    len(svg),
		Template: template,
		Palette:  palette,
	}
}
