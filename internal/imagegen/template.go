package imagegen

import (
	"context"
	"fmt"
	"hash/fnv"
	"html"
	"sort"
	"strings"
	"unicode"
)

const (
	width        = 400
	height       = 300
	maxLabelRune = 28
)

// Palette is a named five-colour scheme.
type Palette struct {
	Background string
	Primary    string
	Secondary  string
	Accent     string
	Text       string
}

var palettes = map[string]Palette{
	"tech":   {"#0d1117", "#58a6ff", "#1f6feb", "#3fb950", "#c9d1d9"},
	"crypto": {"#14151a", "#f7931a", "#627eea", "#f0b90b", "#ffffff"},
	"retro":  {"#2b1b3d", "#ff71ce", "#01cdfe", "#fffb96", "#b967ff"},
	"nature": {"#1b2d1b", "#4caf50", "#8bc34a", "#cddc39", "#f1f8e9"},
	"dark":   {"#000000", "#444444", "#222222", "#888888", "#eeeeee"},
	"fire":   {"#1a0500", "#ff4500", "#ff8c00", "#ffd700", "#fff5e6"},
	"ocean":  {"#001f3f", "#0074d9", "#39cccc", "#7fdbff", "#e6f7ff"},
}

type keywordRule struct {
	name  string
	words []string
}

// Rules are checked in order; the first rule with a matching word wins.
var templateRules = []keywordRule{
	{"terminal", []string{"terminal", "code", "shell", "cli", "hack", "linux", "bash"}},
	{"circuit", []string{"circuit", "chip", "hardware", "cpu", "ai", "agent", "agents", "neural", "robot"}},
	{"wave", []string{"wave", "waves", "sound", "music", "flow", "signal", "audio"}},
	{"grid", []string{"grid", "data", "matrix", "network", "city", "map"}},
	{"badge", []string{"badge", "award", "launch", "release", "announce", "milestone"}},
}

var paletteRules = []keywordRule{
	{"crypto", []string{"crypto", "bitcoin", "btc", "token", "chain", "eth", "defi"}},
	{"retro", []string{"retro", "vintage", "80s", "pixel", "synthwave"}},
	{"nature", []string{"nature", "forest", "tree", "green", "plant", "garden"}},
	{"dark", []string{"dark", "night", "shadow", "noir", "void"}},
	{"fire", []string{"fire", "hot", "flame", "burn", "lava"}},
	{"ocean", []string{"ocean", "sea", "water", "blue", "deep"}},
}

var renderers = map[string]func(b *strings.Builder, p Palette, seed uint32, label string){
	"circuit":  renderCircuit,
	"wave":     renderWave,
	"grid":     renderGrid,
	"badge":    renderBadge,
	"terminal": renderTerminal,
}

// Templates returns the template names in sorted order.
func Templates() []string { return sortedKeys(renderers) }

// Palettes returns the palette names in sorted order.
func Palettes() []string { return sortedKeys(palettes) }

// TemplateGenerator renders SVGs from built-in templates. Output is a pure
// function of the prompt and options.
type TemplateGenerator struct{}

// Generate implements Generator.
func (TemplateGenerator) Generate(_ context.Context, prompt string, opts Options) (Result, error) {
	return RenderTemplate(prompt, opts.Template, opts.Palette)
}

// RenderTemplate picks a template and palette (from the prompt unless forced)
// and renders the SVG.
func RenderTemplate(prompt, template, palette string) (Result, error) {
	words := wordSet(prompt)
	seed := promptSeed(prompt)

	template = strings.ToLower(strings.TrimSpace(template))
	if template == "" {
		template = matchRule(templateRules, words)
	}
	if template == "" {
		names := Templates()
		template = names[seed%uint32(len(names))]
	}
	render, ok := renderers[template]
	if !ok {
		return Result{}, fmt.Errorf("imagegen: unknown template %q (want one of %s)", template, strings.Join(Templates(), ", "))
	}

	palette = strings.ToLower(strings.TrimSpace(palette))
	if palette == "" {
		palette = matchRule(paletteRules, words)
	}
	if palette == "" {
		palette = "tech"
	}
	p, ok := palettes[palette]
	if !ok {
		return Result{}, fmt.Errorf("imagegen: unknown palette %q (want one of %s)", palette, strings.Join(Palettes(), ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, width, height, p.Background)
	render(&b, p, seed, label(prompt))
	b.WriteString(`</svg>`)

	return newResult(b.String(), MethodTemplate, template, palette), nil
}

func renderCircuit(b *strings.Builder, p Palette, seed uint32, text string) {
	r := newRand(seed)
	for i := 0; i < 12; i++ {
		x1, y1 := r.intn(width), r.intn(height)
		x2, y2 := r.intn(width), y1
		fmt.Fprintf(b, `<path d="M%d %d H%d V%d" stroke="%s" stroke-width="2" fill="none"/>`, x1, y1, x2, r.intn(height), p.Primary)
		fmt.Fprintf(b, `<circle cx="%d" cy="%d" r="4" fill="%s"/>`, x2, y2, p.Accent)
	}
	fmt.Fprintf(b, `<rect x="150" y="110" width="100" height="80" rx="6" fill="%s" stroke="%s" stroke-width="3"/>`, p.Secondary, p.Primary)
	writeLabel(b, p, text, 280)
}

func renderWave(b *strings.Builder, p Palette, seed uint32, text string) {
	r := newRand(seed)
	colors := []string{p.Primary, p.Secondary, p.Accent}
	for i := 0; i < 5; i++ {
		y := 80 + i*35
		amp := 10 + r.intn(30)
		fmt.Fprintf(b, `<path d="M0 %d Q100 %d 200 %d T400 %d" stroke="%s" stroke-width="3" fill="none" opacity="0.8"/>`,
			y, y-amp, y, y, colors[i%len(colors)])
	}
	writeLabel(b, p, text, 280)
}

func renderGrid(b *strings.Builder, p Palette, seed uint32, text string) {
	r := newRand(seed)
	const cell = 40
	for x := 0; x < width; x += cell {
		for y := 0; y < height-40; y += cell {
			fill := p.Secondary
			switch r.intn(6) {
			case 0:
				fill = p.Primary
			case 1:
				fill = p.Accent
			}
			fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" opacity="0.7"/>`, x+2, y+2, cell-4, cell-4, fill)
		}
	}
	writeLabel(b, p, text, 285)
}

func renderBadge(b *strings.Builder, p Palette, _ uint32, text string) {
	fmt.Fprintf(b, `<circle cx="200" cy="130" r="90" fill="%s" stroke="%s" stroke-width="8"/>`, p.Secondary, p.Primary)
	fmt.Fprintf(b, `<polygon points="200,70 215,115 262,115 224,142 238,188 200,160 162,188 176,142 138,115 185,115" fill="%s"/>`, p.Accent)
	writeLabel(b, p, text, 260)
}

func renderTerminal(b *strings.Builder, p Palette, seed uint32, text string) {
	r := newRand(seed)
	fmt.Fprintf(b, `<rect x="20" y="20" width="360" height="260" rx="8" fill="%s" stroke="%s"/>`, p.Background, p.Secondary)
	fmt.Fprintf(b, `<circle cx="40" cy="38" r="6" fill="%s"/><circle cx="60" cy="38" r="6" fill="%s"/><circle cx="80" cy="38" r="6" fill="%s"/>`,
		p.Primary, p.Accent, p.Secondary)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(b, `<rect x="40" y="%d" width="%d" height="8" fill="%s" opacity="0.6"/>`, 70+i*22, 80+r.intn(220), p.Secondary)
	}
	fmt.Fprintf(b, `<text x="40" y="200" font-family="monospace" font-size="18" fill="%s">$ %s_</text>`, p.Accent, html.EscapeString(text))
}

func writeLabel(b *strings.Builder, p Palette, text string, y int) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, `<text x="200" y="%d" text-anchor="middle" font-family="sans-serif" font-size="18" fill="%s">%s</text>`,
		y, p.Text, html.EscapeString(text))
}

func label(prompt string) string {
	prompt = strings.Join(strings.Fields(prompt), " ")
	runes := []rune(prompt)
	if len(runes) > maxLabelRune {
		return string(runes[:maxLabelRune-1]) + "…"
	}
	return prompt
}

func wordSet(s string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func matchRule(rules []keywordRule, words map[string]bool) string {
	for _, rule := range rules {
		for _, w := range rule.words {
			if words[w] {
				return rule.name
			}
		}
	}
	return ""
}

func promptSeed(prompt string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return h.Sum32()
}

// xorshift keeps renders reproducible without touching math/rand state.
type xorshift struct{ state uint32 }

func newRand(seed uint32) *xorshift {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &xorshift{state: seed}
}

func (x *xorshift) intn(n int) int {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return int(x.state % uint32(n))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
