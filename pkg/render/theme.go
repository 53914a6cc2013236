package render

import (
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme and variant into a selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// StaticSelector always returns the same manifest, whatever name is asked for.
type StaticSelector struct {
	Manifest *theme.Manifest
}

func (s StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, nil
	}
	if name == "" {
		name = s.Manifest.Name
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: s.Manifest}, nil
}

// ThemeConfig flattens a selection into the configuration renderers consume.
// Variant tokens, templates and assets override the base manifest; every
// token is also exposed as a "--name" CSS variable. Fallback partials fill
// in templates the manifest does not define.
func ThemeConfig(sel *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if sel == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: copyStringMap(fallbacks),
	}

	var (
		tokens map[string]string
		prefix string
		files  map[string]string
	)
	if m := sel.Manifest; m != nil {
		tokens = mergeStrings(tokens, m.Tokens)
		cfg.Partials = mergeStrings(cfg.Partials, m.Templates)
		prefix = m.Assets.Prefix
		files = mergeStrings(files, m.Assets.Files)
		if variant, ok := m.Variants[sel.Variant]; ok {
			tokens = mergeStrings(tokens, variant.Tokens)
			cfg.Partials = mergeStrings(cfg.Partials, variant.Templates)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
			files = mergeStrings(files, variant.Assets.Files)
		}
	}
	cfg.Tokens = tokens
	cfg.CSSVars = CSSVars(tokens)
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// CSSVars maps design tokens onto custom property names.
func CSSVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out[name] = value
	}
	return out
}

// CSSVarsStyle renders vars as a :root rule with sorted declarations.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	return mergeStrings(nil, in)
}
