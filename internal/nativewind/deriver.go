package nativewind

import (
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Deriver turns compiled CSS into the payload passed to the style registry.
type Deriver interface {
	Derive(compiled string) (any, error)
}

// DeriverFunc adapts a function to Deriver.
type DeriverFunc func(compiled string) (any, error)

// Derive calls f.
func (f DeriverFunc) Derive(compiled string) (any, error) {
	return f(compiled)
}

// Declarations maps CSS property names to their values.
type Declarations map[string]string

// StyleTable is the payload produced by StyleTableDeriver.
type StyleTable struct {
	Styles map[string]Declarations            `json:"styles"`
	Media  map[string]map[string]Declarations `json:"media,omitempty"`
}

// StyleTableDeriver groups compiled declarations by class name.
type StyleTableDeriver struct {
	log *zap.Logger
}

// NewStyleTableDeriver creates the default deriver.
func NewStyleTableDeriver(log *zap.Logger) *StyleTableDeriver {
	if log == nil {
		log = zap.NewNop()
	}
	return &StyleTableDeriver{log: log.Named("deriver")}
}

// Derive parses compiled CSS into a StyleTable.
func (d *StyleTableDeriver) Derive(compiled string) (any, error) {
	table := &StyleTable{Styles: make(map[string]Declarations)}

	p := css.NewParser(parse.NewInputString(compiled), false)

	// Open block at-rules; "" marks one we do not descend into.
	var atRules []string

	for {
		gt, _, data := p.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				d.log.Debug("CSS parse error", zap.Error(err))
			}
			return table, nil

		case css.BeginAtRuleGrammar:
			if string(data) == "@media" {
				atRules = append(atRules, "@media "+joinTokens(p.Values()))
			} else {
				atRules = append(atRules, "")
			}

		case css.EndAtRuleGrammar:
			if len(atRules) > 0 {
				atRules = atRules[:len(atRules)-1]
			}

		case css.BeginRulesetGrammar:
			selectors := splitSelectors(data, p.Values())
			decls := d.parseDeclarations(p)

			query, skip := currentMedia(atRules)
			if skip {
				continue
			}
			target := table.Styles
			if query != "" {
				if table.Media == nil {
					table.Media = make(map[string]map[string]Declarations)
				}
				if table.Media[query] == nil {
					table.Media[query] = make(map[string]Declarations)
				}
				target = table.Media[query]
			}
			for _, sel := range selectors {
				mergeDeclarations(target, selectorKey(sel), decls)
			}
		}
	}
}

// currentMedia returns the innermost @media query, or skip when any enclosing
// at-rule is not @media.
func currentMedia(atRules []string) (query string, skip bool) {
	for _, r := range atRules {
		if r == "" {
			return "", true
		}
		query = strings.TrimPrefix(r, "@media ")
	}
	return query, false
}

func (d *StyleTableDeriver) parseDeclarations(p *css.Parser) Declarations {
	decls := make(Declarations)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			value := strings.TrimSpace(joinTokens(p.Values()))
			if value != "" {
				decls[string(data)] = value
			}
		}
	}
}

func mergeDeclarations(target map[string]Declarations, key string, decls Declarations) {
	if key == "" {
		return
	}
	existing, ok := target[key]
	if !ok {
		existing = make(Declarations, len(decls))
		target[key] = existing
	}
	for prop, value := range decls {
		existing[prop] = value
	}
}

func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}

// splitSelectors splits a grouped selector on top-level commas.
func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	full := sb.String()

	var selectors []string
	depth, start := 0, 0
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	for i := 0; i < len(full); i++ {
		switch full[i] {
		case '\\':
			i++
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				add(full[start:i])
				start = i + 1
			}
		}
	}
	add(full[start:])
	return selectors
}

// selectorKey turns ".hover\:text-red-500" into "hover:text-red-500".
// Non-class selectors are kept as written.
func selectorKey(sel string) string {
	if !strings.HasPrefix(sel, ".") {
		return sel
	}
	sel = sel[1:]

	var sb strings.Builder
	sb.Grow(len(sel))
	escaped := false
	for _, r := range sel {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}
