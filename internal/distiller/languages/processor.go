package languages

import (
	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// fileContext carries facts about the whole file that visibility rules
// need, such as whether a JavaScript file uses ES exports at all.
type fileContext struct {
	language   string
	hasExports bool
}

func newFileContext(api *extraction.CanonicalAPI) *fileContext {
	ctx := &fileContext{language: api.Language}
	for _, e := range api.Exports {
		if e.HasModifier("export") {
			ctx.hasExports = true
			break
		}
	}
	return ctx
}

// rules is the language-specific half of a processor.
type rules struct {
	export   func(ctx *fileContext, e extraction.CanonicalExport) extraction.Visibility
	member   func(owner extraction.CanonicalExport, m extraction.CanonicalMember) extraction.Visibility
	cleanDoc func(raw string) string
}

// processor runs the fixed pipeline: visibility, depth gate, top-level gate,
// name filter, docstrings.
type processor struct {
	language string
	rules    rules
}

func newProcessor(language string, r rules) *processor {
	return &processor{language: language, rules: r}
}

// Language implements Processor.
func (p *processor) Language() string { return p.language }

// Process implements Processor. An export removed by the top-level gate or
// the name filter is recorded once; its members are not listed separately.
func (p *processor) Process(api *extraction.CanonicalAPI, policy *Policy) (*extraction.ExtractedAPI, []extraction.SkippedItem) {
	out := extraction.NewExtractedAPI(api.File, api.Language)
	out.Imports = append(out.Imports, api.Imports...)
	var skipped []extraction.SkippedItem

	ctx := newFileContext(api)
	for _, exp := range api.Exports {
		vis := p.rules.export(ctx, exp)

		members := make([]extraction.ExtractedMember, 0, len(exp.Members))
		var memberSkips []extraction.SkippedItem
		for _, m := range exp.Members {
			mv := p.rules.member(exp, m)
			if ok, reason := policy.keepMember(mv); !ok {
				memberSkips = append(memberSkips, extraction.SkippedItem{
					Name:   api.File + "#" + exp.Name + "." + m.Name,
					Reason: reason,
				})
				continue
			}
			em := extraction.ExtractedMember{
				Name:       m.Name,
				Kind:       m.Kind,
				Signature:  m.Signature,
				Visibility: mv,
				Line:       m.Line,
			}
			if policy.IncludeDocstrings {
				em.Docstring = p.rules.cleanDoc(m.RawDoc)
			}
			members = append(members, em)
		}

		if vis == extraction.Private && !policy.IncludePrivate {
			skipped = append(skipped, extraction.SkippedItem{Name: api.File + "#" + exp.Name, Reason: ReasonPrivate})
			continue
		}
		if ok, reason := policy.names.Allow(exp.Name); !ok {
			skipped = append(skipped, extraction.SkippedItem{Name: api.File + "#" + exp.Name, Reason: reason})
			continue
		}
		skipped = append(skipped, memberSkips...)

		ee := extraction.ExtractedExport{
			Name:       exp.Name,
			Kind:       exp.Kind,
			Signature:  exp.Signature,
			Visibility: vis,
			Line:       exp.Line,
		}
		if len(members) > 0 {
			ee.Members = members
		}
		if policy.IncludeDocstrings {
			ee.Docstring = p.rules.cleanDoc(exp.RawDoc)
		}
		out.Exports = append(out.Exports, ee)
	}
	return out, skipped
}
