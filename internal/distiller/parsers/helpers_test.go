package parsers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
)

// extract parses src with the hybrid parser and returns its canonical API.
func extract(t *testing.T, path, src string) *extraction.CanonicalAPI {
	t.Helper()

	p := NewHybridParser(Limits{})
	require.NoError(t, p.Initialize())

	lang := DetectLanguage(path)
	require.NotEmpty(t, lang, "no language for %s", path)

	pf := p.Parse(path, []byte(src), lang)
	defer pf.Close()
	require.NoError(t, pf.Err)

	api, err := p.Extract(pf)
	require.NoError(t, err)
	require.NotNil(t, api)
	return api
}

func findExport(t *testing.T, api *extraction.CanonicalAPI, name string) extraction.CanonicalExport {
	t.Helper()
	for _, e := range api.Exports {
		if e.Name == name {
			return e
		}
	}
	require.Failf(t, "export not found", "%s not in %v", name, exportNames(api))
	return extraction.CanonicalExport{}
}

func findMember(t *testing.T, e extraction.CanonicalExport, name string) extraction.CanonicalMember {
	t.Helper()
	for _, m := range e.Members {
		if m.Name == name {
			return m
		}
	}
	require.Failf(t, "member not found", "%s.%s not in %v", e.Name, name, memberNames(e))
	return extraction.CanonicalMember{}
}

func exportNames(api *extraction.CanonicalAPI) []string {
	var names []string
	for _, e := range api.Exports {
		names = append(names, e.Name)
	}
	return names
}

func memberNames(e extraction.CanonicalExport) []string {
	var names []string
	for _, m := range e.Members {
		names = append(names, m.Name)
	}
	return names
}

func importSources(api *extraction.CanonicalAPI) []string {
	var sources []string
	for _, i := range api.Imports {
		sources = append(sources, i.Source)
	}
	return sources
}
