package registry

import (
	jssitter "github.com/smacker/go-tree-sitter/javascript"
	pysitter "github.com/smacker/go-tree-sitter/python"
	tssitter "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/morfx/orchestrator"

	extractorpy "github.com/oxhq/morfx/extractor/python"
	extractorts "github.com/oxhq/morfx/extractor/typescript"
	postprocesspy "github.com/oxhq/morfx/postprocess/python"
	postprocessts "github.com/oxhq/morfx/postprocess/typescript"
)

// Builtin returns the Registry shipped by this module: Python,
// TypeScript, and JavaScript, mirroring the three providers the teacher
// registers in providers/contract.go's call sites (providers/python,
// providers/typescript, providers/javascript). JavaScript reuses the
// TypeScript extractor/post-processor (the tree-sitter JS grammar is a
// strict subset of the TS one for every node type morfx queries) paired
// with the JavaScript grammar.
func Builtin() *Registry {
	return New(
		Entry{
			Language:   "python",
			Extensions: []string{".py", ".pyi"},
			New: func() *orchestrator.Orchestrator {
				return orchestrator.New("python", pysitter.GetLanguage(), extractorpy.New(), postprocesspy.New())
			},
		},
		Entry{
			Language:   "typescript",
			Extensions: []string{".ts", ".tsx"},
			New: func() *orchestrator.Orchestrator {
				return orchestrator.New("typescript", tssitter.GetLanguage(), extractorts.New(), postprocessts.New())
			},
		},
		Entry{
			Language:   "javascript",
			Extensions: []string{".js", ".jsx", ".mjs"},
			New: func() *orchestrator.Orchestrator {
				return orchestrator.New("javascript", jssitter.GetLanguage(), extractorts.New(), postprocessts.New())
			},
		},
	)
}
