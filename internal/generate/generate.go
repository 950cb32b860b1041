// Package generate implements the root entry point for producing a fresh
// grammar value, grounded on spec.md §4.F.
package generate

import "github.com/gramfuzz/engine/api"

// Generate invokes root's Generate with remaining set to the visitor's
// configured generate-depth budget and current depth at zero, used both to
// seed the initial corpus and as the target of the generate-replace
// mutator.
func Generate(v api.Visitor, root api.Generator) api.Node {
	remaining := v.GenerateDepth()
	cur := 0
	return root.Generate(v, &remaining, &cur)
}
