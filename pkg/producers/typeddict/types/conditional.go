package types

import (
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

// MergeConditionals returns a copy of node whose properties also include the properties declared in
// its `oneOf` alternatives and its `then` and `else` branches, each merged the same way first. A name
// that is already present keeps its schema: alternatives are visited in `oneOf` order, then `then`,
// then `else`. The node itself is left untouched.
func MergeConditionals(node *schema_node.Node) *schema_node.Node {
	merged := node.ShallowCopy()
	merged.Properties = schema_node.CopyProperties(node.Properties)
	merged.OneOf = nil
	merged.Then = nil
	merged.Else = nil

	alternatives := append([]*schema_node.Node{}, node.OneOf...)
	alternatives = append(alternatives, node.Then, node.Else)

	for _, alternative := range alternatives {
		if alternative == nil {
			continue
		}

		mergedAlternative := MergeConditionals(alternative)
		for pair := mergedAlternative.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := merged.Properties.Get(pair.Key); !ok {
				merged.Properties.Set(pair.Key, pair.Value)
			}
		}
	}

	return merged
}
