package context

import (
	"fmt"
	"strings"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	motmedelMaps "github.com/Motmedel/utils_go/pkg/maps"
	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

const DefinitionReferencePrefix = "#/$defs/"

var pointerTokenReplacer = strings.NewReplacer("~1", "/", "~0", "~")

// Context holds the definitions of one schema document. It is built once per conversion and is not
// modified afterwards.
type Context struct {
	Definitions            map[string]*schema_node.Node
	DefinitionNamesInOrder []string
}

// DefinitionKey extracts the `$defs` key a reference points to. Only references into the local
// `$defs` table are supported.
func DefinitionKey(ref string) (string, error) {
	key, ok := strings.CutPrefix(ref, DefinitionReferencePrefix)
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: only local $defs references are supported: %q", typeGenerationErrors.ErrReference, ref),
			ref,
		)
	}

	return pointerTokenReplacer.Replace(key), nil
}

// ResolveReference returns the key and the definition a reference points to.
func (c *Context) ResolveReference(ref string) (string, *schema_node.Node, error) {
	key, err := DefinitionKey(ref)
	if err != nil {
		return "", nil, fmt.Errorf("definition key: %w", err)
	}

	definition, err := motmedelMaps.MapGetNonZero(c.Definitions, key)
	if err != nil {
		return "", nil, motmedelErrors.New(
			fmt.Errorf("%w: map get non zero: %w", typeGenerationErrors.ErrReference, err),
			key,
		)
	}

	return key, definition, nil
}

// CheckReferenceCycles fails when a definition that is nothing but a reference leads, through other
// such definitions, back to itself. References from inside a definition (a field, an item, a union
// member) are fine, since a reference is only ever rendered as the name of its target.
func (c *Context) CheckReferenceCycles() error {
	for _, name := range c.DefinitionNamesInOrder {
		visiting := map[string]struct{}{name: {}}
		chain := []string{name}

		node := c.Definitions[name]
		for node != nil && node.Ref != "" {
			key, next, err := c.ResolveReference(node.Ref)
			if err != nil {
				return fmt.Errorf("resolve reference (%s): %w", name, err)
			}

			chain = append(chain, key)
			if _, ok := visiting[key]; ok {
				return motmedelErrors.NewWithTrace(
					fmt.Errorf("%w: %s", typeGenerationErrors.ErrCycle, strings.Join(chain, " -> ")),
					chain,
				)
			}
			visiting[key] = struct{}{}
			node = next
		}
	}

	return nil
}

func New(root *schema_node.Node) (*Context, error) {
	if root == nil {
		return nil, motmedelErrors.NewWithTrace(typeGenerationErrors.ErrNilNode)
	}

	c := &Context{Definitions: map[string]*schema_node.Node{}}

	if defs := root.Defs; defs != nil {
		for pair := defs.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				return nil, motmedelErrors.NewWithTrace(
					fmt.Errorf("%w: %s", typeGenerationErrors.ErrNilDefinition, pair.Key),
					pair.Key,
				)
			}
			c.Definitions[pair.Key] = pair.Value
			c.DefinitionNamesInOrder = append(c.DefinitionNamesInOrder, pair.Key)
		}
	}

	if err := c.CheckReferenceCycles(); err != nil {
		return nil, fmt.Errorf("check reference cycles: %w", err)
	}

	return c, nil
}
