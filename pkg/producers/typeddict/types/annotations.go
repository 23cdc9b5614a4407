package types

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

const (
	lengthValueName = "len()"
	numberValueName = "value"
	uniqueItems     = "Unique items"
)

func numbersEqual(a, b json.Number) (bool, error) {
	if a == b {
		return true, nil
	}

	aValue, err := parseFloat(a)
	if err != nil {
		return false, fmt.Errorf("parse float: %w", err)
	}
	bValue, err := parseFloat(b)
	if err != nil {
		return false, fmt.Errorf("parse float: %w", err)
	}

	return aValue == bValue, nil
}

// RangeAnnotations describes the range [minimum, maximum] of valueName, where an empty bound is
// absent. Equal bounds are described as an equality.
func RangeAnnotations(
	minimum json.Number,
	maximum json.Number,
	valueName string,
	exclusiveMinimum bool,
	exclusiveMaximum bool,
) ([]string, error) {
	var minimumString, maximumString string
	var err error
	if minimum != "" {
		if minimumString, err = RenderNumber(minimum); err != nil {
			return nil, fmt.Errorf("render number (minimum): %w", err)
		}
	}
	if maximum != "" {
		if maximumString, err = RenderNumber(maximum); err != nil {
			return nil, fmt.Errorf("render number (maximum): %w", err)
		}
	}

	maximumCompare := "<="
	if exclusiveMaximum {
		maximumCompare = "<"
	}

	switch {
	case minimum != "" && maximum != "":
		equal, err := numbersEqual(minimum, maximum)
		if err != nil {
			return nil, fmt.Errorf("numbers equal: %w", err)
		}
		if equal {
			return []string{fmt.Sprintf("%s == %s", valueName, minimumString)}, nil
		}

		minimumCompare := "<="
		if exclusiveMinimum {
			minimumCompare = "<"
		}
		return []string{
			fmt.Sprintf("%s %s %s %s %s", minimumString, minimumCompare, valueName, maximumCompare, maximumString),
		}, nil
	case minimum != "":
		minimumCompare := ">="
		if exclusiveMinimum {
			minimumCompare = ">"
		}
		return []string{fmt.Sprintf("%s %s %s", valueName, minimumCompare, minimumString)}, nil
	case maximum != "":
		return []string{fmt.Sprintf("%s %s %s", valueName, maximumCompare, maximumString)}, nil
	}

	return nil, nil
}

func StringAnnotations(node *schema_node.Node) ([]string, error) {
	annotations, err := RangeAnnotations(node.MinLength, node.MaxLength, lengthValueName, false, false)
	if err != nil {
		return nil, fmt.Errorf("range annotations (length): %w", err)
	}

	if node.Pattern != "" {
		annotations = append(annotations, fmt.Sprintf("/%s/", node.Pattern))
	}

	return annotations, nil
}

// NumberAnnotations describes the bounds and divisor of a number. A numeric exclusive bound replaces
// the inclusive one; a boolean exclusive bound makes the inclusive one strict.
func NumberAnnotations(node *schema_node.Node) ([]string, error) {
	minimum, exclusiveMinimum := node.Minimum, node.ExclusiveMinimumFlag
	if node.ExclusiveMinimum != "" {
		minimum, exclusiveMinimum = node.ExclusiveMinimum, true
	}

	maximum, exclusiveMaximum := node.Maximum, node.ExclusiveMaximumFlag
	if node.ExclusiveMaximum != "" {
		maximum, exclusiveMaximum = node.ExclusiveMaximum, true
	}

	annotations, err := RangeAnnotations(minimum, maximum, numberValueName, exclusiveMinimum, exclusiveMaximum)
	if err != nil {
		return nil, fmt.Errorf("range annotations (value): %w", err)
	}

	if node.MultipleOf != "" {
		multipleOf, err := RenderNumber(node.MultipleOf)
		if err != nil {
			return nil, fmt.Errorf("render number (multiple of): %w", err)
		}
		annotations = append(annotations, fmt.Sprintf("%s %% %s == 0", numberValueName, multipleOf))
	}

	return annotations, nil
}

func ArrayAnnotations(node *schema_node.Node) ([]string, error) {
	annotations, err := RangeAnnotations(node.MinItems, node.MaxItems, lengthValueName, false, false)
	if err != nil {
		return nil, fmt.Errorf("range annotations (items): %w", err)
	}

	if node.UniqueItems {
		annotations = append(annotations, uniqueItems)
	}

	return annotations, nil
}

func MapAnnotations(node *schema_node.Node) ([]string, error) {
	annotations, err := RangeAnnotations(node.MinProperties, node.MaxProperties, lengthValueName, false, false)
	if err != nil {
		return nil, fmt.Errorf("range annotations (properties): %w", err)
	}
	return annotations, nil
}

func annotate(t Type, annotations []string) Type {
	if len(annotations) == 0 {
		return t
	}
	return &AnnotatedType{Type: t, Annotations: annotations}
}
