package types

import (
	"errors"
	"slices"
	"testing"

	typeGenerationErrors "github.com/vphpersson/typeddict_generation/pkg/errors"
	typeddictErrors "github.com/vphpersson/typeddict_generation/pkg/producers/typeddict/errors"
	typeGenerationContext "github.com/vphpersson/typeddict_generation/pkg/types/context"
	"github.com/vphpersson/typeddict_generation/pkg/types/type_declaration"
)

func convert(t *testing.T, document string) (*Result, error) {
	t.Helper()

	root := mustParse(t, document)
	context, err := typeGenerationContext.New(root)
	if err != nil {
		t.Fatalf("context New error: %v", err)
	}

	return (&Context{Context: context}).Convert("Root", root)
}

func mustConvert(t *testing.T, document string) *Result {
	t.Helper()

	result, err := convert(t, document)
	if err != nil {
		t.Fatalf("Convert(%s) error: %v", document, err)
	}
	return result
}

func inlineString(t *testing.T, result *Result) string {
	t.Helper()

	inline, err := result.Inline.String()
	if err != nil {
		t.Fatalf("inline String error: %v", err)
	}
	return inline
}

func declarationNames(result *Result) []string {
	var names []string
	for _, declaration := range result.Declarations {
		names = append(names, declaration.QualifiedName())
	}
	return names
}

func TestConvertInline(t *testing.T) {
	tests := []struct {
		name             string
		document         string
		want             string
		wantDeclarations []string
	}{
		{name: "string", document: `{"type": "string"}`, want: "str"},
		{name: "null", document: `{"type": "null"}`, want: "None"},
		{name: "type list", document: `{"type": ["string", "null"]}`, want: "str | None"},
		{name: "single type list", document: `{"type": ["integer"]}`, want: "int"},
		{
			name:     "annotated string",
			document: `{"type": "string", "minLength": 1, "pattern": "^a"}`,
			want:     `typ.Annotated[str, 'len() >= 1', '/^a/']`,
		},
		{
			name:     "number annotations only for numbers",
			document: `{"type": ["integer", "string"], "minimum": 1, "maxLength": 3}`,
			want:     `typ.Annotated[int, 'value >= 1'] | typ.Annotated[str, 'len() <= 3']`,
		},
		{
			name:     "array",
			document: `{"type": "array", "items": {"type": "integer"}, "minItems": 2, "maxItems": 2, "uniqueItems": true}`,
			want:     `typ.Annotated[list[int], 'len() == 2', 'Unique items']`,
		},
		{name: "array without items", document: `{"type": "array"}`, want: "list[typ.Any]"},
		{name: "array of false", document: `{"type": "array", "items": false}`, want: "list[typ.Never]"},
		{name: "const", document: `{"const": "fixed"}`, want: "typ.Literal['fixed']"},
		{name: "const null", document: `{"const": null}`, want: "typ.Literal[None]"},
		{name: "const object", document: `{"type": "object", "const": {"a": 1}, "additionalProperties": {"type": "integer"}}`, want: "dict[str, int]"},
		{
			name:             "enum",
			document:         `{"enum": ["a", 1, null]}`,
			want:             "Root",
			wantDeclarations: []string{"Root"},
		},
		{
			name:             "single alternative keeps the path",
			document:         `{"anyOf": [{"type": "object", "properties": {"a": {"type": "string"}}}]}`,
			want:             "Root",
			wantDeclarations: []string{"Root"},
		},
		{
			name: "alternatives are numbered",
			document: `{"anyOf": [
				{"type": "object", "properties": {"a": {"type": "string"}}},
				{"type": "string"},
				{"type": "object", "properties": {"b": {"type": "string"}}}
			]}`,
			want:             "RootAny0 | str | RootAny2",
			wantDeclarations: []string{"RootAny0", "RootAny2"},
		},
		{
			name:     "open map from additional properties",
			document: `{"type": "object", "additionalProperties": {"type": "integer"}, "minProperties": 1}`,
			want:     `typ.Annotated[dict[str, int], 'len() >= 1']`,
		},
		{
			name: "open map from pattern properties",
			document: `{"type": "object", "propertyNames": {"pattern": "^x"},
				"patternProperties": {"^x": {"type": "string"}, "^y": {"type": "integer"}}}`,
			want: `dict[typ.Annotated[str, '/^x/'] | str, str | int]`,
		},
		{
			name:             "open map with keyed values",
			document:         `{"type": "object", "propertyNames": {"enum": ["a", "b"]}, "additionalProperties": {"type": "boolean"}}`,
			want:             `dict[RootKey, bool]`,
			wantDeclarations: []string{"RootKey"},
		},
		{
			name:             "open map with record values",
			document:         `{"type": "object", "additionalProperties": {"type": "object", "properties": {"x": {"type": "string"}}}}`,
			want:             `dict[str, RootValue]`,
			wantDeclarations: []string{"RootValue"},
		},
		{
			name: "open map with record values per pattern",
			document: `{"type": "object", "patternProperties": {
				"^a": {"type": "object", "properties": {"x": {"type": "string"}}},
				"^b": {"type": "object", "properties": {"y": {"type": "string"}}}
			}}`,
			want:             `dict[str, RootValueAny0 | RootValueAny1]`,
			wantDeclarations: []string{"RootValueAny0", "RootValueAny1"},
		},
		{
			name:             "object with properties stays a record",
			document:         `{"type": "object", "properties": {"a": {"type": "string"}}, "additionalProperties": {"type": "integer"}}`,
			want:             "Root",
			wantDeclarations: []string{"Root"},
		},
		{
			name: "nested declarations come first",
			document: `{"type": "object", "properties": {
				"color": {"enum": ["red"]},
				"items": {"type": "array", "items": {"type": "object", "properties": {"x": {"type": "integer"}}}}
			}}`,
			want:             "Root",
			wantDeclarations: []string{"RootColor", "RootItemsItem", "Root"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := mustConvert(t, test.document)
			if got := inlineString(t, result); got != test.want {
				t.Errorf("inline = %s, want %s", got, test.want)
			}
			if got := declarationNames(result); !slices.Equal(got, test.wantDeclarations) {
				t.Errorf("declarations = %v, want %v", got, test.wantDeclarations)
			}
		})
	}
}

// numMarked counts the fields whose requiredness differs from the record's totality.
func numMarked(record *type_declaration.RecordDeclaration) int {
	count := 0
	for _, property := range record.Properties {
		if property.Required != record.Total {
			count++
		}
	}
	return count
}

func TestConvertRecordTotality(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantTotal bool
		wantField map[string]string
	}{
		{
			name: "mostly required",
			document: `{"type": "object", "required": ["a", "b"], "properties": {
				"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}
			}}`,
			wantTotal: true,
			wantField: map[string]string{"a": "str", "b": "str", "c": "typ.NotRequired[str]"},
		},
		{
			name: "mostly optional",
			document: `{"type": "object", "required": ["a"], "properties": {
				"a": {"type": "string"}, "b": {"type": "string"}, "c": {"type": "string"}
			}}`,
			wantTotal: false,
			wantField: map[string]string{"a": "typ.Required[str]", "b": "str", "c": "str"},
		},
		{
			name:      "tie is not total",
			document:  `{"type": "object", "required": ["a"], "properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`,
			wantTotal: false,
			wantField: map[string]string{"a": "typ.Required[str]", "b": "str"},
		},
		{
			name:      "required names without properties do not count",
			document:  `{"type": "object", "required": ["a", "x", "y"], "properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`,
			wantTotal: false,
			wantField: map[string]string{"a": "typ.Required[str]", "b": "str"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := mustConvert(t, test.document)
			record, ok := result.Declarations[len(result.Declarations)-1].(*type_declaration.RecordDeclaration)
			if !ok {
				t.Fatalf("last declaration is %T, want a record", result.Declarations[len(result.Declarations)-1])
			}
			if record.Total != test.wantTotal {
				t.Errorf("Total = %v, want %v", record.Total, test.wantTotal)
			}

			wrapped := &RecordDeclaration{RecordDeclaration: record}
			for _, property := range record.Properties {
				got, err := wrapped.propertyTypeString(property)
				if err != nil {
					t.Fatalf("propertyTypeString error: %v", err)
				}
				if want := test.wantField[property.Identifier]; got != want {
					t.Errorf("field %s = %s, want %s", property.Identifier, got, want)
				}
			}

			marked := numMarked(record)
			if unmarked := len(record.Properties) - marked; marked > unmarked {
				t.Errorf("%d fields carry a marker and %d do not, want the minority marked", marked, unmarked)
			}
		})
	}
}

func TestConvertRecordFields(t *testing.T) {
	result := mustConvert(t, `{
		"type": "object",
		"title": "Root record",
		"description": "Describes the root.",
		"additionalProperties": false,
		"properties": {
			"$schema": {"type": "string"},
			"name": {"type": "string", "description": "The name.", "default": "anon"},
			"tags": {"type": ["array", "null"], "items": {"type": "string"}, "default": null},
			"ref": {"$ref": "#/$defs/Thing", "description": "Local description."}
		},
		"$defs": {"Thing": {"type": "integer", "title": "Thing", "description": "Definition description.", "default": 1}}
	}`)

	record := result.Declarations[len(result.Declarations)-1].(*type_declaration.RecordDeclaration)
	if !record.Final {
		t.Errorf("Final = false, want true")
	}

	var names []string
	for _, property := range record.Properties {
		names = append(names, property.Identifier)
	}
	if want := []string{"name", "tags", "ref"}; !slices.Equal(names, want) {
		t.Fatalf("fields = %v, want %v", names, want)
	}

	name := record.Properties[0]
	if name.Default == nil || string(*name.Default) != `"anon"` {
		t.Errorf("name default = %v, want \"anon\"", name.Default)
	}
	if want := []string{"The name."}; !slices.Equal(name.Docstring, want) {
		t.Errorf("name docstring = %q, want %q", name.Docstring, want)
	}

	tags := record.Properties[1]
	if tags.Default == nil || string(*tags.Default) != "null" {
		t.Errorf("tags default = %v, want null", tags.Default)
	}

	ref := record.Properties[2]
	if got, _ := ref.Type.String(); got != "Thing" {
		t.Errorf("ref type = %s, want Thing", got)
	}
	if want := []string{"Thing", "", "Local description."}; !slices.Equal(ref.Docstring, want) {
		t.Errorf("ref docstring = %q, want %q", ref.Docstring, want)
	}
	if ref.Default == nil || string(*ref.Default) != "1" {
		t.Errorf("ref default = %v, want 1", ref.Default)
	}

	if want := []string{"Root record", "", "Describes the root."}; !slices.Equal(record.Docstring, want) {
		t.Errorf("record docstring = %q, want %q", record.Docstring, want)
	}
	if want := []string{"Describes the root."}; !slices.Equal(result.Docstring, want) {
		t.Errorf("result docstring = %q, want %q", result.Docstring, want)
	}
}

func TestConvertUnionHasNoImplicitDefault(t *testing.T) {
	result := mustConvert(t, `{"type": "object", "properties": {"a": {"anyOf": [{"type": "string"}, {"type": "integer"}]}}}`)

	record := result.Declarations[len(result.Declarations)-1].(*type_declaration.RecordDeclaration)
	if record.Properties[0].Default != nil {
		t.Errorf("default = %s, want none", *record.Properties[0].Default)
	}
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantErrs []error
	}{
		{
			name:     "no type",
			document: `{"type": "object", "properties": {"a": {"description": "untyped"}}}`,
			wantErrs: []error{typeddictErrors.ErrSchema, typeGenerationErrors.ErrNoType},
		},
		{
			name:     "unknown type",
			document: `{"type": "array", "items": {"type": "date"}}`,
			wantErrs: []error{typeddictErrors.ErrSchema, typeGenerationErrors.ErrUnknownType},
		},
		{
			name:     "remote reference",
			document: `{"type": "object", "properties": {"a": {"$ref": "other.json#/$defs/A"}}}`,
			wantErrs: []error{typeGenerationErrors.ErrReference},
		},
		{
			name:     "const object with unknown type",
			document: `{"const": {"a": 1}, "type": "decimal"}`,
			wantErrs: []error{typeddictErrors.ErrSchema, typeGenerationErrors.ErrUnknownType},
		},
		{
			name:     "missing definition",
			document: `{"anyOf": [{"$ref": "#/$defs/Missing"}, {"type": "null"}]}`,
			wantErrs: []error{typeGenerationErrors.ErrReference},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := convert(t, test.document)
			for _, wantErr := range test.wantErrs {
				if !errors.Is(err, wantErr) {
					t.Errorf("Convert error = %v, want %v", err, wantErr)
				}
			}
		})
	}
}

func TestConvertDoesNotModifySchema(t *testing.T) {
	document := `{"type": "object", "properties": {"a": {"type": "string"}, "$schema": {"type": "string"}},
		"oneOf": [{"properties": {"b": {"type": "integer"}}}]}`
	root := mustParse(t, document)
	context, err := typeGenerationContext.New(root)
	if err != nil {
		t.Fatalf("context New error: %v", err)
	}

	if _, err := (&Context{Context: context}).Convert("Root", root); err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	if want := []string{"a", "$schema"}; !slices.Equal(propertyKeys(root.Properties), want) {
		t.Errorf("properties after conversion = %v, want %v", propertyKeys(root.Properties), want)
	}
	if len(root.OneOf) != 1 {
		t.Errorf("oneOf after conversion has %d entries, want 1", len(root.OneOf))
	}
}
