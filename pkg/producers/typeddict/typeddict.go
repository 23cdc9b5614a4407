package typeddict

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/vphpersson/typeddict_generation/pkg/producers/typeddict/types"
	typeGenerationContext "github.com/vphpersson/typeddict_generation/pkg/types/context"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

// Render renders the stub for a decoded schema document, naming the root type rootName.
func Render(root *schema_node.Node, rootName string) (string, error) {
	context, err := typeGenerationContext.New(root)
	if err != nil {
		return "", fmt.Errorf("context new: %w", err)
	}

	typeddictContext := types.Context{Context: context}

	output, err := typeddictContext.Render(root, rootName)
	if err != nil {
		return "", motmedelErrors.New(fmt.Errorf("render: %w", err), rootName)
	}

	slog.Debug("rendered stub", "root", rootName, "definitions", len(context.DefinitionNamesInOrder))

	return output, nil
}

// Convert renders the stub for a schema document in the given format.
func Convert(data []byte, format schema_node.Format, rootName string) (string, error) {
	root, err := schema_node.Parse(data, format)
	if err != nil {
		return "", fmt.Errorf("parse (%s): %w", format, err)
	}

	output, err := Render(root, rootName)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	return output, nil
}

// ConvertFile reads the schema at schemaPath, decoding it as YAML for `.yaml` and `.yml` files and as
// JSON otherwise, and renders its stub.
func ConvertFile(schemaPath string, rootName string) (string, error) {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("os read file: %w", err), schemaPath)
	}

	format := schema_node.FormatFromPath(schemaPath)
	slog.Debug("read schema", "path", schemaPath, "format", format.String(), "bytes", len(data))

	output, err := Convert(data, format, rootName)
	if err != nil {
		return "", motmedelErrors.New(fmt.Errorf("convert: %w", err), schemaPath)
	}

	return output, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it into place, so that
// path either keeps its old content or gets all of data.
func WriteFileAtomic(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("os create temp: %w", err), path)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(temporaryPath)
		return motmedelErrors.NewWithTrace(fmt.Errorf("file write: %w", err), temporaryPath)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(temporaryPath)
		return motmedelErrors.NewWithTrace(fmt.Errorf("file close: %w", err), temporaryPath)
	}

	if err := os.Chmod(temporaryPath, 0o644); err != nil {
		_ = os.Remove(temporaryPath)
		return motmedelErrors.NewWithTrace(fmt.Errorf("os chmod: %w", err), temporaryPath)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		_ = os.Remove(temporaryPath)
		return motmedelErrors.NewWithTrace(fmt.Errorf("os rename: %w", err), temporaryPath, path)
	}

	return nil
}

// ConvertSchemaTo renders the stub for the schema at schemaPath and writes it to outputPath,
// replacing any existing file. Nothing is written when the conversion fails.
func ConvertSchemaTo(schemaPath string, outputPath string, rootName string) error {
	output, err := ConvertFile(schemaPath, rootName)
	if err != nil {
		return fmt.Errorf("convert file: %w", err)
	}

	if err := WriteFileAtomic(outputPath, []byte(output)); err != nil {
		return fmt.Errorf("write file atomic: %w", err)
	}

	slog.Info("wrote typed dict stub", "schema", schemaPath, "output", outputPath, "root", rootName)

	return nil
}
