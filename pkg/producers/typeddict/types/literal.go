package types

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/goccy/go-json"
	"github.com/vphpersson/typeddict_generation/pkg/types/schema_node"
)

var ErrUnexpectedToken = errors.New("unexpected token")

// QuoteString renders a string the way Python's repr() does: single quotes unless the string holds a
// single quote and no double quote.
func QuoteString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var builder strings.Builder
	builder.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			builder.WriteRune('\\')
			builder.WriteRune(r)
		case r == '\t':
			builder.WriteString(`\t`)
		case r == '\n':
			builder.WriteString(`\n`)
		case r == '\r':
			builder.WriteString(`\r`)
		case r == ' ' || (r != 0x7f && r > 0x1f && unicode.IsPrint(r)):
			builder.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&builder, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&builder, `\u%04x`, r)
		default:
			fmt.Fprintf(&builder, `\U%08x`, r)
		}
	}
	builder.WriteRune(quote)

	return builder.String()
}

// parseFloat parses a JSON number as a float64. Numbers beyond its range become infinities.
func parseFloat(number json.Number) (float64, error) {
	value, err := strconv.ParseFloat(string(number), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, motmedelErrors.NewWithTrace(fmt.Errorf("strconv parse float: %w", err), number)
	}
	return value, nil
}

// RenderNumber renders a JSON number the way Python prints the value json.loads() makes of it:
// integers as written, anything with a fraction or an exponent as a float.
func RenderNumber(number json.Number) (string, error) {
	text := string(number)
	if !strings.ContainsAny(text, ".eE") {
		value, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return "", motmedelErrors.NewWithTrace(fmt.Errorf("%w: number %q", ErrUnexpectedToken, text), text)
		}
		return value.String(), nil
	}

	value, err := parseFloat(number)
	if err != nil {
		return "", fmt.Errorf("parse float: %w", err)
	}

	switch {
	case math.IsInf(value, 1):
		return "inf", nil
	case math.IsInf(value, -1):
		return "-inf", nil
	}

	scientific := strconv.FormatFloat(value, 'e', -1, 64)
	exponent, err := strconv.Atoi(scientific[strings.IndexByte(scientific, 'e')+1:])
	if err != nil {
		return "", motmedelErrors.NewWithTrace(fmt.Errorf("strconv atoi: %w", err), scientific)
	}

	if exponent < -4 || exponent >= 16 {
		return scientific, nil
	}

	decimal := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsRune(decimal, '.') {
		decimal += ".0"
	}

	return decimal, nil
}

func renderLiteralValue(decoder *json.Decoder, builder *strings.Builder) error {
	token, err := decoder.Token()
	if err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("decoder token: %w", err))
	}

	switch value := token.(type) {
	case json.Delim:
		switch value {
		case '[':
			builder.WriteString("[")
			for i := 0; decoder.More(); i++ {
				if i > 0 {
					builder.WriteString(", ")
				}
				if err := renderLiteralValue(decoder, builder); err != nil {
					return err
				}
			}
			builder.WriteString("]")
		case '{':
			builder.WriteString("{")
			for i := 0; decoder.More(); i++ {
				if i > 0 {
					builder.WriteString(", ")
				}

				keyToken, err := decoder.Token()
				if err != nil {
					return motmedelErrors.NewWithTrace(fmt.Errorf("decoder token (key): %w", err))
				}
				key, ok := keyToken.(string)
				if !ok {
					return motmedelErrors.NewWithTrace(fmt.Errorf("%w: object key %v", ErrUnexpectedToken, keyToken))
				}
				builder.WriteString(QuoteString(key))
				builder.WriteString(": ")

				if err := renderLiteralValue(decoder, builder); err != nil {
					return err
				}
			}
			builder.WriteString("}")
		default:
			return motmedelErrors.NewWithTrace(fmt.Errorf("%w: delimiter %v", ErrUnexpectedToken, value))
		}

		if _, err := decoder.Token(); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("decoder token (closing delimiter): %w", err))
		}
	case string:
		builder.WriteString(QuoteString(value))
	case json.Number:
		number, err := RenderNumber(value)
		if err != nil {
			return fmt.Errorf("render number: %w", err)
		}
		builder.WriteString(number)
	case bool:
		if value {
			builder.WriteString("True")
		} else {
			builder.WriteString("False")
		}
	case nil:
		builder.WriteString("None")
	default:
		return motmedelErrors.NewWithTrace(fmt.Errorf("%w: %T", ErrUnexpectedToken, token))
	}

	return nil
}

// RenderLiteral renders a JSON value as a Python literal, keeping the order of object members.
func RenderLiteral(literal schema_node.Literal) (string, error) {
	decoder := json.NewDecoder(bytes.NewReader(literal))
	decoder.UseNumber()

	var builder strings.Builder
	if err := renderLiteralValue(decoder, &builder); err != nil {
		return "", motmedelErrors.New(fmt.Errorf("render literal value: %w", err), string(literal))
	}

	return builder.String(), nil
}
