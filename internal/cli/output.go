package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// writeResult prints a script result, either as JSON or in the layout redis-cli uses.
func writeResult(w io.Writer, format string, result interface{}) error {
	if format == "json" {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	_, err := io.WriteString(w, formatText(result, 0))
	return err
}

func formatText(v interface{}, indent int) string {
	switch value := v.(type) {
	case nil:
		return "(nil)\n"
	case int64:
		return fmt.Sprintf("(integer) %d\n", value)
	case string:
		return strconv.Quote(value) + "\n"
	case []interface{}:
		if len(value) == 0 {
			return "(empty array)\n"
		}

		var b strings.Builder
		width := len(strconv.Itoa(len(value)))
		for i, item := range value {
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			if i > 0 {
				b.WriteString(strings.Repeat(" ", indent))
			}
			b.WriteString(prefix)
			b.WriteString(formatText(item, indent+len(prefix)))
		}
		return b.String()
	default:
		return fmt.Sprintf("%v\n", value)
	}
}
