package repositories

import (
	"fmt"
	"strings"
)

// sqlValue is the part of nullable.Field the SET builder needs: presence and
// the bind argument (nil for an explicit null).
type sqlValue interface {
	IsSet() bool
	Arg() any
}

// change pairs a column with the sparse field that may update it.
type change struct {
	column string
	field  sqlValue
}

// buildSet assembles the SET clause for a partial update from the fields that
// were present in the request body. Placeholders are numbered from $1; the
// caller appends its own filter arguments after them.
func buildSet(changes ...change) (string, []any) {
	var parts []string
	var args []any

	for _, c := range changes {
		if !c.field.IsSet() {
			continue
		}
		args = append(args, c.field.Arg())
		parts = append(parts, fmt.Sprintf("%s = $%d", c.column, len(args)))
	}

	return strings.Join(parts, ", "), args
}
