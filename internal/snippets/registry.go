package snippets

import (
	"fmt"
	"strings"
)

// catalogue is built once; callers only ever receive copies.
var catalogue = []struct {
	category   Category
	operations []Operation
}{
	{CategoryUsers, usersSnippets()},
	{CategoryContacts, contactsSnippets()},
}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, 0, len(catalogue))
	for _, c := range catalogue {
		out = append(out, c.category)
	}
	return out
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(name string) (Category, error) {
	for _, c := range catalogue {
		if strings.EqualFold(string(c.category), strings.TrimSpace(name)) {
			return c.category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// ListOperations returns the operations of category in order, marker first.
// It returns nil for an unknown category.
func ListOperations(category Category) []Operation {
	for _, c := range catalogue {
		if c.category == category {
			return append([]Operation(nil), c.operations...)
		}
	}
	return nil
}

// All returns every operation of every category, markers included.
func All() []Operation {
	var out []Operation
	for _, c := range catalogue {
		out = append(out, c.operations...)
	}
	return out
}

// Executable returns every runnable operation.
func Executable() []Operation {
	var out []Operation
	for _, op := range All() {
		if op.Executable() {
			out = append(out, op)
		}
	}
	return out
}

// Lookup finds a runnable operation by name.
func Lookup(name string) (Operation, error) {
	for _, op := range All() {
		if op.Name == name && op.Executable() {
			return op, nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}
