package snippets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ops []Operation) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Name)
	}
	return out
}

func TestListOperationsUsers(t *testing.T) {
	ops := ListOperations(CategoryUsers)
	require.Len(t, ops, 4)

	assert.True(t, ops[0].Marker)
	assert.False(t, ops[0].Executable())
	assert.Equal(t, []string{
		"get_organization_users",
		"get_organization_filtered_users",
		"insert_organization_user",
	}, names(ops[1:]))
	for _, op := range ops[1:] {
		assert.True(t, op.Executable(), op.Name)
	}
}

func TestListOperationsContacts(t *testing.T) {
	ops := ListOperations(CategoryContacts)
	require.Len(t, ops, 2)
	assert.True(t, ops[0].Marker)
	assert.Equal(t, "get_all_contacts", ops[1].Name)
}

func TestListOperationsUnknownCategory(t *testing.T) {
	assert.Nil(t, ListOperations("calendar"))
}

func TestListOperationsReturnsCopy(t *testing.T) {
	ops := ListOperations(CategoryUsers)
	ops[1].Name = "changed"

	assert.Equal(t, "get_organization_users", ListOperations(CategoryUsers)[1].Name)
}

func TestEveryCategoryStartsWithItsMarker(t *testing.T) {
	seen := map[string]Category{}
	for _, category := range Categories() {
		ops := ListOperations(category)
		require.NotEmpty(t, ops)
		assert.True(t, ops[0].Marker, "first entry of %s must be a marker", category)

		for i, op := range ops {
			assert.Equal(t, category, op.Category)
			if i > 0 {
				assert.False(t, op.Marker, "%s has a second marker", category)
				assert.NotEmpty(t, op.Description, op.Name)
				assert.NotEmpty(t, op.Method, op.Name)
			}
			prev, dup := seen[op.Name]
			assert.False(t, dup, "%s registered in %s and %s", op.Name, prev, category)
			seen[op.Name] = category
		}
	}
}

func TestLookup(t *testing.T) {
	op, err := Lookup("get_all_contacts")
	require.NoError(t, err)
	assert.Equal(t, CategoryContacts, op.Category)

	_, err = Lookup("delete_everything")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = Lookup("users")
	assert.ErrorIs(t, err, ErrUnknownOperation, "markers are not runnable")
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Users ")
	require.NoError(t, err)
	assert.Equal(t, CategoryUsers, c)

	_, err = ParseCategory("mail")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestExecutableExcludesMarkers(t *testing.T) {
	assert.Len(t, Executable(), 4)
	assert.Len(t, All(), 6)
}
