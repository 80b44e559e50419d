package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	cases := []struct {
		sort  string
		order SortOrder
		want  string
	}{
		{"created_at", SortDesc, "ORDER BY t.created_at DESC"},
		{"title", SortAsc, "ORDER BY t.title ASC"},
		{"category_name", SortAsc, "ORDER BY c.name ASC"},
		{"claimed_by_username", SortDesc, "ORDER BY u.username DESC"},
		// Anything outside the allow-list falls back to id; caller input
		// never reaches the SQL text directly.
		{"id; DROP TABLE tickets", SortAsc, "ORDER BY t.id ASC"},
		{"password_hash", SortDesc, "ORDER BY t.id DESC"},
		{"", SortAsc, "ORDER BY t.id ASC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, orderClause(tc.sort, tc.order))
	}
}
