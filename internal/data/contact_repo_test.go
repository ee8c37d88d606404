package data

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func TestBuildContactUpdateEmpty(t *testing.T) {
	query, args := buildContactUpdate(7, 3, model.UpdateContactRequest{})

	require.Empty(t, query)
	require.Nil(t, args)
}

func TestBuildContactUpdateSingleField(t *testing.T) {
	query, args := buildContactUpdate(7, 3, model.UpdateContactRequest{
		Phone: strPtr("+380501112233"),
	})

	require.Equal(t,
		"UPDATE contacts SET phone = $1 WHERE id = $2 AND user_id = $3 RETURNING "+contactColumns,
		query)
	require.Equal(t, []any{"+380501112233", int64(3), int64(7)}, args)
}

func TestBuildContactUpdatePlaceholderOrder(t *testing.T) {
	query, args := buildContactUpdate(7, 3, model.UpdateContactRequest{
		Name:      strPtr("Bob"),
		Email:     strPtr("bob@example.com"),
		ExtraInfo: strPtr("met at gophercon"),
	})

	// Placeholders must count up with the args slice regardless of which
	// fields are present.
	require.Equal(t,
		"UPDATE contacts SET name = $1, email = $2, extra_info = $3"+
			" WHERE id = $4 AND user_id = $5 RETURNING "+contactColumns,
		query)
	require.Equal(t,
		[]any{"Bob", "bob@example.com", "met at gophercon", int64(3), int64(7)},
		args)
}
