package handlers

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("accepts RFC3339", func(t *testing.T) {
		parsed, err := ParseDate("2024-01-15T10:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, 10, parsed.Hour())
	})

	t.Run("accepts datetime", func(t *testing.T) {
		parsed, err := ParseDate("2024-01-15 10:30:00")
		require.NoError(t, err)
		assert.Equal(t, 15, parsed.Day())
	})

	t.Run("accepts bare date", func(t *testing.T) {
		parsed, err := ParseDate("2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, 0, parsed.Hour())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseDate("not-a-date")
		assert.Error(t, err)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDate("")
		assert.Error(t, err)
	})
}

func TestOneOf(t *testing.T) {
	assert.True(t, OneOf("kg", "kg", "ton", "bag"))
	assert.False(t, OneOf("lbs", "kg", "ton", "bag"))
	assert.False(t, OneOf("", "kg", "ton", "bag"))
}

func TestCheckBlankFields(t *testing.T) {
	type form struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	assert.NoError(t, CheckBlankFields(form{Name: "Awa", Email: "awa@coop.sn"}))

	err := CheckBlankFields(form{Name: "Awa"})
	require.Error(t, err)
	assert.Equal(t, "email is required", err.Error())

	err = CheckBlankFields(form{Name: "   ", Email: "awa@coop.sn"})
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	// Untagged fields fall back to the lowercased Go name.
	err = CheckBlankFields(struct{ Village string }{})
	require.Error(t, err)
	assert.Equal(t, "village is required", err.Error())
}

func TestMissingMemberID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	existsQuery := regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)")

	t.Run("all ids resolve", func(t *testing.T) {
		mock.ExpectQuery(existsQuery).WithArgs("m-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(existsQuery).WithArgs("m-2").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		missing, err := MissingMemberID(context.Background(), db, []string{"m-1", "m-2"})
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("reports the unknown id", func(t *testing.T) {
		mock.ExpectQuery(existsQuery).WithArgs("m-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(existsQuery).WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		missing, err := MissingMemberID(context.Background(), db, []string{"m-1", "ghost"})
		require.NoError(t, err)
		assert.Equal(t, "ghost", missing)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
