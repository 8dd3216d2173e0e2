package utils

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type searchRow struct {
	ID    string
	Title string
}

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{DryRun: true, SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func buildSQL(db *gorm.DB) string {
	var rows []searchRow
	return db.Find(&rows).Statement.SQL.String()
}

func TestQueryBuilder(t *testing.T) {
	qb := &QueryBuilder{
		SearchFields:  []string{"title", "description"},
		FilterColumns: map[string]bool{"status": true},
		SortColumns:   map[string]bool{"created_at": true},
		DefaultSort:   "created_at DESC",
	}

	t.Run("search spans all whitelisted columns", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplySearch(db.Model(&searchRow{}), "coffee"))

		assert.Contains(t, sql, "title ILIKE")
		assert.Contains(t, sql, "description ILIKE")
		assert.Contains(t, sql, " OR ")
	})

	t.Run("blank search is a no-op", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplySearch(db.Model(&searchRow{}), "   "))

		assert.NotContains(t, sql, "ILIKE")
	})

	t.Run("filter outside whitelist ignored", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplyFilter(db.Model(&searchRow{}), "password", "x"))

		assert.NotContains(t, sql, "password")
	})

	t.Run("whitelisted filter applied", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplyFilter(db.Model(&searchRow{}), "status", "active"))

		assert.Contains(t, sql, "status = ")
	})

	t.Run("unknown sort column falls back to default", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplySort(db.Model(&searchRow{}), "password", "asc"))

		assert.Contains(t, sql, "created_at DESC")
	})

	t.Run("whitelisted sort respects direction", func(t *testing.T) {
		db := newDryRunDB(t)
		sql := buildSQL(qb.ApplySort(db.Model(&searchRow{}), "created_at", "desc"))

		assert.Contains(t, sql, "created_at DESC")
	})

	t.Run("apply paginates with clamped limit", func(t *testing.T) {
		db := newDryRunDB(t)
		q := &ListQuery{Pagination: Pagination{Page: 2, Limit: 500}}
		sql := buildSQL(qb.Apply(db.Model(&searchRow{}), q, nil))

		assert.Contains(t, sql, "LIMIT")
		assert.Contains(t, sql, "OFFSET")
		assert.Equal(t, 100, q.Limit) // 上限 100
		assert.Equal(t, 2, q.Page)
	})
}

func TestPagination(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		p := &Pagination{}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 0, offset)
		assert.Equal(t, 10, limit)
	})

	t.Run("offset computed from page", func(t *testing.T) {
		p := &Pagination{Page: 3, Limit: 20}
		offset, limit := p.GetPageOffset()
		assert.Equal(t, 40, offset)
		assert.Equal(t, 20, limit)
	})
}
