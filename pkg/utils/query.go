package utils

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ListQuery 通用列表查询参数
type ListQuery struct {
	Pagination
	Search  string `json:"search" form:"search"`
	SortBy  string `json:"sortBy" form:"sort_by"`
	SortDir string `json:"sortDir" form:"sort_dir"`
}

// QueryBuilder 通用列表查询构造器
// 每个实体用白名单列配置一次，搜索/过滤/排序逻辑只实现一遍
type QueryBuilder struct {
	SearchFields  []string        // 模糊搜索命中的列
	FilterColumns map[string]bool // 允许等值过滤的列
	SortColumns   map[string]bool // 允许排序的列
	DefaultSort   string          // 默认排序，如 "created_at DESC"
}

// ApplySearch 在所有搜索列上做 ILIKE 模糊匹配
func (qb *QueryBuilder) ApplySearch(db *gorm.DB, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(qb.SearchFields) == 0 {
		return db
	}

	conds := make([]string, 0, len(qb.SearchFields))
	args := make([]interface{}, 0, len(qb.SearchFields))
	pattern := "%" + term + "%"
	for _, f := range qb.SearchFields {
		conds = append(conds, fmt.Sprintf("%s ILIKE ?", f))
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// ApplyFilter 等值过滤，列名必须在白名单内，否则忽略
func (qb *QueryBuilder) ApplyFilter(db *gorm.DB, column string, value interface{}) *gorm.DB {
	if !qb.FilterColumns[column] {
		return db
	}
	return db.Where(fmt.Sprintf("%s = ?", column), value)
}

// ApplySort 排序，非白名单列回退到默认排序
func (qb *QueryBuilder) ApplySort(db *gorm.DB, column, direction string) *gorm.DB {
	if !qb.SortColumns[column] {
		if qb.DefaultSort != "" {
			return db.Order(qb.DefaultSort)
		}
		return db
	}
	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", column, dir))
}

// Conditions 只套用搜索和过滤条件，不含排序分页，计数查询用
func (qb *QueryBuilder) Conditions(db *gorm.DB, q *ListQuery, filters map[string]interface{}) *gorm.DB {
	db = qb.ApplySearch(db, q.Search)
	for col, val := range filters {
		db = qb.ApplyFilter(db, col, val)
	}
	return db
}

// Apply 按 搜索 -> 过滤 -> 排序 -> 分页 的顺序套用全部条件
func (qb *QueryBuilder) Apply(db *gorm.DB, q *ListQuery, filters map[string]interface{}) *gorm.DB {
	db = qb.Conditions(db, q, filters)
	db = qb.ApplySort(db, q.SortBy, q.SortDir)

	offset, limit := q.GetPageOffset()
	return db.Offset(offset).Limit(limit)
}
