package sql

import (
	"context"
	"database/sql"
	"strings"

	core "godata/data/db"
	"godata/data/db/dialect"
)

// insertBuilder 单行 INSERT 构建器。
//
// 仓储逐实体落库（批量新增走逐条快速失败），这里不做多行值拼接；
// 再次调用 Values 覆盖前一次的值。
type insertBuilder struct {
	db      core.IDatabase
	dialect dialect.Dialect

	table   string
	columns []string
	values  []any
}

func (b *insertBuilder) Columns(cols ...string) IInsertBuilder {
	b.columns = cols
	return b
}

func (b *insertBuilder) Values(vals ...any) IInsertBuilder {
	b.values = vals
	return b
}

func (b *insertBuilder) Build() (string, []any) {
	if len(b.columns) == 0 {
		panic("insertBuilder: Columns is required")
	}
	if len(b.values) != len(b.columns) {
		panic("insertBuilder: values length mismatch columns length")
	}
	if !IsSafeIdentifier(b.table) {
		panic("insertBuilder: unsafe table name " + b.table)
	}

	quotedCols := make([]string, len(b.columns))
	for i, col := range b.columns {
		if !IsSafeIdentifier(col) {
			panic("insertBuilder: unsafe column name " + col)
		}
		quotedCols[i] = b.dialect.QuoteIdentifier(col)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.dialect.QuoteIdentifier(b.table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quotedCols, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(b.columns)), ", "))
	sb.WriteString(")")

	return sb.String(), b.values
}

func (b *insertBuilder) Exec(ctx context.Context) (sql.Result, error) {
	q, args := b.Build()
	return b.db.Exec(ctx, q, args...)
}
