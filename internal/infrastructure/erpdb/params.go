package erpdb

import (
	"database/sql"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/shopspring/decimal"
)

// code binds an ASCII identifier as VARCHAR. Codes never carry CJK text so
// the client-side encoding is irrelevant.
func code(name, v string, width int) sql.NamedArg {
	return sql.Named(name, mssql.VarChar(integration.TruncateBytes(v, width)))
}

// text binds free text as NVARCHAR after truncating it to the target
// column's byte budget; the server converts to the column's code page.
func text(name, v string, width int) sql.NamedArg {
	return sql.Named(name, integration.TruncateBytes(v, width))
}

// amount binds a NUMERIC(28,8) value
func amount(name string, d decimal.Decimal) sql.NamedArg {
	return sql.Named(name, d.Round(amountScale))
}

// datetime binds a DATETIME value
func datetime(name string, t time.Time) sql.NamedArg {
	return sql.Named(name, t)
}

// optionalDatetime binds a nullable DATETIME
func optionalDatetime(name string, t *time.Time) sql.NamedArg {
	if t == nil {
		return sql.Named(name, sql.NullTime{})
	}
	return datetime(name, *t)
}

// optionalInt binds a nullable INT
func optionalInt(name string, v *int) sql.NamedArg {
	if v == nil {
		return sql.Named(name, sql.NullInt64{})
	}
	return sql.Named(name, sql.NullInt64{Int64: int64(*v), Valid: true})
}

// smallint binds a SMALLINT
func smallint(name string, v int) sql.NamedArg {
	return sql.Named(name, int16(v))
}

// codes binds a list of ASCII identifiers for an IN clause. The statement
// writes IN @NAME; GORM expands the list into a parenthesised group.
func codes(name string, values []string) sql.NamedArg {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = mssql.VarChar(v)
	}
	return sql.Named(name, list)
}
