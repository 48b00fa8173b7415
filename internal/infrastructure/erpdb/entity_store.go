package erpdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
)

// entityTable names the ERP table and code column of an entity kind
type entityTable struct {
	table  string
	column string
}

var entityTables = map[integration.EntityKind]entityTable{
	integration.EntityKindCustomer:    {table: "CUST", column: "CUS_NO"},
	integration.EntityKindSalesperson: {table: "SALM", column: "SAL_NO"},
}

func tableFor(kind integration.EntityKind) (entityTable, error) {
	t, ok := entityTables[kind]
	if !ok {
		return entityTable{}, integration.ErrInvalidEntityKind
	}
	return t, nil
}

// EntityStore provisions customers and salespersons in the ERP.
type EntityStore struct {
	mgr *ConnectionManager
}

// NewEntityStore creates an EntityStore
func NewEntityStore(mgr *ConnectionManager) *EntityStore {
	return &EntityStore{mgr: mgr}
}

// MaxCodeSequence returns the highest numeric suffix among codes of the format
func (s *EntityStore) MaxCodeSequence(ctx context.Context, kind integration.EntityKind, format integration.CodeFormat) (*int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	db, cancel, err := s.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	query := fmt.Sprintf(
		`SELECT MAX(CAST(SUBSTRING(%[2]s, @START, @LEN) AS INT)) FROM %[1]s WHERE %[2]s LIKE @PATTERN ESCAPE '\'`,
		t.table, t.column,
	)
	var highest sql.NullInt64
	err = db.Raw(query,
		sql.Named("START", format.SequenceStart()),
		sql.Named("LEN", 20),
		code("PATTERN", format.LikePattern(), 40),
	).Row().Scan(&highest)
	if err != nil {
		return nil, fmt.Errorf("query max %s code: %w", kind, err)
	}
	if !highest.Valid {
		return nil, nil
	}
	return &highest.Int64, nil
}

// InsertCustomer writes one CUST row
func (s *EntityStore) InsertCustomer(ctx context.Context, rec integration.RemoteCustomerRecord) error {
	db, cancel, err := s.mgr.statement(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	err = db.Exec(`INSERT INTO CUST (CUS_NO, NAME, OBJ_ID, TEL1, E_MAIL, COUNTRY, CNT_MAN1, SAL, REM, CREATE_DD, RECORD_DD)
VALUES (@CUS_NO, @NAME, @OBJ_ID, @TEL1, @E_MAIL, @COUNTRY, @CNT_MAN1, @SAL, @REM, @CREATE_DD, @RECORD_DD)`,
		code("CUS_NO", rec.Code, widthCustomerNo),
		text("NAME", rec.Name, widthCustomerName),
		code("OBJ_ID", customerObjectKind, 1),
		text("TEL1", rec.Phone, widthPhone),
		text("E_MAIL", rec.Email, widthEmail),
		text("COUNTRY", rec.Country, widthCountry),
		text("CNT_MAN1", rec.ContactPerson, widthContactPerson),
		code("SAL", rec.SalespersonCode, widthSalespersonNo),
		sql.Named("REM", rec.Remarks),
		datetime("CREATE_DD", rec.RecordedAt),
		datetime("RECORD_DD", rec.RecordedAt),
	).Error
	if err != nil {
		return fmt.Errorf("insert ERP customer %s: %w", rec.Code, err)
	}
	return nil
}

// InsertSalesperson writes one SALM row
func (s *EntityStore) InsertSalesperson(ctx context.Context, rec integration.RemoteSalespersonRecord) error {
	db, cancel, err := s.mgr.statement(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	err = db.Exec(`INSERT INTO SALM (SAL_NO, NAME) VALUES (@SAL_NO, @NAME)`,
		code("SAL_NO", rec.Code, widthSalespersonNo),
		text("NAME", rec.Name, widthSalesName),
	).Error
	if err != nil {
		return fmt.Errorf("insert ERP salesperson %s: %w", rec.Code, err)
	}
	return nil
}

// CountByCodePrefix counts rows whose code starts with prefix
func (s *EntityStore) CountByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	db, cancel, err := s.mgr.statement(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	var n int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s LIKE @PATTERN ESCAPE '\'`, t.table, t.column)
	if err := db.Raw(query, code("PATTERN", integration.PrefixPattern(prefix), 40)).Row().Scan(&n); err != nil {
		return 0, fmt.Errorf("count ERP %s rows: %w", kind, err)
	}
	return n, nil
}

// DeleteByCodePrefix deletes rows whose code starts with prefix
func (s *EntityStore) DeleteByCodePrefix(ctx context.Context, kind integration.EntityKind, prefix string) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	db, cancel, err := s.mgr.statement(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s LIKE @PATTERN ESCAPE '\'`, t.table, t.column)
	res := db.Exec(query, code("PATTERN", integration.PrefixPattern(prefix), 40))
	if res.Error != nil {
		return 0, fmt.Errorf("delete ERP %s rows: %w", kind, res.Error)
	}
	return res.RowsAffected, nil
}

var _ integration.RemoteEntityStore = (*EntityStore)(nil)
