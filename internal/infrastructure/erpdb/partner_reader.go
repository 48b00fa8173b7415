package erpdb

import (
	"context"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"gorm.io/gorm"
)

type salespersonRow struct {
	Code        string `gorm:"column:SAL_NO"`
	Name        string `gorm:"column:NAME"`
	EnglishName string `gorm:"column:ENG_NAME"`
	Department  string `gorm:"column:DEP"`
	Position    string `gorm:"column:POS"`
}

type customerRow struct {
	Code            string `gorm:"column:CUS_NO"`
	Name            string `gorm:"column:NAME"`
	ShortName       string `gorm:"column:SNM"`
	Country         string `gorm:"column:COUNTRY"`
	Phone           string `gorm:"column:TEL1"`
	Email           string `gorm:"column:E_MAIL"`
	Address         string `gorm:"column:ADR1"`
	ContactPerson   string `gorm:"column:CNT_MAN1"`
	SalespersonCode string `gorm:"column:SAL"`
}

const (
	salespersonColumns = `SAL_NO, COALESCE(NAME, '') AS NAME, COALESCE(ENG_NAME, '') AS ENG_NAME, COALESCE(DEP, '') AS DEP, COALESCE(POS, '') AS POS`
	customerColumns    = `CUS_NO, COALESCE(NAME, '') AS NAME, COALESCE(SNM, '') AS SNM, COALESCE(COUNTRY, '') AS COUNTRY, COALESCE(TEL1, '') AS TEL1, COALESCE(E_MAIL, '') AS E_MAIL, COALESCE(ADR1, '') AS ADR1, COALESCE(CNT_MAN1, '') AS CNT_MAN1, COALESCE(SAL, '') AS SAL`
)

// PartnerReader reads ERP salespersons and customers for import.
type PartnerReader struct {
	mgr               *ConnectionManager
	salespersonPrefix string
}

// NewPartnerReader creates a PartnerReader. Without explicit codes,
// Salespersons reads every SAL_NO starting with salespersonPrefix.
func NewPartnerReader(mgr *ConnectionManager, salespersonPrefix string) *PartnerReader {
	return &PartnerReader{mgr: mgr, salespersonPrefix: salespersonPrefix}
}

// Salespersons reads SALM rows
func (r *PartnerReader) Salespersons(ctx context.Context, codeList []string) ([]integration.RemoteSalesperson, error) {
	if codeList != nil && len(codeList) == 0 {
		return nil, nil
	}
	db, cancel, err := r.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var query *gorm.DB
	if codeList == nil {
		query = db.Raw(`SELECT `+salespersonColumns+` FROM SALM WHERE SAL_NO LIKE @PATTERN ESCAPE '\' ORDER BY SAL_NO`,
			code("PATTERN", integration.PrefixPattern(r.salespersonPrefix), 40))
	} else {
		query = db.Raw(`SELECT `+salespersonColumns+` FROM SALM WHERE SAL_NO IN @CODES ORDER BY SAL_NO`,
			codes("CODES", codeList))
	}

	var rows []salespersonRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query ERP salespersons: %w", err)
	}
	out := make([]integration.RemoteSalesperson, 0, len(rows))
	for _, row := range rows {
		out = append(out, integration.RemoteSalesperson(row))
	}
	return out, nil
}

// Customers reads CUST rows of customer object kind
func (r *PartnerReader) Customers(ctx context.Context, codeList []string) ([]integration.RemoteCustomer, error) {
	if codeList != nil && len(codeList) == 0 {
		return nil, nil
	}
	db, cancel, err := r.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var query *gorm.DB
	if codeList == nil {
		query = db.Raw(`SELECT `+customerColumns+` FROM CUST WHERE OBJ_ID = @OBJ_ID ORDER BY CUS_NO`,
			code("OBJ_ID", customerObjectKind, 1))
	} else {
		query = db.Raw(`SELECT `+customerColumns+` FROM CUST WHERE OBJ_ID = @OBJ_ID AND CUS_NO IN @CODES ORDER BY CUS_NO`,
			code("OBJ_ID", customerObjectKind, 1), codes("CODES", codeList))
	}

	var rows []customerRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query ERP customers: %w", err)
	}
	out := make([]integration.RemoteCustomer, 0, len(rows))
	for _, row := range rows {
		out = append(out, integration.RemoteCustomer(row))
	}
	return out, nil
}

var _ integration.RemotePartnerReader = (*PartnerReader)(nil)
