package erpdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"gorm.io/gorm"
)

// OrderStore exports sales orders into MF_POS, TF_POS and TF_POS_Z.
type OrderStore struct {
	mgr *ConnectionManager
}

// NewOrderStore creates an OrderStore
func NewOrderStore(mgr *ConnectionManager) *OrderStore {
	return &OrderStore{mgr: mgr}
}

// Begin opens a transaction bound to ctx. Cancelling ctx rolls it back.
func (s *OrderStore) Begin(ctx context.Context) (integration.RemoteOrderTx, error) {
	db, err := s.mgr.Get(ctx)
	if err != nil {
		return nil, err
	}
	tx := db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin ERP transaction: %w", tx.Error)
	}
	return &orderTx{tx: tx, mgr: s.mgr}, nil
}

type orderTx struct {
	tx  *gorm.DB
	mgr *ConnectionManager
}

func (t *orderTx) statement(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, t.mgr.RequestTimeout())
	return t.tx.WithContext(ctx), cancel
}

func (t *orderTx) MaxOrderSuffix(ctx context.Context, format integration.OrderNumberFormat, monthPrefix string) (*int64, error) {
	db, cancel := t.statement(ctx)
	defer cancel()

	var highest sql.NullInt64
	err := db.Raw(`SELECT MAX(CAST(SUBSTRING(OS_NO, @START, @LEN) AS INT)) FROM MF_POS WHERE OS_ID = @OS_ID AND OS_NO LIKE @PATTERN ESCAPE '\'`,
		sql.Named("START", format.SuffixStart(monthPrefix)),
		sql.Named("LEN", orderSuffixMaxWidth),
		code("OS_ID", orderKind, 2),
		code("PATTERN", integration.PrefixPattern(monthPrefix), 40),
	).Row().Scan(&highest)
	if err != nil {
		return nil, fmt.Errorf("query max order number: %w", err)
	}
	if !highest.Valid {
		return nil, nil
	}
	return &highest.Int64, nil
}

func (t *orderTx) InsertHeader(ctx context.Context, h integration.RemoteOrderHeader) error {
	db, cancel := t.statement(ctx)
	defer cancel()

	err := db.Exec(`INSERT INTO MF_POS (OS_ID, OS_NO, OS_DD, CUS_NO, SAL_NO, AMTN_INT, USR, RECORD_DD, CLS_ID, EST_DD, SEND_MTH, SEND_WH, PAY_MTH, REM)
VALUES (@OS_ID, @OS_NO, @OS_DD, @CUS_NO, @SAL_NO, @AMTN_INT, @USR, @RECORD_DD, @CLS_ID, @EST_DD, @SEND_MTH, @SEND_WH, @PAY_MTH, @REM)`,
		code("OS_ID", orderKind, 2),
		code("OS_NO", h.OrderNo, widthOrderNo),
		datetime("OS_DD", h.OrderDate),
		code("CUS_NO", h.CustomerCode, widthCustomerNo),
		code("SAL_NO", h.SalespersonCode, widthSalespersonNo),
		amount("AMTN_INT", h.TotalAmount),
		code("USR", h.SalespersonCode, widthUser),
		datetime("RECORD_DD", h.RecordedAt),
		code("CLS_ID", orderClass, 1),
		optionalDatetime("EST_DD", h.ExpectedDelivery),
		code("SEND_MTH", h.SendMethod, 1),
		code("SEND_WH", h.Warehouse, widthCustomerNo),
		code("PAY_MTH", h.PayMethod, 1),
		sql.Named("REM", h.Remarks),
	).Error
	if err != nil {
		return fmt.Errorf("insert order header %s: %w", h.OrderNo, err)
	}
	return nil
}

func (t *orderTx) InsertLine(ctx context.Context, l integration.RemoteOrderLine) error {
	db, cancel := t.statement(ctx)
	defer cancel()

	err := db.Exec(`INSERT INTO TF_POS (OS_ID, OS_NO, ITM, PRD_NO, PRD_NAME, PRD_MARK, QTY, UP, AMT, AMTN, TAX, SPC, ATTR, PAK_UNIT, PAK_EXC, PAK_NW, PAK_GW, PAK_WEIGHT_UNIT, PAK_MEAST, PAK_MEAST_UNIT, EST_DD, REM, BZ_KND, OS_DD, WH, UNIT, TAX_RTO)
VALUES (@OS_ID, @OS_NO, @ITM, @PRD_NO, @PRD_NAME, @PRD_MARK, @QTY, @UP, @AMT, @AMTN, @TAX, @SPC, @ATTR, @PAK_UNIT, @PAK_EXC, @PAK_NW, @PAK_GW, @PAK_WEIGHT_UNIT, @PAK_MEAST, @PAK_MEAST_UNIT, @EST_DD, @REM, @BZ_KND, @OS_DD, @WH, @UNIT, @TAX_RTO)`,
		code("OS_ID", orderKind, 2),
		code("OS_NO", l.OrderNo, widthOrderNo),
		smallint("ITM", l.ItemNo),
		text("PRD_NO", l.ProductCode, widthProductNo),
		text("PRD_NAME", l.ProductName, widthProductName),
		text("PRD_MARK", l.Mark, widthProductMark),
		amount("QTY", l.Quantity),
		amount("UP", l.UnitPrice),
		amount("AMT", l.Amount),
		amount("AMTN", l.UntaxedAmount),
		amount("TAX", l.Tax),
		text("SPC", l.Specification, widthSpecification),
		text("ATTR", l.Mark, widthAttr),
		text("PAK_UNIT", l.PackagingUnit, widthPackUnit),
		amount("PAK_EXC", l.PackagingConversion),
		amount("PAK_NW", l.NetWeight),
		amount("PAK_GW", l.GrossWeight),
		text("PAK_WEIGHT_UNIT", l.WeightUnit, widthWeightUnit),
		amount("PAK_MEAST", l.Volume),
		text("PAK_MEAST_UNIT", volumeUnit, widthWeightUnit),
		optionalDatetime("EST_DD", l.ExpectedDelivery),
		text("REM", l.SupplierNote, widthLineRemark),
		text("BZ_KND", l.PackagingType, widthPackKind),
		datetime("OS_DD", l.OrderDate),
		code("WH", l.Warehouse, widthCustomerNo),
		code("UNIT", unitOrDefault(l.Unit), 1),
		amount("TAX_RTO", l.TaxRatePercent),
	).Error
	if err != nil {
		return fmt.Errorf("insert order line %s/%d: %w", l.OrderNo, l.ItemNo, err)
	}
	return nil
}

func (t *orderTx) InsertLineExtension(ctx context.Context, e integration.RemoteOrderLineExt) error {
	db, cancel := t.statement(ctx)
	defer cancel()

	err := db.Exec(`INSERT INTO TF_POS_Z (OS_ID, OS_NO, ITM, PQTY1, PQTY2, BZFS, DKBM, WXBM, SXBBM, XG)
VALUES (@OS_ID, @OS_NO, @ITM, @PQTY1, @PQTY2, @BZFS, @DKBM, @WXBM, @SXBBM, @XG)`,
		code("OS_ID", orderKind, 2),
		code("OS_NO", e.OrderNo, widthOrderNo),
		smallint("ITM", e.ItemNo),
		optionalInt("PQTY1", e.PackingQuantity),
		optionalInt("PQTY2", e.CartonQuantity),
		text("BZFS", e.PackagingMethod, widthPackMethod),
		text("DKBM", e.PaperCardCode, widthPaperCard),
		text("WXBM", e.WashLabelCode, widthWashLabel),
		text("SXBBM", e.OuterCartonCode, widthOuterCarton),
		text("XG", e.CartonSpecification, widthCartonSpec),
	).Error
	if err != nil {
		return fmt.Errorf("insert order line extension %s/%d: %w", e.OrderNo, e.ItemNo, err)
	}
	return nil
}

func (t *orderTx) Commit() error {
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("commit ERP transaction: %w", err)
	}
	return nil
}

func (t *orderTx) Rollback() error {
	err := t.tx.Rollback().Error
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback ERP transaction: %w", err)
	}
	return nil
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return lineUnit
	}
	return unit
}

var _ integration.RemoteOrderStore = (*OrderStore)(nil)
