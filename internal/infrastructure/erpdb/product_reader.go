package erpdb

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
)

type productRow struct {
	Code          string    `gorm:"column:PRD_NO"`
	Name          string    `gorm:"column:NAME"`
	Specification string    `gorm:"column:SPC"`
	MarkNo        string    `gorm:"column:MARK_NO"`
	RecordDate    time.Time `gorm:"column:RECORD_DD"`
}

type markRow struct {
	MarkNo string `gorm:"column:MARK_NO"`
	Name   string `gorm:"column:MARK_NAME"`
	Remark string `gorm:"column:REM"`
}

type featureValueRow struct {
	MarkNo string `gorm:"column:MARK_NO"`
	Value  string `gorm:"column:PRD_MARK"`
	Name   string `gorm:"column:MARK_NAME"`
}

// ProductReader reads PRDT, MARKS and PRD_MARKS for the product import.
type ProductReader struct {
	mgr *ConnectionManager
}

// NewProductReader creates a ProductReader
func NewProductReader(mgr *ConnectionManager) *ProductReader {
	return &ProductReader{mgr: mgr}
}

// ChangedProducts returns products with a feature group recorded on or
// after the calendar day of since.
func (r *ProductReader) ChangedProducts(ctx context.Context, since time.Time) ([]integration.RemoteProduct, error) {
	db, cancel, err := r.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	y, m, d := since.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, since.Location())

	var rows []productRow
	err = db.Raw(`SELECT PRD_NO, COALESCE(NAME, '') AS NAME, COALESCE(SPC, '') AS SPC, MARK_NO, RECORD_DD
FROM PRDT
WHERE MARK_NO IS NOT NULL AND MARK_NO <> '' AND RECORD_DD >= @SINCE
ORDER BY PRD_NO`,
		datetime("SINCE", startOfDay),
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query changed products: %w", err)
	}

	products := make([]integration.RemoteProduct, 0, len(rows))
	for _, row := range rows {
		products = append(products, integration.RemoteProduct{
			Code:          row.Code,
			Name:          row.Name,
			Specification: row.Specification,
			MarkNo:        row.MarkNo,
			RecordDate:    row.RecordDate,
		})
	}
	return products, nil
}

// Marks returns the feature group definitions of markNos
func (r *ProductReader) Marks(ctx context.Context, markNos []string) ([]integration.RemoteMark, error) {
	if len(markNos) == 0 {
		return nil, nil
	}
	db, cancel, err := r.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var rows []markRow
	err = db.Raw(`SELECT MARK_NO, COALESCE(MARK_NAME, '') AS MARK_NAME, COALESCE(REM, '') AS REM
FROM MARKS
WHERE MARK_NO IN @MARK_NOS`,
		codes("MARK_NOS", markNos),
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query feature groups: %w", err)
	}

	marks := make([]integration.RemoteMark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, integration.RemoteMark(row))
	}
	return marks, nil
}

// FeatureValues returns the feature values of markNos
func (r *ProductReader) FeatureValues(ctx context.Context, markNos []string) ([]integration.RemoteFeatureValue, error) {
	if len(markNos) == 0 {
		return nil, nil
	}
	db, cancel, err := r.mgr.statement(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var rows []featureValueRow
	err = db.Raw(`SELECT MARK_NO, COALESCE(PRD_MARK, '') AS PRD_MARK, COALESCE(MARK_NAME, '') AS MARK_NAME
FROM PRD_MARKS
WHERE MARK_NO IN @MARK_NOS
ORDER BY MARK_NO, PRD_MARK`,
		codes("MARK_NOS", markNos),
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query feature values: %w", err)
	}

	values := make([]integration.RemoteFeatureValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, integration.RemoteFeatureValue(row))
	}
	return values, nil
}

var _ integration.RemoteProductReader = (*ProductReader)(nil)
