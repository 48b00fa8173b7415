package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErpSchema is the subset of the ERP tables the engine touches, in SQLite
// dialect with the production column widths.
const ErpSchema = `
CREATE TABLE CUST (
	CUS_NO VARCHAR(12) PRIMARY KEY,
	NAME VARCHAR(110),
	SNM VARCHAR(40),
	OBJ_ID VARCHAR(1),
	TEL1 VARCHAR(30),
	E_MAIL VARCHAR(255),
	COUNTRY VARCHAR(20),
	ADR1 VARCHAR(255),
	CNT_MAN1 VARCHAR(30),
	SAL VARCHAR(12),
	REM TEXT,
	CREATE_DD DATETIME,
	RECORD_DD DATETIME
);
CREATE TABLE SALM (
	SAL_NO VARCHAR(12) PRIMARY KEY,
	NAME VARCHAR(100),
	ENG_NAME VARCHAR(100),
	DEP VARCHAR(50),
	POS VARCHAR(50)
);
CREATE TABLE MF_POS (
	OS_ID VARCHAR(2) NOT NULL,
	OS_NO VARCHAR(20) NOT NULL,
	OS_DD DATETIME,
	CUS_NO VARCHAR(12),
	SAL_NO VARCHAR(12),
	AMTN_INT NUMERIC(28,8),
	USR VARCHAR(8),
	RECORD_DD DATETIME,
	CLS_ID VARCHAR(1),
	EST_DD DATETIME,
	SEND_MTH VARCHAR(1),
	SEND_WH VARCHAR(12),
	PAY_MTH VARCHAR(1),
	REM TEXT,
	PRIMARY KEY (OS_ID, OS_NO)
);
CREATE TABLE TF_POS (
	OS_ID VARCHAR(2) NOT NULL,
	OS_NO VARCHAR(20) NOT NULL,
	ITM SMALLINT NOT NULL,
	PRD_NO VARCHAR(50),
	PRD_NAME VARCHAR(100),
	PRD_MARK VARCHAR(255),
	QTY NUMERIC(28,8),
	UP NUMERIC(28,8),
	AMT NUMERIC(28,8),
	AMTN NUMERIC(28,8),
	TAX NUMERIC(28,8),
	SPC VARCHAR(2000),
	ATTR VARCHAR(30),
	PAK_UNIT VARCHAR(24),
	PAK_EXC NUMERIC(28,8),
	PAK_NW NUMERIC(28,8),
	PAK_GW NUMERIC(28,8),
	PAK_WEIGHT_UNIT VARCHAR(8),
	PAK_MEAST NUMERIC(28,8),
	PAK_MEAST_UNIT VARCHAR(8),
	EST_DD DATETIME,
	REM VARCHAR(1000),
	BZ_KND VARCHAR(20),
	OS_DD DATETIME,
	WH VARCHAR(12),
	UNIT VARCHAR(1),
	TAX_RTO NUMERIC(28,8),
	PRIMARY KEY (OS_ID, OS_NO, ITM)
);
CREATE TABLE TF_POS_Z (
	OS_ID VARCHAR(2) NOT NULL,
	OS_NO VARCHAR(20) NOT NULL,
	ITM SMALLINT NOT NULL,
	PQTY1 INT,
	PQTY2 INT,
	BZFS VARCHAR(255),
	DKBM VARCHAR(50),
	WXBM VARCHAR(50),
	SXBBM VARCHAR(255),
	XG VARCHAR(50),
	PRIMARY KEY (OS_ID, OS_NO, ITM)
);
CREATE TABLE PRDT (
	PRD_NO VARCHAR(50) PRIMARY KEY,
	NAME VARCHAR(200),
	SPC VARCHAR(2000),
	MARK_NO VARCHAR(20),
	RECORD_DD DATETIME
);
CREATE TABLE MARKS (
	MARK_NO VARCHAR(20) PRIMARY KEY,
	MARK_NAME VARCHAR(100),
	REM VARCHAR(200)
);
CREATE TABLE PRD_MARKS (
	MARK_NO VARCHAR(20) NOT NULL,
	PRD_MARK VARCHAR(255) NOT NULL,
	MARK_NAME VARCHAR(100),
	PRIMARY KEY (MARK_NO, PRD_MARK)
);
`

// ErpSQLite is an in-memory stand-in for the ERP database. DB stays open
// for the life of the test so the shared-cache database survives pool
// reconnects.
type ErpSQLite struct {
	DSN string
	DB  *gorm.DB
}

// NewErpSQLite creates the ERP tables in a fresh in-memory database.
func NewErpSQLite(t *testing.T) *ErpSQLite {
	t.Helper()

	dsn := fmt.Sprintf("file:erp-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	_, err = sqlDB.Exec(ErpSchema)
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &ErpSQLite{DSN: dsn, DB: db}
}

// Dialector opens another pool on the same database
func (e *ErpSQLite) Dialector() gorm.Dialector {
	return sqlite.Open(e.DSN)
}

// RejectLinesFor makes every TF_POS insert for productCode fail, which lets
// tests break an order export halfway through.
func (e *ErpSQLite) RejectLinesFor(t *testing.T, productCode string) {
	t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER reject_%s BEFORE INSERT ON TF_POS
WHEN NEW.PRD_NO = '%s'
BEGIN SELECT RAISE(ABORT, 'line rejected'); END;`, uuid.New().String()[:8], productCode)
	sqlDB, err := e.DB.DB()
	require.NoError(t, err)
	_, err = sqlDB.Exec(stmt)
	require.NoError(t, err)
}

// Count returns the row count of an ERP table
func (e *ErpSQLite) Count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.DB.Raw("SELECT COUNT(*) FROM "+table).Row().Scan(&n))
	return n
}
