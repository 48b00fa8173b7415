package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Remote records written to the ERP
// ---------------------------------------------------------------------------

// RemoteCustomerRecord is a CUST row provisioned for a local customer
type RemoteCustomerRecord struct {
	Code            string
	Name            string
	Phone           string
	Email           string
	Country         string
	ContactPerson   string
	SalespersonCode string
	Remarks         string
	RecordedAt      time.Time
}

// RemoteSalespersonRecord is a SALM row provisioned for a local salesperson
type RemoteSalespersonRecord struct {
	Code       string
	Name       string
	RecordedAt time.Time
}

// RemoteOrderHeader is the MF_POS row of an exported order
type RemoteOrderHeader struct {
	OrderNo          string
	OrderDate        time.Time
	CustomerCode     string
	SalespersonCode  string
	TotalAmount      decimal.Decimal
	Warehouse        string
	SendMethod       string
	PayMethod        string
	ExpectedDelivery *time.Time
	Remarks          string
	RecordedAt       time.Time
}

// RemoteOrderLine is a TF_POS row of an exported order
type RemoteOrderLine struct {
	OrderNo             string
	ItemNo              int
	ProductCode         string
	ProductName         string
	Mark                string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	Amount              decimal.Decimal
	UntaxedAmount       decimal.Decimal
	Tax                 decimal.Decimal
	Specification       string
	PackagingUnit       string
	PackagingConversion decimal.Decimal
	NetWeight           decimal.Decimal
	GrossWeight         decimal.Decimal
	WeightUnit          string
	Volume              decimal.Decimal
	ExpectedDelivery    *time.Time
	SupplierNote        string
	PackagingType       string
	OrderDate           time.Time
	Warehouse           string
	Unit                string
	TaxRatePercent      decimal.Decimal
}

// RemoteOrderLineExt is the TF_POS_Z packaging extension row of a line
type RemoteOrderLineExt struct {
	OrderNo             string
	ItemNo              int
	PackingQuantity     *int
	CartonQuantity      *int
	PackagingMethod     string
	PaperCardCode       string
	WashLabelCode       string
	OuterCartonCode     string
	CartonSpecification string
}

// ---------------------------------------------------------------------------
// Remote records read from the ERP
// ---------------------------------------------------------------------------

// RemoteProduct is a PRDT row carrying a feature group
type RemoteProduct struct {
	Code          string
	Name          string
	Specification string
	MarkNo        string
	RecordDate    time.Time
}

// RemoteMark is a MARKS feature group definition
type RemoteMark struct {
	MarkNo string
	Name   string
	Remark string
}

// RemoteFeatureValue is a PRD_MARKS feature value row
type RemoteFeatureValue struct {
	MarkNo string
	Value  string
	Name   string
}

// RemoteSalesperson is a SALM row as read for partner import
type RemoteSalesperson struct {
	Code        string
	Name        string
	EnglishName string
	Department  string
	Position    string
}

// RemoteCustomer is a CUST row as read for partner import
type RemoteCustomer struct {
	Code            string
	Name            string
	ShortName       string
	Country         string
	Phone           string
	Email           string
	Address         string
	ContactPerson   string
	SalespersonCode string
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// RemoteEntityStore provisions and cleans up customer/salesperson rows.
type RemoteEntityStore interface {
	// MaxCodeSequence returns the highest numeric sequence among codes of the
	// given format, or nil when none exists.
	MaxCodeSequence(ctx context.Context, kind EntityKind, format CodeFormat) (*int64, error)

	InsertCustomer(ctx context.Context, rec RemoteCustomerRecord) error
	InsertSalesperson(ctx context.Context, rec RemoteSalespersonRecord) error

	// CountByCodePrefix counts remote rows of a kind whose code starts with prefix
	CountByCodePrefix(ctx context.Context, kind EntityKind, prefix string) (int64, error)

	// DeleteByCodePrefix deletes remote rows of a kind whose code starts with prefix
	DeleteByCodePrefix(ctx context.Context, kind EntityKind, prefix string) (int64, error)
}

// RemoteOrderStore opens transactions for order export.
type RemoteOrderStore interface {
	Begin(ctx context.Context) (RemoteOrderTx, error)
}

// RemoteOrderTx is one all-or-nothing order export. Callers must end it
// with exactly one of Commit or Rollback.
type RemoteOrderTx interface {
	// MaxOrderSuffix returns the highest running number among order numbers
	// starting with monthPrefix, or nil when the month has none.
	MaxOrderSuffix(ctx context.Context, format OrderNumberFormat, monthPrefix string) (*int64, error)

	InsertHeader(ctx context.Context, header RemoteOrderHeader) error
	InsertLine(ctx context.Context, line RemoteOrderLine) error
	InsertLineExtension(ctx context.Context, ext RemoteOrderLineExt) error

	Commit() error
	Rollback() error
}

// RemoteProductReader reads product and feature data for incremental import.
type RemoteProductReader interface {
	// ChangedProducts returns products with a feature group whose record date
	// is on or after the calendar day of since
	ChangedProducts(ctx context.Context, since time.Time) ([]RemoteProduct, error)
	Marks(ctx context.Context, markNos []string) ([]RemoteMark, error)
	FeatureValues(ctx context.Context, markNos []string) ([]RemoteFeatureValue, error)
}

// RemotePartnerReader reads ERP salespersons and customers for import.
// A nil codes slice reads the default population; otherwise only the codes given.
type RemotePartnerReader interface {
	Salespersons(ctx context.Context, codes []string) ([]RemoteSalesperson, error)
	Customers(ctx context.Context, codes []string) ([]RemoteCustomer, error)
}
