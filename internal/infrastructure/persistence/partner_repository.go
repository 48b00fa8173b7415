package persistence

import (
	"context"
	"errors"

	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error
}

// GormSalespersonRepository implements partner.SalespersonRepository
type GormSalespersonRepository struct {
	db *gorm.DB
}

// NewGormSalespersonRepository creates a new GormSalespersonRepository
func NewGormSalespersonRepository(db *gorm.DB) *GormSalespersonRepository {
	return &GormSalespersonRepository{db: db}
}

// FindByID finds a salesperson by ID
func (r *GormSalespersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Salesperson, error) {
	var model models.SalespersonModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccountIDs returns the salespersons holding any of the account IDs
func (r *GormSalespersonRepository) FindByAccountIDs(ctx context.Context, accountIDs []string) ([]partner.Salesperson, error) {
	if len(accountIDs) == 0 {
		return []partner.Salesperson{}, nil
	}
	var rows []models.SalespersonModel
	if err := r.db.WithContext(ctx).Where("account_id IN ?", accountIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Salesperson, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a salesperson
func (r *GormSalespersonRepository) Save(ctx context.Context, s *partner.Salesperson) error {
	return r.db.WithContext(ctx).Save(models.SalespersonModelFromDomain(s)).Error
}

// GormErpCustomerRepository implements partner.ErpCustomerRepository
type GormErpCustomerRepository struct {
	db *gorm.DB
}

// NewGormErpCustomerRepository creates a new GormErpCustomerRepository
func NewGormErpCustomerRepository(db *gorm.DB) *GormErpCustomerRepository {
	return &GormErpCustomerRepository{db: db}
}

// FindByCusNos returns the snapshots of the given ERP customer numbers
func (r *GormErpCustomerRepository) FindByCusNos(ctx context.Context, cusNos []string) ([]partner.ErpCustomer, error) {
	if len(cusNos) == 0 {
		return []partner.ErpCustomer{}, nil
	}
	var rows []models.ErpCustomerModel
	if err := r.db.WithContext(ctx).Where("cus_no IN ?", cusNos).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]partner.ErpCustomer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a snapshot
func (r *GormErpCustomerRepository) Save(ctx context.Context, c *partner.ErpCustomer) error {
	return r.db.WithContext(ctx).Save(models.ErpCustomerModelFromDomain(c)).Error
}

var (
	_ partner.CustomerRepository    = (*GormCustomerRepository)(nil)
	_ partner.SalespersonRepository = (*GormSalespersonRepository)(nil)
	_ partner.ErpCustomerRepository = (*GormErpCustomerRepository)(nil)
)
