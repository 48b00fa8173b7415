package integration

import (
	"context"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes the initial password of imported salespersons
type PasswordHasher func(password string) (string, error)

// BcryptHasher hashes with bcrypt at the given cost
func BcryptHasher(cost int) PasswordHasher {
	return func(password string) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// PartnerImportService copies ERP salespersons and customers into the
// website database. Existing rows are refreshed, new rows created.
type PartnerImportService struct {
	reader       integration.RemotePartnerReader
	salespersons partner.SalespersonRepository
	customers    partner.ErpCustomerRepository
	configs      integration.SystemConfigRepository
	hash         PasswordHasher
	settings     Settings
	opts         serviceOptions
}

// NewPartnerImportService creates a new PartnerImportService. A nil hasher
// uses bcrypt at the default cost.
func NewPartnerImportService(
	reader integration.RemotePartnerReader,
	salespersons partner.SalespersonRepository,
	customers partner.ErpCustomerRepository,
	configs integration.SystemConfigRepository,
	hash PasswordHasher,
	settings Settings,
	opts ...Option,
) *PartnerImportService {
	if hash == nil {
		hash = BcryptHasher(bcrypt.DefaultCost)
	}
	return &PartnerImportService{
		reader:       reader,
		salespersons: salespersons,
		customers:    customers,
		configs:      configs,
		hash:         hash,
		settings:     settings,
		opts:         newServiceOptions(opts),
	}
}

// ImportSalespersons imports every ERP salesperson matching the configured
// account prefix
func (s *PartnerImportService) ImportSalespersons(ctx context.Context) *ImportResult {
	return s.importSalespersons(ctx, nil)
}

// ImportSalespersonsByCodes imports the listed ERP salespersons only
func (s *PartnerImportService) ImportSalespersonsByCodes(ctx context.Context, codes []string) *ImportResult {
	if len(codes) == 0 {
		return &ImportResult{Success: true}
	}
	return s.importSalespersons(ctx, codes)
}

// ImportCustomers imports every ERP customer
func (s *PartnerImportService) ImportCustomers(ctx context.Context) *ImportResult {
	return s.importCustomers(ctx, nil)
}

// ImportCustomersByCodes imports the listed ERP customers only
func (s *PartnerImportService) ImportCustomersByCodes(ctx context.Context, codes []string) *ImportResult {
	if len(codes) == 0 {
		return &ImportResult{Success: true}
	}
	return s.importCustomers(ctx, codes)
}

// PreviewSalespersons lists the ERP salespersons an import would touch and
// whether each is new. Nothing is written.
func (s *PartnerImportService) PreviewSalespersons(ctx context.Context) ([]SalespersonPreview, error) {
	remote, err := s.reader.Salespersons(ctx, nil)
	if err != nil {
		return nil, err
	}
	existing, err := s.existingSalespersons(ctx, remote)
	if err != nil {
		return nil, err
	}
	out := make([]SalespersonPreview, len(remote))
	for i, r := range remote {
		_, known := existing[r.Code]
		out[i] = SalespersonPreview{RemoteSalesperson: r, IsNew: !known}
	}
	return out, nil
}

// PreviewCustomers lists the ERP customers an import would touch and
// whether each is new. Nothing is written.
func (s *PartnerImportService) PreviewCustomers(ctx context.Context) ([]CustomerPreview, error) {
	remote, err := s.reader.Customers(ctx, nil)
	if err != nil {
		return nil, err
	}
	existing, err := s.existingCustomers(ctx, remote)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerPreview, len(remote))
	for i, r := range remote {
		_, known := existing[r.Code]
		out[i] = CustomerPreview{RemoteCustomer: r, IsNew: !known}
	}
	return out, nil
}

func (s *PartnerImportService) importSalespersons(ctx context.Context, codes []string) *ImportResult {
	return s.run(ctx, "import_salespersons", integration.SyncKindSalesperson, func(ctx context.Context, res *ImportResult) error {
		remote, err := s.reader.Salespersons(ctx, codes)
		if err != nil {
			return fmt.Errorf("read ERP salespersons: %w", err)
		}
		res.Total = len(remote)

		existing, err := s.existingSalespersons(ctx, remote)
		if err != nil {
			return err
		}
		now := s.opts.now()
		for _, r := range remote {
			profile := partner.SalespersonProfile{
				AccountID:   r.Code,
				ChineseName: r.Name,
				EnglishName: r.EnglishName,
				Department:  r.Department,
				Position:    r.Position,
			}
			if sp, ok := existing[r.Code]; ok {
				sp.ApplyErpProfile(profile, now)
				if err := s.salespersons.Save(ctx, sp); err != nil {
					return fmt.Errorf("salesperson %s: %w", r.Code, err)
				}
				res.Updated++
				continue
			}

			hash, err := s.hash(partner.DefaultSalespersonPassword)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			sp, err := partner.NewImportedSalesperson(profile, hash, now)
			if err != nil {
				return fmt.Errorf("salesperson %s: %w", r.Code, err)
			}
			if err := s.salespersons.Save(ctx, sp); err != nil {
				return fmt.Errorf("salesperson %s: %w", r.Code, err)
			}
			res.Created++
		}
		return nil
	})
}

func (s *PartnerImportService) importCustomers(ctx context.Context, codes []string) *ImportResult {
	return s.run(ctx, "import_customers", integration.SyncKindCustomer, func(ctx context.Context, res *ImportResult) error {
		remote, err := s.reader.Customers(ctx, codes)
		if err != nil {
			return fmt.Errorf("read ERP customers: %w", err)
		}
		res.Total = len(remote)

		existing, err := s.existingCustomers(ctx, remote)
		if err != nil {
			return err
		}
		salespersons, err := s.salespersonIDs(ctx, remote)
		if err != nil {
			return err
		}

		now := s.opts.now()
		for _, r := range remote {
			profile := partner.ErpCustomerProfile{
				CusNo:         r.Code,
				Name:          r.Name,
				ShortName:     r.ShortName,
				Country:       r.Country,
				Phone:         r.Phone,
				Email:         r.Email,
				Address:       r.Address,
				ContactPerson: r.ContactPerson,
			}
			var spID *uuid.UUID
			if id, ok := salespersons[r.SalespersonCode]; ok {
				spID = &id
			}

			if c, ok := existing[r.Code]; ok {
				c.Apply(profile, spID, now)
				if err := s.customers.Save(ctx, c); err != nil {
					return fmt.Errorf("customer %s: %w", r.Code, err)
				}
				res.Updated++
				continue
			}
			c, err := partner.NewErpCustomer(profile, spID, now)
			if err != nil {
				return fmt.Errorf("customer %s: %w", r.Code, err)
			}
			if err := s.customers.Save(ctx, c); err != nil {
				return fmt.Errorf("customer %s: %w", r.Code, err)
			}
			res.Created++
		}
		return nil
	})
}

// run wraps an import with the enabled check, the partner lock, a span and
// the last-sync stamp written on success.
func (s *PartnerImportService) run(ctx context.Context, op string, kind integration.SyncKind, body func(context.Context, *ImportResult) error) *ImportResult {
	start := s.opts.now()
	res := &ImportResult{}
	fail := func(err error) *ImportResult {
		res.Success = false
		res.Error = err.Error()
		res.Duration = s.opts.now().Sub(start)
		return res
	}

	if !s.settings.Enabled {
		res.Error = msgSyncDisabled
		return res
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "partner_import", op)
	defer span.End()
	log := s.opts.log(ctx).With(zap.String("operation", op))

	release, err := acquire(ctx, s.opts.lock, integration.LockPartnerSync, s.settings.lockTTL())
	if err != nil {
		telemetry.RecordError(span, err)
		return fail(err)
	}
	defer release()

	if err := body(ctx, res); err != nil {
		telemetry.RecordError(span, err)
		log.Error("ERP partner import failed", zap.Error(err),
			zap.Int("created", res.Created), zap.Int("updated", res.Updated))
		return fail(err)
	}
	if err := s.configs.Upsert(ctx, integration.NewTimestampEntry(kind.LastSyncKey(), s.opts.now())); err != nil {
		telemetry.RecordError(span, err)
		return fail(fmt.Errorf("record last sync time: %w", err))
	}

	res.Success = true
	res.Duration = s.opts.now().Sub(start)
	s.opts.metrics.RecordDuration(ctx, "partner_"+op, res.Duration)
	telemetry.SetOK(span)
	log.Info("ERP partner import finished",
		zap.Int("total", res.Total),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Duration("duration", res.Duration),
	)
	return res
}

func (s *PartnerImportService) existingSalespersons(ctx context.Context, remote []integration.RemoteSalesperson) (map[string]*partner.Salesperson, error) {
	codes := make([]string, len(remote))
	for i, r := range remote {
		codes[i] = r.Code
	}
	out := make(map[string]*partner.Salesperson, len(remote))
	if len(codes) == 0 {
		return out, nil
	}
	found, err := s.salespersons.FindByAccountIDs(ctx, codes)
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].AccountID] = &found[i]
	}
	return out, nil
}

func (s *PartnerImportService) existingCustomers(ctx context.Context, remote []integration.RemoteCustomer) (map[string]*partner.ErpCustomer, error) {
	codes := make([]string, len(remote))
	for i, r := range remote {
		codes[i] = r.Code
	}
	out := make(map[string]*partner.ErpCustomer, len(remote))
	if len(codes) == 0 {
		return out, nil
	}
	found, err := s.customers.FindByCusNos(ctx, codes)
	if err != nil {
		return nil, err
	}
	for i := range found {
		out[found[i].CusNo] = &found[i]
	}
	return out, nil
}

// salespersonIDs resolves the SAL codes of customers to local salesperson IDs
func (s *PartnerImportService) salespersonIDs(ctx context.Context, remote []integration.RemoteCustomer) (map[string]uuid.UUID, error) {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, r := range remote {
		if r.SalespersonCode == "" {
			continue
		}
		if _, ok := seen[r.SalespersonCode]; ok {
			continue
		}
		seen[r.SalespersonCode] = struct{}{}
		codes = append(codes, r.SalespersonCode)
	}
	out := make(map[string]uuid.UUID, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	found, err := s.salespersons.FindByAccountIDs(ctx, codes)
	if err != nil {
		return nil, err
	}
	for _, sp := range found {
		out[sp.AccountID] = sp.ID
	}
	return out, nil
}
