package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/partner"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntitySyncService gives local customers and salespersons an ERP code,
// creating the ERP row and the mapping the first time.
//
// Code generation reads the current maximum and inserts the next code, so
// provisioning runs under the entity sync lock.
type EntitySyncService struct {
	mappings     integration.EntityMappingRepository
	remote       integration.RemoteEntityStore
	customers    partner.CustomerRepository
	salespersons partner.SalespersonRepository
	settings     Settings
	opts         serviceOptions
}

// NewEntitySyncService creates a new EntitySyncService
func NewEntitySyncService(
	mappings integration.EntityMappingRepository,
	remote integration.RemoteEntityStore,
	customers partner.CustomerRepository,
	salespersons partner.SalespersonRepository,
	settings Settings,
	opts ...Option,
) *EntitySyncService {
	return &EntitySyncService{
		mappings:     mappings,
		remote:       remote,
		customers:    customers,
		salespersons: salespersons,
		settings:     settings,
		opts:         newServiceOptions(opts),
	}
}

// EnsureRemoteCode returns the ERP code of a local entity, provisioning it
// when unmapped. A customer row gets the code of its own salesperson when
// that salesperson is already mapped.
func (s *EntitySyncService) EnsureRemoteCode(ctx context.Context, kind integration.EntityKind, localID uuid.UUID) (*EnsureResult, error) {
	if !kind.IsValid() {
		return nil, integration.ErrInvalidEntityKind
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "entity_sync", "ensure",
		telemetry.WithAttribute(telemetry.SpanAttrEntityKind, kind.String()),
		telemetry.WithAttribute(telemetry.SpanAttrLocalID, localID),
	)
	defer span.End()

	release, err := acquire(ctx, s.opts.lock, integration.LockEntitySync, s.settings.lockTTL())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	salespersonCode := ""
	if kind == integration.EntityKindCustomer {
		if salespersonCode, err = s.customerSalespersonCode(ctx, localID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	res, err := s.provision(ctx, kind, localID, salespersonCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRemoteCode, res.RemoteCode,
		telemetry.SpanAttrAlreadyExist, res.AlreadyExisted,
	)
	return res, nil
}

// EnsureOrderEntitiesSynced provisions the order's salesperson and then its
// customer, whose ERP row references the salesperson code. Either failure
// fails the call.
func (s *EntitySyncService) EnsureOrderEntitiesSynced(ctx context.Context, order *trade.Order) (*OrderEntities, error) {
	if order.SalespersonID == uuid.Nil {
		return nil, integration.ErrOrderNoSalesperson
	}
	if order.CustomerID == uuid.Nil {
		return nil, integration.ErrOrderNoCustomer
	}

	release, err := acquire(ctx, s.opts.lock, integration.LockEntitySync, s.settings.lockTTL())
	if err != nil {
		return nil, err
	}
	defer release()

	sp, err := s.provision(ctx, integration.EntityKindSalesperson, order.SalespersonID, "")
	if err != nil {
		return nil, fmt.Errorf("salesperson %s: %w", order.SalespersonID, err)
	}
	cust, err := s.provision(ctx, integration.EntityKindCustomer, order.CustomerID, sp.RemoteCode)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", order.CustomerID, err)
	}

	return &OrderEntities{
		SalespersonCode:       sp.RemoteCode,
		CustomerCode:          cust.RemoteCode,
		AutoSyncedSalesperson: !sp.AlreadyExisted,
		AutoSyncedCustomer:    !cust.AlreadyExisted,
	}, nil
}

// provision is the unguarded body of EnsureRemoteCode; callers hold the lock.
func (s *EntitySyncService) provision(ctx context.Context, kind integration.EntityKind, localID uuid.UUID, salespersonCode string) (*EnsureResult, error) {
	existing, err := s.mappings.FindByLocalID(ctx, kind, localID)
	if err == nil {
		return &EnsureResult{Kind: kind, LocalID: localID, RemoteCode: existing.RemoteCode, AlreadyExisted: true}, nil
	}
	if !errors.Is(err, integration.ErrMappingNotFound) {
		return nil, err
	}

	log := s.opts.log(ctx).With(zap.String("kind", kind.String()), zap.String("local_id", localID.String()))
	now := s.opts.now()
	format := s.settings.CodeFormat(kind)

	switch kind {
	case integration.EntityKindSalesperson:
		sp, err := s.salespersons.FindByID(ctx, localID)
		if err != nil {
			return nil, localLookupError(kind, localID, err)
		}
		code, err := s.nextCode(ctx, kind, format)
		if err != nil {
			return nil, err
		}
		name := sp.ChineseName
		if name == "" {
			name = sp.AccountID
		}
		err = s.remote.InsertSalesperson(ctx, integration.RemoteSalespersonRecord{
			Code:       code,
			Name:       name,
			RecordedAt: now,
		})
		if err != nil {
			return nil, err
		}
		return s.remember(ctx, log, kind, localID, code)

	default:
		c, err := s.customers.FindByID(ctx, localID)
		if err != nil {
			return nil, localLookupError(kind, localID, err)
		}
		code, err := s.nextCode(ctx, kind, format)
		if err != nil {
			return nil, err
		}
		err = s.remote.InsertCustomer(ctx, integration.RemoteCustomerRecord{
			Code:            code,
			Name:            c.Name,
			Phone:           c.Phone,
			Email:           c.Email,
			Country:         c.Country,
			ContactPerson:   c.ContactPerson,
			SalespersonCode: salespersonCode,
			Remarks:         c.Remarks,
			RecordedAt:      now,
		})
		if err != nil {
			return nil, err
		}
		return s.remember(ctx, log, kind, localID, code)
	}
}

func (s *EntitySyncService) nextCode(ctx context.Context, kind integration.EntityKind, format integration.CodeFormat) (string, error) {
	current, err := s.remote.MaxCodeSequence(ctx, kind, format)
	if err != nil {
		return "", err
	}
	return format.Next(current), nil
}

// remember stores the mapping of a freshly inserted ERP row
func (s *EntitySyncService) remember(ctx context.Context, log *logger.ContextLogger, kind integration.EntityKind, localID uuid.UUID, code string) (*EnsureResult, error) {
	mapping, err := integration.NewEntityMapping(kind, localID, code)
	if err != nil {
		return nil, err
	}
	if err := s.mappings.Create(ctx, mapping); err != nil {
		// the ERP row exists without a mapping now; the next attempt
		// provisions a fresh code and the orphan needs manual cleanup
		log.Error("ERP row created but mapping was not saved",
			zap.String("remote_code", code), zap.Error(err))
		return nil, err
	}

	s.opts.metrics.RecordEntityProvisioned(ctx, kind.String())
	log.Info("Provisioned ERP entity", zap.String("remote_code", code))
	return &EnsureResult{Kind: kind, LocalID: localID, RemoteCode: code, AlreadyExisted: false}, nil
}

func (s *EntitySyncService) customerSalespersonCode(ctx context.Context, customerID uuid.UUID) (string, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return "", localLookupError(integration.EntityKindCustomer, customerID, err)
	}
	if c.SalespersonID == nil {
		return "", nil
	}
	m, err := s.mappings.FindByLocalID(ctx, integration.EntityKindSalesperson, *c.SalespersonID)
	if errors.Is(err, integration.ErrMappingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.RemoteCode, nil
}

func localLookupError(kind integration.EntityKind, id uuid.UUID, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", integration.ErrLocalEntityMissing, kind, id)
	}
	return err
}

// ---------------------------------------------------------------------------
// Test entity maintenance
// ---------------------------------------------------------------------------

// TestEntityStats counts ERP rows and mappings whose code carries the test prefix
func (s *EntitySyncService) TestEntityStats(ctx context.Context) (*TestEntityCounts, error) {
	prefix := s.settings.TestCodePrefix
	out := &TestEntityCounts{Prefix: prefix}

	var err error
	if out.RemoteCustomers, err = s.remote.CountByCodePrefix(ctx, integration.EntityKindCustomer, prefix); err != nil {
		return nil, err
	}
	if out.RemoteSalespersons, err = s.remote.CountByCodePrefix(ctx, integration.EntityKindSalesperson, prefix); err != nil {
		return nil, err
	}
	if out.CustomerMappings, err = s.mappings.CountByCodePrefix(ctx, integration.EntityKindCustomer, prefix); err != nil {
		return nil, err
	}
	if out.SalespersonMappings, err = s.mappings.CountByCodePrefix(ctx, integration.EntityKindSalesperson, prefix); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupTestEntities deletes ERP rows and mappings whose code carries the
// test prefix and reports what was removed.
func (s *EntitySyncService) CleanupTestEntities(ctx context.Context) (*TestEntityCounts, error) {
	prefix := s.settings.TestCodePrefix
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Test code prefix is not configured")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "entity_sync", "cleanup_test")
	defer span.End()

	release, err := acquire(ctx, s.opts.lock, integration.LockEntitySync, s.settings.lockTTL())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	out := &TestEntityCounts{Prefix: prefix}
	steps := []struct {
		dst *int64
		run func() (int64, error)
	}{
		{&out.RemoteCustomers, func() (int64, error) {
			return s.remote.DeleteByCodePrefix(ctx, integration.EntityKindCustomer, prefix)
		}},
		{&out.RemoteSalespersons, func() (int64, error) {
			return s.remote.DeleteByCodePrefix(ctx, integration.EntityKindSalesperson, prefix)
		}},
		{&out.CustomerMappings, func() (int64, error) {
			return s.mappings.DeleteByCodePrefix(ctx, integration.EntityKindCustomer, prefix)
		}},
		{&out.SalespersonMappings, func() (int64, error) {
			return s.mappings.DeleteByCodePrefix(ctx, integration.EntityKindSalesperson, prefix)
		}},
	}
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		*step.dst = n
	}

	s.opts.log(ctx).Info("Removed test entities",
		zap.String("prefix", prefix),
		zap.Int64("remote_customers", out.RemoteCustomers),
		zap.Int64("remote_salespersons", out.RemoteSalespersons),
		zap.Int64("customer_mappings", out.CustomerMappings),
		zap.Int64("salesperson_mappings", out.SalespersonMappings),
	)
	telemetry.SetOK(span)
	return out, nil
}
