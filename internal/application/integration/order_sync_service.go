package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/domain/trade"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderEntityProvisioner resolves the ERP codes of an order's parties
type OrderEntityProvisioner interface {
	EnsureOrderEntitiesSynced(ctx context.Context, order *trade.Order) (*OrderEntities, error)
}

// OrderSyncService exports website orders to the ERP as one MF_POS header,
// one TF_POS line and one TF_POS_Z extension per item, all in one remote
// transaction.
type OrderSyncService struct {
	orders   trade.OrderRepository
	entities OrderEntityProvisioner
	remote   integration.RemoteOrderStore
	settings Settings
	opts     serviceOptions
}

// NewOrderSyncService creates a new OrderSyncService
func NewOrderSyncService(
	orders trade.OrderRepository,
	entities OrderEntityProvisioner,
	remote integration.RemoteOrderStore,
	settings Settings,
	opts ...Option,
) *OrderSyncService {
	return &OrderSyncService{
		orders:   orders,
		entities: entities,
		remote:   remote,
		settings: settings,
		opts:     newServiceOptions(opts),
	}
}

// SyncOrder exports one order. Business failures come back as a failed
// result: sync disabled, a missing or already synced order, party
// provisioning and remote write errors. Only the last two mark the order
// failed. Local storage errors are returned as errors.
func (s *OrderSyncService) SyncOrder(ctx context.Context, orderID uuid.UUID) (*OrderSyncResult, error) {
	if !s.settings.Enabled {
		return orderFailure(orderID, msgSyncDisabled), nil
	}

	release, err := acquire(ctx, s.opts.lock, integration.LockOrderSync, s.settings.lockTTL())
	if errors.Is(err, integration.ErrSyncInProgress) {
		return orderFailure(orderID, msgSyncInProgress), nil
	}
	if err != nil {
		return nil, err
	}
	defer release()

	return s.syncOrder(ctx, orderID)
}

// RetryOrder re-runs the full export of a failed order
func (s *OrderSyncService) RetryOrder(ctx context.Context, orderID uuid.UUID) (*OrderSyncResult, error) {
	s.opts.log(ctx).Info("Retrying ERP order sync", zap.String("order_id", orderID.String()))
	return s.SyncOrder(ctx, orderID)
}

// SyncOrders exports orders one after another. Every ID gets a result;
// errors of individual orders are recorded in their result and never stop
// the batch.
func (s *OrderSyncService) SyncOrders(ctx context.Context, orderIDs []uuid.UUID) (*BatchSyncResult, error) {
	batch := &BatchSyncResult{Results: make([]OrderSyncResult, 0, len(orderIDs))}
	if !s.settings.Enabled {
		for _, id := range orderIDs {
			batch.add(*orderFailure(id, msgSyncDisabled))
		}
		return batch, nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "batch",
		telemetry.WithAttribute(telemetry.SpanAttrBatchSize, len(orderIDs)),
	)
	defer span.End()

	release, err := acquire(ctx, s.opts.lock, integration.LockOrderSync, s.settings.lockTTL())
	if errors.Is(err, integration.ErrSyncInProgress) {
		for _, id := range orderIDs {
			batch.add(*orderFailure(id, msgSyncInProgress))
		}
		return batch, nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	defer release()

	for _, id := range orderIDs {
		if err := ctx.Err(); err != nil {
			batch.add(*orderFailure(id, err.Error()))
			continue
		}
		res, err := s.syncOrder(ctx, id)
		if err != nil {
			res = orderFailure(id, err.Error())
		}
		batch.add(*res)
	}

	s.opts.log(ctx).Info("ERP order batch finished",
		zap.Int("requested", len(orderIDs)),
		zap.Int("succeeded", batch.Succeeded),
		zap.Int("failed", batch.Failed),
	)
	return batch, nil
}

// ListFailedOrders lists orders whose last export failed, newest first
func (s *OrderSyncService) ListFailedOrders(ctx context.Context) ([]OrderSyncSummary, error) {
	orders, err := s.orders.FindBySyncStatuses(ctx, []integration.OrderSyncStatus{integration.OrderSyncStatusFailed})
	if err != nil {
		return nil, err
	}
	return ToOrderSyncSummaries(orders), nil
}

// ListPendingOrders lists orders never exported or queued for export, newest first
func (s *OrderSyncService) ListPendingOrders(ctx context.Context) ([]OrderSyncSummary, error) {
	orders, err := s.orders.FindBySyncStatuses(ctx, []integration.OrderSyncStatus{
		integration.OrderSyncStatusUnset,
		integration.OrderSyncStatusPending,
	})
	if err != nil {
		return nil, err
	}
	return ToOrderSyncSummaries(orders), nil
}

// syncOrder is the unguarded body of SyncOrder; callers hold the order lock.
func (s *OrderSyncService) syncOrder(ctx context.Context, orderID uuid.UUID) (*OrderSyncResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order_sync", "sync",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID),
	)
	defer span.End()
	start := s.opts.now()
	log := s.opts.log(ctx).With(zap.String("order_id", orderID.String()))

	order, err := s.orders.FindByIDWithDetails(ctx, orderID)
	if errors.Is(err, shared.ErrNotFound) {
		err = fmt.Errorf("%w: %s", integration.ErrOrderNotFound, orderID)
		telemetry.RecordError(span, err)
		return orderFailure(orderID, err.Error()), nil
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if order.IsErpSynced() {
		err := shared.NewDomainError("INVALID_STATE", "Order is already synced to ERP")
		telemetry.RecordError(span, err)
		return orderFailure(orderID, err.Error()), nil
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrItemCount, len(order.Items))

	fail := func(cause error) (*OrderSyncResult, error) {
		telemetry.RecordError(span, cause)
		s.opts.metrics.RecordOrder(ctx, false)
		log.Warn("ERP order sync failed", zap.Error(cause))

		if err := order.MarkErpFailed(cause.Error(), s.opts.now()); err != nil {
			return nil, err
		}
		if err := s.orders.UpdateSyncState(ctx, order); err != nil {
			return nil, fmt.Errorf("record sync failure of order %s: %w", orderID, err)
		}
		return orderFailure(orderID, cause.Error()), nil
	}

	if len(order.Items) == 0 {
		return fail(integration.ErrOrderHasNoItems)
	}

	parties, err := s.entities.EnsureOrderEntitiesSynced(ctx, order)
	if err != nil {
		return fail(fmt.Errorf("provision order parties: %w", err))
	}

	erpOrderNo, err := s.export(ctx, log, order, parties)
	if err != nil {
		return fail(err)
	}

	if err := order.MarkErpSynced(erpOrderNo, s.opts.now()); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateSyncState(ctx, order); err != nil {
		log.Error("ERP order committed but local status was not updated",
			zap.String("erp_order_no", erpOrderNo), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("order %s exported as %s but local status update failed: %w", orderID, erpOrderNo, err)
	}

	s.opts.metrics.RecordOrder(ctx, true)
	s.opts.metrics.RecordDuration(ctx, "order_sync", s.opts.now().Sub(start))
	telemetry.SetAttributes(span, telemetry.SpanAttrErpOrderNo, erpOrderNo)
	telemetry.SetOK(span)
	log.Info("Order exported to ERP",
		zap.String("erp_order_no", erpOrderNo),
		zap.Int("items", len(order.Items)),
		zap.Bool("auto_synced_customer", parties.AutoSyncedCustomer),
		zap.Bool("auto_synced_salesperson", parties.AutoSyncedSalesperson),
	)

	return &OrderSyncResult{
		OrderID:               orderID,
		Success:               true,
		ErpOrderNo:            erpOrderNo,
		AutoSyncedCustomer:    parties.AutoSyncedCustomer,
		AutoSyncedSalesperson: parties.AutoSyncedSalesperson,
	}, nil
}

// export writes the order inside one remote transaction and returns the
// generated ERP order number. Any error rolls the transaction back.
func (s *OrderSyncService) export(ctx context.Context, log *logger.ContextLogger, order *trade.Order, parties *OrderEntities) (orderNo string, err error) {
	tx, err := s.remote.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn("ERP rollback failed", zap.Error(rbErr))
		}
	}()

	now := s.opts.now()
	format := s.settings.OrderNumbers
	monthPrefix := format.MonthPrefix(now)
	current, err := tx.MaxOrderSuffix(ctx, format, monthPrefix)
	if err != nil {
		return "", err
	}
	orderNo = format.Next(monthPrefix, current)

	remarks, err := order.CustomParamsJSON()
	if err != nil {
		return "", fmt.Errorf("encode custom params: %w", err)
	}

	err = tx.InsertHeader(ctx, integration.RemoteOrderHeader{
		OrderNo:          orderNo,
		OrderDate:        order.OrderDate,
		CustomerCode:     parties.CustomerCode,
		SalespersonCode:  parties.SalespersonCode,
		TotalAmount:      order.TotalAmount,
		Warehouse:        s.settings.Warehouse,
		SendMethod:       s.settings.SendMethod,
		PayMethod:        s.settings.PayMethod,
		ExpectedDelivery: order.FirstExpectedDeliveryDate(),
		Remarks:          remarks,
		RecordedAt:       now,
	})
	if err != nil {
		return "", err
	}

	for i := range order.Items {
		item := &order.Items[i]
		itemNo := item.EffectiveItemNumber(i + 1)

		if err = tx.InsertLine(ctx, s.lineFor(order, item, orderNo, itemNo)); err != nil {
			return "", err
		}
		err = tx.InsertLineExtension(ctx, integration.RemoteOrderLineExt{
			OrderNo:             orderNo,
			ItemNo:              itemNo,
			PackingQuantity:     item.PackingQuantity,
			CartonQuantity:      item.CartonQuantity,
			PackagingMethod:     item.PackagingMethod,
			PaperCardCode:       item.PaperCardCode,
			WashLabelCode:       item.WashLabelCode,
			OuterCartonCode:     item.OuterCartonCode,
			CartonSpecification: item.CartonSpecification,
		})
		if err != nil {
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return orderNo, nil
}

func (s *OrderSyncService) lineFor(order *trade.Order, item *trade.OrderItem, orderNo string, itemNo int) integration.RemoteOrderLine {
	amounts := integration.ComputeLineAmounts(item.Price, item.Quantity, s.settings.TaxRate)
	return integration.RemoteOrderLine{
		OrderNo:             orderNo,
		ItemNo:              itemNo,
		ProductCode:         item.ProductCode,
		ProductName:         item.ProductName,
		Mark:                item.Mark().Display(),
		Quantity:            item.Quantity,
		UnitPrice:           item.Price,
		Amount:              amounts.Total,
		UntaxedAmount:       amounts.Untaxed,
		Tax:                 amounts.Tax,
		Specification:       item.ProductSpec,
		PackagingUnit:       item.PackagingUnit,
		PackagingConversion: item.PackagingConversion,
		NetWeight:           item.NetWeight,
		GrossWeight:         item.GrossWeight,
		WeightUnit:          item.WeightUnit,
		Volume:              item.Volume,
		ExpectedDelivery:    item.ExpectedDeliveryDate,
		SupplierNote:        item.SupplierNote,
		PackagingType:       item.PackagingType,
		OrderDate:           order.OrderDate,
		Warehouse:           s.settings.Warehouse,
		TaxRatePercent:      integration.TaxRatePercent(s.settings.TaxRate),
	}
}
