package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/syncengine/internal/domain/catalog"
	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductSyncService imports ERP products into local product groups and SKUs.
//
// Only products recorded on or after the baseline are ever read. The
// baseline is written on the first run and never changes afterwards.
type ProductSyncService struct {
	reader     integration.RemoteProductReader
	categories catalog.CategoryRepository
	groups     catalog.ProductGroupRepository
	skus       catalog.ProductSkuRepository
	configs    integration.SystemConfigRepository
	settings   Settings
	opts       serviceOptions
}

// NewProductSyncService creates a new ProductSyncService
func NewProductSyncService(
	reader integration.RemoteProductReader,
	categories catalog.CategoryRepository,
	groups catalog.ProductGroupRepository,
	skus catalog.ProductSkuRepository,
	configs integration.SystemConfigRepository,
	settings Settings,
	opts ...Option,
) *ProductSyncService {
	return &ProductSyncService{
		reader:     reader,
		categories: categories,
		groups:     groups,
		skus:       skus,
		configs:    configs,
		settings:   settings,
		opts:       newServiceOptions(opts),
	}
}

// SyncProducts runs one import pass. With incremental set it starts from the
// last successful run when there is one, otherwise from the baseline.
// Failures are reported in the result together with the counts reached so far.
func (s *ProductSyncService) SyncProducts(ctx context.Context, incremental bool) *ProductSyncResult {
	start := s.opts.now()
	res := &ProductSyncResult{Incremental: incremental}
	finish := func(err error) *ProductSyncResult {
		res.Duration = s.opts.now().Sub(start)
		if err != nil {
			res.Success = false
			res.Error = err.Error()
		} else {
			res.Success = true
		}
		return res
	}

	if !s.settings.Enabled {
		res.Error = msgSyncDisabled
		return res
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "product_sync", "sync",
		telemetry.WithAttribute(telemetry.SpanAttrIncremental, incremental),
	)
	defer span.End()
	log := s.opts.log(ctx)

	release, err := acquire(ctx, s.opts.lock, integration.LockProductSync, s.settings.lockTTL())
	if err != nil {
		telemetry.RecordError(span, err)
		return finish(err)
	}
	defer release()

	if err := s.run(ctx, res, incremental); err != nil {
		telemetry.RecordError(span, err)
		log.Error("ERP product sync failed", zap.Error(err),
			zap.Int("groups_created", res.GroupsCreated),
			zap.Int("skus_created", res.SkusCreated),
		)
		return finish(err)
	}

	if err := s.configs.Upsert(ctx, integration.NewTimestampEntry(integration.ConfigKeyProductLastSync, s.opts.now())); err != nil {
		telemetry.RecordError(span, err)
		return finish(fmt.Errorf("record last sync time: %w", err))
	}

	finish(nil)
	s.opts.metrics.RecordDuration(ctx, "product_sync", res.Duration)
	telemetry.SetAttributes(span, telemetry.SpanAttrItemCount, res.ProductsRead)
	telemetry.SetOK(span)
	log.Info("ERP product sync finished",
		zap.Bool("incremental", incremental),
		zap.Time("since", res.Since),
		zap.Int("products", res.ProductsRead),
		zap.Int("skipped", res.ProductsSkipped),
		zap.Int("groups_created", res.GroupsCreated),
		zap.Int("groups_updated", res.GroupsUpdated),
		zap.Int("skus_created", res.SkusCreated),
		zap.Int("skus_updated", res.SkusUpdated),
		zap.Duration("duration", res.Duration),
	)
	return res
}

func (s *ProductSyncService) run(ctx context.Context, res *ProductSyncResult, incremental bool) error {
	since, err := s.startTime(ctx, incremental)
	if err != nil {
		return err
	}
	res.Since = since

	products, err := s.reader.ChangedProducts(ctx, since)
	if err != nil {
		return fmt.Errorf("read ERP products: %w", err)
	}
	res.ProductsRead = len(products)

	if len(products) > 0 {
		markNos := integration.DistinctMarkNos(products)
		marks, err := s.reader.Marks(ctx, markNos)
		if err != nil {
			return fmt.Errorf("read ERP feature groups: %w", err)
		}
		values, err := s.reader.FeatureValues(ctx, markNos)
		if err != nil {
			return fmt.Errorf("read ERP feature values: %w", err)
		}

		lookup := newFeatureLookup(marks, values)
		prefixes, partitions, skipped := integration.PartitionByPrefix(products)
		if len(skipped) > 0 {
			s.skip(ctx, res, skipped)
		}
		for _, prefix := range prefixes {
			if err := s.importPartition(ctx, res, prefix, partitions[prefix], lookup); err != nil {
				return fmt.Errorf("product group %s: %w", prefix, err)
			}
		}
	}

	return s.recomputeGroups(ctx)
}

// startTime returns the lower bound of the pass, creating the baseline on
// the first run.
func (s *ProductSyncService) startTime(ctx context.Context, incremental bool) (time.Time, error) {
	entry, err := s.configs.CreateIfAbsent(ctx,
		integration.NewTimestampEntry(integration.ConfigKeyProductSyncBaseline, s.opts.now()))
	if err != nil {
		return time.Time{}, fmt.Errorf("load sync baseline: %w", err)
	}
	baseline, err := integration.ParseTimestamp(entry.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sync baseline %q: %w", entry.Value, err)
	}
	if !incremental {
		return baseline, nil
	}

	last, err := s.lastSync(ctx, integration.ConfigKeyProductLastSync)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		return baseline, nil
	}
	return *last, nil
}

func (s *ProductSyncService) importPartition(ctx context.Context, res *ProductSyncResult, prefix string, products []integration.RemoteProduct, lookup featureLookup) error {
	category, err := s.ensureCategory(ctx, res, integration.DeriveCategoryCode(prefix))
	if err != nil {
		return err
	}

	markNo := products[0].MarkNo
	options := lookup.options(markNo)

	group, err := s.groups.FindByPrefix(ctx, prefix)
	switch {
	case err == nil:
		group.Relink(category, options)
		if err := s.groups.Save(ctx, group); err != nil {
			return err
		}
		res.GroupsUpdated++
		s.opts.metrics.RecordProductItems(ctx, telemetry.ItemGroup, telemetry.ActionUpdated, 1)
	case errors.Is(err, shared.ErrNotFound):
		mark := lookup.marks[markNo]
		var description *string
		if mark.Remark != "" {
			remark := mark.Remark
			description = &remark
		}
		group, err = catalog.NewProductGroup(prefix, mark.Name, description, category, options)
		if err != nil {
			return err
		}
		if err := s.groups.Save(ctx, group); err != nil {
			return err
		}
		res.GroupsCreated++
		s.opts.metrics.RecordProductItems(ctx, telemetry.ItemGroup, telemetry.ActionCreated, 1)
	default:
		return err
	}

	for _, p := range products {
		if err := s.upsertSku(ctx, res, p, group.ID); err != nil {
			return fmt.Errorf("sku %s: %w", p.Code, err)
		}
	}
	return nil
}

// skip records products whose name yields no group prefix. They stay in the
// ERP untouched and do not hold back the last-sync time.
func (s *ProductSyncService) skip(ctx context.Context, res *ProductSyncResult, products []integration.RemoteProduct) {
	codes := make([]string, len(products))
	for i, p := range products {
		codes[i] = p.Code
	}
	res.ProductsSkipped += len(products)
	s.opts.metrics.RecordProductItems(ctx, telemetry.ItemSku, telemetry.ActionSkipped, len(products))
	s.opts.log(ctx).Warn("ERP products without a group prefix skipped",
		zap.Int("count", len(products)),
		zap.Strings("product_codes", codes),
	)
}

func (s *ProductSyncService) ensureCategory(ctx context.Context, res *ProductSyncResult, code string) (*catalog.Category, error) {
	category, err := s.categories.FindByCode(ctx, code)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err = catalog.NewAutoCategory(code)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	res.CategoriesCreated++
	s.opts.metrics.RecordProductItems(ctx, telemetry.ItemCategory, telemetry.ActionCreated, 1)
	s.opts.log(ctx).Info("Auto-created category", zap.String("code", category.Code))
	return category, nil
}

func (s *ProductSyncService) upsertSku(ctx context.Context, res *ProductSyncResult, p integration.RemoteProduct, groupID uuid.UUID) error {
	spec := p.Specification
	sku, err := s.skus.FindByCode(ctx, p.Code)
	switch {
	case err == nil:
		sku.ApplyRemote(p.Name, &spec, groupID)
		if err := s.skus.Save(ctx, sku); err != nil {
			return err
		}
		res.SkusUpdated++
		s.opts.metrics.RecordProductItems(ctx, telemetry.ItemSku, telemetry.ActionUpdated, 1)
	case errors.Is(err, shared.ErrNotFound):
		sku, err = catalog.NewImportedSku(p.Code, p.Name, &spec, groupID, p.RecordDate)
		if err != nil {
			return err
		}
		if err := s.skus.Save(ctx, sku); err != nil {
			return err
		}
		res.SkusCreated++
		s.opts.metrics.RecordProductItems(ctx, telemetry.ItemSku, telemetry.ActionCreated, 1)
	default:
		return err
	}
	return nil
}

// recomputeGroups refreshes price range, SKU count and main image of every
// group, not only the ones touched by this pass.
func (s *ProductSyncService) recomputeGroups(ctx context.Context) error {
	groups, err := s.groups.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load product groups: %w", err)
	}
	if len(groups) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(groups))
	for i := range groups {
		ids[i] = groups[i].ID
	}
	skus, err := s.skus.FindByGroupIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load product skus: %w", err)
	}
	byGroup := make(map[uuid.UUID][]catalog.ProductSku, len(groups))
	for _, sku := range skus {
		if sku.GroupID != nil {
			byGroup[*sku.GroupID] = append(byGroup[*sku.GroupID], sku)
		}
	}

	for i := range groups {
		g := &groups[i]
		g.Recompute(byGroup[g.ID])
		if err := s.groups.Save(ctx, g); err != nil {
			return fmt.Errorf("save aggregates of %s: %w", g.Prefix, err)
		}
	}
	return nil
}

// LastSyncTimes reports the product baseline and the last run of every pull sync
func (s *ProductSyncService) LastSyncTimes(ctx context.Context) (*LastSyncTimes, error) {
	out := &LastSyncTimes{}
	targets := []struct {
		key string
		dst **time.Time
	}{
		{integration.ConfigKeyProductSyncBaseline, &out.ProductBaseline},
		{integration.SyncKindProduct.LastSyncKey(), &out.ProductLastSync},
		{integration.SyncKindCustomer.LastSyncKey(), &out.CustomerLastSync},
		{integration.SyncKindSalesperson.LastSyncKey(), &out.SalespersonLastSync},
	}
	for _, t := range targets {
		v, err := s.lastSync(ctx, t.key)
		if err != nil {
			return nil, err
		}
		*t.dst = v
	}
	return out, nil
}

func (s *ProductSyncService) lastSync(ctx context.Context, key string) (*time.Time, error) {
	return readTimestamp(ctx, s.configs, key)
}

// readTimestamp returns the stored timestamp of key, or nil when unset
func readTimestamp(ctx context.Context, configs integration.SystemConfigRepository, key string) (*time.Time, error) {
	entry, err := configs.Get(ctx, key)
	if errors.Is(err, integration.ErrConfigKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := integration.ParseTimestamp(entry.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// featureLookup indexes MARKS and PRD_MARKS rows by feature group number
type featureLookup struct {
	marks  map[string]integration.RemoteMark
	values map[string][]integration.RemoteFeatureValue
}

func newFeatureLookup(marks []integration.RemoteMark, values []integration.RemoteFeatureValue) featureLookup {
	l := featureLookup{
		marks:  make(map[string]integration.RemoteMark, len(marks)),
		values: make(map[string][]integration.RemoteFeatureValue),
	}
	for _, m := range marks {
		l.marks[m.MarkNo] = m
	}
	for _, v := range values {
		l.values[v.MarkNo] = append(l.values[v.MarkNo], v)
	}
	return l
}

func (l featureLookup) options(markNo string) []catalog.FeatureOption {
	values := l.values[markNo]
	if len(values) == 0 {
		return nil
	}
	out := make([]catalog.FeatureOption, len(values))
	for i, v := range values {
		nameEn := v.Name
		if nameEn == "" {
			nameEn = v.Value
		}
		out[i] = catalog.FeatureOption{NameZh: v.Value, NameEn: nameEn}
	}
	return out
}
