package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pkanok/matstock/internal/core/domain"
	"github.com/pkanok/matstock/internal/port"
)

// StockService coordinates every inventory mutation. Each operation is
// one atomic unit of work: validation happens before a transaction is
// opened, and any failure inside the unit rolls the whole thing back.
//
// Tag splits and supply adjustments are administrative corrections and
// append no movement row, so the journal sum per item key only
// reconciles against the stores while no correction has occurred.
type StockService struct {
	txr      port.TxRunner
	db       port.DBTX
	ledger   port.LedgerStore
	tags     port.TagStore
	supplies port.SupplyStore
	requests port.RequestQueue
	cache    port.DashboardCache
	log      *logrus.Logger
}

func NewStockService(
	txr port.TxRunner,
	db port.DBTX,
	ledger port.LedgerStore,
	tags port.TagStore,
	supplies port.SupplyStore,
	requests port.RequestQueue,
	cache port.DashboardCache,
	log *logrus.Logger,
) *StockService {
	return &StockService{
		txr:      txr,
		db:       db,
		ledger:   ledger,
		tags:     tags,
		supplies: supplies,
		requests: requests,
		cache:    cache,
		log:      log,
	}
}

// Receive journals a +qty movement and routes the quantity by material
// group: bulk groups merge into a stock tag (reactivating an archived
// one), the consumable group merges into the supply balance, and any
// other group is journaled only.
func (s *StockService) Receive(ctx context.Context, key domain.ItemKey, group domain.MaterialGroup, qty int, createdAt time.Time) error {
	if qty <= 0 {
		return domain.NewValidationError("qty", "must be greater than zero")
	}
	if !key.Complete() {
		return domain.NewValidationError("item key", "sapid, description, unit and location are required")
	}
	if group == "" {
		return domain.NewValidationError("groupmat", "required")
	}
	if createdAt.IsZero() {
		return domain.NewValidationError("created_at", "required")
	}

	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		if err := s.ledger.Append(ctx, tx, domain.NewReceiptMovement(key, group, qty, createdAt)); err != nil {
			return err
		}
		switch {
		case group.IsBulk():
			return s.tags.ReceiveMerge(ctx, tx, key, group, qty, createdAt)
		case group.IsConsumable():
			return s.supplies.ReceiveMerge(ctx, tx, key, qty, createdAt)
		}
		// Untracked groups keep only the journal entry.
		return nil
	})
	if err != nil {
		s.logOpError("Receive", key.SAPID, err)
		return err
	}

	s.invalidateStockDashboard(ctx)
	s.invalidateSupplyDashboard(ctx)
	return nil
}

// ArchiveTag zeroes and archives a tag. Administrative operation, not
// a movement; nothing is journaled.
func (s *StockService) ArchiveTag(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive tag id")
	}
	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		return s.tags.ArchiveAndZero(ctx, tx, id)
	})
	if err != nil {
		s.logOpError("ArchiveTag", "", err)
		return err
	}
	s.invalidateStockDashboard(ctx)
	return nil
}

// HideTag archives a tag while keeping its quantity, removing it from
// listings and aggregation only.
func (s *StockService) HideTag(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive tag id")
	}
	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		return s.tags.Hide(ctx, tx, id)
	})
	if err != nil {
		s.logOpError("HideTag", "", err)
		return err
	}
	s.invalidateStockDashboard(ctx)
	return nil
}

// UpdateTagQuantity corrects a tag to newQty, splitting any remainder
// into a new tag under splitKey. No movement row is appended.
func (s *StockService) UpdateTagQuantity(ctx context.Context, id int64, newQty int, splitKey domain.ItemKey, group domain.MaterialGroup) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive tag id")
	}
	if newQty < 0 {
		return domain.NewValidationError("newQty", "must not be negative")
	}

	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		return s.tags.SetQuantityWithSplit(ctx, tx, id, newQty, splitKey, group, time.Now())
	})
	if err != nil {
		s.logOpError("UpdateTagQuantity", splitKey.SAPID, err)
		return err
	}
	s.invalidateStockDashboard(ctx)
	return nil
}

// AdjustSupplyQuantity corrects a supply balance by delta. No movement
// row is appended.
func (s *StockService) AdjustSupplyQuantity(ctx context.Context, id int64, delta int) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive supply id")
	}
	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		return s.supplies.AdjustQuantity(ctx, tx, id, delta)
	})
	if err != nil {
		s.logOpError("AdjustSupplyQuantity", "", err)
		return err
	}
	s.invalidateSupplyDashboard(ctx)
	return nil
}

// TransferDeduct issues qty against the oldest active tag for
// (sapid, unit, location), falling back to the supply balance for
// (sapid, description, unit). A tag reduced to exactly zero is
// archived and zeroed. The issue is journaled with its joborder and
// requester context.
func (s *StockService) TransferDeduct(ctx context.Context, key domain.ItemKey, qty int, issue domain.IssueContext, issuedAt time.Time) error {
	if qty <= 0 {
		return domain.NewValidationError("qty", "must be greater than zero")
	}
	if !key.Complete() {
		return domain.NewValidationError("item key", "sapid, description, unit and location are required")
	}
	if issue.JobOrder == "" {
		return domain.NewValidationError("joborder", "required")
	}
	if issuedAt.IsZero() {
		return domain.NewValidationError("date", "required")
	}

	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		tag, err := s.tags.OldestActiveForUpdate(ctx, tx, key.SAPID, key.Unit, key.Location)
		if err != nil {
			return err
		}

		var group domain.MaterialGroup
		switch {
		case tag != nil:
			group = tag.Group
			if tag.Quantity < qty {
				return domain.ErrInsufficientStock
			}
			if tag.Quantity == qty {
				if err := s.tags.ArchiveAndZero(ctx, tx, tag.ID); err != nil {
					return err
				}
			} else if err := s.tags.DeductQuantity(ctx, tx, tag.ID, qty); err != nil {
				return err
			}
		default:
			sup, err := s.supplies.FindByKeyForUpdate(ctx, tx, key.SAPID, key.Description, key.Unit)
			if err != nil {
				return err
			}
			if sup == nil {
				return domain.ErrNotFound
			}
			if sup.Quantity < qty {
				return domain.ErrInsufficientStock
			}
			if err := s.supplies.DeductByKey(ctx, tx, key.SAPID, key.Description, key.Unit, qty); err != nil {
				return err
			}
			group = domain.GroupConsumable
		}

		return s.ledger.Append(ctx, tx, domain.NewIssueMovement(key, group, qty, issuedAt, issue))
	})
	if err != nil {
		s.logOpError("TransferDeduct", key.SAPID, err)
		return err
	}

	s.invalidateStockDashboard(ctx)
	s.invalidateSupplyDashboard(ctx)
	return nil
}

// SubmitRequest queues a material request in status pending. Request
// creation is not a movement; nothing is journaled.
func (s *StockService) SubmitRequest(ctx context.Context, req domain.MaterialRequest) (int64, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		var err error
		id, err = s.requests.Submit(ctx, tx, req)
		return err
	})
	if err != nil {
		s.logOpError("SubmitRequest", req.Description, err)
		return 0, err
	}
	return id, nil
}

// ProcessRequestIssue fulfills a pending request: the supply row is
// resolved by description alone and provides the authoritative sapid,
// unit and location; the quantity issued is overrideQty when positive,
// else the requested quantity. Deduction, journal entry and the
// pending -> processed transition commit together or not at all.
func (s *StockService) ProcessRequestIssue(ctx context.Context, requestID int64, overrideQty int) error {
	if requestID <= 0 {
		return domain.NewValidationError("requestId", "must be a positive request id")
	}

	err := s.txr.RunInTx(ctx, func(tx port.DBTX) error {
		req, err := s.requests.LoadPendingForUpdate(ctx, tx, requestID)
		if err != nil {
			return err
		}

		actual := req.Quantity
		if overrideQty > 0 {
			actual = overrideQty
		}
		if actual <= 0 {
			return domain.NewValidationError("qty", "must be greater than zero")
		}

		sup, err := s.supplies.FindByDescriptionForUpdate(ctx, tx, req.Description)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.ErrNotFound
		}

		if err := s.supplies.DeductByKey(ctx, tx, sup.SAPID, sup.Description, sup.Unit, actual); err != nil {
			return err
		}

		key := domain.NewItemKey(sup.SAPID, req.Description, sup.Unit, sup.Location)
		movement := domain.NewIssueMovement(key, domain.MaterialGroup(domain.MovementOriginRequest), actual, time.Now(), domain.IssueContext{
			JobOrder:   domain.MovementOriginRequest,
			Requester:  req.Requester,
			Department: req.Department,
		})
		if err := s.ledger.Append(ctx, tx, movement); err != nil {
			return err
		}

		return s.requests.MarkProcessed(ctx, tx, requestID, actual)
	})
	if err != nil {
		s.logOpError("ProcessRequestIssue", "", err)
		return err
	}

	s.invalidateSupplyDashboard(ctx)
	return nil
}

func (s *StockService) logOpError(op, sapid string, err error) {
	fields := logrus.Fields{"op": op}
	if sapid != "" {
		fields["sapid"] = sapid
	}
	s.log.WithFields(fields).WithError(err).Error("stock operation failed")
}

// Cache invalidation is best-effort: a cold dashboard is acceptable, a
// failed operation is not.
func (s *StockService) invalidateStockDashboard(ctx context.Context) {
	if err := s.cache.InvalidateStock(ctx); err != nil {
		s.log.WithError(err).Warn("stock dashboard invalidation failed")
	}
}

func (s *StockService) invalidateSupplyDashboard(ctx context.Context) {
	if err := s.cache.InvalidateSupplies(ctx); err != nil {
		s.log.WithError(err).Warn("supply dashboard invalidation failed")
	}
}
