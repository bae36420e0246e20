package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// ErrRequestApprovedLocked guards approved store-inventory requests
// against edits that would silently change what was already issued
var ErrRequestApprovedLocked = shared.NewDomainError("REQUEST_APPROVED_LOCKED",
	"Approved stock requests cannot change part, quantity or source; un-approve first")

// issueNote is journaled when approval issues stock to a job
const issueNote = "Maintenance part request approved."

// CreatePartRequestInput is the payload for raising a part request
type CreatePartRequestInput struct {
	TicketID         uuid.UUID
	LocationID       uuid.UUID
	PartID           *uuid.UUID
	Source           maintenance.PartSource
	Quantity         decimal.Decimal
	ExternalItemName string
	ReceiptNumber    string
	Cost             decimal.Decimal
	RequestedBy      string
	Notes            string
}

// UpdatePartRequestInput is the payload for amending a part request
type UpdatePartRequestInput struct {
	PartID           *uuid.UUID
	Source           maintenance.PartSource
	Status           maintenance.PartRequestStatus
	Quantity         decimal.Decimal
	ExternalItemName string
	ReceiptNumber    string
	Cost             decimal.Decimal
	ApprovedBy       string
	Notes            string
}

// PartRequestService is the part request document engine. Approval of
// a store-inventory request issues the part from stock; leaving the
// approved state returns it at the recovered cost.
type PartRequestService struct {
	scope  appinv.LedgerScope
	ledger *appinv.Ledger
	logger *zap.Logger
}

// NewPartRequestService creates a new PartRequestService
func NewPartRequestService(scope appinv.LedgerScope, ledger *appinv.Ledger, logger *zap.Logger) *PartRequestService {
	return &PartRequestService{scope: scope, ledger: ledger, logger: logger}
}

// Create raises a part request. Creation never moves stock; the
// ledger effect happens when the request is approved.
func (s *PartRequestService) Create(ctx context.Context, in CreatePartRequestInput, actor shared.Actor) (*maintenance.PartRequest, error) {
	req, err := maintenance.NewPartRequest(in.TicketID, in.LocationID, in.PartID, in.Source, in.Quantity)
	if err != nil {
		return nil, err
	}
	req.ExternalItemName = in.ExternalItemName
	req.ReceiptNumber = in.ReceiptNumber
	req.Cost = in.Cost
	req.RequestedBy = in.RequestedBy
	req.Notes = in.Notes
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		return repos.PartRequests().Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Part request created",
		zap.String("request_id", req.ID.String()),
		zap.String("ticket_id", req.TicketID.String()),
		zap.String("source", string(req.Source)),
	)
	return req, nil
}

// Update amends a part request and applies the stock effect its
// approval transition implies. Crossing into or out of APPROVED needs
// an approver-level actor.
func (s *PartRequestService) Update(ctx context.Context, requestID uuid.UUID, in UpdatePartRequestInput, actor shared.Actor) (*maintenance.PartRequest, error) {
	var updated *maintenance.PartRequest
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		req, err := repos.PartRequests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !in.Status.IsValid() {
			return shared.NewDomainError("INVALID_STATUS", "Invalid part request status")
		}
		if !in.Source.IsValid() {
			return shared.NewDomainError("INVALID_SOURCE", "Invalid part source")
		}
		if req.ApprovalCrossing(in.Status) && !actor.CanApprove() {
			return shared.ErrForbidden
		}
		if req.LockedAgainst(in.PartID, in.Quantity, in.Source, in.Status) {
			return ErrRequestApprovedLocked
		}

		oldStage := req.Stage()
		oldRequired := requiredMap(req)

		req.PartID = in.PartID
		req.Source = in.Source
		req.Status = in.Status
		req.Quantity = in.Quantity
		req.ExternalItemName = in.ExternalItemName
		req.ReceiptNumber = in.ReceiptNumber
		req.Cost = in.Cost
		req.Notes = in.Notes
		if in.ApprovedBy != "" {
			req.ApprovedBy = in.ApprovedBy
		}
		req.Touch()
		if err := req.Validate(); err != nil {
			return err
		}

		prices, err := s.issuePrices(ctx, repos, req)
		if err != nil {
			return err
		}

		if err := s.ledger.Transition(ctx, repos, appinv.TransitionRequest{
			LocationID:      req.LocationID,
			ReferenceID:     req.ID.String(),
			OldStage:        oldStage,
			NewStage:        req.Stage(),
			OldRequired:     oldRequired,
			NewRequired:     requiredMap(req),
			Prices:          prices,
			ConsumeType:     inventory.MovementTypeIssue,
			ConsumeNotes:    issueNote,
			ReturnBatchNote: fmt.Sprintf("Part request reversal %s", req.ID),
			Operator:        actor.Name,
		}); err != nil {
			return err
		}

		if err := repos.PartRequests().Save(ctx, req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Part request updated",
		zap.String("request_id", requestID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Delete removes a part request. Approved store-inventory requests
// hold issued stock and must be un-approved first; deletion itself is
// restricted to approver-level actors.
func (s *PartRequestService) Delete(ctx context.Context, requestID uuid.UUID, actor shared.Actor) error {
	if !actor.CanApprove() {
		return shared.ErrForbidden
	}
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		req, err := repos.PartRequests().FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req.DeletionBlocked() {
			return ErrRequestApprovedLocked
		}
		return repos.PartRequests().Delete(ctx, req.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Part request deleted", zap.String("request_id", requestID.String()))
	return nil
}

// Get retrieves one part request
func (s *PartRequestService) Get(ctx context.Context, requestID uuid.UUID) (*maintenance.PartRequest, error) {
	var req *maintenance.PartRequest
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		var err error
		req, err = repos.PartRequests().FindByID(ctx, requestID)
		return err
	})
	return req, err
}

// List retrieves part requests matching a filter
func (s *PartRequestService) List(ctx context.Context, filter maintenance.PartRequestFilter) ([]maintenance.PartRequest, int64, error) {
	var (
		result []maintenance.PartRequest
		total  int64
	)
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		var err error
		result, total, err = repos.PartRequests().List(ctx, filter)
		return err
	})
	return result, total, err
}

// issuePrices looks up the catalog price journaled on ISSUE movements
func (s *PartRequestService) issuePrices(ctx context.Context, repos appinv.LedgerRepositories, req *maintenance.PartRequest) (map[uuid.UUID]decimal.Decimal, error) {
	if req.PartID == nil || req.Source != maintenance.PartSourceStoreInventory {
		return nil, nil
	}
	item, err := repos.Items().FindByID(ctx, *req.PartID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PART_NOT_FOUND", "Requested part does not exist")
		}
		return nil, err
	}
	return map[uuid.UUID]decimal.Decimal{item.ID: item.Price}, nil
}

// requiredMap is the request's holding as a per-item quantity map
func requiredMap(req *maintenance.PartRequest) map[uuid.UUID]decimal.Decimal {
	if req.PartID == nil || req.Source != maintenance.PartSourceStoreInventory {
		return nil
	}
	return map[uuid.UUID]decimal.Decimal{*req.PartID: req.Quantity}
}
