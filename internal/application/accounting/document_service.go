package accounting

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentService handles financial document business operations
type DocumentService struct {
	documents        accounting.DocumentRepository
	homeJurisdiction string
}

// NewDocumentService creates a new DocumentService. The home jurisdiction
// decides the intra versus cross state tax split for every document line.
func NewDocumentService(documents accounting.DocumentRepository, homeJurisdiction string) *DocumentService {
	return &DocumentService{
		documents:        documents,
		homeJurisdiction: homeJurisdiction,
	}
}

// Create creates a new financial document, optionally committing it in the
// same call
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	number, err := s.documents.GenerateDocumentNumber(ctx, req.DocumentType)
	if err != nil {
		return nil, err
	}

	doc, err := accounting.NewFinancialDocument(accounting.NewDocumentParams{
		DocumentNumber: number,
		DocumentType:   req.DocumentType,
		PartyID:        req.PartyID,
		PartyName:      req.PartyName,
		DocumentDate:   req.DocumentDate,
		DueDate:        req.DueDate,
		PlaceOfSupply:  req.PlaceOfSupply,
		CurrencyCode:   req.CurrencyCode,
		ExchangeRate:   req.ExchangeRate,
		IsExport:       req.IsExport,
		DiscountAmount: req.DiscountAmount,
		ShippingCharge: req.ShippingCharge,
		RoundOff:       req.RoundOff,
		Remark:         req.Remark,
	})
	if err != nil {
		return nil, err
	}

	lines, err := buildLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := doc.ReplaceLines(lines, s.homeJurisdiction); err != nil {
		return nil, err
	}

	if req.Commit {
		if err := doc.Commit(); err != nil {
			return nil, err
		}
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Get returns a document by ID
func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetByNumber returns a document by its human-readable number
func (s *DocumentService) GetByNumber(ctx context.Context, number string) (*DocumentResponse, error) {
	doc, err := s.documents.FindByDocumentNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// List returns documents matching the filter, paginated
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) (shared.Paginated[DocumentResponse], error) {
	result, err := s.documents.FindAll(ctx, filter.ToDomainFilter())
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}

	responses := make([]DocumentResponse, len(result.Items))
	for i := range result.Items {
		responses[i] = ToDocumentResponse(&result.Items[i])
	}
	return shared.NewPaginated(responses, result.Total, result.Page, result.PageSize), nil
}

// UpdateLines replaces the line set of a draft document
func (s *DocumentService) UpdateLines(ctx context.Context, id uuid.UUID, req UpdateLinesRequest) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := buildLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := doc.ReplaceLines(lines, s.homeJurisdiction); err != nil {
		return nil, err
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// UpdateAdjustments changes discount, shipping, and round-off on a draft
func (s *DocumentService) UpdateAdjustments(ctx context.Context, id uuid.UUID, req UpdateAdjustmentsRequest) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := doc.SetAdjustments(req.DiscountAmount, req.ShippingCharge, req.RoundOff); err != nil {
		return nil, err
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Commit moves a draft to its committed state
func (s *DocumentService) Commit(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, id, (*accounting.FinancialDocument).Commit)
}

// Accept marks a sent quotation as accepted
func (s *DocumentService) Accept(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, id, (*accounting.FinancialDocument).Accept)
}

// MarkReceived marks an issued purchase order as received
func (s *DocumentService) MarkReceived(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	return s.transition(ctx, id, (*accounting.FinancialDocument).MarkReceived)
}

// Cancel retires a document. Allocations made against it stay in place and
// must be reversed through the payment side.
func (s *DocumentService) Cancel(ctx context.Context, id uuid.UUID, req CancelDocumentRequest) (*DocumentResponse, error) {
	return s.transition(ctx, id, func(doc *accounting.FinancialDocument) error {
		return doc.Cancel(req.Reason)
	})
}

// Delete removes a draft document. Committed documents are cancelled, not
// deleted.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !doc.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only drafts can be deleted")
	}
	return s.documents.Delete(ctx, id)
}

// SweepOverdue persists the Overdue status on every document whose derived
// overdue condition holds. The sweep is optional; readers OR the stored
// status with the derived predicate either way.
func (s *DocumentService) SweepOverdue(ctx context.Context, docType accounting.DocumentType, asOf time.Time) (int, error) {
	overdue, err := s.documents.FindOverdue(ctx, docType, asOf)
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range overdue {
		doc := &overdue[i]
		if doc.Status == accounting.DocumentStatusOverdue {
			continue
		}
		if err := doc.MarkOverdue(asOf); err != nil {
			return swept, err
		}
		if err := s.documents.SaveWithLock(ctx, doc); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// transition loads, mutates, and saves with an optimistic version check
func (s *DocumentService) transition(ctx context.Context, id uuid.UUID, fn func(*accounting.FinancialDocument) error) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.documents.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

func buildLines(inputs []LineItemInput) ([]*accounting.LineItem, error) {
	lines := make([]*accounting.LineItem, 0, len(inputs))
	for i, input := range inputs {
		line, err := accounting.NewLineItem(input.ItemReference, input.Quantity, input.Rate, input.TaxRate, i)
		if err != nil {
			return nil, err
		}
		line.Description = input.Description
		lines = append(lines, line)
	}
	return lines, nil
}
