package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
	"vehicle-repair-service/internal/repository"
)

type InspectionAction string

const (
	InspectionActionStart    InspectionAction = "a_draft_to_b_in_progress"
	InspectionActionReview   InspectionAction = "b_in_progress_to_in_review"
	InspectionActionReject   InspectionAction = "in_review_to_reject"
	InspectionActionComplete InspectionAction = "reject_to_c_complete"
	InspectionActionCancel   InspectionAction = "c_complete_to_d_cancel"
	InspectionActionLock     InspectionAction = "d_cancel_to_locked"
)

const (
	msgSelectInspectType   = "Select inspection type: 'Only Inspection' or 'Inspection + Repair' Make a choice to proceed."
	msgRegisterNeedsModel  = "Please provide the vehicle name and model along with any other relevant vehicle details."
	msgFluidsUnchecked     = "Ensure all records in the 'Vehicle Fluids' template are checked."
	msgPartsUncheckedFmt   = "Ensure all records in the '%s' template are checked."
	msgReportTypeMismatch  = "The selected template does not match the inspection report type."
	msgQuotationNotCreated = "Create a quotation before updating it."
)

// classicGateLabels is the order the classic categories are checked in.
// Fluids are checked last since they accept the filled flag.
var classicGateLabels = []struct {
	category model.PartCategory
	label    string
}{
	{model.PartExterior, "Exterior parts"},
	{model.PartInterior, "Interior parts"},
	{model.PartUnderHood, "Under Hood Parts"},
	{model.PartUnderVehicle, "Under Vehicle Parts"},
	{model.PartTires, "Tires Conditions"},
	{model.PartBrakeCondition, "Brakes Conditions"},
}

func inspectionChecklistDone(card *model.InspectionJobCard) *Notice {
	return checklistDone(card.ChecklistLines)
}

func classicPartsChecked(card *model.InspectionJobCard) *Notice {
	if card.ReportType != model.ReportTypeClassic {
		return nil
	}
	for _, gate := range classicGateLabels {
		for _, line := range card.PartLinesOf(gate.category) {
			if !line.Checked() {
				return warning(fmt.Sprintf(msgPartsUncheckedFmt, gate.label))
			}
		}
	}
	return nil
}

func classicFluidsChecked(card *model.InspectionJobCard) *Notice {
	if card.ReportType != model.ReportTypeClassic {
		return nil
	}
	for _, line := range card.PartLinesOf(model.PartFluids) {
		if !line.Checked() {
			return warning(msgFluidsUnchecked)
		}
	}
	return nil
}

var inspectionFlow = NewWorkflow(model.EntityInspection, map[string]Transition[model.InspectionStage, *model.InspectionJobCard]{
	string(InspectionActionStart): {
		From: []model.InspectionStage{model.InspectionStageDraft},
		To:   model.InspectionStageInProgress,
	},
	string(InspectionActionReview): {
		From: []model.InspectionStage{model.InspectionStageInProgress},
		To:   model.InspectionStageInReview,
	},
	string(InspectionActionReject): {
		From: []model.InspectionStage{model.InspectionStageInReview},
		To:   model.InspectionStageReject,
	},
	string(InspectionActionComplete): {
		From: []model.InspectionStage{model.InspectionStageReject},
		To:   model.InspectionStageComplete,
		Guards: []Guard[*model.InspectionJobCard]{
			inspectionChecklistDone,
			classicPartsChecked,
			classicFluidsChecked,
		},
	},
	string(InspectionActionCancel): {
		From: []model.InspectionStage{model.InspectionStageComplete},
		To:   model.InspectionStageCancel,
	},
	string(InspectionActionLock): {
		From: []model.InspectionStage{model.InspectionStageCancel},
		To:   model.InspectionStageLocked,
	},
})

type InspectionUpdateInput struct {
	InspectionDate      *time.Time
	InspectType         model.InspectType
	ChargeType          model.ChargeType
	InspectionCharge    float64
	UnderWarranty       bool
	Odometer            float64
	OdometerUnit        model.OdometerUnit
	ReviewNotes         string
	CustomerObservation string
	ResponsibleID       *uuid.UUID
	Vehicle             *model.VehicleInfo
	Customer            *model.CustomerSnapshot
}

type InspectionService struct {
	repos    *repository.Repositories
	notifier notify.Notifier
	log      zerolog.Logger
	location *time.Location
	now      func() time.Time
}

func NewInspectionService(repos *repository.Repositories, notifier notify.Notifier, location *time.Location, log zerolog.Logger) *InspectionService {
	if location == nil {
		location = time.UTC
	}
	return &InspectionService{repos: repos, notifier: notifier, log: log, location: location, now: time.Now}
}

func (s *InspectionService) List(ctx context.Context, principal model.Principal, stages []model.InspectionStage, limit, offset int) ([]model.InspectionJobCard, error) {
	filter := repository.InspectionFilter{Stages: stages, Limit: limit, Offset: offset}
	if principal.IsCustomer() {
		if principal.CustomerID == nil {
			return nil, ErrPermissionDenied
		}
		filter.CustomerID = principal.CustomerID
	} else if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Inspections.List(ctx, filter)
}

func (s *InspectionService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, error) {
	card, err := s.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canSeeCustomerRecord(principal, card.Customer.CustomerID) {
		return nil, ErrNotFound
	}
	return card, nil
}

// Update rewrites the editable header fields of a card.
func (s *InspectionService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, input InspectionUpdateInput) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		if input.InspectType == "" {
			return validationf("%s", msgSelectInspectType)
		}
		if input.InspectionDate != nil {
			card.InspectionDate = model.NewDate(*input.InspectionDate)
		}
		card.InspectType = input.InspectType
		if input.ChargeType != "" {
			card.ChargeType = input.ChargeType
		}
		card.InspectionCharge = input.InspectionCharge
		card.UnderWarranty = input.UnderWarranty
		card.Odometer = input.Odometer
		if input.OdometerUnit != "" {
			card.OdometerUnit = input.OdometerUnit
		}
		card.ReviewNotes = input.ReviewNotes
		card.CustomerObservation = strings.TrimSpace(input.CustomerObservation)
		card.ResponsibleID = input.ResponsibleID

		if input.Vehicle != nil {
			vehicle, err := resolveVehicle(ctx, tx, *input.Vehicle)
			if err != nil {
				return err
			}
			card.Vehicle = vehicle
		}
		if input.Customer != nil {
			var customer *model.Customer
			if input.Customer.CustomerID != nil {
				c, err := tx.Customers.GetByID(ctx, *input.Customer.CustomerID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrInvalidInput
					}
					return err
				}
				customer = c
			}
			card.Customer = DeriveCustomerSnapshot(customer, input.Customer)
		}
		ApplyInspectionTotals(card)
		return nil
	})
}

// mutate loads a card for staff, lets fn change it and saves the header.
func (s *InspectionService) mutate(ctx context.Context, principal model.Principal, id uuid.UUID, fn func(tx *repository.Repositories, card *model.InspectionJobCard) error) (*model.InspectionJobCard, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Inspections.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.Stage == model.InspectionStageLocked {
			return ErrInvalidStatus
		}
		if err := fn(tx, card); err != nil {
			return err
		}
		return tx.Inspections.Save(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Inspections.GetByID(ctx, id)
}

// Act runs one stage action. Completion notifies after the transaction
// committed.
func (s *InspectionService) Act(ctx context.Context, principal model.Principal, id uuid.UUID, action InspectionAction) (*model.InspectionJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var (
		notice    *Notice
		completed bool
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Inspections.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		// The skip flag is cleared once the checklist passes, even when a
		// later part gate blocks completion.
		if action == InspectionActionComplete && card.Stage == model.InspectionStageReject &&
			card.SkipQuotation && ChecklistComplete(card.ChecklistLines) {
			card.SkipQuotation = false
			if err := tx.Inspections.UpdateStage(ctx, card.ID, card.Stage, map[string]interface{}{"skip_quotation": false}); err != nil {
				return err
			}
		}

		next, n, err := inspectionFlow.Next(string(action), card.Stage, card)
		if err != nil {
			return err
		}
		if n != nil {
			notice = n
			return nil
		}

		if err := tx.Inspections.UpdateStage(ctx, card.ID, next, nil); err != nil {
			return err
		}
		completed = action == InspectionActionComplete
		return recordStage(ctx, tx, model.EntityInspection, card.ID, string(action), string(card.Stage), string(next), principal)
	})
	if err != nil {
		return nil, nil, err
	}

	card, err := s.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if completed {
		publish(ctx, s.notifier, s.log, inspectionEvent(notify.EventInspectionCompleted, card))
	}
	return card, notice, nil
}

func (s *InspectionService) Actions(card *model.InspectionJobCard) []string {
	return inspectionFlow.Actions(card.Stage)
}

func (s *InspectionService) History(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.StageLog, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.StageLogs.List(ctx, model.EntityInspection, id)
}

// ApplyChecklistTemplate replaces the checklist with the template items. A
// nil template clears it.
func (s *InspectionService) ApplyChecklistTemplate(ctx context.Context, principal model.Principal, id uuid.UUID, templateID *uuid.UUID) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		var tpl *model.ChecklistTemplate
		if templateID != nil {
			t, err := tx.Templates.GetChecklist(ctx, *templateID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidInput
				}
				return err
			}
			tpl = t
		}
		card.ChecklistTemplateID = templateID
		return tx.Inspections.ReplaceChecklist(ctx, card.ID, ChecklistFromTemplate(tpl))
	})
}

// ApplyInspectionTemplate fills the report lines from a template of the
// card's report type. A nil template clears every report line.
func (s *InspectionService) ApplyInspectionTemplate(ctx context.Context, principal model.Principal, id uuid.UUID, templateID *uuid.UUID) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		card.InspectionTemplateID = templateID
		if templateID == nil {
			if err := tx.Inspections.ReplacePartLines(ctx, card.ID, model.PartCategories, nil); err != nil {
				return err
			}
			if err := tx.Inspections.ReplaceConditionLines(ctx, card.ID, model.AdvancedTemplateCategories, nil); err != nil {
				return err
			}
			card.Categories.InnerBodyInspection = false
			card.Categories.OuterBodyInspection = false
			card.Categories.MechanicalCondition = false
			card.Categories.VehicleComponent = false
			card.Categories.VehicleFluid = false
			card.InspectionType = DeriveInspectionType(card.Categories)
			return nil
		}

		tpl, err := tx.Templates.GetInspectionTemplate(ctx, *templateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidInput
			}
			return err
		}
		if tpl.ReportType != card.ReportType {
			return validationf("%s", msgReportTypeMismatch)
		}

		switch card.ReportType {
		case model.ReportTypeClassic:
			names, err := partInfoNames(ctx, tx, tpl)
			if err != nil {
				return err
			}
			categories, lines := ClassicLinesFromTemplate(tpl, names)
			if err := tx.Inspections.ReplacePartLines(ctx, card.ID, categories, lines); err != nil {
				return err
			}
		case model.ReportTypeAdvanced:
			categories, lines, cats := AdvancedLinesFromTemplate(tpl, card.Categories)
			if err := tx.Inspections.ReplaceConditionLines(ctx, card.ID, categories, lines); err != nil {
				return err
			}
			card.Categories = cats
		}
		card.InspectionType = DeriveInspectionType(card.Categories)

		reloaded, err := tx.Inspections.GetByID(ctx, card.ID)
		if err != nil {
			return err
		}
		reloaded.Categories = card.Categories
		reloaded.InspectionType = card.InspectionType
		return CheckSpecificInspection(reloaded)
	})
}

func partInfoNames(ctx context.Context, tx *repository.Repositories, tpl *model.InspectionTemplate) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0)
	for _, item := range tpl.Items {
		if item.PartInfoID != nil {
			ids = append(ids, *item.PartInfoID)
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	infos, err := tx.Catalog.PartInfosByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		names[info.ID] = info.Name
	}
	return names, nil
}

// SetReportType drops the template selection since it belongs to the other
// report family.
func (s *InspectionService) SetReportType(ctx context.Context, principal model.Principal, id uuid.UUID, reportType model.ReportType) (*model.InspectionJobCard, error) {
	if reportType != model.ReportTypeAdvanced && reportType != model.ReportTypeClassic {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		card.ReportType = reportType
		card.InspectionTemplateID = nil
		card.InspectionType = model.InspectionTypeSpecific
		return nil
	})
}

func (s *InspectionService) SetCategories(ctx context.Context, principal model.Principal, id uuid.UUID, categories model.InspectionCategories) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		card.Categories = categories
		card.InspectionType = DeriveInspectionType(categories)
		return CheckSpecificInspection(card)
	})
}

func (s *InspectionService) SetPartStatus(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID, status model.PartStatus) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		line, err := tx.Inspections.GetPartLine(ctx, lineID)
		if err != nil {
			return notFound(err)
		}
		if line.InspectionJobCardID != card.ID {
			return ErrNotFound
		}
		if err := line.SetStatus(status); err != nil {
			return validationf("%s", err.Error())
		}
		return tx.Inspections.SavePartLine(ctx, line)
	})
}

func (s *InspectionService) MarkChecklistLine(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID, checked bool) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		line, err := tx.Inspections.GetChecklistLine(ctx, lineID)
		if err != nil {
			return notFound(err)
		}
		if line.InspectionJobCardID == nil || *line.InspectionJobCardID != card.ID {
			return ErrNotFound
		}
		if line.DisplayType.IsMarker() {
			return ErrInvalidInput
		}
		return tx.Inspections.SetChecklistLineChecked(ctx, lineID, checked)
	})
}

type ConditionLineInput struct {
	Category    model.ConditionCategory
	Name        string
	VehicleSide string
	Condition   string
	Notes       string
}

func (s *InspectionService) AddConditionLine(ctx context.Context, principal model.Principal, cardID uuid.UUID, input ConditionLineInput) (*model.InspectionJobCard, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	switch input.Category {
	case model.ConditionInterior, model.ConditionExterior, model.ConditionMechanical,
		model.ConditionComponent, model.ConditionFluid, model.ConditionTyre:
	default:
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		return tx.Inspections.AddConditionLine(ctx, &model.InspectionConditionLine{
			InspectionJobCardID: card.ID,
			Category:            input.Category,
			Name:                strings.TrimSpace(input.Name),
			VehicleSide:         input.VehicleSide,
			Condition:           input.Condition,
			Notes:               input.Notes,
		})
	})
}

func (s *InspectionService) AddSparePart(ctx context.Context, principal model.Principal, cardID uuid.UUID, input SparePartInput) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		line, err := sparePartLine(ctx, tx, input)
		if err != nil {
			return err
		}
		line.InspectionJobCardID = &card.ID
		if err := tx.Inspections.AddSparePart(ctx, &line); err != nil {
			return err
		}
		card.SpareParts = append(card.SpareParts, line)
		ApplyInspectionTotals(card)
		return nil
	})
}

func (s *InspectionService) DeleteSparePart(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		rows, err := tx.Inspections.DeleteSparePart(ctx, card.ID, lineID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		card.SpareParts = removeSparePart(card.SpareParts, lineID)
		ApplyInspectionTotals(card)
		return nil
	})
}

func (s *InspectionService) AddService(ctx context.Context, principal model.Principal, cardID uuid.UUID, input ServiceInput) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		product, err := serviceProduct(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		charge := product.ListPrice
		if input.ServiceCharge != nil {
			charge = *input.ServiceCharge
		}
		line := model.InspectionServiceLine{
			InspectionJobCardID: card.ID,
			ProductID:           &product.ID,
			Name:                product.Name,
			ServiceCharge:       charge,
		}
		if err := tx.Inspections.AddService(ctx, &line); err != nil {
			return err
		}
		card.Services = append(card.Services, line)
		ApplyInspectionTotals(card)
		return nil
	})
}

func (s *InspectionService) DeleteService(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID) (*model.InspectionJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		rows, err := tx.Inspections.DeleteService(ctx, card.ID, lineID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		kept := card.Services[:0]
		for _, line := range card.Services {
			if line.ID != lineID {
				kept = append(kept, line)
			}
		}
		card.Services = kept
		ApplyInspectionTotals(card)
		return nil
	})
}

func removeSparePart(parts []model.SparePartLine, id uuid.UUID) []model.SparePartLine {
	kept := parts[:0]
	for _, p := range parts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

// CreateQuotation sends a new quotation to the customer. The stage does not
// change.
func (s *InspectionService) CreateQuotation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, *Notice, error) {
	return s.quote(ctx, principal, id, false)
}

// SkipQuotation records the quotation as a draft order and moves the card to
// review without contacting the customer.
func (s *InspectionService) SkipQuotation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, *Notice, error) {
	return s.quote(ctx, principal, id, true)
}

func (s *InspectionService) quote(ctx context.Context, principal model.Principal, id uuid.UUID, skip bool) (*model.InspectionJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var (
		notice *Notice
		sent   bool
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Inspections.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.Stage == model.InspectionStageLocked {
			return ErrInvalidStatus
		}
		if card.SaleOrderID != nil {
			return ErrConflict
		}

		productID, err := inspectionProductID(ctx, tx)
		if err != nil {
			return err
		}
		lines, n := BuildInspectionQuotation(card, productID)
		if n != nil {
			notice = n
			return nil
		}

		state := model.SaleOrderStateSent
		if skip {
			state = model.SaleOrderStateDraft
		}
		order, err := createSaleOrder(ctx, tx, saleOrderLink{customerID: card.Customer.CustomerID, inspectionID: &card.ID}, state, lines)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{"sale_order_id": order.ID}
		next := card.Stage
		if skip {
			next = model.InspectionStageInReview
			fields["skip_quotation"] = true
		} else {
			fields["quote_mail_sent"] = true
		}
		if err := tx.Inspections.UpdateStage(ctx, card.ID, next, fields); err != nil {
			return err
		}
		if next != card.Stage {
			if err := recordStage(ctx, tx, model.EntityInspection, card.ID, "skip_quotation", string(card.Stage), string(next), principal); err != nil {
				return err
			}
		}
		sent = !skip
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	card, err := s.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if sent {
		publish(ctx, s.notifier, s.log, inspectionEvent(notify.EventInspectionQuotation, card))
	}
	return card, notice, nil
}

// UpdateQuotation rebuilds the lines of the existing quotation.
func (s *InspectionService) UpdateQuotation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var notice *Notice
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Inspections.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.SaleOrderID == nil {
			return validationf("%s", msgQuotationNotCreated)
		}
		productID, err := inspectionProductID(ctx, tx)
		if err != nil {
			return err
		}
		lines, n := BuildInspectionQuotation(card, productID)
		if n != nil {
			notice = n
			return nil
		}
		if err := tx.SaleOrders.ReplaceLines(ctx, *card.SaleOrderID, lines); err != nil {
			return err
		}
		notice = success(msgQuotationUpdated)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	card, err := s.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if notice != nil && notice.Type == NoticeSuccess {
		publish(ctx, s.notifier, s.log, inspectionEvent(notify.EventInspectionQuotation, card))
	}
	return card, notice, nil
}

// CreateRepairJobCard opens the follow-up repair card with the required
// parts and services of the inspection.
func (s *InspectionService) CreateRepairJobCard(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RepairJobCard, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}

	var repairID uuid.UUID
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Inspections.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !card.Vehicle.HasIdentity() {
			return validationf("%s", msgVehicleIdentity)
		}
		if card.RepairJobCardID != nil {
			return ErrConflict
		}

		number, err := tx.Sequences.Next(ctx, repository.SequenceRepair)
		if err != nil {
			return err
		}
		inspectionID := card.ID
		repair := &model.RepairJobCard{
			Number:              number,
			InspectRepairDate:   card.InspectionDate,
			Stage:               model.RepairStageDraft,
			Vehicle:             card.Vehicle,
			Customer:            card.Customer,
			BookingID:           card.BookingID,
			InspectionJobCardID: &inspectionID,
			InspectionCharge:    card.InspectionCharge,
			UnderWarranty:       card.UnderWarranty,
			CustomerObservation: card.CustomerObservation,
			Odometer:            card.Odometer,
			OdometerUnit:        card.OdometerUnit,
			SaleOrderID:         card.SaleOrderID,
		}
		for _, part := range card.SpareParts {
			repair.SpareParts = append(repair.SpareParts, model.SparePartLine{
				ProductID: part.ProductID,
				Name:      part.Name,
				Quantity:  part.Quantity,
				UnitPrice: part.UnitPrice,
			})
		}
		for _, svc := range card.Services {
			repair.ServiceLines = append(repair.ServiceLines, model.ServiceTeamLine{
				ProductID:     svc.ProductID,
				Name:          svc.Name,
				ServiceCharge: svc.ServiceCharge,
			})
		}
		ApplyRepairTotals(repair)
		if err := tx.Repairs.Create(ctx, repair); err != nil {
			return err
		}
		if card.SaleOrderID != nil {
			if err := tx.SaleOrders.LinkRepairCard(ctx, *card.SaleOrderID, repair.ID); err != nil {
				return err
			}
		}
		repairID = repair.ID
		return tx.Inspections.UpdateStage(ctx, card.ID, card.Stage, map[string]interface{}{"repair_job_card_id": repair.ID})
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Repairs.GetByID(ctx, repairID)
}

// CreateVehicleRegistration adds the card's vehicle to the customer's
// registry and points the card at the new entry.
func (s *InspectionService) CreateVehicleRegistration(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.InspectionJobCard, *Notice, error) {
	var notice *Notice
	card, err := s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.InspectionJobCard) error {
		if card.Vehicle.BrandID == nil || card.Vehicle.ModelID == nil {
			notice = warning(msgRegisterNeedsModel)
			return nil
		}
		if card.Customer.CustomerID == nil {
			return ErrInvalidInput
		}
		reg, err := registerVehicle(ctx, tx, *card.Customer.CustomerID, card.Vehicle)
		if err != nil {
			return err
		}
		card.Vehicle = DeriveVehicleFromRegistered(reg)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return card, notice, nil
}

func (s *InspectionService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsStaff() {
		return ErrPermissionDenied
	}
	card, err := s.repos.Inspections.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	// Locked cards refuse deletion for every staff role.
	if card.Stage == model.InspectionStageLocked {
		return validationf("%s", msgLockedDelete)
	}
	if !(principal.IsAdmin() || principal.IsManager()) {
		return ErrPermissionDenied
	}
	return s.repos.Inspections.Delete(ctx, id)
}

func inspectionEvent(eventType string, card *model.InspectionJobCard) notify.Event {
	return notify.Event{
		Type:          eventType,
		EntityType:    string(model.EntityInspection),
		EntityID:      card.ID,
		Number:        card.Number,
		CustomerID:    card.Customer.CustomerID,
		CustomerEmail: card.Customer.Email,
		SaleOrderID:   card.SaleOrderID,
	}
}
