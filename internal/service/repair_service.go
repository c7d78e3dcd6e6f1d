package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/notify"
	"vehicle-repair-service/internal/repository"
)

type RepairAction string

const (
	RepairActionAssign     RepairAction = "draft_to_assign_to_technician"
	RepairActionDiagnose   RepairAction = "assign_to_technician_to_in_diagnosis"
	RepairActionSupervise  RepairAction = "in_diagnosis_to_supervisor_inspection"
	RepairActionReject     RepairAction = "supervisor_inspection_to_reject"
	RepairActionComplete   RepairAction = "reject_to_complete"
	RepairActionHold       RepairAction = "complete_to_hold"
	RepairActionLock       RepairAction = "complete_to_locked"
	RepairActionCancelHold RepairAction = "hold_to_cancel"
)

const (
	msgChooseService       = "Please choose the required service"
	msgAssignTeam          = "In service tab: Please assign a team and team members each listed service"
	msgTeamTasksPending    = "Please complete all team tasks"
	msgServiceDates        = "Kindly verify that the vehicle services end date occurs after the start date"
	msgServiceLineHasTask  = "You cannot delete records with created team tasks."
	msgRepairQuotationZero = "The total value of the sale order cannot be zero. Please ensure all required parts and services are correctly entered."
)

func servicesChosen(card *model.RepairJobCard) *Notice {
	if len(card.ServiceLines) == 0 {
		return warning(msgChooseService)
	}
	return nil
}

func teamsAssigned(card *model.RepairJobCard) *Notice {
	for _, line := range card.ServiceLines {
		if line.TeamID == nil || len(line.Members) == 0 {
			return warning(msgAssignTeam)
		}
	}
	return nil
}

// teamWorkDone treats a line without a task as unfinished.
func teamWorkDone(card *model.RepairJobCard) *Notice {
	for _, line := range card.ServiceLines {
		if line.Task == nil || !line.Task.WorkIsDone {
			return warning(msgTeamTasksPending)
		}
	}
	return nil
}

func repairChecklistDone(card *model.RepairJobCard) *Notice {
	return checklistDone(card.ChecklistLines)
}

var repairFlow = NewWorkflow(model.EntityRepair, map[string]Transition[model.RepairStage, *model.RepairJobCard]{
	string(RepairActionAssign): {
		From:   []model.RepairStage{model.RepairStageDraft},
		To:     model.RepairStageAssignToTechnician,
		Guards: []Guard[*model.RepairJobCard]{servicesChosen, teamsAssigned},
	},
	string(RepairActionDiagnose): {
		From: []model.RepairStage{model.RepairStageAssignToTechnician},
		To:   model.RepairStageInDiagnosis,
	},
	string(RepairActionSupervise): {
		From:   []model.RepairStage{model.RepairStageInDiagnosis},
		To:     model.RepairStageSupervisorInspection,
		Guards: []Guard[*model.RepairJobCard]{teamWorkDone},
	},
	string(RepairActionReject): {
		From: []model.RepairStage{model.RepairStageSupervisorInspection},
		To:   model.RepairStageReject,
	},
	string(RepairActionComplete): {
		From:   []model.RepairStage{model.RepairStageReject},
		To:     model.RepairStageComplete,
		Guards: []Guard[*model.RepairJobCard]{repairChecklistDone},
	},
	string(RepairActionHold): {
		From: []model.RepairStage{model.RepairStageComplete},
		To:   model.RepairStageHold,
	},
	string(RepairActionLock): {
		From: []model.RepairStage{model.RepairStageComplete},
		To:   model.RepairStageLocked,
	},
	string(RepairActionCancelHold): {
		From: []model.RepairStage{model.RepairStageHold},
		To:   model.RepairStageCancel,
	},
})

type ServiceLineInput struct {
	ProductID     *uuid.UUID
	ServiceCharge *float64
	TeamID        *uuid.UUID
	MemberIDs     []uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

type TeamInput struct {
	Name    string
	Members []model.ServiceTeamMember
}

type RepairService struct {
	repos    *repository.Repositories
	notifier notify.Notifier
	log      zerolog.Logger
	location *time.Location
	now      func() time.Time
}

func NewRepairService(repos *repository.Repositories, notifier notify.Notifier, location *time.Location, log zerolog.Logger) *RepairService {
	if location == nil {
		location = time.UTC
	}
	return &RepairService{repos: repos, notifier: notifier, log: log, location: location, now: time.Now}
}

func (s *RepairService) today() time.Time {
	return s.now().In(s.location)
}

func (s *RepairService) List(ctx context.Context, principal model.Principal, stages []model.RepairStage, limit, offset int) ([]model.RepairJobCard, error) {
	filter := repository.RepairFilter{Stages: stages, Limit: limit, Offset: offset}
	if principal.IsCustomer() {
		if principal.CustomerID == nil {
			return nil, ErrPermissionDenied
		}
		filter.CustomerID = principal.CustomerID
	} else if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Repairs.List(ctx, filter)
}

func (s *RepairService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RepairJobCard, error) {
	card, err := s.repos.Repairs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !canSeeCustomerRecord(principal, card.Customer.CustomerID) {
		return nil, ErrNotFound
	}
	return card, nil
}

func (s *RepairService) mutate(ctx context.Context, principal model.Principal, id uuid.UUID, fn func(tx *repository.Repositories, card *model.RepairJobCard) error) (*model.RepairJobCard, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Repairs.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.Stage == model.RepairStageLocked {
			return ErrInvalidStatus
		}
		if err := fn(tx, card); err != nil {
			return err
		}
		return tx.Repairs.Save(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Repairs.GetByID(ctx, id)
}

// Act runs one stage action; completion notifies after commit.
func (s *RepairService) Act(ctx context.Context, principal model.Principal, id uuid.UUID, action RepairAction) (*model.RepairJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var (
		notice    *Notice
		completed bool
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Repairs.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}

		next, n, err := repairFlow.Next(string(action), card.Stage, card)
		if err != nil {
			return err
		}
		if n != nil {
			notice = n
			return nil
		}

		switch action {
		case RepairActionDiagnose:
			if err := s.createTasks(ctx, tx, card); err != nil {
				return err
			}
		case RepairActionReject:
			taskIDs := make([]uuid.UUID, 0, len(card.ServiceLines))
			for _, line := range card.ServiceLines {
				if line.TaskID != nil {
					taskIDs = append(taskIDs, *line.TaskID)
				}
			}
			if err := tx.Tasks.ResetWorkDone(ctx, taskIDs); err != nil {
				return err
			}
			if err := tx.Repairs.ClearServiceLineEndDates(ctx, card.ID); err != nil {
				return err
			}
		case RepairActionComplete:
			completed = true
		}

		if err := tx.Repairs.UpdateStage(ctx, card.ID, next); err != nil {
			return err
		}
		return recordStage(ctx, tx, model.EntityRepair, card.ID, string(action), string(card.Stage), string(next), principal)
	})
	if err != nil {
		return nil, nil, err
	}

	card, err := s.repos.Repairs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if completed {
		publish(ctx, s.notifier, s.log, repairEvent(notify.EventRepairCompleted, card))
	}
	return card, notice, nil
}

// createTasks opens one project task per service line that has none yet.
func (s *RepairService) createTasks(ctx context.Context, tx *repository.Repositories, card *model.RepairJobCard) error {
	assigned := model.NewDate(s.today())
	for _, line := range card.ServiceLines {
		if line.TaskID != nil {
			continue
		}
		cardID, lineID := card.ID, line.ID
		task := &model.ProjectTask{
			Name:              line.Name,
			CustomerID:        card.Customer.CustomerID,
			RepairJobCardID:   &cardID,
			ServiceTeamLineID: &lineID,
			Deadline:          line.EndDate,
			DateAssign:        assigned,
		}
		for _, member := range line.Members {
			task.Assignees = append(task.Assignees, model.ProjectTaskAssignee{UserID: member.UserID})
		}
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}
		if err := tx.Repairs.SetServiceLineTask(ctx, line.ID, task.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *RepairService) Actions(card *model.RepairJobCard) []string {
	return repairFlow.Actions(card.Stage)
}

func (s *RepairService) History(ctx context.Context, principal model.Principal, id uuid.UUID) ([]model.StageLog, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.StageLogs.List(ctx, model.EntityRepair, id)
}

func validateServiceDates(start, end *time.Time) error {
	if start != nil && end != nil && time.Time(model.NewDate(*end)).Before(time.Time(model.NewDate(*start))) {
		return validationf("%s", msgServiceDates)
	}
	return nil
}

func (s *RepairService) AddServiceLine(ctx context.Context, principal model.Principal, cardID uuid.UUID, input ServiceLineInput) (*model.RepairJobCard, error) {
	if input.ProductID == nil {
		return nil, ErrInvalidInput
	}
	if err := validateServiceDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		product, err := serviceProduct(ctx, tx, *input.ProductID)
		if err != nil {
			return err
		}
		line := model.ServiceTeamLine{
			RepairJobCardID: card.ID,
			ProductID:       &product.ID,
			Name:            product.Name,
			ServiceCharge:   product.ListPrice,
		}
		if input.ServiceCharge != nil {
			line.ServiceCharge = *input.ServiceCharge
		}
		if err := s.applyLineInput(ctx, tx, &line, input); err != nil {
			return err
		}
		if err := tx.Repairs.AddServiceLine(ctx, &line); err != nil {
			return err
		}
		card.ServiceLines = append(card.ServiceLines, line)
		ApplyRepairTotals(card)
		return nil
	})
}

// UpdateServiceLine changes team, members, dates and charge of a line.
// Switching to another team without naming members clears them.
func (s *RepairService) UpdateServiceLine(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID, input ServiceLineInput) (*model.RepairJobCard, error) {
	if err := validateServiceDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		line, err := tx.Repairs.GetServiceLine(ctx, lineID)
		if err != nil {
			return notFound(err)
		}
		if line.RepairJobCardID != card.ID {
			return ErrNotFound
		}
		teamChanged := !sameID(line.TeamID, input.TeamID)
		if input.ServiceCharge != nil {
			line.ServiceCharge = *input.ServiceCharge
		}
		if input.MemberIDs == nil && teamChanged {
			input.MemberIDs = []uuid.UUID{}
		}
		if err := s.applyLineInput(ctx, tx, line, input); err != nil {
			return err
		}
		line.Task = nil
		if err := tx.Repairs.SaveServiceLine(ctx, line, input.MemberIDs); err != nil {
			return err
		}
		for i := range card.ServiceLines {
			if card.ServiceLines[i].ID == line.ID {
				card.ServiceLines[i].ServiceCharge = line.ServiceCharge
			}
		}
		ApplyRepairTotals(card)
		return nil
	})
}

// applyLineInput sets team, dates and, for new lines, members. Members must
// belong to the chosen team.
func (s *RepairService) applyLineInput(ctx context.Context, tx *repository.Repositories, line *model.ServiceTeamLine, input ServiceLineInput) error {
	line.TeamID = input.TeamID
	line.StartDate = nil
	line.EndDate = nil
	if input.StartDate != nil {
		line.StartDate = model.DatePtr(*input.StartDate)
	}
	if input.EndDate != nil {
		line.EndDate = model.DatePtr(*input.EndDate)
	}

	members := uniqueIDs(input.MemberIDs)
	if len(members) == 0 {
		if line.ID == uuid.Nil {
			line.Members = nil
		}
		return nil
	}
	if input.TeamID == nil {
		return ErrInvalidInput
	}
	team, err := tx.Repairs.GetTeam(ctx, *input.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidInput
		}
		return err
	}
	known := make([]uuid.UUID, 0, len(team.Members))
	for _, m := range team.Members {
		known = append(known, m.UserID)
	}
	for _, id := range members {
		if !slices.Contains(known, id) {
			return ErrInvalidInput
		}
	}
	if line.ID == uuid.Nil {
		line.Members = make([]model.ServiceTeamLineMember, 0, len(members))
		for _, id := range members {
			line.Members = append(line.Members, model.ServiceTeamLineMember{UserID: id})
		}
	}
	return nil
}

func (s *RepairService) DeleteServiceLine(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID) (*model.RepairJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		line, err := tx.Repairs.GetServiceLine(ctx, lineID)
		if err != nil {
			return notFound(err)
		}
		if line.RepairJobCardID != card.ID {
			return ErrNotFound
		}
		if line.TaskID != nil {
			return validationf("%s", msgServiceLineHasTask)
		}
		if err := tx.Repairs.DeleteServiceLine(ctx, lineID); err != nil {
			return err
		}
		kept := card.ServiceLines[:0]
		for _, l := range card.ServiceLines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		card.ServiceLines = kept
		ApplyRepairTotals(card)
		return nil
	})
}

func (s *RepairService) AddSparePart(ctx context.Context, principal model.Principal, cardID uuid.UUID, input SparePartInput) (*model.RepairJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		line, err := sparePartLine(ctx, tx, input)
		if err != nil {
			return err
		}
		line.RepairJobCardID = &card.ID
		if err := tx.Repairs.AddSparePart(ctx, &line); err != nil {
			return err
		}
		card.SpareParts = append(card.SpareParts, line)
		ApplyRepairTotals(card)
		return nil
	})
}

func (s *RepairService) DeleteSparePart(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID) (*model.RepairJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		rows, err := tx.Repairs.DeleteSparePart(ctx, card.ID, lineID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		card.SpareParts = removeSparePart(card.SpareParts, lineID)
		ApplyRepairTotals(card)
		return nil
	})
}

// CompleteTask marks a team task as done and closes its service line today
// when no end date was planned.
func (s *RepairService) CompleteTask(ctx context.Context, principal model.Principal, taskID uuid.UUID) (*model.ProjectTask, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return notFound(err)
		}
		if principal.IsTechnician() && !taskAssignedTo(task, principal.UserID) {
			return ErrPermissionDenied
		}
		if err := tx.Tasks.SetWorkDone(ctx, task.ID, true); err != nil {
			return err
		}
		if task.ServiceTeamLineID == nil {
			return nil
		}
		line, err := tx.Repairs.GetServiceLine(ctx, *task.ServiceTeamLineID)
		if err != nil {
			return notFound(err)
		}
		if line.EndDate != nil {
			return nil
		}
		line.EndDate = model.DatePtr(s.today())
		line.Task = nil
		return tx.Repairs.SaveServiceLine(ctx, line, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Tasks.GetByID(ctx, taskID)
}

func (s *RepairService) Tasks(ctx context.Context, principal model.Principal, cardID uuid.UUID) ([]model.ProjectTask, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Tasks.ListByRepairCard(ctx, cardID)
}

func taskAssignedTo(task *model.ProjectTask, userID uuid.UUID) bool {
	for _, a := range task.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

func (s *RepairService) ApplyChecklistTemplate(ctx context.Context, principal model.Principal, id uuid.UUID, templateID *uuid.UUID) (*model.RepairJobCard, error) {
	return s.mutate(ctx, principal, id, func(tx *repository.Repositories, card *model.RepairJobCard) error {
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
		return tx.Repairs.ReplaceChecklist(ctx, card.ID, ChecklistFromTemplate(tpl))
	})
}

func (s *RepairService) MarkChecklistLine(ctx context.Context, principal model.Principal, cardID, lineID uuid.UUID, checked bool) (*model.RepairJobCard, error) {
	return s.mutate(ctx, principal, cardID, func(tx *repository.Repositories, card *model.RepairJobCard) error {
		line, err := tx.Repairs.GetChecklistLine(ctx, card.ID, lineID)
		if err != nil {
			return notFound(err)
		}
		if line.DisplayType.IsMarker() {
			return ErrInvalidInput
		}
		return tx.Repairs.SetChecklistLineChecked(ctx, line.ID, checked)
	})
}

// CreateQuotation sends the repair quotation. A card carried over from an
// inspection that already has an order rejects it.
func (s *RepairService) CreateQuotation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RepairJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var (
		notice *Notice
		sent   bool
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Repairs.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.Stage == model.RepairStageLocked {
			return ErrInvalidStatus
		}
		if card.SaleOrderID != nil {
			return ErrConflict
		}
		lines, n, err := s.repairLines(ctx, tx, card)
		if err != nil {
			return err
		}
		if n != nil {
			notice = n
			return nil
		}
		order, err := createSaleOrder(ctx, tx, saleOrderLink{customerID: card.Customer.CustomerID, repairID: &card.ID}, model.SaleOrderStateSent, lines)
		if err != nil {
			return err
		}
		card.SaleOrderID = &order.ID
		sent = true
		return tx.Repairs.Save(ctx, card)
	})
	if err != nil {
		return nil, nil, err
	}

	card, err := s.repos.Repairs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if sent {
		publish(ctx, s.notifier, s.log, repairEvent(notify.EventRepairQuotation, card))
	}
	return card, notice, nil
}

func (s *RepairService) UpdateQuotation(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RepairJobCard, *Notice, error) {
	if !principal.IsStaff() {
		return nil, nil, ErrPermissionDenied
	}

	var notice *Notice
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		card, err := tx.Repairs.GetByID(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if card.SaleOrderID == nil {
			return validationf("%s", msgQuotationNotCreated)
		}
		lines, n, err := s.repairLines(ctx, tx, card)
		if err != nil {
			return err
		}
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

	card, err := s.repos.Repairs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err)
	}
	if notice != nil && notice.Type == NoticeSuccess {
		publish(ctx, s.notifier, s.log, repairEvent(notify.EventRepairQuotation, card))
	}
	return card, notice, nil
}

// repairLines builds the quotation with the origin card's charge when the
// repair came from an inspection.
func (s *RepairService) repairLines(ctx context.Context, tx *repository.Repositories, card *model.RepairJobCard) ([]model.SaleOrderLine, *Notice, error) {
	if card.InspectionJobCardID != nil {
		origin, err := tx.Inspections.GetByID(ctx, *card.InspectionJobCardID)
		switch {
		case err == nil:
			card.InspectionCharge = origin.InspectionCharge
		case errors.Is(err, gorm.ErrRecordNotFound):
			card.InspectionJobCardID = nil
		default:
			return nil, nil, err
		}
	}
	productID, err := inspectionProductID(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	lines, notice := BuildRepairQuotation(card, productID)
	if notice != nil {
		return nil, notice, nil
	}
	if len(lines) == 0 {
		return nil, warning(msgRepairQuotationZero), nil
	}
	return lines, nil, nil
}

func (s *RepairService) CreateTeam(ctx context.Context, principal model.Principal, input TeamInput) (*model.ServiceTeam, error) {
	if !(principal.IsAdmin() || principal.IsManager()) {
		return nil, ErrPermissionDenied
	}
	if input.Name == "" {
		return nil, ErrInvalidInput
	}
	team := &model.ServiceTeam{Name: input.Name}
	for _, m := range input.Members {
		team.Members = append(team.Members, model.ServiceTeamMember{UserID: m.UserID, Name: m.Name})
	}
	if err := s.repos.Repairs.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return s.repos.Repairs.GetTeam(ctx, team.ID)
}

func (s *RepairService) ListTeams(ctx context.Context, principal model.Principal) ([]model.ServiceTeam, error) {
	if !principal.IsStaff() {
		return nil, ErrPermissionDenied
	}
	return s.repos.Repairs.ListTeams(ctx)
}

func (s *RepairService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsStaff() {
		return ErrPermissionDenied
	}
	card, err := s.repos.Repairs.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	// Locked cards refuse deletion for every staff role.
	if card.Stage == model.RepairStageLocked {
		return validationf("%s", msgLockedDelete)
	}
	if !(principal.IsAdmin() || principal.IsManager()) {
		return ErrPermissionDenied
	}
	return s.repos.Repairs.Delete(ctx, id)
}

func repairEvent(eventType string, card *model.RepairJobCard) notify.Event {
	return notify.Event{
		Type:          eventType,
		EntityType:    string(model.EntityRepair),
		EntityID:      card.ID,
		Number:        card.Number,
		CustomerID:    card.Customer.CustomerID,
		CustomerEmail: card.Customer.Email,
		SaleOrderID:   card.SaleOrderID,
	}
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
