package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/service"
)

type serviceLineRequest struct {
	ProductID     *uuid.UUID  `json:"product_id"`
	ServiceCharge *float64    `json:"service_charge"`
	TeamID        *uuid.UUID  `json:"team_id"`
	MemberIDs     []uuid.UUID `json:"member_ids"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
}

func (r serviceLineRequest) input() (service.ServiceLineInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.ServiceLineInput{}, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return service.ServiceLineInput{}, err
	}
	return service.ServiceLineInput{
		ProductID:     r.ProductID,
		ServiceCharge: r.ServiceCharge,
		TeamID:        r.TeamID,
		MemberIDs:     r.MemberIDs,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

type teamRequest struct {
	Name    string `json:"name" binding:"required"`
	Members []struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
		Name   string    `json:"name"`
	} `json:"members"`
}

func (h *Handler) listRepairs(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	limit, offset := parsePaging(c)

	cards, err := h.repairs.List(c.Request.Context(), principal, csvQuery[model.RepairStage](c, "stage"), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": cards}))
}

func (h *Handler) getRepair(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, err := h.repairs.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(cardView{Record: card, Actions: h.repairs.Actions(card)}))
}

func (h *Handler) actOnRepair(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req actionRequest
	if !bindJSON(c, &req) {
		return
	}

	card, notice, err := h.repairs.Act(c.Request.Context(), principal, id, service.RepairAction(strings.TrimSpace(req.Action)))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(card, notice))
}

func (h *Handler) repairHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	logs, err := h.repairs.History(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": logs}))
}

func (h *Handler) addServiceLine(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req serviceLineRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	card, err := h.repairs.AddServiceLine(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) updateServiceLine(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}
	var req serviceLineRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	card, err := h.repairs.UpdateServiceLine(c.Request.Context(), principal, id, lineID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) deleteServiceLine(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}

	card, err := h.repairs.DeleteServiceLine(c.Request.Context(), principal, id, lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) addRepairSparePart(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sparePartRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.repairs.AddSparePart(c.Request.Context(), principal, id, req.input())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(card))
}

func (h *Handler) deleteRepairSparePart(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}

	card, err := h.repairs.DeleteSparePart(c.Request.Context(), principal, id, lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) repairTasks(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.repairs.Tasks(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": tasks}))
}

func (h *Handler) completeTask(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.repairs.CompleteTask(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(task))
}

func (h *Handler) applyRepairChecklist(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req templateRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.repairs.ApplyChecklistTemplate(c.Request.Context(), principal, id, req.TemplateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) markRepairChecklist(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lineID, ok := pathID(c, "lineId")
	if !ok {
		return
	}
	var req checklistLineRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.repairs.MarkChecklistLine(c.Request.Context(), principal, id, lineID, req.Checked)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(card))
}

func (h *Handler) createRepairQuotation(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, notice, err := h.repairs.CreateQuotation(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, noticeResponse(card, notice))
}

func (h *Handler) updateRepairQuotation(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	card, notice, err := h.repairs.UpdateQuotation(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeResponse(card, notice))
}

func (h *Handler) updateRepairServiceInfo(c *gin.Context) {
	h.updateServiceInfo(c, model.EntityRepair)
}

func (h *Handler) deleteRepair(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.repairs.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listTeams(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	teams, err := h.repairs.ListTeams(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": teams}))
}

func (h *Handler) createTeam(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req teamRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.TeamInput{Name: req.Name}
	for _, m := range req.Members {
		input.Members = append(input.Members, model.ServiceTeamMember{UserID: m.UserID, Name: m.Name})
	}
	team, err := h.repairs.CreateTeam(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(team))
}
