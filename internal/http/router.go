package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vehicle-repair-service/internal/http/middleware"
	"vehicle-repair-service/internal/metrics"
)

type RouterOptions struct {
	Environment    string
	MetricsEnabled bool
	// Ready reports whether dependencies are reachable; nil means always ready.
	Ready func(*gin.Context) error
}

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, opts RouterOptions) *gin.Engine {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if opts.Ready != nil {
			if err := opts.Ready(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	public := router.Group("/api/v1/public")
	{
		public.GET("/brands", handler.listBrands)
		public.GET("/brands/:id/models", handler.listModels)
		public.GET("/fuel-types", handler.listFuelTypes)
		public.GET("/booking-slots", handler.bookingDay)
	}

	portal := router.Group("/api/v1/portal")
	portal.Use(authMiddleware, middleware.RequireCustomer())
	{
		portal.GET("/bookings", handler.portalBookings)
		portal.GET("/bookings/:token", handler.portalBooking)
		portal.POST("/bookings", handler.portalCreateBooking)
		portal.GET("/vehicles", handler.portalVehicles)
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/bookings", handler.listBookings)
		protected.POST("/bookings", handler.createBooking)
		protected.GET("/bookings/:id", handler.getBooking)
		protected.PUT("/bookings/:id", handler.updateBooking)
		protected.DELETE("/bookings/:id", handler.deleteBooking)
		protected.POST("/bookings/:id/actions", handler.actOnBooking)
		protected.GET("/bookings/:id/history", handler.bookingHistory)

		protected.GET("/appointment-days", handler.listAppointmentDays)
		protected.POST("/appointment-days", handler.createAppointmentDay)
		protected.POST("/appointment-days/:id/slots", handler.addAppointmentSlot)

		protected.GET("/inspections", handler.listInspections)
		protected.GET("/inspections/:id", handler.getInspection)
		protected.PUT("/inspections/:id", handler.updateInspection)
		protected.DELETE("/inspections/:id", handler.deleteInspection)
		protected.POST("/inspections/:id/actions", handler.actOnInspection)
		protected.GET("/inspections/:id/history", handler.inspectionHistory)
		protected.PUT("/inspections/:id/checklist-template", handler.applyInspectionChecklist)
		protected.PUT("/inspections/:id/checklist/:lineId", handler.markInspectionChecklist)
		protected.PUT("/inspections/:id/inspection-template", handler.applyInspectionTemplate)
		protected.PUT("/inspections/:id/report-type", handler.setReportType)
		protected.PUT("/inspections/:id/categories", handler.setInspectionCategories)
		protected.PUT("/inspections/:id/parts/:lineId", handler.setPartStatus)
		protected.POST("/inspections/:id/conditions", handler.addConditionLine)
		protected.POST("/inspections/:id/spare-parts", handler.addInspectionSparePart)
		protected.DELETE("/inspections/:id/spare-parts/:lineId", handler.deleteInspectionSparePart)
		protected.POST("/inspections/:id/services", handler.addInspectionService)
		protected.DELETE("/inspections/:id/services/:lineId", handler.deleteInspectionService)
		protected.POST("/inspections/:id/quotation", handler.createInspectionQuotation)
		protected.PUT("/inspections/:id/quotation", handler.updateInspectionQuotation)
		protected.POST("/inspections/:id/quotation/skip", handler.skipInspectionQuotation)
		protected.POST("/inspections/:id/repair-job-card", handler.createRepairFromInspection)
		protected.POST("/inspections/:id/vehicle-registration", handler.createInspectionVehicleRegistration)
		protected.PUT("/inspections/:id/service-info", handler.updateInspectionServiceInfo)

		protected.GET("/repairs", handler.listRepairs)
		protected.GET("/repairs/:id", handler.getRepair)
		protected.DELETE("/repairs/:id", handler.deleteRepair)
		protected.POST("/repairs/:id/actions", handler.actOnRepair)
		protected.GET("/repairs/:id/history", handler.repairHistory)
		protected.POST("/repairs/:id/service-lines", handler.addServiceLine)
		protected.PUT("/repairs/:id/service-lines/:lineId", handler.updateServiceLine)
		protected.DELETE("/repairs/:id/service-lines/:lineId", handler.deleteServiceLine)
		protected.POST("/repairs/:id/spare-parts", handler.addRepairSparePart)
		protected.DELETE("/repairs/:id/spare-parts/:lineId", handler.deleteRepairSparePart)
		protected.GET("/repairs/:id/tasks", handler.repairTasks)
		protected.PUT("/repairs/:id/checklist-template", handler.applyRepairChecklist)
		protected.PUT("/repairs/:id/checklist/:lineId", handler.markRepairChecklist)
		protected.POST("/repairs/:id/quotation", handler.createRepairQuotation)
		protected.PUT("/repairs/:id/quotation", handler.updateRepairQuotation)
		protected.PUT("/repairs/:id/service-info", handler.updateRepairServiceInfo)
		protected.POST("/tasks/:id/complete", handler.completeTask)

		protected.GET("/teams", handler.listTeams)
		protected.POST("/teams", handler.createTeam)

		protected.POST("/vehicles", handler.registerVehicle)
		protected.GET("/vehicles/:id", handler.getVehicle)
		protected.GET("/vehicles/:id/history", handler.vehicleHistory)
		protected.POST("/vehicles/:id/history", handler.addVehicleHistory)
		protected.GET("/customers/:id/vehicles", handler.customerVehicles)

		protected.GET("/products", handler.listProducts)
		protected.GET("/part-infos", handler.listPartInfos)
		protected.POST("/part-infos", handler.createPartInfo)

		protected.GET("/checklist-templates", handler.listChecklistTemplates)
		protected.POST("/checklist-templates", handler.createChecklistTemplate)
		protected.GET("/checklist-templates/:id", handler.getChecklistTemplate)
		protected.GET("/inspection-templates", handler.listInspectionTemplates)
		protected.POST("/inspection-templates", handler.createInspectionTemplate)
		protected.GET("/inspection-templates/:id", handler.getInspectionTemplate)
	}

	return router
}
