package routes

import (
	"os"
	"strings"

	"pawtrack-backend/config"
	"pawtrack-backend/controllers"
	"pawtrack-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.POST("/:id/pets", controllers.AddPet)
			clients.POST("/:id/reset-invoiced", utils.AdminOnly(), controllers.ResetClientInvoiced)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.POST("", utils.AdminOnly(), controllers.CreateStaff)
			staff.GET("", controllers.GetStaff)
			staff.PUT("/:id", utils.AdminOnly(), controllers.UpdateStaff)
		}

		// Service type (rate table) routes
		serviceTypes := api.Group("/service-types")
		{
			serviceTypes.POST("", utils.AdminOnly(), controllers.CreateServiceType)
			serviceTypes.GET("", controllers.GetServiceTypes)
			serviceTypes.GET("/:id", controllers.GetServiceType)
			serviceTypes.PUT("/:id", utils.AdminOnly(), controllers.UpdateServiceType)
		}

		// Billing plan routes
		plans := api.Group("/billing-plans")
		{
			plans.POST("", utils.AdminOnly(), controllers.CreateBillingPlan)
			plans.GET("", controllers.GetBillingPlans)
			plans.GET("/:id", controllers.GetBillingPlan)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.POST("/:id/complete", controllers.CompleteAppointment)
			appointments.POST("/:id/cancel", controllers.CancelAppointment)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("/generate", utils.AdminOnly(), controllers.GenerateInvoice)
			invoices.POST("/manual", utils.AdminOnly(), controllers.GenerateManualInvoice)
			invoices.POST("/auto-generate", utils.AdminOnly(), controllers.AutoGenerateInvoices)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.POST("/:id/approve", utils.AdminOnly(), controllers.ApproveInvoice)
			invoices.POST("/:id/send-email", utils.AdminOnly(), controllers.SendInvoiceEmail)
			invoices.POST("/:id/send-sms", utils.AdminOnly(), controllers.SendInvoiceSMS)
			invoices.POST("/mass-send", utils.AdminOnly(), controllers.MassSendInvoices)
			invoices.POST("/:id/mark-paid", utils.AdminOnly(), controllers.MarkInvoicePaid)
			invoices.DELETE("/:id", utils.AdminOnly(), controllers.DeleteInvoice)
		}

		// Paysheet routes
		paysheets := api.Group("/paysheets")
		{
			paysheets.GET("/draft", controllers.GetPaysheetDraft)
			paysheets.POST("", controllers.SubmitPaysheet)
			paysheets.GET("", controllers.GetPaysheets)
			paysheets.GET("/:id", controllers.GetPaysheet)
			paysheets.POST("/:id/approve", utils.AdminOnly(), controllers.ApprovePaysheet)
			paysheets.POST("/:id/mark-paid", utils.AdminOnly(), controllers.MarkPaysheetPaid)
		}

		// Report routes
		reports := api.Group("/reports")
		{
			reports.GET("/aging", controllers.GetAgingReport)
			reports.GET("/1099", utils.AdminOnly(), controllers.Get1099Report)
			reports.GET("/1099/:staffId", utils.AdminOnly(), controllers.Get1099StaffDetail)
		}

		api.GET("/delivery-logs", controllers.GetDeliveryLogs)
	}

	return r
}
