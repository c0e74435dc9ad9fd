package main

import (
	"fmt"
	"log"
	"os"

	"pawtrack-backend/config"
	"pawtrack-backend/controllers"
	"pawtrack-backend/models"
	"pawtrack-backend/routes"
	"pawtrack-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Client{},
		&models.Pet{},
		&models.Staff{},
		&models.ServiceType{},
		&models.BillingPlan{},
		&models.Appointment{},
		&models.Invoice{},
		&models.Paysheet{},
		&models.PaysheetLine{},
		&models.DeliveryLog{},
	)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	registry := services.NewRegistry(config.DB, services.SystemClock{}, services.NewEnvNotifier(logger), logger)
	controllers.Init(registry)

	registry.Scheduler.Start()
	defer registry.Scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
