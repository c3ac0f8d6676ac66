package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// Options carries what the router needs besides the database.
type Options struct {
	Hub          *kds.Hub
	Publisher    kds.Publisher
	AllowOrigins []string
	RateLimiter  *middlewares.RateLimiter
}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	utils.SetupValidator()

	if opts.Hub == nil {
		opts.Hub = kds.NewHub()
	}
	if opts.Publisher == nil {
		opts.Publisher = opts.Hub
	}
	if opts.RateLimiter == nil {
		opts.RateLimiter = middlewares.NewRateLimiter(50, 100*time.Millisecond)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.AllowOrigins))
	r.Use(opts.RateLimiter.RateLimit())

	orderService := services.NewOrderService(db, opts.Publisher)

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(orderService)
	customerCtrl := controllers.NewCustomerController(db)
	deliveryCtrl := controllers.NewDeliveryPersonController(db)
	printerCtrl := controllers.NewPrinterController(db)
	configCtrl := controllers.NewConfigurationController(db)
	reportCtrl := controllers.NewReportController(db)
	menuCtrl := controllers.NewMenuItemController(db)
	kdsCtrl := controllers.NewKDSController(opts.Hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.POST("/login", middlewares.NewLoginRateLimiter().RateLimit(), userCtrl.Login)

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), kdsCtrl.KDSHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	staff := middlewares.RequireRole(models.RoleStaff)
	adminOnly := middlewares.RequireRole()

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// USERS (admin)
	auth.GET("/users", adminOnly, userCtrl.GetAllUsers)
	auth.POST("/users", adminOnly, userCtrl.Register)
	auth.PUT("/users/:id", adminOnly, userCtrl.UpdateUser)
	auth.DELETE("/users/:id", adminOnly, userCtrl.DeleteUser)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/filter", orderCtrl.GetOrdersByFilter)
	auth.GET("/orders/:id", orderCtrl.GetOrderByID)
	auth.GET("/orders/:id/summary", orderCtrl.GetOrderSummary)
	auth.POST("/orders", staff, orderCtrl.CreateOrder)
	auth.PUT("/orders/:id", staff, orderCtrl.UpdateOrder)
	auth.DELETE("/orders/:id", adminOnly, orderCtrl.DeleteOrder)
	auth.PUT("/orders/:id/payment", staff, orderCtrl.UpdatePayment)

	// Lifecycle
	auth.POST("/orders/:id/send-to-kitchen", staff, orderCtrl.Transition(services.ActionSendToKitchen))
	auth.POST("/orders/:id/ready", middlewares.RequireRole(models.RoleKitchen, models.RoleStaff), orderCtrl.Transition(services.ActionReady))
	auth.POST("/orders/:id/assign", staff, orderCtrl.Transition(services.ActionAssign))
	auth.POST("/orders/:id/deliver", middlewares.RequireRole(models.RoleDelivery, models.RoleStaff), orderCtrl.Transition(services.ActionDeliver))
	auth.POST("/orders/:id/complete", staff, orderCtrl.Transition(services.ActionComplete))
	auth.POST("/orders/:id/cancel", staff, orderCtrl.Transition(services.ActionCancel))

	// CUSTOMERS
	auth.GET("/customers", customerCtrl.GetAllCustomers)
	auth.GET("/customers/phone/:phone", customerCtrl.GetCustomerByPhone)
	auth.GET("/customers/search", customerCtrl.GetCustomersByPhone)
	auth.POST("/customers", staff, customerCtrl.CreateCustomer)
	auth.POST("/customers/import", adminOnly, customerCtrl.ImportCustomers)
	auth.PUT("/customers/:id", staff, customerCtrl.UpdateCustomer)
	auth.DELETE("/customers/:id", adminOnly, customerCtrl.DeleteCustomer)

	// DELIVERY PERSONS
	auth.GET("/delivery-persons", deliveryCtrl.GetDeliveryPersons)
	auth.GET("/delivery-persons/:id/stats", deliveryCtrl.GetDeliveryPersonStats)
	auth.POST("/delivery-persons", adminOnly, deliveryCtrl.CreateDeliveryPerson)
	auth.PUT("/delivery-persons/:id", adminOnly, deliveryCtrl.UpdateDeliveryPerson)
	auth.DELETE("/delivery-persons/:id", adminOnly, deliveryCtrl.DeleteDeliveryPerson)

	// CONFIGURATION & PRINTERS
	auth.GET("/configurations", configCtrl.GetConfigurations)
	auth.POST("/configurations", adminOnly, configCtrl.CreateConfigurations)
	auth.PUT("/configurations", adminOnly, configCtrl.UpdateConfigurations)
	auth.GET("/printers", printerCtrl.GetPrinters)
	auth.POST("/printers", adminOnly, printerCtrl.CreatePrinter)
	auth.PUT("/printers/:id", adminOnly, printerCtrl.UpdatePrinter)
	auth.DELETE("/printers/:id", adminOnly, printerCtrl.DeletePrinter)

	// MENU
	auth.GET("/menu-items", menuCtrl.GetMenuItemsByName)
	auth.POST("/menu-items", adminOnly, menuCtrl.CreateMenuItem)

	// REPORTS (admin)
	auth.GET("/reports/analytics", adminOnly, reportCtrl.GetOrderAnalytics)
	auth.GET("/reports/analytics/pdf", adminOnly, reportCtrl.GetOrderAnalyticsPDF)

	return r
}
