package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/controllers"
	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	manager := lifecycle.NewManager(lifecycle.NewGormStore(db))

	userCtrl := controllers.NewUserController(db)
	productCtrl := controllers.NewProductController(db)
	orderCtrl := controllers.NewOrderController(db)
	transitionCtrl := controllers.NewTransitionController(manager)
	adminCtrl := controllers.NewAdminController(db)
	ticketCtrl := controllers.NewTicketController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	// Guided selector catalog
	r.GET("/products", productCtrl.GetAllProducts)

	// Placing and checking an order
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/users", userCtrl.GetAllUsers)

	// PRODUCTS (admin manages the catalog)
	products := auth.Group("/products")
	products.Use(middlewares.RequireRoles())
	{
		products.POST("", productCtrl.CreateProduct)
		products.PATCH("/:product_id", productCtrl.UpdateProduct)
		products.DELETE("/:product_id", productCtrl.DeleteProduct)
	}

	// ORDERS (every staff role, listing filtered per role)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// LIFECYCLE TRANSITIONS -- role checks happen inside the lifecycle
	// manager, not here, so the policy cannot be bypassed per route.
	auth.PUT("/orders/:order_id/payment", transitionCtrl.MarkPaid)
	auth.PUT("/orders/:order_id/preparing", transitionCtrl.MarkPreparing)
	auth.PUT("/orders/:order_id/ready", transitionCtrl.MarkReady)
	auth.PUT("/orders/:order_id/delivered", transitionCtrl.MarkDelivered)
	auth.PUT("/orders/:order_id/status", transitionCtrl.UpdateStatus)

	// TICKETS (cashier prints after payment)
	auth.POST("/orders/:order_id/ticket",
		middlewares.RequireRoles(lifecycle.RoleStaff), ticketCtrl.GenerateTicket)

	// DASHBOARD
	auth.GET("/dashboard", adminCtrl.GetDashboardStats)
	auth.GET("/reports/sales-chart",
		middlewares.RequireRoles(), adminCtrl.GetSalesChart)

	// WebSocket endpoint for live dashboards
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/dashboard", controllers.DashboardSocketHandler)
	}

	return r
}
