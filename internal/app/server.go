package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/handlers"
	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/payment"
	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

func NewServer(cfg Config) (*gin.Engine, func(), error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, nil, err
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	pay := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentAPIKey)
	email := service.NewEmailSender()

	inventory := service.NewInventoryService(db, cfg.PublicBaseURL, cfg.InventoryThreshold)
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db, pay, inventory, email, cfg.PublicBaseURL)
	auth := service.NewAuthService(db, email)
	activation := service.NewActivationService(db, auth, cfg.PublicBaseURL, cfg.OperatorEmail)
	dashboard := service.NewDashboardService(db)
	admin := service.NewAdminService(db, inventory)

	r := Router(cfg, RouterDeps{
		Catalog:    catalog,
		Orders:     orders,
		Auth:       auth,
		Activation: activation,
		Dashboard:  dashboard,
		Admin:      admin,
		Inventory:  inventory,
	})

	cleanup := func() {
		if s, err := db.DB(); err == nil {
			_ = s.Close()
		}
	}
	return r, cleanup, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.User{},
		&model.SuperAdmin{},
		&model.Order{},
		&model.OrderItem{},
		&model.ShippingInfo{},
		&model.QRCode{},
		&model.Link{},
	)
}

type RouterDeps struct {
	Catalog    service.CatalogService
	Orders     service.OrderService
	Auth       service.AuthService
	Activation service.ActivationService
	Dashboard  service.DashboardService
	Admin      service.AdminService
	Inventory  service.InventoryService
}

// Router wires all routes; split out from NewServer so handler tests can run
// against an in-memory DB without touching postgres.
func Router(cfg Config, deps RouterDeps) *gin.Engine {
	r := gin.Default()

	catalogH := handlers.NewCatalogHTTP(deps.Catalog)
	orderH := handlers.NewOrderHTTP(deps.Orders)
	authH := handlers.NewAuthHTTP(deps.Auth)
	qrH := handlers.NewQRHTTP(deps.Activation)
	dashH := handlers.NewDashboardHTTP(deps.Dashboard)
	adminH := handlers.NewAdminHTTP(deps.Admin, deps.Inventory, deps.Catalog)

	authMW := handlers.AuthRequired(deps.Auth)
	adminMW := handlers.AdminRequired(deps.Admin)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// public plaque redirect — what the printed QR codes hit
	r.GET("/qr/:code", qrH.Redirect)

	api := r.Group("/api")
	{
		api.GET("/products", catalogH.List)
		api.GET("/products/:id", catalogH.Get)

		api.POST("/orders", orderH.Create)
		api.GET("/orders/:id/status", orderH.Status)
		api.POST("/webhooks/payment", orderH.Webhook)

		api.GET("/qr/:code", qrH.Describe)
		api.POST("/qr/activate", qrH.Activate)

		api.POST("/auth/register", authH.Register)
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", authH.Logout)
		api.GET("/auth/me", authMW, authH.Me)
		api.POST("/auth/forgot-password", authH.ForgotPassword)
		api.POST("/auth/reset-password", authH.ResetPassword)

		api.GET("/dashboard/codes", authMW, dashH.Codes)
		api.PUT("/links/:id", authMW, dashH.UpdateLink)
	}

	ad := r.Group("/api/admin")
	{
		ad.POST("/login", adminH.Login)
		ad.POST("/logout", adminH.Logout)

		ad.GET("/stats", adminMW, adminH.Stats)
		ad.GET("/orders", adminMW, adminH.ListOrders)
		ad.GET("/orders/:id", adminMW, adminH.GetOrder)
		ad.PUT("/orders/:id/shipping", adminMW, adminH.UpdateShipping)

		ad.GET("/qrcodes", adminMW, adminH.ListCodes)
		ad.POST("/qrcodes/generate", adminMW, adminH.GenerateCodes)
		ad.GET("/qrcodes/health", adminMW, adminH.InventoryHealth)

		ad.POST("/products", adminMW, adminH.CreateProduct)
		ad.PUT("/products/:id", adminMW, adminH.UpdateProduct)
	}

	return r
}
