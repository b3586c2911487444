package router

import (
	acctsvc "unithrift-backend/internal/application/accounts"
	analyticssvc "unithrift-backend/internal/application/analytics"
	"unithrift-backend/internal/application/emails"
	healthsvc "unithrift-backend/internal/application/health"
	histsvc "unithrift-backend/internal/application/history"
	itemsvc "unithrift-backend/internal/application/items"
	listsvc "unithrift-backend/internal/application/listings"
	queuesvc "unithrift-backend/internal/application/queueing"
	smssvc "unithrift-backend/internal/application/sms"
	"unithrift-backend/internal/application/tokens"
	unisvc "unithrift-backend/internal/application/universities"
	uploadsvc "unithrift-backend/internal/application/uploads"
	"unithrift-backend/internal/config"
	"unithrift-backend/internal/infrastructure/database"
	adminhandler "unithrift-backend/internal/interfaces/handlers/admin"
	commonhandler "unithrift-backend/internal/interfaces/handlers/common"
	histhandler "unithrift-backend/internal/interfaces/handlers/history"
	listhandler "unithrift-backend/internal/interfaces/handlers/listings"
	queuehandler "unithrift-backend/internal/interfaces/handlers/queueing"
	studenthandler "unithrift-backend/internal/interfaces/handlers/students"
	"unithrift-backend/internal/middleware"
	"unithrift-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp wires config, stores, services and routes into a Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(redisOpts)

	tokenSvc := &tokens.Service{Secret: cfg.JWTSecret, Rdb: rdb}
	var mailSender emails.Sender
	if cfg.SendgridAPIKey != "" {
		mailSender = &emails.SendgridSender{APIKey: cfg.SendgridAPIKey, From: cfg.MailFrom}
	} else {
		mailSender = emails.NoopSender{}
	}
	var smsSender smssvc.Sender
	if cfg.TwilioAccountSID != "" {
		smsSender = &smssvc.TwilioSender{
			AccountSID:   cfg.TwilioAccountSID,
			AuthToken:    cfg.TwilioAuthToken,
			MessagingSID: cfg.TwilioMessagingSID,
		}
	}

	uploadClient := &uploadsvc.Client{
		BaseURL:    cfg.StorageURL,
		Bucket:     cfg.StorageBucket,
		SecretKey:  cfg.StorageSecretKey,
		ExpirySecs: cfg.PresignedExpirySecs,
	}

	accountSvc := &acctsvc.Service{DB: db, Tokens: tokenSvc, Emails: mailSender}
	queueSvc := &queuesvc.Service{DB: db, Notifier: &smssvc.SellerNotifier{DB: db, Sender: smsSender}}
	listingSvc := &listsvc.Service{DB: db, Uploads: uploadClient}
	itemSvc := &itemsvc.Service{DB: db}
	uniSvc := &unisvc.Service{DB: db}
	historySvc := &histsvc.Service{DB: db}
	analyticsSvc := &analyticssvc.Service{DB: db}
	healthSvc := &healthsvc.Service{DB: db, Rdb: rdb}

	sh := &studenthandler.Handlers{Accounts: accountSvc, Tokens: tokenSvc}
	qh := &queuehandler.Handlers{Service: queueSvc}
	lh := &listhandler.Handlers{Service: listingSvc}
	ah := &adminhandler.Handlers{Accounts: accountSvc, Items: itemSvc, Listings: listingSvc, Analytics: analyticsSvc, Universities: uniSvc}
	hh := &histhandler.Handlers{Service: historySvc}
	ch := &commonhandler.Handlers{Universities: uniSvc, Items: itemSvc, Health: healthSvc}

	app.Get("/health", ch.HealthCheck)

	api := app.Group("/api/v1")

	student := api.Group("/student")
	student.Post("/register", sh.Register)
	student.Post("/verify_otp", sh.VerifyOtp)
	student.Post("/resend_otp", sh.ResendOtp)
	student.Post("/login", sh.Login)
	student.Post("/refresh_token", sh.Refresh)
	student.Post("/forgot_password", sh.ForgotPassword)
	student.Post("/reset_password", sh.ResetPassword)

	authAny := middleware.RequireAuth(cfg.JWTSecret)
	authStudent := middleware.RequireAuth(cfg.JWTSecret, constants.RoleStudent)
	authAdmin := middleware.RequireAuth(cfg.JWTSecret, constants.RoleAdmin)

	student.Get("/profile", authAny, sh.Profile)
	student.Patch("/profile", authAny, sh.UpdateProfile)

	listing := api.Group("/listing", authStudent)
	listing.Post("/create_listing", lh.Create)
	listing.Get("/get_listings", lh.Browse)
	listing.Get("/my_listings", lh.MyListings)
	listing.Get("/:listing_id", lh.Get)
	listing.Patch("/:listing_id", lh.Update)
	listing.Delete("/:listing_id", lh.Delete)
	listing.Post("/:listing_id/image_upload_url", lh.ImageUploadURL)
	listing.Get("/:listing_id/image_url", lh.ImageURL)

	queueing := api.Group("/queueing", authStudent)
	queueing.Post("/mark_interested/:listing_id", qh.MarkInterested)
	queueing.Post("/share_contact/:listing_id/:interest_id", qh.ShareContact)
	queueing.Post("/reject_interest/:listing_id/:interest_id", qh.RejectInterest)
	queueing.Post("/mark_sold/:listing_id/:interest_id", qh.MarkSold)
	queueing.Get("/interested_listings", qh.InterestedListings)
	queueing.Get("/interactions/:listing_id", qh.Interactions)

	history := api.Group("/history", authAny)
	history.Get("/purchases", hh.Purchases)
	history.Get("/sales", hh.Sales)
	history.Get("/sold/:listing_id", hh.SoldDetails)
	history.Get("/timeline/:listing_id", hh.Timeline)

	// Admins share the login and refresh handlers; role separation happens
	// at the token level.
	api.Post("/admin/login", sh.Login)
	api.Post("/admin/refresh_token", sh.Refresh)

	admin := api.Group("/admin", authAdmin)
	admin.Get("/students", ah.ListStudents)
	admin.Get("/students/:user_id", ah.GetStudent)
	admin.Patch("/students/:user_id/status", ah.SetUserStatus)
	admin.Delete("/listings/:listing_id", ah.DeleteListing)
	admin.Post("/universities", ah.CreateUniversity)
	admin.Post("/item_categories", ah.CreateItem)
	admin.Patch("/item_categories/:item_id", ah.UpdateItem)
	admin.Delete("/item_categories/:item_id", ah.DeleteItem)
	admin.Get("/analytics/dashboard", ah.Dashboard)
	admin.Get("/analytics/most_listed", ah.MostListed)
	admin.Get("/analytics/most_inquired", ah.MostInquired)
	admin.Get("/analytics/revenue_by_month", ah.RevenueByMonth)

	common := api.Group("/common")
	common.Get("/get_universities", ch.GetUniversities)
	common.Get("/item_categories", ch.GetItemCategories)

	return app, db, rdb, nil
}
