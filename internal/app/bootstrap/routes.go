// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	attendancefeature "github.com/udyoghq/udyog/internal/app/features/attendance"
	employeesfeature "github.com/udyoghq/udyog/internal/app/features/employees"
	errorsfeature "github.com/udyoghq/udyog/internal/app/features/errors"
	expensesfeature "github.com/udyoghq/udyog/internal/app/features/expenses"
	healthfeature "github.com/udyoghq/udyog/internal/app/features/health"
	inquiryfeature "github.com/udyoghq/udyog/internal/app/features/inquiry"
	loginfeature "github.com/udyoghq/udyog/internal/app/features/login"
	logoutfeature "github.com/udyoghq/udyog/internal/app/features/logout"
	membersfeature "github.com/udyoghq/udyog/internal/app/features/members"
	reportsfeature "github.com/udyoghq/udyog/internal/app/features/reports"
	streamfeature "github.com/udyoghq/udyog/internal/app/features/stream"
	upadsfeature "github.com/udyoghq/udyog/internal/app/features/upads"
	worksfeature "github.com/udyoghq/udyog/internal/app/features/works"
	attendancestore "github.com/udyoghq/udyog/internal/app/store/attendance"
	dashusersstore "github.com/udyoghq/udyog/internal/app/store/dashusers"
	employeesstore "github.com/udyoghq/udyog/internal/app/store/employees"
	expensesstore "github.com/udyoghq/udyog/internal/app/store/expenses"
	"github.com/udyoghq/udyog/internal/app/store/live"
	membersstore "github.com/udyoghq/udyog/internal/app/store/members"
	pendingworksstore "github.com/udyoghq/udyog/internal/app/store/pendingworks"
	upadsstore "github.com/udyoghq/udyog/internal/app/store/upads"
	"github.com/udyoghq/udyog/internal/app/system/auth"
	"github.com/udyoghq/udyog/internal/app/system/cascade"
	"github.com/udyoghq/udyog/internal/app/system/images"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Udyog mounts the health check, the login
// and logout endpoints, and the uploaded-image file server publicly; every
// business endpoint sits behind the signed-in session check.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores over the business collections.
	worksStore := pendingworksstore.New(deps.MongoDatabase)
	memberStore := membersstore.New(deps.MongoDatabase)
	employeeStore := employeesstore.New(deps.MongoDatabase)
	attStore := attendancestore.New(deps.MongoDatabase)
	upadStore := upadsstore.New(deps.MongoDatabase)
	expenseStore := expensesstore.New(deps.MongoDatabase)
	userStore := dashusersstore.New(deps.MongoDatabase)

	// Image storage and the delete-cascade orchestrator over it.
	imageStore := images.New(
		images.NewLocalDisk(appCfg.StorageLocalPath, appCfg.StorageLocalURL),
		appCfg.StorageLocalURL, logger)
	casc := cascade.New(employeeStore, attStore, memberStore, worksStore, imageStore, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded images, served straight off local storage with pre-compressed
	// file support.
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Authentication.
	loginHandler := loginfeature.NewHandler(userStore, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Everything below requires a signed-in dashboard user.
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		inquiryHandler := inquiryfeature.NewHandler(worksStore, memberStore, errLog, logger)
		r.Mount("/inquiry", inquiryfeature.Routes(inquiryHandler))

		worksHandler := worksfeature.NewHandler(worksStore, casc, errLog, logger)
		r.Mount("/works", worksfeature.Routes(worksHandler))

		membersHandler := membersfeature.NewHandler(memberStore, errLog, logger)
		r.Mount("/members", membersfeature.Routes(membersHandler))

		employeesHandler := employeesfeature.NewHandler(employeeStore, casc, imageStore, errLog, logger)
		r.Mount("/employees", employeesfeature.Routes(employeesHandler))

		attendanceHandler := attendancefeature.NewHandler(attStore, employeeStore, errLog, logger)
		r.Mount("/attendance", attendancefeature.Routes(attendanceHandler))

		upadsHandler := upadsfeature.NewHandler(upadStore, errLog, logger)
		r.Mount("/upads", upadsfeature.Routes(upadsHandler))

		expensesHandler := expensesfeature.NewHandler(expenseStore, errLog, logger)
		r.Mount("/expenses", expensesfeature.Routes(expensesHandler))

		reportsHandler := reportsfeature.NewHandler(
			worksStore, attStore, upadStore, expenseStore, employeeStore, memberStore,
			appCfg.DayRate, errLog, logger)
		r.Mount("/reports", reportsfeature.Routes(reportsHandler))

		streamHandler := streamfeature.NewHandler(liveFeeds(deps, logger), errLog, logger)
		r.Mount("/stream", streamfeature.Routes(streamHandler))
	})

	return r, nil
}

// liveFeeds names the change-stream feeds the dashboard can subscribe to.
func liveFeeds(deps DBDeps, logger *zap.Logger) map[string]streamfeature.SubscribeFunc {
	db := deps.MongoDatabase
	newest := live.Config{SortField: "created_at", Descending: true}
	byDate := live.Config{SortField: "date", Descending: true}

	return map[string]streamfeature.SubscribeFunc{
		"works":      streamfeature.CollectionFeed(db.Collection(pendingworksstore.Collection), newest, logger),
		"members":    streamfeature.CollectionFeed(db.Collection(membersstore.Collection), newest, logger),
		"employees":  streamfeature.CollectionFeed(db.Collection(employeesstore.Collection), newest, logger),
		"attendance": streamfeature.CollectionFeed(db.Collection(attendancestore.Collection), byDate, logger),
		"upads":      streamfeature.CollectionFeed(db.Collection(upadsstore.Collection), byDate, logger),
		"expenses":   streamfeature.CollectionFeed(db.Collection(expensesstore.Collection), byDate, logger),
	}
}
