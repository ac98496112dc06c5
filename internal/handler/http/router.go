package http

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	commissionHandler CommissionHandler,
	payrollHandler PayrollHandler,
	sessionHandler SessionHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		// EventSource cannot send headers, so the stream also accepts ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/notifications/stream", notificationHandler.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", sessionHandler.Logout)

			r.Route("/employees/{employeeId}", func(r chi.Router) {
				r.Get("/pay-period", payrollHandler.GetPayPeriod)
				r.Get("/salary-snapshot", payrollHandler.GetSalarySnapshot)
				r.Get("/commissions", commissionHandler.Breakdown)

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/", attendanceHandler.List)
					r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/", attendanceHandler.Mark)
				})
			})

			r.Route("/payslip-requests", func(r chi.Router) {
				r.Get("/", payrollHandler.ListRequests)
				r.Post("/", payrollHandler.SubmitRequest)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRequest)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdministrative)
						r.Post("/approve", payrollHandler.ApproveRequest)
						r.Post("/reject", payrollHandler.RejectRequest)
					})
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPayslips)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetPayslip)
					r.Get("/pdf", payrollHandler.DownloadPayslipPDF)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdministrative)
						r.Patch("/", payrollHandler.AdjustPayslip)
						r.Post("/release", payrollHandler.ReleasePayslip)
					})
				})
			})
		})
	})
	return r
}
