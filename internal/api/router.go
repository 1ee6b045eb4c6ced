/**
 * @description
 * This file sets up the HTTP router. It defines the API endpoints under the
 * /api/v1 prefix, associates them with their handlers, and applies the
 * middleware stack: request logging, panic recovery, timeouts, CORS, token
 * authentication and the admin-only gate.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for browser clients.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thomasakiou/dpa-BE/internal/app"
)

// Routes creates and returns the service router.
func Routes(service *app.Service, corsOrigins []string) http.Handler {
	h := NewHandlers(service)

	r := chi.NewRouter()

	// Standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", h.LoginHandler)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(service))

			r.Post("/auth/change-password", h.ChangePasswordHandler)

			r.Get("/members/me", h.MeHandler)
			r.Put("/members/me", h.UpdateMeHandler)
			r.Get("/members/me/dashboard", h.MemberDashboardHandler)

			r.Get("/savings/me", h.MySavingsHandler)
			r.Get("/savings/me/summary", h.MySavingsSummaryHandler)
			r.Get("/shares/me", h.MySharesHandler)
			r.Get("/shares/me/summary", h.MySharesSummaryHandler)
			r.Get("/loans/me", h.MyLoansHandler)
			r.Post("/loans/apply", h.ApplyLoanHandler)
			r.Get("/transactions/me", h.MyTransactionsHandler)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Get("/admin/dashboard", h.AdminDashboardHandler)

				r.Route("/admin/users", func(r chi.Router) {
					r.Post("/", h.CreateUserHandler)
					r.Get("/", h.ListUsersHandler)
					r.Get("/{userID}", h.GetUserHandler)
					r.Put("/{userID}", h.UpdateUserHandler)
					r.Delete("/{userID}", h.DeleteUserHandler)
					r.Post("/{userID}/suspend", h.SuspendUserHandler)
					r.Post("/{userID}/activate", h.ActivateUserHandler)
					r.Post("/{userID}/reset-password", h.ResetPasswordHandler)
					r.Get("/{userID}/loans", h.UserLoansHandler)
					r.Get("/{userID}/savings", h.UserSavingsHandler)
					r.Get("/{userID}/shares", h.UserSharesHandler)
					r.Get("/{userID}/payments", h.UserPaymentsHandler)
					r.Get("/{userID}/payments/summary", h.UserPaymentSummaryHandler)
					r.Get("/{userID}/transactions", h.UserTransactionsHandler)
				})

				r.Route("/admin/loans", func(r chi.Router) {
					r.Get("/", h.ListLoansHandler)
					r.Get("/{loanID}", h.GetLoanHandler)
					r.Put("/{loanID}", h.UpdateLoanHandler)
					r.Delete("/{loanID}", h.DeleteLoanHandler)
					r.Post("/{loanID}/approve", h.ApproveLoanHandler)
					r.Post("/{loanID}/disburse", h.DisburseLoanHandler)
					r.Post("/{loanID}/reject", h.RejectLoanHandler)
					r.Post("/{loanID}/close", h.CloseLoanHandler)
					r.Post("/{loanID}/payment", h.LoanRepaymentHandler)
				})

				r.Route("/admin/savings", func(r chi.Router) {
					r.Post("/", h.CreateSavingsHandler)
					r.Get("/", h.ListSavingsHandler)
					r.Get("/{savingsID}", h.GetSavingsHandler)
					r.Put("/{savingsID}", h.UpdateSavingsHandler)
					r.Delete("/{savingsID}", h.DeleteSavingsHandler)
					r.Post("/{savingsID}/payment", h.SavingsPaymentHandler)
				})

				r.Route("/admin/savings-payments", func(r chi.Router) {
					r.Post("/", h.RecordPaymentHandler)
					r.Get("/", h.ListPaymentsHandler)
					r.Get("/{paymentID}", h.GetPaymentHandler)
					r.Put("/{paymentID}", h.UpdatePaymentHandler)
					r.Delete("/{paymentID}", h.DeletePaymentHandler)
				})

				r.Route("/admin/shares", func(r chi.Router) {
					r.Post("/", h.PurchaseSharesHandler)
					r.Get("/", h.ListSharesHandler)
					r.Get("/{shareID}", h.GetShareHandler)
					r.Put("/{shareID}", h.UpdateShareHandler)
					r.Delete("/{shareID}", h.DeleteShareHandler)
				})

				r.Route("/admin/transactions", func(r chi.Router) {
					r.Post("/", h.CreateTransactionHandler)
					r.Get("/", h.ListTransactionsHandler)
					r.Get("/{transactionID}", h.GetTransactionHandler)
					r.Put("/{transactionID}", h.UpdateTransactionHandler)
					r.Delete("/{transactionID}", h.DeleteTransactionHandler)
				})

				r.Route("/admin/settings", func(r chi.Router) {
					r.Get("/", h.ListSettingsHandler)
					r.Put("/", h.UpsertSettingHandler)
					r.Get("/{key}", h.GetSettingHandler)
				})
			})
		})
	})

	return r
}
