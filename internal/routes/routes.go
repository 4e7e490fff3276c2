// Package routes wires handlers, middleware, and operational endpoints into
// the chi router.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hallmate/internal/auth"
	"hallmate/internal/handlers"
	"hallmate/internal/httputil"
	appmw "hallmate/internal/middleware"
)

// Deps bundles everything the router needs.
type Deps struct {
	JWT           *auth.JWTManager
	Auth          *handlers.AuthHandler
	Split         *handlers.SplitHandler
	Meal          *handlers.MealHandler
	Fund          *handlers.FundHandler
	Expenses      *handlers.PersonalExpenseHandler
	Tasks         *handlers.TaskHandler
	Documents     *handlers.DocumentHandler
	Notifications *handlers.NotificationHandler
}

// New builds the full route tree.
func New(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(appmw.RequestLogger)
	r.Use(appmw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", d.Auth.Register)
	r.Post("/auth/login", d.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(appmw.Authenticated(d.JWT))

		r.Get("/auth/me", d.Auth.Me)

		r.Route("/split/groups", func(r chi.Router) {
			r.Post("/", d.Split.CreateGroup)
			r.Get("/", d.Split.ListGroups)
			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", d.Split.GetGroup)
				r.Delete("/", d.Split.DeleteGroup)
				r.Post("/members", d.Split.AddMembers)
				r.Post("/expenses", d.Split.AddExpense)
				r.Get("/expenses", d.Split.ListExpenses)
				r.Delete("/expenses/{expenseID}", d.Split.DeleteExpense)
				r.Post("/settlements", d.Split.RecordSettlement)
				r.Get("/settlements", d.Split.ListSettlements)
				r.Get("/summary", d.Split.Summary)
			})
		})

		r.Route("/meal/groups", func(r chi.Router) {
			r.Post("/", d.Meal.CreateGroup)
			r.Get("/", d.Meal.ListGroups)
			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", d.Meal.GetGroup)
				r.Delete("/", d.Meal.DeleteGroup)
				r.Post("/members", d.Meal.AddMembers)
				r.Post("/items", d.Meal.AddItem)
				r.Get("/items", d.Meal.ListItems)
				r.Post("/items/{itemID}/purchase", d.Meal.PurchaseItem)
				r.Post("/duties", d.Meal.AssignDuties)
				r.Get("/duties", d.Meal.ListDuties)
				r.Post("/meals", d.Meal.RecordMeals)
				r.Get("/meals", d.Meal.ListMeals)
				r.Get("/summary", d.Meal.Summary)
			})
		})

		r.Route("/fund", func(r chi.Router) {
			r.Post("/setup", d.Fund.Setup)
			r.Get("/summary", d.Fund.Summary)
			r.Patch("/goal", d.Fund.UpdateGoal)
			r.Post("/contributions", d.Fund.Contribute)
			r.Post("/withdrawals", d.Fund.Withdraw)
			r.Get("/transactions", d.Fund.Transactions)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", d.Expenses.Create)
			r.Get("/", d.Expenses.List)
			r.Get("/{expenseID}", d.Expenses.Get)
			r.Put("/{expenseID}", d.Expenses.Update)
			r.Delete("/{expenseID}", d.Expenses.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", d.Tasks.Create)
			r.Get("/", d.Tasks.List)
			r.Patch("/{taskID}/complete", d.Tasks.Complete)
			r.Delete("/{taskID}", d.Tasks.Delete)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", d.Documents.Create)
			r.Get("/", d.Documents.List)
			r.Delete("/{documentID}", d.Documents.Delete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", d.Notifications.Create)
			r.Get("/", d.Notifications.List)
			r.Post("/{notificationID}/read", d.Notifications.MarkRead)
		})
	})

	return r
}
