package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/garage-app/internal/auth"
	"github.com/diewo77/garage-app/internal/gate"
	"github.com/diewo77/garage-app/internal/handlers"
	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/middleware"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/services"
	"gorm.io/gorm"
)

// procedure binds one RPC name to its access tier and handler. The table is
// the only place tiers are declared; handlers never check roles themselves.
type procedure struct {
	name    string
	tier    gate.Tier
	handler http.HandlerFunc
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Verifier so the auth middleware can drop sessions of deleted users.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	g := gate.New(func(_ context.Context, uid uint) (string, bool) {
		var user models.User
		if err := db.Select("role").First(&user, uid).Error; err != nil {
			return "", false
		}
		return user.Role, true
	}, models.RoleAdmin)

	billing := services.NewBillingService(db)
	inventory := services.NewInventoryService(db)

	authHandler := handlers.NewAuthHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	partHandler := handlers.NewPartHandler(db)
	workOrderHandler := handlers.NewWorkOrderHandler(db, inventory)
	estimateHandler := handlers.NewEstimateHandler(db, billing)
	invoiceHandler := handlers.NewInvoiceHandler(db, billing)
	dashboardHandler := handlers.NewDashboardHandler(db)

	procedures := []procedure{
		{"auth.register", gate.TierPublic, authHandler.RegisterUser},
		{"auth.login", gate.TierPublic, authHandler.Login},
		{"auth.logout", gate.TierPublic, authHandler.Logout},
		{"auth.me", gate.TierAuthenticated, authHandler.Me},
		{"auth.getUsers", gate.TierAdmin, authHandler.GetUsers},

		{"customer.getAll", gate.TierAuthenticated, customerHandler.GetAll},
		{"customer.getById", gate.TierAuthenticated, customerHandler.GetByID},
		{"customer.create", gate.TierAuthenticated, customerHandler.Create},
		{"customer.update", gate.TierAuthenticated, customerHandler.Update},
		{"customer.delete", gate.TierAuthenticated, customerHandler.Delete},

		{"vehicle.getAll", gate.TierAuthenticated, vehicleHandler.GetAll},
		{"vehicle.getById", gate.TierAuthenticated, vehicleHandler.GetByID},
		{"vehicle.create", gate.TierAuthenticated, vehicleHandler.Create},
		{"vehicle.update", gate.TierAuthenticated, vehicleHandler.Update},
		{"vehicle.delete", gate.TierAuthenticated, vehicleHandler.Delete},

		{"service.getAll", gate.TierAuthenticated, serviceHandler.GetAll},
		{"service.getById", gate.TierAuthenticated, serviceHandler.GetByID},
		{"service.create", gate.TierAuthenticated, serviceHandler.Create},
		{"service.update", gate.TierAuthenticated, serviceHandler.Update},
		{"service.delete", gate.TierAuthenticated, serviceHandler.Delete},

		{"part.getAll", gate.TierAuthenticated, partHandler.GetAll},
		{"part.getById", gate.TierAuthenticated, partHandler.GetByID},
		{"part.create", gate.TierAuthenticated, partHandler.Create},
		{"part.update", gate.TierAuthenticated, partHandler.Update},
		{"part.delete", gate.TierAuthenticated, partHandler.Delete},
		{"part.adjustStock", gate.TierAuthenticated, partHandler.AdjustStock},

		{"workOrder.getAll", gate.TierAuthenticated, workOrderHandler.GetAll},
		{"workOrder.getById", gate.TierAuthenticated, workOrderHandler.GetByID},
		{"workOrder.create", gate.TierAuthenticated, workOrderHandler.Create},
		{"workOrder.update", gate.TierAuthenticated, workOrderHandler.Update},
		{"workOrder.delete", gate.TierAuthenticated, workOrderHandler.Delete},
		{"workOrder.addService", gate.TierAuthenticated, workOrderHandler.AddService},
		{"workOrder.removeService", gate.TierAuthenticated, workOrderHandler.RemoveService},
		{"workOrder.addPart", gate.TierAuthenticated, workOrderHandler.AddPart},
		{"workOrder.removePart", gate.TierAuthenticated, workOrderHandler.RemovePart},

		{"estimate.getAll", gate.TierAuthenticated, estimateHandler.GetAll},
		{"estimate.getById", gate.TierAuthenticated, estimateHandler.GetByID},
		{"estimate.create", gate.TierAuthenticated, estimateHandler.Create},
		{"estimate.update", gate.TierAuthenticated, estimateHandler.Update},
		{"estimate.delete", gate.TierAuthenticated, estimateHandler.Delete},
		{"estimate.addService", gate.TierAuthenticated, estimateHandler.AddService},
		{"estimate.removeService", gate.TierAuthenticated, estimateHandler.RemoveService},
		{"estimate.addPart", gate.TierAuthenticated, estimateHandler.AddPart},
		{"estimate.removePart", gate.TierAuthenticated, estimateHandler.RemovePart},

		{"invoice.getAll", gate.TierAuthenticated, invoiceHandler.GetAll},
		{"invoice.getById", gate.TierAuthenticated, invoiceHandler.GetByID},
		{"invoice.createFromWorkOrder", gate.TierAuthenticated, invoiceHandler.CreateFromWorkOrder},
		{"invoice.recordPayment", gate.TierAuthenticated, invoiceHandler.RecordPayment},
		{"invoice.update", gate.TierAuthenticated, invoiceHandler.Update},
		{"invoice.delete", gate.TierAuthenticated, invoiceHandler.Delete},

		{"dashboard.stats", gate.TierAuthenticated, dashboardHandler.Stats},
	}

	for _, p := range procedures {
		g.Register(p.name, p.tier)
		mux.Handle("/rpc/"+p.name, dispatch(g, p.name, p.handler))
	}

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	//revive:enable:unused-parameter

	return middleware.Recover(auth.Middleware(mux))
}

// dispatch enforces method and tier before the handler runs.
func dispatch(g *gate.Gate, name string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		uid, _ := auth.UserIDFromContext(r.Context())
		if err := g.Authorize(r.Context(), name, uid); err != nil {
			switch {
			case errors.Is(err, gate.ErrUnauthenticated):
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			case errors.Is(err, gate.ErrForbidden):
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			default:
				httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			}
			return
		}
		next(w, r)
	})
}
