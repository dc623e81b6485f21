package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"canteen-counter/internal/auth"
	"canteen-counter/internal/handler"
	"canteen-counter/internal/middleware"
)

// Handlers collects everything the route table needs.
type Handlers struct {
	Auth   *handler.AuthHandler
	Menu   *handler.MenuHandler
	Cart   *handler.CartHandler
	Order  *handler.OrderHandler
	Events *handler.EventsHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, issuer *auth.TokenIssuer, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Staff authentication
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	// Menu: browsing is open, management needs the staff capability
	// (enforced in the catalog service).
	mux.HandleFunc("GET /api/menu", h.Menu.List)
	mux.HandleFunc("GET /api/menu/categories", h.Menu.Categories)
	mux.HandleFunc("POST /api/menu", h.Menu.Create)
	mux.HandleFunc("PUT /api/menu/{id}", h.Menu.Update)
	mux.HandleFunc("DELETE /api/menu/{id}", h.Menu.Delete)

	// Session cart
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart/items", h.Cart.Add)
	mux.HandleFunc("POST /api/cart/items/{id}/decrement", h.Cart.Decrement)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.Cart.Remove)
	mux.HandleFunc("PUT /api/cart/items/{id}/instructions", h.Cart.SetInstructions)

	// Orders
	mux.HandleFunc("POST /api/orders", h.Order.Place)
	mux.HandleFunc("GET /api/orders", h.Order.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Order.Track)
	mux.HandleFunc("POST /api/orders/{id}/advance", h.Order.Advance)

	// Change notification stream
	mux.HandleFunc("GET /api/events/{family}", h.Events.Stream)

	// Apply middleware in order: Recovery -> Logging -> CORS -> StaffAuth -> Session
	var root http.Handler = mux
	root = middleware.Session(root)
	root = middleware.StaffAuth(issuer, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
