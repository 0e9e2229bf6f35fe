package api

import (
	"database/sql"
	"net/http"

	"github.com/matatuconnect/backend/internal/metrics"
	"github.com/matatuconnect/backend/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	claimsHandler := &ClaimsHandler{DB: db}
	postsHandler := &PostsHandler{DB: db}
	ratingsHandler := &RatingsHandler{DB: db}
	transitHandler := &TransitHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireDriver := RequireRole(model.RoleDriver)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session and profile.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("PUT /api/auth/profile", authMW(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("GET /api/users/{id}/photo", authMW(http.HandlerFunc(usersHandler.GetPhoto)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Lost items: drivers report, everyone signed in can browse.
	mux.Handle("GET /api/lost-items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/lost-items", authMW(requireDriver(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/lost-items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("GET /api/lost-items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.GetPhoto)))
	mux.Handle("DELETE /api/lost-items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Claims workflow.
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Submit)))
	mux.Handle("GET /api/claims/review", authMW(requireAdmin(http.HandlerFunc(claimsHandler.ReviewQueue))))
	mux.Handle("PUT /api/claims/{id}/confirm", authMW(requireDriver(http.HandlerFunc(claimsHandler.Confirm))))
	mux.Handle("PUT /api/claims/{id}/approve", authMW(requireAdmin(http.HandlerFunc(claimsHandler.Approve))))
	mux.Handle("DELETE /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Withdraw)))

	// Road updates. Reads are public so commuters can check before traveling.
	mux.HandleFunc("GET /api/posts", postsHandler.List)
	mux.HandleFunc("GET /api/alerts", postsHandler.Alerts)
	mux.HandleFunc("GET /api/posts/{id}/photo", postsHandler.GetPhoto)
	mux.Handle("POST /api/posts", authMW(http.HandlerFunc(postsHandler.Create)))
	mux.Handle("DELETE /api/posts/{id}", authMW(requireAdmin(http.HandlerFunc(postsHandler.Delete))))

	// Sacco ratings.
	mux.HandleFunc("GET /api/ratings", ratingsHandler.List)
	mux.Handle("POST /api/ratings", authMW(http.HandlerFunc(ratingsHandler.Create)))
	mux.Handle("DELETE /api/ratings/{id}", authMW(requireAdmin(http.HandlerFunc(ratingsHandler.Delete))))

	// Transit reference data: public reads, admin writes.
	mux.HandleFunc("GET /api/routes", transitHandler.ListRoutes)
	mux.HandleFunc("GET /api/stages", transitHandler.ListStages)
	mux.HandleFunc("GET /api/saccos", transitHandler.ListSaccos)
	mux.HandleFunc("GET /api/operations", transitHandler.ListOperations)
	mux.Handle("POST /api/routes", authMW(requireAdmin(http.HandlerFunc(transitHandler.CreateRoute))))
	mux.Handle("PUT /api/routes/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.UpdateRoute))))
	mux.Handle("DELETE /api/routes/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.DeleteRoute))))
	mux.Handle("POST /api/stages", authMW(requireAdmin(http.HandlerFunc(transitHandler.CreateStage))))
	mux.Handle("PUT /api/stages/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.UpdateStage))))
	mux.Handle("DELETE /api/stages/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.DeleteStage))))
	mux.Handle("POST /api/saccos", authMW(requireAdmin(http.HandlerFunc(transitHandler.CreateSacco))))
	mux.Handle("DELETE /api/saccos/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.DeleteSacco))))
	mux.Handle("POST /api/operations", authMW(requireAdmin(http.HandlerFunc(transitHandler.CreateOperation))))
	mux.Handle("DELETE /api/operations/{id}", authMW(requireAdmin(http.HandlerFunc(transitHandler.DeleteOperation))))

	// Operational endpoints.
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			jsonError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return MetricsMiddleware(LoggingMiddleware(mux))
}
