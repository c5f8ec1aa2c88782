package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/auth"
)

func authRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", auth.RegisterHandler)
	mux.HandleFunc("/api/auth/login", auth.LoginHandler)
	mux.HandleFunc("/api/auth/refresh", auth.RefreshHandler)
	mux.HandleFunc("/api/auth/profile", auth.ProfileHandler)
	mux.HandleFunc("/api/auth/change-password", auth.ChangePasswordHandler)
}
