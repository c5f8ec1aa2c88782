package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/members"
)

func membersRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/members", members.MembersHandler)
	mux.HandleFunc("/api/members/stats", members.MemberStatsHandler)
	mux.HandleFunc("/api/members/{id}", members.MemberHandler)
}
