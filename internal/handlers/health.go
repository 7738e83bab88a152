package handlers

import (
	"database/sql"
	"net/http"
)

// Health reports liveness, including a database ping so load balancers stop
// routing to an instance that lost its connection pool.
func Health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeFailure(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		writeSuccess(w, http.StatusOK, "ok", nil)
	}
}
