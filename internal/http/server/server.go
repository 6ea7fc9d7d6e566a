// Package server wires the handlers into one router.
//
// Route table:
//
//	POST   /api/login                  → open a session
//	POST   /api/logout                 → close it
//	GET    /api/states                 → state dropdown choices
//	POST   /api/employees              → create
//	GET    /api/employees              → filtered list + summary
//	GET    /api/employees/{id}         → one employee
//	PUT    /api/employees/{id}         → replace fields
//	DELETE /api/employees/{id}         → delete
//	PATCH  /api/employees/{id}/active  → flip active flag
//	PUT    /api/employees/{id}/image   → upload profile image
//	DELETE /api/employees/{id}/image   → remove profile image
//
// Everything except login and the state list requires a session.
package server

import (
	"net/http"

	"github.com/aanand-mishra/employees-api/internal/http/handlers/auth"
	"github.com/aanand-mishra/employees-api/internal/http/handlers/employee"
	"github.com/aanand-mishra/employees-api/internal/session"
)

// NewRouter returns the application's HTTP handler.
func NewRouter(dir employee.Directory, v employee.Validator, gate *session.Gate) http.Handler {
	public := http.NewServeMux()
	private := http.NewServeMux()

	public.HandleFunc("POST /api/login", auth.Login(gate))
	public.HandleFunc("GET /api/states", employee.States())

	private.HandleFunc("POST /api/logout", auth.Logout(gate))
	private.HandleFunc("POST /api/employees", employee.New(dir, v))
	private.HandleFunc("GET /api/employees", employee.GetList(dir))
	private.HandleFunc("GET /api/employees/{id}", employee.GetByID(dir))
	private.HandleFunc("PUT /api/employees/{id}", employee.Update(dir, v))
	private.HandleFunc("DELETE /api/employees/{id}", employee.Delete(dir))
	private.HandleFunc("PATCH /api/employees/{id}/active", employee.ToggleActive(dir))
	private.HandleFunc("PUT /api/employees/{id}/image", employee.UploadImage(dir))
	private.HandleFunc("DELETE /api/employees/{id}/image", employee.RemoveImage(dir))

	public.Handle("/api/", gate.Middleware(private))

	return public
}
