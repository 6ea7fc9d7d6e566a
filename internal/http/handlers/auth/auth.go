// Package auth exposes the session gate over HTTP: log in for a token,
// log out to drop it.
package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/employees-api/internal/session"
	"github.com/aanand-mishra/employees-api/internal/utils/response"
)

// Gate is the part of the session gate these handlers use.
type Gate interface {
	Login(username, password string) (string, error)
	Logout(token string)
}

// validate reports field errors under their JSON names, like the
// employee routes do.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/login
//
//	{ "username": "admin", "password": "admin123" }  →  200 { "token": "…" }
func Login(gate Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials

		err := json.NewDecoder(r.Body).Decode(&creds)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validate.Struct(creds); err != nil {
			fields := make(map[string]string)
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				for _, e := range validateErrs {
					fields[e.Field()] = e.Field() + " is required"
				}
			}
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(fields))
			return
		}

		token, err := gate.Login(creds.Username, creds.Password)
		if err != nil {
			slog.Warn("failed login", slog.String("username", creds.Username))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
			return
		}

		slog.Info("user logged in", slog.String("username", creds.Username))
		response.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// Logout handles POST /api/logout. It always succeeds.
func Logout(gate Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gate.Logout(session.TokenFromRequest(r))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}
