// Package employee contains all HTTP handlers for the Employee resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once (the directory,
// the validator) and returns the http.HandlerFunc the router calls on
// every request:
//
//	router.HandleFunc("POST /api/employees", employee.New(dir, v))
package employee

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	store "github.com/aanand-mishra/employees-api/internal/employee"
	"github.com/aanand-mishra/employees-api/internal/image"
	"github.com/aanand-mishra/employees-api/internal/query"
	"github.com/aanand-mishra/employees-api/internal/types"
	"github.com/aanand-mishra/employees-api/internal/utils/response"
	"github.com/aanand-mishra/employees-api/internal/validation"
)

// Directory is the command surface of the record store the handlers need.
// *store.Store satisfies it.
type Directory interface {
	Add(in types.EmployeeInput) (types.Employee, error)
	Update(id string, in types.EmployeeInput) (bool, error)
	Delete(id string) (bool, error)
	ToggleActive(id string) (bool, error)
	SetImage(id string, img *string) (bool, error)
	List() []types.Employee
	Get(id string) (types.Employee, bool)
}

// Validator checks a candidate before it reaches the directory.
type Validator interface {
	Validate(in types.EmployeeInput) error
}

// ListResponse is the body of GET /api/employees. Summary always counts
// the whole collection, not just the filtered page.
type ListResponse struct {
	Employees []types.Employee `json:"employees"`
	Summary   query.Summary    `json:"summary"`
}

// uploadOverhead is the multipart framing allowed on top of the image.
const uploadOverhead = 1 << 20

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/employees
//
// Request body (JSON):
//
//	{ "fullName": "Asha Rao", "gender": "Female", "dateOfBirth": "1990-01-01",
//	  "state": "Karnataka", "active": true, "profileImage": null }
//
// Responses: 201 with the created employee, 400 on bad JSON or validation,
// 500 when no id could be assigned.
// ─────────────────────────────────────────────────────────────────────────────
func New(dir Directory, v Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an employee")

		in, ok := decodeInput(w, r, v)
		if !ok {
			return
		}

		created, err := dir.Add(in)
		if err != nil && !errors.Is(err, store.ErrPersist) {
			slog.Error("error creating employee", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		warnIfUnsaved(w, err)

		slog.Info("employee created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/employees?search=asha&gender=Female&status=active
//
// Every query parameter is optional; an absent one means "all".
// ─────────────────────────────────────────────────────────────────────────────
func GetList(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		criteria, err := query.ParseCriteria(q.Get("search"), q.Get("gender"), q.Get("status"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		all := dir.List()

		response.WriteJSON(w, http.StatusOK, ListResponse{
			Employees: query.Filter(all, criteria),
			Summary:   query.Count(all),
		})
	}
}

// GetByID handles GET /api/employees/{id}
func GetByID(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		e, ok := dir.Get(id)
		if !ok {
			notFound(w, id)
			return
		}

		response.WriteJSON(w, http.StatusOK, e)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/employees/{id}
// Replaces ALL fields of an existing employee; the id never changes.
// 404 when no employee has that id.
// ─────────────────────────────────────────────────────────────────────────────
func Update(dir Directory, v Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating an employee", slog.String("id", id))

		in, ok := decodeInput(w, r, v)
		if !ok {
			return
		}

		found, err := dir.Update(id, in)
		if !found {
			notFound(w, id)
			return
		}
		warnIfUnsaved(w, err)

		updated, _ := dir.Get(id)
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/employees/{id}
func Delete(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting an employee", slog.String("id", id))

		found, err := dir.Delete(id)
		if !found {
			notFound(w, id)
			return
		}
		warnIfUnsaved(w, err)

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ToggleActive handles PATCH /api/employees/{id}/active and answers with
// the employee after the flip.
func ToggleActive(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("toggling employee status", slog.String("id", id))

		found, err := dir.ToggleActive(id)
		if !found {
			notFound(w, id)
			return
		}
		warnIfUnsaved(w, err)

		toggled, _ := dir.Get(id)
		response.WriteJSON(w, http.StatusOK, toggled)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UploadImage handles PUT /api/employees/{id}/image
//
// Body: multipart/form-data with the file in the "profileImage" field.
// The file is turned into a data URL and swapped in as the record's
// image; no other field is touched.
// ─────────────────────────────────────────────────────────────────────────────
func UploadImage(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("uploading employee image", slog.String("id", id))

		if _, ok := dir.Get(id); !ok {
			notFound(w, id)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, image.MaxSize+uploadOverhead)
		file, _, err := r.FormFile("profileImage")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				imageError(w, image.ErrTooLarge)
				return
			}
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(fmt.Errorf("profileImage file is required: %w", err)))
			return
		}
		defer file.Close()

		dataURL, err := image.Encode(file)
		if err != nil {
			imageError(w, err)
			return
		}

		writeImage(w, dir, id, &dataURL)
	}
}

// RemoveImage handles DELETE /api/employees/{id}/image
func RemoveImage(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("removing employee image", slog.String("id", id))

		writeImage(w, dir, id, nil)
	}
}

// States handles GET /api/states: the choices for the state dropdown.
func States() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, types.States)
	}
}

func writeImage(w http.ResponseWriter, dir Directory, id string, img *string) {
	found, err := dir.SetImage(id, img)
	if !found {
		notFound(w, id)
		return
	}
	warnIfUnsaved(w, err)

	updated, _ := dir.Get(id)
	response.WriteJSON(w, http.StatusOK, updated)
}

// decodeInput reads and validates the JSON body. On failure it has
// already written the 400 response and returns false.
func decodeInput(w http.ResponseWriter, r *http.Request, v Validator) (types.EmployeeInput, bool) {
	var in types.EmployeeInput

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	if err := v.Validate(in); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(fieldErrs))
			return in, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	return validation.Normalize(in), true
}

func imageError(w http.ResponseWriter, err error) {
	msg := "Please select a valid image file"
	if errors.Is(err, image.ErrTooLarge) {
		msg = "Image size must be less than 5MB"
	}
	response.WriteJSON(w, http.StatusBadRequest,
		response.ValidationError(map[string]string{"profileImage": msg}))
}

func warnIfUnsaved(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	slog.Warn("change applied but not persisted", slog.String("error", err.Error()))
	response.SetWarning(w, err)
}

func notFound(w http.ResponseWriter, id string) {
	response.WriteJSON(w, http.StatusNotFound,
		response.GeneralError(fmt.Errorf("no employee found with id: %s", id)))
}
