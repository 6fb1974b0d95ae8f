package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/department"
	"github.com/emabi2002/npiams-sub001/modules/directory/domain/program"
	"github.com/emabi2002/npiams-sub001/modules/directory/domain/staff"
	"github.com/emabi2002/npiams-sub001/modules/directory/services"
	"github.com/emabi2002/npiams-sub001/pkg/application"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/constants"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

type DirectoryAPIController struct {
	app         application.Application
	departments *services.DepartmentService
	programs    *services.ProgramService
	staff       *services.StaffService
	apiPrefix   string
}

func NewDirectoryAPIController(app application.Application) application.Controller {
	return &DirectoryAPIController{
		app:         app,
		departments: app.Service(services.DepartmentService{}).(*services.DepartmentService),
		programs:    app.Service(services.ProgramService{}).(*services.ProgramService),
		staff:       app.Service(services.StaffService{}).(*services.StaffService),
		apiPrefix:   "/directory/api",
	}
}

func (c *DirectoryAPIController) Key() string {
	return c.apiPrefix
}

func (c *DirectoryAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/departments", c.CreateDepartment).Methods(http.MethodPost)
	api.HandleFunc("/departments", c.ListDepartments).Methods(http.MethodGet)
	api.HandleFunc("/departments/{id}", c.GetDepartment).Methods(http.MethodGet)
	api.HandleFunc("/departments/{id}", c.RenameDepartment).Methods(http.MethodPatch)

	api.HandleFunc("/programs", c.CreateProgram).Methods(http.MethodPost)
	api.HandleFunc("/programs", c.ListPrograms).Methods(http.MethodGet)
	api.HandleFunc("/programs/{id}", c.GetProgram).Methods(http.MethodGet)

	api.HandleFunc("/staff", c.CreateStaff).Methods(http.MethodPost)
	api.HandleFunc("/staff", c.ListStaff).Methods(http.MethodGet)
	api.HandleFunc("/staff/{id}", c.GetStaff).Methods(http.MethodGet)
}

type departmentResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type programResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

type staffResponse struct {
	ID          string `json:"id"`
	StaffNo     string `json:"staff_no"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type createDepartmentRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (c *DirectoryAPIController) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var req createDepartmentRequest
	if !decodeValidated(w, r, requestID, &req) {
		return
	}

	created, err := c.departments.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDepartmentDTO(created))
}

func (c *DirectoryAPIController) ListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	out, err := c.departments.List(r.Context())
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	resp := make([]departmentResponse, 0, len(out))
	for _, d := range out {
		resp = append(resp, toDepartmentDTO(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *DirectoryAPIController) GetDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}
	d, err := c.departments.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepartmentDTO(d))
}

type renameDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

func (c *DirectoryAPIController) RenameDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}
	var req renameDepartmentRequest
	if !decodeValidated(w, r, requestID, &req) {
		return
	}

	updated, err := c.departments.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepartmentDTO(updated))
}

type createProgramRequest struct {
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
}

func (c *DirectoryAPIController) CreateProgram(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var req createProgramRequest
	if !decodeValidated(w, r, requestID, &req) {
		return
	}

	created, err := c.programs.Create(r.Context(), uuid.MustParse(req.DepartmentID), req.Code, req.Name)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProgramDTO(created))
}

func (c *DirectoryAPIController) ListPrograms(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var (
		out []program.Program
		err error
	)
	if v := r.URL.Query().Get("department_id"); v != "" {
		departmentID, parseErr := uuid.Parse(v)
		if parseErr != nil {
			writeAPIError(w, http.StatusBadRequest, requestID, "DIRECTORY_INVALID_QUERY", "department_id is invalid")
			return
		}
		out, err = c.programs.ListForDepartment(r.Context(), departmentID)
	} else {
		out, err = c.programs.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	resp := make([]programResponse, 0, len(out))
	for _, p := range out {
		resp = append(resp, toProgramDTO(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *DirectoryAPIController) GetProgram(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}
	p, err := c.programs.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramDTO(p))
}

type createStaffRequest struct {
	StaffNo   string `json:"staff_no" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func (c *DirectoryAPIController) CreateStaff(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var req createStaffRequest
	if !decodeValidated(w, r, requestID, &req) {
		return
	}

	created, err := c.staff.Create(r.Context(), req.StaffNo, req.FirstName, req.LastName, req.Email)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(created))
}

func (c *DirectoryAPIController) ListStaff(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	out, err := c.staff.List(r.Context())
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	resp := make([]staffResponse, 0, len(out))
	for _, s := range out {
		resp = append(resp, toStaffDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (c *DirectoryAPIController) GetStaff(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	id, ok := pathID(w, r, requestID)
	if !ok {
		return
	}
	member, err := c.staff.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	writeJSON(w, http.StatusOK, toStaffDTO(member))
}

func toDepartmentDTO(d department.Department) departmentResponse {
	return departmentResponse{
		ID:   d.ID().String(),
		Code: d.Code(),
		Name: d.Name(),
	}
}

func toProgramDTO(p program.Program) programResponse {
	return programResponse{
		ID:           p.ID().String(),
		DepartmentID: p.DepartmentID().String(),
		Code:         p.Code(),
		Name:         p.Name(),
	}
}

func toStaffDTO(s staff.Staff) staffResponse {
	return staffResponse{
		ID:          s.ID().String(),
		StaffNo:     s.StaffNo(),
		FirstName:   s.FirstName(),
		LastName:    s.LastName(),
		DisplayName: s.DisplayName(),
		Email:       s.Email(),
	}
}

func pathID(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "DIRECTORY_INVALID_QUERY", "id is invalid")
		return uuid.Nil, false
	}
	return id, true
}

func decodeValidated(w http.ResponseWriter, r *http.Request, requestID string, out any) bool {
	if err := decodeJSON(r.Body, out); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "DIRECTORY_INVALID_BODY", "request body is not valid JSON")
		return false
	}
	if err := constants.Validate.Struct(out); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "DIRECTORY_INVALID_BODY", "request body failed validation")
		return false
	}
	return true
}

func decodeJSON(body io.ReadCloser, out any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func writeServiceError(w http.ResponseWriter, requestID string, err error) {
	var svcErr *serrors.Error
	if errors.As(err, &svcErr) {
		writeAPIError(w, svcErr.Status(), requestID, svcErr.Code, svcErr.Message)
		return
	}
	writeAPIError(w, http.StatusInternalServerError, requestID, "DIRECTORY_INTERNAL", err.Error())
}

func writeAPIError(w http.ResponseWriter, status int, requestID, code, message string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	writeJSON(w, status, apiError{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

func writeJSON[T any](w http.ResponseWriter, status int, payload T) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
