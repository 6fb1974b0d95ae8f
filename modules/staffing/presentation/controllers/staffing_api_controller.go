package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	directoryservices "github.com/emabi2002/npiams-sub001/modules/directory/services"
	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/employment"
	"github.com/emabi2002/npiams-sub001/modules/staffing/services"
	"github.com/emabi2002/npiams-sub001/pkg/application"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/constants"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

type StaffingAPIController struct {
	app         application.Application
	assignments *services.AssignmentService
	employments *services.EmploymentService
	staff       *directoryservices.StaffService
	apiPrefix   string
}

func NewStaffingAPIController(app application.Application) application.Controller {
	return &StaffingAPIController{
		app:         app,
		assignments: app.Service(services.AssignmentService{}).(*services.AssignmentService),
		employments: app.Service(services.EmploymentService{}).(*services.EmploymentService),
		staff:       app.Service(directoryservices.StaffService{}).(*directoryservices.StaffService),
		apiPrefix:   "/staffing/api",
	}
}

func (c *StaffingAPIController) Key() string {
	return c.apiPrefix
}

func (c *StaffingAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/assignments", instrumentAPI("assignments.create", c.CreateAssignment)).Methods(http.MethodPost)
	api.HandleFunc("/assignments/current", instrumentAPI("assignments.current", c.GetCurrentAssignment)).Methods(http.MethodGet)
	api.HandleFunc("/assignments/history", instrumentAPI("assignments.history", c.GetAssignmentHistory)).Methods(http.MethodGet)

	api.HandleFunc("/employments", instrumentAPI("employments.create", c.CreateEmployment)).Methods(http.MethodPost)
	api.HandleFunc("/employments", instrumentAPI("employments.list", c.ListEmployments)).Methods(http.MethodGet)
	api.HandleFunc("/employments/{id}:set-primary", instrumentAPI("employments.set_primary", c.SetPrimaryEmployment)).Methods(http.MethodPost)
	api.HandleFunc("/employments/{id}:end", instrumentAPI("employments.end", c.EndEmployment)).Methods(http.MethodPost)
}

type createAssignmentRequest struct {
	EntityID      string `json:"entity_id" validate:"required,uuid"`
	EntityKind    string `json:"entity_kind" validate:"omitempty,oneof=department program"`
	Role          string `json:"role" validate:"omitempty,oneof=head coordinator"`
	HolderID      string `json:"holder_id" validate:"required,uuid"`
	EffectiveDate string `json:"effective_date"`
}

type assignmentResponse struct {
	ID         string  `json:"id"`
	EntityID   string  `json:"entity_id"`
	HolderID   string  `json:"holder_id"`
	HolderName string  `json:"holder_name,omitempty"`
	Role       string  `json:"role"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

type historyEntryResponse struct {
	assignmentResponse
	IsCurrent bool `json:"is_current"`
}

func (c *StaffingAPIController) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var req createAssignmentRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body is not valid JSON")
		return
	}
	if err := constants.Validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", strings.ToLower(verrs[0].Field())+" is invalid")
			return
		}
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body failed validation")
		return
	}

	role, err := resolveRole(req.Role, req.EntityKind)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	// The write boundary owns the clock: an omitted effective date means
	// "today".
	effective, err := parseEffectiveDate(req.EffectiveDate)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "effective_date is invalid")
		return
	}
	if effective.IsZero() {
		effective = time.Now().UTC()
	}

	entityID := uuid.MustParse(req.EntityID)
	holderID := uuid.MustParse(req.HolderID)

	created, err := c.assignments.Assign(r.Context(), entityID, role, holderID, effective)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusCreated, c.toAssignmentResponse(r, created))
}

func (c *StaffingAPIController) GetCurrentAssignment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	entityID, role, ok := parseAssignmentQuery(w, r, requestID)
	if !ok {
		return
	}

	current, found, err := c.assignments.Resolve(r.Context(), entityID, role)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}
	if !found {
		writeAPIError(w, http.StatusNotFound, requestID, "STAFFING_NO_CURRENT_HOLDER", "no current holder for this entity and role")
		return
	}

	writeJSON(w, http.StatusOK, c.toAssignmentResponse(r, current))
}

func (c *StaffingAPIController) GetAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	entityID, role, ok := parseAssignmentQuery(w, r, requestID)
	if !ok {
		return
	}

	entries, err := c.assignments.History(r.Context(), entityID, role)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	names := c.holderNames(r, entries)
	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := toAssignmentDTO(e.Assignment)
		resp.HolderName = names[e.Assignment.HolderID()]
		out = append(out, historyEntryResponse{assignmentResponse: resp, IsCurrent: e.IsCurrent})
	}

	type historyResponse struct {
		EntityID string                 `json:"entity_id"`
		Role     string                 `json:"role"`
		History  []historyEntryResponse `json:"history"`
	}
	writeJSON(w, http.StatusOK, historyResponse{
		EntityID: entityID.String(),
		Role:     string(role),
		History:  out,
	})
}

type createEmploymentRequest struct {
	StaffID      string `json:"staff_id" validate:"required,uuid"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	IsPrimary    bool   `json:"is_primary"`
	StartDate    string `json:"start_date"`
}

type employmentResponse struct {
	ID           string  `json:"id"`
	StaffID      string  `json:"staff_id"`
	DepartmentID string  `json:"department_id"`
	IsPrimary    bool    `json:"is_primary"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date,omitempty"`
	IsCurrent    bool    `json:"is_current"`
}

func (c *StaffingAPIController) CreateEmployment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	var req createEmploymentRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body is not valid JSON")
		return
	}
	if err := constants.Validate.Struct(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body failed validation")
		return
	}

	start, err := parseEffectiveDate(req.StartDate)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "start_date is invalid")
		return
	}
	if start.IsZero() {
		start = time.Now().UTC()
	}

	created, err := c.employments.Attach(
		r.Context(),
		uuid.MustParse(req.StaffID),
		uuid.MustParse(req.DepartmentID),
		req.IsPrimary,
		start,
	)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmploymentDTO(created))
}

func (c *StaffingAPIController) ListEmployments(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	staffID, err := uuid.Parse(r.URL.Query().Get("staff_id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "staff_id is required")
		return
	}

	entries, err := c.employments.ListForStaff(r.Context(), staffID)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	out := make([]employmentResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEmploymentDTO(e.Employment))
	}

	type employmentsResponse struct {
		StaffID     string               `json:"staff_id"`
		Employments []employmentResponse `json:"employments"`
	}
	writeJSON(w, http.StatusOK, employmentsResponse{StaffID: staffID.String(), Employments: out})
}

type employmentActionRequest struct {
	StaffID string `json:"staff_id" validate:"required,uuid"`
	EndDate string `json:"end_date"`
}

func (c *StaffingAPIController) SetPrimaryEmployment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	employmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "employment id is invalid")
		return
	}

	var req employmentActionRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body is not valid JSON")
		return
	}
	if err := constants.Validate.Struct(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body failed validation")
		return
	}

	updated, err := c.employments.SetPrimary(r.Context(), uuid.MustParse(req.StaffID), employmentID)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmploymentDTO(updated))
}

func (c *StaffingAPIController) EndEmployment(w http.ResponseWriter, r *http.Request) {
	requestID := composables.UseRequestID(r.Context())

	employmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "employment id is invalid")
		return
	}

	var req employmentActionRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body is not valid JSON")
		return
	}
	if err := constants.Validate.Struct(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "request body failed validation")
		return
	}

	end, err := parseEffectiveDate(req.EndDate)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_BODY", "end_date is invalid")
		return
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}

	ended, err := c.employments.End(r.Context(), uuid.MustParse(req.StaffID), employmentID, end)
	if err != nil {
		writeServiceError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmploymentDTO(ended))
}

// resolveRole derives the role from an explicit value or the entity
// kind. Department-like entities take a head, program-like entities a
// coordinator.
func resolveRole(role, entityKind string) (assignment.Role, error) {
	if role != "" {
		return assignment.ParseRole(role)
	}
	switch entityKind {
	case "department":
		return assignment.RoleHead, nil
	case "program":
		return assignment.RoleCoordinator, nil
	default:
		return "", serrors.Validation("STAFFING_INVALID_ROLE", "either role or entity_kind is required")
	}
}

func parseAssignmentQuery(w http.ResponseWriter, r *http.Request, requestID string) (uuid.UUID, assignment.Role, bool) {
	entityID, err := uuid.Parse(r.URL.Query().Get("entity_id"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, requestID, "STAFFING_INVALID_QUERY", "entity_id is required")
		return uuid.Nil, "", false
	}
	role, err := resolveRole(r.URL.Query().Get("role"), r.URL.Query().Get("entity_kind"))
	if err != nil {
		writeServiceError(w, requestID, err)
		return uuid.Nil, "", false
	}
	return entityID, role, true
}

func (c *StaffingAPIController) toAssignmentResponse(r *http.Request, a assignment.Assignment) assignmentResponse {
	resp := toAssignmentDTO(a)
	if member, err := c.staff.GetByID(r.Context(), a.HolderID()); err == nil {
		resp.HolderName = member.DisplayName()
	}
	return resp
}

// holderNames resolves display names for every distinct holder in a
// history in one lookup. Holders unknown to the directory are left
// without a name rather than failing the read.
func (c *StaffingAPIController) holderNames(r *http.Request, entries []services.HistoryEntry) map[uuid.UUID]string {
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		id := e.Assignment.HolderID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	names := make(map[uuid.UUID]string, len(ids))
	members, err := c.staff.GetMany(r.Context(), ids)
	if err != nil {
		return names
	}
	for id, member := range members {
		names[id] = member.DisplayName()
	}
	return names
}

func toAssignmentDTO(a assignment.Assignment) assignmentResponse {
	resp := assignmentResponse{
		ID:        a.ID().String(),
		EntityID:  a.EntityID().String(),
		HolderID:  a.HolderID().String(),
		Role:      string(a.Role()),
		StartDate: a.StartDate().Format("2006-01-02"),
	}
	if end := a.EndDate(); end != nil {
		v := end.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}

func toEmploymentDTO(e employment.Employment) employmentResponse {
	resp := employmentResponse{
		ID:           e.ID().String(),
		StaffID:      e.StaffID().String(),
		DepartmentID: e.DepartmentID().String(),
		IsPrimary:    e.IsPrimary(),
		StartDate:    e.StartDate().Format("2006-01-02"),
		IsCurrent:    e.IsOpen(),
	}
	if end := e.EndDate(); end != nil {
		v := end.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}

func parseEffectiveDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
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
	writeAPIError(w, http.StatusInternalServerError, requestID, "STAFFING_INTERNAL", err.Error())
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
