package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	directorypersistence "github.com/emabi2002/npiams-sub001/modules/directory/infrastructure/persistence"
	directoryservices "github.com/emabi2002/npiams-sub001/modules/directory/services"
	"github.com/emabi2002/npiams-sub001/modules/staffing/infrastructure/persistence"
	"github.com/emabi2002/npiams-sub001/modules/staffing/services"
	"github.com/emabi2002/npiams-sub001/pkg/application"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
)

type apiFixture struct {
	router *mux.Router
	staff  *directoryservices.StaffService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})

	directoryTx := directorypersistence.NewMemoryTransactor()
	app.RegisterServices(
		directoryservices.NewDepartmentService(directorypersistence.NewMemoryDepartmentRepository(), directoryTx, app.EventPublisher()),
		directoryservices.NewProgramService(directorypersistence.NewMemoryProgramRepository(), directoryTx, app.EventPublisher()),
		directoryservices.NewStaffService(directorypersistence.NewMemoryStaffRepository(), directoryTx, app.EventPublisher()),
	)

	assignments := persistence.NewMemoryAssignmentRepository()
	employments := persistence.NewMemoryEmploymentRepository()
	staffingTx := persistence.NewMemoryTransactor(assignments, employments)
	app.RegisterServices(
		services.NewAssignmentService(assignments, staffingTx, app.EventPublisher()),
		services.NewEmploymentService(employments, staffingTx, app.EventPublisher()),
	)

	router := mux.NewRouter()
	NewStaffingAPIController(app).Register(router)

	return &apiFixture{
		router: router,
		staff:  app.Service(directoryservices.StaffService{}).(*directoryservices.StaffService),
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAssignmentEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	alice, err := f.staff.Create(context.Background(), "NPI-0001", "Alice", "Kama", "alice@example.edu")
	require.NoError(t, err)
	bob, err := f.staff.Create(context.Background(), "NPI-0002", "Bob", "Toua", "bob@example.edu")
	require.NoError(t, err)

	deptID := "0f0e96a2-1a86-4f07-9f9d-7c10a7b3b0aa"

	rec := f.do(t, http.MethodPost, "/staffing/api/assignments", map[string]any{
		"entity_id":      deptID,
		"entity_kind":    "department",
		"holder_id":      alice.ID().String(),
		"effective_date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	require.Equal(t, "head", created["role"])
	require.Equal(t, "2024-01-01", created["start_date"])
	require.Equal(t, "Alice Kama", created["holder_name"])

	rec = f.do(t, http.MethodGet, "/staffing/api/assignments/current?entity_id="+deptID+"&role=head", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decodeBody(t, rec)
	require.Equal(t, alice.ID().String(), current["holder_id"])

	rec = f.do(t, http.MethodPost, "/staffing/api/assignments", map[string]any{
		"entity_id":      deptID,
		"role":           "head",
		"holder_id":      bob.ID().String(),
		"effective_date": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/staffing/api/assignments/history?entity_id="+deptID+"&entity_kind=department", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	history, ok := payload["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 2)

	newest := history[0].(map[string]any)
	require.Equal(t, "Bob Toua", newest["holder_name"])
	require.Equal(t, true, newest["is_current"])
	oldest := history[1].(map[string]any)
	require.Equal(t, "Alice Kama", oldest["holder_name"])
	require.Equal(t, false, oldest["is_current"])
	require.Equal(t, "2024-06-01", oldest["end_date"])
}

func TestGetCurrentAssignmentWithoutHolder(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/staffing/api/assignments/current?entity_id=0f0e96a2-1a86-4f07-9f9d-7c10a7b3b0aa&role=coordinator", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "STAFFING_NO_CURRENT_HOLDER", body["code"])
}

func TestCreateAssignmentRejectsBadInput(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/staffing/api/assignments", map[string]any{
		"entity_id": "not-a-uuid",
		"role":      "head",
		"holder_id": "also-not-a-uuid",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/staffing/api/assignments", map[string]any{
		"entity_id": "0f0e96a2-1a86-4f07-9f9d-7c10a7b3b0aa",
		"holder_id": "1f0e96a2-1a86-4f07-9f9d-7c10a7b3b0ab",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, "neither role nor entity_kind given")

	rec = f.do(t, http.MethodPost, "/staffing/api/assignments", map[string]any{
		"entity_id":   "0f0e96a2-1a86-4f07-9f9d-7c10a7b3b0aa",
		"entity_kind": "faculty",
		"holder_id":   "1f0e96a2-1a86-4f07-9f9d-7c10a7b3b0ab",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, "unknown entity kind")
}

func TestEmploymentEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	carol, err := f.staff.Create(context.Background(), "NPI-0003", "Carol", "Aihi", "carol@example.edu")
	require.NoError(t, err)
	staffID := carol.ID().String()
	deptA := "aaaa96a2-1a86-4f07-9f9d-7c10a7b3b0aa"
	deptB := "bbbb96a2-1a86-4f07-9f9d-7c10a7b3b0aa"

	rec := f.do(t, http.MethodPost, "/staffing/api/employments", map[string]any{
		"staff_id":      staffID,
		"department_id": deptA,
		"is_primary":    true,
		"start_date":    "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeBody(t, rec)
	firstID := first["id"].(string)

	rec = f.do(t, http.MethodPost, "/staffing/api/employments", map[string]any{
		"staff_id":      staffID,
		"department_id": deptB,
		"is_primary":    true,
		"start_date":    "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/staffing/api/employments?staff_id="+staffID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody(t, rec)
	employments := listed["employments"].([]any)
	require.Len(t, employments, 2)

	primaries := 0
	for _, raw := range employments {
		e := raw.(map[string]any)
		require.Equal(t, true, e["is_current"])
		if e["is_primary"] == true {
			primaries++
			require.Equal(t, deptB, e["department_id"])
		}
	}
	require.Equal(t, 1, primaries)

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/staffing/api/employments/%s:set-primary", firstID), map[string]any{
		"staff_id": staffID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	promoted := decodeBody(t, rec)
	require.Equal(t, true, promoted["is_primary"])

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/staffing/api/employments/%s:end", firstID), map[string]any{
		"staff_id": staffID,
		"end_date": "2024-07-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ended := decodeBody(t, rec)
	require.Equal(t, false, ended["is_current"])
	require.Equal(t, "2024-07-01", ended["end_date"])

	rec = f.do(t, http.MethodPost, fmt.Sprintf("/staffing/api/employments/%s:end", firstID), map[string]any{
		"staff_id": staffID,
		"end_date": "2024-08-01",
	})
	require.Equal(t, http.StatusNotFound, rec.Code, "already closed")
}
