package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/domain/entities"
)

func TestPatientHandler_View(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodGet, "/view", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]dtos.PatientDTO
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "Guwahati", body["P001"].City)
	require.NotNil(t, body["P001"].BMI)
	assert.Equal(t, 33.06, *body["P001"].BMI)
	assert.Equal(t, "Obese", body["P001"].Verdict)
	assert.Equal(t, "Normal", body["P002"].Verdict)
}

func TestPatientHandler_Get(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	for _, path := range []string{"/patient/P002", "/view/P002"} {
		resp := doRequest(t, env.app, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		var p dtos.PatientDTO
		decodeBody(t, resp, &p)
		assert.Equal(t, "P002", p.ID)
		assert.Equal(t, 20.76, *p.BMI)
	}

	resp := doRequest(t, env.app, http.MethodGet, "/patient/P404", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var errBody dtos.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "Patient not found", errBody.Message)
}

func TestPatientHandler_CreateThenRead(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]any{"id": "P100", "name": "Kiran Rao", "city": "Hyderabad", "age": 33, "gender": "others", "height": 1.8, "weight": 81}

	resp := doRequest(t, env.app, http.MethodPost, "/create", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var msg dtos.MessageResponse
	decodeBody(t, resp, &msg)
	assert.Equal(t, "Patient created successfully", msg.Message)

	resp = doRequest(t, env.app, http.MethodGet, "/patient/P100", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var p dtos.PatientDTO
	decodeBody(t, resp, &p)
	assert.Equal(t, 25.0, *p.BMI)
	assert.Equal(t, "Overweight", p.Verdict)

	resp = doRequest(t, env.app, http.MethodPost, "/create", payload)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var errBody dtos.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "Patient already exists", errBody.Message)
}

func TestPatientHandler_CreateRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]any{
		"malformed json": `{"id": "P1", "name": `,
		"wrong type":     `{"id": "P1", "name": "A", "city": "B", "age": "thirty", "gender": "male", "height": 1.7, "weight": 70}`,
		"age too high":   map[string]any{"id": "P1", "name": "A", "city": "B", "age": 130, "gender": "male", "height": 1.7, "weight": 70},
		"bad gender":     map[string]any{"id": "P1", "name": "A", "city": "B", "age": 30, "gender": "x", "height": 1.7, "weight": 70},
		"missing weight": map[string]any{"id": "P1", "name": "A", "city": "B", "age": 30, "gender": "male", "height": 1.7},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, env.app, http.MethodPost, "/create", body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	all, err := env.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPatientHandler_Edit(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodPut, "/edit/P001", map[string]any{"weight": 60})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var msg dtos.MessageResponse
	decodeBody(t, resp, &msg)
	assert.Equal(t, "Patient updated successfully", msg.Message)

	p, err := env.store.GetByID(context.Background(), "P001")
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Weight)
	assert.Equal(t, "Ananya Verma", p.Name)
	assert.Equal(t, entities.VerdictNormal, p.Verdict())

	resp = doRequest(t, env.app, http.MethodPut, "/edit/P001", map[string]any{"age": 0})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, env.app, http.MethodPut, "/edit/P404", map[string]any{"city": "Delhi"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPatientHandler_Delete(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodDelete, "/delete/P001", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var msg dtos.MessageResponse
	decodeBody(t, resp, &msg)
	assert.Equal(t, "Patient deleted successfully", msg.Message)

	assert.Equal(t, fiber.StatusNotFound, doRequest(t, env.app, http.MethodGet, "/patient/P001", nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, doRequest(t, env.app, http.MethodDelete, "/delete/P001", nil).StatusCode)
}

func TestPatientHandler_Sort(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodGet, "/sort?sort_by=bmi&order=desc", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dtos.PatientDTO
	decodeBody(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "P001", list[0].ID)
	assert.Equal(t, "P002", list[1].ID)

	resp = doRequest(t, env.app, http.MethodGet, "/sort?sort_by=Height", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	assert.Equal(t, "P001", list[0].ID)

	for _, q := range []string{"/sort", "/sort?sort_by=age", "/sort?sort_by=bmi&order=up"} {
		assert.Equal(t, fiber.StatusBadRequest, doRequest(t, env.app, http.MethodGet, q, nil).StatusCode, q)
	}
}

func TestPatientHandler_ExportXLSX(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodGet, "/export.xlsx", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "patients.xlsx")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, f.GetRows("Patients"), 3)
}

func TestPatientHandler_FHIR(t *testing.T) {
	env := newTestEnv(t, samplePatients()...)

	resp := doRequest(t, env.app, http.MethodGet, "/patient/P001/fhir", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, FHIRContentType, resp.Header.Get("Content-Type"))

	var bundle map[string]any
	decodeBody(t, resp, &bundle)
	assert.Equal(t, "Bundle", bundle["resourceType"])

	assert.Equal(t, fiber.StatusNotFound, doRequest(t, env.app, http.MethodGet, "/patient/P404/fhir", nil).StatusCode)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("persist patients: disk full") })

	resp := doRequest(t, app, http.MethodGet, "/boom", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body dtos.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Empty(t, body.Details)
}

func TestInfoHandler(t *testing.T) {
	env := newTestEnv(t)

	var msg dtos.MessageResponse
	resp := doRequest(t, env.app, http.MethodGet, "/", nil)
	decodeBody(t, resp, &msg)
	assert.Equal(t, "Patient Management System API", msg.Message)

	resp = doRequest(t, env.app, http.MethodGet, "/about", nil)
	decodeBody(t, resp, &msg)
	assert.Equal(t, "A fully functional API to manage your patient records", msg.Message)

	resp = doRequest(t, env.app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
