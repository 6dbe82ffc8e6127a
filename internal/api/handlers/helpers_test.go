package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/entities"
	"patient-management-service/internal/services"
	"patient-management-service/internal/storage/jsonfile"
	"patient-management-service/internal/validation"
)

type testEnv struct {
	app      *fiber.App
	store    *jsonfile.Store
	patients *services.PatientServiceImpl
}

func newTestEnv(t *testing.T, seed ...*entities.Patient) *testEnv {
	t.Helper()
	store, err := jsonfile.Open(filepath.Join(t.TempDir(), "patients.json"), zerolog.Nop())
	require.NoError(t, err)
	for _, p := range seed {
		require.NoError(t, store.Create(context.Background(), p))
	}

	v := validation.New(nil)
	patients := services.NewPatientService(store, nil, v, zerolog.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop()), UnescapePath: true})
	pass := func(c *fiber.Ctx) error { return c.Next() }
	RegisterInfoRoutes(app, NewInfoHandler(patients))
	RegisterPatientRoutes(app, NewPatientHandler(patients, adapters.NewExcelExporter(), zerolog.Nop()), pass)
	RegisterTransferRoutes(app, NewTransferHandler(services.NewTransferService(store, zerolog.Nop()), zerolog.Nop()))
	RegisterTextRoutes(app, NewTextHandler())
	RegisterUserRoutes(app, NewUserHandler(v))

	return &testEnv{app: app, store: store, patients: patients}
}

func samplePatients() []*entities.Patient {
	return []*entities.Patient{
		{ID: "P001", Name: "Ananya Verma", City: "Guwahati", Age: 28, Gender: entities.GenderFemale, Height: 1.65, Weight: 90},
		{ID: "P002", Name: "Ravi Kumar", City: "Chennai", Age: 52, Gender: entities.GenderMale, Height: 1.70, Weight: 60},
	}
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
