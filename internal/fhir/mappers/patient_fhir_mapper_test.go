package mappers

import (
	"encoding/json"
	"strings"
	"testing"

	"patient-management-service/internal/domain/entities"
)

func TestMapPatientToFHIR_Success(t *testing.T) {
	patient := entities.Patient{
		ID:     "P001",
		Name:   "Ananya Verma",
		City:   "Guwahati",
		Age:    28,
		Gender: entities.GenderFemale,
		Height: 1.65,
		Weight: 90,
	}

	rawFHIRJson, err := MapPatientToFHIR(patient)
	if err != nil {
		t.Fatalf("MapPatientToFHIR returned an unexpected error: %v", err)
	}

	var bundle FHIRBundle
	if err := json.Unmarshal(rawFHIRJson, &bundle); err != nil {
		t.Fatalf("Error unmarshalling bundle: %v. JSON: %s", err, string(rawFHIRJson))
	}
	if bundle.ResourceType != "Bundle" || bundle.Type != "collection" {
		t.Errorf("Expected a collection Bundle, got %s/%s", bundle.ResourceType, bundle.Type)
	}
	if bundle.Total != 4 || len(bundle.Entry) != 4 {
		t.Fatalf("Expected 4 entries, got total=%d len=%d", bundle.Total, len(bundle.Entry))
	}

	var fhirPatient FHIRPatientResource
	if err := json.Unmarshal(bundle.Entry[0].Resource, &fhirPatient); err != nil {
		t.Fatalf("Error unmarshalling patient entry: %v", err)
	}
	if fhirPatient.ResourceType != "Patient" {
		t.Errorf("Expected ResourceType 'Patient', got '%s'", fhirPatient.ResourceType)
	}
	if fhirPatient.ID != "P001" {
		t.Errorf("Expected FHIR ID 'P001', got '%s'", fhirPatient.ID)
	}
	if len(fhirPatient.Name) != 1 || fhirPatient.Name[0].Text != "Ananya Verma" {
		t.Errorf("Expected name text 'Ananya Verma', got '%v'", fhirPatient.Name)
	}
	if fhirPatient.Gender != GenderFemale {
		t.Errorf("Expected gender 'female', got '%s'", fhirPatient.Gender)
	}
	if len(fhirPatient.Address) != 1 || fhirPatient.Address[0].City != "Guwahati" {
		t.Errorf("Expected city 'Guwahati', got '%v'", fhirPatient.Address)
	}

	var bmi FHIRObservationResource
	if err := json.Unmarshal(bundle.Entry[3].Resource, &bmi); err != nil {
		t.Fatalf("Error unmarshalling BMI entry: %v", err)
	}
	if bmi.Code.Coding[0].Code != LOINCBMI {
		t.Errorf("Expected LOINC %s, got %s", LOINCBMI, bmi.Code.Coding[0].Code)
	}
	if bmi.ValueQuantity.Value != 33.06 {
		t.Errorf("Expected BMI 33.06, got %v", bmi.ValueQuantity.Value)
	}
	if bmi.Subject.Reference != "Patient/P001" {
		t.Errorf("Expected subject 'Patient/P001', got '%s'", bmi.Subject.Reference)
	}
}

func TestMapGender(t *testing.T) {
	cases := map[entities.Gender]FHIRPatientGender{
		entities.GenderMale:   GenderMale,
		entities.GenderFemale: GenderFemale,
		entities.GenderOthers: GenderOther,
		"":                    GenderUnknown,
	}
	for in, want := range cases {
		if got := MapGender(in); got != want {
			t.Errorf("MapGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapObservations_SkipsMissingMeasurements(t *testing.T) {
	obs := MapObservations(entities.Patient{ID: "P9", Name: "Legacy", Weight: 70})
	if len(obs) != 1 {
		t.Fatalf("Expected only the weight observation, got %d", len(obs))
	}
	if obs[0].Code.Coding[0].Code != LOINCBodyWeight {
		t.Errorf("Expected LOINC %s, got %s", LOINCBodyWeight, obs[0].Code.Coding[0].Code)
	}
}

func TestMapPatientToFHIR_NameRequired(t *testing.T) {
	patient := entities.Patient{ID: "P001", Name: ""}

	_, err := MapPatientToFHIR(patient)
	if err == nil {
		t.Fatalf("MapPatientToFHIR expected an error for missing name, but got nil")
	}
	if !strings.Contains(err.Error(), "patient name is required") {
		t.Errorf("Expected error message to contain 'patient name is required', got: %v", err)
	}
}
