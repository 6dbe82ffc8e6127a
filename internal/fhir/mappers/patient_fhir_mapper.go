package mappers

import (
	"encoding/json"
	"fmt"

	"patient-management-service/internal/domain/entities"
)

// LOINC codes of the vital-sign observations derived from a patient record.
const (
	LOINCBodyHeight = "8302-2"
	LOINCBodyWeight = "29463-7"
	LOINCBMI        = "39156-5"

	loincSystem = "http://loinc.org"
	ucumSystem  = "http://unitsofmeasure.org"
)

// FHIRHumanName represents a FHIR HumanName data type.
type FHIRHumanName struct {
	Use  string `json:"use,omitempty"`
	Text string `json:"text,omitempty"`
}

// FHIRAddress represents a FHIR Address data type.
type FHIRAddress struct {
	City string `json:"city,omitempty"`
}

// FHIRPatientGender represents the administrative gender of a patient.
// FHIR values: male | female | other | unknown
type FHIRPatientGender string

const (
	GenderMale    FHIRPatientGender = "male"
	GenderFemale  FHIRPatientGender = "female"
	GenderOther   FHIRPatientGender = "other"
	GenderUnknown FHIRPatientGender = "unknown"
)

// FHIRPatientResource represents a simplified FHIR Patient resource.
type FHIRPatientResource struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id,omitempty"`
	Name         []FHIRHumanName   `json:"name,omitempty"`
	Gender       FHIRPatientGender `json:"gender,omitempty"`
	Address      []FHIRAddress     `json:"address,omitempty"`
}

type FHIRCoding struct {
	System  string `json:"system"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

type FHIRCodeableConcept struct {
	Coding []FHIRCoding `json:"coding"`
	Text   string       `json:"text,omitempty"`
}

type FHIRReference struct {
	Reference string `json:"reference"`
}

type FHIRQuantity struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	System string  `json:"system"`
	Code   string  `json:"code"`
}

// FHIRObservationResource is a vital-sign Observation.
type FHIRObservationResource struct {
	ResourceType  string              `json:"resourceType"`
	ID            string              `json:"id,omitempty"`
	Status        string              `json:"status"`
	Code          FHIRCodeableConcept `json:"code"`
	Subject       FHIRReference       `json:"subject"`
	ValueQuantity FHIRQuantity        `json:"valueQuantity"`
}

// FHIRBundleEntry wraps one resource in a Bundle.
type FHIRBundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource"`
}

// FHIRBundle is a collection Bundle.
type FHIRBundle struct {
	ResourceType string            `json:"resourceType"`
	Type         string            `json:"type"`
	Total        int               `json:"total"`
	Entry        []FHIRBundleEntry `json:"entry"`
}

// MapGender converts the record gender to its FHIR code.
func MapGender(g entities.Gender) FHIRPatientGender {
	switch g {
	case entities.GenderMale:
		return GenderMale
	case entities.GenderFemale:
		return GenderFemale
	case entities.GenderOthers:
		return GenderOther
	default:
		return GenderUnknown
	}
}

// MapPatient converts a patient record to a FHIR Patient resource.
func MapPatient(patient entities.Patient) (FHIRPatientResource, error) {
	if patient.Name == "" {
		return FHIRPatientResource{}, fmt.Errorf("patient name is required for FHIR mapping")
	}
	res := FHIRPatientResource{
		ResourceType: "Patient",
		ID:           patient.ID,
		Name:         []FHIRHumanName{{Use: "official", Text: patient.Name}},
		Gender:       MapGender(patient.Gender),
	}
	if patient.City != "" {
		res.Address = []FHIRAddress{{City: patient.City}}
	}
	return res, nil
}

// MapObservations derives height, weight and BMI observations. Values that
// are not positive are left out.
func MapObservations(patient entities.Patient) []FHIRObservationResource {
	subject := FHIRReference{Reference: "Patient/" + patient.ID}
	var out []FHIRObservationResource
	add := func(suffix, code, display string, q FHIRQuantity) {
		out = append(out, FHIRObservationResource{
			ResourceType: "Observation",
			ID:           patient.ID + "-" + suffix,
			Status:       "final",
			Code: FHIRCodeableConcept{
				Coding: []FHIRCoding{{System: loincSystem, Code: code, Display: display}},
				Text:   display,
			},
			Subject:       subject,
			ValueQuantity: q,
		})
	}
	if patient.Height > 0 {
		add("height", LOINCBodyHeight, "Body height", FHIRQuantity{Value: patient.Height, Unit: "m", System: ucumSystem, Code: "m"})
	}
	if patient.Weight > 0 {
		add("weight", LOINCBodyWeight, "Body weight", FHIRQuantity{Value: patient.Weight, Unit: "kg", System: ucumSystem, Code: "kg"})
	}
	if bmi, ok := patient.BMI(); ok {
		add("bmi", LOINCBMI, "Body mass index", FHIRQuantity{Value: bmi, Unit: "kg/m2", System: ucumSystem, Code: "kg/m2"})
	}
	return out
}

// MapPatientToFHIR converts a patient record to a collection Bundle holding
// the Patient resource and its vital-sign observations.
func MapPatientToFHIR(patient entities.Patient) (json.RawMessage, error) {
	fhirPatient, err := MapPatient(patient)
	if err != nil {
		return nil, err
	}

	bundle := FHIRBundle{ResourceType: "Bundle", Type: "collection"}
	appendEntry := func(kind, id string, resource any) error {
		raw, err := json.Marshal(resource)
		if err != nil {
			return fmt.Errorf("error marshalling FHIR %s resource: %w", kind, err)
		}
		bundle.Entry = append(bundle.Entry, FHIRBundleEntry{FullURL: kind + "/" + id, Resource: raw})
		return nil
	}

	if err := appendEntry("Patient", fhirPatient.ID, fhirPatient); err != nil {
		return nil, err
	}
	for _, obs := range MapObservations(patient) {
		if err := appendEntry("Observation", obs.ID, obs); err != nil {
			return nil, err
		}
	}
	bundle.Total = len(bundle.Entry)

	rawJSON, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling FHIR bundle to JSON: %w", err)
	}
	return rawJSON, nil
}
