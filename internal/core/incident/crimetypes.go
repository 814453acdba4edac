package incident

import "incidencia/internal/core/normalize"

// The four canonical crime types, as folded filter terms
const (
	FamilyViolence   = "violencia familiar"
	ChildSexualAbuse = "abuso sexual infantil"
	Rape             = "violacion"
	Femicide         = "feminicidio"
)

// CanonicalCrimeTypes is the default pivot selection, in chart order
var CanonicalCrimeTypes = []string{FamilyViolence, ChildSexualAbuse, Rape, Femicide}

// Unknown crime bucket used by charts
const UnknownCrimeType = "desconocido"

var crimeLabels = map[string]string{
	FamilyViolence:   "Violencia familiar",
	ChildSexualAbuse: "Abuso sexual infantil",
	Rape:             "Violación",
	Femicide:         "Feminicidio",
	UnknownCrimeType: "Desconocido",
}

// CanonicalCrimeType maps a free text crime type to one of the canonical
// keys when it folds to exactly that key, else UnknownCrimeType
func CanonicalCrimeType(s string) string {
	k := normalize.Fold(s)
	if _, ok := crimeLabels[k]; ok && k != UnknownCrimeType {
		return k
	}
	return UnknownCrimeType
}

// CrimeTypeLabel returns the display label of a canonical key
func CrimeTypeLabel(key string) string {
	if l, ok := crimeLabels[key]; ok {
		return l
	}
	return key
}
