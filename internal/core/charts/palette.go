package charts

import "incidencia/internal/core/incident"

// DefaultYearColor marks years outside the palette
const DefaultYearColor = "#FF0000"

var yearColors = map[incident.Year]string{
	2018: "#2C3E50",
	2019: "#27AE60",
	2020: "#3498DB",
	2021: "#F1C40F",
	2022: "#E67E22",
	2023: "#9B59B6",
	2024: "#95A5A6",
	2025: "#E74C3C",
}

// YearColor returns the marker and series color of y
func YearColor(y incident.Year) string {
	if c, ok := yearColors[y]; ok {
		return c
	}
	return DefaultYearColor
}

var metroColors = []string{
	"#2C3E50", "#27AE60", "#3498DB", "#F1C40F", "#E67E22",
	"#9B59B6", "#95A5A6", "#E74C3C", "#34495E",
}

const interiorColor = "#20C997"

func metroColor(i int, bucket string) string {
	if bucket == InteriorLabel || i >= len(metroColors) {
		return interiorColor
	}
	return metroColors[i]
}

var crimeColors = map[string]string{
	incident.FamilyViolence:   "#E67E22",
	incident.ChildSexualAbuse: "#9B59B6",
	incident.Rape:             "#3498DB",
	incident.Femicide:         "#E74C3C",
	incident.UnknownCrimeType: "#95A5A6",
}
