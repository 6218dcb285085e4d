package sport

// ID identifies one of the built-in disciplines.
type ID string

const (
	Futbol     ID = "futbol"
	Baloncesto ID = "baloncesto"
	Running    ID = "running"
	Fitness    ID = "fitness"
)

// StatItem is one tile on the stats tab.
type StatItem struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	SubValue string `json:"subValue"`
	Icon     string `json:"icon"`
}

// Definition is the static configuration for a discipline: display data plus
// the persona instruction handed to the coach service.
type Definition struct {
	ID               ID         `json:"id"`
	Name             string     `json:"name"`
	Icon             string     `json:"icon"`
	Color            string     `json:"color"`
	CoachName        string     `json:"coachName"`
	CoachInstruction string     `json:"-"`
	StatsTitle       string     `json:"statsTitle"`
	LogLabel         string     `json:"logLabel"`
	StatsItems       []StatItem `json:"statsItems"`
}

var catalog = []Definition{
	{
		ID:               Futbol,
		Name:             "Fútbol",
		Icon:             "sports_soccer",
		Color:            "#4ADE80",
		CoachName:        "Tactik",
		CoachInstruction: "Eres un entrenador de fútbol de élite. Habla con terminología táctica, enfócate en visión de juego, control orientado y explosividad.",
		StatsTitle:       "Rendimiento Táctico",
		LogLabel:         "Goles metidos",
		StatsItems: []StatItem{
			{Label: "Velocidad Punta", Value: "32", SubValue: "km/h", Icon: "speed"},
			{Label: "Precisión Pase", Value: "88", SubValue: "%", Icon: "ads_click"},
			{Label: "Goles Totales", Value: "0", SubValue: "goles", Icon: "sports_soccer"},
		},
	},
	{
		ID:               Baloncesto,
		Name:             "Baloncesto",
		Icon:             "sports_basketball",
		Color:            "#FF6B00",
		CoachName:        "Hoop",
		CoachInstruction: "Eres un coach de baloncesto profesional. Enfócate en mecánica de tiro, salto vertical y IQ baloncestístico.",
		StatsTitle:       "Métricas de Pista",
		LogLabel:         "Puntos anotados",
		StatsItems: []StatItem{
			{Label: "Salto Vertical", Value: "+5", SubValue: "cm", Icon: "straighten"},
			{Label: "Efectividad Tiro", Value: "42", SubValue: "%", Icon: "target"},
			{Label: "Puntos Hoy", Value: "0", SubValue: "pts", Icon: "emoji_events"},
		},
	},
	{
		ID:               Running,
		Name:             "Running",
		Icon:             "directions_run",
		Color:            "#0EA5E9",
		CoachName:        "Pace",
		CoachInstruction: "Eres un entrenador de atletismo. Enfócate en ritmos de carrera, VO2 Max, cadencia y umbral de lactato.",
		StatsTitle:       "Análisis de Carrera",
		LogLabel:         "Kilómetros hoy",
		StatsItems: []StatItem{
			{Label: "VO2 Max", Value: "54", SubValue: "ml/kg", Icon: "insights"},
			{Label: "Ritmo Medio", Value: "4:12", SubValue: "min/km", Icon: "speed"},
			{Label: "Distancia Hoy", Value: "0", SubValue: "km", Icon: "route"},
		},
	},
	{
		ID:               Fitness,
		Name:             "Fitness",
		Icon:             "fitness_center",
		Color:            "#A1A1AA",
		CoachName:        "Iron",
		CoachInstruction: "Eres un entrenador personal de gimnasio. Enfócate en técnica de levantamiento, hipertrofia y progresión de cargas.",
		StatsTitle:       "Análisis de Fuerza",
		LogLabel:         "Series completadas",
		StatsItems: []StatItem{
			{Label: "Volumen Total", Value: "12k", SubValue: "kg", Icon: "fitness_center"},
			{Label: "Intensidad", Value: "85", SubValue: "%", Icon: "bolt"},
			{Label: "Series Hoy", Value: "0", SubValue: "sets", Icon: "fitness_center"},
		},
	},
}

// All returns every discipline in display order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns every discipline identifier in display order.
func IDs() []ID {
	ids := make([]ID, len(catalog))
	for i, d := range catalog {
		ids[i] = d.ID
	}
	return ids
}

// ByID looks up a discipline. ok is false for unknown identifiers.
func ByID(id ID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
