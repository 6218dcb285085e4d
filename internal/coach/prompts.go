package coach

import "fmt"

// summaryInstruction builds the sports-physiologist system prompt that embeds
// the user's biometrics and the sport being analyzed.
func summaryInstruction(b Biometrics, sportName string) string {
	return fmt.Sprintf(`Eres un fisiólogo deportivo experto. El usuario ha terminado un entrenamiento de %s.
Datos del usuario: Edad %s años, Peso %skg, Altura %scm.
Analiza su descripción del entreno y estima métricas precisas.
Debes devolver un JSON con:
- calories (número)
- weightLoss (número en kg, pérdida de líquidos)
- intensity (número 1-10)
- recoveryTip (string breve)
- fatigueIndex (número 1-100)`, sportName, b.Age, b.Weight, b.Height)
}

// ExerciseImagePrompt wraps a user request in the technical-illustration
// style used for in-chat exercise visualizations.
func ExerciseImagePrompt(request, sportName string) string {
	return fmt.Sprintf("Un dibujo profesional y minimalista de un atleta realizando el siguiente ejercicio de %s: %s. Estilo caricatura limpia, fondo neutro oscuro, alta calidad, enfocado en la técnica correcta.", sportName, request)
}

// AvatarPrompt wraps a physical description in the profile-avatar style.
func AvatarPrompt(description string) string {
	return fmt.Sprintf(`Foto de perfil de una persona, estilo caricatura digital moderna y limpia (estilo Avataaars o Pixar simplificado).
Descripción física: %s.
Composición: Mirando directamente a la cámara (al frente), busto centrado, fondo de color sólido vibrante y plano.
Calidad: Líneas nítidas, colores saturados, sin sombras complejas, diseño de personaje amigable.`, description)
}
