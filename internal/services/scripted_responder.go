package services

import (
	"fmt"
	"strings"
)

// ScriptedResponder is the coach's keyword-to-reply lookup. Emotional
// keywords win over everything; otherwise the reply depends on whether the
// user has anything on their board yet.
type ScriptedResponder struct{}

func NewScriptedResponder() *ScriptedResponder {
	return &ScriptedResponder{}
}

func (ScriptedResponder) Reply(text string, rctx ReplyContext) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "triste", "depri", "llorar", "soledad"):
		return "Siento que estés pasando por esto. Está bien no estar bien a veces. " +
			"Recuerda: tu valor no depende de tu productividad de hoy, ni de quien se fue. " +
			"Tu valor es intrínseco. Tómate un respiro, bebe agua y cuando estés listo, demos un paso pequeño. Solo uno."

	case containsAny(lower, "novia", "pareja", "dejo", "dejó", "cortamos", "amor"):
		return "Las rupturas son duras, hermano. El dolor es real, pero también es combustible. " +
			"Ahora tienes todo este tiempo y energía para reinvertirlo en TI. " +
			"Conviértete en la versión de ti mismo que esa persona lamentará haber perdido. Vamos a construir ese imperio juntos."

	case containsAny(lower, "fracas", "no puedo", "rendir", "imposible"):
		return "El único fracaso real es no intentarlo. ¿Sabías que los aviones despegan contra el viento? " +
			"Si sientes resistencia, es porque estás a punto de despegar. No mires la cima de la montaña, mira solo el siguiente paso."
	}

	if !rctx.HasHabits && !rctx.HasGoals {
		if containsAny(lower, "hola", "empezar") {
			name := rctx.FirstName
			if name == "" {
				name = "Campeón"
			}
			return fmt.Sprintf("¡Hola %s! Veo que tu tablero está limpio. Eso es un lienzo en blanco perfecto. "+
				"¿Por qué no vamos a 'Metas' y creamos tu primer hábito simple? (Ej: Beber agua).", name)
		}
		return "Entiendo. Para ayudarte mejor, necesito que definamos hacia dónde vamos. " +
			"Aún no tienes metas registradas. ¿Qué es lo primero que quieres lograr este año?"
	}

	switch {
	case strings.Contains(lower, "hola"):
		return "¡Hola de nuevo! Tus metas te están esperando. ¿Listo para atacar el día?"
	case strings.Contains(lower, "gracias"):
		return "Estamos en el mismo equipo. 👊"
	default:
		return "Interesante perspectiva. ¿Cómo podemos usar esa energía para avanzar en tus objetivos hoy?"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
