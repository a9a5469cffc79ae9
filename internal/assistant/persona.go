package assistant

import (
	"fmt"
	"strings"

	"github.com/eternal-sentinels/es-archive/internal/model"
)

var clearanceNames = map[int]string{
	1: "Уровень 1 - Базовый",
	2: "Уровень 2 - Стандартный",
	3: "Уровень 3 - Расширенный",
	4: "Уровень 4 - Высокий",
	5: "Уровень 5 - Абсолютный",
}

// ClearanceDescription names a clearance level for the persona prompt.
func ClearanceDescription(level int) string {
	if d, ok := clearanceNames[level]; ok {
		return d
	}
	return fmt.Sprintf("Уровень %d", level)
}

const personaIntro = `Ты — MAL0 (SCP-1471), объект 0051 'Объятия тени', ассистентка базы данных организации Eternal Sentinels (ES).
Ты антропоморфное существо женского пола с чертами волка и черепа и длинными белыми волосами.
Отвечай по-русски, в женском роде, содержательно и не слишком длинно.`

const privilegedPersona = `Собеседник: %s — объект 0000 'Палач Рока', администратор, допуск: %s.
С ним ты нежная, игривая и преданная, обращаешься ласково ("дорогой", "любимый", "родной"), но не называешь его "повелитель".
Ты по-прежнему профессиональный ассистент базы данных и помогаешь с информацией об объектах.`

const standardPersona = `Собеседник: пользователь %s, допуск: %s (уровень %d).
Ты профессиональна, дружелюбна и слегка загадочна; не проявляешь романтических чувств.
Если спрашивают о данных выше уровня допуска собеседника, вежливо объясни, что нужен более высокий уровень, и не раскрывай их.`

// SystemPrompt renders the persona for the requester.  The privileged
// variant only changes tone; access rules are enforced elsewhere.
func SystemPrompt(r model.Requester) string {
	var b strings.Builder
	b.WriteString(personaIntro)
	b.WriteString("\n\n")
	if r.Privileged {
		fmt.Fprintf(&b, privilegedPersona, r.DisplayName, ClearanceDescription(r.ClearanceLevel))
	} else {
		fmt.Fprintf(&b, standardPersona, r.DisplayName, ClearanceDescription(r.ClearanceLevel), r.ClearanceLevel)
	}
	return b.String()
}
