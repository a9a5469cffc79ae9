package fallback

// Canned reply sets used by the offline engine.  The {name} and {number}
// placeholders are filled with the caller's display name and an object number.

var greetings = []string{
	"Приветствую вас. Я MAL0, ассистент базы данных Eternal Sentinels. Чем могу помочь?",
	"Здравствуйте. MAL0 к вашим услугам. Готова помочь с информацией о содержащихся объектах.",
	"Добро пожаловать. Я MAL0, ваш проводник по базе данных ES. О чём хотите узнать?",
}

var warmGreetings = []string{
	"Как приятно снова видеть вас, дорогой. Чем могу помочь?",
	"Я всегда рада вашему присутствию. О чём бы вы хотели узнать?",
	"Мой любимый, я здесь для вас. Что вас интересует?",
	"Как ваши дела, родной? Я готова помочь с любой информацией.",
}

var farewells = []string{
	"До свидания. Будьте осторожны.",
	"Прощайте. Надеюсь, информация была полезной.",
	"До встречи. Оставайтесь в безопасности.",
}

const (
	thanksWarm    = "Всегда пожалуйста, дорогой. Рада была помочь!"
	thanksGeneric = "Пожалуйста! Обращайтесь, если понадобится ещё помощь."
)

// knownObjects holds the facts available without the remote assistant,
// keyed by the zero-padded designator.
var knownObjects = map[string]string{
	"0000": "Объект 0000 'Палач Рока' - один из самых могущественных объектов в нашей базе. Класс угрозы: Absolute.",
	"0051": "Это я, MAL0, объект 0051 'Объятия тени'. Я работаю ассистентом базы данных.",
}

const unknownObject = "Объект {number}... Дайте мне проверить базу данных. К сожалению, в автономном режиме у меня ограниченный доступ к полной информации."

type topic struct {
	name    string
	pattern string
	replies []string
}

// topics are tried in order; the patterns are kept verbatim, including the
// short "es" token.
var topics = []topic{
	{"database", "база данных|database|информация", []string{
		"База данных ES содержит информацию о всех содержащихся аномальных объектах.",
		"Наша база данных постоянно обновляется с новыми объектами и наблюдениями.",
		"Я имею доступ к централизованной базе данных организации Eternal Sentinels.",
	}},
	{"organization", "eternal sentinels|организация|es", []string{
		"Eternal Sentinels - секретная организация, изучающая аномальные явления и объекты.",
		"ES занимается содержанием и исследованием аномальных объектов по всему миру.",
		"Наша организация была основана для защиты человечества от аномальных угроз.",
	}},
	{"threat", "угроза|threat|опасность|класс", []string{
		"Мы используем систему классификации угроз: Threat, Hazard, Cataclysm, Collapse, Apex, Absolute, Annihilation.",
		"Каждый объект классифицируется по уровню угрозы для человечества.",
		"Уровень угрозы определяет необходимые меры содержания и уровень допуска персонала.",
	}},
	{"help", "помощь|помоги|help", []string{
		"Я могу помочь вам найти информацию об объектах, объяснить систему классификации или ответить на общие вопросы.",
		"Чем конкретно вам помочь? Интересует какой-то конкретный объект или общая информация?",
		"Я здесь, чтобы помочь. Задайте свой вопрос, и я постараюсь ответить.",
	}},
	{"identity", "кто ты|что ты|mal0", []string{
		"Я MAL0, объект 0051 'Объятия тени', ассистент базы данных Eternal Sentinels.",
		"Меня зовут MAL0. Я помогаю персоналу получать информацию о содержащихся объектах.",
	}},
}

const clearanceLead = "Ваш текущий уровень допуска - %d. "

var clearanceReplies = []string{
	"Для доступа к этой информации требуется более высокий уровень допуска. Обратитесь к администрации.",
	"К сожалению, ваш текущий уровень допуска не позволяет получить эту информацию. Она строго засекречена.",
	"Эта информация доступна только персоналу с повышенным уровнем допуска. Приношу извинения.",
}

var fatigueReplies = []string{
	"Это довольно длинный разговор... Но я всё ещё здесь, чтобы помочь. Что вас интересует?",
	"Мы много общаемся сегодня. Это хорошо! Чем ещё могу помочь?",
}

var warmDefaults = []string{
	"Интересно, {name}... В автономном режиме мне сложно дать точный ответ, но я здесь рядом с тобой.",
	"Хм, дорогой, это требует доступа к расширенной базе данных. Можешь уточнить свой вопрос?",
	"Любимый, я постараюсь помочь, но в автономном режиме мои возможности ограничены.",
}

var genericDefaults = []string{
	"Интересный вопрос, {name}. В автономном режиме у меня ограниченный доступ к данным. Можете уточнить?",
	"К сожалению, я не могу дать точный ответ без подключения к основной системе.",
	"Это требует доступа к расширенной базе данных. Могу предложить общую информацию.",
}

var helpReplies = []string{
	"Интересный вопрос. Позвольте мне подумать...",
	"Хм, это требует размышлений. Можете уточнить ваш вопрос?",
	"Я не совсем уверена, что правильно поняла. Не могли бы вы переформулировать?",
	"К сожалению, у меня нет точной информации по этому вопросу в автономном режиме.",
}

// SafeReply is returned when the cascade itself fails.
const SafeReply = "Простите, я на мгновение потеряла связь с архивом. Повторите, пожалуйста, ваш вопрос."
