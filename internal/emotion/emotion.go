// Package emotion assigns a coarse presentation mood to a piece of text by
// keyword voting.
package emotion

import "strings"

// Label is one of the closed set of moods attached to assistant replies.
type Label string

const (
	Calm    Label = "calm"
	Joy     Label = "joy"
	Sad     Label = "sad"
	Playful Label = "playful"
	Tired   Label = "tired"
)

// String implements fmt.Stringer.
func (l Label) String() string { return string(l) }

// Parse maps a stored label back to a Label.  Anything outside the closed set
// becomes Calm.
func Parse(s string) Label {
	switch l := Label(s); l {
	case Calm, Joy, Sad, Playful, Tired:
		return l
	}
	return Calm
}

type category struct {
	label    Label
	keywords []string
}

// categories is evaluated in priority order; ties go to the earlier entry.
var categories = []category{
	{Joy, []string{"счастлив", "рад", "отлично", "замечательно", "великолепно", "супер", "ура", "ахаха", "хаха", "спасибо", "благодарю", "люблю", "обожаю"}},
	{Sad, []string{"грустн", "печальн", "плохо", "ужасно", "грустно", "жаль", "сожале", "извини", "простите", "ошибка", "проблема"}},
	{Playful, []string{"играть", "игр", "весел", "шут", "смешн", "забавн", "интересн", "любопытн", "ха-ха"}},
	{Tired, []string{"устал", "утомл", "сон", "спать", "измучен", "вымотал", "долго", "много"}},
}

// Classify returns the dominant mood of text.  Each keyword counts once when
// it occurs anywhere in the lowercased text.  No hits yields Calm.
func Classify(text string) Label {
	lower := strings.ToLower(text)
	best, bestCount := Calm, 0
	for _, cat := range categories {
		n := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = cat.label, n
		}
	}
	return best
}
