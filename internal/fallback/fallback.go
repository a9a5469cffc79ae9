// Package fallback produces scripted replies for the chat assistant when the
// remote language model cannot be used.  A Selector walks a fixed list of
// rules and answers with the first one that matches.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eternal-sentinels/es-archive/internal/emotion"
)

// Source supplies uniform random indexes.  *rand.Rand from math/rand/v2
// satisfies it; tests pass a seeded one.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Request describes the turn being answered.
type Request struct {
	Message            string
	UserName           string
	ClearanceLevel     int
	Privileged         bool
	ConversationLength int
}

// Reply is the selected text and the mood attached to it.
type Reply struct {
	Text    string
	Emotion emotion.Label
}

// turn is the per-call view shared by the rules.
type turn struct {
	Request
	lower string
	src   Source
}

func (t *turn) pick(set []string) string {
	return set[t.src.IntN(len(set))]
}

func (t *turn) fill(s string) string {
	return strings.ReplaceAll(s, "{name}", t.UserName)
}

type rule struct {
	name    string
	match   func(t *turn) bool
	respond func(t *turn) Reply
}

// Rule names, in evaluation order.
const (
	RuleGreeting  = "greeting"
	RuleFarewell  = "farewell"
	RuleThanks    = "thanks"
	RuleObject    = "object"
	RuleTopic     = "topic"
	RuleClearance = "clearance"
	RuleFatigue   = "fatigue"
	RuleDefault   = "default"
)

var (
	greetingTokens  = []string{"привет", "здравствуй", "добрый", "hello", "hi"}
	farewellTokens  = []string{"пока", "до свидания", "прощай", "bye", "goodbye"}
	thanksTokens    = []string{"спасибо", "благодарю", "thanks", "thank you"}
	clearanceTokens = []string{"допуск", "clearance", "доступ", "секрет"}

	objectRef = regexp.MustCompile(`объект[\s\p{Z}]*(\p{Nd}+)|scp[- ]?(\p{Nd}+)|0+(\p{Nd}+)`)

	topicPatterns = compileTopics()
)

func compileTopics() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(topics))
	for i, tp := range topics {
		out[i] = regexp.MustCompile(tp.pattern)
	}
	return out
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// ObjectNumber extracts a designator from a lowercased message and pads it to
// four digits.  ok is false when the message does not reference an object.
func ObjectNumber(lower string) (number string, ok bool) {
	m := objectRef.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return padNumber(g), true
		}
	}
	return "", false
}

// padNumber left-pads to four digits, counting runes so non-ASCII digits
// pad the same way as ASCII ones.
func padNumber(digits string) string {
	n := utf8.RuneCountInString(digits)
	if n >= 4 {
		return digits
	}
	return strings.Repeat("0", 4-n) + digits
}

func matchTopic(lower string) (int, bool) {
	for i, re := range topicPatterns {
		if re.MatchString(lower) {
			return i, true
		}
	}
	return -1, false
}

var rules = []rule{
	{
		name:  RuleGreeting,
		match: func(t *turn) bool { return containsAny(t.lower, greetingTokens) },
		respond: func(t *turn) Reply {
			if t.Privileged && t.ConversationLength <= 2 {
				return Reply{t.pick(warmGreetings), emotion.Joy}
			}
			return Reply{t.pick(greetings), emotion.Calm}
		},
	},
	{
		name:    RuleFarewell,
		match:   func(t *turn) bool { return containsAny(t.lower, farewellTokens) },
		respond: func(t *turn) Reply { return Reply{t.pick(farewells), emotion.Calm} },
	},
	{
		name:  RuleThanks,
		match: func(t *turn) bool { return containsAny(t.lower, thanksTokens) },
		respond: func(t *turn) Reply {
			if t.Privileged {
				return Reply{thanksWarm, emotion.Joy}
			}
			return Reply{thanksGeneric, emotion.Joy}
		},
	},
	{
		name: RuleObject,
		match: func(t *turn) bool {
			_, ok := ObjectNumber(t.lower)
			return ok
		},
		respond: func(t *turn) Reply {
			num, _ := ObjectNumber(t.lower)
			if fact, ok := knownObjects[num]; ok {
				return Reply{fact, emotion.Calm}
			}
			return Reply{strings.ReplaceAll(unknownObject, "{number}", num), emotion.Calm}
		},
	},
	{
		name: RuleTopic,
		match: func(t *turn) bool {
			_, ok := matchTopic(t.lower)
			return ok
		},
		respond: func(t *turn) Reply {
			i, _ := matchTopic(t.lower)
			return Reply{t.pick(topics[i].replies), emotion.Classify(t.lower)}
		},
	},
	{
		name:  RuleClearance,
		match: func(t *turn) bool { return containsAny(t.lower, clearanceTokens) },
		respond: func(t *turn) Reply {
			return Reply{fmt.Sprintf(clearanceLead, t.ClearanceLevel) + t.pick(clearanceReplies), emotion.Calm}
		},
	},
	{
		name:    RuleFatigue,
		match:   func(t *turn) bool { return t.ConversationLength > 20 },
		respond: func(t *turn) Reply { return Reply{t.pick(fatigueReplies), emotion.Tired} },
	},
	{
		name:  RuleDefault,
		match: func(*turn) bool { return true },
		respond: func(t *turn) Reply {
			set := warmDefaults
			if !t.Privileged {
				set = make([]string, 0, len(genericDefaults)+len(helpReplies))
				set = append(set, genericDefaults...)
				set = append(set, helpReplies...)
			}
			return Reply{t.fill(t.pick(set)), emotion.Classify(t.lower)}
		},
	},
}

// Selector picks scripted replies.  It holds no mutable state and is safe
// for concurrent use as long as its Source is.
type Selector struct {
	src Source
}

// New returns a Selector drawing randomness from src; nil selects the
// process-wide math/rand/v2 generator.
func New(src Source) *Selector {
	if src == nil {
		src = globalSource{}
	}
	return &Selector{src: src}
}

// Select answers req with the first matching rule.  It never fails: a panic
// inside a rule is turned into SafeReply with a calm mood.
func (s *Selector) Select(req Request) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			reply = Reply{SafeReply, emotion.Calm}
		}
	}()
	t := s.newTurn(req)
	for _, r := range rules {
		if r.match(t) {
			return r.respond(t)
		}
	}
	return Reply{SafeReply, emotion.Calm}
}

// Match reports the name of the rule that would answer req without
// producing a reply.
func (s *Selector) Match(req Request) string {
	t := s.newTurn(req)
	for _, r := range rules {
		if r.match(t) {
			return r.name
		}
	}
	return ""
}

func (s *Selector) newTurn(req Request) *turn {
	return &turn{Request: req, lower: strings.ToLower(req.Message), src: s.src}
}
