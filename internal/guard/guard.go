// Package guard short-circuits social and abusive chat input before any
// task logic runs.
package guard

import "strings"

const (
	CapabilityReply = "I am AI Todo Assistant, you can add, update, or delete tasks by telling me what you'd like to do!"
	GratitudeReply  = "You're welcome! I'm glad I was able to help you."
)

type Kind string

const (
	KindAbusive   Kind = "abusive"
	KindGratitude Kind = "gratitude"
	KindEmotional Kind = "emotional"
)

type Verdict struct {
	Kind  Kind
	Term  string
	Reply string
}

// Rules holds the lexical tables. Abusive terms match as raw substrings;
// gratitude and emotional phrases match on word boundaries.
type Rules struct {
	Abusive         []string
	Gratitude       []string
	Emotional       []string
	CapabilityReply string
	GratitudeReply  string
}

func DefaultRules() Rules {
	return Rules{
		Abusive: []string{
			"fuck", "shit", "damn", "hell", "bitch", "asshole", "stupid", "dumb",
			"idiot", "crap", "bullshit", "nonsense", "garbage", "meaningless",
			"waste of time", "pointless", "useless", "rubbish", "nonsensical",
			"fool", "idiotic", "stupidity", "dumbass", "retard", "moronic", "dumbfuck",
			"jackass", "ass", "suck", "sucks", "sucker", "losers", "loser", "hate",
			"hates", "hated", "stupidly", "dumbly", "idiotically", "worthless",
			"pathetic", "ridiculous", "ridicule", "mock", "mocking", "laughable",
			"mental", "psycho", "crazy", "insane", "nuts", "bonkers", "loony", "lunatic",
			"shutup", "shut up", "f*ck", "f--k", "screw you", "go away", "stop",
			"duffer", "dummy", "moron", "jerk",
		},
		Gratitude: []string{
			"thank you", "thanks", "thank you so much", "thanks for your help",
			"thank you for helping", "appreciate it", "you're awesome", "grateful",
			"many thanks", "much appreciated", "cheers", "ta", "thnx", "thanx",
		},
		Emotional: []string{
			"i like you", "i love you", "i adore you", "i appreciate you",
			"you are nice", "you're nice", "you are great", "you're great",
			"you are awesome", "you're awesome", "you are cool", "you're cool",
			"you are amazing", "you're amazing", "you are wonderful", "you're wonderful",
			"i enjoy talking to you", "i like talking to you",
		},
		CapabilityReply: CapabilityReply,
		GratitudeReply:  GratitudeReply,
	}
}

func (r Rules) Merge(extra Rules) Rules {
	out := Rules{
		Abusive:         appendLower(r.Abusive, extra.Abusive),
		Gratitude:       appendLower(r.Gratitude, extra.Gratitude),
		Emotional:       appendLower(r.Emotional, extra.Emotional),
		CapabilityReply: r.CapabilityReply,
		GratitudeReply:  r.GratitudeReply,
	}
	if strings.TrimSpace(extra.CapabilityReply) != "" {
		out.CapabilityReply = extra.CapabilityReply
	}
	if strings.TrimSpace(extra.GratitudeReply) != "" {
		out.GratitudeReply = extra.GratitudeReply
	}
	return out
}

// Check runs abusive, gratitude and emotional tables in that order and
// reports the first hit.
func (r Rules) Check(input string) (Verdict, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return Verdict{}, false
	}
	for _, term := range r.Abusive {
		if term != "" && strings.Contains(lower, term) {
			return Verdict{Kind: KindAbusive, Term: term, Reply: r.capability()}, true
		}
	}
	for _, phrase := range r.Gratitude {
		if MatchPhrase(lower, phrase) {
			return Verdict{Kind: KindGratitude, Term: phrase, Reply: r.gratitude()}, true
		}
	}
	for _, phrase := range r.Emotional {
		if MatchPhrase(lower, phrase) {
			return Verdict{Kind: KindEmotional, Term: phrase, Reply: r.capability()}, true
		}
	}
	return Verdict{}, false
}

// MatchPhrase reports whether lower equals phrase or contains it bounded by
// spaces or the ends of the text. lower must already be lower-cased and
// trimmed.
func MatchPhrase(lower, phrase string) bool {
	if phrase == "" {
		return false
	}
	return lower == phrase ||
		strings.HasPrefix(lower, phrase+" ") ||
		strings.HasSuffix(lower, " "+phrase) ||
		strings.Contains(lower, " "+phrase+" ")
}

func (r Rules) capability() string {
	if r.CapabilityReply == "" {
		return CapabilityReply
	}
	return r.CapabilityReply
}

func (r Rules) gratitude() string {
	if r.GratitudeReply == "" {
		return GratitudeReply
	}
	return r.GratitudeReply
}

func appendLower(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, term := range extra {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
