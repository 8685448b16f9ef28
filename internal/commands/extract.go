package commands

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandeepkv93/taskbot/internal/model"
)

const freeTitleLimit = 50

var (
	createTitleRe    = regexp.MustCompile(`(?i)(?:title:|task:|to do:|to-do:)\s*(.*?)\s*(?:,|$)`)
	createDescRe     = regexp.MustCompile(`(?i)(?:description:|desc:)\s*(.*?)\s*(?:,|$)`)
	createDueRe      = regexp.MustCompile(`(?i)(?:due date:|by:|until:)\s*(\d{4}-\d{2}-\d{2}|today|tomorrow|\d+\s*(?:day|week|month))`)
	createPriorityRe = regexp.MustCompile(`(?i)(?:priority:|urgency:)\s*(low|medium|high)`)
	leadingFillerRe  = regexp.MustCompile(`(?i)^(?:(?:hi|hello|hey|please|can you|could you|create|make|add)\b[\s,.!?]*)+`)
	viewishWords     = []string{"show", "view", "list", "task", "what", "do"}

	deleteTitleRe  = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel)\s+(?:the\s+)?(.+?)\s*(?:[.,]|\b(?:and|please|now|from|my)\b|$)`)
	deleteNamedRe  = regexp.MustCompile(`(?i)\b(?:task|called|named|titled|the)\s+(.*?)\s*(?:[.,]|\b(?:and|from|my)\b|$)`)
	deleteRestRe   = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel)\s+(.+)$`)
	deleteIDRe     = regexp.MustCompile(`(?i)\b(?:id|number)\s*[:#]?\s*([\w-]+)`)
	deleteFillerRe = regexp.MustCompile(`(?i)\b(?:please|can you|could you|now|just)\b\s*`)
	stopWords      = []string{"the", "my", "a", "an", "and", "or", "but", "for", "to", "of", "in", "on", "is", "are", "was", "were"}

	updateRefRe    = regexp.MustCompile(`(?i)(?:update|change|modify|edit|adjust|set|make)\s+(.+?)\s+(?:to|as|into|is)\s+`)
	updateNamedRe  = regexp.MustCompile(`(?i)\b(?:task|called|named|titled)\s+(.*?)\s*(?:[.,]|\b(?:and|to|so)\b|$)`)
	updateStatusRe = regexp.MustCompile(`(?i)\b(?:status|to|as)\s+(completed|done|finished|pending|active)\b`)

	// Field patterns are ordered by descending specificity.
	updateTitleRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:title|name)\b.*?\b(?:to|as)\s+(.*?)\s*(?:[.,]|\band\b|$)`),
		regexp.MustCompile(`(?i)\b(?:title|name)\s+(.*?)\s*(?:[.,]|\band\b|$)`),
	}
	updateDescRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:description|desc|details?)\b.*?\b(?:to|as)\s+(.*?)\s*(?:[.,]|\band\b|$)`),
		regexp.MustCompile(`(?i)\b(?:description|desc|details?)\s+(.*?)\s*(?:[.,]|\band\b|$)`),
	}
	updatePriorityRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:to|as|into|is)\s+(low|medium|high)\s+priority`),
		regexp.MustCompile(`(?i)\b(?:to|as|into|is)\s+(low|medium|high)(?:\s|$|[.,])`),
		regexp.MustCompile(`(?i)\b(low|medium|high)\s+priority`),
	}

	trailingWordRe = regexp.MustCompile(`(?i)(?:^|\s+)(?:task|title|name|priority|description|desc|details|status)$`)
	leadingRefRe   = regexp.MustCompile(`(?i)^(?:the\s+)?(?:(?:title|name|priority|description|status)\s+of\s+)?(?:the\s+)?(?:task\s+)?(?:(?:called|named|titled)\s+)?`)
)

// ExtractCreate pulls a new task out of raw. It refuses view requests and
// free text whose candidate title still reads like a question about tasks.
func ExtractCreate(raw string) (Fields, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || IsViewRequest(raw) {
		return Fields{}, false
	}

	fields := Fields{
		Priority: model.PriorityMedium,
		DueDate:  strings.ToLower(firstGroup(createDueRe, raw)),
	}
	if p, err := model.ParsePriority(firstGroup(createPriorityRe, raw)); err == nil {
		fields.Priority = p
	}

	if m := createTitleRe.FindStringSubmatch(raw); m != nil {
		fields.NewTitle = cleanRef(m[1])
		if fields.NewTitle == "" {
			fields.NewTitle = "Untitled Task"
		}
		fields.Description = firstGroup(createDescRe, raw)
		return fields, true
	}

	text := leadingFillerRe.ReplaceAllString(raw, "")
	title := strings.TrimSpace(truncateRunes(text, freeTitleLimit))
	if !looksLikeTitle(title) || containsAnyWord(strings.ToLower(title), viewishWords) {
		return Fields{}, false
	}
	fields.NewTitle = capitalize(title)
	if desc := createDescRe.FindStringSubmatch(raw); desc != nil {
		fields.Description = strings.TrimSpace(desc[1])
	} else if utf8.RuneCountInString(raw) > freeTitleLimit {
		fields.Description = strings.TrimSpace(string([]rune(raw)[freeTitleLimit:]))
	}
	return fields, true
}

// ExtractDelete finds which task a deletion refers to. Patterns are tried
// from most to least specific; an id/number token yields TaskID.
func ExtractDelete(raw string) (Fields, bool) {
	raw = strings.TrimSpace(raw)
	if m := deleteTitleRe.FindStringSubmatch(raw); m != nil {
		if ref := cleanRef(stripTaskWords(m[1])); ref != "" {
			return Fields{TitleRef: ref}, true
		}
	}
	if ref := cleanRef(firstGroup(deleteNamedRe, raw)); ref != "" {
		return Fields{TitleRef: ref}, true
	}
	if ref := cleanRef(firstGroup(deleteRestRe, raw)); ref != "" {
		return Fields{TitleRef: ref}, true
	}
	if id := firstGroup(deleteIDRe, raw); id != "" {
		return Fields{TaskID: id}, true
	}

	text := deleteFillerRe.ReplaceAllString(raw, "")
	words := make([]string, 0)
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > 2 && !slices.Contains(stopWords, strings.ToLower(w)) {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return Fields{}, false
	}
	return Fields{TitleRef: strings.Join(words, " ")}, true
}

// ExtractUpdate finds the task reference and the fields to change. It
// fails only when neither a reference nor any field was found.
func ExtractUpdate(raw string) (Fields, bool) {
	raw = strings.TrimSpace(raw)
	var fields Fields

	if m := updateRefRe.FindStringSubmatch(raw); m != nil {
		fields.TitleRef = cleanRef(stripTaskWords(m[1]))
	}
	if fields.TitleRef == "" {
		fields.TitleRef = cleanRef(firstGroup(updateNamedRe, raw))
	}

	fields.NewTitle = cleanRef(firstOf(updateTitleRe, raw))
	if p, err := model.ParsePriority(firstOf(updatePriorityRe, raw)); err == nil {
		fields.Priority = p
	}
	fields.Description = strings.TrimSpace(firstOf(updateDescRe, raw))
	if s := firstGroup(updateStatusRe, raw); s != "" {
		switch strings.ToLower(s) {
		case "completed", "done", "finished":
			fields.Status = model.StatusCompleted
		default:
			fields.Status = model.StatusPending
		}
	}

	if fields.TitleRef == "" && !fields.hasUpdates() {
		return Fields{}, false
	}
	return fields, true
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// firstOf returns the first group of the first pattern that matches.
func firstOf(res []*regexp.Regexp, s string) string {
	for _, re := range res {
		if v := firstGroup(re, s); v != "" {
			return v
		}
	}
	return ""
}

// stripTaskWords drops a leading "the title of the task called" preamble
// and trailing words like "task" or "priority" so the reference is the
// title alone.
func stripTaskWords(ref string) string {
	ref = strings.TrimSpace(ref)
	for {
		next := trailingWordRe.ReplaceAllString(ref, "")
		if next == ref {
			break
		}
		ref = next
	}
	return leadingRefRe.ReplaceAllString(ref, "")
}

func cleanRef(ref string) string {
	return strings.Trim(strings.TrimSpace(ref), "\"'“”‘’ ")
}

func containsAnyWord(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// looksLikeTitle reports whether s reads as words rather than keyboard
// mash: it needs a plain word, and tokens mixing letters with digits or
// symbols must be fewer than half of the wordy tokens.
func looksLikeTitle(s string) bool {
	plain, mixed := 0, 0
	for _, tok := range strings.Fields(s) {
		switch classifyToken(strings.TrimFunc(tok, unicode.IsPunct)) {
		case tokenWord:
			plain++
		case tokenMixed:
			mixed++
		}
	}
	return plain > 0 && mixed*2 < plain+mixed
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	tokenNumber
	tokenWord
	tokenMixed
)

func classifyToken(tok string) tokenKind {
	letters, other := 0, 0
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == '\'' || r == '-':
		default:
			other++
		}
	}
	switch {
	case letters == 0 && other == 0:
		return tokenNone
	case letters == 0:
		return tokenNumber
	case other == 0:
		return tokenWord
	default:
		return tokenMixed
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
