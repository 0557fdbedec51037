package registry

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/quadpde/quadpde/internal/synth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Example is one catalog entry. It is never modified after the build that created it.
type Example struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	DiffOrder   int    `json:"diff_ord" yaml:"diff_ord"`
	FirstIndep  string `json:"first_indep" yaml:"first_indep"`

	EquationsLatex []string `json:"equations_latex" yaml:"equations_latex"`
	Equations      []string `json:"equations" yaml:"equations"`
	Vars           string   `json:"vars" yaml:"vars"`
	Funcs          string   `json:"funcs" yaml:"funcs"`

	// FuncEq holds the resolved pairs, parallel to Equations.
	FuncEq []synth.Pair `json:"-" yaml:"-"`
	// Path is the absolute path of the definition file.
	Path string `json:"-" yaml:"-"`
}

// Summary is the list view of an example.
type Summary struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	DiffOrder      int      `json:"diff_ord" yaml:"diff_ord"`
	FirstIndep     string   `json:"first_indep" yaml:"first_indep"`
	EquationsLatex []string `json:"equations_latex" yaml:"equations_latex"`
}

// Summary returns the list view of e.
func (e *Example) Summary() Summary {
	return Summary{
		ID:             e.ID,
		Name:           e.Name,
		Description:    e.Description,
		DiffOrder:      e.DiffOrder,
		FirstIndep:     e.FirstIndep,
		EquationsLatex: e.EquationsLatex,
	}
}

// Summaries returns the list view of examples, in order.
func Summaries(examples []*Example) []Summary {
	out := make([]Summary, len(examples))
	for i, e := range examples {
		out[i] = e.Summary()
	}
	return out
}

var slugReplacer = regexp.MustCompile(`[^a-z0-9_-]+`)

// Slug returns the example ID for a file stem: lowercased, with each run of characters
// outside [a-z0-9_-] replaced by "-".
func Slug(stem string) string {
	return slugReplacer.ReplaceAllString(strings.ToLower(stem), "-")
}

// Title returns the display name for a file stem. An all-caps stem is kept as is.
// Otherwise the stem is split on "_", "-", spaces and camel-case boundaries and each
// word is title-cased, except words that are already all caps.
func Title(stem string) string {
	if isAllCaps(stem) {
		return stem
	}
	caser := cases.Title(language.English)
	words := splitWords(stem)
	for i, w := range words {
		if !isAllCaps(w) {
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return words
}
