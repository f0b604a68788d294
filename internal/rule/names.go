package rule

import "regexp"

var (
	illegalNameChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
	leadingDigits    = regexp.MustCompile(`^[0-9_]+`)
)

// Reserved rule names used by the generated Snakefile.
var Reserved = map[string]bool{
	"all": true,
}

// Disambiguate rewrites rule names so they are legal Snakemake identifiers,
// unique, and never start with a digit.
//
// Names are first stripped of leading digits and underscores ("01_qc" → "qc").
// If that produces an empty, reserved or repeated name, every rule falls back
// to its full original name, with "num" prepended when it starts with a digit.
// If a name is still reserved, or names still collide, rules are left
// untouched and a *ReservedNameError or *DuplicateNameError is returned.
func Disambiguate(rules []*Rule) error {
	base := make([]string, len(rules))
	for i, r := range rules {
		base[i] = illegalNameChars.ReplaceAllString(r.Name, "_")
	}

	stripped := make([]string, len(rules))
	for i, n := range base {
		stripped[i] = leadingDigits.ReplaceAllString(n, "")
	}
	if collisions(rules, stripped) == nil {
		commit(rules, stripped)
		return nil
	}

	fallback := make([]string, len(rules))
	for i, n := range base {
		if n != "" && n[0] >= '0' && n[0] <= '9' {
			n = "num" + n
		}
		fallback[i] = n
	}
	for i, n := range fallback {
		if Reserved[n] {
			return &ReservedNameError{Name: n, Path: rules[i].Source}
		}
	}
	if c := collisions(rules, fallback); c != nil {
		return &DuplicateNameError{Collisions: c}
	}
	commit(rules, fallback)
	return nil
}

// collisions returns the names that are empty, reserved or shared, mapped to
// the scripts that produced them. It returns nil when names are usable.
func collisions(rules []*Rule, names []string) map[string][]string {
	owners := make(map[string][]string, len(names))
	for i, n := range names {
		owners[n] = append(owners[n], rules[i].Source)
	}

	var out map[string][]string
	for n, srcs := range owners {
		if n != "" && !Reserved[n] && len(srcs) == 1 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[n] = srcs
	}
	return out
}

func commit(rules []*Rule, names []string) {
	for i, r := range rules {
		r.Name = names[i]
	}
}
