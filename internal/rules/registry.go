package rules

import (
	"fmt"
	"slices"
	"strings"

	"pyrewrite/internal/diag"
)

// Options tune the built-in rules.
type Options struct {
	// ExceptType is the class TRY01 inserts into bare handlers.
	ExceptType string
}

type entry struct {
	rule    Rule
	enabled bool // on when nothing is selected explicitly
}

// Registry lists every known rule in a stable order.
type Registry struct {
	entries []entry
	byCode  map[diag.Code]int
}

func NewRegistry() *Registry {
	return &Registry{byCode: make(map[diag.Code]int)}
}

// Register adds r; registering the same code twice panics.
func (reg *Registry) Register(r Rule, enabledByDefault bool) {
	if _, dup := reg.byCode[r.Code()]; dup {
		panic(fmt.Sprintf("rules: duplicate rule %s", r.Code().ID()))
	}
	reg.byCode[r.Code()] = len(reg.entries)
	reg.entries = append(reg.entries, entry{rule: r, enabled: enabledByDefault})
}

// Default returns the built-in rules. FUN02 is opt-in.
func Default(opts Options) *Registry {
	reg := NewRegistry()
	reg.Register(BareExcept{TypeName: opts.ExceptType}, true)
	reg.Register(EmptyExcept{}, true)
	reg.Register(PlaceholderBody{}, true)
	reg.Register(EllipsisBody{}, false)
	return reg
}

func (reg *Registry) Lookup(code diag.Code) (Rule, bool) {
	i, ok := reg.byCode[code]
	if !ok {
		return nil, false
	}
	return reg.entries[i].rule, true
}

// All returns every registered rule in registration order.
func (reg *Registry) All() []Rule {
	out := make([]Rule, len(reg.entries))
	for i, e := range reg.entries {
		out[i] = e.rule
	}
	return out
}

// EnabledByDefault reports whether code runs when no selection is given.
func (reg *Registry) EnabledByDefault(code diag.Code) bool {
	i, ok := reg.byCode[code]
	return ok && reg.entries[i].enabled
}

// Select resolves select and ignore lists into the rules to run.
//
// Tokens are rule IDs (TRY01), family prefixes (TRY) or ALL, matched
// case-insensitively. An empty select list means the default set.
// Ignore wins over select.
func (reg *Registry) Select(selected, ignored []string) ([]Rule, error) {
	on := make([]bool, len(reg.entries))
	if len(selected) == 0 {
		for i, e := range reg.entries {
			on[i] = e.enabled
		}
	}
	for _, tok := range selected {
		idx, err := reg.match(tok)
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			on[i] = true
		}
	}
	for _, tok := range ignored {
		idx, err := reg.match(tok)
		if err != nil {
			return nil, err
		}
		for _, i := range idx {
			on[i] = false
		}
	}
	var out []Rule
	for i, e := range reg.entries {
		if on[i] {
			out = append(out, e.rule)
		}
	}
	return out, nil
}

func (reg *Registry) match(tok string) ([]int, error) {
	tok = strings.ToUpper(strings.TrimSpace(tok))
	if tok == "" {
		return nil, nil
	}
	var idx []int
	if tok == "ALL" {
		for i := range reg.entries {
			idx = append(idx, i)
		}
		return idx, nil
	}
	if code, ok := diag.ParseCode(tok); ok {
		if i, known := reg.byCode[code]; known {
			return []int{i}, nil
		}
	}
	for i, e := range reg.entries {
		if e.rule.Code().Family() == tok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("unknown rule selector %q", tok)
	}
	return idx, nil
}

// Codes returns the codes of rs, sorted.
func Codes(rs []Rule) []diag.Code {
	out := make([]diag.Code, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Code())
	}
	slices.Sort(out)
	return out
}
