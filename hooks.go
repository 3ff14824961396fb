package msgbundle

import (
	"golang.org/x/text/language"
)

// LookupHook observes bundle lookups. AfterLookup may rewrite Result.
type LookupHook interface {
	BeforeLookup(ctx *LookupContext)
	AfterLookup(ctx *LookupContext)
}

// LookupContext describes a single MessageFor or Printf call.
type LookupContext struct {
	Locale language.Tag
	Key    string
	Args   []any
	// Template is the raw template that matched, empty on a miss.
	Template string
	Result   string
	Found    bool
	Err      error
}

// LookupHookFuncs adapts a pair of functions to LookupHook. Either may be nil.
type LookupHookFuncs struct {
	Before func(ctx *LookupContext)
	After  func(ctx *LookupContext)
}

func (h LookupHookFuncs) BeforeLookup(ctx *LookupContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h LookupHookFuncs) AfterLookup(ctx *LookupContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

func filterHooks(hooks []LookupHook) []LookupHook {
	filtered := make([]LookupHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		filtered = append(filtered, hook)
	}
	return filtered
}
