package recorder

// EventPattern is one hook event followed by the application events that
// occurred with it, in occurrence order. As a template, a nil Hook matches
// any hook event.
type EventPattern struct {
	Hook      *HookEvent
	AppEvents []AppEvent
}

// Subpattern reports whether template is satisfied by p and, if so, returns
// the bound pattern: p's hook event plus the events of p that matched each
// template event, carrying their real payloads.
//
// The template's app events must appear in p in the same order, though not
// necessarily next to each other. Events only compare by kind.
func (p EventPattern) Subpattern(template EventPattern) (EventPattern, bool) {
	idx, ok := p.SubpatternIndexes(template)
	if !ok {
		return EventPattern{}, false
	}
	bound := EventPattern{Hook: p.Hook}
	if len(idx) > 0 {
		bound.AppEvents = make([]AppEvent, len(idx))
		for i, j := range idx {
			bound.AppEvents[i] = p.AppEvents[j]
		}
	}
	return bound, true
}

// SubpatternIndexes returns the positions in p.AppEvents consumed by the
// template, in template order.
func (p EventPattern) SubpatternIndexes(template EventPattern) ([]int, bool) {
	if template.Hook != nil {
		if p.Hook == nil || !p.Hook.SameKind(*template.Hook) {
			return nil, false
		}
	}

	want := template.AppEvents
	if len(want) == 0 {
		return nil, true
	}

	idx := make([]int, 0, len(want))
	t := 0
	for i := 0; i < len(p.AppEvents) && t < len(want); i++ {
		if p.AppEvents[i].SameKind(want[t]) {
			idx = append(idx, i)
			t++
		}
	}
	if t < len(want) {
		return nil, false
	}
	return idx, true
}

// without returns a copy of p with the app events at idx removed and,
// when dropHook is set, the hook event cleared.
func (p EventPattern) without(idx []int, dropHook bool) EventPattern {
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	rest := EventPattern{Hook: p.Hook}
	if dropHook {
		rest.Hook = nil
	}
	for i, e := range p.AppEvents {
		if !skip[i] {
			rest.AppEvents = append(rest.AppEvents, e)
		}
	}
	return rest
}

// Empty reports whether nothing is left to match.
func (p EventPattern) Empty() bool {
	return p.Hook == nil && len(p.AppEvents) == 0
}
