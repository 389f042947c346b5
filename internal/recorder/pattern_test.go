package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leftDown() *HookEvent {
	return &HookEvent{Key: MouseLeftButton, Transition: KeyDown}
}

// logEvents is a click that invoked an item and changed the selection.
func logEvents() EventPattern {
	return EventPattern{
		Hook: leftDown(),
		AppEvents: []AppEvent{
			NewAppEvent(Invoked),
			NewPropertyEvent(SelectionItemIsSelected, nil),
			NewAppEvent(SelectionElementSelected),
			NewPropertyEvent(Name, nil),
		},
	}
}

func TestSubpattern_SingleHookEvent(t *testing.T) {
	log := logEvents()
	template := EventPattern{Hook: leftDown()}

	bound, ok := log.Subpattern(template)
	require.True(t, ok)
	assert.Equal(t, log.Hook, bound.Hook)
	assert.Empty(t, bound.AppEvents)
}

func TestSubpattern_WholeLog(t *testing.T) {
	log := logEvents()

	bound, ok := log.Subpattern(log)
	require.True(t, ok)
	assert.Equal(t, log, bound)
}

func TestSubpattern_ConsecutiveAppEvents(t *testing.T) {
	log := logEvents()
	template := EventPattern{
		Hook: leftDown(),
		AppEvents: []AppEvent{
			NewPropertyEvent(SelectionItemIsSelected, nil),
			NewAppEvent(SelectionElementSelected),
		},
	}

	bound, ok := log.Subpattern(template)
	require.True(t, ok)
	assert.Equal(t, log.AppEvents[1:3], bound.AppEvents)
}

func TestSubpattern_NonConsecutiveAppEvents(t *testing.T) {
	log := logEvents()
	template := EventPattern{
		Hook:      leftDown(),
		AppEvents: []AppEvent{NewAppEvent(Invoked), NewPropertyEvent(Name, nil)},
	}

	bound, ok := log.Subpattern(template)
	require.True(t, ok)
	assert.Equal(t, []AppEvent{log.AppEvents[0], log.AppEvents[3]}, bound.AppEvents)
}

func TestSubpattern_BindsLogPayloads(t *testing.T) {
	log := EventPattern{
		Hook: &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 7, Y: 9},
		AppEvents: []AppEvent{
			NewAppEvent(Invoked),
			NewPropertyEvent(ToggleState, 1).WithSender(42),
		},
	}
	template := EventPattern{AppEvents: []AppEvent{NewPropertyEvent(ToggleState, nil)}}

	bound, ok := log.Subpattern(template)
	require.True(t, ok)
	require.Len(t, bound.AppEvents, 1)
	assert.Equal(t, 1, bound.AppEvents[0].NewValue)
	require.NotNil(t, bound.AppEvents[0].Sender)
	assert.Equal(t, 42, *bound.AppEvents[0].Sender)
	assert.Equal(t, 7, bound.Hook.X)
}

func TestSubpattern_CoordinatesIgnored(t *testing.T) {
	log := EventPattern{Hook: &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 100, Y: 200}}
	template := EventPattern{Hook: &HookEvent{Key: MouseLeftButton, Transition: KeyDown, X: 1, Y: 2}}

	_, ok := log.Subpattern(template)
	assert.True(t, ok)
}

func TestSubpattern_DifferentHookEvent(t *testing.T) {
	log := logEvents()
	template := EventPattern{Hook: &HookEvent{Key: MouseLeftButton, Transition: KeyUp}}

	_, ok := log.Subpattern(template)
	assert.False(t, ok)
}

func TestSubpattern_DifferentAppEvent(t *testing.T) {
	log := logEvents()
	template := EventPattern{
		Hook:      leftDown(),
		AppEvents: []AppEvent{NewAppEvent(MenuModeStart)},
	}

	_, ok := log.Subpattern(template)
	assert.False(t, ok)
}

func TestSubpattern_ExtraAppEvent(t *testing.T) {
	log := logEvents()
	template := EventPattern{
		Hook:      log.Hook,
		AppEvents: append(append([]AppEvent{}, log.AppEvents...), NewAppEvent(MenuClosed)),
	}

	_, ok := log.Subpattern(template)
	assert.False(t, ok)
}

func TestSubpattern_AppEventsDifferentOrder(t *testing.T) {
	log := logEvents()
	template := EventPattern{
		Hook: leftDown(),
		AppEvents: []AppEvent{
			NewAppEvent(SelectionElementSelected),
			NewPropertyEvent(SelectionItemIsSelected, nil),
		},
	}

	_, ok := log.Subpattern(template)
	assert.False(t, ok)
}

func TestSubpattern_PropertyNameDistinguishes(t *testing.T) {
	log := EventPattern{AppEvents: []AppEvent{NewPropertyEvent(Name, "x")}}
	template := EventPattern{AppEvents: []AppEvent{NewPropertyEvent(ToggleState, nil)}}

	_, ok := log.Subpattern(template)
	assert.False(t, ok)
}

func TestSubpattern_TemplateWithoutHookMatchesAnything(t *testing.T) {
	logs := []EventPattern{
		logEvents(),
		{Hook: &HookEvent{Key: KeyboardKey, Transition: KeyUp, KeyName: "a"}},
		{AppEvents: []AppEvent{NewAppEvent(MenuOpened)}},
	}
	for _, log := range logs {
		_, ok := log.Subpattern(EventPattern{})
		assert.True(t, ok, "log %v", log)
	}
}

func TestSubpattern_TemplateHookNeedsLogHook(t *testing.T) {
	log := EventPattern{AppEvents: []AppEvent{NewAppEvent(Invoked)}}

	_, ok := log.Subpattern(EventPattern{Hook: leftDown()})
	assert.False(t, ok)
}

func TestWithout_RemovesConsumedEvents(t *testing.T) {
	log := logEvents()

	rest := log.without([]int{0, 2}, true)
	assert.Nil(t, rest.Hook)
	assert.Equal(t, []AppEvent{log.AppEvents[1], log.AppEvents[3]}, rest.AppEvents)
	assert.False(t, rest.Empty())
	assert.True(t, EventPattern{}.Empty())
}
