package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeStopsOwnedEffects(t *testing.T) {
	count := NewRef(1)

	runs := 0
	scope := NewScope(true)
	scope.Run(func() any {
		CreateEffect(func() {
			runs++
			_ = count.Value()
		})
		return nil
	})
	require.Equal(t, 1, runs)

	count.SetValue(2)
	assert.Equal(t, 2, runs)

	scope.Stop()
	count.SetValue(3)
	assert.Equal(t, 2, runs)
	assert.False(t, scope.Active())
}

func TestScopeStopsWatchers(t *testing.T) {
	count := NewRef(1)

	fires := 0
	scope := NewScope(true)
	scope.Run(func() any {
		Watch(count, func(_, _ any, _ OnCleanup) {
			fires++
		}, Flush(FlushSync))
		return nil
	})

	count.SetValue(2)
	require.Equal(t, 1, fires)

	scope.Stop()
	count.SetValue(3)
	assert.Equal(t, 1, fires)
}

func TestNestedScopes(t *testing.T) {
	count := NewRef(1)

	outerRuns := 0
	innerRuns := 0
	outer := NewScope(true)
	outer.Run(func() any {
		CreateEffect(func() {
			outerRuns++
			_ = count.Value()
		})
		child := NewScope(false)
		child.Run(func() any {
			CreateEffect(func() {
				innerRuns++
				_ = count.Value()
			})
			return nil
		})
		return nil
	})

	count.SetValue(2)
	require.Equal(t, 2, outerRuns)
	require.Equal(t, 2, innerRuns)

	// Stopping the parent stops the child.
	outer.Stop()
	count.SetValue(3)
	assert.Equal(t, 2, outerRuns)
	assert.Equal(t, 2, innerRuns)
}

func TestDetachedScopeSurvivesParent(t *testing.T) {
	count := NewRef(1)

	runs := 0
	outer := NewScope(true)
	var detached *Scope
	outer.Run(func() any {
		detached = NewScope(true)
		detached.Run(func() any {
			CreateEffect(func() {
				runs++
				_ = count.Value()
			})
			return nil
		})
		return nil
	})

	outer.Stop()
	count.SetValue(2)
	assert.Equal(t, 2, runs, "detached scopes outlive the parent")

	detached.Stop()
	count.SetValue(3)
	assert.Equal(t, 2, runs)
}

func TestOnScopeDispose(t *testing.T) {
	var order []string
	scope := NewScope(true)
	scope.Run(func() any {
		OnScopeDispose(func() { order = append(order, "first") })
		OnScopeDispose(func() { order = append(order, "second") })
		return nil
	})

	scope.Stop()
	assert.Equal(t, []string{"second", "first"}, order, "cleanups run in reverse order")

	// Registering on a stopped scope runs immediately.
	ran := false
	scope.OnStop(func() { ran = true })
	assert.True(t, ran)
}

func TestScopeRunOnStoppedScope(t *testing.T) {
	var warnings []string
	SetWarnHandler(func(msg string) { warnings = append(warnings, msg) })
	defer SetWarnHandler(nil)

	scope := NewScope(true)
	scope.Stop()

	out := scope.Run(func() any { return 1 })
	assert.Nil(t, out)
	assert.NotEmpty(t, warnings)
}

func TestCurrentScope(t *testing.T) {
	assert.Nil(t, CurrentScope())

	scope := NewScope(true)
	scope.Run(func() any {
		assert.Same(t, scope, CurrentScope())
		return nil
	})
	assert.Nil(t, CurrentScope())
}
