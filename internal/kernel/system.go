package kernel

import "fmt"

// System is a unit of behavior driven by the tick loop.
//
// Update may read the current tick's messages, mutate state and push
// messages for the next tick. It must not assume anything about sibling
// systems beyond the order of the list it was selected in, and must not
// expect its own pushes to be visible before the next tick.
//
// Update has no error return. Failures are reported as messages or state.
type System[S, M any] interface {
	Update(state *S, queue *Queue[M])
}

// SystemFunc adapts an ordinary function to the System interface.
type SystemFunc[S, M any] func(state *S, queue *Queue[M])

// Update calls f(state, queue).
func (f SystemFunc[S, M]) Update(state *S, queue *Queue[M]) {
	f(state, queue)
}

// Named is implemented by systems that want a stable label in logs and
// trace records.
type Named interface {
	Name() string
}

// NameOf returns the label for a system: its Name if it implements Named,
// otherwise its dynamic type.
func NameOf(sys any) string {
	if n, ok := sys.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}

// namesOf labels every system in list order.
func namesOf[S, M any](systems []System[S, M]) []string {
	names := make([]string, len(systems))
	for i, sys := range systems {
		names[i] = NameOf(sys)
	}
	return names
}
