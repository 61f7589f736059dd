package testutil

import (
	"github.com/junioryono/inject"
)

// Motor is implemented by every engine fixture.
type Motor interface {
	Kind() string
}

// Engine is a dependency-free class.
type Engine struct{}

func (*Engine) Kind() string { return "engine" }

// OtherEngine is an alternative Motor.
type OtherEngine struct{}

func (*OtherEngine) Kind() string { return "other" }

// Car depends on *Engine.
type Car struct {
	Engine *Engine `inject:""`
}

// SportsCar depends on *Engine.
type SportsCar struct {
	Engine *Engine `inject:""`
}

// CarWithOptionalEngine resolves Engine to nil when nothing provides it.
type CarWithOptionalEngine struct {
	Engine *Engine `inject:"optional"`
}

// CarWithOtherEngine holds a Motor. It has no struct tags; see
// RegisterCarWithOtherEngine.
type CarWithOtherEngine struct {
	Engine Motor
}

// RegisterCarWithOtherEngine describes CarWithOtherEngine in table so its
// Motor parameter is injected with *OtherEngine.
func RegisterCarWithOtherEngine(table *inject.Table) error {
	return table.Register(inject.TypeOf[*CarWithOtherEngine](),
		func(args ...any) (any, error) {
			motor, _ := args[0].(Motor)
			return &CarWithOtherEngine{Engine: motor}, nil
		},
		inject.Param(inject.Token(inject.TypeOf[Motor]()), inject.Inject(inject.TypeOf[*OtherEngine]())),
	)
}

// CarWithParentEngine always takes its engine from an ancestor.
type CarWithParentEngine struct {
	Engine *Engine `inject:"skipself"`
}

// CarWithLocalEngine only accepts an engine from its own container.
type CarWithLocalEngine struct {
	Engine *Engine `inject:"self,optional"`
}

// Garage receives the container that builds it.
type Garage struct {
	Injector inject.Injector `inject:""`
}

// CycleA and CycleB depend on each other.
type CycleA struct {
	B *CycleB `inject:""`
}

// CycleB depends on CycleA.
type CycleB struct {
	A *CycleA `inject:""`
}
