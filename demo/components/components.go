// Package components holds the demo components that consume the services.
package components

import (
	"fmt"
	"io"
	"os"

	"github.com/kbukum/iockit/annotation"
	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/demo/services"
)

// Output receives the lines StartupRunner prints.
var Output io.Writer = os.Stdout

func init() {
	catalog.MustRegister[StartupRunner](catalog.OnStart("Run"))
	catalog.MustRegister[GammaRunner]()
	catalog.MustRegister[ScanProbe]()
}

// StartupRunner greets once the container has wired everything.
type StartupRunner struct {
	annotation.Component
	greeting *services.GreetingService `inject:""`
}

// Run is the startup hook.
func (r *StartupRunner) Run() {
	fmt.Fprintln(Output, r.greeting.Hello())
	fmt.Fprintln(Output, "Container started.")
}

// GammaRunner pings BetaService on demand.
type GammaRunner struct {
	annotation.Component
	Beta *services.BetaService `inject:""`
}

func (g *GammaRunner) RunOnce() string { return g.Beta.Ping() }

// ScanProbe only proves that scanning reaches this package.
type ScanProbe struct {
	annotation.Component
}
