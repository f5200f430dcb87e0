// Package services holds the demo service components.
package services

import (
	"github.com/kbukum/iockit/annotation"
	"github.com/kbukum/iockit/catalog"
)

func init() {
	catalog.MustRegister[AlphaService]()
	catalog.MustRegister[BetaService](catalog.InjectConstructor(NewBetaService))
	catalog.MustRegister[GreetingService]()
}

// AlphaService has no dependencies.
type AlphaService struct {
	annotation.Component `component:"alphaService"`
}

func (a *AlphaService) Name() string { return "AlphaService" }

// BetaService receives AlphaService through its constructor.
type BetaService struct {
	annotation.Component `component:"betaService"`
	alpha *AlphaService
}

// NewBetaService is the injection constructor of BetaService.
func NewBetaService(alpha *AlphaService) *BetaService {
	return &BetaService{alpha: alpha}
}

func (b *BetaService) Ping() string { return "beta->" + b.alpha.Name() }

// GreetingService produces the startup greeting.
type GreetingService struct {
	annotation.Component
}

func (g *GreetingService) Hello() string { return "Hello, IOC!" }
