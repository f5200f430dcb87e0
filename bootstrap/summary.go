package bootstrap

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/kbukum/iockit/container"
	"github.com/kbukum/iockit/lifecycle"
)

// BeanInfo is one scanned component as shown in the summary.
type BeanInfo struct {
	Name   string
	Type   string
	Status string
	Hooks  []string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a new bootstrap summary tracker. A nil out prints to stdout.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{
		serviceName: serviceName,
		version:     version,
		out:         out,
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// CollectBeans lists the container's scanned components with their status:
// "active" when a singleton exists, "failed" otherwise.
func CollectBeans(c *container.Container) []BeanInfo {
	active := make(map[reflect.Type]bool)
	for _, e := range c.Singletons() {
		active[e.Type.Type] = true
	}

	beans := make([]BeanInfo, 0, len(c.Components()))
	for _, ct := range c.Components() {
		status := "failed"
		if active[ct.Type] {
			status = "active"
		}
		name := ct.Name
		if name == "" {
			name = ct.Type.Name()
		}
		beans = append(beans, BeanInfo{
			Name:   name,
			Type:   ct.QualifiedName,
			Status: status,
			Hooks:  ct.StartHooks,
		})
	}
	return beans
}

// DisplaySummary prints the bootstrap summary for c.
func (s *Summary) DisplaySummary(c *container.Container) {
	w := s.out
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	beans := CollectBeans(c)
	fmt.Fprintf(w, "📦 Components (%s)\n", c.BasePackage())
	if len(beans) == 0 {
		fmt.Fprintf(w, "   └── No components found\n")
	}
	healthy := 0
	for i, b := range beans {
		fmt.Fprintf(w, "   %s %s %s [%s]\n", treePrefix(i, len(beans)), statusIcon(b.Status), b.Name, b.Type)
		if b.Status == "active" {
			healthy++
		}
	}
	fmt.Fprintf(w, "\n")
	if len(beans) > 0 {
		if healthy == len(beans) {
			fmt.Fprintf(w, "✅ All components wired (%d/%d)\n", healthy, len(beans))
		} else {
			fmt.Fprintf(w, "⚠️  Some components failed to wire (%d/%d wired)\n", healthy, len(beans))
		}
	}

	report := c.HookReport()
	if len(report.Results) > 0 {
		fmt.Fprintf(w, "\n🪝 Startup hooks (%d invoked, %d skipped, %d failed)\n",
			report.Invoked, report.Skipped, report.Failed)
		for i, r := range report.Results {
			line := fmt.Sprintf("   %s %s %s", treePrefix(i, len(report.Results)), outcomeIcon(r.Outcome), r.Hook)
			if r.Err != nil {
				line += fmt.Sprintf(" (%v)", r.Err)
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(status string) string {
	switch status {
	case "active":
		return "✅"
	case "failed":
		return "❌"
	default:
		return "⚠️"
	}
}

func outcomeIcon(o lifecycle.Outcome) string {
	switch o {
	case lifecycle.OutcomeInvoked:
		return "✅"
	case lifecycle.OutcomeSkipped:
		return "⏸️"
	case lifecycle.OutcomeFailed:
		return "❌"
	default:
		return "❓"
	}
}
