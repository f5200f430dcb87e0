// Command iocdemo starts an IoC container over the demo component set.
//
// With --export or --export-zip it writes the scanned component names as a
// manifest tree instead, which a later run can read back through a file://
// or zip:// location.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/kbukum/iockit/bootstrap"
	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/config"
	"github.com/kbukum/iockit/container"
	"github.com/kbukum/iockit/demo/components"
	_ "github.com/kbukum/iockit/demo/services"
	"github.com/kbukum/iockit/logger"
	"github.com/kbukum/iockit/scan"
	"github.com/kbukum/iockit/version"
)

const (
	serviceName = "iocdemo"
	demoPackage = "github.com/kbukum/iockit/demo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		exportDir  string
		exportZip  string
		locations  []string
		strict     bool
		showVer    bool
	)
	flags := pflag.NewFlagSet(serviceName, pflag.ExitOnError)
	flags.StringVarP(&configFile, "config", "c", "", "path to ioc.yml")
	flags.StringVar(&exportDir, "export", "", "write component manifests to this directory and exit")
	flags.StringVar(&exportZip, "export-zip", "", "write component manifests to this zip archive and exit")
	flags.StringSliceVarP(&locations, "location", "l", nil, "scan location (catalog:, file://dir, zip://archive); repeatable")
	flags.BoolVar(&strict, "strict", false, "fail when any component cannot be wired")
	flags.BoolVarP(&showVer, "version", "v", false, "print the version and exit")
	_ = flags.Parse(os.Args[1:])

	if showVer {
		fmt.Println(serviceName, version.Get())
		return nil
	}

	var cfg config.ServiceConfig
	var loadOpts []config.LoaderOption
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, loadOpts...); err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	if cfg.Container.BasePackage == "" {
		cfg.Container.BasePackage = demoPackage
	}
	if len(locations) > 0 {
		cfg.Container.Locations = locations
	}
	if flags.Changed("strict") {
		cfg.Container.Strict = strict
	}

	if exportDir != "" || exportZip != "" {
		return export(cfg.Container.BasePackage, exportDir, exportZip)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	return app.RunTask(context.Background(), func(ctx context.Context) error {
		gamma, err := container.Get[components.GammaRunner](ctx, app.Container)
		if err != nil {
			return err
		}
		app.Logger.Info("Gamma runner", logger.Fields("result", gamma.RunOnce()))
		return nil
	})
}

// export writes the manifest layout of every catalog component under
// basePackage.
func export(basePackage, dir, archive string) error {
	var names []string
	for _, name := range catalog.Default.Names() {
		pkg, _, ok := catalog.SplitQualifiedName(name)
		if ok && scan.InNamespace(pkg, basePackage) {
			names = append(names, name)
		}
	}

	fs := afero.NewOsFs()
	if dir != "" {
		if err := scan.ExportManifest(fs, dir, names); err != nil {
			return err
		}
		fmt.Printf("wrote %d manifest(s) to %s\n", len(names), scan.FileLocation(dir))
	}
	if archive != "" {
		if !strings.HasSuffix(archive, ".zip") {
			archive += ".zip"
		}
		if err := scan.ExportArchive(fs, archive, names); err != nil {
			return err
		}
		fmt.Printf("wrote %d manifest(s) to %s\n", len(names), scan.ZipLocation(archive))
	}
	return nil
}
