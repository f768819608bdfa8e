package app

import (
	"context"
	"fmt"

	"github.com/grafana/dskit/modules"
	"github.com/grafana/dskit/server"
	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"

	"github.com/zachfi/stationgo/modules/catalog"
	"github.com/zachfi/stationgo/modules/extractor"
)

const (
	Server string = "server"

	Extractor string = "extractor"
	Catalog   string = "catalog"

	All string = "all"
)

func (a *App) setupModuleManager() error {
	mm := modules.NewManager(a.kitLogger)
	mm.RegisterModule(Server, a.initServer, modules.UserInvisibleModule)

	mm.RegisterModule(Extractor, a.initExtractor)
	mm.RegisterModule(Catalog, a.initCatalog)

	mm.RegisterModule(All, nil)

	deps := map[string][]string{
		// Extractor and Catalog are one-shot and run without the server.
		All: {Server, Extractor, Catalog},
	}

	for mod, targets := range deps {
		if err := mm.AddDependency(mod, targets...); err != nil {
			return err
		}
	}

	a.ModuleManager = mm

	return nil
}

func (a *App) initExtractor() (services.Service, error) {
	e, err := extractor.New(a.cfg.Extractor, a.logger)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init "+Extractor)
	}

	a.extractor = e

	return e, nil
}

func (a *App) initCatalog() (services.Service, error) {
	c, err := catalog.New(a.cfg.Catalog, a.logger)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init "+Catalog)
	}

	a.catalog = c

	return c, nil
}

func (a *App) initServer() (services.Service, error) {
	a.cfg.Server.MetricsNamespace = metricsNamespace
	a.cfg.Server.ExcludeRequestInLog = true
	a.cfg.Server.RegisterInstrumentation = true
	a.cfg.Server.Log = a.kitLogger

	server, err := server.New(a.cfg.Server)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create server")
	}

	server.HTTP.Path("/stations").Methods("GET").HandlerFunc(a.stationsHandler)
	server.HTTP.Path("/catalog").Methods("GET").HandlerFunc(a.catalogHandler)

	servicesToWaitFor := func() []services.Service {
		svs := []services.Service(nil)
		for m, s := range a.serviceMap {
			// Server should not wait for itself.
			if m != Server {
				svs = append(svs, s)
			}
		}

		return svs
	}

	a.Server = server

	serverDone := make(chan error, 1)

	runFn := func(ctx context.Context) error {
		go func() {
			defer close(serverDone)
			serverDone <- server.Run()
		}()

		select {
		case <-ctx.Done():
			return nil
		case err := <-serverDone:
			if err != nil {
				return err
			}

			return fmt.Errorf("server stopped unexpectedly")
		}
	}

	stoppingFn := func(_ error) error {
		// wait until all modules are done, and then shutdown server.
		for _, s := range servicesToWaitFor() {
			_ = s.AwaitTerminated(context.Background())
		}

		// shutdown HTTP and gRPC servers (this also unblocks Run)
		server.Shutdown()

		// if not closed yet, wait until server stops.
		<-serverDone
		a.logger.Info("server stopped")
		return nil
	}

	return services.NewBasicService(nil, runFn, stoppingFn), nil
}
