package launcher

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/proxysurf/launcher/internal/browser"
	"github.com/proxysurf/launcher/internal/common"
	"github.com/proxysurf/launcher/internal/config"
	"github.com/proxysurf/launcher/internal/sessions"
)

const proxyCheckTimeout = 10 * time.Second

// Run executes the full launch sequence: restore a prior session if
// one is saved, launch the proxied browser, navigate to the target,
// then hand over to the session controller until a termination signal
// (or a close on stop) ends the run. Returning nil means the normal
// shutdown path completed and the process exits 0.
func Run(cfg *config.Config, stop <-chan struct{}) error {
	engine := cfg.GetEngine()

	strategy, err := cfg.GetStrategy()
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"engine":  engine,
		"persist": cfg.Session.Persist,
		"proxy":   cfg.Proxy.Enabled(),
	}).Infoln("Starting browser launch")

	if cfg.Proxy.Enabled() {
		if err := common.CheckProxy(cfg.Proxy.Server, cfg.Proxy.Username, cfg.Proxy.Password, proxyCheckTimeout); err != nil {
			// The browser may still get through; the pre-flight is
			// advisory only.
			logrus.WithError(err).Warnln("Proxy pre-flight check failed")
		}
	}

	store, err := sessions.NewStore(cfg.GetSessionDir())
	if err != nil {
		return err
	}

	var statePath string
	if cfg.Session.Persist {
		if _, ok := store.LoadIfPresent(engine); ok {
			statePath = store.Path(engine)
			logrus.WithFields(logrus.Fields{
				"engine": engine,
				"path":   statePath,
			}).Infoln("Restoring saved session state")
		}
	}

	session, err := browser.Launch(browser.LaunchOptions{
		Engine:            engine,
		Headless:          cfg.Browser.Headless,
		Args:              cfg.Browser.Args,
		ProxyServer:       cfg.Proxy.Server,
		ProxyUsername:     cfg.Proxy.Username,
		ProxyPassword:     cfg.Proxy.Password,
		StorageStatePath:  statePath,
		NavigationTimeout: cfg.GetNavigationTimeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	if len(cfg.Target.URL) > 0 {
		if err := session.Navigate(cfg.Target.URL); err != nil {
			session.Close()
			return err
		}
	}

	controller := sessions.NewController(store, session, engine, sessions.Options{
		Persist:  cfg.Session.Persist,
		Strategy: strategy,
		Interval: cfg.GetRefreshInterval(),
	})
	controller.StartPeriodicRefresh()

	sigChan, cleanup := common.NewShutdownChannel()
	defer cleanup()

	select {
	case sig := <-sigChan:
		controller.Shutdown(sig.String())
	case <-stop:
		controller.Shutdown("stop")
	}

	return nil
}
