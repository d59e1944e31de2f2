package launcher

import (
	"os"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"

	"github.com/proxysurf/launcher/internal/config"
)

// ServiceProgram implements the service.Interface
type ServiceProgram struct {
	exit   chan struct{}
	config *config.Config
}

func (p *ServiceProgram) Start(s service.Service) error {
	logrus.Infoln("Proxysurf service starting")
	go p.run()
	return nil
}

func (p *ServiceProgram) run() {
	if err := Run(p.config, p.exit); err != nil {
		logrus.WithError(err).Errorln("Browser launch failed")
	}
}

func (p *ServiceProgram) Stop(s service.Service) error {
	logrus.Infoln("Proxysurf service stopping")
	close(p.exit)
	return nil
}

// CreateService creates a new service instance
func CreateService(cfg *config.Config) (service.Service, error) {
	svcConfig := getServiceConfig()

	prg := &ServiceProgram{
		exit:   make(chan struct{}),
		config: cfg,
	}

	return service.New(prg, svcConfig)
}

// getServiceConfig returns the service configuration
func getServiceConfig() *service.Config {
	exePath, err := os.Executable()

	if err != nil {
		logrus.Fatal(err)
	}

	return &service.Config{
		Name:        "proxysurf",
		DisplayName: "Proxysurf Browser Service",
		Description: "Proxysurf - proxied browser sessions with persistent storage state",
		Executable:  exePath,
		Arguments: []string{
			"service", "run",
		},
	}
}
