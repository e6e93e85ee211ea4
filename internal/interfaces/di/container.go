package di

import (
	"context"
	"log"
	"os"

	"heysol.ai/client/internal/interfaces/cli"
	"heysol.ai/client/internal/registry"
)

// Container holds all application dependencies
type Container struct {
	Registry     *registry.Registry
	CLIContainer *cli.Container
	Logger       *log.Logger
}

// NewContainer creates and configures the dependency injection container
func NewContainer() (*Container, error) {
	container := &Container{
		Logger: log.New(os.Stderr, "[heysol] ", log.LstdFlags),
	}

	container.initializeComponents()
	return container, nil
}

// initializeComponents wires the registry and CLI container. A broken
// registry file degrades to an empty registry so the CLI still runs.
func (c *Container) initializeComponents() {
	reg, err := registry.Load("", c.Logger)
	if err != nil {
		c.Logger.Printf("Warning: Failed to load instance registry, starting empty: %v", err)
		reg = registry.New("", c.Logger)
	}
	c.Registry = reg

	c.CLIContainer = &cli.Container{
		Logger:   c.Logger,
		Registry: c.Registry,
	}
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.Container {
	return c.CLIContainer
}

// Shutdown gracefully releases container resources. Commands close their
// own clients, so there is nothing long-lived to stop yet.
func (c *Container) Shutdown(ctx context.Context) error {
	return nil
}
