package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"prepai/internal/config"
	"prepai/internal/gateway"
	"prepai/internal/identity"
	"prepai/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the client logger. Records go to the log file only so they do
// not interleave with command output.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg, "prepai.log", false)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withIdentity opens the identity store for the duration of fn. The store is
// file-locked, so it is never held across a whole session.
func (c *commandContext) withIdentity(fn func(*identity.Resolver) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := identity.OpenBolt(cfg.IdentityStorePath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(identity.NewResolver(store, "", c.log()))
}

// currentIdentity resolves the active identity and the stored token.
func (c *commandContext) currentIdentity() (identity.Identity, string, error) {
	var id identity.Identity
	var token string
	err := c.withIdentity(func(r *identity.Resolver) error {
		resolved, err := r.Resolve()
		if err != nil {
			return err
		}
		id = resolved
		if resolved.Source == identity.SourceToken {
			token = r.Token()
		}
		return nil
	})
	return id, token, err
}

func (c *commandContext) gatewayClient(token string) (*gateway.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return gateway.NewClient(cfg).WithToken(token), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func identityLabel(id identity.Identity) string {
	if id.Guest() {
		return fmt.Sprintf("%s (guest)", id.UserID)
	}
	return id.UserID
}
