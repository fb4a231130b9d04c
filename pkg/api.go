// Package pkg wires the save packages together for the savebox commands.
package pkg

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/internal/workenv"
	"github.com/provide-io/savebox/go/savebox/pkg/config"
	"github.com/provide-io/savebox/go/savebox/pkg/logging"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
	"github.com/provide-io/savebox/go/savebox/pkg/save/session"
)

// LoadRegistry returns the game registry named by cfg
func LoadRegistry(cfg config.Config) (*profile.Registry, error) {
	return profile.LoadRegistry(cfg.ProfilesFile)
}

// NewSession builds a session reading game tables from cfg.DataDir
func NewSession(cfg config.Config, logger hclog.Logger) (*session.Session, error) {
	logger = logging.OrNull(logger)

	registry, err := LoadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	if err := CheckDataRoot(cfg, registry); err != nil {
		// Uploads of games whose tables exist still work
		logger.Warn("⚠️ Incomplete data root", "error", err)
	}

	loader := profile.NewLoader(cfg.DataDir, registry, logger.Named("profile"))
	logger.Debug("🔧 Session ready", "data_dir", cfg.DataDir, "games", len(registry.Games()))
	return session.New(cfg, registry, loader, logger.Named("session")), nil
}

// CheckDataRoot reports the game tables missing under cfg.DataDir
func CheckDataRoot(cfg config.Config, registry *profile.Registry) error {
	if err := workenv.ValidateDataRoot(cfg.DataDir, registry.DefinesDirs()...); err != nil {
		return fmt.Errorf("%w: %v", ErrDataRootIncomplete, err)
	}
	return nil
}
