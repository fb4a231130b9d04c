package pkg

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/pkg/logging"
	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

// VerifySaveWithLogger checks both slots of the save at path and logs one
// line per slot. It fails when any non-empty slot is corrupt or when no
// slot is usable.
func VerifySaveWithLogger(path string, registry *profile.Registry, logger hclog.Logger) ([]blocks.SlotReport, error) {
	logger = logging.OrNull(logger)
	store := blocks.NewStoreWithLogger(registry, logger.Named("blocks"))

	logger.Info("Verifying save integrity", "path", path)

	reports, err := store.Inspect(path)
	if err != nil {
		logger.Error("✗ Save unreadable", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	failures := 0
	usable := 0
	for _, r := range reports {
		game := "unknown"
		if details, ok := registry.Details(r.Signature); ok {
			game = details.Name
		} else if name := registry.OldVersionName(r.Signature); name != "" {
			game = name
		}

		switch {
		case r.Empty:
			logger.Info("○ Slot empty", "slot", r.Name)
		case r.Valid():
			usable++
			logger.Info("✓ Slot valid", "slot", r.Name, "active", r.Active,
				"game", game, "save_index", r.SaveIndex)
		default:
			failures++
			logger.Error("✗ Slot invalid", "slot", r.Name, "active", r.Active,
				"game", game, "error", r.Err)
		}
	}

	if failures > 0 {
		logger.Error("✗ Save verification failed", "error_count", failures)
		return reports, fmt.Errorf("%w: %d corrupt slot(s)", ErrVerificationFailed, failures)
	}
	if usable == 0 {
		logger.Error("✗ Save verification failed", "reason", "no valid slot")
		return reports, ErrNoValidSlot
	}

	logger.Info("✓ Save verification passed")
	return reports, nil
}

// VerifySave verifies a save using default logger settings
func VerifySave(path string, registry *profile.Registry) ([]blocks.SlotReport, error) {
	logger := logging.NewLogger("savebox-verify", logging.GetLogLevel(), nil)
	return VerifySaveWithLogger(path, registry, logger)
}
