package pkg

import "errors"

var (
	// Verification errors 🔍
	ErrVerificationFailed = errors.New("❌ save verification failed")
	ErrNoValidSlot        = errors.New("❌ save has no valid slot")

	// Setup errors 🗂️
	ErrDataRootIncomplete = errors.New("❌ data root incomplete")
)
