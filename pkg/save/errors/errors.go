// Package errors holds the sentinel errors shared by the save packages.
package errors

import "errors"

var (
	// File format errors 📦
	ErrInvalidSaveSize    = errors.New("❌ invalid save file size")
	ErrUnknownBlockID     = errors.New("❌ unknown block id")
	ErrDuplicateBlockID   = errors.New("❌ duplicate block id")
	ErrChecksumMismatch   = errors.New("❌ block checksum mismatch")
	ErrSignatureMismatch  = errors.New("❌ file signature mismatch")
	ErrInvalidSignature   = errors.New("❌ invalid file signature")
	ErrSaveIndexMismatch  = errors.New("❌ save index mismatch")
	ErrUnknownSignature   = errors.New("❌ unknown game signature")
	ErrOldVersion         = errors.New("❌ save comes from an unsupported old game version")
	ErrSaveFileNotFound   = errors.New("❌ save file not found")
	ErrEmptySlotIndex     = errors.New("❌ lone slot does not carry save index 1")
	ErrMissingBlock       = errors.New("❌ required block missing")
	ErrBoxDataSize        = errors.New("❌ box data has the wrong size")
	ErrUnsupportedProfile = errors.New("❌ game profile does not support this operation")

	// Addressing errors 🧭
	ErrFlagOutOfRange = errors.New("❌ flag id out of range")
	ErrVarOutOfRange  = errors.New("❌ var id out of range")

	// Record errors 🧬
	ErrRecordOutOfBounds      = errors.New("❌ record window out of bounds")
	ErrAbilitySearchExhausted = errors.New("❌ no personality found for requested ability")
	ErrInvalidAbilitySlot     = errors.New("❌ invalid ability slot")

	// Table errors 📚
	ErrTableMissing = errors.New("❌ game data table missing")
	ErrTableInvalid = errors.New("❌ game data table invalid")

	// Rule errors 📜
	ErrRuleInvalid = errors.New("❌ invalid accessibility rule")

	// Cloud file errors ☁️
	ErrCloudFileInvalid   = errors.New("❌ cloud file is not a record collection")
	ErrCloudRecordInvalid = errors.New("❌ cloud record could not be converted")

	// Session errors 🗂️
	ErrTooManyRecords = errors.New("❌ more records than box slots")
	ErrSessionPanic   = errors.New("❌ save pipeline panicked")
)
