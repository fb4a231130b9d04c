// Package session runs the three save operations end to end: reading a save
// for editing, writing edited records back into a copy of it, and migrating
// old cloud files.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/savebox/go/savebox/internal/workenv"
	"github.com/provide-io/savebox/go/savebox/pkg/cloud"
	"github.com/provide-io/savebox/go/savebox/pkg/config"
	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	"github.com/provide-io/savebox/go/savebox/pkg/save/layout"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
	"github.com/provide-io/savebox/go/savebox/pkg/save/record"
)

// ProfileSource resolves a file signature to its game profile.
// *profile.Loader satisfies it.
type ProfileSource interface {
	Load(signature uint32) (*profile.GameProfile, error)
}

// UploadResult is what UploadSave reports about a save
type UploadResult struct {
	GameID             string                 `json:"gameId"`
	BoxCount           int                    `json:"boxCount"`
	Boxes              []record.PokemonRecord `json:"boxes"`
	Titles             []string               `json:"titles"`
	Randomizer         bool                   `json:"randomizer"`
	InaccessibleReason string                 `json:"inaccessibleReason"`
	OldVersion         string                 `json:"oldVersion"`
}

func emptyUpload() UploadResult {
	return UploadResult{Boxes: []record.PokemonRecord{}, Titles: []string{}}
}

// ConvertResult is what ConvertOldCloudFile reports
type ConvertResult struct {
	Completed bool   `json:"completed"`
	ErrorMsg  string `json:"errorMsg"`
}

// Session ties the store, the profiles and the codecs together. It holds
// no per-call state and may serve concurrent calls.
type Session struct {
	cfg      config.Config
	registry *profile.Registry
	profiles ProfileSource
	store    *blocks.Store
	logger   hclog.Logger
}

// New creates a session. A nil logger discards output.
func New(cfg config.Config, registry *profile.Registry, profiles ProfileSource, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Session{
		cfg:      cfg,
		registry: registry,
		profiles: profiles,
		store:    blocks.NewStoreWithLogger(registry, logger.Named("blocks")),
		logger:   logger,
	}
}

// Store returns the block store the session reads and writes saves with
func (s *Session) Store() *blocks.Store {
	return s.store
}

// codec builds a record codec for p honouring the configured salt and
// ability search cap
func (s *Session) codec(p *profile.GameProfile) *record.Codec {
	c := record.NewCodecWithLogger(p, s.cfg.ChecksumSalt, s.logger.Named("record"))
	if s.cfg.MaxAbilityAttempts > 0 {
		c.Engine().SetMaxAttempts(s.cfg.MaxAbilityAttempts)
	}
	return c
}

// recoverInto turns a panic of the calling pipeline into *err
func (s *Session) recoverInto(op string, err *error) {
	if r := recover(); r != nil {
		s.logger.Error("💥 Save pipeline panicked",
			"operation", op,
			"panic", r,
			"stack", string(debug.Stack()),
		)
		*err = fmt.Errorf("%w: %s: %v", saveerrors.ErrSessionPanic, op, r)
	}
}

// UploadSave decodes the save at path for editing. Any failure yields the
// empty result; a save from a retired game version reports only its name.
func (s *Session) UploadSave(path string) UploadResult {
	res, err := s.Upload(path)
	if err != nil {
		s.logger.Warn("⚠️ Upload failed", "path", path, "error", err)
		return emptyUpload()
	}
	return res
}

// Upload is UploadSave with the failure reported
func (s *Session) Upload(path string) (res UploadResult, err error) {
	defer s.recoverInto("upload", &err)
	res = emptyUpload()

	b, signature, err := s.store.LoadAll(path)
	if err != nil {
		return res, err
	}
	if s.registry.IsOldVersion(signature) {
		res.OldVersion = s.registry.OldVersionName(signature)
		s.logger.Info("🕰️ Old version save", "path", path, "version", res.OldVersion)
		return res, nil
	}
	if len(b) == 0 || signature == 0 {
		return res, fmt.Errorf("%w: no blocks loaded", saveerrors.ErrMissingBlock)
	}

	p, err := s.profiles.Load(signature)
	if err != nil {
		return res, err
	}
	boxCount := p.Details.BoxCount

	data, err := layout.AssembleBoxBytes(b, boxCount)
	if err != nil {
		return res, err
	}

	codec := s.codec(p)
	evaluator := layout.NewEvaluator(p, s.logger.Named("layout"))

	res = UploadResult{
		GameID:             p.Details.DefinesDir,
		BoxCount:           boxCount,
		Boxes:              codec.DecodeAll(data),
		Titles:             layout.LoadBoxTitles(b, boxCount, p.CharMap),
		Randomizer:         evaluator.IsRandomizedSave(b),
		InaccessibleReason: evaluator.InaccessibleReason(b),
	}
	if res.Titles == nil {
		res.Titles = []string{}
	}

	s.logger.Info("📤 Save uploaded",
		"path", path,
		"game", p.Details.Name,
		"records", len(res.Boxes),
		"randomizer", res.Randomizer,
	)
	return res, nil
}

// UpdateSave writes the records of editedPath into a copy of originalPath
// and returns the copy's path, or "" on failure. The original is never
// modified and a failed copy is removed.
func (s *Session) UpdateSave(editedPath, originalPath string) string {
	path, err := s.Update(editedPath, originalPath)
	if err != nil {
		s.logger.Warn("⚠️ Update failed", "original", originalPath, "error", err)
		return ""
	}
	return path
}

// Update is UpdateSave with the failure reported
func (s *Session) Update(editedPath, originalPath string) (newPath string, err error) {
	defer func() {
		if err != nil && newPath != "" {
			if rmErr := os.Remove(newPath); rmErr != nil && !os.IsNotExist(rmErr) {
				s.logger.Error("❌ Failed to remove partial save", "path", newPath, "error", rmErr)
			}
			newPath = ""
		}
	}()
	defer s.recoverInto("update", &err)

	b, signature, err := s.store.LoadAll(originalPath)
	if err != nil {
		return "", err
	}
	if len(b) == 0 || signature == 0 || s.registry.IsOldVersion(signature) {
		return "", fmt.Errorf("%w: 0x%08X", saveerrors.ErrOldVersion, signature)
	}

	p, err := s.profiles.Load(signature)
	if err != nil {
		return "", err
	}
	if !p.Details.CFRU {
		return "", fmt.Errorf("%w: %s is not a CFRU game", saveerrors.ErrUnsupportedProfile, p.Details.Name)
	}

	records, err := readRecords(editedPath)
	if err != nil {
		return "", err
	}

	newPath = workenv.UpdatedSavePath(originalPath)
	if err := copyFile(originalPath, newPath); err != nil {
		return newPath, err
	}

	if err := s.applyRecords(p, b, records); err != nil {
		return newPath, err
	}
	if err := s.store.ReplaceAll(newPath, b); err != nil {
		return newPath, err
	}

	s.logger.Info("💾 Save updated", "original", originalPath, "updated", newPath, "records", len(records))
	return newPath, nil
}

// applyRecords encodes records into the box storage of b and marks their
// species in the Pokédex. Slots past the end of records keep their data.
func (s *Session) applyRecords(p *profile.GameProfile, b blocks.Blocks, records []record.PokemonRecord) error {
	boxCount := p.Details.BoxCount
	storage, err := layout.AssembleBoxBytes(b, boxCount)
	if err != nil {
		return err
	}

	encoded := s.codec(p).EncodeAll(records)
	if len(encoded) > len(storage) {
		return fmt.Errorf("%w: %d records, %d slots", saveerrors.ErrTooManyRecords,
			len(records), len(storage)/record.Size)
	}
	copy(storage, encoded)
	if err := layout.ScatterBoxBytes(b, boxCount, storage); err != nil {
		return err
	}

	seen, caught, err := layout.LoadPokedexFlags(b)
	if err != nil {
		return err
	}
	dexNums := make([]int, 0, len(records))
	for _, rec := range records {
		if rec.Species != "" && rec.Species != record.SpeciesNone {
			dexNums = append(dexNums, p.SpeciesDexNum(rec.Species))
		}
	}
	layout.UpdatePokedexFlags(seen, caught, dexNums)
	return layout.StorePokedexFlags(b, seen, caught)
}

// readRecords loads the edited record list, a bare array or an object with
// a "boxes" array, optionally compressed
func readRecords(path string) ([]record.PokemonRecord, error) {
	f, err := cloud.Read(path)
	if err != nil {
		return nil, err
	}
	records := make([]record.PokemonRecord, len(f.Records))
	for i, raw := range f.Records {
		if err := json.Unmarshal(raw, &records[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", saveerrors.ErrCloudRecordInvalid, i, err)
		}
	}
	return records, nil
}

// copyFile copies src to dst with src's permission bits, including when
// dst already exists
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if err := os.WriteFile(dst, data, mode); err != nil {
		return err
	}
	return os.Chmod(dst, mode)
}

// ConvertOldCloudFile migrates the cloud file at path to the current
// record schema in place. Unbound's tables resolve the old records.
func (s *Session) ConvertOldCloudFile(path string) ConvertResult {
	n, err := s.Convert(path)
	if err != nil {
		s.logger.Warn("⚠️ Cloud file conversion failed", "path", path, "error", err)
		return ConvertResult{ErrorMsg: err.Error()}
	}
	s.logger.Debug("☁️ Cloud file migrated", "path", path, "converted", n)
	return ConvertResult{Completed: true}
}

// Convert is ConvertOldCloudFile returning the number of converted records
func (s *Session) Convert(path string) (n int, err error) {
	defer s.recoverInto("convert", &err)

	p, err := s.profiles.Load(profile.SignatureUnbound)
	if err != nil {
		return 0, err
	}
	conv := cloud.NewConverterWithLogger(s.codec(p), s.logger.Named("cloud"))
	return conv.ConvertFile(path)
}
