package pkg_test

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/savebox/go/savebox/internal/fixtures"
	"github.com/provide-io/savebox/go/savebox/pkg"
	"github.com/provide-io/savebox/go/savebox/pkg/config"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "pkg_test",
		Level: hclog.Trace,
	})
}

func TestVerifySave(t *testing.T) {
	registry := profile.DefaultRegistry()

	testCases := []struct {
		name    string
		image   func() *fixtures.Image
		wantErr error
	}{
		{
			name: "valid",
			image: func() *fixtures.Image {
				return fixtures.NewSave(profile.SignatureUnbound, fixtures.BlankPayloads())
			},
		},
		{
			name: "corrupt_block",
			image: func() *fixtures.Image {
				img := fixtures.NewSave(profile.SignatureUnbound, fixtures.BlankPayloads())
				img.Data[10] ^= 0xFF
				return img
			},
			wantErr: pkg.ErrVerificationFailed,
		},
		{
			name:    "erased",
			image:   fixtures.NewImage,
			wantErr: pkg.ErrNoValidSlot,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := tc.image().Write(t, tc.name+".sav")
			reports, err := pkg.VerifySaveWithLogger(path, registry, testLogger())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, reports, 2)
			assert.True(t, reports[0].Active)
			assert.True(t, reports[1].Empty)
		})
	}
}

func TestVerifySaveMissingFile(t *testing.T) {
	_, err := pkg.VerifySaveWithLogger(filepath.Join(t.TempDir(), "nope.sav"), profile.DefaultRegistry(), nil)
	assert.ErrorIs(t, err, pkg.ErrVerificationFailed)
}

func TestNewSession(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	s, err := pkg.NewSession(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, s)

	err = pkg.CheckDataRoot(cfg, profile.DefaultRegistry())
	assert.ErrorIs(t, err, pkg.ErrDataRootIncomplete)

	// An upload against an empty data root degrades instead of failing
	path := fixtures.NewSave(profile.SignatureUnbound, fixtures.BlankPayloads()).Write(t, "game.sav")
	res := s.UploadSave(path)
	assert.Empty(t, res.Boxes)
}

func TestNewSessionBadProfiles(t *testing.T) {
	cfg := config.Default()
	cfg.ProfilesFile = filepath.Join(t.TempDir(), "missing.yml")

	_, err := pkg.NewSession(cfg, nil)
	assert.Error(t, err)
}
