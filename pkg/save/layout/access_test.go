package layout

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/savebox/go/savebox/internal/fixtures"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	"github.com/provide-io/savebox/go/savebox/pkg/save/profile"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Name: "layout_test", Level: hclog.Trace})
}

func TestUnboundAccessibility(t *testing.T) {
	e := NewEvaluator(fixtures.Profile(profile.SignatureUnbound), testLogger())

	testCases := []struct {
		name       string
		setup      func(t *testing.T, b map[uint16][]byte)
		accessible bool
	}{
		{
			name:       "fresh_save",
			setup:      func(t *testing.T, b map[uint16][]byte) {},
			accessible: true,
		},
		{
			name: "insane_difficulty",
			setup: func(t *testing.T, b map[uint16][]byte) {
				require.NoError(t, VarSet(0x50DF, 3, b))
			},
		},
		{
			name: "insane_after_game_clear",
			setup: func(t *testing.T, b map[uint16][]byte) {
				require.NoError(t, VarSet(0x50DF, 3, b))
				require.NoError(t, FlagSet(profile.FlagGameClear, true, b))
			},
			accessible: true,
		},
		{
			name: "insane_with_override_flag",
			setup: func(t *testing.T, b map[uint16][]byte) {
				require.NoError(t, VarSet(0x50DF, 3, b))
				require.NoError(t, FlagSet(0x16DB, true, b))
			},
			accessible: true,
		},
		{
			name: "hard_difficulty",
			setup: func(t *testing.T, b map[uint16][]byte) {
				require.NoError(t, VarSet(0x50DF, 2, b))
			},
			accessible: true,
		},
		{
			name: "locked_mode",
			setup: func(t *testing.T, b map[uint16][]byte) {
				require.NoError(t, FlagSet(0x16E4, true, b))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := blankBlocks()
			tc.setup(t, b)

			assert.Equal(t, tc.accessible, e.IsAccessibleCurrently(b))
			if tc.accessible {
				assert.Empty(t, e.InaccessibleReason(b))
			} else {
				assert.NotEmpty(t, e.InaccessibleReason(b))
			}
		})
	}
}

func TestMAGMAccessibility(t *testing.T) {
	e := NewEvaluator(fixtures.Profile(profile.SignatureMAGM), testLogger())
	b := blankBlocks()
	assert.False(t, e.IsAccessibleCurrently(b))

	require.NoError(t, FlagSet(0x215, true, b))
	assert.True(t, e.IsAccessibleCurrently(b))
}

func TestScriptRules(t *testing.T) {
	p := &profile.GameProfile{
		Details: profile.GameDetails{
			Name: "scripted",
			Inaccessible: []profile.Rule{
				{Script: "var(0x4010) >= 5 and not flag(0x20)", Reason: "too early"},
				{Script: "flag(0x5000)", Reason: "never reached"},
			},
		},
		Tables: fixtures.Tables(),
	}
	e := NewEvaluator(p, testLogger())

	b := blankBlocks()
	assert.True(t, e.IsAccessibleCurrently(b), "out of range flag in second rule is skipped")

	require.NoError(t, VarSet(0x4010, 7, b))
	assert.Equal(t, "too early", e.InaccessibleReason(b))

	require.NoError(t, FlagSet(0x20, true, b))
	assert.True(t, e.IsAccessibleCurrently(b))
}

func TestEvalScript(t *testing.T) {
	b := blankBlocks()
	require.NoError(t, FlagSet(0x941, true, b))

	got, err := EvalScript("flag(0x941) and var(0x4000) == 0", b)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = EvalScript("flag(", b)
	assert.ErrorIs(t, err, saveerrors.ErrRuleInvalid)

	_, err = EvalScript("os.exit(1)", b)
	assert.Error(t, err, "standard libraries are not loaded")
}

func TestRandomizerDetection(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		e := NewEvaluator(fixtures.Profile(profile.SignatureCFRE), testLogger())
		b := blankBlocks()
		assert.False(t, e.IsRandomizedSave(b))

		require.NoError(t, FlagSet(0x941, true, b))
		assert.True(t, e.RandomizerFlagsSet(b))
		assert.True(t, e.IsRandomizedSave(b))
		assert.False(t, e.IsThirdPartyRandomizerFile(b))
	})

	t.Run("third_party_trainer", func(t *testing.T) {
		p := fixtures.Profile(profile.SignatureUnbound)
		p.Details.RandomizerTrainers = []profile.Trainer{{Name: "Deneb", ID: 0x55FCD528}}
		e := NewEvaluator(p, testLogger())

		b := blankBlocks()
		copy(b[TrainerBlock][TrainerNameOffset:], p.CharMap.Encode("Deneb", TrainerNameWidth))
		assert.False(t, e.IsThirdPartyRandomizerFile(b), "id does not match yet")

		copy(b[TrainerBlock][TrainerIDOffset:], []byte{0x28, 0xD5, 0xFC, 0x55})
		assert.True(t, e.IsThirdPartyRandomizerFile(b))
		assert.False(t, e.RandomizerFlagsSet(b))
		assert.True(t, e.IsRandomizedSave(b))
	})
}
