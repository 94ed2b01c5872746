package locale_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/locale"
)

// translationKeys lists every key the front ends resolve.
var translationKeys = []string{
	config.TKeyWinTitle, config.TKeyWinSettings, config.TKeyHeaderTitle,
	config.TKeyStatTotal, config.TKeyStatUpcoming, config.TKeyStatPast,
	config.TKeyViewList, config.TKeyViewCards, config.TKeyViewGrid,
	config.TKeyFilterAll, config.TKeyFilterUpcoming, config.TKeyFilterPast,
	config.TKeyDaysLeft, config.TKeyDaysSince, config.TKeyToday,
	config.TKeyNextOccurrence, config.TKeyNavTitle, config.TKeyEmptyList,
	config.TKeyMenuShow, config.TKeyMenuAdd, config.TKeyMenuSettings, config.TKeyMenuImport,
	config.TKeyTrayStatus, config.TKeyTrayStatusZero,
	config.TKeyDlgAddTitle, config.TKeyDlgEditTitle, config.TKeyDlgDeleteTitle, config.TKeyDlgDeleteMsg,
	config.TKeyLblTitle, config.TKeyLblDate, config.TKeyLblType, config.TKeyLblColor, config.TKeyLblRecurs,
	config.TKeyHelpDate, config.TKeyHelpColor,
	config.TKeyErrTitleReq, config.TKeyErrDateFormat, config.TKeyErrColorFormat,
	config.TKeyTypeBirthday, config.TKeyTypeAnniversary, config.TKeyTypeQuitSmoking,
	config.TKeyTypeHoliday, config.TKeyTypeGraduation, config.TKeyTypeCustom,
	config.TKeyBtnSave, config.TKeyBtnCancel, config.TKeyBtnEdit, config.TKeyBtnDelete,
	config.TKeyBtnBrowse, config.TKeyBtnImport, config.TKeyBtnReset, config.TKeyBtnOnboarding, config.TKeyBtnGetStarted,
	config.TKeyLblGeneral, config.TKeyLblLanguage, config.TKeyHelpLanguage,
	config.TKeyLblPort, config.TKeyHelpPort, config.TKeyLblSource,
	config.TKeyModeCardDAV, config.TKeyModeLocal,
	config.TKeyLblURL, config.TKeyHelpURL, config.TKeyLblUser, config.TKeyLblPass, config.TKeyLblFooter,
	config.TKeyResetTitle, config.TKeyResetMsg, config.TKeyOnboardTitle, config.TKeyOnboardBody,
	config.TKeyNotifImportOK, config.TKeyNotifImportErr,
	config.TKeyErrPortReq, config.TKeyErrPortNum, config.TKeyErrPortRange,
	config.TKeyFormatDate,
}

// TestI18nIntegrity ensures every key referenced in config.go exists in each locale file.
func TestI18nIntegrity(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("locales", "active.*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			content, err := os.ReadFile(path)
			require.NoError(t, err)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in %s", key, path)
			}
			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				if !defined[jsonKey] {
					t.Logf("Warning: Key '%s' exists in JSON but is not checked in the test suite (might be unused)", jsonKey)
				}
			}
		})
	}
}

func TestTranslator_Languages(t *testing.T) {
	tr := locale.New("")
	assert.Equal(t, []string{"en", "fr"}, tr.Languages())
	assert.Equal(t, config.DefaultLanguage, tr.Language())
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages())
}

func TestTranslator_MsgAndFallback(t *testing.T) {
	tr := locale.New("en")
	assert.Equal(t, "List View", tr.Msg(config.TKeyViewList))
	assert.Equal(t, "not_a_key", tr.Msg("not_a_key"))

	tr.SetLanguage("fr")
	assert.Equal(t, "Vue liste", tr.Msg(config.TKeyViewList))

	tr.SetLanguage("de")
	assert.Equal(t, "List View", tr.Msg(config.TKeyViewList), "unknown languages fall back to English")
}

func TestTranslator_PluralAndTemplates(t *testing.T) {
	tr := locale.New("en")

	assert.Equal(t, "day left", tr.Plural(config.TKeyDaysLeft, 1, nil))
	assert.Equal(t, "days left", tr.Plural(config.TKeyDaysLeft, 5, nil))
	assert.Equal(t, "days since", tr.Plural(config.TKeyDaysSince, 10, nil))
	assert.Equal(t, "3 special days today", tr.Plural(config.TKeyTrayStatus, 3, nil))

	assert.Equal(t, "Upcoming Events (2)",
		tr.Format(config.TKeyNavTitle, map[string]any{"Title": "Upcoming Events", "Count": 2}))
	assert.Equal(t, `Delete "Trip"? This cannot be undone.`,
		tr.Format(config.TKeyDlgDeleteMsg, map[string]any{"Title": "Trip"}))
}
