package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	apperrors "github.com/olusolaa/flow-drift-detector/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONCarriesFieldsAndErrorCode(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	flowLog := logger.WithFields(map[string]any{"flow": "ApprovalFlow"})
	flowLog.Errorf(context.Background(), apperrors.New(apperrors.CodeFetchError, "boom"), "fetch failed for %s", "source")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetch failed for source", entry["msg"])
	assert.Equal(t, "ApprovalFlow", entry["flow"])
	assert.Equal(t, "FETCH_ERROR", entry["error_code"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LevelWarn, Format: FormatText, Output: &buf})
	require.NoError(t, err)

	logger.Infof(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.Warnf(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_RejectsUnknownFormat(t *testing.T) {
	_, err := NewLogger(Config{Level: LevelInfo, Format: "xml"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfigValidation))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestWithFields_SortedAndSuggestion(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: LevelInfo, Format: FormatText, Output: &buf})
	require.NoError(t, err)

	logger.WithFields(map[string]any{"target": "uat", "flow": "Invoice", "source": "dev"}).
		Errorf(context.Background(), apperrors.NewUserFacing(apperrors.CodeAuthError, "denied", "Check the app registration"), "token")

	out := buf.String()
	assert.Regexp(t, `flow=Invoice source=dev target=uat`, out)
	assert.Contains(t, out, `suggestion="Check the app registration"`)
}
