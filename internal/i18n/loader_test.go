package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndTranslate(t *testing.T) {
	require.NoError(t, Load())

	assert.Equal(t, "unauthorized", T(LangEN, "error.unauthorized"))
	assert.NotEqual(t, T(LangEN, "error.unauthorized"), T(LangHI, "error.unauthorized"))

	// unknown language falls back to en
	assert.Equal(t, T(LangEN, "error.internal"), T("ta", "error.internal"))

	// unknown key falls back to the key itself
	assert.Equal(t, "error.nope", T(LangEN, "error.nope"))
}
