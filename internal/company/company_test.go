package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/primary-risks/internal/jsondoc"
)

func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	v, err := jsondoc.Decode([]byte(raw))
	require.NoError(t, err)
	rec, ok := FromValue(0, v)
	require.True(t, ok)
	return rec
}

func TestFromValueRejectsNonObjects(t *testing.T) {
	_, ok := FromValue(3, jsondoc.String("toyota"))
	assert.False(t, ok)
}

func TestLabelFallbacks(t *testing.T) {
	assert.Equal(t, "toyota", decodeRecord(t, `{"slug": "toyota", "ticker": "7203"}`).Label())
	assert.Equal(t, "7203", decodeRecord(t, `{"ticker": "7203"}`).Label())
	assert.Equal(t, "Sony", decodeRecord(t, `{"slug": 1, "name_en": "Sony"}`).Label())
	assert.Equal(t, "#0", decodeRecord(t, `{}`).Label())
}

func TestOutlookShapes(t *testing.T) {
	cases := map[string]string{
		"missing":      `{}`,
		"null":         `{"outlook": null}`,
		"empty object": `{"outlook": {}}`,
		"string":       `{"outlook": "soon"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := decodeRecord(t, raw).Outlook()
			assert.False(t, ok)
		})
	}
}

func TestBulletsRequireArray(t *testing.T) {
	outlook, ok := decodeRecord(t, `{"outlook": {"bullets": {"n": 5}}}`).Outlook()
	require.True(t, ok)
	_, ok = outlook.Bullets()
	assert.False(t, ok)
}

func TestBulletFields(t *testing.T) {
	rec := decodeRecord(t, `{"outlook": {"bullets": [
		"stray text",
		{"n": 5.0, "risks": ["a", "b"], "body": ""},
		{"n": "5", "risks": ["a", 2]},
		{"n": true}
	]}}`)
	outlook, ok := rec.Outlook()
	require.True(t, ok)
	bullets, ok := outlook.Bullets()
	require.True(t, ok)
	require.Len(t, bullets, 3, "non-object bullets are skipped")

	first := bullets[0]
	assert.Equal(t, 1, first.Index)
	assert.True(t, first.Is(PrimaryRisksN))
	assert.True(t, first.RisksValid)
	assert.Equal(t, []string{"a", "b"}, first.Risks)
	assert.False(t, first.HasBody())

	second := bullets[1]
	assert.False(t, second.Is(PrimaryRisksN), "string n is not a number")
	assert.True(t, second.RisksPresent)
	assert.False(t, second.RisksValid, "mixed risk list is not a string list")

	assert.False(t, bullets[2].Is(1), "booleans are not bullet numbers")
}

func TestReplaceRisksRewritesObject(t *testing.T) {
	rec := decodeRecord(t, `{"outlook": {"bullets": [{"n": 5, "body": null, "risks": ["x"], "title": "Risks"}]}}`)
	outlook, _ := rec.Outlook()
	bullets, _ := outlook.Bullets()
	require.Len(t, bullets, 1)

	bullets[0].ReplaceRisks("X.")

	out, err := jsondoc.Marshal(bullets[0].obj)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 5,\n  \"body\": \"X.\",\n  \"title\": \"Risks\"\n}", string(out))
	assert.True(t, bullets[0].HasBody())
	assert.False(t, bullets[0].RisksPresent)
}
