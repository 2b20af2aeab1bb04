package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kingrea/primary-risks/internal/jsondoc"
)

func decodeRecords(t *testing.T, raw string) []jsondoc.Value {
	t.Helper()
	v, err := jsondoc.Decode([]byte(raw))
	require.NoError(t, err)
	arr, ok := v.(*jsondoc.Array)
	require.True(t, ok, "fixture root must be an array")
	return arr.Items
}

func encode(t *testing.T, records []jsondoc.Value) string {
	t.Helper()
	out, err := jsondoc.Marshal(&jsondoc.Array{Items: records})
	require.NoError(t, err)
	return string(out)
}

func bulletAt(t *testing.T, records []jsondoc.Value, record, bullet int) *jsondoc.Object {
	t.Helper()
	outlook, _ := records[record].(*jsondoc.Object).Get("outlook")
	bullets, _ := outlook.(*jsondoc.Object).Get("bullets")
	obj, ok := bullets.(*jsondoc.Array).Items[bullet].(*jsondoc.Object)
	require.True(t, ok)
	return obj
}

func TestJoinRisksFormatting(t *testing.T) {
	got := JoinRisks([]string{"Market volatility", "Regulatory changes.", "  Talent attrition  "})
	assert.Equal(t, "Market volatility. Regulatory changes. Talent attrition.", got)
}

func TestJoinRisksCollapsesTrailingPeriods(t *testing.T) {
	assert.Equal(t, "Yen strength. Chip supply.", JoinRisks([]string{"Yen strength...", " Chip supply. "}))
	assert.Equal(t, "円高.", JoinRisks([]string{"　円高　"}))
}

func TestApplyRewritesPrimaryRisksBullet(t *testing.T) {
	records := decodeRecords(t, `[
		{"slug": "toyota", "outlook": {"bullets": [
			{"n": 4, "body": "Growth."},
			{"n": 5, "title": "Primary Risks", "risks": ["Market volatility", "Regulatory changes."]}
		]}}
	]`)

	result := Apply(records)

	require.Equal(t, 1, result.Changed())
	change := result.Changes[0]
	assert.Equal(t, "toyota", change.Company)
	assert.Equal(t, 0, change.Record)
	assert.Equal(t, 1, change.Bullet)
	assert.Equal(t, []string{"Market volatility", "Regulatory changes."}, change.Risks)
	assert.Equal(t, "Market volatility. Regulatory changes.", change.Body)

	bullet := bulletAt(t, records, 0, 1)
	_, hasRisks := bullet.Get("risks")
	assert.False(t, hasRisks, "risks key must be removed")
	body, _ := bullet.Get("body")
	assert.Equal(t, jsondoc.String("Market volatility. Regulatory changes."), body)
	assert.Equal(t, []string{"n", "title", "body"}, bullet.Keys())
}

func TestApplyIsIdempotent(t *testing.T) {
	records := decodeRecords(t, `[
		{"slug": "a", "outlook": {"bullets": [{"n": 5, "risks": ["One", "Two"]}]}},
		{"slug": "b", "outlook": {"bullets": [{"n": 5, "risks": ["Three"], "body": null}]}}
	]`)

	first := Apply(records)
	require.Equal(t, 2, first.Changed())
	snapshot := encode(t, records)

	second := Apply(records)
	assert.Equal(t, 0, second.Changed())
	assert.Equal(t, snapshot, encode(t, records))
}

func TestApplyLeavesFixedPointsUntouched(t *testing.T) {
	raw := `[
		{"slug": "other-bullet", "outlook": {"bullets": [{"n": 3, "risks": ["Keep me"]}]}},
		{"slug": "has-body", "outlook": {"bullets": [{"n": 5, "risks": ["Keep"], "body": "Already written."}]}},
		{"slug": "blank-body", "outlook": {"bullets": [{"n": 5, "risks": ["Keep"], "body": " "}]}},
		{"slug": "empty-risks", "outlook": {"bullets": [{"n": 5, "risks": []}]}},
		{"slug": "no-risks", "outlook": {"bullets": [{"n": 5}]}},
		{"slug": "mixed-risks", "outlook": {"bullets": [{"n": 5, "risks": ["ok", 7]}]}},
		{"slug": "string-risks", "outlook": {"bullets": [{"n": 5, "risks": "Single risk"}]}},
		{"slug": "string-n", "outlook": {"bullets": [{"n": "5", "risks": ["Keep"]}]}},
		{"slug": "no-outlook"},
		{"slug": "null-outlook", "outlook": null},
		{"slug": "bullets-object", "outlook": {"bullets": {"n": 5, "risks": ["Keep"]}}},
		"not a record",
		{"slug": "stray-bullet", "outlook": {"bullets": ["text", 5]}}
	]`
	records := decodeRecords(t, raw)
	before := encode(t, records)

	result := Apply(records)

	assert.Equal(t, 0, result.Changed())
	assert.Equal(t, before, encode(t, records))
}

func TestApplyTreatsFalsyBodyAsMissing(t *testing.T) {
	for _, body := range []string{`null`, `""`, `false`, `0`, `[]`, `{}`} {
		t.Run(body, func(t *testing.T) {
			records := decodeRecords(t, `[{"outlook": {"bullets": [{"n": 5, "body": `+body+`, "risks": ["Risk"]}]}}]`)
			result := Apply(records)
			require.Equal(t, 1, result.Changed())
			bullet := bulletAt(t, records, 0, 0)
			assert.Equal(t, []string{"n", "body"}, bullet.Keys(), "existing body key keeps its position")
		})
	}
}

func TestApplyAcceptsFloatBulletNumber(t *testing.T) {
	records := decodeRecords(t, `[{"outlook": {"bullets": [{"n": 5.0, "risks": ["Risk"]}]}}]`)
	assert.Equal(t, 1, Apply(records).Changed())
}

func TestApplyTransformsDuplicatePrimaryBullets(t *testing.T) {
	records := decodeRecords(t, `[{"slug": "dup", "outlook": {"bullets": [
		{"n": 5, "risks": ["First"]},
		{"n": 5, "risks": ["Second"]}
	]}}]`)

	result := Apply(records)

	assert.Equal(t, 2, result.Changed())
	assert.Equal(t, []string{"dup"}, result.Companies())
}

func TestWithBulletTargetsAnotherNumber(t *testing.T) {
	records := decodeRecords(t, `[{"outlook": {"bullets": [
		{"n": 5, "risks": ["Five"]},
		{"n": 6, "risks": ["Six"]}
	]}}]`)

	result := New(WithBullet(6)).Apply(records)

	require.Equal(t, 1, result.Changed())
	assert.Equal(t, 1, result.Changes[0].Bullet)
}

func TestApplyLogsShapeSkips(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	records := decodeRecords(t, `[
		1,
		{"slug": "mixed", "outlook": {"bullets": [{"n": 5, "risks": [1]}]}}
	]`)

	New(WithLogger(zap.New(core))).Apply(records)

	assert.Equal(t, 1, logs.FilterMessage("skip record: not an object").Len())
	assert.Equal(t, 1, logs.FilterMessage("skip bullet: risks is not a list of strings").Len())
}
