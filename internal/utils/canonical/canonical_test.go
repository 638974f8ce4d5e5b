package canonical_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/plaid_ledger_recon/internal/utils/canonical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_SortsKeysAtEveryLevel(t *testing.T) {
	v := map[string]any{
		"b": 1,
		"a": map[string]any{"z": true, "m": nil, "c": []any{"x", map[string]any{"q": 1, "p": 2}}},
	}

	got, err := canonical.Canonicalize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":["x",{"p":2,"q":1}],"m":null,"z":true},"b":1}`, string(got))
}

func hashJSON(t *testing.T, raw string) string {
	t.Helper()
	v, err := canonical.Decode([]byte(raw))
	require.NoError(t, err)
	h, _, err := canonical.Hash(v)
	require.NoError(t, err)
	return h
}

func TestHash_KeyOrderIndependent(t *testing.T) {
	h1 := hashJSON(t, `{"transaction_id":"txn_1","amount":25.00,"date":"2024-01-15","account_id":"acc"}`)
	h2 := hashJSON(t, `{
		"account_id": "acc",
		"date": "2024-01-15",
		"amount": 25.00,
		"transaction_id": "txn_1"
	}`)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHash_FieldDifferenceChangesHash(t *testing.T) {
	base := map[string]any{"transaction_id": "txn_1", "amount": json.Number("25.00"), "pending": false}
	variants := []map[string]any{
		{"transaction_id": "txn_2", "amount": json.Number("25.00"), "pending": false},
		{"transaction_id": "txn_1", "amount": json.Number("25.01"), "pending": false},
		{"transaction_id": "txn_1", "amount": json.Number("25.00"), "pending": true},
		{"transaction_id": "txn_1", "amount": json.Number("25.00")},
	}

	h0, _, err := canonical.Hash(base)
	require.NoError(t, err)
	for _, v := range variants {
		h, _, err := canonical.Hash(v)
		require.NoError(t, err)
		assert.NotEqual(t, h0, h)
	}
}

func TestCanonicalize_NumbersKeepSourceText(t *testing.T) {
	v, err := canonical.Decode([]byte(`{"amount": 12.50, "big": 12345678901234567890}`))
	require.NoError(t, err)

	got, err := canonical.Canonicalize(v)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":12.50,"big":12345678901234567890}`, string(got))
}

func TestCanonicalize_NoHTMLEscaping(t *testing.T) {
	got, err := canonical.Canonicalize(map[string]any{"name": "Tom & Jerry <Cafe>", "note": "é\n"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Tom & Jerry <Cafe>","note":"é\n"}`, string(got))
}

type record map[string]any

func TestCanonicalize_NamedTypesAndStructs(t *testing.T) {
	type payload struct {
		Zeta  string `json:"zeta"`
		Alpha int    `json:"alpha"`
	}

	got, err := canonical.Canonicalize(record{"p": payload{Zeta: "z", Alpha: 1}, "a": []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x"],"p":{"alpha":1,"zeta":"z"}}`, string(got))
}

func TestDecode_RejectsTrailingData(t *testing.T) {
	_, err := canonical.Decode([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}
