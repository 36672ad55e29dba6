package data_adaptor

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawCollection_DecodesFullRecord(t *testing.T) {
	raw := `{
		"primaryContract": "0xabc",
		"id": "bayc",
		"name": "Bored Ape",
		"imageUrl": "https://img/ape.png",
		"total": 12,
		"floorPrice": "31.5",
		"tokenCount": "10000",
		"volume": {"1day": 100.25, "7day": "700", "30day": null},
		"floorSaleChange": {"1day": "0.1"}
	}`

	var c RawCollection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, "0xabc", c.Address())
	assert.Equal(t, "bayc", c.ID)
	assert.Equal(t, "Bored Ape", c.Name)
	assert.Equal(t, Count{Value: 12, Valid: true}, c.Total)
	assert.Equal(t, Count{Value: 10000, Valid: true}, c.TokenCount)
	require.True(t, c.Floor().Valid)
	assert.Equal(t, "31.5", c.Floor().Decimal.String())

	require.NotNil(t, c.Volume)
	assert.Equal(t, 100.25, *c.Volume.Day1.Float())
	assert.Equal(t, 700.0, *c.Volume.Day7.Float())
	assert.Nil(t, c.Volume.Day30.Float())
	assert.Nil(t, c.VolumeChange)
	require.NotNil(t, c.FloorSaleChange)
	assert.Nil(t, c.FloorSaleChange.Day7.Float())
}

func TestRawCollection_AddressFallbacks(t *testing.T) {
	assert.Equal(t, "0x1", RawCollection{ContractAddress: "0x1", Contract: "0x2"}.Address())
	assert.Equal(t, "0x2", RawCollection{Contract: "0x2"}.Address())
	assert.Equal(t, "", RawCollection{}.Address())
}

func TestRawCollection_FloorPrefersFloorPrice(t *testing.T) {
	c := RawCollection{FloorPrice: NewAmount("1"), FloorAskPrice: NewAmount("2")}
	assert.Equal(t, "1", c.Floor().Decimal.String())

	c = RawCollection{FloorAskPrice: NewAmount("2.0")}
	assert.True(t, c.Floor().Decimal.Equal(NewAmount("2").Decimal))

	assert.False(t, RawCollection{}.Floor().Valid)
}

func TestRawCollection_MalformedFieldsBecomeAbsent(t *testing.T) {
	raw := `{
		"primaryContract": 42,
		"name": ["not", "a", "string"],
		"total": "lots",
		"floorPrice": "abc",
		"floorAskPrice": {},
		"tokenCount": -5,
		"volume": "big",
		"floorSale": [1, 2, 3]
	}`

	var c RawCollection
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, RawCollection{}, c)
}

func TestRawCollection_NonObjectIsEmpty(t *testing.T) {
	var list []RawCollection
	require.NoError(t, json.Unmarshal([]byte(`[null, 7, "x", {"contract": "0xA"}]`), &list))

	require.Len(t, list, 4)
	assert.Equal(t, RawCollection{}, list[0])
	assert.Equal(t, RawCollection{}, list[1])
	assert.Equal(t, RawCollection{}, list[2])
	assert.Equal(t, "0xA", list[3].Address())
}

func TestCount_TruncatesFractions(t *testing.T) {
	var c Count
	require.NoError(t, c.UnmarshalJSON([]byte(`3.9`)))
	assert.Equal(t, Count{Value: 3, Valid: true}, c)
}

func TestAmount_MarshalRoundTrip(t *testing.T) {
	in := RawCollection{Contract: "0xA", FloorAskPrice: NewAmount("2.5"), Total: Count{Value: 4, Valid: true}}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out RawCollection
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "0xA", out.Address())
	assert.Equal(t, "2.5", out.Floor().Decimal.String())
	assert.Equal(t, int64(4), out.Total.Value)
	assert.False(t, out.FloorPrice.Valid)
}

func TestCount_RejectsInt64Overflow(t *testing.T) {
	var c Count
	require.NoError(t, c.UnmarshalJSON([]byte(`"10000000000000000000"`)))
	assert.Equal(t, Count{}, c)

	require.NoError(t, c.UnmarshalJSON([]byte(`9223372036854775807`)))
	assert.Equal(t, Count{Value: math.MaxInt64, Valid: true}, c)
}

func TestAmount_NonFiniteIsAbsent(t *testing.T) {
	assert.False(t, NewAmount("1e400").Valid)
	assert.False(t, NewAmount("-1e400").Valid)
	assert.True(t, NewAmount("1e300").Valid)

	var c RawCollection
	require.NoError(t, json.Unmarshal([]byte(`{"floorPrice": 1e400, "floorAskPrice": "3"}`), &c))
	assert.Equal(t, "3", c.Floor().Decimal.String())
}

func TestRawCollection_ChainActivity(t *testing.T) {
	var c RawCollection
	require.NoError(t, json.Unmarshal([]byte(`{
		"contract": "0xcol",
		"asset_contract": {"address": "0xtoken"},
		"chain_activity": {"firstTime": "2024-03-02", "receivers": ["0xbad", null]}
	}`), &c))

	assert.Equal(t, "0xtoken", c.AssetContract)
	require.NotNil(t, c.ChainActivity)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), c.ChainActivity.FirstTime)
	assert.Equal(t, []string{"0xbad"}, c.ChainActivity.Receivers)

	require.NoError(t, json.Unmarshal([]byte(`{"asset_contract": "0xtoken", "chain_activity": {"firstTime": -1}}`), &c))
	assert.Empty(t, c.AssetContract)
	require.NotNil(t, c.ChainActivity)
	assert.True(t, c.ChainActivity.FirstTime.IsZero())
	assert.Nil(t, c.ChainActivity.Receivers)
}
