package data_adaptor

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cheng762/stolen-report/common"
)

// RawCollection 上游 summary 接口里的一条集合记录（只挑了用到的字段），全部可缺省
type RawCollection struct {
	PrimaryContract string `json:"primaryContract"`
	ContractAddress string `json:"contract_address"`
	Contract        string `json:"contract"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	ImageURL        string `json:"imageUrl"`

	Total         Count  `json:"total"`
	FloorPrice    Amount `json:"floorPrice"`
	FloorAskPrice Amount `json:"floorAskPrice"`
	TokenCount    Count  `json:"tokenCount"`

	Volume          *Windows `json:"volume"`
	VolumeChange    *Windows `json:"volumeChange"`
	FloorSale       *Windows `json:"floorSale"`
	FloorSaleChange *Windows `json:"floorSaleChange"`

	// 被盗记录的链上信息，上游不一定返回
	AssetContract string         `json:"-"`
	ChainActivity *ChainActivity `json:"chain_activity,omitempty"`
}

// ChainActivity 最早发现时间和攻击者（接收方）地址
type ChainActivity struct {
	FirstTime time.Time `json:"firstTime"`
	Receivers []string  `json:"receivers"`
}

// Windows 按时间窗口（1day/7day/30day）统计的数值
type Windows struct {
	Day1  Amount `json:"1day"`
	Day7  Amount `json:"7day"`
	Day30 Amount `json:"30day"`
}

// UnmarshalJSON 逐字段解析，类型不对的字段直接当作缺失，整条记录不会报错
func (c *RawCollection) UnmarshalJSON(data []byte) error {
	*c = RawCollection{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	c.PrimaryContract = text(fields["primaryContract"])
	c.ContractAddress = text(fields["contract_address"])
	c.Contract = text(fields["contract"])
	c.ID = text(fields["id"])
	c.Name = text(fields["name"])
	c.ImageURL = text(fields["imageUrl"])

	_ = c.Total.UnmarshalJSON(fields["total"])
	_ = c.FloorPrice.UnmarshalJSON(fields["floorPrice"])
	_ = c.FloorAskPrice.UnmarshalJSON(fields["floorAskPrice"])
	_ = c.TokenCount.UnmarshalJSON(fields["tokenCount"])

	c.Volume = windows(fields["volume"])
	c.VolumeChange = windows(fields["volumeChange"])
	c.FloorSale = windows(fields["floorSale"])
	c.FloorSaleChange = windows(fields["floorSaleChange"])

	c.AssetContract = assetContract(fields["asset_contract"])
	c.ChainActivity = chainActivity(fields["chain_activity"])
	return nil
}

func assetContract(raw json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	return text(fields["address"])
}

// chainActivity firstTime 可以是毫秒时间戳或时间字符串；receivers 里非字符串的元素跳过
func chainActivity(raw json.RawMessage) *ChainActivity {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	a := &ChainActivity{FirstTime: firstTime(fields["firstTime"])}

	var receivers []json.RawMessage
	if err := json.Unmarshal(fields["receivers"], &receivers); err == nil {
		for _, r := range receivers {
			if addr := text(r); addr != "" {
				a.Receivers = append(a.Receivers, addr)
			}
		}
	}
	return a
}

func firstTime(raw json.RawMessage) time.Time {
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms <= 0 || ms > math.MaxInt64/2 {
			return time.Time{}
		}
		return time.UnixMilli(int64(ms)).UTC()
	}
	if s := text(raw); s != "" {
		if t, err := common.ParseTime(s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func text(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func windows(raw json.RawMessage) *Windows {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	w := &Windows{}
	_ = w.Day1.UnmarshalJSON(fields["1day"])
	_ = w.Day7.UnmarshalJSON(fields["7day"])
	_ = w.Day30.UnmarshalJSON(fields["30day"])
	return w
}

// Address 合约地址，按 primaryContract、contract_address、contract 顺序取第一个非空
func (c RawCollection) Address() string {
	for _, v := range []string{c.PrimaryContract, c.ContractAddress, c.Contract} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Floor 地板价，floorPrice 优先，其次 floorAskPrice
func (c RawCollection) Floor() Amount {
	if c.FloorPrice.Valid {
		return c.FloorPrice
	}
	return c.FloorAskPrice
}

// Amount 宽松解析的十进制数：接受 JSON 数字或字符串，null/空/无法解析/超出 float64 范围都视为缺失
type Amount struct {
	decimal.NullDecimal
}

func NewAmount(s string) Amount {
	var a Amount
	a.parse(s)
	return a
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	a.parse(string(unquote(data)))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(a.Decimal.String())), nil
}

func (a *Amount) parse(s string) {
	d, err := decimal.NewFromString(s)
	if err != nil || math.IsInf(d.InexactFloat64(), 0) {
		*a = Amount{}
		return
	}
	a.Decimal, a.Valid = d, true
}

// Float 缺失时返回 nil
func (a Amount) Float() *float64 {
	if !a.Valid {
		return nil
	}
	f := a.Decimal.InexactFloat64()
	return &f
}

// Count 宽松解析的整数，小数会被截断；负数、超出 int64 和无法解析视为缺失
type Count struct {
	Value int64
	Valid bool
}

func (c *Count) UnmarshalJSON(data []byte) error {
	*c = Count{}
	d, err := decimal.NewFromString(string(unquote(data)))
	if err != nil || d.IsNegative() || d.GreaterThan(maxCount) {
		return nil
	}
	c.Value, c.Valid = d.IntPart(), true
	return nil
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Value, 10)), nil
}

func unquote(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return bytes.TrimSpace(data[1 : len(data)-1])
	}
	return data
}

// summaryEnvelope 有的部署返回 {"collections": [...]}
type summaryEnvelope struct {
	Collections []RawCollection `json:"collections"`
}

var (
	_ json.Unmarshaler = (*RawCollection)(nil)
	_ json.Unmarshaler = (*Amount)(nil)
	_ json.Unmarshaler = (*Count)(nil)
)
