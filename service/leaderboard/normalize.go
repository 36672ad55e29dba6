package leaderboard

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cheng762/stolen-report/service/data_adaptor"
)

// Record 展示用的集合数据，由 Normalize 生成，之后不再修改
type Record struct {
	ContractAddress string `json:"contractAddress"`
	NavigationPath  string `json:"navigationPath"`
	ID              string `json:"id,omitempty"`
	ImageURL        string `json:"imageUrl"`
	DisplayName     string `json:"displayName"`

	StolenCount    int64    `json:"stolenCount"`
	EstimatedValue float64  `json:"estimatedValue"`
	FloorPrice     *float64 `json:"floorPrice"`
	Supply         *int64   `json:"supply"`

	Volume          Windows `json:"volume"`
	VolumeChange    Windows `json:"volumeChange"`
	FloorSale       Windows `json:"floorSale"`
	FloorSaleChange Windows `json:"floorSaleChange"`

	ScamActivity *ScamActivity `json:"scamActivity,omitempty"`
}

// ScamActivity 详情页 "Scam Activity" 区块
type ScamActivity struct {
	FirstSeen *time.Time `json:"firstSeen"`
	Attackers []Attacker `json:"attackers"`
}

type Attacker struct {
	Address string `json:"address"`
	URL     string `json:"url"`
}

const etherscanToken = "https://etherscan.io/token/"

// AttackerURL 攻击者地址在该 token 合约下的 etherscan 页面
func AttackerURL(tokenContract, receiver string) string {
	return etherscanToken + tokenContract + "?a=" + receiver
}

type Windows struct {
	Day1  *float64 `json:"1day"`
	Day7  *float64 `json:"7day"`
	Day30 *float64 `json:"30day"`
}

// CollectionPath 详情页路径
func CollectionPath(contract string) string {
	return "/collections/" + contract
}

// Normalize 把上游记录转成展示记录；缺失字段一律取默认值，不报错
func Normalize(raw data_adaptor.RawCollection) Record {
	contract := raw.Address()
	floor := raw.Floor()

	r := Record{
		ContractAddress: contract,
		NavigationPath:  CollectionPath(contract),
		ID:              raw.ID,
		ImageURL:        raw.ImageURL,
		DisplayName:     raw.Name,
		FloorPrice:      floor.Float(),
		Volume:          windows(raw.Volume),
		VolumeChange:    windows(raw.VolumeChange),
		FloorSale:       windows(raw.FloorSale),
		FloorSaleChange: windows(raw.FloorSaleChange),
		ScamActivity:    scamActivity(raw),
	}
	if raw.Total.Valid {
		r.StolenCount = raw.Total.Value
	}
	if raw.TokenCount.Valid {
		supply := raw.TokenCount.Value
		r.Supply = &supply
	}

	// 没有地板价（或 <= 0）时估值为 0，不做乘法；乘积超出 float64 也按 0 处理
	if floor.Valid && floor.Decimal.IsPositive() && r.StolenCount > 0 {
		v := floor.Decimal.Mul(decimal.NewFromInt(r.StolenCount)).InexactFloat64()
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			r.EstimatedValue = v
		}
	}
	return r
}

func windows(w *data_adaptor.Windows) Windows {
	if w == nil {
		return Windows{}
	}
	return Windows{
		Day1:  w.Day1.Float(),
		Day7:  w.Day7.Float(),
		Day30: w.Day30.Float(),
	}
}

func scamActivity(raw data_adaptor.RawCollection) *ScamActivity {
	if raw.ChainActivity == nil {
		return nil
	}
	token := raw.AssetContract
	if token == "" {
		token = raw.Address()
	}

	a := &ScamActivity{Attackers: make([]Attacker, 0, len(raw.ChainActivity.Receivers))}
	if t := raw.ChainActivity.FirstTime; !t.IsZero() {
		a.FirstSeen = &t
	}
	for _, receiver := range raw.ChainActivity.Receivers {
		a.Attackers = append(a.Attackers, Attacker{Address: receiver, URL: AttackerURL(token, receiver)})
	}
	return a
}
