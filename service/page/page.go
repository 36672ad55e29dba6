package page

import (
	"html/template"
	"time"

	"github.com/cheng762/stolen-report/common"
	"github.com/cheng762/stolen-report/config"
	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/leaderboard"
)

const (
	ReportTemplate     = "report.html"
	CollectionTemplate = "collection.html"
	ErrorTemplate      = "error.html"

	defaultTagline = "Discover, stolen NFTs"
	titleSuffix    = " - Stolen NFTs Explorer"
)

// Meta <head> 里的信息
type Meta struct {
	Title       string
	Description string
	Image       string
}

type ReportData struct {
	Meta    Meta
	Tagline string
	Footer  string
	Date    string
	BuiltAt string
	Records int
	Views   leaderboard.Views
}

type CollectionData struct {
	Meta   Meta
	Footer string
	Date   string
	Record leaderboard.Record
	// 展示用的窗口数据，顺序为 1D / 7D / 30D
	Rows []WindowRow
}

type WindowRow struct {
	Label           string
	Volume          *float64
	VolumeChange    *float64
	FloorSale       *float64
	FloorSaleChange *float64
	// 当前地板价相对该窗口成交地板价的变化，缺数据时为 nil
	FloorDelta *float64
}

func windowRow(label string, floor, volume, volumeChange, floorSale, floorSaleChange *float64) WindowRow {
	row := WindowRow{
		Label:           label,
		Volume:          volume,
		VolumeChange:    volumeChange,
		FloorSale:       floorSale,
		FloorSaleChange: floorSaleChange,
	}
	if floor != nil && floorSale != nil && *floor != 0 && *floorSale != 0 {
		d := common.FloorDelta(floor, floorSale)
		row.FloorDelta = &d
	}
	return row
}

func metaFor(cfg config.PageConfig, now time.Time) Meta {
	m := Meta{Description: cfg.MetaDescription, Image: cfg.MetaImage}
	if cfg.MetaTitle != "" {
		m.Title = cfg.MetaTitle + " " + common.DateString(now) + titleSuffix
	}
	return m
}

func NewReport(cfg config.PageConfig, snap *board.Snapshot, now time.Time) ReportData {
	tagline := cfg.Tagline
	if tagline == "" {
		tagline = defaultTagline
	}
	return ReportData{
		Meta:    metaFor(cfg, now),
		Tagline: tagline,
		Footer:  cfg.Footer,
		Date:    common.DateString(now),
		BuiltAt: snap.BuiltAt.Format(time.RFC3339Nano),
		Records: len(snap.Records),
		Views:   snap.Views,
	}
}

func NewCollection(cfg config.PageConfig, r leaderboard.Record, now time.Time) CollectionData {
	meta := metaFor(cfg, now)
	if r.DisplayName != "" {
		meta.Title = r.DisplayName + titleSuffix
	}
	if r.ImageURL != "" {
		meta.Image = r.ImageURL
	}
	return CollectionData{
		Meta:   meta,
		Footer: cfg.Footer,
		Date:   common.DateString(now),
		Record: r,
		Rows: []WindowRow{
			windowRow("1D", r.FloorPrice, r.Volume.Day1, r.VolumeChange.Day1, r.FloorSale.Day1, r.FloorSaleChange.Day1),
			windowRow("7D", r.FloorPrice, r.Volume.Day7, r.VolumeChange.Day7, r.FloorSale.Day7, r.FloorSaleChange.Day7),
			windowRow("30D", r.FloorPrice, r.Volume.Day30, r.VolumeChange.Day30, r.FloorSale.Day30, r.FloorSaleChange.Day30),
		},
	}
}

var funcs = template.FuncMap{
	"eth": func(v float64) string { return common.FormatFloatWithComma(v, 2) },
	"ethPtr": func(v *float64) string {
		return common.FormatEth(v, 2)
	},
	"count":   common.FormatCount,
	"percent": common.FormatPercentage,
	"supply": func(v *int64) string {
		if v == nil {
			return "-"
		}
		return common.FormatIntWithComma(*v)
	},
	"last": func(i, n int) bool { return i == n-1 },
	"date": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return common.DateString(*t)
	},
	"shortAddr": common.TruncateAddress,
}

// Templates 给 gin 的 SetHTMLTemplate 用
func Templates() *template.Template {
	t := template.New("").Funcs(funcs)
	template.Must(t.New("head").Parse(headPartial))
	template.Must(t.New(ReportTemplate).Parse(reportPage))
	template.Must(t.New(CollectionTemplate).Parse(collectionPage))
	template.Must(t.New(ErrorTemplate).Parse(errorPage))
	return t
}
