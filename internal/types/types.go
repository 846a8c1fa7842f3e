// Maintained by hand from pricefeed.api: Price.Price is a json.Number, which
// the .api syntax cannot express. Do not overwrite with goctl output.

package types

import (
	"encoding/json"

	"pricefeed-api/pkg/prices"
)

type ErrorResp struct {
	Detail string `json:"detail"`
}

type HealthResp struct {
	Status string `json:"status"`
}

// Price renders the decimal as a JSON number using its exact string form.
type Price struct {
	Ticker string      `json:"ticker"`
	Price  json.Number `json:"price"`
	TsUnix int64       `json:"ts_unix"`
}

type PriceLatestReq struct {
	Ticker string `form:"ticker"`
}

type PriceListReq struct {
	Ticker string `form:"ticker"`
	Limit  int    `form:"limit,default=1000"`
	Offset int    `form:"offset,default=0"`
}

type PriceRangeReq struct {
	Ticker string `form:"ticker"`
	FromTs string `form:"from_ts,optional"`
	ToTs   string `form:"to_ts,optional"`
}

func NewPrice(s prices.Sample) Price {
	return Price{
		Ticker: s.Ticker,
		Price:  json.Number(s.Price.String()),
		TsUnix: s.TsUnix,
	}
}

func NewPrices(samples []prices.Sample) []Price {
	out := make([]Price, 0, len(samples))
	for _, s := range samples {
		out = append(out, NewPrice(s))
	}
	return out
}
