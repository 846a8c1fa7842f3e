// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package prices

import (
	"context"
	"strconv"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/internal/svc"
	"pricefeed-api/internal/types"
	pricespkg "pricefeed-api/pkg/prices"
)

type PriceRangeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPriceRangeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PriceRangeLogic {
	return &PriceRangeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PriceRangeLogic) PriceRange(req *types.PriceRangeReq) (resp []types.Price, err error) {
	fromTs, err := parseBound("from_ts", req.FromTs)
	if err != nil {
		return nil, err
	}
	toTs, err := parseBound("to_ts", req.ToTs)
	if err != nil {
		return nil, err
	}
	samples, err := l.svcCtx.Query.GetRange(l.ctx, req.Ticker, fromTs, toTs)
	if err != nil {
		return nil, err
	}
	return types.NewPrices(samples), nil
}

// parseBound treats an absent or empty value as an open bound.
func parseBound(name, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pricespkg.InvalidParam(name, err)
	}
	return &v, nil
}
