// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package prices

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/internal/svc"
	"pricefeed-api/internal/types"
)

type PriceListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPriceListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PriceListLogic {
	return &PriceListLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PriceListLogic) PriceList(req *types.PriceListReq) (resp []types.Price, err error) {
	samples, err := l.svcCtx.Query.GetAll(l.ctx, req.Ticker, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	return types.NewPrices(samples), nil
}
