// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package prices

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"pricefeed-api/internal/svc"
	"pricefeed-api/internal/types"
)

type PriceLatestLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPriceLatestLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PriceLatestLogic {
	return &PriceLatestLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PriceLatestLogic) PriceLatest(req *types.PriceLatestReq) (resp *types.Price, err error) {
	sample, err := l.svcCtx.Query.GetLatest(l.ctx, req.Ticker)
	if err != nil {
		return nil, err
	}
	price := types.NewPrice(sample)
	return &price, nil
}
