// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package prices

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"pricefeed-api/internal/logic/prices"
	"pricefeed-api/internal/svc"
	"pricefeed-api/internal/types"
	pricespkg "pricefeed-api/pkg/prices"
)

func PriceListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PriceListReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, pricespkg.InvalidParam("query", err))
			return
		}

		l := prices.NewPriceListLogic(r.Context(), svcCtx)
		resp, err := l.PriceList(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
