package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"pricefeed-api/pkg/prices"
)

const (
	priceSamplesTable = "price_samples"
	priceSamplesRows  = "id, ticker, price, ts_unix"
	priceSamplesOrder = "ORDER BY ts_unix ASC, id ASC"
)

var _ PriceSamplesModel = (*customPriceSamplesModel)(nil)

type (
	// PriceSamplesModel is the append-only price store backed by Postgres.
	PriceSamplesModel interface {
		prices.Store
	}

	customPriceSamplesModel struct {
		conn  sqlx.SqlConn
		table string
	}

	// PriceSampleRow maps one price_samples row.
	PriceSampleRow struct {
		Id     int64           `db:"id"`
		Ticker string          `db:"ticker"`
		Price  decimal.Decimal `db:"price"`
		TsUnix int64           `db:"ts_unix"`
	}
)

// NewPriceSamplesModel returns a model for the price_samples table.
func NewPriceSamplesModel(conn sqlx.SqlConn) PriceSamplesModel {
	return &customPriceSamplesModel{
		conn:  conn,
		table: priceSamplesTable,
	}
}

func (r PriceSampleRow) sample() prices.Sample {
	return prices.Sample{ID: r.Id, Ticker: r.Ticker, Price: r.Price, TsUnix: r.TsUnix}
}

func (m *customPriceSamplesModel) Append(ctx context.Context, ticker string, price decimal.Decimal, tsUnix int64) (prices.Sample, error) {
	// RETURNING the row hands back the price as rounded by the NUMERIC column.
	query := fmt.Sprintf("INSERT INTO %s (ticker, price, ts_unix) VALUES ($1, $2, $3) RETURNING %s",
		m.table, priceSamplesRows)
	var row PriceSampleRow
	if err := m.conn.QueryRowCtx(ctx, &row, query, ticker, price, tsUnix); err != nil {
		return prices.Sample{}, prices.StorageUnavailable("price_samples.Append", err)
	}
	return row.sample(), nil
}

func (m *customPriceSamplesModel) ListByTicker(ctx context.Context, ticker string, limit, offset int) ([]prices.Sample, error) {
	if err := prices.CheckPage(limit, offset); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE ticker = $1 %s LIMIT $2 OFFSET $3",
		priceSamplesRows, m.table, priceSamplesOrder)
	return m.queryRows(ctx, "price_samples.ListByTicker", query, ticker, limit, offset)
}

func (m *customPriceSamplesModel) Latest(ctx context.Context, ticker string) (prices.Sample, bool, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE ticker = $1 ORDER BY ts_unix DESC, id DESC LIMIT 1",
		priceSamplesRows, m.table)
	var row PriceSampleRow
	err := m.conn.QueryRowCtx(ctx, &row, query, ticker)
	switch {
	case err == nil:
		return row.sample(), true, nil
	case errors.Is(err, sqlx.ErrNotFound):
		return prices.Sample{}, false, nil
	default:
		return prices.Sample{}, false, prices.StorageUnavailable("price_samples.Latest", err)
	}
}

func (m *customPriceSamplesModel) Range(ctx context.Context, ticker string, fromTs, toTs *int64) ([]prices.Sample, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE ticker = $1", priceSamplesRows, m.table)
	args := []any{ticker}
	if fromTs != nil {
		args = append(args, *fromTs)
		fmt.Fprintf(&sb, " AND ts_unix >= $%d", len(args))
	}
	if toTs != nil {
		args = append(args, *toTs)
		fmt.Fprintf(&sb, " AND ts_unix <= $%d", len(args))
	}
	sb.WriteString(" " + priceSamplesOrder)
	return m.queryRows(ctx, "price_samples.Range", sb.String(), args...)
}

func (m *customPriceSamplesModel) queryRows(ctx context.Context, op, query string, args ...any) ([]prices.Sample, error) {
	var rows []PriceSampleRow
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, prices.StorageUnavailable(op, err)
	}
	out := make([]prices.Sample, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.sample())
	}
	return out, nil
}
