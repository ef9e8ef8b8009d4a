package repository

import (
	"context"
	"time"

	"tradesim/types"
)

var bucketToInterval = map[types.Interval]string{
	types.OneMinute:      "1 minute",
	types.FiveMinutes:    "5 minutes",
	types.FifteenMinutes: "15 minutes",
	types.ThirtyMinutes:  "30 minutes",
	types.Hour:           "1 hour",
	types.FourHours:      "4 hours",
	types.Day:            "1 day",
	types.Week:           "1 week",
}

const barsQuery = `
SELECT time_bucket($1::interval, ts) AS bucket,
       first(open, ts)               AS open,
       max(high)                     AS high,
       min(low)                      AS low,
       last(close, ts)               AS close,
       sum(volume)                   AS volume
FROM candles
WHERE asset_id = $2 AND ts >= $3 AND ts < $4
GROUP BY bucket
ORDER BY bucket`

// GetBars loads the aggregated bar series for one asset and timeframe.
func (db *Database) GetBars(ctx context.Context, assetID int, ticker string, interval types.Interval, start, end time.Time) ([]types.Bar, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}

	rows, err := db.conn.Query(ctx, barsQuery, bucket, assetID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []types.Bar
	for rows.Next() {
		bar := types.Bar{Symbol: ticker, Interval: interval}
		if err := rows.Scan(&bar.Timestamp, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	return bars, nil
}
