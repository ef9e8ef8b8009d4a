package types

type Side string

type TradeStatus string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"

	TradeStateOpen   TradeStatus = "OPEN"
	TradeStateClosed TradeStatus = "CLOSED"
)
