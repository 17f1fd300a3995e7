package domain

import "github.com/shopspring/decimal"

type DailyOrders struct {
	Date   string          `json:"date"`
	Orders int64           `json:"orders"`
	Sales  decimal.Decimal `json:"sales"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Summary struct {
	Buyers            int64           `json:"buyers"`
	Orders            int64           `json:"orders"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	DailyOrders       []DailyOrders   `json:"dailyOrders"`
	ProductCategories []CategoryCount `json:"productCategories"`
}
