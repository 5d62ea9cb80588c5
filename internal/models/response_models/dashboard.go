package response_models

import "time"

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month", bucketed in Kenya time
	Interval string `json:"interval"`
}

type KPIBlock struct {
	TotalUsers         int64 `json:"totalUsers"`
	NewUsers           int64 `json:"newUsers"`
	TotalCompanies     int64 `json:"totalCompanies"`
	LiveJobs           int64 `json:"liveJobs"`
	PendingPaymentJobs int64 `json:"pendingPaymentJobs"`
	Subscribers        int64 `json:"subscribers"`
	CompletedPayments  int64 `json:"completedPayments"`
	FailedPayments     int64 `json:"failedPayments"`
	RevenueKES         int64 `json:"revenueKes"`
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type RevenueSeries struct {
	Currency string        `json:"currency"`
	Points   []SeriesPoint `json:"points"`
	Total    int64         `json:"total"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
}

type PlanMixItem struct {
	PlanCode string  `json:"planCode"`
	Count    int64   `json:"count"`
	Percent  float64 `json:"percent"`
}

type TopIndustry struct {
	Industry string `json:"industry"`
	Count    int64  `json:"count"`
}

type RecentPayment struct {
	Reference   string     `json:"reference"`
	CompletedAt *time.Time `json:"completedAt"`
	Amount      int64      `json:"amount"`
	Plan        string     `json:"plan"`
	Provider    string     `json:"provider"`
	Receipt     string     `json:"receipt"`
}

type DashboardReport struct {
	Range          TimeRange       `json:"range"`
	KPIs           KPIBlock        `json:"kpis"`
	Revenue        RevenueSeries   `json:"revenue"`
	NewUsers       CountSeries     `json:"newUsers"`
	NewJobs        CountSeries     `json:"newJobs"`
	PlanMix        []PlanMixItem   `json:"planMix"`
	TopIndustries  []TopIndustry   `json:"topIndustries"`
	RecentPayments []RecentPayment `json:"recentPayments"`
}
