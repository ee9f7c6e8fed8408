package models

import "time"

// MonthlySummaryRow is one line of monthly_summary.csv
type MonthlySummaryRow struct {
	Month       string  `csv:"month" json:"month"`
	LocalGHI    float64 `csv:"local_ghi_wh_m2" json:"local_ghi_wh_m2"`
	RemoteGHI   float64 `csv:"remote_ghi_wh_m2" json:"remote_ghi_wh_m2"`
	DryBulbMean float64 `csv:"drybulb_mean_c" json:"drybulb_mean_c"`
	WspdMean    float64 `csv:"wspd_mean_m_s" json:"wspd_mean_m_s"`
}

// ReportInfo describes a stored report folder
type ReportInfo struct {
	Folder    string    `json:"folder"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}
