package models

import (
	"time"

	"tmyreport/internal/psm3"
	"tmyreport/internal/tmy"
)

// Dataset source kinds
const (
	SourceTMY3 = "TMY3"
	SourcePSM3 = "PSM3"
)

// SiteInfo summarizes a loaded dataset
type SiteInfo struct {
	Label          string  `json:"label"`
	Name           string  `json:"name"`
	Source         string  `json:"source"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Elevation      float64 `json:"elevation"`
	UTCOffsetHours float64 `json:"utc_offset_hours"`
	Rows           int     `json:"rows"`
	Columns        int     `json:"columns"`
	Convention     string  `json:"convention"`
}

// SourceData holds the datasets loaded for one report run
type SourceData struct {
	Timestamp time.Time     `json:"timestamp"`
	Local     *tmy.Dataset  `json:"-"`
	Remote    *psm3.Dataset `json:"-"`
	Sites     []SiteInfo    `json:"sites"`
}

// HasRemote reports whether a remote dataset was loaded
func (s *SourceData) HasRemote() bool {
	return s != nil && s.Remote != nil
}

// NewLocalSite describes a TMY3 dataset
func NewLocalSite(label string, ds *tmy.Dataset) SiteInfo {
	name := ds.Metadata.Name
	if ds.Metadata.State != "" {
		name += ", " + ds.Metadata.State
	}
	return SiteInfo{
		Label:          label,
		Name:           name,
		Source:         SourceTMY3,
		Latitude:       ds.Metadata.Latitude,
		Longitude:      ds.Metadata.Longitude,
		Elevation:      ds.Metadata.Altitude,
		UTCOffsetHours: ds.Metadata.TZ,
		Rows:           ds.Frame.Len(),
		Columns:        ds.Frame.NumColumns(),
		Convention:     ds.Frame.Convention().String(),
	}
}

// NewRemoteSite describes a PSM3 dataset
func NewRemoteSite(label string, ds *psm3.Dataset) SiteInfo {
	site := ds.Metadata.Site
	name := site.City
	if name == "" || name == "-" {
		name = site.LocationID
	}
	return SiteInfo{
		Label:          label,
		Name:           name,
		Source:         SourcePSM3,
		Latitude:       site.Latitude,
		Longitude:      site.Longitude,
		Elevation:      site.Elevation,
		UTCOffsetHours: site.TimeZone,
		Rows:           ds.Frame.Len(),
		Columns:        ds.Frame.NumColumns(),
		Convention:     ds.Frame.Convention().String(),
	}
}
