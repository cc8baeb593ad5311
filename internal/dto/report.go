package dto

import "time"

// ReportParams selects the period of a report. From and To together override Period.
type ReportParams struct {
	Period   string     `form:"period,default=month" binding:"omitempty,oneof=day week month quarter year"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Category string     `form:"category"`
}

// ListActivitiesParams filters the activity feed.
type ListActivitiesParams struct {
	Source string     `form:"source" binding:"omitempty,oneof=order worker"`
	From   *time.Time `form:"from" time_format:"2006-01-02"`
	To     *time.Time `form:"to" time_format:"2006-01-02"`
	Limit  int        `form:"limit,default=50"`
}
