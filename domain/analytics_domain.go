package domain

var (
	MessageSuccessGetDashboard = "dashboard analytics retrieved successfully"
	MessageSuccessGetTrends    = "trend analysis retrieved successfully"

	MessageFailedGetDashboard = "failed to retrieve dashboard analytics"
	MessageFailedGetTrends    = "failed to retrieve trend analysis"
)

const (
	TrendWindowDays  = 30
	TopPerformersMax = 5
)

type (
	DashboardStats struct {
		TotalIncidents    int64    `json:"total_incidents"`
		ActiveComplaints  int64    `json:"active_complaints"`
		ResolvedIssues    int64    `json:"resolved_issues"`
		AvgResolutionTime *float64 `json:"avg_resolution_time"`
	}

	CategoryPerformance struct {
		Category    string  `json:"category"`
		Total       int64   `json:"total"`
		Resolved    int64   `json:"resolved"`
		Performance float64 `json:"performance"`
	}

	PriorityCount struct {
		Priority string `json:"priority"`
		Count    int64  `json:"count"`
	}

	CompanyPerformance struct {
		Company        string  `json:"company"`
		Total          int64   `json:"total"`
		Resolved       int64   `json:"resolved"`
		ResolutionRate float64 `json:"resolution_rate"`
	}

	DashboardResponse struct {
		Stats               DashboardStats        `json:"stats"`
		CategoryPerformance []CategoryPerformance `json:"category_performance"`
		IssueDistribution   []PriorityCount       `json:"issue_distribution"`
		TopPerformers       []CompanyPerformance  `json:"top_performers"`
	}

	TrendPoint struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
)
