package models

// DashboardStats are the headline counters on the dashboard.
type DashboardStats struct {
	TotalBids           int     `json:"totalBids"`
	OpenBids            int     `json:"openBids"`
	ClosingSoon         int     `json:"closingSoon"`
	AwardedBids         int     `json:"awardedBids"`
	TotalBudget         float64 `json:"totalBudget"`
	TotalUsers          int     `json:"totalUsers"`
	ActiveUsers         int     `json:"activeUsers"`
	UnreadNotifications int     `json:"unreadNotifications"`
	FetchSuccessRate    float64 `json:"fetchSuccessRate"`
	GeneratedAt         string  `json:"generatedAt"`
}

type ChartPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ChartSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type DashboardCharts struct {
	BidTrend             []ChartPoint `json:"bidTrend"`
	CategoryDistribution []ChartSlice `json:"categoryDistribution"`
	StatusDistribution   []ChartSlice `json:"statusDistribution"`
	RegionDistribution   []ChartSlice `json:"regionDistribution"`
}

type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	User        string `json:"user,omitempty"`
	Timestamp   string `json:"timestamp"`
}

type TimelineItem struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	Type             string `json:"type"` // deadline
	Status           string `json:"status"`
	BusinessDaysLeft int    `json:"businessDaysLeft"`
}

// Statistics is the admin statistics screen for one period.
type Statistics struct {
	Period        string              `json:"period"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Users         UserStatistics      `json:"users"`
	Bids          BidStatistics       `json:"bids"`
	Fetch         FetchStatistics     `json:"fetch"`
	Notifications NotificationTallies `json:"notifications"`
	GeneratedAt   string              `json:"generatedAt"`
}

type UserStatistics struct {
	Total  int            `json:"total"`
	Active int            `json:"active"`
	New    int            `json:"new"`
	ByRole map[string]int `json:"byRole"`
}

type BidStatistics struct {
	Total      int            `json:"total"`
	New        int            `json:"new"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
}

type FetchStatistics struct {
	Total       int     `json:"total"`
	Success     int     `json:"success"`
	Failed      int     `json:"failed"`
	Items       int     `json:"items"`
	SuccessRate float64 `json:"successRate"`
}

type NotificationTallies struct {
	Sent   int `json:"sent"`
	Read   int `json:"read"`
	Unread int `json:"unread"`
}
