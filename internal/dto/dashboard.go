package dto

// StartupDashboard aggregates a startup's posted work.
type StartupDashboard struct {
	TotalTasks         int `json:"totalTasks"`
	OpenTasks          int `json:"openTasks"`
	TasksInReview      int `json:"tasksInReview"`
	CompletedTasks     int `json:"completedTasks"`
	PendingSubmissions int `json:"pendingSubmissions"`
}

// StudentDashboard aggregates a student's activity across tasks.
type StudentDashboard struct {
	ActiveTasks        int `json:"activeTasks"`
	CompletedTasks     int `json:"completedTasks"`
	PendingSubmissions int `json:"pendingSubmissions"`
	CertificatesEarned int `json:"certificatesEarned"`
}
