package dto

import "time"

type UserSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

type Statistics struct {
	TotalUsers        int64 `json:"total_users"`
	TotalPatients     int64 `json:"total_patients"`
	TotalDoctors      int64 `json:"total_doctors"`
	TotalRecords      int64 `json:"total_records"`
	TotalAppointments int64 `json:"total_appointments"`
	TotalMetrics      int64 `json:"total_metrics"`
}

type StatisticsResponse struct {
	Statistics Statistics `json:"statistics"`
}

type AuditLogEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	RecordID  *uint     `json:"record_id,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
}

type AuditLogResponse struct {
	Logs []AuditLogEntry `json:"logs"`
}

type PatientSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Age      *int   `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type PatientSearchResponse struct {
	Patients []PatientSummary `json:"patients"`
}
