package request_models

// JobAlertRequest either names a stored job or carries the job inline.
type JobAlertRequest struct {
	JobID       string `json:"jobId"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
}

type NotifyJobPostedRequest struct {
	JobID string `json:"jobId" binding:"required,uuid"`
}

type ContactMessageRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type SubscribeRequest struct {
	Email      string   `json:"email" binding:"required,email"`
	Industries []string `json:"industries" binding:"required,min=1,dive,required,max=80"`
	Location   string   `json:"location" binding:"max=120"`
}
