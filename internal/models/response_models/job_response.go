package response_models

import "autumhire/internal/models/db_models"

type JobListResponse struct {
	Items    []db_models.Job `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}
