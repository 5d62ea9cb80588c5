package request_models

import "time"

type CreateJobRequest struct {
	Title           string     `json:"title" binding:"required,min=3,max=150"`
	Description     string     `json:"description" binding:"required"`
	Location        string     `json:"location" binding:"required,max=120"`
	Salary          string     `json:"salary" binding:"max=80"`
	JobType         string     `json:"jobType" binding:"required,oneof=full-time part-time contract internship remote"`
	ExperienceLevel string     `json:"experienceLevel" binding:"required,oneof=entry mid senior executive"`
	Industry        string     `json:"industry" binding:"required,max=80"`
	Deadline        *time.Time `json:"deadline"`
	Plan            string     `json:"plan" binding:"required,oneof=free standard premium"`
}

type JobFilter struct {
	Keyword         string `form:"keyword"`
	Location        string `form:"location"`
	JobType         string `form:"jobType"`
	ExperienceLevel string `form:"experienceLevel"`
	Industry        string `form:"industry"`
	CompanyID       string `form:"companyId"`
	Page            int    `form:"page"`
	PageSize        int    `form:"pageSize"`
}

type CreateIndustryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=80"`
}
