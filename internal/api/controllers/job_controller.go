package controllers

import (
	"github.com/gin-gonic/gin"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

type JobController struct {
	jobService services.JobServiceInterface
}

func NewJobController(jobService services.JobServiceInterface) *JobController {
	return &JobController{jobService: jobService}
}

// CreateJob godoc
// @Summary Post a job
// @Description Free jobs go live immediately. Paid plans wait in pending_payment until the STK push completes.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body request_models.CreateJobRequest true "Job"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	var req request_models.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	job, err := jc.jobService.Post(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, job, "Job posted")
}

// ListJobs godoc
// @Summary Browse live jobs
// @Tags Jobs
// @Produce json
// @Param keyword query string false "Free text"
// @Param location query string false "Location"
// @Param jobType query string false "Job type"
// @Param experienceLevel query string false "Experience level"
// @Param industry query string false "Industry"
// @Param companyId query string false "Company ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /api/jobs [get]
func (jc *JobController) ListJobs(c *gin.Context) {
	var filter request_models.JobFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}

	resp, err := jc.jobService.List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Jobs fetched successfully")
}

// GetJob godoc
// @Summary Job details
// @Description Only live jobs are public; the owning company also sees its pending and closed jobs.
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/jobs/{id} [get]
func (jc *JobController) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := jc.jobService.Get(c.Request.Context(), optionalActor(c), jobID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, job, "Job fetched successfully")
}

// CloseJob godoc
// @Summary Close a job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/jobs/{id}/close [post]
func (jc *JobController) CloseJob(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := jc.jobService.Close(c.Request.Context(), userID, jobID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": jobID.String(), "status": "closed"}, "Job closed")
}

// DeactivateJob godoc
// @Summary Take a job down
// @Tags Admin
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/admin/jobs/{id}/deactivate [post]
func (jc *JobController) DeactivateJob(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := jc.jobService.Deactivate(c.Request.Context(), jobID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"id": jobID.String(), "status": "deactivated_by_admin"}, "Job deactivated")
}
