package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pargen/internal/config"
	"pargen/internal/domain"
	"pargen/internal/service"
)

// SubmissionHandler handles the browser-facing intake and retrieval flow.
type SubmissionHandler struct {
	submissions service.SubmissionService
	session     *config.SessionConfig
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions service.SubmissionService, session *config.SessionConfig) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, session: session}
}

// Index handles GET / and renders the upload form.
func (h *SubmissionHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Slots": domain.RequiredInputSlots,
	})
}

// Submit handles POST /. It validates the uploads, creates the submission, and
// redirects to the processing view with the submission id in a cookie.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	var uploads []service.SubmissionUpload
	for _, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not open uploaded file")
				return
			}
			defer file.Close()
			uploads = append(uploads, service.SubmissionUpload{File: file, Header: header})
		}
	}

	sub, job, err := h.submissions.CreateSubmission(c.Request.Context(), uploads)
	if err != nil {
		HandleError(c, err)
		return
	}
	log.Printf("submissionHandler.Submit: submission %s accepted, job %s", sub.ID, job.ID)

	c.SetCookie(h.session.CookieName, sub.ID.String(), h.session.MaxAgeSecs, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/processing")
}

// Processing handles GET /processing, the polling view. It renders a
// refresh page while the job runs, redirects to /results on success, and
// renders the error view on failure.
func (h *SubmissionHandler) Processing(c *gin.Context) {
	submissionID, ok := h.submissionFromCookie(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	job, err := h.submissions.GetJob(c.Request.Context(), submissionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	switch job.Status {
	case domain.JobStatusSuccess:
		c.Redirect(http.StatusSeeOther, "/results")
	case domain.JobStatusFailure:
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Message": "Report generation failed. Please try again.",
		})
	default:
		c.HTML(http.StatusOK, "processing.html", gin.H{
			"Status": string(job.Status),
		})
	}
}

// Status handles GET /status, a JSON view of the current job state for
// script-driven polling.
func (h *SubmissionHandler) Status(c *gin.Context) {
	submissionID, ok := h.submissionFromCookie(c)
	if !ok {
		RespondError(c, http.StatusNotFound, "NO_SUBMISSION", "no active submission")
		return
	}

	job, err := h.submissions.GetJob(c.Request.Context(), submissionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": job.Status, "terminal": job.Status.Terminal()})
}

// Results handles GET /results. It issues a time-limited retrieval link for
// the rendered report. A job still running sends the user back to the
// processing view.
func (h *SubmissionHandler) Results(c *gin.Context) {
	submissionID, ok := h.submissionFromCookie(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	url, err := h.submissions.ResultURL(c.Request.Context(), submissionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReportNotReady):
			c.Redirect(http.StatusSeeOther, "/processing")
		case errors.Is(err, domain.ErrJobFailed):
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{
				"Message": "Report generation failed. Please try again.",
			})
		default:
			HandleError(c, err)
		}
		return
	}

	c.HTML(http.StatusOK, "results.html", gin.H{
		"DownloadURL": url,
	})
}

// Download handles GET /download_file and streams the report as an attachment.
func (h *SubmissionHandler) Download(c *gin.Context) {
	submissionID, ok := h.submissionFromCookie(c)
	if !ok {
		RespondError(c, http.StatusNotFound, "NO_SUBMISSION", "no active submission")
		return
	}

	data, err := h.submissions.DownloadReport(c.Request.Context(), submissionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", domain.OutputFileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// TestS3 handles GET /test_s3, an object storage connectivity probe.
func (h *SubmissionHandler) TestS3(c *gin.Context) {
	if err := h.submissions.StorageProbe(c.Request.Context()); err != nil {
		log.Printf("submissionHandler.TestS3: probe failed: %v", err)
		RespondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "object storage not reachable")
		return
	}
	RespondOK(c, gin.H{"storage": "ok"})
}

// submissionFromCookie reads and parses the submission id cookie.
func (h *SubmissionHandler) submissionFromCookie(c *gin.Context) (uuid.UUID, bool) {
	val, err := c.Cookie(h.session.CookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
