package handler_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pargen/internal/config"
	"pargen/internal/domain"
	"pargen/internal/handler"
	"pargen/internal/router"
	"pargen/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{CookieName: "pargen_session", MaxAgeSecs: 86400},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func setupRouter(svc *mocks.MockSubmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	submissionH := handler.NewSubmissionHandler(svc, &cfg.Session)
	healthH := handler.NewHealthHandler(nil)
	return router.Setup(cfg, submissionH, healthH)
}

func multipartBody(t *testing.T, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile(name, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func sessionCookie(id uuid.UUID) *http.Cookie {
	return &http.Cookie{Name: "pargen_session", Value: id.String()}
}

func TestSubmit_RedirectsToProcessing(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	sub := &domain.Submission{ID: uuid.New()}
	job := &domain.ReportJob{ID: uuid.New(), SubmissionID: sub.ID, Status: domain.JobStatusPending}
	svc.On("CreateSubmission", mock.Anything, mock.Anything).Return(sub, job, nil)

	body, contentType := multipartBody(t, "Transcript.pdf", "IntakeForm_Results.pdf")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/processing", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	found := false
	for _, c := range cookies {
		if c.Name == "pargen_session" {
			assert.Equal(t, sub.ID.String(), c.Value)
			found = true
		}
	}
	assert.True(t, found, "session cookie not set")
	svc.AssertExpectations(t)
}

func TestSubmit_UnsupportedFileType(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	svc.On("CreateSubmission", mock.Anything, mock.Anything).
		Return(nil, nil, domain.ErrUnsupportedFileType)

	body, contentType := multipartBody(t, "Transcript.docx")
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FILE_TYPE")
}

func TestProcessing_NoCookieRedirectsHome(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/processing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestProcessing_RunningJobRendersPollingView(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("GetJob", mock.Anything, id).Return(&domain.ReportJob{
		SubmissionID: id, Status: domain.JobStatusRunning,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/processing", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestProcessing_SuccessRedirectsToResults(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("GetJob", mock.Anything, id).Return(&domain.ReportJob{
		SubmissionID: id, Status: domain.JobStatusSuccess,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/processing", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/results", w.Header().Get("Location"))
}

func TestProcessing_FailureRendersErrorView(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("GetJob", mock.Anything, id).Return(&domain.ReportJob{
		SubmissionID: id, Status: domain.JobStatusFailure, Error: "boom",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/processing", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed")
	// Internal error detail never reaches the user.
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestHealthz_ReportsService(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"pargen"`)
}

func TestResults_FailedJobRendersErrorView(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("ResultURL", mock.Anything, id).Return("", domain.ErrJobFailed)

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed")
}

func TestResults_IssuesRetrievalLink(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("ResultURL", mock.Anything, id).Return("https://signed.example/report.pdf", nil)

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed.example/report.pdf")
}

func TestResults_NotReadyRedirectsToProcessing(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("ResultURL", mock.Anything, id).Return("", domain.ErrReportNotReady)

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/processing", w.Header().Get("Location"))
}

func TestDownload_StreamsAttachment(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("DownloadReport", mock.Anything, id).Return([]byte("%PDF-report-bytes"), nil)

	req := httptest.NewRequest(http.MethodGet, "/download_file", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, fmt.Sprintf("attachment; filename=%q", domain.OutputFileName),
		w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-report-bytes", w.Body.String())
}

func TestTestS3_ReportsProbeResult(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	svc.On("StorageProbe", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/test_s3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.ExpectedCalls = nil
	svc.On("StorageProbe", mock.Anything).Return(fmt.Errorf("no connectivity")).Once()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatus_ReportsJobState(t *testing.T) {
	svc := new(mocks.MockSubmissionService)
	r := setupRouter(svc)

	id := uuid.New()
	svc.On("GetJob", mock.Anything, id).Return(&domain.ReportJob{
		SubmissionID: id, Status: domain.JobStatusSuccess,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.AddCookie(sessionCookie(id))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
	assert.Contains(t, w.Body.String(), "true")
}
