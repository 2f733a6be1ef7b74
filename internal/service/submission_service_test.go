package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pargen/internal/config"
	"pargen/internal/domain"
	"pargen/internal/port"
	"pargen/internal/service"
	"pargen/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 50,
		PresignExpiry: 3600,
	}
}

// createMultipartFile creates a fake multipart file header and content for testing.
func createMultipartFile(filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/pdf")

	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content) + 1024))
	file, _ := form.File["file"][0].Open()
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 test content that is at least a few bytes long")
}

func TestSubmissionService_CreateSubmission_FillsPlaceholders(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	file1, header1 := createMultipartFile("Transcript.pdf", pdfContent())
	defer file1.Close()
	file2, header2 := createMultipartFile("IntakeForm_Results.pdf", pdfContent())
	defer file2.Close()

	var uploadedKeys []string
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			uploadedKeys = append(uploadedKeys, args.Get(1).(port.UploadInput).Key)
		}).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/x"}, nil)
	storage.On("Exists", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(true, nil).Twice()
	subRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)
	jobRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReportJob")).Return(nil)

	sub, job, err := svc.CreateSubmission(context.Background(), []service.SubmissionUpload{
		{File: file1, Header: header1},
		{File: file2, Header: header2},
	})

	require.NoError(t, err)
	require.NotNil(t, sub)
	require.NotNil(t, job)
	assert.Equal(t, sub.ID, job.SubmissionID)
	assert.Equal(t, domain.JobStatusPending, job.Status)

	// Two real uploads plus seven placeholders.
	assert.Len(t, uploadedKeys, len(domain.RequiredInputSlots))

	inputs, err := sub.Inputs()
	require.NoError(t, err)
	assert.Len(t, inputs, len(domain.RequiredInputSlots))
	for _, slot := range domain.RequiredInputSlots {
		assert.Contains(t, inputs, slot)
		assert.Equal(t, "uploads/"+sub.ID.String()+"/"+slot, inputs[slot])
	}

	subRepo.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestSubmissionService_CreateSubmission_RejectsBadExtension(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	file, header := createMultipartFile("Transcript.docx", []byte("not a pdf"))
	defer file.Close()

	_, _, err := svc.CreateSubmission(context.Background(), []service.SubmissionUpload{
		{File: file, Header: header},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmissionService_CreateSubmission_RejectsOversizedFile(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	cfg.MaxFileSizeMB = 0
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	file, header := createMultipartFile("Transcript.pdf", pdfContent())
	defer file.Close()

	_, _, err := svc.CreateSubmission(context.Background(), []service.SubmissionUpload{
		{File: file, Header: header},
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmissionService_CreateSubmission_FailsWhenUploadNotVerified(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	file, header := createMultipartFile("Transcript.pdf", pdfContent())
	defer file.Close()

	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)
	storage.On("Exists", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(false, nil)

	_, _, err := svc.CreateSubmission(context.Background(), []service.SubmissionUpload{
		{File: file, Header: header},
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	jobRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmissionService_ResultURL_Success(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	submissionID := uuid.New()
	outputKey := submissionID.String() + "/" + domain.OutputFileName
	jobRepo.On("GetBySubmissionID", mock.Anything, submissionID).Return(&domain.ReportJob{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       domain.JobStatusSuccess,
		OutputKey:    outputKey,
	}, nil)
	storage.On("Exists", mock.Anything, "test-bucket", outputKey).Return(true, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", outputKey, int64(3600)).
		Return("https://signed.example/report", nil)

	url, err := svc.ResultURL(context.Background(), submissionID)

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/report", url)
	storage.AssertExpectations(t)
}

func TestSubmissionService_ResultURL_NotReady(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	submissionID := uuid.New()
	jobRepo.On("GetBySubmissionID", mock.Anything, submissionID).Return(&domain.ReportJob{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       domain.JobStatusRunning,
	}, nil)

	_, err := svc.ResultURL(context.Background(), submissionID)

	assert.ErrorIs(t, err, domain.ErrReportNotReady)
	storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionService_ResultURL_Failed(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	submissionID := uuid.New()
	jobRepo.On("GetBySubmissionID", mock.Anything, submissionID).Return(&domain.ReportJob{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       domain.JobStatusFailure,
		Error:        "generation failed",
	}, nil)

	_, err := svc.ResultURL(context.Background(), submissionID)

	assert.ErrorIs(t, err, domain.ErrJobFailed)
}

func TestSubmissionService_DownloadReport_NotReady(t *testing.T) {
	subRepo := new(mocks.MockSubmissionRepo)
	jobRepo := new(mocks.MockReportJobRepo)
	storage := new(mocks.MockObjectStorage)
	cfg := testS3Config()
	svc := service.NewSubmissionService(subRepo, jobRepo, storage, &cfg)

	submissionID := uuid.New()
	jobRepo.On("GetBySubmissionID", mock.Anything, submissionID).Return(&domain.ReportJob{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		Status:       domain.JobStatusPending,
	}, nil)

	_, err := svc.DownloadReport(context.Background(), submissionID)

	assert.ErrorIs(t, err, domain.ErrReportNotReady)
	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmission_InputsRoundTrip(t *testing.T) {
	sub := &domain.Submission{ID: uuid.New()}
	want := map[string]string{"Transcript.pdf": "uploads/x/Transcript.pdf"}
	require.NoError(t, sub.SetInputs(want))

	var raw map[string]string
	require.NoError(t, json.Unmarshal(sub.InputKeys, &raw))
	assert.Equal(t, want, raw)

	got, err := sub.Inputs()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
