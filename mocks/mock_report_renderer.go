package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockReportRenderer is a mock implementation of port.ReportRenderer.
type MockReportRenderer struct {
	mock.Mock
}

func (m *MockReportRenderer) Render(cover, toc, body string) ([]byte, error) {
	args := m.Called(cover, toc, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
