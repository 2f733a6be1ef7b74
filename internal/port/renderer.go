package port

// ReportRenderer converts assembled report text into a paginated binary
// document. The cover and table-of-contents blocks are each followed by a
// forced page break.
type ReportRenderer interface {
	Render(cover, toc, body string) ([]byte, error)
}
