package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type listingProvider interface {
	List(ctx context.Context, opts ListOptions) ([]models.Article, error)
}

// ExportResult is a rendered listing ready to be served as a download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the article listing as CSV or PDF.
type ExportService struct {
	articles listingProvider
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewExportService constructs an ExportService.
func NewExportService(articles listingProvider) *ExportService {
	return &ExportService{
		articles: articles,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

var csvHeaders = []string{
	"doi", "link", "title", "year", "category",
	"problem_description", "solution_description", "result", "problems",
	"additional_notes", "addition_date", "submitted_by",
}

// The PDF is a condensed overview; narrative fields do not fit a table row.
var pdfHeaders = []string{"doi", "title", "year", "category", "addition_date", "submitted_by"}

// Render produces the listing in the requested format, honoring the same
// sort and filter options as the listing endpoint.
func (s *ExportService) Render(ctx context.Context, format string, opts ListOptions) (*ExportResult, error) {
	articles, err := s.articles.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(export.Table{Headers: csvHeaders, Rows: tableRows(articles)})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    "articles-" + stamp + ".csv",
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(export.Table{Headers: pdfHeaders, Rows: tableRows(articles)}, "Knowledge Base Articles")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    "articles-" + stamp + ".pdf",
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func tableRows(articles []models.Article) []map[string]string {
	rows := make([]map[string]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, map[string]string{
			"doi":                  a.DOI,
			"link":                 a.Link,
			"title":                a.Title,
			"year":                 strconv.Itoa(a.Year),
			"category":             strings.Join(a.Categories, "; "),
			"problem_description":  a.ProblemDescription,
			"solution_description": a.SolutionDescription,
			"result":               a.Result,
			"problems":             a.Problems,
			"additional_notes":     a.AdditionalNotes,
			"addition_date":        a.AdditionDate.Format(time.RFC3339),
			"submitted_by":         a.SubmittedBy,
		})
	}
	return rows
}
