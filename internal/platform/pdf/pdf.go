package pdf

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"dsar/internal/domain/dsar"
)

// Generator renders DSAR response documents to a local directory and returns
// a public reference under /documents.
type Generator struct {
	dir        string
	publicPath string
}

func New(dir string) *Generator {
	return &Generator{dir: dir, publicPath: "/documents"}
}

func (g *Generator) Generate(ctx context.Context, spec dsar.DocumentSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("dsar-response-%s-%s.pdf", spec.RequestID, spec.GeneratedAt.Format("20060102"))
	filePath := filepath.Join(g.dir, fileName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "GDPR Data Subject Access Request Response")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Request ID: %s", spec.RequestID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s", spec.GeneratedAt.Format("02 January 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Request Type: %s", spec.RequestType))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Requester Information")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Name: %s", spec.RequesterName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", spec.RequesterEmail))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Personal Data We Hold")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Based on your request, we have identified the following personal data:")
	pdf.Ln(8)
	writeDataRow(pdf, "Email", spec.RequesterEmail)
	writeDataRow(pdf, "Name", spec.RequesterName)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Your Rights")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Under GDPR, you have the following rights:")
	pdf.Ln(6)
	for _, right := range []string{
		"Right to access your data",
		"Right to rectification",
		"Right to erasure",
		"Right to data portability",
	} {
		pdf.Cell(0, 6, "- "+right)
		pdf.Ln(5)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated on %s", spec.GeneratedAt.Format("02 January 2006 15:04 MST")))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return path.Join(g.publicPath, fileName), nil
}

func writeDataRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(45, 6, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}
