package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// buildProposalExportData fetches a proposal and its items and assembles the
// export payload shared by the Excel and PDF generators.
func buildProposalExportData(app *pocketbase.PocketBase, proposalID string) (services.ExportData, error) {
	record, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("proposal not found: %w", err)
	}

	items, _, err := loadProposalItems(app, proposalID)
	if err != nil {
		return services.ExportData{}, err
	}

	createdDate := ""
	if dt := record.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("Jan 2, 2006")
	}

	return services.BuildExportData(
		record.GetString("title"),
		record.GetString("client_name"),
		createdDate,
		items,
		record.GetFloat("markup_rate"),
	), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleProposalExportExcel generates and downloads the proposal workbook.
func HandleProposalExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if proposalID == "" {
			return e.String(http.StatusBadRequest, "Missing proposal ID")
		}

		data, err := buildProposalExportData(app, proposalID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Proposal_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleProposalExportPDF generates and downloads the proposal PDF.
func HandleProposalExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if proposalID == "" {
			return e.String(http.StatusBadRequest, "Missing proposal ID")
		}

		data, err := buildProposalExportData(app, proposalID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		pdfBytes, err := services.GenerateProposalPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Proposal_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
