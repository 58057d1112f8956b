package generated

import (
	"time"

	"portfolio-backend/internal/portfolio"
)

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	ParsedData   *portfolio.ResumeData `json:"parsed_data"`
	Template     string                `json:"template"`
	FrontendType string                `json:"frontend_type"`
}

// ToDomain converts the body into a GenerationRequest.
func (r GenerateRequest) ToDomain() portfolio.GenerationRequest {
	sel := portfolio.ParseSelection(r.Template, r.FrontendType)
	return portfolio.GenerationRequest{
		ResumeData:   r.ParsedData,
		TemplateID:   sel.TemplateID,
		FrontendType: sel.FrontendType,
	}
}

// PortfolioResponse is the history view of a generated archive.
type PortfolioResponse struct {
	ID           string    `json:"id"`
	Template     string    `json:"template"`
	FrontendType string    `json:"frontend_type"`
	ResumeName   string    `json:"resume_name"`
	ArchiveName  string    `json:"archive_name"`
	SizeBytes    int64     `json:"size_bytes"`
	FileCount    int       `json:"file_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPortfolioResponse(p Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:           p.ID,
		Template:     string(p.TemplateID),
		FrontendType: string(p.FrontendType),
		ResumeName:   p.ResumeName,
		ArchiveName:  p.ArchiveName,
		SizeBytes:    p.SizeBytes,
		FileCount:    p.FileCount,
		CreatedAt:    p.CreatedAt,
	}
}
