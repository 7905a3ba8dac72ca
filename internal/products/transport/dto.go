package transport

import (
	"time"

	"outreach_backend/internal/products/repository"
)

type FewShotDTO struct {
	Context string `json:"context" validate:"required,min=1"`
	Hook    string `json:"hook" validate:"required,min=1"`
	Subject string `json:"subject" validate:"required,min=1"`
	Body    string `json:"body" validate:"required,min=1"`
}

type CreateProductRequest struct {
	ID                      string       `json:"id" validate:"required,min=1,max=100,lowercase"`
	Name                    string       `json:"name" validate:"required,min=1,max=200"`
	Description             string       `json:"description" validate:"required,min=1,max=2000"`
	ValueProps              []string     `json:"valueProps,omitempty" validate:"omitempty,dive,min=1,max=500"`
	TargetAudience          string       `json:"targetAudience" validate:"required,min=1,max=500"`
	EnrichmentQueryTemplate string       `json:"enrichmentQueryTemplate" validate:"required,min=1,max=1000"`
	EmailSystemPrompt       string       `json:"emailSystemPrompt" validate:"required,min=1"`
	PainPoints              []string     `json:"painPoints,omitempty" validate:"omitempty,dive,min=1,max=500"`
	AntiPatterns            []string     `json:"antiPatterns,omitempty" validate:"omitempty,dive,min=1,max=500"`
	FewShotExamples         []FewShotDTO `json:"fewShotExamples,omitempty" validate:"omitempty,dive"`
}

type UpdateProductRequest struct {
	Name                    string       `json:"name" validate:"required,min=1,max=200"`
	Description             string       `json:"description" validate:"required,min=1,max=2000"`
	ValueProps              []string     `json:"valueProps,omitempty" validate:"omitempty,dive,min=1,max=500"`
	TargetAudience          string       `json:"targetAudience" validate:"required,min=1,max=500"`
	EnrichmentQueryTemplate string       `json:"enrichmentQueryTemplate" validate:"required,min=1,max=1000"`
	EmailSystemPrompt       string       `json:"emailSystemPrompt" validate:"required,min=1"`
	PainPoints              []string     `json:"painPoints,omitempty" validate:"omitempty,dive,min=1,max=500"`
	AntiPatterns            []string     `json:"antiPatterns,omitempty" validate:"omitempty,dive,min=1,max=500"`
	FewShotExamples         []FewShotDTO `json:"fewShotExamples,omitempty" validate:"omitempty,dive"`
}

type ProductResponse struct {
	ID                      string       `json:"id"`
	Name                    string       `json:"name"`
	Description             string       `json:"description"`
	ValueProps              []string     `json:"valueProps"`
	TargetAudience          string       `json:"targetAudience"`
	EnrichmentQueryTemplate string       `json:"enrichmentQueryTemplate"`
	EmailSystemPrompt       string       `json:"emailSystemPrompt"`
	PainPoints              []string     `json:"painPoints"`
	AntiPatterns            []string     `json:"antiPatterns"`
	FewShotExamples         []FewShotDTO `json:"fewShotExamples"`
	IsDefault               bool         `json:"isDefault"`
	CreatedAt               string       `json:"createdAt"`
	UpdatedAt               string       `json:"updatedAt"`
}

func ToProductResponse(p repository.Product) ProductResponse {
	shots := make([]FewShotDTO, 0, len(p.FewShotExamples))
	for _, shot := range p.FewShotExamples {
		shots = append(shots, FewShotDTO(shot))
	}
	return ProductResponse{
		ID:                      p.ID,
		Name:                    p.Name,
		Description:             p.Description,
		ValueProps:              p.ValueProps,
		TargetAudience:          p.TargetAudience,
		EnrichmentQueryTemplate: p.EnrichmentQueryTemplate,
		EmailSystemPrompt:       p.EmailSystemPrompt,
		PainPoints:              p.PainPoints,
		AntiPatterns:            p.AntiPatterns,
		FewShotExamples:         shots,
		IsDefault:               p.IsDefault,
		CreatedAt:               p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               p.UpdatedAt.Format(time.RFC3339),
	}
}

func ToFewShots(dtos []FewShotDTO) []repository.FewShot {
	shots := make([]repository.FewShot, 0, len(dtos))
	for _, dto := range dtos {
		shots = append(shots, repository.FewShot(dto))
	}
	return shots
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
