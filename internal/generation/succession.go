package generation

import "github.com/CoolCerebralTech/mirathi-roadmap/internal/domain"

// StandardSuccessionProvider serves the built-in succession blueprint set.
// Production deployments plug in their own TemplateProvider; this one keeps
// the CLI and tests self-contained.
type StandardSuccessionProvider struct{}

func (StandardSuccessionProvider) Blueprints(caseID string) ([]TaskBlueprint, error) {
	return StandardSuccessionBlueprints(), nil
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// StandardSuccessionBlueprints is the default task plan for an ordinary
// succession case: identity and family verification, asset inventory, court
// filing with gazette notice, confirmation hearing, distribution and closure.
func StandardSuccessionBlueprints() []TaskBlueprint {
	return []TaskBlueprint{
		{
			Code:                     "obtain-death-certificate",
			Title:                    "Obtain certified death certificate",
			Description:              "Request a certified copy of the death certificate from the civil registry.",
			Category:                 domain.CategoryIdentity,
			Priority:                 domain.PriorityCritical,
			EstimatedDurationMinutes: 480,
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofDocumentUpload},
			DueInDays:                intPtr(14),
			OrderIndex:               1,
		},
		{
			Code:                     "verify-executor-identity",
			Title:                    "Verify executor identity documents",
			Category:                 domain.CategoryIdentity,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 240,
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofDocumentUpload},
			OrderIndex:               2,
		},
		{
			Code:                     "map-family-tree",
			Title:                    "Document heirs and family relationships",
			Category:                 domain.CategoryFamily,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 960,
			DependsOnCodes:           []string{"obtain-death-certificate"},
			OrderIndex:               3,
		},
		{
			Code:                     "collect-heir-consents",
			Title:                    "Collect consent forms from all heirs",
			Category:                 domain.CategoryFamily,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 1440,
			DependsOnCodes:           []string{"map-family-tree"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofDocumentUpload, domain.ProofAffidavit},
			OrderIndex:               4,
		},
		{
			Code:                     "inventory-assets",
			Title:                    "Compile full asset and liability inventory",
			Category:                 domain.CategoryAssets,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 1920,
			DependsOnCodes:           []string{"obtain-death-certificate"},
			OrderIndex:               5,
		},
		{
			Code:                     "valuate-estate",
			Title:                    "Obtain professional estate valuation",
			Category:                 domain.CategoryAssets,
			Priority:                 domain.PriorityMedium,
			EstimatedDurationMinutes: 960,
			DependsOnCodes:           []string{"inventory-assets"},
			Mandatory:                boolPtr(false),
			OrderIndex:               6,
		},
		{
			Code:                     "prepare-petition-forms",
			Title:                    "Prepare succession petition forms",
			Category:                 domain.CategoryForms,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 480,
			DependsOnCodes:           []string{"collect-heir-consents", "inventory-assets"},
			OrderIndex:               7,
		},
		{
			Code:                     "file-petition",
			Title:                    "File petition with the court",
			Category:                 domain.CategoryFiling,
			Priority:                 domain.PriorityCritical,
			EstimatedDurationMinutes: 240,
			DependsOnCodes:           []string{"prepare-petition-forms", "verify-executor-identity"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofCourtStamp, domain.ProofPaymentReceipt},
			OrderIndex:               8,
		},
		{
			Code:                     "publish-gazette-notice",
			Title:                    "Publish succession notice in the gazette",
			Category:                 domain.CategoryGazette,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 480,
			DependsOnCodes:           []string{"file-petition"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofGazetteNotice},
			OrderIndex:               9,
		},
		{
			Code:                     "attend-confirmation-hearing",
			Title:                    "Attend grant confirmation hearing",
			Category:                 domain.CategoryCourt,
			Priority:                 domain.PriorityCritical,
			EstimatedDurationMinutes: 480,
			DependsOnCodes:           []string{"publish-gazette-notice"},
			OrderIndex:               10,
		},
		{
			Code:                     "obtain-grant",
			Title:                    "Obtain confirmed grant of representation",
			Category:                 domain.CategoryCourt,
			Priority:                 domain.PriorityCritical,
			EstimatedDurationMinutes: 240,
			DependsOnCodes:           []string{"attend-confirmation-hearing"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofCourtStamp},
			OrderIndex:               11,
		},
		{
			Code:                     "settle-debts",
			Title:                    "Settle estate debts and taxes",
			Category:                 domain.CategoryDistribution,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 1440,
			DependsOnCodes:           []string{"obtain-grant"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofPaymentReceipt},
			OrderIndex:               12,
		},
		{
			Code:                     "distribute-assets",
			Title:                    "Distribute assets to heirs",
			Category:                 domain.CategoryDistribution,
			Priority:                 domain.PriorityCritical,
			EstimatedDurationMinutes: 1920,
			DependsOnCodes:           []string{"settle-debts"},
			OrderIndex:               13,
		},
		{
			Code:                     "file-final-accounts",
			Title:                    "File final accounts with the court",
			Category:                 domain.CategoryClosure,
			Priority:                 domain.PriorityHigh,
			EstimatedDurationMinutes: 480,
			DependsOnCodes:           []string{"distribute-assets"},
			RequiresProof:            true,
			AllowedProofTypes:        []domain.ProofType{domain.ProofDocumentUpload},
			OrderIndex:               14,
		},
		{
			Code:                     "close-estate",
			Title:                    "Close the estate",
			Category:                 domain.CategoryClosure,
			Priority:                 domain.PriorityMedium,
			EstimatedDurationMinutes: 240,
			DependsOnCodes:           []string{"file-final-accounts"},
			OrderIndex:               15,
		},
	}
}
