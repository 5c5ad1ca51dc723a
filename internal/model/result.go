package model

// SimilarClaim is a candidate relative returned by the similarity index
type SimilarClaim struct {
	ClaimID    string  `json:"claim_id"`
	Similarity float64 `json:"similarity"` // 1/(1+L2); useful for ranking, not calibrated
}

// Result is the complete per-claim engine output. It is always returned,
// even when processing degraded; Error records the cause when one occurred.
type Result struct {
	ClaimID            string         `json:"claim_id"`
	SimilarClaimsCount int            `json:"similar_claims_count"`
	SimilarClaims      []SimilarClaim `json:"similar_claims"`
	MutationFamily     []FamilyMember `json:"mutation_family"`
	PatientZero        *Claim         `json:"patient_zero,omitempty"`
	Analysis           FamilyStats    `json:"analysis"`
	SpreadPrediction   Prediction     `json:"spread_prediction"`
	ViralScore         float64        `json:"viral_score"`
	IndexSize          int            `json:"index_size"`
	Error              string         `json:"error,omitempty"`
}
