package domain

// PolicyInput is the document under mint-eligibility evaluation.
type PolicyInput struct {
	Document    Document `json:"document"`
	LandTokenID uint64   `json:"land_token_id"`
}

type PolicyDeny struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type PolicyResult struct {
	Allow bool         `json:"allow"`
	Deny  []PolicyDeny `json:"deny,omitempty"`
}

type PolicyEvaluation struct {
	BundleID   string       `json:"bundle_id,omitempty"`
	BundleHash string       `json:"bundle_hash"`
	Result     PolicyResult `json:"result"`
}
