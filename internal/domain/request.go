package domain

// ExtractRequest is one label-extraction invocation: the uploaded image plus
// an optional external record loaded from an accompanying CSV.
type ExtractRequest struct {
	Filename string
	Image    []byte
	External map[string]string
}

// ExtractResult carries the staged records produced by the pipeline.
// Secondary is nil when no external record was supplied.
type ExtractResult struct {
	Primary   MergedRecord   `json:"primary_staged_json"`
	Secondary MergedRecord   `json:"secondary_staged_json"`
	Refined   map[string]any `json:"final_refined_json"`
}
