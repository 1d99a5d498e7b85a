package transfer

type CaptionRewriteRequest struct {
	Caption     string `json:"caption" validate:"required"`
	Instruction string `json:"instruction"`
}

type CaptionEditRequest struct {
	Caption     string `json:"caption" validate:"required"`
	Instruction string `json:"instruction" validate:"required"`
}

type CaptionVariation struct {
	ID      int    `json:"id"`
	Caption string `json:"caption"`
	Tone    string `json:"tone"`
}

type CaptionRewriteResult struct {
	Variations []CaptionVariation `json:"variations"`
	Count      int                `json:"count"`
}

type CaptionEditResult struct {
	Caption     string `json:"caption"`
	Explanation string `json:"explanation"`
}
